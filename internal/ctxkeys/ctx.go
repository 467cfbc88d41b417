// Package ctxkeys carries the authenticated user and the sanitized config
// through request contexts.
package ctxkeys

import (
	"context"
	"time"

	"github.com/templui/balancewheel/internal/config"
	"github.com/templui/balancewheel/internal/model"
)

type userKey struct{}

type configKey struct{}

func User(ctx context.Context) *model.User {
	user, _ := ctx.Value(userKey{}).(*model.User)
	return user
}

func WithUser(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, user)
}

func Config(ctx context.Context) *config.Config {
	cfg, _ := ctx.Value(configKey{}).(*config.Config)
	return cfg
}

func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// Location is the timezone calendar dates are interpreted in, UTC when no
// config is attached.
func Location(ctx context.Context) *time.Location {
	if cfg := Config(ctx); cfg != nil && cfg.Location != nil {
		return cfg.Location
	}
	return time.UTC
}
