package cmd

import (
	"context"

	"github.com/templui/balancewheel/internal/app"
	"github.com/templui/balancewheel/internal/config"
	"github.com/templui/balancewheel/internal/db"
	"github.com/templui/balancewheel/internal/logger"
)

func loadConfig() *config.Config {
	cfg := config.Load()
	logger.Init(cfg)
	return cfg
}

// openApp wires the services without object storage, which no command needs.
func openApp(ctx context.Context) (*app.App, error) {
	cfg := loadConfig()
	database, err := db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, err
	}
	return app.NewWithDB(cfg, database, nil), nil
}
