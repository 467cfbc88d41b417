package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/templui/balancewheel/internal/app"
	"github.com/templui/balancewheel/internal/config"
	"github.com/templui/balancewheel/internal/db"
)

type client struct {
	t     *testing.T
	h     http.Handler
	token string
}

func newClient(t *testing.T) *client {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	dsn := filepath.Join(t.TempDir(), "test.db") + "?_pragma=foreign_keys(1)"
	conn, err := db.Open(ctx, "sqlite", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	cfg := &config.Config{
		AppName:       "Balance Wheel",
		AppEnv:        "development",
		JWTSecret:     "test-secret",
		JWTExpiry:     time.Hour,
		AuthRateLimit: 100,
		WeekStartsOn:  time.Sunday,
		Location:      time.UTC,
		SeedOnSignup:  true,
	}
	return &client{t: t, h: SetupRoutes(ctx, app.NewWithDB(cfg, conn, nil))}
}

func (c *client) do(method, path string, body any, out any) int {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if out != nil && rec.Body.Len() > 0 {
		require.NoError(c.t, json.Unmarshal(rec.Body.Bytes(), out), rec.Body.String())
	}
	return rec.Code
}

type distribution struct {
	OverallPercent int     `json:"overall_percent"`
	Remaining      float64 `json:"remaining"`
	Slices         []struct {
		Category string `json:"category"`
	} `json:"slices"`
	Error string `json:"error"`
}

func TestGoalLifecycle(t *testing.T) {
	c := newClient(t)
	creds := map[string]string{"email": "api@example.com", "password": "long enough passphrase"}

	var signup struct {
		Token  string `json:"token"`
		UserID string `json:"user_id"`
	}
	require.Equal(t, http.StatusCreated, c.do("POST", "/auth/signup", creds, &signup))
	require.NotEmpty(t, signup.Token)
	assert.Equal(t, http.StatusConflict, c.do("POST", "/auth/signup", creds, nil))

	assert.Equal(t, http.StatusUnauthorized, c.do("GET", "/api/overview", nil, nil))
	c.token = signup.Token

	// Signup seeded the current month.
	var monthly []struct {
		ID    string `json:"id"`
		Month int    `json:"month"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/api/monthly-goals", nil, &monthly))
	require.Len(t, monthly, 8)

	today := time.Now().UTC()
	var daily struct {
		ID        string `json:"id"`
		Completed bool   `json:"completed"`
	}
	require.Equal(t, http.StatusCreated, c.do("POST", "/api/daily-goals",
		map[string]any{"monthly_goal_id": monthly[0].ID, "day": today.Day()}, &daily))
	assert.False(t, daily.Completed)

	at := "?at=" + today.Format(time.DateOnly)
	var toggled struct {
		Completed bool         `json:"completed"`
		Progress  distribution `json:"progress"`
	}
	require.Equal(t, http.StatusOK, c.do("POST", "/api/daily-goals/"+daily.ID+"/toggle"+at, nil, &toggled))
	assert.True(t, toggled.Completed)
	assert.Equal(t, 13, toggled.Progress.OverallPercent)
	assert.Empty(t, toggled.Progress.Error)

	var day distribution
	require.Equal(t, http.StatusOK, c.do("GET", "/api/progress/day"+at, nil, &day))
	assert.Equal(t, 13, day.OverallPercent)
	assert.InDelta(t, 0.875, day.Remaining, 1e-12)
	require.Len(t, day.Slices, 9)
	assert.Equal(t, "remaining", day.Slices[8].Category)

	var list struct {
		Goals []struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		} `json:"goals"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/api/daily-goals?date="+today.Format(time.DateOnly), nil, &list))
	require.Len(t, list.Goals, 1)
	assert.Equal(t, daily.ID, list.Goals[0].ID)

	assert.Equal(t, http.StatusOK, c.do("PUT", "/api/daily-goals/"+daily.ID+"/completion", map[string]bool{"completed": false}, nil))
	require.Equal(t, http.StatusOK, c.do("GET", "/api/progress/today"+at, nil, &day))
	assert.Equal(t, 0, day.OverallPercent)

	var overview struct {
		Periods map[string]distribution `json:"periods"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/api/overview"+at, nil, &overview))
	assert.Len(t, overview.Periods, 5)

	var calendar struct {
		Items []struct {
			Goals int `json:"goals"`
		} `json:"items"`
	}
	require.Equal(t, http.StatusOK, c.do("GET", "/api/progress/month/calendar"+at, nil, &calendar))
	assert.Equal(t, 1, calendar.Items[today.Day()-1].Goals)

	assert.Equal(t, http.StatusNoContent, c.do("DELETE", "/api/daily-goals/"+daily.ID, nil, nil))
	assert.Equal(t, http.StatusNotFound, c.do("DELETE", "/api/daily-goals/"+daily.ID, nil, nil))
}

func TestBadRequests(t *testing.T) {
	c := newClient(t)
	var signup struct {
		Token string `json:"token"`
	}
	require.Equal(t, http.StatusCreated, c.do("POST", "/auth/signup",
		map[string]string{"email": "bad@example.com", "password": "long enough passphrase"}, &signup))
	c.token = signup.Token

	assert.Equal(t, http.StatusBadRequest, c.do("GET", "/api/progress/fortnight", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do("GET", "/api/progress/week?at=yesterday", nil, nil))
	assert.Equal(t, http.StatusBadRequest, c.do("POST", "/api/life-goals", map[string]string{"category": "hobbies", "title": "x"}, nil))
	assert.Equal(t, http.StatusUnprocessableEntity, c.do("POST", "/api/yearly-goals",
		map[string]any{"life_goal_id": "missing", "year": 2025, "title": "x"}, nil))
	assert.Equal(t, http.StatusServiceUnavailable, c.do("POST", "/api/export/snapshot", nil, nil))
	assert.Equal(t, http.StatusUnauthorized, c.do("POST", "/auth/login",
		map[string]string{"email": "bad@example.com", "password": "not the passphrase"}, nil))
}

func TestHealthz(t *testing.T) {
	c := newClient(t)
	var body map[string]string
	require.Equal(t, http.StatusOK, c.do("GET", "/healthz", nil, &body))
	assert.Equal(t, "ok", body["status"])
}
