package routes

import (
	"context"
	"net/http"

	"github.com/templui/balancewheel/internal/app"
	"github.com/templui/balancewheel/internal/handler"
	"github.com/templui/balancewheel/internal/metrics"
	"github.com/templui/balancewheel/internal/middleware"
)

// SetupRoutes builds the HTTP handler. ctx bounds background work such as
// rate-limiter cleanup.
func SetupRoutes(ctx context.Context, app *app.App) http.Handler {
	// Handlers
	auth := handler.NewAuthHandler(app.AuthService, app.UserService, app.GoalService, app.Cfg)
	goal := handler.NewGoalHandler(app.GoalService, app.ProgressService, app.Cfg)
	prog := handler.NewProgressHandler(app.ProgressService)
	export := handler.NewExportHandler(app.ExportService)
	report := handler.NewReportHandler(app.ReportService)
	health := handler.NewHealthHandler(app.DB)

	mux := http.NewServeMux()

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	mux.HandleFunc("GET /healthz", health.Healthz)
	mux.Handle("GET /metrics", metrics.Handler())

	// Auth (rate limited)
	rateLimiter := middleware.RateLimitAuth(ctx, app.Cfg.AuthRateLimit)
	mux.HandleFunc("POST /auth/signup", rateLimiter(auth.Signup))
	mux.HandleFunc("POST /auth/login", rateLimiter(auth.Login))

	// ============================================================================
	// PROTECTED ROUTES (/api/*, Bearer token)
	// ============================================================================

	// Account
	mux.HandleFunc("DELETE /api/account", middleware.RequireAuth(auth.DeleteAccount))

	// Life goals
	mux.HandleFunc("GET /api/life-goals", middleware.RequireAuth(goal.LifeGoals))
	mux.HandleFunc("POST /api/life-goals", middleware.RequireAuth(goal.CreateLifeGoal))
	mux.HandleFunc("PUT /api/life-goals/{id}", middleware.RequireAuth(goal.UpdateLifeGoal))
	mux.HandleFunc("DELETE /api/life-goals/{id}", middleware.RequireAuth(goal.DeleteLifeGoal))

	// Yearly goals
	mux.HandleFunc("GET /api/yearly-goals", middleware.RequireAuth(goal.YearlyGoals))
	mux.HandleFunc("POST /api/yearly-goals", middleware.RequireAuth(goal.CreateYearlyGoal))
	mux.HandleFunc("PUT /api/yearly-goals/{id}", middleware.RequireAuth(goal.UpdateYearlyGoal))
	mux.HandleFunc("DELETE /api/yearly-goals/{id}", middleware.RequireAuth(goal.DeleteYearlyGoal))

	// Monthly goals
	mux.HandleFunc("GET /api/monthly-goals", middleware.RequireAuth(goal.MonthlyGoals))
	mux.HandleFunc("POST /api/monthly-goals", middleware.RequireAuth(goal.CreateMonthlyGoal))
	mux.HandleFunc("PUT /api/monthly-goals/{id}", middleware.RequireAuth(goal.UpdateMonthlyGoal))
	mux.HandleFunc("DELETE /api/monthly-goals/{id}", middleware.RequireAuth(goal.DeleteMonthlyGoal))

	// Daily goals
	mux.HandleFunc("GET /api/daily-goals", middleware.RequireAuth(goal.DailyGoals))
	mux.HandleFunc("POST /api/daily-goals", middleware.RequireAuth(goal.CreateDailyGoal))
	mux.HandleFunc("DELETE /api/daily-goals/{id}", middleware.RequireAuth(goal.DeleteDailyGoal))
	mux.HandleFunc("POST /api/daily-goals/{id}/toggle", middleware.RequireAuth(goal.Toggle))
	mux.HandleFunc("PUT /api/daily-goals/{id}/completion", middleware.RequireAuth(goal.SetCompletion))
	mux.HandleFunc("POST /api/goals/seed", middleware.RequireAuth(goal.Seed))

	// Progress
	mux.HandleFunc("GET /api/progress/week/days", middleware.RequireAuth(prog.WeekDays))
	mux.HandleFunc("GET /api/progress/month/calendar", middleware.RequireAuth(prog.MonthCalendar))
	mux.HandleFunc("GET /api/progress/year/months", middleware.RequireAuth(prog.YearMonths))
	mux.HandleFunc("GET /api/progress/{period}", middleware.RequireAuth(prog.Progress))
	mux.HandleFunc("GET /api/overview", middleware.RequireAuth(prog.Overview))

	// Export and report
	mux.HandleFunc("GET /api/export", middleware.RequireAuth(export.Export))
	mux.HandleFunc("POST /api/export/snapshot", middleware.RequireAuth(export.Snapshot))
	mux.HandleFunc("POST /api/report", middleware.RequireAuth(report.Send))

	// Global middleware - executed in order (top to bottom)
	return middleware.Chain(
		mux,
		middleware.RequestLogging, // First, so it times and counts everything below
		middleware.SecurityHeaders,
		middleware.Config(app.Cfg),
		middleware.AuthMiddleware(app.AuthService, app.UserService),
		middleware.Route, // Last, wraps the mux to report the matched pattern
	)
}
