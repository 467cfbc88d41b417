package app

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/templui/balancewheel/internal/config"
	"github.com/templui/balancewheel/internal/db"
	"github.com/templui/balancewheel/internal/repository"
	"github.com/templui/balancewheel/internal/service"
	"github.com/templui/balancewheel/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	UserService     *service.UserService
	GoalService     *service.GoalService
	ProgressService *service.ProgressService
	ExportService   *service.ExportService
	EmailService    *service.EmailService
	ReportService   *service.ReportService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	database, err := db.Open(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	snapshotStorage, err := storage.New(ctx, cfg)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	return NewWithDB(cfg, database, snapshotStorage), nil
}

// NewWithDB wires the services over an open, migrated database. Storage
// may be nil.
func NewWithDB(cfg *config.Config, database *sqlx.DB, snapshotStorage storage.Storage) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	lifeGoalRepository := repository.NewLifeGoalRepository(database)
	yearlyGoalRepository := repository.NewYearlyGoalRepository(database)
	monthlyGoalRepository := repository.NewMonthlyGoalRepository(database)
	dailyGoalRepository := repository.NewDailyGoalRepository(database)

	// Services
	emailService := service.NewEmailService(cfg.ResendAPIKey, cfg.EmailFrom, cfg.IsDevelopment())
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository)
	goalService := service.NewGoalService(
		lifeGoalRepository,
		yearlyGoalRepository,
		monthlyGoalRepository,
		dailyGoalRepository,
		cfg.Location,
	)
	progressService := service.NewProgressService(goalService, cfg.WeekStartsOn)
	exportService := service.NewExportService(goalService, snapshotStorage)
	reportService := service.NewReportService(progressService, emailService, cfg.AppName)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		UserService:     userService,
		GoalService:     goalService,
		ProgressService: progressService,
		ExportService:   exportService,
		EmailService:    emailService,
		ReportService:   reportService,
	}
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
