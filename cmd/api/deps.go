package main

import (
	"log"

	"contas/internal/infrastructure/postgres"
	httphandlers "contas/internal/interfaces/http"
	"contas/internal/shared/auth"
	"contas/internal/shared/config"
)

// Dependencies holds all initialized application components.
type Dependencies struct {
	DB *postgres.DB

	// Handlers
	AuthHandler        *httphandlers.AuthHandler
	UserHandler        *httphandlers.UserHandler
	ExpenseHandler     *httphandlers.ExpenseHandler
	InstallmentHandler *httphandlers.InstallmentHandler
	FixedBillHandler   *httphandlers.FixedBillHandler
	DashboardHandler   *httphandlers.DashboardHandler

	// Auth
	JWT *auth.JWT

	// Repositories (for the scheduler job provider)
	UserRepo        *postgres.UserRepository
	ExpenseRepo     *postgres.ExpenseRepository
	InstallmentRepo *postgres.InstallmentRepository
	FixedBillRepo   *postgres.FixedBillRepository
}

// NewDependencies initializes all application dependencies.
func NewDependencies(cfg *config.Config) (*Dependencies, error) {
	db, err := postgres.New(cfg.Database.ConnectionString())
	if err != nil {
		return nil, err
	}
	log.Println("Connected to database")

	if err := db.RunMigrations(); err != nil {
		db.Close()
		return nil, err
	}
	log.Println("Migrations applied")

	// Initialize repositories
	userRepo := postgres.NewUserRepository(db)
	expenseRepo := postgres.NewExpenseRepository(db)
	installmentRepo := postgres.NewInstallmentRepository(db)
	fixedBillRepo := postgres.NewFixedBillRepository(db)

	// Initialize auth components
	jwt := auth.NewJWT(cfg.JWT.Secret)

	// Initialize handlers
	authHandler := httphandlers.NewAuthHandler(userRepo, jwt)
	userHandler := httphandlers.NewUserHandler(userRepo)
	expenseHandler := httphandlers.NewExpenseHandler(expenseRepo, installmentRepo)
	installmentHandler := httphandlers.NewInstallmentHandler(installmentRepo)
	fixedBillHandler := httphandlers.NewFixedBillHandler(fixedBillRepo)
	dashboardHandler := httphandlers.NewDashboardHandler(expenseRepo, fixedBillRepo, installmentRepo)

	return &Dependencies{
		DB:                 db,
		AuthHandler:        authHandler,
		UserHandler:        userHandler,
		ExpenseHandler:     expenseHandler,
		InstallmentHandler: installmentHandler,
		FixedBillHandler:   fixedBillHandler,
		DashboardHandler:   dashboardHandler,
		JWT:                jwt,
		UserRepo:           userRepo,
		ExpenseRepo:        expenseRepo,
		InstallmentRepo:    installmentRepo,
		FixedBillRepo:      fixedBillRepo,
	}, nil
}

// Close releases all resources held by dependencies.
func (d *Dependencies) Close() {
	if d.DB != nil {
		d.DB.Close()
	}
}
