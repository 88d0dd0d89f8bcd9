package main

import (
	"log"
	"net/http"

	httphandlers "contas/internal/interfaces/http"
	"contas/internal/shared/config"
	"contas/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", httphandlers.HandleHealth)

	// Public auth routes
	mux.HandleFunc("/api/auth/register", deps.AuthHandler.HandleRegister)
	mux.HandleFunc("/api/auth/login", deps.AuthHandler.HandleLogin)
	mux.HandleFunc("/api/auth/logout", deps.AuthHandler.HandleLogout)

	// Protected routes
	authMiddleware := middleware.Auth(deps.JWT)

	mux.Handle("/api/items/expenses", authMiddleware(http.HandlerFunc(deps.ExpenseHandler.HandleExpenses)))
	mux.Handle("/api/items/expenses/{id}", authMiddleware(http.HandlerFunc(deps.ExpenseHandler.HandleExpenseByID)))
	mux.Handle("/api/items/installments", authMiddleware(http.HandlerFunc(deps.InstallmentHandler.HandleInstallments)))
	mux.Handle("/api/items/installments/overdue", authMiddleware(http.HandlerFunc(deps.InstallmentHandler.HandleOverdueInstallments)))
	mux.Handle("/api/items/installments/{id}", authMiddleware(http.HandlerFunc(deps.InstallmentHandler.HandleInstallmentByID)))
	mux.Handle("/api/items/fixed-bills", authMiddleware(http.HandlerFunc(deps.FixedBillHandler.HandleFixedBills)))
	mux.Handle("/api/items/fixed-bills/{id}", authMiddleware(http.HandlerFunc(deps.FixedBillHandler.HandleFixedBillByID)))
	mux.Handle("/api/dashboard/summary", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleSummary)))
	mux.Handle("/api/dashboard/overdue", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleOverdue)))
	mux.Handle("/api/dashboard/charts", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleCharts)))
	mux.Handle("/api/dashboard/batch-status", authMiddleware(http.HandlerFunc(deps.DashboardHandler.HandleBatchStatus)))
	mux.Handle("/api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))
	mux.Handle("/api/users/me/privacy", authMiddleware(http.HandlerFunc(deps.UserHandler.HandlePrivacy)))
	mux.Handle("/api/users/me/pin", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleSetPin)))
	mux.Handle("/api/users/me/pin/verify", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleVerifyPin)))

	// Apply global middleware
	handler := middleware.Logging(middleware.Tracing(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	if cfg.Telemetry.Enabled {
		handler = middleware.Telemetry(handler)
	}

	if cfg.Server.SecureCookies {
		handler = middleware.SecureCookies(handler)
		log.Println("Secure cookie middleware enabled")
	}

	return handler
}
