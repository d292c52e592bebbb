package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/walletwatch/walletwatch/docs"
	"github.com/walletwatch/walletwatch/internal/balance"
	"github.com/walletwatch/walletwatch/internal/config"
	"github.com/walletwatch/walletwatch/internal/database"
	"github.com/walletwatch/walletwatch/internal/expense"
	"github.com/walletwatch/walletwatch/internal/note"
	"github.com/walletwatch/walletwatch/internal/pending"
	"github.com/walletwatch/walletwatch/internal/user"
	"github.com/walletwatch/walletwatch/pkg/logging"
	mw "github.com/walletwatch/walletwatch/pkg/middleware"
)

// @title           WalletWatch API
// @version         1.0
// @description     Shared expense tracker for a two-person household with equal-split settlement and a pending balance ledger.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	logging.Setup()

	// Load configuration
	cfg := config.Load()

	// Initialize database connection
	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	slog.Info("connected to database")

	// User feature
	userRepo := user.NewRepository(db)
	userService := user.NewService(userRepo, cfg.JWTSecret, cfg.TokenTTL, cfg.BcryptCost)
	userHandler := user.NewHandler(userService)

	// Expense feature
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo)
	expenseHandler := expense.NewHandler(expenseService)

	// Monthly notes feature
	noteRepo := note.NewRepository(db)
	noteHandler := note.NewHandler(noteRepo)

	// Pending balance feature
	pendingRepo := pending.NewRepository(db)
	archiveRepo := pending.NewArchiveRepository(db)
	pendingService := pending.NewService(pendingRepo, archiveRepo)
	pendingHandler := pending.NewHandler(pendingService)

	// Settlement summary feature
	balanceService := balance.NewService(expenseRepo, pendingRepo, userRepo)
	balanceHandler := balance.NewHandler(balanceService)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(mw.Metrics)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := db.PingContext(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unavailable"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public auth endpoints
		r.Mount("/auth", userHandler.AuthRoutes())

		// Everything else requires a valid token
		r.Group(func(r chi.Router) {
			r.Use(mw.Auth(cfg.JWTSecret))

			r.Mount("/users", userHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/notes", noteHandler.Routes())
			r.Mount("/pending-balances", pendingHandler.Routes())
			r.Mount("/balance", balanceHandler.Routes())
		})
	})

	slog.Info("server starting", "port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
