package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
	httpSwagger "github.com/swaggo/http-swagger"
	"go.uber.org/zap"

	"github.com/ripgraphics/bookin-pms/internal/config"
	"github.com/ripgraphics/bookin-pms/internal/dashboard"
	"github.com/ripgraphics/bookin-pms/internal/database"
	"github.com/ripgraphics/bookin-pms/internal/expense"
	"github.com/ripgraphics/bookin-pms/internal/invoice"
	"github.com/ripgraphics/bookin-pms/internal/ledger"
	"github.com/ripgraphics/bookin-pms/internal/logger"
	"github.com/ripgraphics/bookin-pms/internal/property"
	"github.com/ripgraphics/bookin-pms/internal/role"
	"github.com/ripgraphics/bookin-pms/internal/statement"
	mw "github.com/ripgraphics/bookin-pms/pkg/middleware"
)

// @title           Bookin PMS API
// @version         1.0
// @description     Property management financial workflows for the Bookin rental platform.
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresConnection(cfg.DatabaseURL)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	zlog.Info("Connected to database")

	// Role resolution backs every authorization decision
	roleResolver := role.NewResolver(role.NewRepository(db))

	// Ledger feature
	ledgerRepo := ledger.NewRepository(db)
	ledgerService := ledger.NewService(ledgerRepo, roleResolver)
	ledgerHandler := ledger.NewHandler(ledgerService)

	// Property feature
	propertyRepo := property.NewRepository(db)
	propertyService := property.NewService(propertyRepo, roleResolver)
	propertyHandler := property.NewHandler(propertyService)

	// Expense feature (approvals append to the ledger)
	expenseRepo := expense.NewRepository(db)
	expenseService := expense.NewService(expenseRepo, roleResolver, ledgerService, zlog)
	expenseHandler := expense.NewHandler(expenseService)

	// Invoice feature (payments append to the ledger)
	invoiceRepo := invoice.NewRepository(db)
	invoiceService := invoice.NewService(invoiceRepo, roleResolver, ledgerService, zlog)
	invoiceHandler := invoice.NewHandler(invoiceService)

	// Dashboard feature
	dashboardRepo := dashboard.NewRepository(db)
	dashboardService := dashboard.NewService(dashboardRepo, roleResolver)
	dashboardHandler := dashboard.NewHandler(dashboardService)

	// Statement feature
	statementRepo := statement.NewRepository(db)
	statementService := statement.NewService(statementRepo, roleResolver)
	statementHandler := statement.NewHandler(statementService)

	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// API routes
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(mw.Auth(cfg.JWTSecret))

		r.Route("/pms", func(r chi.Router) {
			r.Mount("/properties", propertyHandler.Routes())
			r.Mount("/expenses", expenseHandler.Routes())
			r.Mount("/invoices", invoiceHandler.Routes())
			r.Mount("/transactions", ledgerHandler.Routes())

			dashboardHandler.Register(r)
			statementHandler.Register(r)
		})
	})

	zlog.Info("Server starting", zap.String("port", cfg.Port))
	if err := http.ListenAndServe(":"+cfg.Port, r); err != nil {
		zlog.Fatal("Server failed to start", zap.Error(err))
	}
}
