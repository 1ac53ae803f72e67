package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	directoryapp "github.com/propstack/backend/internal/application/directory"
	leasingapp "github.com/propstack/backend/internal/application/leasing"
	paymentsapp "github.com/propstack/backend/internal/application/payments"
	realtyapp "github.com/propstack/backend/internal/application/realty"
	"github.com/propstack/backend/internal/domain/shared"
	"github.com/propstack/backend/internal/infrastructure/auth"
	"github.com/propstack/backend/internal/infrastructure/config"
	"github.com/propstack/backend/internal/infrastructure/logger"
	"github.com/propstack/backend/internal/infrastructure/notification"
	"github.com/propstack/backend/internal/infrastructure/payment"
	"github.com/propstack/backend/internal/infrastructure/persistence"
	"github.com/propstack/backend/internal/infrastructure/scheduler"
	"github.com/propstack/backend/internal/interfaces/http/handler"
	"github.com/propstack/backend/internal/interfaces/http/middleware"
	"github.com/propstack/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting PropStack backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	companyRepo := persistence.NewGormCompanyRepository(db.DB)
	propertyRepo := persistence.NewGormPropertyRepository(db.DB)
	addressRepo := persistence.NewGormAddressRepository(db.DB)
	leaseRepo := persistence.NewGormLeaseRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)

	// Initialize infrastructure collaborators
	jwtService := auth.NewJWTService(cfg.JWT)
	mailer := notification.NewSMTPMailer(cfg.SMTP, log)
	stripeAdapter, err := payment.NewStripeAdapter(cfg.Stripe, log)
	if err != nil {
		log.Fatal("Failed to initialize payment processor", zap.Error(err))
	}
	clock := shared.SystemClock{}

	// Initialize application services
	authService := directoryapp.NewAuthService(userRepo, jwtService, log)
	userService := directoryapp.NewUserService(userRepo, mailer, log)
	companyService := directoryapp.NewCompanyService(companyRepo, log)
	propertyService := realtyapp.NewPropertyService(propertyRepo, addressRepo, userRepo, log)
	leaseService := leasingapp.NewLeaseService(leaseRepo, propertyRepo, userRepo, clock, log)
	paymentService := paymentsapp.NewPaymentService(
		paymentRepo, leaseRepo, userRepo,
		stripeAdapter, mailer, clock,
		cfg.Stripe.Currency, log,
	)

	// Billing scheduler drives the lease sweeps and the billing run
	billingScheduler, err := scheduler.NewBillingScheduler(cfg.Scheduler, leaseService, paymentService, log)
	if err != nil {
		log.Fatal("Failed to initialize billing scheduler", zap.Error(err))
	}
	if cfg.Scheduler.Enabled {
		if err := billingScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start billing scheduler", zap.Error(err))
		}
		log.Info("Billing scheduler started",
			zap.Duration("sweep_interval", cfg.Scheduler.SweepInterval),
			zap.Duration("billing_interval", cfg.Scheduler.BillingInterval),
		)
	} else {
		log.Warn("Billing scheduler is disabled, lease sweeps and billing runs must be triggered manually")
	}

	// Configure gin
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		log.Fatal("Failed to set trusted proxies", zap.Error(err))
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// Register API routes
	router.Setup(engine, jwtService, router.Handlers{
		Auth:            handler.NewAuthHandler(authService, userService),
		User:            handler.NewUserHandler(userService),
		Company:         handler.NewCompanyHandler(companyService),
		Property:        handler.NewPropertyHandler(propertyService),
		Lease:           handler.NewLeaseHandler(leaseService),
		Payment:         handler.NewPaymentHandler(paymentService),
		PaymentCallback: handler.NewPaymentCallbackHandler(paymentService, cfg.Stripe),
		System:          handler.NewSystemHandler(billingScheduler),
	}, log)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := billingScheduler.Stop(ctx); err != nil {
		log.Error("Error stopping billing scheduler", zap.Error(err))
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler reports the process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
