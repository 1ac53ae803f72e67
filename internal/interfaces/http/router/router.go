package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/propstack/backend/internal/infrastructure/auth"
	"github.com/propstack/backend/internal/interfaces/http/handler"
	"github.com/propstack/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler the API exposes
type Handlers struct {
	Auth            *handler.AuthHandler
	User            *handler.UserHandler
	Company         *handler.CompanyHandler
	Property        *handler.PropertyHandler
	Lease           *handler.LeaseHandler
	Payment         *handler.PaymentHandler
	PaymentCallback *handler.PaymentCallbackHandler
	System          *handler.SystemHandler
}

// Setup registers the versioned API route table on the engine. Public
// endpoints (login, refresh, registration, the Stripe callback) are
// excluded from JWT authentication via the middleware's skip list.
func Setup(engine *gin.Engine, jwtService *auth.JWTService, h Handlers, log *zap.Logger) {
	api := engine.Group("/api/v1")

	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Logger = log
	api.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth
	authGroup := api.Group("/auth")
	authGroup.POST("/login", h.Auth.Login)
	authGroup.POST("/refresh", h.Auth.Refresh)
	authGroup.GET("/me", h.Auth.Me)

	// Users: registration is public, management is staff-only
	users := api.Group("/users")
	users.POST("/register", h.User.Register)
	usersStaff := users.Group("")
	usersStaff.Use(middleware.RequireStaff())
	usersStaff.GET("", h.User.List)
	usersStaff.GET("/:id", h.User.Get)
	usersStaff.PUT("/:id", h.User.Update)
	usersStaff.POST("/:id/activate", h.User.Activate)
	usersStaff.POST("/:id/deactivate", h.User.Deactivate)

	// Companies
	companies := api.Group("/companies")
	companies.Use(middleware.RequireStaff())
	companies.POST("", h.Company.Create)
	companies.GET("", h.Company.List)
	companies.GET("/:id", h.Company.Get)

	// Properties
	properties := api.Group("/properties")
	properties.GET("", h.Property.List)
	properties.GET("/:id", h.Property.Get)
	propertiesStaff := properties.Group("")
	propertiesStaff.Use(middleware.RequireStaff())
	propertiesStaff.POST("", h.Property.Create)
	propertiesStaff.PUT("/:id", h.Property.Update)
	propertiesStaff.POST("/:id/owner", h.Property.AssignOwner)
	propertiesStaff.POST("/:id/status", h.Property.SetStatus)
	propertiesStaff.PUT("/:id/address", h.Property.AttachAddress)

	// Leases: reads are role-projected inside the handler, mutations are
	// staff-only except the tenant-facing renewal endpoints
	leases := api.Group("/leases")
	leases.GET("", h.Lease.List)
	leases.GET("/:id", h.Lease.Get)
	leases.POST("/:id/renewal/accept", h.Lease.AcceptRenewal)
	leases.POST("/:id/renewal/discard", h.Lease.DiscardRenewal)
	leasesStaff := leases.Group("")
	leasesStaff.Use(middleware.RequireStaff())
	leasesStaff.POST("", h.Lease.Create)
	leasesStaff.PUT("/:id", h.Lease.Update)
	leasesStaff.POST("/:id/payments", h.Payment.IssueForLease)

	// Payments
	paymentsGroup := api.Group("/payments")
	paymentsGroup.POST("/callback", h.PaymentCallback.HandleCallback)
	paymentsGroup.GET("", h.Payment.List)
	paymentsGroup.GET("/:id", h.Payment.Get)

	// Scheduler operations
	system := api.Group("/system")
	system.Use(middleware.RequireStaff())
	system.GET("/scheduler", h.System.SchedulerStatus)
	system.POST("/scheduler/expiration-sweep", h.System.TriggerExpirationSweep)
	system.POST("/scheduler/activation-sweep", h.System.TriggerActivationSweep)
	system.POST("/scheduler/billing-run", h.System.TriggerBillingRun)
}
