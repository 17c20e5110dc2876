package handlers

import (
	"net/http"

	"github.com/SscSPs/society_ledger/cmd/docs"
	portssvc "github.com/SscSPs/society_ledger/internal/core/ports/services"
	"github.com/SscSPs/society_ledger/internal/middleware"
	"github.com/SscSPs/society_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouteOptions carries the optional pieces of the HTTP surface.
type RouteOptions struct {
	// MetricsHandler serves /metrics when set.
	MetricsHandler http.Handler
	// TenantMiddleware runs on every tenant route after authentication,
	// e.g. rate limiting and analytics, which key on the tenant path parameter.
	TenantMiddleware []gin.HandlerFunc
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	opts RouteOptions,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})
	if opts.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(opts.MetricsHandler))
	}

	setupAPIV1Routes(r, cfg, services, opts.TenantMiddleware)

	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	tenantMiddleware []gin.HandlerFunc,
) {
	v1 := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))

	tenant := v1.Group("/tenants/:tenant_id", tenantMiddleware...)
	RegisterTenantRoutes(tenant, services)
}

// RegisterTenantRoutes registers every tenant-scoped route on rg, which must
// carry the :tenant_id path parameter.
func RegisterTenantRoutes(rg *gin.RouterGroup, services *portssvc.ServiceContainer) {
	RegisterAccountRoutes(rg, services.Account, services.Ledger)
	RegisterJournalRoutes(rg, services.Ledger)
	RegisterBillingRoutes(rg, services.Billing)
	RegisterPaymentRoutes(rg, services.Payment)
	RegisterReportingRoutes(rg, services.Reporting)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
