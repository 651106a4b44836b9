package handlers

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"

	portssvc "github.com/nimbusfin/coreledger/internal/core/ports/services"
	"github.com/nimbusfin/coreledger/internal/middleware"
	"github.com/nimbusfin/coreledger/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/", getHome)

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.PrincipalHeader},
		AllowCredentials: true,
	}))

	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	// Every v1 route requires an authenticated principal header.
	v1 := r.Group("/api/v1", middleware.RateLimit(rateLimiter), middleware.PrincipalMiddleware())

	registerCommandRoutes(v1, services)
	registerApprovalRoutes(v1, services)
	registerAccountRoutes(v1, services)
	registerEntrySetRoutes(v1, services)
	registerReportingRoutes(v1, services, cfg.TrialBalanceMaxAge)
}
