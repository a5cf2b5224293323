package handlers

import (
	"github.com/SscSPs/orders_sync_app/cmd/docs"
	portssvc "github.com/SscSPs/orders_sync_app/internal/core/ports/services"
	"github.com/SscSPs/orders_sync_app/internal/middleware"
	"github.com/SscSPs/orders_sync_app/internal/platform/config"
	"github.com/SscSPs/orders_sync_app/internal/utils"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	runner JobRunner,
	analytics *utils.PosthogClientWrapper,
) error {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	if err := RegisterAuthRoutes(r, cfg); err != nil {
		return err
	}

	if err := setupAPIV1Routes(r, cfg, services, runner, analytics); err != nil {
		return err
	}

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupAPIV1Routes configures the public read routes and the admin routes under /api/v1
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	runner JobRunner,
	analytics *utils.PosthogClientWrapper,
) error {
	apiLimiter, err := middleware.NewIPRateLimiter(cfg.APIRateLimit)
	if err != nil {
		return err
	}

	public := r.Group("/api/v1", middleware.RateLimit(apiLimiter))
	RegisterOrderRoutes(public, services.Order)

	admin := r.Group("/api/v1", middleware.AuthMiddleware(cfg.JWTSecret), middleware.PosthogMiddleware(analytics))
	RegisterRecipientRoutes(admin, services.Recipient)
	RegisterJobRoutes(admin, runner)
	return nil
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
