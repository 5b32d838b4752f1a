package v1

import (
	"net/http"
	"time"

	"go-profile-backend/config"
	"go-profile-backend/internal/delivery/http/middleware"
	"go-profile-backend/internal/delivery/http/response"
	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/auth"
	"go-profile-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	ProfileUC   domain.ProfileUsecase
	HealthUC    usecase.HealthUsecase
	JWTService  *auth.JWTService
	RateLimiter *middleware.RateLimiter
	Logger      logger.Logger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.CORSAllowedOrigins)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Logger))
	r.Use(deps.RateLimiter.Middleware(middleware.GlobalConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(middleware.Timeout(deps.Config.RequestTimeout))

	api := r.Group("/api")

	api.GET("/health", func(c *gin.Context) {
		status, ok := deps.HealthUC.Check(c.Request.Context())
		if !ok {
			response.Error(c, http.StatusServiceUnavailable, "Degraded", status)
			return
		}
		response.Success(c, http.StatusOK, "System operational", status)
	})

	api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWTService, deps.AuthUC, deps.Logger))

	authLimit := deps.RateLimiter.Middleware(middleware.AuthConfig(deps.Config.RateLimitAuthThreshold, window))
	NewUserHandler(api, protected, deps.AuthUC, authLimit)
	NewProfileHandler(api, protected, deps.ProfileUC)

	return r
}
