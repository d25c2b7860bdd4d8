package router

import (
	"net/http"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/anontalk/config"
	_ "github.com/d60-Lab/anontalk/docs"
	"github.com/d60-Lab/anontalk/internal/api/handler"
	"github.com/d60-Lab/anontalk/internal/api/middleware"
	"github.com/d60-Lab/anontalk/pkg/logger"
)

// Options 可选组件
type Options struct {
	Tracing bool
	Sentry  bool
	Swagger bool
}

// New 组装 gin 引擎与全部路由
func New(cfg *config.Config, h *handler.Handler, opts Options) (*gin.Engine, error) {
	if err := registerValidators(); err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if opts.Sentry {
		r.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	if opts.Tracing {
		r.Use(otelgin.Middleware(cfg.Tracing.ServiceName))
	}
	r.Use(middleware.RequestID(), middleware.AccessLog(logger.L()))
	r.Use(gzip.Gzip(gzip.DefaultCompression))

	r.GET("/healthz", h.Health)
	if opts.Swagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	limiter := middleware.NewPerHumanLimiter(cfg.RateLimit.AskPerMinute, cfg.RateLimit.Burst)

	v1 := r.Group("/api/v1", middleware.Auth(cfg.JWT.Secret, cfg.JWT.Issuer))
	{
		v1.POST("/questions", limiter.Middleware(), h.Ask)

		talks := v1.Group("/talks")
		talks.GET("", h.History)
		talks.GET("/next", h.Next)
		talks.GET("/:id", h.Talk)
		talks.GET("/:id/messages", h.ListMessages)
		talks.POST("/:id/messages", h.PostMessage)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "route not found"})
	})
	return r, nil
}
