package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const corsMaxAgeHours = 12

// NewRouter builds the gin engine. An empty origins list allows any origin.
// prometheus may be nil to omit the exposition endpoint.
func NewRouter(handler *Handler, prometheus http.Handler, origins []string, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(corsMiddleware(origins))
	router.Use(ginLogger(logger))
	router.Use(gin.Recovery())

	SetupRoutes(router, handler, prometheus)
	return router
}

// SetupRoutes configures all API routes
func SetupRoutes(router *gin.Engine, handler *Handler, prometheus http.Handler) {
	router.GET("/health", handler.Health)
	router.POST("/predict", handler.Predict) // POST /predict
	router.GET("/metrics", handler.Metrics)  // GET /metrics (training report)
	if prometheus != nil {
		router.GET("/metrics/prometheus", gin.WrapH(prometheus))
	}
}

func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Content-Length", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        corsMaxAgeHours * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}

func ginLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
