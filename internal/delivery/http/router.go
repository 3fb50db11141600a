package http

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires every route of the API.
func NewRouter(progress *ProgressController, events *EventsController, health *HealthController, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	r.GET("/healthz", health.Status)

	users := r.Group("/api/v1/users/:userID")
	users.POST("/words/:wordID/init", progress.InitWord)
	users.POST("/words/:wordID/review", progress.ReviewWord)
	users.POST("/review-queue", progress.ReviewQueue)
	users.GET("/progress", progress.Progress)
	users.POST("/streak", progress.Streak)
	users.GET("/events", events.Stream)

	return r
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
