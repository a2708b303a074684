package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"interview-coach/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas de la entrevista.
func NewRouter(
	logger *zap.Logger,
	interviewH *InterviewHandler,
	tokens *service.SessionTokenService,
) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/interviews", interviewH.StartInterview)

	session := r.Group("/interviews/:id", SessionAuthMiddleware(tokens))
	session.GET("", interviewH.GetSession)
	session.GET("/question", interviewH.GetCurrentQuestion)
	session.POST("/responses", interviewH.SubmitResponse)
	session.GET("/feedback", interviewH.GetFeedback)
	session.GET("/progress", interviewH.GetProgress)

	return r
}

// zapLoggerMiddleware registra cada request; los 5xx salen en nivel warn.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if id := c.Param("id"); id != "" {
			fields = append(fields, zap.String("session_id", id))
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Warn("request failed", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
