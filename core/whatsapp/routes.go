package whatsapp

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	coreconfig "github.com/matheusfcorreia/barbershop-whatsapp-bot/core/config"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/logger"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/message"
	"github.com/matheusfcorreia/barbershop-whatsapp-bot/core/whatsapp/webhook"
)

// NewRouter builds the HTTP surface: the webhook path and /health.
func NewRouter(cfg *coreconfig.Config, dispatch message.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(accessLog())

	webhook.NewHandler(cfg.WhatsApp, dispatch).RegisterRoutes(router, cfg.Webhook.Path)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	return router
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		ctx := logger.WithRID(c.Request.Context(), logger.NewRID())
		c.Request = c.Request.WithContext(ctx)
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelDebug
		if status >= http.StatusInternalServerError {
			level = slog.LevelWarn
		}
		logger.Event(ctx, logger.CompHTTP, level, "request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.FullPath()),
			slog.Int("http_code", status),
			slog.Duration("duration", logger.Took(start)),
		)
	}
}
