package http

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopchat-ai/internal/service"
)

// NewRouter arma el engine gin con los tres grupos del API: el widget
// publico (/api), los webhooks de la plataforma (/webhooks) y el panel
// del merchant (/admin).
func NewRouter(
	logger *zap.Logger,
	webhookSecret string,
	chatH *ChatHandler,
	webhookH *WebhookHandler,
	adminH *AdminHandler,
	jwtSvc *service.JWTService,
) *gin.Engine {
	router := gin.New()
	router.Use(zapLoggerMiddleware(logger), gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// El widget se embebe en storefronts de terceros, asi que el grupo
	// /api acepta cualquier origen.
	api := router.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "Authorization"},
		MaxAge:          24 * time.Hour,
	}))
	api.POST("/chat/message", chatH.PostMessage)
	api.POST("/chat/session", chatH.GetSession)

	webhooks := router.Group("/webhooks")
	webhooks.Use(WebhookAuthMiddleware(webhookSecret, logger))
	webhooks.POST("", webhookH.Handle)
	webhooks.POST("/customers/data_request", webhookH.CustomersDataRequest)
	webhooks.POST("/customers/redact", webhookH.CustomersRedact)
	webhooks.POST("/shop/redact", webhookH.ShopRedact)

	router.POST("/admin/auth", adminH.Auth)
	router.POST("/admin/refresh", adminH.Refresh)

	admin := router.Group("/admin")
	admin.Use(AdminAuthMiddleware(jwtSvc))
	admin.GET("/stats", adminH.Stats)
	admin.GET("/faqs", adminH.ListFAQs)
	admin.POST("/faqs", adminH.CreateFAQ)
	admin.PUT("/faqs/:id", adminH.UpdateFAQ)
	admin.DELETE("/faqs/:id", adminH.DeleteFAQ)
	admin.GET("/automations", adminH.ListAutomations)
	admin.POST("/automations", adminH.CreateAutomation)
	admin.DELETE("/automations/:id", adminH.DeleteAutomation)
	admin.GET("/settings", adminH.GetSettings)
	admin.PUT("/settings", adminH.UpdateSettings)
	admin.GET("/billing", adminH.GetBilling)
	admin.PUT("/billing", adminH.UpdateBilling)

	return router
}

// zapLoggerMiddleware registra cada request con el logger estructurado.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		logger.Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
