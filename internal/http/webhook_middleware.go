package http

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	webhookShopKey  = "webhook_shop"
	webhookTopicKey = "webhook_topic"

	headerHmac       = "X-Shopify-Hmac-Sha256"
	headerTopic      = "X-Shopify-Topic"
	headerShopDomain = "X-Shopify-Shop-Domain"
)

// WebhookAuthMiddleware verifica la firma HMAC-SHA256 del body crudo contra
// el secreto compartido. Una firma invalida corta con 401; el body se
// restaura para que el handler pueda volver a leerlo.
func WebhookAuthMiddleware(secret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			logger.Error("webhook secret not configured")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		body, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
			c.Abort()
			return
		}
		c.Request.Body = io.NopCloser(bytes.NewReader(body))

		signature := strings.TrimSpace(c.GetHeader(headerHmac))
		if !validWebhookSignature(secret, body, signature) {
			logger.Warn("webhook hmac verification failed",
				zap.String("shop", c.GetHeader(headerShopDomain)),
				zap.String("topic", c.GetHeader(headerTopic)),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			c.Abort()
			return
		}

		c.Set(webhookShopKey, strings.ToLower(strings.TrimSpace(c.GetHeader(headerShopDomain))))
		c.Set(webhookTopicKey, strings.ToLower(strings.TrimSpace(c.GetHeader(headerTopic))))
		c.Next()
	}
}

func validWebhookSignature(secret string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// GetWebhookShop obtiene el dominio de la tienda autenticada del contexto.
func GetWebhookShop(c *gin.Context) string {
	return c.GetString(webhookShopKey)
}

// GetWebhookTopic obtiene el topic del webhook del contexto.
func GetWebhookTopic(c *gin.Context) string {
	return c.GetString(webhookTopicKey)
}
