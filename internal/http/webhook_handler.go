package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopchat-ai/internal/service"
)

// Topics de cumplimiento que entrega la plataforma.
const (
	topicCustomersDataRequest = "customers/data_request"
	topicCustomersRedact      = "customers/redact"
	topicShopRedact           = "shop/redact"
)

// WebhookHandler procesa los webhooks de cumplimiento. El contrato de la
// plataforma exige responder 200 para acusar recibo incluso ante fallas
// internas parciales; solo la firma invalida devuelve 401 (en el middleware).
type WebhookHandler struct {
	logger    *zap.Logger
	lifecycle *service.LifecycleService
}

func NewWebhookHandler(logger *zap.Logger, lifecycle *service.LifecycleService) *WebhookHandler {
	return &WebhookHandler{
		logger:    logger,
		lifecycle: lifecycle,
	}
}

type webhookPayload struct {
	ShopDomain string `json:"shop_domain"`
	Customer   struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	} `json:"customer"`
}

// Handle maneja POST /webhooks: despacha por topic.
func (h *WebhookHandler) Handle(c *gin.Context) {
	topic := GetWebhookTopic(c)

	switch topic {
	case topicCustomersDataRequest:
		h.CustomersDataRequest(c)
	case topicCustomersRedact:
		h.CustomersRedact(c)
	case topicShopRedact:
		h.ShopRedact(c)
	default:
		h.logger.Info("unhandled webhook topic", zap.String("topic", topic))
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Webhook received"})
	}
}

// CustomersDataRequest maneja el pedido de exportacion de datos del cliente.
func (h *WebhookHandler) CustomersDataRequest(c *gin.Context) {
	shop, payload := h.extract(c)
	h.logger.Info("gdpr customer data request received",
		zap.String("shop", shop),
		zap.String("email", payload.Customer.Email),
	)

	if _, err := h.lifecycle.ExportCustomerData(c.Request.Context(), shop, payload.Customer.Email); err != nil {
		// Acusar recibo igual: un 500 aca solo provoca reintentos de la plataforma.
		h.logger.Error("customer data export failed", zap.Error(err), zap.String("shop", shop))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CustomersRedact maneja el borrado de datos de un cliente.
func (h *WebhookHandler) CustomersRedact(c *gin.Context) {
	shop, payload := h.extract(c)
	h.logger.Info("gdpr customer redaction received",
		zap.String("shop", shop),
		zap.String("email", payload.Customer.Email),
	)

	if err := h.lifecycle.RedactCustomer(c.Request.Context(), shop, payload.Customer.Email); err != nil {
		h.logger.Error("customer redaction failed", zap.Error(err), zap.String("shop", shop))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// ShopRedact maneja el borrado completo de los datos de una tienda.
func (h *WebhookHandler) ShopRedact(c *gin.Context) {
	shop, _ := h.extract(c)
	h.logger.Info("gdpr shop redaction received", zap.String("shop", shop))

	if err := h.lifecycle.RedactShop(c.Request.Context(), shop); err != nil {
		h.logger.Error("shop redaction failed", zap.Error(err), zap.String("shop", shop))
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// extract lee el payload y resuelve el dominio de la tienda, prefiriendo el
// header autenticado sobre el campo del body.
func (h *WebhookHandler) extract(c *gin.Context) (string, webhookPayload) {
	var payload webhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("webhook payload parse failed", zap.Error(err))
	}
	shop := GetWebhookShop(c)
	if shop == "" {
		shop = payload.ShopDomain
	}
	return shop, payload
}
