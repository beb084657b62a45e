package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/service"
)

// ChatHandler mantiene dependencias para los endpoints publicos del widget.
type ChatHandler struct {
	logger  *zap.Logger
	chatSvc *service.ChatService
}

func NewChatHandler(logger *zap.Logger, chatSvc *service.ChatService) *ChatHandler {
	return &ChatHandler{
		logger:  logger,
		chatSvc: chatSvc,
	}
}

// PostMessage maneja POST /api/chat/message.
func (h *ChatHandler) PostMessage(c *gin.Context) {
	var req struct {
		Message   string              `json:"message" binding:"required"`
		Shop      string              `json:"shop" binding:"required"`
		Customer  domain.CustomerInfo `json:"customer"`
		SessionID string              `json:"sessionId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	result, err := h.chatSvc.HandleMessage(c.Request.Context(), req.Shop, req.Message, req.Customer, req.SessionID)
	if err != nil {
		if errors.Is(err, service.ErrMessageInvalidInput) || errors.Is(err, service.ErrStoreDomainRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
			return
		}
		// El widget nunca muestra errores internos: siempre hay un texto amable.
		h.logger.Error("chat message failed", zap.Error(err), zap.String("shop", req.Shop))
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to process message",
			"reply": service.FallbackReply,
		})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetSession maneja POST /api/chat/session.
func (h *ChatHandler) GetSession(c *gin.Context) {
	var req struct {
		SessionID string `json:"sessionId" binding:"required"`
		Shop      string `json:"shop" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid chat session request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}

	history, err := h.chatSvc.History(c.Request.Context(), req.Shop, req.SessionID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStoreNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Store not found"})
		case errors.Is(err, service.ErrSessionNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		default:
			h.logger.Error("chat session lookup failed", zap.Error(err), zap.String("shop", req.Shop))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch session"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": history})
}
