package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/repository"
)

var (
	ErrMessageLedgerNotConfigured = errors.New("message ledger not configured")
	ErrMessageInvalidInput        = errors.New("message invalid input")
)

// MessageLedger agrega turnos inmutables a una sesion, en orden de llegada.
type MessageLedger struct {
	repo repository.MessageRepository
}

func NewMessageLedger(repo repository.MessageRepository) *MessageLedger {
	return &MessageLedger{repo: repo}
}

// Append persiste un turno. Solo valida rol y contenido no vacio; el
// orquestador es responsable de entregar siempre un texto de respuesta.
func (s *MessageLedger) Append(ctx context.Context, sessionID, storeID, role, content string) (domain.ChatMessage, error) {
	if s == nil || s.repo == nil {
		return domain.ChatMessage{}, ErrMessageLedgerNotConfigured
	}

	sessionID = strings.TrimSpace(sessionID)
	storeID = strings.TrimSpace(storeID)
	role = strings.TrimSpace(role)
	content = strings.TrimSpace(content)

	if sessionID == "" || storeID == "" || content == "" || !domain.ValidRole(role) {
		return domain.ChatMessage{}, ErrMessageInvalidInput
	}

	msg := domain.ChatMessage{
		ID:        uuid.NewString(),
		SessionID: sessionID,
		StoreID:   storeID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, msg); err != nil {
		return domain.ChatMessage{}, err
	}
	return msg, nil
}

// History devuelve los mensajes de la sesion en orden de creacion ascendente.
func (s *MessageLedger) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	if s == nil || s.repo == nil {
		return nil, ErrMessageLedgerNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return []domain.ChatMessage{}, nil
	}
	return s.repo.ListBySessionID(ctx, sessionID)
}
