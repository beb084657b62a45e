package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"shopchat-ai/internal/domain"
	"shopchat-ai/internal/repository"
)

var (
	ErrSessionResolverNotConfigured = errors.New("session resolver not configured")
	ErrSessionNotFound              = errors.New("session not found")
)

// SessionResolver encuentra o crea sesiones de conversacion dentro de una tienda.
type SessionResolver struct {
	repo repository.SessionRepository
}

func NewSessionResolver(repo repository.SessionRepository) *SessionResolver {
	return &SessionResolver{repo: repo}
}

// Resolve devuelve la sesion indicada por suppliedID si existe y pertenece a
// store. Un ID desconocido o de otra tienda se trata como ausente: nunca se
// engancha un hilo de mensajes cruzando tiendas.
func (s *SessionResolver) Resolve(ctx context.Context, store domain.Store, suppliedID string, customer domain.CustomerInfo) (domain.ChatSession, error) {
	if s == nil || s.repo == nil {
		return domain.ChatSession{}, ErrSessionResolverNotConfigured
	}

	suppliedID = strings.TrimSpace(suppliedID)
	if suppliedID != "" {
		session, err := s.repo.GetByID(ctx, suppliedID)
		if err == nil && session.StoreID == store.ID {
			return session, nil
		}
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return domain.ChatSession{}, fmt.Errorf("get session: %w", err)
		}
	}

	now := time.Now().UTC()
	session := domain.ChatSession{
		ID:             uuid.NewString(),
		StoreID:        store.ID,
		CustomerEmail:  strings.TrimSpace(customer.Email),
		CustomerName:   strings.TrimSpace(customer.Name),
		Status:         domain.SessionStatusActive,
		LastActivityAt: now,
		CreatedAt:      now,
	}
	if err := s.repo.Create(ctx, session); err != nil {
		return domain.ChatSession{}, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

// Lookup devuelve la sesion solo si existe y pertenece a la tienda.
func (s *SessionResolver) Lookup(ctx context.Context, store domain.Store, sessionID string) (domain.ChatSession, error) {
	if s == nil || s.repo == nil {
		return domain.ChatSession{}, ErrSessionResolverNotConfigured
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return domain.ChatSession{}, ErrSessionNotFound
	}

	session, err := s.repo.GetByID(ctx, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.ChatSession{}, ErrSessionNotFound
	}
	if err != nil {
		return domain.ChatSession{}, fmt.Errorf("get session: %w", err)
	}
	if session.StoreID != store.ID {
		return domain.ChatSession{}, ErrSessionNotFound
	}
	return session, nil
}

// Touch actualiza la ultima actividad y opcionalmente el sentiment.
// Se llama una vez por intercambio completado.
func (s *SessionResolver) Touch(ctx context.Context, sessionID, sentiment string) error {
	if s == nil || s.repo == nil {
		return ErrSessionResolverNotConfigured
	}
	return s.repo.Touch(ctx, sessionID, sentiment, time.Now().UTC())
}
