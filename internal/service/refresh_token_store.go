package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// RefreshTokenStore registra los jti de refresh tokens vigentes. Un refresh
// es de un solo uso: al rotarlo se revoca su jti y cualquier reuso posterior
// falla la verificacion de existencia.
type RefreshTokenStore interface {
	Store(jti, storeID string, ttl time.Duration) error
	Exists(jti string) (bool, error)
	Revoke(jti string) error
}

type refreshEntry struct {
	storeID   string
	expiresAt time.Time
}

// memoryRefreshTokenStore sirve para desarrollo y tests; las entradas
// vencidas se purgan de forma oportunista en cada Store.
type memoryRefreshTokenStore struct {
	mu      sync.RWMutex
	entries map[string]refreshEntry
}

func NewMemoryRefreshTokenStore() RefreshTokenStore {
	return &memoryRefreshTokenStore{entries: make(map[string]refreshEntry)}
}

func (s *memoryRefreshTokenStore) Store(jti, storeID string, ttl time.Duration) error {
	jti = strings.TrimSpace(jti)
	if jti == "" {
		return nil
	}
	now := time.Now().UTC()

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, entry := range s.entries {
		if now.After(entry.expiresAt) {
			delete(s.entries, id)
		}
	}
	s.entries[jti] = refreshEntry{storeID: storeID, expiresAt: now.Add(ttl)}
	return nil
}

func (s *memoryRefreshTokenStore) Exists(jti string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[jti]
	return ok && time.Now().UTC().Before(entry.expiresAt), nil
}

func (s *memoryRefreshTokenStore) Revoke(jti string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, jti)
	return nil
}

// redisRefreshTokenStore delega el vencimiento al TTL de redis, asi los jti
// sobreviven reinicios del proceso y se comparten entre replicas.
type redisRefreshTokenStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

func NewRedisRefreshTokenStore(client *redis.Client) RefreshTokenStore {
	if client == nil {
		return nil
	}
	return &redisRefreshTokenStore{client: client, opTimeout: 500 * time.Millisecond}
}

func (s *redisRefreshTokenStore) key(jti string) string {
	return "admin:refresh:" + jti
}

func (s *redisRefreshTokenStore) withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), s.opTimeout)
}

func (s *redisRefreshTokenStore) Store(jti, storeID string, ttl time.Duration) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := s.withTimeout()
	defer cancel()
	return s.client.Set(ctx, s.key(jti), storeID, ttl).Err()
}

func (s *redisRefreshTokenStore) Exists(jti string) (bool, error) {
	if strings.TrimSpace(jti) == "" {
		return false, nil
	}
	ctx, cancel := s.withTimeout()
	defer cancel()
	n, err := s.client.Exists(ctx, s.key(jti)).Result()
	return n > 0, err
}

func (s *redisRefreshTokenStore) Revoke(jti string) error {
	if strings.TrimSpace(jti) == "" {
		return nil
	}
	ctx, cancel := s.withTimeout()
	defer cancel()
	return s.client.Del(ctx, s.key(jti)).Err()
}
