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
	ErrStoreDirectoryNotConfigured = errors.New("store directory not configured")
	ErrStoreDomainRequired         = errors.New("shop domain required")
	ErrStoreNotFound               = errors.New("store not found")
)

// NormalizeShopDomain lleva un dominio de tienda a su forma canonica:
// minusculas y sin espacios alrededor. Toda busqueda por dominio debe
// pasar por aca para que "Acme.MyShopify.com" y "acme.myshopify.com"
// resuelvan a la misma fila.
func NormalizeShopDomain(shopDomain string) string {
	return strings.ToLower(strings.TrimSpace(shopDomain))
}

// StoreDirectory resuelve dominios externos a registros de tienda,
// creandolos en el primer contacto.
type StoreDirectory struct {
	repo repository.StoreRepository
}

func NewStoreDirectory(repo repository.StoreRepository) *StoreDirectory {
	return &StoreDirectory{repo: repo}
}

// Resolve devuelve la tienda para shopDomain, creandola con plan free si no
// existe. Dos llamadas concurrentes para un dominio nuevo terminan en un solo
// registro: el INSERT condicional pierde la carrera y se relee la fila ganadora.
func (s *StoreDirectory) Resolve(ctx context.Context, shopDomain string) (domain.Store, error) {
	if s == nil || s.repo == nil {
		return domain.Store{}, ErrStoreDirectoryNotConfigured
	}
	shopDomain = NormalizeShopDomain(shopDomain)
	if shopDomain == "" {
		return domain.Store{}, ErrStoreDomainRequired
	}

	store, err := s.repo.GetByDomain(ctx, shopDomain)
	if err == nil {
		return store, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Store{}, fmt.Errorf("get store: %w", err)
	}

	now := time.Now().UTC()
	candidate := domain.Store{
		ID:         uuid.NewString(),
		ShopDomain: shopDomain,
		ShopName:   shopDomain,
		Plan:       domain.PlanFree,
		IsActive:   true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	inserted, err := s.repo.CreateIfAbsent(ctx, candidate)
	if err != nil {
		return domain.Store{}, fmt.Errorf("create store: %w", err)
	}
	if inserted {
		return candidate, nil
	}

	// Otro request creo la tienda primero; la fila existente es la valida.
	store, err = s.repo.GetByDomain(ctx, shopDomain)
	if err != nil {
		return domain.Store{}, fmt.Errorf("refetch store: %w", err)
	}
	return store, nil
}

// Lookup devuelve la tienda existente sin crearla.
func (s *StoreDirectory) Lookup(ctx context.Context, shopDomain string) (domain.Store, error) {
	if s == nil || s.repo == nil {
		return domain.Store{}, ErrStoreDirectoryNotConfigured
	}
	shopDomain = NormalizeShopDomain(shopDomain)
	if shopDomain == "" {
		return domain.Store{}, ErrStoreDomainRequired
	}

	store, err := s.repo.GetByDomain(ctx, shopDomain)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Store{}, ErrStoreNotFound
	}
	if err != nil {
		return domain.Store{}, fmt.Errorf("get store: %w", err)
	}
	return store, nil
}
