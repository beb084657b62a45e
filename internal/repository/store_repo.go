package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopchat-ai/internal/domain"
)

type StoreRepository interface {
	// CreateIfAbsent inserta la tienda solo si el dominio no existe todavia.
	// Devuelve false cuando otra insercion gano la carrera (ON CONFLICT).
	CreateIfAbsent(ctx context.Context, store domain.Store) (bool, error)
	GetByDomain(ctx context.Context, shopDomain string) (domain.Store, error)
	GetByID(ctx context.Context, id string) (domain.Store, error)
	UpdatePlan(ctx context.Context, id, plan, billingStatus string) error
	UpdateAPITokenHash(ctx context.Context, id, hash string) error
	Delete(ctx context.Context, id string) error
}

type PgStoreRepository struct {
	pool *pgxpool.Pool
}

func NewPgStoreRepository(pool *pgxpool.Pool) *PgStoreRepository {
	return &PgStoreRepository{pool: pool}
}

func (r *PgStoreRepository) CreateIfAbsent(ctx context.Context, store domain.Store) (bool, error) {
	const query = `
		INSERT INTO stores (id, shop_domain, shop_name, plan, is_active, billing_status, api_token_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (shop_domain) DO NOTHING
	`
	tag, err := r.pool.Exec(ctx, query,
		store.ID,
		store.ShopDomain,
		store.ShopName,
		store.Plan,
		store.IsActive,
		store.BillingStatus,
		store.APITokenHash,
		store.CreatedAt,
		store.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *PgStoreRepository) GetByDomain(ctx context.Context, shopDomain string) (domain.Store, error) {
	const query = `
		SELECT id, shop_domain, shop_name, plan, is_active, billing_status, api_token_hash, created_at, updated_at
		FROM stores
		WHERE shop_domain = $1
	`
	return r.scanStore(r.pool.QueryRow(ctx, query, shopDomain))
}

func (r *PgStoreRepository) GetByID(ctx context.Context, id string) (domain.Store, error) {
	const query = `
		SELECT id, shop_domain, shop_name, plan, is_active, billing_status, api_token_hash, created_at, updated_at
		FROM stores
		WHERE id = $1
	`
	return r.scanStore(r.pool.QueryRow(ctx, query, id))
}

func (r *PgStoreRepository) UpdatePlan(ctx context.Context, id, plan, billingStatus string) error {
	const query = `
		UPDATE stores
		SET plan = $2, billing_status = $3, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, plan, billingStatus)
	return err
}

func (r *PgStoreRepository) UpdateAPITokenHash(ctx context.Context, id, hash string) error {
	const query = `
		UPDATE stores
		SET api_token_hash = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, hash)
	return err
}

func (r *PgStoreRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM stores WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

type pgxRow interface {
	Scan(...interface{}) error
}

func (r *PgStoreRepository) scanStore(row pgxRow) (domain.Store, error) {
	var store domain.Store
	var billingStatus, tokenHash sql.NullString
	err := row.Scan(
		&store.ID,
		&store.ShopDomain,
		&store.ShopName,
		&store.Plan,
		&store.IsActive,
		&billingStatus,
		&tokenHash,
		&store.CreatedAt,
		&store.UpdatedAt,
	)
	if err != nil {
		return domain.Store{}, err
	}
	if billingStatus.Valid {
		store.BillingStatus = billingStatus.String
	}
	if tokenHash.Valid {
		store.APITokenHash = tokenHash.String
	}
	return store, nil
}
