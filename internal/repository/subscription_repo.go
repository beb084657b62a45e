package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopchat-ai/internal/domain"
)

type SubscriptionRepository interface {
	GetByStore(ctx context.Context, storeID string) (domain.Subscription, error)
	Upsert(ctx context.Context, sub domain.Subscription) error
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type PgSubscriptionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSubscriptionRepository(pool *pgxpool.Pool) *PgSubscriptionRepository {
	return &PgSubscriptionRepository{pool: pool}
}

func (r *PgSubscriptionRepository) GetByStore(ctx context.Context, storeID string) (domain.Subscription, error) {
	const query = `
		SELECT id, store_id, plan, status, trial_days, activated_at, updated_at
		FROM subscriptions
		WHERE store_id = $1
	`
	var sub domain.Subscription
	err := r.pool.QueryRow(ctx, query, storeID).Scan(
		&sub.ID,
		&sub.StoreID,
		&sub.Plan,
		&sub.Status,
		&sub.TrialDays,
		&sub.ActivatedAt,
		&sub.UpdatedAt,
	)
	if err != nil {
		return domain.Subscription{}, err
	}
	return sub, nil
}

func (r *PgSubscriptionRepository) Upsert(ctx context.Context, sub domain.Subscription) error {
	const query = `
		INSERT INTO subscriptions (id, store_id, plan, status, trial_days, activated_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (store_id) DO UPDATE
		SET plan = EXCLUDED.plan,
		    status = EXCLUDED.status,
		    trial_days = EXCLUDED.trial_days,
		    activated_at = EXCLUDED.activated_at,
		    updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		sub.ID,
		sub.StoreID,
		sub.Plan,
		sub.Status,
		sub.TrialDays,
		sub.ActivatedAt,
	)
	return err
}

func (r *PgSubscriptionRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `DELETE FROM subscriptions WHERE store_id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
