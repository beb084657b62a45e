package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopchat-ai/internal/domain"
)

type AnalyticsRepository interface {
	Record(ctx context.Context, event domain.AnalyticsEvent) error
	CountByStore(ctx context.Context, storeID, eventType string) (int64, error)
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type PgAnalyticsRepository struct {
	pool *pgxpool.Pool
}

func NewPgAnalyticsRepository(pool *pgxpool.Pool) *PgAnalyticsRepository {
	return &PgAnalyticsRepository{pool: pool}
}

func (r *PgAnalyticsRepository) Record(ctx context.Context, event domain.AnalyticsEvent) error {
	const query = `
		INSERT INTO analytics_events (id, store_id, event_type, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query,
		event.ID,
		event.StoreID,
		event.EventType,
		event.CreatedAt,
	)
	return err
}

func (r *PgAnalyticsRepository) CountByStore(ctx context.Context, storeID, eventType string) (int64, error) {
	const query = `SELECT COUNT(*) FROM analytics_events WHERE store_id = $1 AND event_type = $2`
	var count int64
	err := r.pool.QueryRow(ctx, query, storeID, eventType).Scan(&count)
	return count, err
}

func (r *PgAnalyticsRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `DELETE FROM analytics_events WHERE store_id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
