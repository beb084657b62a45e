package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopchat-ai/internal/domain"
)

type AutomationRepository interface {
	Create(ctx context.Context, automation domain.Automation) error
	ListByStore(ctx context.Context, storeID string) ([]domain.Automation, error)
	ListEnabledByStore(ctx context.Context, storeID string) ([]domain.Automation, error)
	Update(ctx context.Context, automation domain.Automation) error
	Delete(ctx context.Context, id string) error
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type PgAutomationRepository struct {
	pool *pgxpool.Pool
}

func NewPgAutomationRepository(pool *pgxpool.Pool) *PgAutomationRepository {
	return &PgAutomationRepository{pool: pool}
}

func (r *PgAutomationRepository) Create(ctx context.Context, automation domain.Automation) error {
	const query = `
		INSERT INTO automations (id, store_id, keyword, reply, enabled, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		automation.ID,
		automation.StoreID,
		automation.Keyword,
		automation.Reply,
		automation.Enabled,
		automation.CreatedAt,
	)
	return err
}

func (r *PgAutomationRepository) ListByStore(ctx context.Context, storeID string) ([]domain.Automation, error) {
	const query = `
		SELECT id, store_id, keyword, reply, enabled, created_at
		FROM automations
		WHERE store_id = $1
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, storeID)
}

func (r *PgAutomationRepository) ListEnabledByStore(ctx context.Context, storeID string) ([]domain.Automation, error) {
	const query = `
		SELECT id, store_id, keyword, reply, enabled, created_at
		FROM automations
		WHERE store_id = $1 AND enabled = TRUE
		ORDER BY created_at ASC
	`
	return r.list(ctx, query, storeID)
}

func (r *PgAutomationRepository) Update(ctx context.Context, automation domain.Automation) error {
	const query = `
		UPDATE automations
		SET keyword = $2, reply = $3, enabled = $4
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, automation.ID, automation.Keyword, automation.Reply, automation.Enabled)
	return err
}

func (r *PgAutomationRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM automations WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PgAutomationRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `DELETE FROM automations WHERE store_id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgAutomationRepository) list(ctx context.Context, query, storeID string) ([]domain.Automation, error) {
	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var automations []domain.Automation
	for rows.Next() {
		var a domain.Automation
		if err := rows.Scan(
			&a.ID,
			&a.StoreID,
			&a.Keyword,
			&a.Reply,
			&a.Enabled,
			&a.CreatedAt,
		); err != nil {
			return nil, err
		}
		automations = append(automations, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return automations, nil
}
