package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopchat-ai/internal/domain"
)

type SettingsRepository interface {
	GetByStore(ctx context.Context, storeID string) (domain.WidgetSettings, error)
	Upsert(ctx context.Context, settings domain.WidgetSettings) error
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type PgSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewPgSettingsRepository(pool *pgxpool.Pool) *PgSettingsRepository {
	return &PgSettingsRepository{pool: pool}
}

func (r *PgSettingsRepository) GetByStore(ctx context.Context, storeID string) (domain.WidgetSettings, error) {
	const query = `
		SELECT store_id, primary_color, greeting, position, enabled, updated_at
		FROM widget_settings
		WHERE store_id = $1
	`
	var settings domain.WidgetSettings
	err := r.pool.QueryRow(ctx, query, storeID).Scan(
		&settings.StoreID,
		&settings.PrimaryColor,
		&settings.Greeting,
		&settings.Position,
		&settings.Enabled,
		&settings.UpdatedAt,
	)
	if err != nil {
		return domain.WidgetSettings{}, err
	}
	return settings, nil
}

func (r *PgSettingsRepository) Upsert(ctx context.Context, settings domain.WidgetSettings) error {
	const query = `
		INSERT INTO widget_settings (store_id, primary_color, greeting, position, enabled, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (store_id) DO UPDATE
		SET primary_color = EXCLUDED.primary_color,
		    greeting = EXCLUDED.greeting,
		    position = EXCLUDED.position,
		    enabled = EXCLUDED.enabled,
		    updated_at = NOW()
	`
	_, err := r.pool.Exec(ctx, query,
		settings.StoreID,
		settings.PrimaryColor,
		settings.Greeting,
		settings.Position,
		settings.Enabled,
	)
	return err
}

func (r *PgSettingsRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `DELETE FROM widget_settings WHERE store_id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
