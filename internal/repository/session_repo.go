package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopchat-ai/internal/domain"
)

type SessionRepository interface {
	Create(ctx context.Context, session domain.ChatSession) error
	GetByID(ctx context.Context, id string) (domain.ChatSession, error)
	// Touch refresca la ultima actividad y, si sentiment no es vacio, la etiqueta.
	Touch(ctx context.Context, id, sentiment string, at time.Time) error
	ListByStoreAndEmail(ctx context.Context, storeID, customerEmail string) ([]domain.ChatSession, error)
	CountByStore(ctx context.Context, storeID string) (int64, error)
	DeleteByID(ctx context.Context, id string) error
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, session domain.ChatSession) error {
	const query = `
		INSERT INTO chat_sessions (id, store_id, customer_email, customer_name, status, sentiment, last_activity_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.pool.Exec(ctx, query,
		session.ID,
		session.StoreID,
		nullIfEmpty(session.CustomerEmail),
		nullIfEmpty(session.CustomerName),
		session.Status,
		nullIfEmpty(session.Sentiment),
		session.LastActivityAt,
		session.CreatedAt,
	)
	return err
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.ChatSession, error) {
	const query = `
		SELECT id, store_id, customer_email, customer_name, status, sentiment, last_activity_at, created_at
		FROM chat_sessions
		WHERE id = $1
	`
	return scanSession(r.pool.QueryRow(ctx, query, id))
}

func (r *PgSessionRepository) Touch(ctx context.Context, id, sentiment string, at time.Time) error {
	const query = `
		UPDATE chat_sessions
		SET last_activity_at = $2, sentiment = COALESCE($3, sentiment)
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, id, at, nullIfEmpty(sentiment))
	return err
}

func (r *PgSessionRepository) ListByStoreAndEmail(ctx context.Context, storeID, customerEmail string) ([]domain.ChatSession, error) {
	const query = `
		SELECT id, store_id, customer_email, customer_name, status, sentiment, last_activity_at, created_at
		FROM chat_sessions
		WHERE store_id = $1 AND customer_email = $2
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, storeID, customerEmail)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, session)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *PgSessionRepository) CountByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM chat_sessions WHERE store_id = $1`
	var count int64
	err := r.pool.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

func (r *PgSessionRepository) DeleteByID(ctx context.Context, id string) error {
	const query = `DELETE FROM chat_sessions WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PgSessionRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `DELETE FROM chat_sessions WHERE store_id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanSession(row pgxRow) (domain.ChatSession, error) {
	var session domain.ChatSession
	var email, name, sentiment sql.NullString
	err := row.Scan(
		&session.ID,
		&session.StoreID,
		&email,
		&name,
		&session.Status,
		&sentiment,
		&session.LastActivityAt,
		&session.CreatedAt,
	)
	if err != nil {
		return domain.ChatSession{}, err
	}
	if email.Valid {
		session.CustomerEmail = email.String
	}
	if name.Valid {
		session.CustomerName = name.String
	}
	if sentiment.Valid {
		session.Sentiment = sentiment.String
	}
	return session, nil
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
