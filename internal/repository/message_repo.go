package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"shopchat-ai/internal/domain"
)

type MessageRepository interface {
	Create(ctx context.Context, message domain.ChatMessage) error
	ListBySessionID(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	ListRecentByStore(ctx context.Context, storeID string, limit int) ([]domain.ChatMessage, error)
	CountByStore(ctx context.Context, storeID string) (int64, error)
	CountByStoreSince(ctx context.Context, storeID string, since time.Time) (int64, error)
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.ChatMessage) error {
	const query = `
		INSERT INTO chat_messages (id, session_id, store_id, role, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.pool.Exec(ctx, query,
		message.ID,
		message.SessionID,
		message.StoreID,
		message.Role,
		message.Content,
		message.CreatedAt,
	)
	return err
}

func (r *PgMessageRepository) ListBySessionID(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	const query = `
		SELECT id, session_id, store_id, role, content, created_at
		FROM chat_messages
		WHERE session_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *PgMessageRepository) ListRecentByStore(ctx context.Context, storeID string, limit int) ([]domain.ChatMessage, error) {
	if limit <= 0 {
		limit = 3
	}
	const query = `
		SELECT id, session_id, store_id, role, content, created_at
		FROM chat_messages
		WHERE store_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanMessages(rows)
}

func (r *PgMessageRepository) CountByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM chat_messages WHERE store_id = $1`
	var count int64
	err := r.pool.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

func (r *PgMessageRepository) CountByStoreSince(ctx context.Context, storeID string, since time.Time) (int64, error) {
	const query = `SELECT COUNT(*) FROM chat_messages WHERE store_id = $1 AND created_at >= $2`
	var count int64
	err := r.pool.QueryRow(ctx, query, storeID, since).Scan(&count)
	return count, err
}

func (r *PgMessageRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	const query = `DELETE FROM chat_messages WHERE session_id = $1`
	tag, err := r.pool.Exec(ctx, query, sessionID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (r *PgMessageRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `DELETE FROM chat_messages WHERE store_id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanMessages(rows pgxRows) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	for rows.Next() {
		var msg domain.ChatMessage
		if err := rows.Scan(
			&msg.ID,
			&msg.SessionID,
			&msg.StoreID,
			&msg.Role,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

// pgxRows is a minimal interface to allow scanning from pgx rows and simplify testing.
type pgxRows interface {
	Next() bool
	Scan(...interface{}) error
	Err() error
	Close()
}
