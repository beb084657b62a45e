package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"

	"shopchat-ai/internal/domain"
)

type FAQRepository interface {
	Create(ctx context.Context, faq domain.FAQ) error
	GetByID(ctx context.Context, id string) (domain.FAQ, error)
	ListByStore(ctx context.Context, storeID string) ([]domain.FAQ, error)
	ListEnabledByStore(ctx context.Context, storeID string, limit int) ([]domain.FAQ, error)
	// SearchByEmbedding devuelve las k FAQs habilitadas mas cercanas al vector.
	SearchByEmbedding(ctx context.Context, storeID string, query pgvector.Vector, k int) ([]domain.FAQ, error)
	Update(ctx context.Context, faq domain.FAQ) error
	CountEnabledByStore(ctx context.Context, storeID string) (int64, error)
	Delete(ctx context.Context, id string) error
	DeleteByStore(ctx context.Context, storeID string) (int64, error)
}

type PgFAQRepository struct {
	pool *pgxpool.Pool
}

func NewPgFAQRepository(pool *pgxpool.Pool) *PgFAQRepository {
	return &PgFAQRepository{pool: pool}
}

func (r *PgFAQRepository) Create(ctx context.Context, faq domain.FAQ) error {
	const query = `
		INSERT INTO faqs (id, store_id, question, answer, enabled, embedding, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	var embedding interface{}
	if faq.Embedding != nil {
		embedding = *faq.Embedding
	}
	_, err := r.pool.Exec(ctx, query,
		faq.ID,
		faq.StoreID,
		faq.Question,
		faq.Answer,
		faq.Enabled,
		embedding,
		faq.CreatedAt,
		faq.UpdatedAt,
	)
	return err
}

func (r *PgFAQRepository) GetByID(ctx context.Context, id string) (domain.FAQ, error) {
	const query = `
		SELECT id, store_id, question, answer, enabled, embedding, created_at, updated_at
		FROM faqs
		WHERE id = $1
	`
	return scanFAQ(r.pool.QueryRow(ctx, query, id))
}

func (r *PgFAQRepository) ListByStore(ctx context.Context, storeID string) ([]domain.FAQ, error) {
	const query = `
		SELECT id, store_id, question, answer, enabled, embedding, created_at, updated_at
		FROM faqs
		WHERE store_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, storeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFAQs(rows)
}

func (r *PgFAQRepository) ListEnabledByStore(ctx context.Context, storeID string, limit int) ([]domain.FAQ, error) {
	if limit <= 0 {
		limit = 10
	}
	const query = `
		SELECT id, store_id, question, answer, enabled, embedding, created_at, updated_at
		FROM faqs
		WHERE store_id = $1 AND enabled = TRUE
		ORDER BY created_at ASC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, storeID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFAQs(rows)
}

func (r *PgFAQRepository) SearchByEmbedding(ctx context.Context, storeID string, query pgvector.Vector, k int) ([]domain.FAQ, error) {
	if k <= 0 {
		k = 10
	}
	const sqlQuery = `
		SELECT id, store_id, question, answer, enabled, embedding, created_at, updated_at
		FROM faqs
		WHERE store_id = $1 AND enabled = TRUE AND embedding IS NOT NULL
		ORDER BY embedding <=> $2
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, sqlQuery, storeID, query, k)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanFAQs(rows)
}

func (r *PgFAQRepository) Update(ctx context.Context, faq domain.FAQ) error {
	const query = `
		UPDATE faqs
		SET question = $2, answer = $3, enabled = $4, embedding = $5, updated_at = NOW()
		WHERE id = $1
	`
	var embedding interface{}
	if faq.Embedding != nil {
		embedding = *faq.Embedding
	}
	_, err := r.pool.Exec(ctx, query, faq.ID, faq.Question, faq.Answer, faq.Enabled, embedding)
	return err
}

func (r *PgFAQRepository) CountEnabledByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `SELECT COUNT(*) FROM faqs WHERE store_id = $1 AND enabled = TRUE`
	var count int64
	err := r.pool.QueryRow(ctx, query, storeID).Scan(&count)
	return count, err
}

func (r *PgFAQRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM faqs WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}

func (r *PgFAQRepository) DeleteByStore(ctx context.Context, storeID string) (int64, error) {
	const query = `DELETE FROM faqs WHERE store_id = $1`
	tag, err := r.pool.Exec(ctx, query, storeID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func scanFAQ(row pgxRow) (domain.FAQ, error) {
	var faq domain.FAQ
	var embedding *pgvector.Vector
	err := row.Scan(
		&faq.ID,
		&faq.StoreID,
		&faq.Question,
		&faq.Answer,
		&faq.Enabled,
		&embedding,
		&faq.CreatedAt,
		&faq.UpdatedAt,
	)
	if err != nil {
		return domain.FAQ{}, err
	}
	faq.Embedding = embedding
	return faq, nil
}

func scanFAQs(rows pgxRows) ([]domain.FAQ, error) {
	var faqs []domain.FAQ
	for rows.Next() {
		faq, err := scanFAQ(rows)
		if err != nil {
			return nil, err
		}
		faqs = append(faqs, faq)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return faqs, nil
}
