package domain

import (
	"time"

	pgvector "github.com/pgvector/pgvector-go"
)

// FAQ es un par pregunta/respuesta configurado por el merchant.
// Embedding es opcional; cuando existe permite busqueda por relevancia.
type FAQ struct {
	ID        string          `json:"id"`
	StoreID   string          `json:"store_id"`
	Question  string          `json:"question"`
	Answer    string          `json:"answer"`
	Enabled   bool            `json:"enabled"`
	Embedding *pgvector.Vector `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}
