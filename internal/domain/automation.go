package domain

import "time"

// Automation es una respuesta predefinida que se dispara cuando el mensaje
// del cliente contiene la palabra clave, sin pasar por el generador.
type Automation struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	Keyword   string    `json:"keyword"`
	Reply     string    `json:"reply"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
}
