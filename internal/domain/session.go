package domain

import "time"

const (
	SessionStatusActive = "active"
	SessionStatusClosed = "closed"
)

const (
	SentimentPositive = "positive"
	SentimentNeutral  = "neutral"
	SentimentNegative = "negative"
)

// CustomerInfo agrupa los datos opcionales del cliente del widget.
// Ambos campos pueden estar vacios: las sesiones anonimas son validas.
type CustomerInfo struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// ChatSession es un hilo de conversacion de un cliente, siempre
// perteneciente a exactamente una tienda.
type ChatSession struct {
	ID             string    `json:"id"`
	StoreID        string    `json:"store_id"`
	CustomerEmail  string    `json:"customer_email,omitempty"`
	CustomerName   string    `json:"customer_name,omitempty"`
	Status         string    `json:"status"`
	Sentiment      string    `json:"sentiment,omitempty"`
	LastActivityAt time.Time `json:"last_activity_at"`
	CreatedAt      time.Time `json:"created_at"`
}
