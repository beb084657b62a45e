package domain

import "time"

const EventChatTurn = "chat_turn"

// AnalyticsEvent registra un evento de uso por tienda (hoy solo turnos de chat).
type AnalyticsEvent struct {
	ID        string    `json:"id"`
	StoreID   string    `json:"store_id"`
	EventType string    `json:"event_type"`
	CreatedAt time.Time `json:"created_at"`
}
