package domain

import "time"

// WidgetSettings guarda la apariencia y el saludo del widget por tienda.
type WidgetSettings struct {
	StoreID      string    `json:"store_id"`
	PrimaryColor string    `json:"primary_color"`
	Greeting     string    `json:"greeting"`
	Position     string    `json:"position"`
	Enabled      bool      `json:"enabled"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultWidgetSettings devuelve la configuracion inicial del widget.
func DefaultWidgetSettings(storeID string) WidgetSettings {
	return WidgetSettings{
		StoreID:      storeID,
		PrimaryColor: "#5c6ac4",
		Greeting:     "Hi! How can I help you today?",
		Position:     "bottom-right",
		Enabled:      true,
	}
}
