package domain

import "time"

// CustomerDataExport es el paquete de datos personales que se entrega
// ante una solicitud de datos del cliente. Solo lectura: armarlo nunca
// muta el estado persistido.
type CustomerDataExport struct {
	ShopDomain    string            `json:"shop_domain"`
	CustomerEmail string            `json:"customer_email"`
	TotalSessions int               `json:"total_sessions"`
	TotalMessages int               `json:"total_messages"`
	Sessions      []ExportedSession `json:"sessions"`
	GeneratedAt   time.Time         `json:"generated_at"`
}

type ExportedSession struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Messages  []ExportedMessage `json:"messages"`
}

type ExportedMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
