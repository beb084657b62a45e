package domain

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage es un turno inmutable dentro de una sesion. StoreID se
// guarda denormalizado para que el borrado por tienda no necesite joins.
type ChatMessage struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	StoreID   string    `json:"store_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidRole indica si el rol es uno de los dos permitidos.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAssistant
}
