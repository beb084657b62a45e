package domain

import "time"

const (
	SubscriptionStatusActive    = "active"
	SubscriptionStatusPending   = "pending"
	SubscriptionStatusCancelled = "cancelled"
)

// Subscription refleja el plan de facturacion vigente de la tienda.
// El cobro en si lo maneja la plataforma; aqui solo se persiste el estado.
type Subscription struct {
	ID          string    `json:"id"`
	StoreID     string    `json:"store_id"`
	Plan        string    `json:"plan"`
	Status      string    `json:"status"`
	TrialDays   int       `json:"trial_days,omitempty"`
	ActivatedAt time.Time `json:"activated_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
