package domain

import "time"

// Planes de suscripcion reconocidos por la app.
const (
	PlanFree         = "free"
	PlanStarter      = "starter"
	PlanProfessional = "professional"
	PlanEnterprise   = "enterprise"
)

// Store representa la tienda de un merchant (un tenant).
// ShopDomain es unico e inmutable despues de la creacion.
type Store struct {
	ID            string    `json:"id"`
	ShopDomain    string    `json:"shop_domain"`
	ShopName      string    `json:"shop_name"`
	Plan          string    `json:"plan"`
	IsActive      bool      `json:"is_active"`
	BillingStatus string    `json:"billing_status,omitempty"`
	APITokenHash  string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ValidPlan indica si el plan es uno de los reconocidos.
func ValidPlan(plan string) bool {
	switch plan {
	case PlanFree, PlanStarter, PlanProfessional, PlanEnterprise:
		return true
	}
	return false
}
