package domain

import (
	"math"
	"time"
)

// SubscriptionStatus estado derivado de una suscripción. Nunca se persiste:
// se calcula en cada lectura a partir de Active, EndDate y el reloj.
type SubscriptionStatus string

const (
	StatusInactive     SubscriptionStatus = "INACTIVE"
	StatusActive       SubscriptionStatus = "ACTIVE"
	StatusExpiringSoon SubscriptionStatus = "EXPIRING_SOON"
	StatusExpired      SubscriptionStatus = "EXPIRED"
)

// expiringSoonDays umbral de aviso de vencimiento.
const expiringSoonDays = 7

// Subscription registro de suscripción de un rol.
type Subscription struct {
	Plan            PlanID
	Active          bool
	StartDate       time.Time
	EndDate         time.Time
	TrialEndsAt     time.Time
	IsPaid          bool
	DurationMonths  int
	LastPaymentDate time.Time
	NextBillingDate time.Time
	Features        map[FeatureKey]FeatureValue
}

// RemainingDays días restantes hasta EndDate, redondeando hacia arriba y
// acotado a ≥ 0. Se recalcula en cada consulta: es función del reloj.
func (s Subscription) RemainingDays(now time.Time) int {
	if s.EndDate.IsZero() {
		return 0
	}
	diff := s.EndDate.Sub(now)
	days := int(math.Ceil(diff.Hours() / 24))
	if days < 0 {
		return 0
	}
	return days
}

// Status estado derivado: INACTIVE → EXPIRED → EXPIRING_SOON → ACTIVE,
// primera condición que aplique.
func (s Subscription) Status(now time.Time) SubscriptionStatus {
	if !s.Active {
		return StatusInactive
	}
	remaining := s.RemainingDays(now)
	if remaining <= 0 {
		return StatusExpired
	}
	if remaining <= expiringSoonDays {
		return StatusExpiringSoon
	}
	return StatusActive
}

// Clone copia profunda del registro (las features son un mapa).
func (s Subscription) Clone() Subscription {
	cp := s
	if s.Features != nil {
		cp.Features = make(map[FeatureKey]FeatureValue, len(s.Features))
		for k, v := range s.Features {
			cp.Features[k] = v
		}
	}
	return cp
}
