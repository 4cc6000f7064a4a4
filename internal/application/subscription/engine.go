// Package subscription computa plan, días restantes y cuotas por feature a
// partir del registro de suscripción de cada rol. El estado (ACTIVE,
// EXPIRING_SOON, EXPIRED…) nunca se guarda: es función del reloj.
package subscription

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// subAPI contrato mínimo que el engine necesita del backend.
type subAPI interface {
	MySubscription(ctx context.Context) (dto.SubscriptionResponse, error)
}

// monthApprox aproximación fija de mes usada para calcular vencimientos.
// No es exacta al calendario: decisión deliberada heredada del producto.
const monthApprox = 30 * 24 * time.Hour

// StatusInfo estado derivado con mensaje y color para la UI.
type StatusInfo struct {
	Status  domain.SubscriptionStatus
	Message string
	Color   string
}

// Engine contenedor de estado de suscripciones, uno por rol. OWNER y
// SALES_EXECUTIVE se siguen de forma independiente; ADMIN y SUPERADMIN están
// exentos.
type Engine struct {
	mu   sync.Mutex
	api  subAPI
	log  *logger.Logger
	now  func() time.Time
	subs map[domain.Role]domain.Subscription
	lst  []func()
}

// NewEngine construye el engine sembrado con los defaults por rol.
func NewEngine(api subAPI, log *logger.Logger) *Engine {
	e := &Engine{api: api, log: log, now: time.Now}
	e.subs = e.defaults()
	return e
}

// SetClock inyecta un reloj. Para tests.
func (e *Engine) SetClock(now func() time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.now = now
}

// defaults registros iniciales: OWNER y SALES_EXECUTIVE arrancan con los 3
// meses de prueba gratis; ADMIN sin suscripción.
func (e *Engine) defaults() map[domain.Role]domain.Subscription {
	now := time.Now()
	if e.now != nil {
		now = e.now()
	}
	freePlan, _ := domain.PlanByID(domain.PlanFree)
	trialEnd := now.Add(time.Duration(freePlan.DurationMonths) * monthApprox)

	trial := domain.Subscription{
		Plan:            domain.PlanFree,
		Active:          true,
		StartDate:       now,
		EndDate:         trialEnd,
		TrialEndsAt:     trialEnd,
		IsPaid:          false,
		DurationMonths:  freePlan.DurationMonths,
		NextBillingDate: trialEnd,
		Features:        freePlan.Features,
	}

	return map[domain.Role]domain.Subscription{
		domain.RoleOwner:          trial.Clone(),
		domain.RoleSalesExecutive: trial.Clone(),
		domain.RoleAdmin:          {Plan: domain.PlanNone, Active: false, Features: map[domain.FeatureKey]domain.FeatureValue{}},
	}
}

// Fetch trae la suscripción del usuario actual e hidrata SOLO el slot OWNER;
// el resto de roles conserva sus defaults locales (simplificación conocida
// del producto). Ante fallo se conserva el último estado bueno conocido.
func (e *Engine) Fetch(ctx context.Context) error {
	resp, err := e.api.MySubscription(ctx)
	if err != nil {
		e.log.Warn().Err(err).Msg("fetch de suscripción falló, se conserva el estado local")
		return err
	}

	plan := domain.ParsePlanID(resp.Plan)
	if plan == domain.PlanNone {
		e.log.Warn().Str("plan", resp.Plan).Msg("el backend reporta un plan desconocido, se asume FREE")
		plan = domain.PlanFree
	}
	catalog, _ := domain.PlanByID(plan)

	e.mu.Lock()
	defer e.mu.Unlock()

	owner := e.subs[domain.RoleOwner].Clone()
	owner.Plan = plan
	owner.Active = resp.Status == string(domain.StatusActive)
	owner.IsPaid = resp.IsPaid
	owner.Features = catalog.Features
	if t, err := time.Parse(time.RFC3339, resp.EndDate); err == nil {
		owner.EndDate = t
	}
	if t, err := time.Parse(time.RFC3339, resp.StartDate); err == nil {
		owner.StartDate = t
	}
	if t, err := time.Parse(time.RFC3339, resp.TrialEndsAt); err == nil {
		owner.TrialEndsAt = t
	}
	e.subs[domain.RoleOwner] = owner
	e.notifyLocked()

	e.log.Info().Str("plan", string(plan)).Str("estado", resp.Status).Msg("suscripción OWNER hidratada desde el servidor")
	return nil
}

// Get snapshot del registro de un rol. Roles sin registro devuelven un
// registro inactivo vacío.
func (e *Engine) Get(role domain.Role) domain.Subscription {
	e.mu.Lock()
	defer e.mu.Unlock()
	if sub, ok := e.subs[role]; ok {
		return sub.Clone()
	}
	return domain.Subscription{Features: map[domain.FeatureKey]domain.FeatureValue{}}
}

// RemainingDays días restantes del rol, recomputados contra el reloj en cada
// consulta y acotados a ≥ 0.
func (e *Engine) RemainingDays(role domain.Role) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subs[role].RemainingDays(e.now())
}

// Status estado derivado del rol.
func (e *Engine) Status(role domain.Role) domain.SubscriptionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.subs[role].Status(e.now())
}

// IsActive informa si la suscripción del rol está activa y sin vencer.
func (e *Engine) IsActive(role domain.Role) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subs[role]
	return sub.Active && sub.RemainingDays(e.now()) > 0
}

// StatusInfo estado con mensaje y color para widgets de la UI.
func (e *Engine) StatusInfo(role domain.Role) StatusInfo {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subs[role]
	now := e.now()
	remaining := sub.RemainingDays(now)

	switch sub.Status(now) {
	case domain.StatusInactive:
		return StatusInfo{domain.StatusInactive, "La suscripción está inactiva", "gray"}
	case domain.StatusExpired:
		return StatusInfo{domain.StatusExpired, "La suscripción venció", "red"}
	case domain.StatusExpiringSoon:
		return StatusInfo{domain.StatusExpiringSoon, fmt.Sprintf("Vence en %d días", remaining), "orange"}
	default:
		return StatusInfo{domain.StatusActive, fmt.Sprintf("Válida por %d días más", remaining), "green"}
	}
}

// FeatureCheck resultado de una consulta de cuota. El engine no lleva el
// contador de uso: el llamador compara su uso vivo contra Limit.
type FeatureCheck struct {
	Allowed bool
	Reason  string
	Limit   domain.FeatureValue
}

// CheckFeatureLimit cuota de una feature para el rol. Suscripción inactiva o
// vencida → no permitido, límite cero.
func (e *Engine) CheckFeatureLimit(role domain.Role, feature domain.FeatureKey) FeatureCheck {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subs[role]
	if !sub.Active || sub.RemainingDays(e.now()) <= 0 {
		return FeatureCheck{Allowed: false, Reason: "suscripción vencida"}
	}
	return FeatureCheck{Allowed: true, Limit: sub.Features[feature]}
}

// UpgradePlan cambia el plan del rol según el catálogo estático. Plan
// desconocido → no-op, devuelve false. El vencimiento se recalcula desde
// ahora con la aproximación de mes de 30 días.
func (e *Engine) UpgradePlan(role domain.Role, planID domain.PlanID) bool {
	plan, ok := domain.PlanByID(planID)
	if !ok {
		e.log.Warn().Str("plan", string(planID)).Msg("upgrade a plan desconocido ignorado")
		return false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	now := e.now()
	endDate := now.Add(time.Duration(plan.DurationMonths) * monthApprox)

	sub := e.subs[role].Clone()
	sub.Plan = planID
	sub.IsPaid = planID != domain.PlanFree
	sub.Active = true
	sub.EndDate = endDate
	sub.DurationMonths = plan.DurationMonths
	sub.Features = plan.Features
	if sub.IsPaid {
		sub.LastPaymentDate = now
		sub.NextBillingDate = endDate
	} else {
		sub.LastPaymentDate = time.Time{}
		sub.NextBillingDate = time.Time{}
	}
	e.subs[role] = sub
	e.notifyLocked()

	e.log.Info().Str("rol", string(role)).Str("plan", string(planID)).Time("vence", endDate).Msg("plan actualizado")
	return true
}

// ExtendDays suma días al vencimiento del rol y reactiva la suscripción.
func (e *Engine) ExtendDays(role domain.Role, days int) time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subs[role].Clone()
	sub.EndDate = sub.EndDate.Add(time.Duration(days) * 24 * time.Hour)
	sub.Active = true
	e.subs[role] = sub
	e.notifyLocked()
	return sub.EndDate
}

// Reset restaura los defaults del rol.
func (e *Engine) Reset(role domain.Role) {
	defaults := e.defaults()
	e.mu.Lock()
	defer e.mu.Unlock()
	if sub, ok := defaults[role]; ok {
		e.subs[role] = sub
		e.notifyLocked()
	}
}

// UpdateFeatureLimit ajusta una cuota puntual del rol (pantalla de controles
// de features del super admin).
func (e *Engine) UpdateFeatureLimit(role domain.Role, feature domain.FeatureKey, value domain.FeatureValue) {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subs[role].Clone()
	if sub.Features == nil {
		sub.Features = map[domain.FeatureKey]domain.FeatureValue{}
	}
	sub.Features[feature] = value
	e.subs[role] = sub
	e.notifyLocked()
}

// GetTrialRemainingDays días de prueba restantes. Solo aplica al plan FREE:
// cualquier otro plan devuelve 0 ("sin prueba aplicable").
func (e *Engine) GetTrialRemainingDays(role domain.Role) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	sub := e.subs[role]
	if sub.Plan != domain.PlanFree || sub.TrialEndsAt.IsZero() {
		return 0
	}
	trial := sub
	trial.EndDate = sub.TrialEndsAt
	return trial.RemainingDays(e.now())
}

// IsTrialExpired true si la prueba venció. Para planes distintos de FREE
// devuelve true: "sin prueba" se reporta como "prueba vencida" y el llamador
// debe leerlo como "no aplica".
func (e *Engine) IsTrialExpired(role domain.Role) bool {
	e.mu.Lock()
	sub := e.subs[role]
	e.mu.Unlock()
	if sub.Plan != domain.PlanFree {
		return true
	}
	return e.GetTrialRemainingDays(role) <= 0
}

// Subscribe registra un listener de cambios de suscripción.
func (e *Engine) Subscribe(fn func()) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lst = append(e.lst, fn)
}

func (e *Engine) notifyLocked() {
	subs := make([]func(), len(e.lst))
	copy(subs, e.lst)
	go func() {
		for _, fn := range subs {
			fn()
		}
	}()
}
