package domain

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PlanID identificador de plan de suscripción. Conjunto cerrado.
type PlanID string

// Planes disponibles.
const (
	PlanFree    PlanID = "FREE"
	PlanBasic   PlanID = "BASIC"
	PlanPremium PlanID = "PREMIUM"

	// PlanNone sin plan asignado (ej. ADMIN).
	PlanNone PlanID = ""
)

// ParsePlanID normaliza un identificador de plan. Devuelve PlanNone si es desconocido.
func ParsePlanID(s string) PlanID {
	switch PlanID(strings.ToUpper(strings.TrimSpace(s))) {
	case PlanFree:
		return PlanFree
	case PlanBasic:
		return PlanBasic
	case PlanPremium:
		return PlanPremium
	default:
		return PlanNone
	}
}

// FeatureKey cuota o capacidad asociada a un plan. Conjunto cerrado.
type FeatureKey string

// Features de plan conocidas.
const (
	FeatureMaxProducts       FeatureKey = "maxProducts"
	FeatureMaxCustomers      FeatureKey = "maxCustomers"
	FeatureMaxInvoices       FeatureKey = "maxInvoices"
	FeatureMaxUsers          FeatureKey = "maxUsers"
	FeatureStorageGB         FeatureKey = "storageGB"
	FeatureReportAccess      FeatureKey = "reportAccess"
	FeatureAdvancedAnalytics FeatureKey = "advancedAnalytics"
)

// FeatureValue valor de una feature: cuota numérica o interruptor booleano.
type FeatureValue struct {
	Limit   int  // cuota numérica (0 si la feature es booleana)
	Enabled bool // true si la feature está disponible
}

// Quota construye una feature de cuota numérica.
func Quota(n int) FeatureValue { return FeatureValue{Limit: n, Enabled: n > 0} }

// Flag construye una feature booleana.
func Flag(on bool) FeatureValue { return FeatureValue{Enabled: on} }

// Plan tier de suscripción: precio mensual, duración y cuotas.
type Plan struct {
	ID             PlanID
	Name           string
	Price          decimal.Decimal // por mes
	Currency       string          // símbolo, ej. "₹"
	DurationMonths int
	Features       map[FeatureKey]FeatureValue
	Description    string
}

// FormatPrice devuelve el precio mensual formateado con agrupación india (₹2,999).
func (p Plan) FormatPrice() string {
	if p.Price.IsZero() {
		return p.Currency + "0"
	}
	printer := message.NewPrinter(language.MustParse("en-IN"))
	return p.Currency + printer.Sprintf("%d", p.Price.IntPart())
}

// planCatalog catálogo estático de planes. No se muta en runtime.
var planCatalog = map[PlanID]Plan{
	PlanFree: {
		ID:             PlanFree,
		Name:           "Free Trial",
		Price:          decimal.Zero,
		Currency:       "₹",
		DurationMonths: 3,
		Features: map[FeatureKey]FeatureValue{
			FeatureMaxProducts:       Quota(100),
			FeatureMaxCustomers:      Quota(50),
			FeatureMaxInvoices:       Quota(500),
			FeatureMaxUsers:          Quota(1),
			FeatureStorageGB:         Quota(1),
			FeatureReportAccess:      Flag(false),
			FeatureAdvancedAnalytics: Flag(false),
		},
		Description: "3 meses de prueba gratis para usuarios nuevos",
	},
	PlanBasic: {
		ID:             PlanBasic,
		Name:           "Basic Plan",
		Price:          decimal.NewFromInt(999),
		Currency:       "₹",
		DurationMonths: 1,
		Features: map[FeatureKey]FeatureValue{
			FeatureMaxProducts:       Quota(1000),
			FeatureMaxCustomers:      Quota(500),
			FeatureMaxInvoices:       Quota(10000),
			FeatureMaxUsers:          Quota(10),
			FeatureStorageGB:         Quota(5),
			FeatureReportAccess:      Flag(true),
			FeatureAdvancedAnalytics: Flag(false),
		},
		Description: "Ideal para negocios pequeños",
	},
	PlanPremium: {
		ID:             PlanPremium,
		Name:           "Premium Plan",
		Price:          decimal.NewFromInt(2999),
		Currency:       "₹",
		DurationMonths: 1,
		Features: map[FeatureKey]FeatureValue{
			FeatureMaxProducts:       Quota(5000),
			FeatureMaxCustomers:      Quota(5000),
			FeatureMaxInvoices:       Quota(100000),
			FeatureMaxUsers:          Quota(100),
			FeatureStorageGB:         Quota(50),
			FeatureReportAccess:      Flag(true),
			FeatureAdvancedAnalytics: Flag(true),
		},
		Description: "Para negocios en crecimiento con necesidades avanzadas",
	},
}

// PlanByID busca un plan en el catálogo. ok=false si el plan es desconocido.
func PlanByID(id PlanID) (Plan, bool) {
	p, ok := planCatalog[id]
	return p, ok
}

// AllPlans devuelve el catálogo completo (copia superficial; el catálogo es de solo lectura).
func AllPlans() []Plan {
	return []Plan{planCatalog[PlanFree], planCatalog[PlanBasic], planCatalog[PlanPremium]}
}
