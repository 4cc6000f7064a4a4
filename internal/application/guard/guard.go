// Package guard implementa la decisión de navegación: combina sesión, matriz
// de permisos y suscripción para decidir si una ruta se renderiza o redirige.
// Evaluate es una función pura de los snapshots; se reevalúa en cada
// navegación.
package guard

import (
	"time"

	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// Rutas fijas del shell.
const (
	PathRoot      = "/"
	PathLogin     = "/login"
	PathDashboard = "/dashboard"
)

// loadingGrace ventana durante la cual una sesión aún cargando muestra el
// placeholder en vez de un "acceso denegado" prematuro.
const loadingGrace = 3 * time.Second

// DecisionKind tipo de resultado de la evaluación.
type DecisionKind int

const (
	// DecisionLoading renderizar el placeholder de carga.
	DecisionLoading DecisionKind = iota
	// DecisionRender renderizar el destino.
	DecisionRender
	// DecisionRedirect navegar a Target en lugar del destino.
	DecisionRedirect
	// DecisionDenied renderizar el panel terminal de acceso denegado
	// (corta el ciclo de redirecciones cuando ya estamos en el fallback).
	DecisionDenied
)

// Decision resultado de evaluar una navegación.
type Decision struct {
	Kind   DecisionKind
	Target string // destino del redirect; vacío en el resto de casos
	Reason string
}

// Requirement requisitos de la ruta destino. Campos vacíos = sin requisito.
type Requirement struct {
	Role       domain.Role
	Permission domain.PermissionKey
}

// sessionView snapshot de sesión que el guard necesita.
type sessionView interface {
	Loading() bool
	StartedAt() time.Time
	IsAuthenticated() bool
	Identity() (domain.Identity, bool)
	Role() domain.Role
}

// permissionView consulta de permisos.
type permissionView interface {
	HasPermission(role domain.Role, key domain.PermissionKey) bool
}

// subscriptionView consulta de estado de suscripción.
type subscriptionView interface {
	Status(role domain.Role) domain.SubscriptionStatus
}

// gatedPermissions permisos que dependen de una suscripción vigente. Una
// suscripción EXPIRED redirige estas rutas al dashboard (que muestra el
// overlay de vencimiento en lugar de entrar en bucle).
var gatedPermissions = map[domain.PermissionKey]bool{
	domain.PermViewPOS:         true,
	domain.PermViewReports:     true,
	domain.PermManageInventory: true,
	domain.PermManageUsers:     true,
	domain.PermViewDashboard:   true,
}

// Guard evaluador de navegación.
type Guard struct {
	session sessionView
	perms   permissionView
	subs    subscriptionView
	log     *logger.Logger
	now     func() time.Time
}

// New construye el guard sobre los tres contenedores de estado.
func New(session sessionView, perms permissionView, subs subscriptionView, log *logger.Logger) *Guard {
	return &Guard{session: session, perms: perms, subs: subs, log: log, now: time.Now}
}

// SetClock inyecta un reloj. Para tests.
func (g *Guard) SetClock(now func() time.Time) { g.now = now }

// Evaluate decide la navegación hacia path con los requisitos dados.
// El orden de decisión es fijo; gana la primera condición que aplique.
func (g *Guard) Evaluate(req Requirement, path string) Decision {
	// 1. Sesión aún restaurando, dentro de la ventana de gracia y sin
	// identidad cacheada: placeholder de carga.
	if g.session.Loading() && g.now().Sub(g.session.StartedAt()) < loadingGrace {
		if _, has := g.session.Identity(); !has {
			return Decision{Kind: DecisionLoading, Reason: "sesión restaurando"}
		}
	}

	// 2. Sin identidad: al login.
	if !g.session.IsAuthenticated() {
		return Decision{Kind: DecisionRedirect, Target: PathLogin, Reason: "no autenticado"}
	}

	// 3. Super admin pasa todo.
	if id, _ := g.session.Identity(); id.IsSuperAdmin {
		return Decision{Kind: DecisionRender}
	}

	role := g.session.Role()

	// 4. Requisito de rol.
	if req.Role != domain.RoleNone && domain.ParseRole(string(req.Role)) != domain.ParseRole(string(role)) {
		g.log.Warn().Str("ruta", path).Str("requerido", string(req.Role)).Str("actual", string(role)).
			Msg("navegación bloqueada por rol")
		return g.denyToRoot(path, "rol insuficiente")
	}

	// 5. Requisito de permiso.
	if req.Permission != domain.PermNone && !g.perms.HasPermission(role, req.Permission) {
		g.log.Warn().Str("ruta", path).Str("permiso", string(req.Permission)).Str("rol", string(role)).
			Msg("navegación bloqueada por permiso")
		return g.denyToRoot(path, "permiso faltante")
	}

	// 6. Suscripción vencida sobre una ruta con permiso gateado: al
	// dashboard, salvo que ya estemos ahí (el dashboard muestra el overlay).
	if req.Permission != domain.PermNone && gatedPermissions[req.Permission] &&
		g.subs.Status(role) == domain.StatusExpired {
		if path == PathDashboard {
			return Decision{Kind: DecisionRender, Reason: "suscripción vencida, dashboard con overlay"}
		}
		return Decision{Kind: DecisionRedirect, Target: PathDashboard, Reason: "suscripción vencida"}
	}

	// 7. Todo en orden.
	return Decision{Kind: DecisionRender}
}

// denyToRoot redirige a la raíz, o renderiza el panel terminal de acceso
// denegado si la navegación ya está en la raíz (evita el bucle infinito).
func (g *Guard) denyToRoot(path, reason string) Decision {
	if path == PathRoot || path == "" {
		return Decision{Kind: DecisionDenied, Reason: reason}
	}
	return Decision{Kind: DecisionRedirect, Target: PathRoot, Reason: reason}
}
