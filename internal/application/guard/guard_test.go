package guard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tu-usuario/invorya-client/internal/application/guard"
	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes de los tres contenedores de estado
// ──────────────────────────────────────────────────────────────────────────────

type fakeSession struct {
	loading bool
	started time.Time
	id      *domain.Identity
}

func (f *fakeSession) Loading() bool        { return f.loading }
func (f *fakeSession) StartedAt() time.Time { return f.started }
func (f *fakeSession) IsAuthenticated() bool {
	return f.id != nil
}
func (f *fakeSession) Identity() (domain.Identity, bool) {
	if f.id == nil {
		return domain.Identity{}, false
	}
	return *f.id, true
}
func (f *fakeSession) Role() domain.Role {
	if f.id == nil {
		return domain.RoleNone
	}
	return f.id.Role()
}

type fakePerms map[domain.PermissionKey]bool

func (f fakePerms) HasPermission(_ domain.Role, key domain.PermissionKey) bool { return f[key] }

type fakeSubs struct{ status domain.SubscriptionStatus }

func (f fakeSubs) Status(_ domain.Role) domain.SubscriptionStatus { return f.status }

var now = time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)

func newGuard(sess *fakeSession, perms fakePerms, subs fakeSubs) *guard.Guard {
	g := guard.New(sess, perms, subs, logger.Nop())
	g.SetClock(func() time.Time { return now })
	return g
}

func ownerSession() *fakeSession {
	return &fakeSession{
		started: now,
		id:      &domain.Identity{ID: "u1", DisplayName: "Dueño Demo", RoleRaw: "OWNER"},
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Carga y autenticación
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_SesionRestaurandoMuestraPlaceholder(t *testing.T) {
	sess := &fakeSession{loading: true, started: now.Add(-time.Second)}
	g := newGuard(sess, fakePerms{}, fakeSubs{})

	d := g.Evaluate(guard.Requirement{}, guard.PathDashboard)
	assert.Equal(t, guard.DecisionLoading, d.Kind)
}

func TestEvaluate_GraciaAgotadaSinIdentidadVaAlLogin(t *testing.T) {
	// Restauración colgada más allá de la ventana de gracia: se deja de
	// esperar y se trata como no autenticado.
	sess := &fakeSession{loading: true, started: now.Add(-5 * time.Second)}
	g := newGuard(sess, fakePerms{}, fakeSubs{})

	d := g.Evaluate(guard.Requirement{}, guard.PathDashboard)
	assert.Equal(t, guard.DecisionRedirect, d.Kind)
	assert.Equal(t, guard.PathLogin, d.Target)
}

func TestEvaluate_CargandoConIdentidadCacheadaNoBloquea(t *testing.T) {
	sess := ownerSession()
	sess.loading = true
	g := newGuard(sess, fakePerms{domain.PermViewDashboard: true}, fakeSubs{status: domain.StatusActive})

	d := g.Evaluate(guard.Requirement{Permission: domain.PermViewDashboard}, guard.PathDashboard)
	assert.Equal(t, guard.DecisionRender, d.Kind)
}

func TestEvaluate_SinSesionRedirigeAlLogin(t *testing.T) {
	g := newGuard(&fakeSession{started: now}, fakePerms{}, fakeSubs{})

	d := g.Evaluate(guard.Requirement{}, "/pos")
	assert.Equal(t, guard.DecisionRedirect, d.Kind)
	assert.Equal(t, guard.PathLogin, d.Target)
}

// ──────────────────────────────────────────────────────────────────────────────
// Super admin
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_SuperAdminPasaTodoSinPermisos(t *testing.T) {
	sess := &fakeSession{
		started: now,
		id:      &domain.Identity{ID: "root", RoleRaw: "ADMIN", IsSuperAdmin: true},
	}
	// Sin ningún permiso en la matriz y con la suscripción vencida: igual pasa.
	g := newGuard(sess, fakePerms{}, fakeSubs{status: domain.StatusExpired})

	d := g.Evaluate(guard.Requirement{Role: domain.RoleOwner, Permission: domain.PermManageUsers}, "/owner/roles-permissions")
	assert.Equal(t, guard.DecisionRender, d.Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Requisitos de rol y permiso
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_RolInsuficienteRedirigeALaRaiz(t *testing.T) {
	sess := &fakeSession{
		started: now,
		id:      &domain.Identity{ID: "v1", RoleRaw: "SALES_EXECUTIVE"},
	}
	g := newGuard(sess, fakePerms{}, fakeSubs{status: domain.StatusActive})

	d := g.Evaluate(guard.Requirement{Role: domain.RoleOwner}, "/team-access")
	assert.Equal(t, guard.DecisionRedirect, d.Kind)
	assert.Equal(t, guard.PathRoot, d.Target)
}

func TestEvaluate_RolInsuficienteEnLaRaizEsPanelTerminal(t *testing.T) {
	// Ya estamos en la raíz: redirigir ahí mismo sería un bucle infinito.
	sess := &fakeSession{
		started: now,
		id:      &domain.Identity{ID: "v1", RoleRaw: "SALES_EXECUTIVE"},
	}
	g := newGuard(sess, fakePerms{}, fakeSubs{status: domain.StatusActive})

	d := g.Evaluate(guard.Requirement{Role: domain.RoleOwner}, guard.PathRoot)
	assert.Equal(t, guard.DecisionDenied, d.Kind)
	assert.NotEmpty(t, d.Reason)
}

func TestEvaluate_PermisoFaltanteRedirigeALaRaiz(t *testing.T) {
	sess := ownerSession()
	g := newGuard(sess, fakePerms{domain.PermViewReports: false}, fakeSubs{status: domain.StatusActive})

	d := g.Evaluate(guard.Requirement{Permission: domain.PermViewReports}, "/reports")
	assert.Equal(t, guard.DecisionRedirect, d.Kind)
	assert.Equal(t, guard.PathRoot, d.Target)
}

// ──────────────────────────────────────────────────────────────────────────────
// Suscripción vencida
// ──────────────────────────────────────────────────────────────────────────────

func TestEvaluate_VencidaConPermisoGateadoVaAlDashboard(t *testing.T) {
	sess := ownerSession()
	g := newGuard(sess, fakePerms{domain.PermViewPOS: true}, fakeSubs{status: domain.StatusExpired})

	d := g.Evaluate(guard.Requirement{Permission: domain.PermViewPOS}, "/pos")
	assert.Equal(t, guard.DecisionRedirect, d.Kind)
	assert.Equal(t, guard.PathDashboard, d.Target)
}

func TestEvaluate_VencidaEnElDashboardRenderizaConOverlay(t *testing.T) {
	sess := ownerSession()
	g := newGuard(sess, fakePerms{domain.PermViewDashboard: true}, fakeSubs{status: domain.StatusExpired})

	d := g.Evaluate(guard.Requirement{Permission: domain.PermViewDashboard}, guard.PathDashboard)
	assert.Equal(t, guard.DecisionRender, d.Kind)
}

func TestEvaluate_VencidaConPermisoNoGateadoRenderiza(t *testing.T) {
	// view_customers no depende de la suscripción: la ruta sigue accesible.
	sess := ownerSession()
	g := newGuard(sess, fakePerms{domain.PermViewCustomers: true}, fakeSubs{status: domain.StatusExpired})

	d := g.Evaluate(guard.Requirement{Permission: domain.PermViewCustomers}, "/customers")
	assert.Equal(t, guard.DecisionRender, d.Kind)
}

func TestEvaluate_PorVencerNoBloquea(t *testing.T) {
	sess := ownerSession()
	g := newGuard(sess, fakePerms{domain.PermViewPOS: true}, fakeSubs{status: domain.StatusExpiringSoon})

	d := g.Evaluate(guard.Requirement{Permission: domain.PermViewPOS}, "/pos")
	assert.Equal(t, guard.DecisionRender, d.Kind)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tabla de rutas
// ──────────────────────────────────────────────────────────────────────────────

func TestRouteRequirement_RutasConocidasYDesconocidas(t *testing.T) {
	assert.Equal(t, domain.PermViewPOS, guard.RouteRequirement("/pos").Permission)
	assert.Equal(t, domain.RoleOwner, guard.RouteRequirement("/team-access").Role)
	assert.Equal(t, domain.RoleSuperAdmin, guard.RouteRequirement("/super-admin/leads").Role)

	// Ruta fuera de la tabla: solo exige autenticación.
	assert.Equal(t, guard.Requirement{}, guard.RouteRequirement("/ruta-inventada"))
}
