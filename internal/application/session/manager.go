// Package session gestiona la identidad autenticada y su ciclo de vida:
// login, logout, restauración desde el almacén local y refresco de perfil.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/internal/infrastructure/sessionstore"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// authAPI contrato mínimo que el session manager necesita del backend.
type authAPI interface {
	CurrentUser(ctx context.Context) (dto.UserResponse, error)
	Logout(ctx context.Context) error
}

// Manager contenedor de estado de la sesión. Construible de forma
// independiente e inyectable; expone subscribe/notify para que el guard
// recalcule sin polling.
type Manager struct {
	mu       sync.Mutex
	store    sessionstore.Store
	api      authAPI
	log      *logger.Logger
	identity *domain.Identity
	loading  bool
	restored bool
	started  time.Time
	subs     []func()
}

// NewManager construye el session manager. La sesión arranca en loading hasta
// que Restore complete.
func NewManager(store sessionstore.Store, api authAPI, log *logger.Logger) *Manager {
	return &Manager{
		store:   store,
		api:     api,
		log:     log,
		loading: true,
		started: time.Now(),
	}
}

// Restore lee el token y la identidad persistidos. Corre exactamente una vez
// por proceso; llamadas posteriores no hacen nada. Un blob que no parsea se
// trata como sesión ausente y purga ambas entradas. Nunca devuelve error.
func (m *Manager) Restore() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.restored {
		return
	}
	m.restored = true
	defer func() {
		m.loading = false
		m.notifyLocked()
	}()

	token, hasToken := m.store.Get(sessionstore.KeyAuthToken)
	blob, hasUser := m.store.Get(sessionstore.KeyUser)
	if !hasToken || token == "" || !hasUser {
		// Estado parcial (solo token o solo identidad): se purga entero.
		m.purgeLocked()
		return
	}

	var id domain.Identity
	if err := json.Unmarshal([]byte(blob), &id); err != nil {
		m.log.Warn().Err(err).Msg("identidad almacenada corrupta, purgando sesión")
		m.purgeLocked()
		return
	}

	m.identity = &id
	m.log.Info().Str("usuario", id.DisplayName).Str("rol", string(id.Role())).Msg("sesión restaurada")
}

// Login establece la identidad actual y la persiste. Si token no es vacío lo
// persiste también; si es vacío se asume que el llamador ya lo guardó
// (contrato del flujo de login, no se verifica). Nunca falla: un error de
// persistencia se loguea y la sesión en memoria sigue siendo válida.
func (m *Manager) Login(id domain.Identity, token string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if token != "" {
		if err := m.store.Set(sessionstore.KeyAuthToken, token); err != nil {
			m.log.Error().Err(err).Msg("persistir token")
		}
	}
	raw, _ := json.Marshal(id)
	if err := m.store.Set(sessionstore.KeyUser, string(raw)); err != nil {
		m.log.Error().Err(err).Msg("persistir identidad")
	}

	m.identity = &id
	m.log.Info().Str("usuario", id.DisplayName).Str("rol", string(id.Role())).Msg("login")
	m.notifyLocked()
}

// Logout limpia la identidad y las entradas persistidas de forma síncrona
// (el siguiente render ya ve "no autenticado") y avisa al backend en segundo
// plano. Un fallo del backend se traga y loguea, nunca se propaga.
func (m *Manager) Logout() {
	m.mu.Lock()
	m.identity = nil
	m.purgeLocked()
	m.notifyLocked()
	m.mu.Unlock()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := m.api.Logout(ctx); err != nil {
			m.log.Warn().Err(err).Msg("logout en backend falló (ignorado)")
		}
	}()
}

// RefreshProfile trae la identidad fresca y la mezcla sobre la actual: los
// campos presentes en la respuesta pisan, el rol se conserva si la respuesta
// no lo trae. Un fallo deja la identidad intacta.
func (m *Manager) RefreshProfile(ctx context.Context) error {
	fresh, err := m.api.CurrentUser(ctx)
	if err != nil {
		m.log.Warn().Err(err).Msg("refresco de perfil falló, identidad intacta")
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		// La sesión se cerró mientras la llamada estaba en vuelo.
		return nil
	}

	merged := *m.identity
	if fresh.ID != "" {
		merged.ID = fresh.ID
	}
	if fresh.Name != "" {
		merged.DisplayName = fresh.Name
	}
	if fresh.Phone != "" {
		merged.Phone = fresh.Phone
	}
	if fresh.Role != "" {
		merged.RoleRaw = fresh.Role
	}
	if fresh.IsSuperAdmin != nil {
		merged.IsSuperAdmin = *fresh.IsSuperAdmin
	}

	m.identity = &merged
	raw, _ := json.Marshal(merged)
	if err := m.store.Set(sessionstore.KeyUser, string(raw)); err != nil {
		m.log.Error().Err(err).Msg("re-persistir identidad")
	}
	m.log.Debug().Str("usuario", merged.DisplayName).Msg("perfil refrescado")
	m.notifyLocked()
	return nil
}

// SwitchRole cambia el rol local de la identidad. Comportamiento heredado de
// la pantalla de cambio de rol; el backend debe re-autorizar por su cuenta.
func (m *Manager) SwitchRole(role domain.Role) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return
	}
	updated := *m.identity
	updated.RoleRaw = string(role)
	m.identity = &updated
	m.notifyLocked()
}

// Identity snapshot de la identidad actual. ok=false si no hay sesión.
func (m *Manager) Identity() (domain.Identity, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return domain.Identity{}, false
	}
	return *m.identity, true
}

// Role rol derivado de la identidad actual. Se recalcula en cada lectura:
// no puede sobrevivir un rol viejo a un cambio de identidad.
func (m *Manager) Role() domain.Role {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.identity == nil {
		return domain.RoleNone
	}
	return m.identity.Role()
}

// IsAuthenticated informa si hay identidad.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.identity != nil
}

// Loading informa si la restauración inicial sigue pendiente.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// StartedAt instante de arranque del manager; el guard lo usa para la ventana
// de gracia del estado loading.
func (m *Manager) StartedAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.started
}

// Token bearer token persistido. Implementa el TokenSource del cliente API.
func (m *Manager) Token() (string, bool) {
	return m.store.Get(sessionstore.KeyAuthToken)
}

// Subscribe registra un listener de cambios de sesión.
func (m *Manager) Subscribe(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// purgeLocked borra token e identidad juntos: nunca queda uno sin el otro.
func (m *Manager) purgeLocked() {
	if err := m.store.Delete(sessionstore.KeyAuthToken); err != nil {
		m.log.Error().Err(err).Msg("purgar token")
	}
	if err := m.store.Delete(sessionstore.KeyUser); err != nil {
		m.log.Error().Err(err).Msg("purgar identidad")
	}
}

func (m *Manager) notifyLocked() {
	subs := make([]func(), len(m.subs))
	copy(subs, m.subs)
	go func() {
		for _, fn := range subs {
			fn()
		}
	}()
}
