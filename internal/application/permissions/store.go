// Package permissions mantiene la matriz rol × permiso del cliente: defaults
// estáticos pisados por la matriz del servidor, con toggles optimistas que se
// revierten si la persistencia falla.
package permissions

import (
	"context"
	"sync"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// matrixAPI contrato mínimo que la matriz necesita del backend.
type matrixAPI interface {
	PermissionMatrix(ctx context.Context) (map[string][]string, error)
	SaveMatrixEntry(ctx context.Context, in dto.MatrixUpdateRequest) error
}

// Notifier publica avisos de resultado de los toggles (toasts).
type Notifier interface {
	Add(kind, title, message string) string
}

// seqKey identifica la secuencia de toggles de una celda (rol, permiso).
type seqKey struct {
	role domain.Role
	key  domain.PermissionKey
}

// Store contenedor de estado de la matriz de permisos.
type Store struct {
	mu     sync.Mutex
	api    matrixAPI
	notes  Notifier
	log    *logger.Logger
	matrix domain.Matrix
	seq    map[seqKey]uint64
	subs   []func()
}

// NewStore construye la matriz sembrada con los defaults estáticos.
func NewStore(api matrixAPI, notes Notifier, log *logger.Logger) *Store {
	return &Store{
		api:    api,
		notes:  notes,
		log:    log,
		matrix: domain.DefaultMatrix(),
		seq:    map[seqKey]uint64{},
	}
}

// Fetch reconstruye la matriz desde el servidor: parte de una copia profunda
// de los defaults y, por cada rol presente en la respuesta, pisa SOLO las
// claves ya conocidas con la pertenencia a la lista de habilitados. Claves
// ausentes de la respuesta conservan su default; roles desconocidos se
// loguean y saltan. Ante fallo la matriz queda como está (vieja pero usable).
func (s *Store) Fetch(ctx context.Context) error {
	resp, err := s.api.PermissionMatrix(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("fetch de matriz falló, se conserva la actual")
		return err
	}

	next := domain.DefaultMatrix()
	for roleName, enabled := range resp {
		role := domain.ParseRole(roleName)
		if role == domain.RoleNone {
			s.log.Warn().Str("rol", roleName).Msg("matriz del servidor trae un rol desconocido")
			continue
		}
		perms := next[role]
		enabledSet := make(map[domain.PermissionKey]bool, len(enabled))
		for _, code := range enabled {
			enabledSet[domain.PermissionKey(code)] = true
		}
		for key := range perms {
			perms[key] = enabledSet[key]
		}
	}

	s.mu.Lock()
	s.matrix = next
	s.notifyLocked()
	s.mu.Unlock()

	s.log.Info().Int("roles", len(resp)).Msg("matriz de permisos actualizada desde el servidor")
	return nil
}

// HasPermission informa si el rol tiene el permiso. Para SUPERADMIN y OWNER
// una clave completamente desconocida resuelve a true (fail-open solo para
// esos dos roles); para el resto, desconocido es false.
func (s *Store) HasPermission(role domain.Role, key domain.PermissionKey) bool {
	role = domain.ParseRole(string(role))
	s.mu.Lock()
	defer s.mu.Unlock()

	perms, okRole := s.matrix[role]
	if okRole {
		if value, known := perms[key]; known {
			return value
		}
	}
	if role.Privileged() {
		s.log.Debug().Str("rol", string(role)).Str("permiso", string(key)).
			Msg("permiso desconocido, fail-open para rol privilegiado")
		return true
	}
	return false
}

// toggleCmd comando de actualización optimista de una celda: apply invierte
// el valor en memoria, confirm/revert resuelven según el resultado de red.
// El token de secuencia descarta resoluciones de peticiones superadas.
type toggleCmd struct {
	store    *Store
	key      seqKey
	previous bool
	next     bool
	token    uint64
}

func (c *toggleCmd) apply() {
	c.store.matrix[c.key.role][c.key.key] = c.next
}

// confirm no toca la matriz: el valor optimista ya es el definitivo.
func (c *toggleCmd) confirm() {}

// revert restaura exactamente el booleano previo, no un default recalculado.
func (c *toggleCmd) revert() {
	c.store.matrix[c.key.role][c.key.key] = c.previous
}

// superseded informa si otra petición sobre la misma celda arrancó después.
func (c *toggleCmd) superseded() bool {
	return c.store.seq[c.key] != c.token
}

// Toggle invierte el permiso de forma optimista (visible de inmediato) y
// luego lo persiste. Si la persistencia falla, revierte el cambio exacto y
// publica un aviso de error; si triunfa, publica éxito. Dos toggles
// concurrentes sobre la misma celda se resuelven por token de secuencia: la
// resolución de una petición superada se descarta y no hace parpadear la UI.
func (s *Store) Toggle(ctx context.Context, role domain.Role, key domain.PermissionKey) bool {
	role = domain.ParseRole(string(role))
	if role == domain.RoleNone {
		s.log.Warn().Msg("toggle sobre rol desconocido ignorado")
		return false
	}

	s.mu.Lock()
	perms, ok := s.matrix[role]
	if !ok {
		s.mu.Unlock()
		return false
	}
	sk := seqKey{role: role, key: key}
	s.seq[sk]++
	cmd := &toggleCmd{
		store:    s,
		key:      sk,
		previous: perms[key],
		next:     !perms[key],
		token:    s.seq[sk],
	}
	cmd.apply() // efecto local antes de cualquier espera de red
	s.notifyLocked()
	s.mu.Unlock()

	err := s.api.SaveMatrixEntry(ctx, dto.MatrixUpdateRequest{
		Role:       string(role),
		Permission: string(key),
		Enabled:    cmd.next,
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	if cmd.superseded() {
		// Otra petición más nueva manda sobre esta celda.
		s.log.Debug().Str("permiso", string(key)).Msg("resolución de toggle superada, descartada")
		return err == nil
	}
	if err != nil {
		cmd.revert()
		s.notifyLocked()
		s.log.Warn().Err(err).Str("rol", string(role)).Str("permiso", string(key)).Msg("persistir toggle falló, revertido")
		s.notes.Add("error", "Permisos", "No se pudo actualizar el permiso. Cambio revertido.")
		return false
	}
	cmd.confirm()
	s.notes.Add("success", "Permisos", "Permiso actualizado correctamente.")
	return true
}

// ResetRole restaura los defaults de un rol. Local: el endpoint de reset del
// servidor no está garantizado.
func (s *Store) ResetRole(role domain.Role) {
	role = domain.ParseRole(string(role))
	if role == domain.RoleNone {
		return
	}
	defaults := domain.DefaultMatrix()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matrix[role] = defaults[role]
	s.notifyLocked()
}

// ResetAll restaura la matriz completa a los defaults. Local.
func (s *Store) ResetAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.matrix = domain.DefaultMatrix()
	s.notifyLocked()
}

// EnableAllForSubscribedRole habilita todos los permisos de un rol recién
// suscrito, salvo la gestión de suscripción cuando el rol es OWNER (esas dos
// claves se manejan desde la pantalla de facturación).
func (s *Store) EnableAllForSubscribedRole(role domain.Role) {
	role = domain.ParseRole(string(role))
	if role == domain.RoleNone {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	perms, ok := s.matrix[role]
	if !ok {
		return
	}
	for key := range perms {
		if role == domain.RoleOwner && (key == domain.PermViewSubscription || key == domain.PermManageSubscription) {
			perms[key] = false
			continue
		}
		perms[key] = true
	}
	s.notifyLocked()
}

// Permissions snapshot de los permisos de un rol (copia).
func (s *Store) Permissions(role domain.Role) map[domain.PermissionKey]bool {
	role = domain.ParseRole(string(role))
	s.mu.Lock()
	defer s.mu.Unlock()
	perms, ok := s.matrix[role]
	if !ok {
		return map[domain.PermissionKey]bool{}
	}
	out := make(map[domain.PermissionKey]bool, len(perms))
	for k, v := range perms {
		out[k] = v
	}
	return out
}

// Subscribe registra un listener de cambios de la matriz.
func (s *Store) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) notifyLocked() {
	subs := make([]func(), len(s.subs))
	copy(subs, s.subs)
	go func() {
		for _, fn := range subs {
			fn()
		}
	}()
}
