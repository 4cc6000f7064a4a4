package http

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/invorya-client/internal/domain"
)

// DevUser usuario del backend de desarrollo.
type DevUser struct {
	ID           string
	Name         string
	Phone        string
	PasswordHash string
	Role         string
	IsSuperAdmin bool
}

// DevSubscription registro de suscripción servido por /subscriptions/my-subscription.
type DevSubscription struct {
	Plan        string
	Status      string
	StartDate   time.Time
	EndDate     time.Time
	TrialEndsAt time.Time
	IsPaid      bool
}

// DevStore estado en memoria del backend de desarrollo. Suficiente para
// ejercitar el cliente; no pretende durabilidad.
type DevStore struct {
	mu            sync.Mutex
	users         map[string]*DevUser // por teléfono
	matrix        map[string][]string // rol → permisos habilitados
	subscriptions map[string]DevSubscription
}

// NewDevStore construye el almacén sembrado con usuarios demo, la matriz por
// defecto y una suscripción PREMIUM vigente para el owner.
func NewDevStore() *DevStore {
	s := &DevStore{
		users:         map[string]*DevUser{},
		matrix:        map[string][]string{},
		subscriptions: map[string]DevSubscription{},
	}
	s.seed()
	return s
}

func (s *DevStore) seed() {
	now := time.Now()

	add := func(name, phone, password, role string, super bool) *DevUser {
		hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		u := &DevUser{
			ID:           uuid.New().String(),
			Name:         name,
			Phone:        phone,
			PasswordHash: string(hash),
			Role:         role,
			IsSuperAdmin: super,
		}
		s.users[phone] = u
		return u
	}

	owner := add("Demo Owner", "9000000001", "owner@123", string(domain.RoleOwner), false)
	add("Demo Vendedor", "9000000002", "sales@123", string(domain.RoleSalesExecutive), false)
	add("Demo Admin", "9000000003", "admin@123", string(domain.RoleAdmin), false)
	add("Demo Root", "9000000000", "root@1234", string(domain.RoleSuperAdmin), true)

	// Matriz inicial: los defaults del cliente expresados como listas de
	// claves habilitadas (mismo formato que el backend real).
	for role, perms := range domain.DefaultMatrix() {
		enabled := make([]string, 0, len(perms))
		for key, on := range perms {
			if on {
				enabled = append(enabled, string(key))
			}
		}
		s.matrix[string(role)] = enabled
	}

	s.subscriptions[owner.ID] = DevSubscription{
		Plan:      string(domain.PlanPremium),
		Status:    string(domain.StatusActive),
		StartDate: now,
		EndDate:   now.Add(30 * 24 * time.Hour),
		IsPaid:    true,
	}
}

// UserByPhone busca un usuario por teléfono.
func (s *DevStore) UserByPhone(phone string) (*DevUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[phone]
	return u, ok
}

// UserByID busca un usuario por id.
func (s *DevStore) UserByID(id string) (*DevUser, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, true
		}
	}
	return nil, false
}

// Matrix copia de la matriz rol → permisos habilitados.
func (s *DevStore) Matrix() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string][]string, len(s.matrix))
	for role, enabled := range s.matrix {
		cp := make([]string, len(enabled))
		copy(cp, enabled)
		out[role] = cp
	}
	return out
}

// SetPermission habilita o deshabilita un permiso para un rol.
func (s *DevStore) SetPermission(role, permission string, enabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	current := s.matrix[role]
	filtered := current[:0]
	for _, code := range current {
		if code != permission {
			filtered = append(filtered, code)
		}
	}
	if enabled {
		filtered = append(filtered, permission)
	}
	s.matrix[role] = filtered
}

// SubscriptionFor suscripción del usuario. ok=false si no tiene.
func (s *DevStore) SubscriptionFor(userID string) (DevSubscription, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sub, ok := s.subscriptions[userID]
	return sub, ok
}
