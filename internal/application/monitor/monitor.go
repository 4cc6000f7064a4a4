// Package monitor agrupa las tareas periódicas de fondo del cliente: el
// latido de conectividad contra /health/ y el chequeo de vencimiento de
// suscripción. Son cancelables y su ciclo de vida lo maneja el shell junto
// al de la sesión: no hay timers ambientales que sobrevivan a su dueño.
package monitor

import (
	"context"
	"sync"
	"time"

	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// healthAPI sonda de vivacidad del backend.
type healthAPI interface {
	Health(ctx context.Context) error
}

// sessionView rol actual de la sesión.
type sessionView interface {
	Role() domain.Role
}

// subscriptionView consultas de vencimiento.
type subscriptionView interface {
	IsActive(role domain.Role) bool
	RemainingDays(role domain.Role) int
}

// Monitor corre el latido y el chequeo de vencimiento hasta Stop.
type Monitor struct {
	api    healthAPI
	sess   sessionView
	subs   subscriptionView
	log    *logger.Logger
	hbIntv time.Duration
	exIntv time.Duration

	mu        sync.Mutex
	connected bool
	listeners []func(bool)
	cancel    context.CancelFunc
	wg        sync.WaitGroup
}

// New construye el monitor con los intervalos dados.
func New(api healthAPI, sess sessionView, subs subscriptionView, heartbeat, expiryCheck time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{
		api:       api,
		sess:      sess,
		subs:      subs,
		log:       log,
		hbIntv:    heartbeat,
		exIntv:    expiryCheck,
		connected: true, // optimista hasta el primer latido
	}
}

// Start lanza ambas tareas. Idempotente mientras no se llame Stop.
func (m *Monitor) Start() {
	m.mu.Lock()
	if m.cancel != nil {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.mu.Unlock()

	m.wg.Add(2)
	go m.heartbeatLoop(ctx)
	go m.expiryLoop(ctx)
}

// Stop cancela las tareas y espera a que terminen.
func (m *Monitor) Stop() {
	m.mu.Lock()
	cancel := m.cancel
	m.cancel = nil
	m.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	m.wg.Wait()
}

// Connected último estado conocido de conectividad.
func (m *Monitor) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.connected
}

// OnConnectivityChange registra un listener de cambios de conectividad.
func (m *Monitor) OnConnectivityChange(fn func(bool)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Monitor) heartbeatLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.hbIntv)
	defer ticker.Stop()

	m.beat(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.beat(ctx)
		}
	}
}

func (m *Monitor) beat(ctx context.Context) {
	callCtx, cancel := context.WithTimeout(ctx, m.hbIntv)
	defer cancel()
	up := m.api.Health(callCtx) == nil

	m.mu.Lock()
	changed := up != m.connected
	m.connected = up
	listeners := make([]func(bool), len(m.listeners))
	copy(listeners, m.listeners)
	m.mu.Unlock()

	if changed {
		if up {
			m.log.Info().Msg("backend disponible de nuevo")
		} else {
			m.log.Warn().Msg("backend no responde")
		}
		for _, fn := range listeners {
			fn(up)
		}
	}
}

func (m *Monitor) expiryLoop(ctx context.Context) {
	defer m.wg.Done()
	ticker := time.NewTicker(m.exIntv)
	defer ticker.Stop()

	m.checkExpiry()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.checkExpiry()
		}
	}
}

// checkExpiry loguea avisos de vencimiento para el rol de la sesión. ADMIN y
// SUPERADMIN están exentos de suscripción y se saltan.
func (m *Monitor) checkExpiry() {
	role := m.sess.Role()
	if role == domain.RoleNone || role.SubscriptionExempt() {
		return
	}

	remaining := m.subs.RemainingDays(role)
	switch {
	case !m.subs.IsActive(role):
		m.log.Warn().Str("rol", string(role)).Msg("la suscripción venció")
	case remaining <= 7 && remaining > 0:
		m.log.Warn().Str("rol", string(role)).Int("dias", remaining).Msg("la suscripción vence pronto")
	}
}
