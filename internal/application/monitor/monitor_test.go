package monitor_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/invorya-client/internal/application/monitor"
	"github.com/tu-usuario/invorya-client/internal/domain"
	"github.com/tu-usuario/invorya-client/pkg/logger"
)

type fakeHealth struct{ up atomic.Bool }

func (f *fakeHealth) Health(_ context.Context) error {
	if f.up.Load() {
		return nil
	}
	return errors.New("backend caído")
}

type fakeSession struct{ role domain.Role }

func (f fakeSession) Role() domain.Role { return f.role }

type fakeSubs struct {
	active bool
	days   int
}

func (f fakeSubs) IsActive(_ domain.Role) bool     { return f.active }
func (f fakeSubs) RemainingDays(_ domain.Role) int { return f.days }

func TestMonitor_DetectaCaidaYRecuperacion(t *testing.T) {
	health := &fakeHealth{}
	health.up.Store(true)
	m := monitor.New(health, fakeSession{role: domain.RoleOwner}, fakeSubs{active: true, days: 30},
		10*time.Millisecond, time.Hour, logger.Nop())

	var mu sync.Mutex
	var cambios []bool
	m.OnConnectivityChange(func(up bool) {
		mu.Lock()
		cambios = append(cambios, up)
		mu.Unlock()
	})

	m.Start()
	defer m.Stop()

	require.Eventually(t, m.Connected, time.Second, 5*time.Millisecond)

	// Cae el backend.
	health.up.Store(false)
	require.Eventually(t, func() bool { return !m.Connected() }, time.Second, 5*time.Millisecond)

	// Se recupera.
	health.up.Store(true)
	require.Eventually(t, m.Connected, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.GreaterOrEqual(t, len(cambios), 2)
	assert.False(t, cambios[0], "el primer cambio notificado es la caída")
	assert.True(t, cambios[len(cambios)-1])
}

func TestMonitor_StartEsIdempotenteYStopEspera(t *testing.T) {
	health := &fakeHealth{}
	health.up.Store(true)
	m := monitor.New(health, fakeSession{role: domain.RoleAdmin}, fakeSubs{},
		10*time.Millisecond, 10*time.Millisecond, logger.Nop())

	m.Start()
	m.Start() // segundo Start no duplica loops

	time.Sleep(50 * time.Millisecond)
	m.Stop()
	m.Stop() // segundo Stop es un no-op

	// Tras Stop no hay más latidos: el estado queda congelado.
	estado := m.Connected()
	health.up.Store(!health.up.Load())
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, estado, m.Connected())
}

func TestMonitor_ChequeoDeVencimientoNoTocaRolesExentos(t *testing.T) {
	// ADMIN y SUPERADMIN están exentos; el chequeo corre sin efectos visibles
	// y, sobre todo, sin pánico con la suscripción vacía.
	health := &fakeHealth{}
	health.up.Store(true)
	m := monitor.New(health, fakeSession{role: domain.RoleSuperAdmin}, fakeSubs{active: false, days: 0},
		time.Hour, 10*time.Millisecond, logger.Nop())

	m.Start()
	time.Sleep(50 * time.Millisecond)
	m.Stop()
}
