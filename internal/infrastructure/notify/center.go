// Package notify implementa el centro de notificaciones del cliente:
// el equivalente a los toasts de la UI. Las capas de aplicación publican
// aquí y las vistas se suscriben.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tu-usuario/invorya-client/pkg/logger"
)

// Tipos de notificación.
const (
	TypeSuccess = "success"
	TypeError   = "error"
	TypeWarning = "warning"
	TypeInfo    = "info"
)

// Notification un aviso para el usuario.
type Notification struct {
	ID        string
	Type      string
	Title     string
	Message   string
	Timestamp time.Time
	Read      bool
}

// Center cola de notificaciones en memoria con semántica subscribe/notify.
type Center struct {
	mu    sync.Mutex
	items []Notification
	subs  []func(Notification)
	log   *logger.Logger
	now   func() time.Time
}

// NewCenter construye el centro de notificaciones.
func NewCenter(log *logger.Logger) *Center {
	return &Center{log: log, now: time.Now}
}

// Add publica una notificación y devuelve su id. Las más recientes primero.
func (c *Center) Add(kind, title, message string) string {
	n := Notification{
		ID:        uuid.New().String(),
		Type:      kind,
		Title:     title,
		Message:   message,
		Timestamp: c.now(),
	}

	c.mu.Lock()
	c.items = append([]Notification{n}, c.items...)
	subs := make([]func(Notification), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	c.log.Debug().Str("tipo", kind).Str("titulo", title).Msg("notificación publicada")
	for _, fn := range subs {
		fn(n)
	}
	return n.ID
}

// Subscribe registra un listener que recibe cada notificación nueva.
func (c *Center) Subscribe(fn func(Notification)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// MarkRead marca una notificación como leída.
func (c *Center) MarkRead(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Read = true
			return
		}
	}
}

// MarkAllRead marca todo como leído.
func (c *Center) MarkAllRead() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		c.items[i].Read = true
	}
}

// Clear elimina una notificación.
func (c *Center) Clear(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].ID == id {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// ClearAll vacía la cola.
func (c *Center) ClearAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = nil
}

// UnreadCount cantidad de notificaciones sin leer.
func (c *Center) UnreadCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, it := range c.items {
		if !it.Read {
			n++
		}
	}
	return n
}

// All devuelve una copia de la cola (más recientes primero).
func (c *Center) All() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Notification, len(c.items))
	copy(out, c.items)
	return out
}
