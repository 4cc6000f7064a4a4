package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
)

// SubscriptionHandler consulta de la suscripción del usuario actual.
type SubscriptionHandler struct {
	store *DevStore
}

// NewSubscriptionHandler construye el handler de suscripciones.
func NewSubscriptionHandler(store *DevStore) *SubscriptionHandler {
	return &SubscriptionHandler{store: store}
}

// My devuelve la suscripción del usuario del token. Usuarios sin registro
// (roles exentos) reciben 404; el cliente conserva sus defaults locales.
func (h *SubscriptionHandler) My(c *fiber.Ctx) error {
	sub, ok := h.store.SubscriptionFor(GetUserID(c))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_SUBSCRIPTION", Message: "el usuario no tiene suscripción"})
	}
	out := dto.SubscriptionResponse{
		Plan:      sub.Plan,
		Status:    sub.Status,
		StartDate: sub.StartDate.Format(time.RFC3339),
		EndDate:   sub.EndDate.Format(time.RFC3339),
		IsPaid:    sub.IsPaid,
	}
	if !sub.TrialEndsAt.IsZero() {
		out.TrialEndsAt = sub.TrialEndsAt.Format(time.RFC3339)
	}
	return c.JSON(out)
}
