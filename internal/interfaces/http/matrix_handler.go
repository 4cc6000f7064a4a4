package http

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
	"github.com/tu-usuario/invorya-client/internal/domain"
)

// MatrixHandler lectura y actualización de la matriz de permisos.
type MatrixHandler struct {
	store    *DevStore
	validate *validator.Validate
}

// NewMatrixHandler construye el handler de la matriz.
func NewMatrixHandler(store *DevStore) *MatrixHandler {
	return &MatrixHandler{store: store, validate: validator.New()}
}

// Get devuelve rol → lista de permisos habilitados. El parámetro cacheBust
// se acepta y se ignora: su único propósito es esquivar caches intermedios.
func (h *MatrixHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.store.Matrix())
}

// Update habilita o deshabilita un permiso de un rol. Solo OWNER o super
// admin pueden mutar la matriz.
func (h *MatrixHandler) Update(c *fiber.Ctx) error {
	if GetRole(c) != string(domain.RoleOwner) && !IsSuperAdmin(c) {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "solo el owner puede modificar la matriz"})
	}
	var in dto.MatrixUpdateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := h.validate.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "role y permission son requeridos"})
	}
	if domain.ParseRole(in.Role) == domain.RoleNone {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_ROLE", Message: "rol desconocido: " + in.Role})
	}
	h.store.SetPermission(string(domain.ParseRole(in.Role)), in.Permission, in.Enabled)
	return c.JSON(fiber.Map{"ok": true})
}
