package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/tu-usuario/invorya-client/internal/application/dto"
	"github.com/tu-usuario/invorya-client/pkg/jwt"
)

// AuthHandler login, perfil y logout del backend de desarrollo.
type AuthHandler struct {
	store  *DevStore
	secret string
	issuer string
	expMin int
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(store *DevStore, secret, issuer string, expMin int) *AuthHandler {
	return &AuthHandler{store: store, secret: secret, issuer: issuer, expMin: expMin}
}

func userResponse(u *DevUser) dto.UserResponse {
	super := u.IsSuperAdmin
	return dto.UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Phone:        u.Phone,
		Role:         u.Role,
		IsSuperAdmin: &super,
	}
}

// Login verifica teléfono/password y emite el JWT.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.Phone == "" || in.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "phone y password son requeridos"})
	}
	user, ok := h.store.UserByPhone(in.Phone)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	token, err := jwt.Generate(h.secret, user.ID, user.Phone, user.Role, user.IsSuperAdmin, h.issuer, h.expMin)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(dto.LoginResponse{Token: token, User: userResponse(user)})
}

// Me devuelve la identidad del usuario del token.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	user, ok := h.store.UserByID(GetUserID(c))
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "USER_NOT_FOUND", Message: "usuario no encontrado"})
	}
	return c.JSON(userResponse(user))
}

// Logout no guarda estado de sesión en el dev server: responde 204.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// Health sonda de vivacidad.
func Health(serviceName string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": serviceName, "time": time.Now().UTC().Format(time.RFC3339)})
	}
}
