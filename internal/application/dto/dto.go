package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse token emitido + identidad del usuario.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// UserResponse identidad (posiblemente parcial) devuelta por el backend.
// En /auth/me los campos ausentes llegan vacíos y NO deben pisar los locales:
// el merge lo resuelve el session manager.
type UserResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Role         string `json:"role"`
	IsSuperAdmin *bool  `json:"is_super_admin,omitempty"`
}

// MatrixUpdateRequest alta/baja de un permiso para un rol.
type MatrixUpdateRequest struct {
	Role       string `json:"role" validate:"required"`
	Permission string `json:"permission" validate:"required"`
	Enabled    bool   `json:"enabled"`
}

// SubscriptionResponse registro de suscripción del usuario actual.
// status es la única señal de actividad que emite el backend; las fechas
// llegan en ISO-8601.
type SubscriptionResponse struct {
	Plan        string `json:"plan" validate:"required"`
	Status      string `json:"status" validate:"required"`
	StartDate   string `json:"start_date,omitempty"`
	EndDate     string `json:"end_date,omitempty"`
	TrialEndsAt string `json:"trial_ends_at,omitempty"`
	IsPaid      bool   `json:"is_paid"`
}
