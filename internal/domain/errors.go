package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound       = errors.New("recurso no encontrado")
	ErrUserNotFound   = errors.New("usuario no encontrado")
	ErrInvalidInput   = errors.New("entrada inválida")
	ErrUnauthorized   = errors.New("no autorizado")
	ErrForbidden      = errors.New("acceso denegado")
	ErrUnknownRole    = errors.New("rol desconocido")
	ErrUnknownPlan    = errors.New("plan desconocido")
	ErrSessionCorrupt = errors.New("sesión almacenada corrupta")
	ErrBackendDown    = errors.New("backend no disponible")
)
