package domain

import "strings"

// Role rol de la identidad autenticada. Conjunto cerrado.
type Role string

// Roles válidos del sistema.
const (
	RoleSuperAdmin     Role = "SUPERADMIN"
	RoleAdmin          Role = "ADMIN"
	RoleOwner          Role = "OWNER"
	RoleSalesExecutive Role = "SALES_EXECUTIVE"

	// RoleNone ausencia de rol (identidad vacía o rol desconocido).
	RoleNone Role = ""
)

// AllRoles roles conocidos, en orden de privilegio descendente.
func AllRoles() []Role {
	return []Role{RoleSuperAdmin, RoleAdmin, RoleOwner, RoleSalesExecutive}
}

// ParseRole normaliza un rol recibido del backend (case-insensitive).
// Devuelve RoleNone si el rol no pertenece al conjunto cerrado.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleSuperAdmin:
		return RoleSuperAdmin
	case RoleAdmin:
		return RoleAdmin
	case RoleOwner:
		return RoleOwner
	case RoleSalesExecutive:
		return RoleSalesExecutive
	default:
		return RoleNone
	}
}

// IsValid informa si el rol pertenece al conjunto cerrado.
func (r Role) IsValid() bool {
	return ParseRole(string(r)) != RoleNone
}

// Privileged informa si el rol tiene fallback fail-open en la matriz de permisos.
// Solo SUPERADMIN y OWNER: disponibilidad sobre restricción para estos dos roles.
func (r Role) Privileged() bool {
	return r == RoleSuperAdmin || r == RoleOwner
}

// SubscriptionExempt informa si el rol está exento de suscripción
// (ADMIN y SUPERADMIN tienen acceso sin plan).
func (r Role) SubscriptionExempt() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}
