package domain

import "strings"

// Identity identidad autenticada. Se reemplaza completa en login/logout;
// solo RefreshProfile la muta parcialmente (merge explícito).
type Identity struct {
	ID           string `json:"id"`
	DisplayName  string `json:"name"`
	Phone        string `json:"phone"`
	RoleRaw      string `json:"role"`
	IsSuperAdmin bool   `json:"is_super_admin"`
}

// Role rol derivado: SUPERADMIN si el flag está activo, si no el rol en
// mayúsculas. Función pura de la identidad, se recalcula en cada lectura.
func (i Identity) Role() Role {
	if i.IsSuperAdmin {
		return RoleSuperAdmin
	}
	if i.RoleRaw == "" {
		return RoleNone
	}
	return Role(strings.ToUpper(i.RoleRaw))
}
