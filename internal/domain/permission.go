package domain

// PermissionKey capacidad fina del sistema, independiente del rol. Conjunto cerrado.
type PermissionKey string

// Permisos conocidos, agrupados por módulo funcional.
const (
	// Dashboard
	PermViewDashboard   PermissionKey = "view_dashboard"
	PermManageDashboard PermissionKey = "manage_dashboard"
	// Clientes
	PermViewCustomers   PermissionKey = "view_customers"
	PermManageCustomers PermissionKey = "manage_customers"
	PermExportCustomers PermissionKey = "export_customers"
	PermImportCustomers PermissionKey = "import_customers"
	// Inventario
	PermViewInventory   PermissionKey = "view_inventory"
	PermManageInventory PermissionKey = "manage_inventory"
	PermExportInventory PermissionKey = "export_inventory"
	PermImportInventory PermissionKey = "import_inventory"
	// POS
	PermViewPOS   PermissionKey = "view_pos"
	PermManagePOS PermissionKey = "manage_pos"
	PermExportPOS PermissionKey = "export_pos"
	// Facturas
	PermViewInvoices   PermissionKey = "view_invoices"
	PermManageInvoices PermissionKey = "manage_invoices"
	PermExportInvoices PermissionKey = "export_invoices"
	// Suscripción
	PermViewSubscription   PermissionKey = "view_subscription"
	PermManageSubscription PermissionKey = "manage_subscription"
	// Usuarios
	PermManageUsers PermissionKey = "manage_users"
	PermAssignRoles PermissionKey = "assign_roles"
	// Configuración
	PermManageSettings PermissionKey = "manage_settings"
	PermViewAuditLogs  PermissionKey = "view_audit_logs"
	// Datos
	PermExportAll PermissionKey = "export_all"
	PermImportAll PermissionKey = "import_all"
	// Reportes
	PermViewReports   PermissionKey = "view_reports"
	PermExportReports PermissionKey = "export_reports"
	// Fidelización
	PermViewLoyalty   PermissionKey = "view_loyalty"
	PermManageLoyalty PermissionKey = "manage_loyalty"
	// Soporte
	PermViewSupport PermissionKey = "view_support"

	// PermNone ausencia de requisito de permiso en una ruta.
	PermNone PermissionKey = ""
)

// PermissionInfo entrada del catálogo de permisos para la pantalla de roles.
type PermissionInfo struct {
	Key      PermissionKey
	Label    string
	Category string
}

// AllPermissions devuelve el conjunto cerrado de permisos conocidos.
func AllPermissions() []PermissionKey {
	keys := make([]PermissionKey, 0, len(permissionCatalog))
	for _, p := range permissionCatalog {
		keys = append(keys, p.Key)
	}
	return keys
}

// PermissionCatalog devuelve el catálogo completo (clave, etiqueta, categoría)
// en el orden en que se presenta en la pantalla de roles y permisos.
func PermissionCatalog() []PermissionInfo {
	out := make([]PermissionInfo, len(permissionCatalog))
	copy(out, permissionCatalog)
	return out
}

var permissionCatalog = []PermissionInfo{
	{PermViewDashboard, "Ver dashboard", "Dashboard"},
	{PermManageDashboard, "Gestionar widgets del dashboard", "Dashboard"},
	{PermViewCustomers, "Ver clientes", "Clientes"},
	{PermManageCustomers, "Crear/editar/eliminar clientes", "Clientes"},
	{PermExportCustomers, "Exportar clientes", "Clientes"},
	{PermImportCustomers, "Importar clientes", "Clientes"},
	{PermViewInventory, "Ver inventario", "Inventario"},
	{PermManageInventory, "Crear/editar/eliminar inventario", "Inventario"},
	{PermExportInventory, "Exportar inventario", "Inventario"},
	{PermImportInventory, "Importar inventario", "Inventario"},
	{PermViewPOS, "Ver facturación POS", "POS"},
	{PermManagePOS, "Gestionar facturación POS", "POS"},
	{PermExportPOS, "Exportar datos POS", "POS"},
	{PermViewInvoices, "Ver facturas", "Facturas"},
	{PermManageInvoices, "Crear/editar/eliminar facturas", "Facturas"},
	{PermExportInvoices, "Exportar facturas", "Facturas"},
	{PermViewSubscription, "Ver suscripción", "Suscripción"},
	{PermManageSubscription, "Gestionar planes de suscripción", "Suscripción"},
	{PermManageUsers, "Crear/editar/eliminar usuarios", "Usuarios"},
	{PermAssignRoles, "Asignar roles", "Usuarios"},
	{PermManageSettings, "Gestionar configuración", "Configuración"},
	{PermViewAuditLogs, "Ver logs de auditoría", "Configuración"},
	{PermExportAll, "Exportar todos los datos", "Datos"},
	{PermImportAll, "Importar todos los datos", "Datos"},
	{PermViewReports, "Ver reportes", "Reportes"},
	{PermExportReports, "Exportar reportes", "Reportes"},
	{PermViewLoyalty, "Ver programa de fidelización", "Fidelización"},
	{PermManageLoyalty, "Gestionar programa de fidelización", "Fidelización"},
	{PermViewSupport, "Ver soporte", "Soporte"},
}

// Matrix matriz completa rol × permiso.
type Matrix map[Role]map[PermissionKey]bool

// salesExecutiveDefaults permisos habilitados por defecto para SALES_EXECUTIVE:
// atención en mostrador (clientes, POS, soporte) y nada más.
var salesExecutiveDefaults = map[PermissionKey]bool{
	PermViewCustomers:   true,
	PermManageCustomers: true,
	PermViewPOS:         true,
	PermManagePOS:       true,
	PermExportPOS:       true,
	PermViewSupport:     true,
}

// DefaultMatrix construye la matriz de permisos por defecto.
// SUPERADMIN y OWNER arrancan con todo habilitado; SALES_EXECUTIVE con el
// subconjunto de mostrador; ADMIN opera exento de matriz (todo deshabilitado,
// el guard lo resuelve por rol). Cada llamada devuelve una copia profunda.
func DefaultMatrix() Matrix {
	m := make(Matrix, len(AllRoles()))
	for _, role := range AllRoles() {
		perms := make(map[PermissionKey]bool, len(permissionCatalog))
		for _, info := range permissionCatalog {
			switch role {
			case RoleSuperAdmin, RoleOwner:
				perms[info.Key] = true
			case RoleSalesExecutive:
				perms[info.Key] = salesExecutiveDefaults[info.Key]
			default:
				perms[info.Key] = false
			}
		}
		m[role] = perms
	}
	return m
}

// Clone copia profunda de la matriz.
func (m Matrix) Clone() Matrix {
	out := make(Matrix, len(m))
	for role, perms := range m {
		cp := make(map[PermissionKey]bool, len(perms))
		for k, v := range perms {
			cp[k] = v
		}
		out[role] = cp
	}
	return out
}
