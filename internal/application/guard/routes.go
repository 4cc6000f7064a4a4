package guard

import "github.com/tu-usuario/invorya-client/internal/domain"

// routeTable requisitos por ruta del shell. Rutas fuera de la tabla solo
// exigen autenticación.
var routeTable = map[string]Requirement{
	PathDashboard:                    {Permission: domain.PermViewDashboard},
	"/pos":                           {Permission: domain.PermViewPOS},
	"/pos-billing":                   {Permission: domain.PermViewPOS},
	"/pos/payment":                   {Permission: domain.PermViewPOS},
	"/invoices":                      {Permission: domain.PermViewInvoices},
	"/invoice-history":               {Permission: domain.PermViewInvoices},
	"/inventory":                     {Permission: domain.PermViewInventory},
	"/customers":                     {Permission: domain.PermViewCustomers},
	"/reports":                       {Permission: domain.PermViewReports},
	"/loyalty":                       {Permission: domain.PermViewLoyalty},
	"/settings":                      {Permission: domain.PermManageSettings},
	"/company-profile":               {Permission: domain.PermManageSettings},
	"/owner/dashboard":               {Role: domain.RoleOwner},
	"/owner/roles-permissions":       {Permission: domain.PermManageUsers},
	"/owner/subscription-management": {Permission: domain.PermManageSubscription},
	"/owner/payment":                 {Permission: domain.PermManageSubscription},
	"/team-access":                   {Role: domain.RoleOwner},
	"/suppliers":                     {Role: domain.RoleOwner},
	"/stock-inward":                  {Role: domain.RoleOwner},
	"/super-admin":                   {Permission: domain.PermManageUsers},
	"/super-admin/leads":             {Role: domain.RoleSuperAdmin},
	"/sales":                         {Role: domain.RoleSalesExecutive},
}

// RouteRequirement devuelve los requisitos de una ruta del shell.
func RouteRequirement(path string) Requirement {
	return routeTable[path]
}
