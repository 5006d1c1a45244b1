package models

import "strings"

// Role groups a set of permissions under a canonical name
// (e.g. "GERENTE_TIENDA"). Roles are shared across users; the join rows
// in user_roles belong to the user side of the relation.
type Role struct {
	ID          uint         `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required"`
	Permissions []Permission `json:"permissions" gorm:"many2many:role_permissions"`
}

// Role names seeded at startup and referenced by the authorization
// middleware.
const (
	RoleSystemAdmin  = "ADMINISTRADOR_SISTEMA"
	RoleStoreManager = "GERENTE_TIENDA"
	RoleSalesClerk   = "EMPLEADO_VENTAS"
	RoleLogistics    = "LOGISTICA"
)

// Permission is a single named capability (e.g. "PRODUCTOS_LEER").
type Permission struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required"`
}

// CanonicalName normalizes a role or permission name to its stable lookup
// key: upper-case with spaces replaced by underscores.
func CanonicalName(name string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(name), " ", "_"))
}
