package repositories

import "github.com/GoldenDust79/EcoMarket-SPA/internal/models"

// RoleRepository defines the interface for role data access. Lookups take
// the canonical (upper-case, underscore-separated) role name.
type RoleRepository interface {
	GetAll() ([]models.Role, error)
	GetByName(name string) (*models.Role, error)
	Save(role *models.Role) error
}

// PermissionRepository defines the interface for permission data access.
type PermissionRepository interface {
	GetByName(name string) (*models.Permission, error)
	Save(permission *models.Permission) error
}
