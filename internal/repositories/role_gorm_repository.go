package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// GORMRoleRepository is a GORM implementation of RoleRepository.
type GORMRoleRepository struct {
	db *gorm.DB
}

// NewGORMRoleRepository creates a new instance of GORMRoleRepository.
func NewGORMRoleRepository(db *gorm.DB) *GORMRoleRepository {
	return &GORMRoleRepository{
		db: db,
	}
}

// GetAll retrieves all roles with their permissions.
func (r *GORMRoleRepository) GetAll() ([]models.Role, error) {
	var roles []models.Role
	if err := r.db.Preload("Permissions").Order("id").Find(&roles).Error; err != nil {
		return nil, fmt.Errorf("failed to get all roles: %w", err)
	}
	return roles, nil
}

// GetByName retrieves a role by its canonical name.
func (r *GORMRoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	if err := r.db.Preload("Permissions").First(&role, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("role with name %s: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get role by name %s: %w", name, err)
	}
	return &role, nil
}

// Save inserts or updates a role.
func (r *GORMRoleRepository) Save(role *models.Role) error {
	if err := r.db.Save(role).Error; err != nil {
		return translateDuplicate(err, fmt.Sprintf("role %s", role.Name))
	}
	return nil
}

// GORMPermissionRepository is a GORM implementation of PermissionRepository.
type GORMPermissionRepository struct {
	db *gorm.DB
}

// NewGORMPermissionRepository creates a new instance of GORMPermissionRepository.
func NewGORMPermissionRepository(db *gorm.DB) *GORMPermissionRepository {
	return &GORMPermissionRepository{
		db: db,
	}
}

// GetByName retrieves a permission by its canonical name.
func (r *GORMPermissionRepository) GetByName(name string) (*models.Permission, error) {
	var permission models.Permission
	if err := r.db.First(&permission, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("permission with name %s: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get permission by name %s: %w", name, err)
	}
	return &permission, nil
}

// Save inserts or updates a permission.
func (r *GORMPermissionRepository) Save(permission *models.Permission) error {
	if err := r.db.Save(permission).Error; err != nil {
		return translateDuplicate(err, fmt.Sprintf("permission %s", permission.Name))
	}
	return nil
}
