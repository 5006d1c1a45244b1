package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// MemoryRoleRepository is an in-memory implementation of RoleRepository.
type MemoryRoleRepository struct {
	roles  map[uint]models.Role
	nextID uint
	mu     sync.RWMutex
}

// NewMemoryRoleRepository creates a new instance of MemoryRoleRepository.
func NewMemoryRoleRepository() *MemoryRoleRepository {
	return &MemoryRoleRepository{
		roles:  make(map[uint]models.Role),
		nextID: 1,
	}
}

// GetAll returns all roles in ascending ID order.
func (r *MemoryRoleRepository) GetAll() ([]models.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	roleList := make([]models.Role, 0, len(r.roles))
	for _, role := range r.roles {
		roleList = append(roleList, role)
	}
	sort.Slice(roleList, func(i, j int) bool { return roleList[i].ID < roleList[j].ID })
	return roleList, nil
}

// GetByName returns a role by its canonical name.
func (r *MemoryRoleRepository) GetByName(name string) (*models.Role, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, role := range r.roles {
		if role.Name == name {
			out := role
			return &out, nil
		}
	}
	return nil, fmt.Errorf("role with name %s: %w", name, models.ErrNotFound)
}

// Save inserts or updates a role, enforcing name uniqueness.
func (r *MemoryRoleRepository) Save(role *models.Role) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.roles {
		if existing.Name == role.Name && existing.ID != role.ID {
			return fmt.Errorf("role name %s: %w", role.Name, models.ErrDuplicateKey)
		}
	}

	if role.ID == 0 {
		role.ID = r.nextID
		r.nextID++
	} else if role.ID >= r.nextID {
		r.nextID = role.ID + 1
	}
	r.roles[role.ID] = *role
	return nil
}

// MemoryPermissionRepository is an in-memory implementation of PermissionRepository.
type MemoryPermissionRepository struct {
	permissions map[uint]models.Permission
	nextID      uint
	mu          sync.RWMutex
}

// NewMemoryPermissionRepository creates a new instance of MemoryPermissionRepository.
func NewMemoryPermissionRepository() *MemoryPermissionRepository {
	return &MemoryPermissionRepository{
		permissions: make(map[uint]models.Permission),
		nextID:      1,
	}
}

// GetByName returns a permission by its canonical name.
func (r *MemoryPermissionRepository) GetByName(name string) (*models.Permission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.permissions {
		if p.Name == name {
			out := p
			return &out, nil
		}
	}
	return nil, fmt.Errorf("permission with name %s: %w", name, models.ErrNotFound)
}

// Save inserts or updates a permission, enforcing name uniqueness.
func (r *MemoryPermissionRepository) Save(permission *models.Permission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.permissions {
		if existing.Name == permission.Name && existing.ID != permission.ID {
			return fmt.Errorf("permission name %s: %w", permission.Name, models.ErrDuplicateKey)
		}
	}

	if permission.ID == 0 {
		permission.ID = r.nextID
		r.nextID++
	} else if permission.ID >= r.nextID {
		r.nextID = permission.ID + 1
	}
	r.permissions[permission.ID] = *permission
	return nil
}
