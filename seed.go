package main

import (
	"errors"
	"fmt"
	"log"

	"golang.org/x/crypto/bcrypt"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// seedData loads the initial permissions, roles, users and sample products.
// Every step is create-if-absent, so re-running against an existing
// database is safe.
func seedData(repos *Repositories) error {
	permRead, err := permissionIfAbsent(repos, "PRODUCTOS_LEER")
	if err != nil {
		return err
	}
	permCreate, err := permissionIfAbsent(repos, "PRODUCTOS_CREAR")
	if err != nil {
		return err
	}
	permEdit, err := permissionIfAbsent(repos, "PRODUCTOS_EDITAR")
	if err != nil {
		return err
	}
	permDelete, err := permissionIfAbsent(repos, "PRODUCTOS_ELIMINAR")
	if err != nil {
		return err
	}
	permManageUsers, err := permissionIfAbsent(repos, "USUARIOS_GESTIONAR")
	if err != nil {
		return err
	}

	adminRole, err := roleIfAbsent(repos, models.RoleSystemAdmin,
		[]models.Permission{*permRead, *permCreate, *permEdit, *permDelete, *permManageUsers})
	if err != nil {
		return err
	}
	managerRole, err := roleIfAbsent(repos, models.RoleStoreManager,
		[]models.Permission{*permRead, *permCreate, *permEdit})
	if err != nil {
		return err
	}
	clerkRole, err := roleIfAbsent(repos, models.RoleSalesClerk, []models.Permission{*permRead})
	if err != nil {
		return err
	}
	logisticsRole, err := roleIfAbsent(repos, models.RoleLogistics, []models.Permission{*permRead})
	if err != nil {
		return err
	}

	seedUsers := []struct {
		username, fullName, email, password string
		role                                *models.Role
	}{
		{"admin", "Administrador del Sistema", "admin@ecomarket.cl", "admin123", adminRole},
		{"gerente01", "Gerente Ejemplo Uno", "gerente01@ecomarket.cl", "gerente123", managerRole},
		{"empleado01", "Empleado Ejemplo Uno", "empleado01@ecomarket.cl", "empleado123", clerkRole},
		{"logistica01", "Logistica Ejemplo Uno", "logistica01@ecomarket.cl", "logistica123", logisticsRole},
	}
	for _, u := range seedUsers {
		if err := userIfAbsent(repos, u.username, u.fullName, u.email, u.password, u.role); err != nil {
			return err
		}
	}

	seedProducts := []models.Product{
		{Code: "PRD001", Name: "Jabón Ecológico", Description: "Jabón biodegradable hecho con aceites naturales", Category: "Limpieza", Price: 2500, Stock: 100},
		{Code: "PRD002", Name: "Shampoo Natural", Description: "Shampoo sin sulfatos ni parabenos", Category: "Cosméticos", Price: 4500, Stock: 50},
		{Code: "PRD003", Name: "Café Orgánico", Description: "Café cultivado sin pesticidas", Category: "Alimentos", Price: 6000, Stock: 200},
	}
	for i := range seedProducts {
		if err := productIfAbsent(repos, &seedProducts[i]); err != nil {
			return err
		}
	}

	return nil
}

func permissionIfAbsent(repos *Repositories, name string) (*models.Permission, error) {
	canonical := models.CanonicalName(name)
	existing, err := repos.Permissions.GetByName(canonical)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	permission := models.Permission{Name: canonical}
	if err := repos.Permissions.Save(&permission); err != nil {
		return nil, fmt.Errorf("failed to seed permission %s: %w", canonical, err)
	}
	log.Printf("Seeded permission: %s", canonical)
	return &permission, nil
}

func roleIfAbsent(repos *Repositories, name string, permissions []models.Permission) (*models.Role, error) {
	canonical := models.CanonicalName(name)
	existing, err := repos.Roles.GetByName(canonical)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return nil, err
	}

	role := models.Role{Name: canonical, Permissions: permissions}
	if err := repos.Roles.Save(&role); err != nil {
		return nil, fmt.Errorf("failed to seed role %s: %w", canonical, err)
	}
	log.Printf("Seeded role: %s (ID: %d)", role.Name, role.ID)
	return &role, nil
}

func userIfAbsent(repos *Repositories, username, fullName, email, password string, role *models.Role) error {
	exists, err := repos.Users.ExistsByUsername(username)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password for %s: %w", username, err)
	}
	user := models.User{
		Username: username,
		FullName: fullName,
		Email:    email,
		Password: string(hashed),
		Active:   true,
		Roles:    []models.Role{*role},
	}
	if err := repos.Users.Save(&user); err != nil {
		return fmt.Errorf("failed to seed user %s: %w", username, err)
	}
	log.Printf("Seeded user: %s", username)
	return nil
}

func productIfAbsent(repos *Repositories, product *models.Product) error {
	exists, err := repos.Products.ExistsByCode(product.Code)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	if err := repos.Products.Save(product); err != nil {
		return fmt.Errorf("failed to seed product %s: %w", product.Code, err)
	}
	log.Printf("Seeded product: %s (ID: %d)", product.Code, product.ID)
	return nil
}
