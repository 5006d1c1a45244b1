package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// GetAll retrieves all users with their roles from the database.
func (r *GORMUserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	if err := r.db.Preload("Roles.Permissions").Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	return users, nil
}

// GetByID retrieves a user by their ID from the database.
func (r *GORMUserRepository) GetByID(id uint) (*models.User, error) {
	return r.getOne("id = ?", fmt.Sprintf("user with ID %d", id), id)
}

// GetByUsername retrieves a user by their username from the database.
func (r *GORMUserRepository) GetByUsername(username string) (*models.User, error) {
	return r.getOne("username = ?", fmt.Sprintf("user with username %s", username), username)
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	return r.getOne("email = ?", fmt.Sprintf("user with email %s", email), email)
}

func (r *GORMUserRepository) getOne(query, what string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := r.db.Preload("Roles.Permissions").First(&user, query, arg).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%s: %w", what, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return &user, nil
}

// ExistsByUsername reports whether a user with the given username exists.
func (r *GORMUserRepository) ExistsByUsername(username string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check username %s: %w", username, err)
	}
	return count > 0, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *GORMUserRepository) ExistsByEmail(email string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	return count > 0, nil
}

// Save inserts or updates a user and replaces the role association so that
// removed roles are detached from the join table as well.
func (r *GORMUserRepository) Save(user *models.User) error {
	isInsert := user.ID == 0
	if !isInsert {
		var count int64
		if err := r.db.Model(&models.User{}).Where("id = ?", user.ID).Count(&count).Error; err != nil {
			return fmt.Errorf("failed to check user %d: %w", user.ID, err)
		}
		isInsert = count == 0
	}

	if isInsert {
		if err := r.db.Create(user).Error; err != nil {
			return translateDuplicate(err, fmt.Sprintf("user %s", user.Username))
		}
		return nil
	}

	// Omit the association on the column update; Replace below is the
	// single writer of the join rows.
	if err := r.db.Omit("Roles").Save(user).Error; err != nil {
		return translateDuplicate(err, fmt.Sprintf("user %s", user.Username))
	}
	roles := make([]models.Role, len(user.Roles))
	copy(roles, user.Roles)
	if err := r.db.Model(user).Association("Roles").Replace(&roles); err != nil {
		return fmt.Errorf("failed to save roles for user %s: %w", user.Username, err)
	}
	return nil
}

// Delete removes a user and their role join rows. Deleting an absent ID is
// a no-op.
func (r *GORMUserRepository) Delete(id uint) error {
	user := models.User{ID: id}
	if err := r.db.Model(&user).Association("Roles").Clear(); err != nil {
		return fmt.Errorf("failed to clear roles for user %d: %w", id, err)
	}
	if err := r.db.Delete(&models.User{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}
