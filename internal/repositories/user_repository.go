package repositories

import "github.com/GoldenDust79/EcoMarket-SPA/internal/models"

// UserRepository defines the interface for user data access.
// Implementations return users with their role set (and each role's
// permissions) populated. Save follows the same upsert contract as
// ProductRepository and persists the role association as given.
type UserRepository interface {
	GetAll() ([]models.User, error)
	GetByID(id uint) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	ExistsByUsername(username string) (bool, error)
	ExistsByEmail(email string) (bool, error)
	Save(user *models.User) error
	Delete(id uint) error
}
