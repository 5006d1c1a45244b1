package repositories

import (
	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// ProductRepository defines the interface for product data access.
// Save has upsert semantics: a product without an ID is inserted and
// assigned one; a product whose ID matches no stored record is inserted
// as-is; otherwise the record is updated in place. Delete of an absent ID
// is a silent no-op; callers that need strictness check existence first.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	GetByCode(code string) (*models.Product, error)
	ExistsByCode(code string) (bool, error)
	Save(product *models.Product) error
	Delete(id uint) error
}
