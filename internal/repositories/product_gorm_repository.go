package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
// The database must be opened with TranslateError enabled so that unique
// constraint violations surface as gorm.ErrDuplicatedKey.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

// GetAll retrieves all products from the database in ID order.
func (r *GORMProductRepository) GetAll() ([]models.Product, error) {
	var products []models.Product
	if err := r.db.Order("id").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByCode retrieves a single product by its unique code.
func (r *GORMProductRepository) GetByCode(code string) (*models.Product, error) {
	var product models.Product
	if err := r.db.First(&product, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with code %s: %w", code, models.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by code %s: %w", code, err)
	}
	return &product, nil
}

// ExistsByCode reports whether a product with the given code exists.
func (r *GORMProductRepository) ExistsByCode(code string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.Product{}).Where("code = ?", code).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check product code %s: %w", code, err)
	}
	return count > 0, nil
}

// Save inserts or updates a product. An ID that matches no existing row is
// treated as an insert.
func (r *GORMProductRepository) Save(product *models.Product) error {
	if product.ID == 0 {
		if err := r.db.Create(product).Error; err != nil {
			return translateDuplicate(err, fmt.Sprintf("product code %s", product.Code))
		}
		return nil
	}

	res := r.db.Save(product)
	if res.Error != nil {
		return translateDuplicate(res.Error, fmt.Sprintf("product code %s", product.Code))
	}
	if res.RowsAffected == 0 {
		if err := r.db.Create(product).Error; err != nil {
			return translateDuplicate(err, fmt.Sprintf("product code %s", product.Code))
		}
	}
	return nil
}

// Delete deletes a product by its ID. Deleting an absent ID is a no-op.
func (r *GORMProductRepository) Delete(id uint) error {
	if err := r.db.Delete(&models.Product{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("failed to delete product %d: %w", id, err)
	}
	return nil
}

// translateDuplicate maps the driver's unique constraint violation onto the
// domain error taxonomy.
func translateDuplicate(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("%s: %w", what, models.ErrDuplicateKey)
	}
	return fmt.Errorf("failed to save %s: %w", what, err)
}
