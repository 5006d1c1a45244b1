package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// MemoryProductRepository is an in-memory implementation of ProductRepository.
type MemoryProductRepository struct {
	products map[uint]models.Product
	nextID   uint
	mu       sync.RWMutex
}

// NewMemoryProductRepository creates a new instance of MemoryProductRepository.
func NewMemoryProductRepository() *MemoryProductRepository {
	return &MemoryProductRepository{
		products: make(map[uint]models.Product),
		nextID:   1,
	}
}

// GetAll returns all products in ascending ID order.
func (r *MemoryProductRepository) GetAll() ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	productList := make([]models.Product, 0, len(r.products))
	for _, p := range r.products {
		productList = append(productList, p)
	}
	sort.Slice(productList, func(i, j int) bool { return productList[i].ID < productList[j].ID })
	return productList, nil
}

// GetByID returns a product by its ID.
func (r *MemoryProductRepository) GetByID(id uint) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product with ID %d: %w", id, models.ErrNotFound)
	}
	return &product, nil
}

// GetByCode returns a product by its unique code.
func (r *MemoryProductRepository) GetByCode(code string) (*models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Code == code {
			product := p
			return &product, nil
		}
	}
	return nil, fmt.Errorf("product with code %s: %w", code, models.ErrNotFound)
}

// ExistsByCode reports whether a product with the given code exists.
func (r *MemoryProductRepository) ExistsByCode(code string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Code == code {
			return true, nil
		}
	}
	return false, nil
}

// Save inserts or updates a product. The code unique constraint is
// enforced here so the store stays the final authority on uniqueness.
func (r *MemoryProductRepository) Save(product *models.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range r.products {
		if p.Code == product.Code && p.ID != product.ID {
			return fmt.Errorf("product code %s: %w", product.Code, models.ErrDuplicateKey)
		}
	}

	if product.ID == 0 {
		product.ID = r.nextID
		r.nextID++
	} else if product.ID >= r.nextID {
		r.nextID = product.ID + 1
	}
	r.products[product.ID] = *product
	return nil
}

// Delete removes a product by its ID. Deleting an absent ID is a no-op.
func (r *MemoryProductRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}
