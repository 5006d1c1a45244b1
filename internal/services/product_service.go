package services

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/repositories"
)

// EventPublisher publishes catalog event payloads. *rabbitmq.Client
// satisfies it; a nil publisher disables publishing.
type EventPublisher interface {
	Publish(body []byte) error
}

// ProductService handles business logic related to the product catalog.
type ProductService struct {
	repo      repositories.ProductRepository
	publisher EventPublisher
}

// NewProductService creates a new ProductService. publisher may be nil.
func NewProductService(repo repositories.ProductRepository, publisher EventPublisher) *ProductService {
	return &ProductService{
		repo:      repo,
		publisher: publisher,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// GetProductByCode retrieves a single product by its unique code.
func (s *ProductService) GetProductByCode(code string) (*models.Product, error) {
	return s.repo.GetByCode(code)
}

// CreateProduct creates a new product. The code must not already be in
// use; the check here gives a readable error, and the store's unique
// constraint remains the final authority under concurrent creates.
func (s *ProductService) CreateProduct(product *models.Product) (*models.Product, error) {
	exists, err := s.repo.ExistsByCode(product.Code)
	if err != nil {
		return nil, fmt.Errorf("failed to check product code: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("product code %s is already in use: %w", product.Code, models.ErrDuplicateKey)
	}

	product.ID = 0
	if err := s.repo.Save(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.created", product)
	return product, nil
}

// UpdateProduct applies the given details to an existing product. The
// identifier is never mutated; a changed code is re-checked for
// uniqueness against other products.
func (s *ProductService) UpdateProduct(id uint, details *models.Product) (*models.Product, error) {
	product, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if details.Code != product.Code {
		exists, err := s.repo.ExistsByCode(details.Code)
		if err != nil {
			return nil, fmt.Errorf("failed to check product code: %w", err)
		}
		if exists {
			return nil, fmt.Errorf("product code %s is already in use by another product: %w", details.Code, models.ErrDuplicateKey)
		}
	}

	product.Code = details.Code
	product.Name = details.Name
	product.Description = details.Description
	product.Category = details.Category
	product.Price = details.Price
	product.Stock = details.Stock

	if err := s.repo.Save(product); err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct deletes a product by its ID. The store itself treats
// deleting an absent ID as a no-op, so existence is checked here first.
func (s *ProductService) DeleteProduct(id uint) error {
	if _, err := s.repo.GetByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id)
}

// AdjustStock applies a signed delta to the stock of the product with the
// given code. The resulting stock must not go negative; a zero delta is a
// legal no-op.
func (s *ProductService) AdjustStock(code string, delta int) (*models.Product, error) {
	product, err := s.repo.GetByCode(code)
	if err != nil {
		return nil, err
	}

	newStock := product.Stock + delta
	if newStock < 0 {
		return nil, fmt.Errorf("insufficient stock for product %s (current: %d, delta: %d): %w",
			product.Name, product.Stock, delta, models.ErrInvalidArgument)
	}

	product.Stock = newStock
	if err := s.repo.Save(product); err != nil {
		return nil, err
	}

	s.publishEvent("product.stock_adjusted", product)
	return product, nil
}

// GetProductsByCategory returns products whose category matches
// case-insensitively.
func (s *ProductService) GetProductsByCategory(category string) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	matched := make([]models.Product, 0)
	for _, p := range products {
		if strings.EqualFold(p.Category, category) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// SearchProductsByName returns products whose name contains the given
// substring, case-insensitively.
func (s *ProductService) SearchProductsByName(name string) ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	needle := strings.ToLower(name)
	matched := make([]models.Product, 0)
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), needle) {
			matched = append(matched, p)
		}
	}
	return matched, nil
}

// MostExpensiveProduct returns the product with the highest price. Ties
// resolve to the lowest ID, since stores iterate in ascending ID order and
// the comparison is strict.
func (s *ProductService) MostExpensiveProduct() (*models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products in catalog: %w", models.ErrNotFound)
	}
	best := products[0]
	for _, p := range products[1:] {
		if p.Price > best.Price {
			best = p
		}
	}
	return &best, nil
}

// CheapestProduct returns the product with the lowest price, ties
// resolving to the lowest ID.
func (s *ProductService) CheapestProduct() (*models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("no products in catalog: %w", models.ErrNotFound)
	}
	best := products[0]
	for _, p := range products[1:] {
		if p.Price < best.Price {
			best = p
		}
	}
	return &best, nil
}

// ProductsSortedByPrice returns all products sorted ascending by price.
// The sort is stable, so equal prices keep their store order.
func (s *ProductService) ProductsSortedByPrice() ([]models.Product, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	return products, nil
}

// CountProducts returns the number of products in the catalog.
func (s *ProductService) CountProducts() (int, error) {
	products, err := s.repo.GetAll()
	if err != nil {
		return 0, err
	}
	return len(products), nil
}

// publishEvent emits a catalog event, best effort: a publish failure is
// logged and never fails the originating operation.
func (s *ProductService) publishEvent(eventType string, product *models.Product) {
	if s.publisher == nil {
		return
	}

	payload := map[string]interface{}{
		"event_id":   uuid.New().String(),
		"event_type": eventType,
		"occurred":   time.Now().Format(time.RFC3339),
		"product_id": product.ID,
		"code":       product.Code,
		"stock":      product.Stock,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Failed to marshal %s event: %v", eventType, err)
		return
	}
	if err := s.publisher.Publish(body); err != nil {
		log.Printf("Warning: failed to publish %s event for product %s: %v", eventType, product.Code, err)
	}
}
