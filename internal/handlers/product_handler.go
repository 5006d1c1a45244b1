package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/services"
)

// ProductHandler handles HTTP requests for the product catalog.
type ProductHandler struct {
	service  *services.ProductService
	validate *validator.Validate
}

// NewProductHandler creates a new ProductHandler.
func NewProductHandler(service *services.ProductService) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the product routes with the Fiber app.
// Literal segments are registered before the ":id" wildcard so Fiber
// matches them first.
func (h *ProductHandler) RegisterRoutes(router fiber.Router) {
	productRoutes := router.Group("/products")
	productRoutes.Get("/", h.HandleGetProducts)
	productRoutes.Get("/search", h.HandleSearchByName)
	productRoutes.Get("/category/:category", h.HandleGetByCategory)
	productRoutes.Get("/stats/most-expensive", h.HandleMostExpensive)
	productRoutes.Get("/stats/cheapest", h.HandleCheapest)
	productRoutes.Get("/stats/sorted-by-price", h.HandleSortedByPrice)
	productRoutes.Get("/stats/count", h.HandleCount)
	productRoutes.Get("/code/:code", h.HandleGetProductByCode)
	productRoutes.Patch("/code/:code/stock", h.HandleAdjustStock)
	productRoutes.Get("/:id", h.HandleGetProductByID)
	productRoutes.Post("/", h.HandleCreateProduct)
	productRoutes.Put("/:id", h.HandleUpdateProduct)
	productRoutes.Delete("/:id", h.HandleDeleteProduct)
}

// HandleGetProducts retrieves all products.
func (h *ProductHandler) HandleGetProducts(c *fiber.Ctx) error {
	products, err := h.service.GetAllProducts()
	if err != nil {
		log.Printf("Error getting all products: %v", err)
		return serviceError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleGetProductByID retrieves a single product by its ID.
func (h *ProductHandler) HandleGetProductByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid product ID", err)
	}
	product, err := h.service.GetProductByID(id)
	if err != nil {
		return serviceError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleGetProductByCode retrieves a single product by its unique code.
func (h *ProductHandler) HandleGetProductByCode(c *fiber.Ctx) error {
	product, err := h.service.GetProductByCode(c.Params("code"))
	if err != nil {
		return serviceError(c, "Could not retrieve product", err)
	}
	return c.JSON(product)
}

// HandleCreateProduct creates a new product.
func (h *ProductHandler) HandleCreateProduct(c *fiber.Ctx) error {
	var product models.Product
	if err := c.BodyParser(&product); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return badBody(c, err)
	}
	if err := h.validate.Struct(product); err != nil {
		return validationError(c, err)
	}

	created, err := h.service.CreateProduct(&product)
	if err != nil {
		log.Printf("Error creating product: %v", err)
		return serviceError(c, "Could not create product", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// HandleUpdateProduct updates an existing product.
func (h *ProductHandler) HandleUpdateProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid product ID", err)
	}

	var details models.Product
	if err := c.BodyParser(&details); err != nil {
		log.Printf("Error parsing product body: %v", err)
		return badBody(c, err)
	}
	if err := h.validate.Struct(details); err != nil {
		return validationError(c, err)
	}

	updated, err := h.service.UpdateProduct(id, &details)
	if err != nil {
		log.Printf("Error updating product %d: %v", id, err)
		return serviceError(c, "Could not update product", err)
	}
	return c.JSON(updated)
}

// HandleDeleteProduct deletes a product by its ID.
func (h *ProductHandler) HandleDeleteProduct(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid product ID", err)
	}
	if err := h.service.DeleteProduct(id); err != nil {
		log.Printf("Error deleting product %d: %v", id, err)
		return serviceError(c, "Could not delete product", err)
	}
	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}

// AdjustStockRequest represents the request body for a stock adjustment.
// Delta may be positive or negative; zero is a legal no-op.
type AdjustStockRequest struct {
	Delta int `json:"delta"`
}

// HandleAdjustStock applies a signed stock delta to the product with the
// given code.
func (h *ProductHandler) HandleAdjustStock(c *fiber.Ctx) error {
	var req AdjustStockRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing stock adjustment body: %v", err)
		return badBody(c, err)
	}

	product, err := h.service.AdjustStock(c.Params("code"), req.Delta)
	if err != nil {
		log.Printf("Error adjusting stock for %s: %v", c.Params("code"), err)
		return serviceError(c, "Could not adjust stock", err)
	}
	return c.JSON(product)
}

// HandleGetByCategory retrieves products by category, case-insensitively.
func (h *ProductHandler) HandleGetByCategory(c *fiber.Ctx) error {
	products, err := h.service.GetProductsByCategory(c.Params("category"))
	if err != nil {
		return serviceError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleSearchByName retrieves products whose name contains the "name"
// query parameter.
func (h *ProductHandler) HandleSearchByName(c *fiber.Ctx) error {
	products, err := h.service.SearchProductsByName(c.Query("name"))
	if err != nil {
		return serviceError(c, "Could not search products", err)
	}
	return c.JSON(products)
}

// HandleMostExpensive returns the highest-priced product.
func (h *ProductHandler) HandleMostExpensive(c *fiber.Ctx) error {
	product, err := h.service.MostExpensiveProduct()
	if err != nil {
		return serviceError(c, "Could not retrieve most expensive product", err)
	}
	return c.JSON(product)
}

// HandleCheapest returns the lowest-priced product.
func (h *ProductHandler) HandleCheapest(c *fiber.Ctx) error {
	product, err := h.service.CheapestProduct()
	if err != nil {
		return serviceError(c, "Could not retrieve cheapest product", err)
	}
	return c.JSON(product)
}

// HandleSortedByPrice returns the catalog sorted ascending by price.
func (h *ProductHandler) HandleSortedByPrice(c *fiber.Ctx) error {
	products, err := h.service.ProductsSortedByPrice()
	if err != nil {
		return serviceError(c, "Could not retrieve products", err)
	}
	return c.JSON(products)
}

// HandleCount returns the number of products in the catalog.
func (h *ProductHandler) HandleCount(c *fiber.Ctx) error {
	count, err := h.service.CountProducts()
	if err != nil {
		return serviceError(c, "Could not count products", err)
	}
	return c.JSON(fiber.Map{
		"count": count,
	})
}
