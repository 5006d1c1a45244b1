package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/spf13/viper"
	"github.com/streadway/amqp"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/handlers"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/middleware"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/repositories"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/services"
	"github.com/GoldenDust79/EcoMarket-SPA/pkg/rabbitmq"
)

// Repositories bundles the per-entity stores behind one backend choice.
type Repositories struct {
	Products    repositories.ProductRepository
	Users       repositories.UserRepository
	Roles       repositories.RoleRepository
	Permissions repositories.PermissionRepository
}

// loadConfig sets the configuration defaults and loads overrides from the
// environment.
func loadConfig() {
	viper.SetDefault("APP_PORT", ":8080")
	viper.SetDefault("DATABASE_DRIVER", "memory")
	viper.SetDefault("DATABASE_DSN", "")
	viper.SetDefault("JWT_SECRET", "ecomarket_dev_secret")
	viper.SetDefault("RABBITMQ_URL", "")
	viper.AutomaticEnv()
}

// OpenRepositories selects the store backend from DATABASE_DRIVER:
// "memory" for the in-memory stores, "sqlite" or "postgres" for GORM over
// DATABASE_DSN. The GORM backends run with TranslateError so unique
// constraint violations surface as duplicate-key domain errors.
func OpenRepositories() (*Repositories, error) {
	driver := viper.GetString("DATABASE_DRIVER")
	dsn := viper.GetString("DATABASE_DSN")

	var dialector gorm.Dialector
	switch driver {
	case "memory":
		return &Repositories{
			Products:    repositories.NewMemoryProductRepository(),
			Users:       repositories.NewMemoryUserRepository(),
			Roles:       repositories.NewMemoryRoleRepository(),
			Permissions: repositories.NewMemoryPermissionRepository(),
		}, nil
	case "sqlite":
		if dsn == "" {
			dsn = "file::memory:?cache=shared"
		}
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("unknown DATABASE_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&models.Permission{}, &models.Role{}, &models.User{}, &models.Product{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repositories{
		Products:    repositories.NewGORMProductRepository(db),
		Users:       repositories.NewGORMUserRepository(db),
		Roles:       repositories.NewGORMRoleRepository(db),
		Permissions: repositories.NewGORMPermissionRepository(db),
	}, nil
}

// NewApp wires repositories, services and handlers into a Fiber app.
// publisher may be nil, which disables catalog event publishing.
func NewApp(repos *Repositories, publisher services.EventPublisher) (*fiber.App, *services.AuthService) {
	productService := services.NewProductService(repos.Products, publisher)
	userService := services.NewUserService(repos.Users, repos.Roles)
	authService := services.NewAuthService(repos.Users, viper.GetString("JWT_SECRET"))

	productHandler := handlers.NewProductHandler(productService)
	userHandler := handlers.NewUserHandler(userService)
	authHandler := handlers.NewAuthHandler(authService, userService)

	app := fiber.New()
	app.Use(logger.New())

	apiV1 := app.Group("/api/v1")

	// Authentication routes (public)
	authHandler.RegisterRoutes(apiV1)

	// Protected routes (require JWT authentication)
	protectedRoutes := apiV1.Group("", middleware.AuthRequired(authService))
	productHandler.RegisterRoutes(protectedRoutes)
	userHandler.RegisterRoutes(protectedRoutes)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	return app, authService
}

func main() {
	loadConfig()
	appPort := viper.GetString("APP_PORT")
	rabbitMQURL := viper.GetString("RABBITMQ_URL")

	// RabbitMQ is optional: without a broker the service still runs, it
	// just skips catalog event publishing.
	var mqClient *rabbitmq.Client
	var publisher services.EventPublisher
	if rabbitMQURL != "" {
		var err error
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: rabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient
	}

	repos, err := OpenRepositories()
	if err != nil {
		log.Fatalf("Failed to open repositories: %v", err)
	}

	if err := seedData(repos); err != nil {
		log.Fatalf("Failed to seed initial data: %v", err)
	}

	app, _ := NewApp(repos, publisher)

	if mqClient != nil {
		go func() {
			log.Println("Starting RabbitMQ consumer for catalog events...")
			messageHandler := func(msg amqp.Delivery) error {
				log.Printf("Received catalog event (tag: %d): %s", msg.DeliveryTag, string(msg.Body))
				return nil
			}
			if consumerErr := mqClient.ConsumeCatalogEvents(messageHandler); consumerErr != nil {
				log.Printf("Failed to start RabbitMQ consumer: %v", consumerErr)
			}
		}()
	}

	log.Printf("Starting server on port %s", appPort)

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(appPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}

	log.Println("Server gracefully stopped")
}
