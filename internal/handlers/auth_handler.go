package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/services"
)

// AuthHandler handles HTTP requests for registration and login.
type AuthHandler struct {
	authService *services.AuthService
	userService *services.UserService
	validate    *validator.Validate
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, userService *services.UserService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		userService: userService,
		validate:    validator.New(),
	}
}

// RegisterRoutes registers the authentication routes with the Fiber app.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/register", h.HandleRegister)
	authRoutes.Post("/login", h.HandleLogin)
}

// RegisterRequest represents the request body for registration. Active is
// a pointer so "not provided" stays distinguishable from "explicitly
// false"; omitted means active.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	FullName string `json:"full_name" validate:"required,min=3,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Active   *bool  `json:"active"`
}

// HandleRegister handles new user registration.
func (h *AuthHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing register request body: %v", err)
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	user := models.User{
		Username: req.Username,
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
	}
	created, err := h.userService.CreateUser(&user, req.Active)
	if err != nil {
		log.Printf("Error registering user: %v", err)
		return serviceError(c, "Could not register user", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    created,
	})
}

// LoginRequest represents the request body for login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HandleLogin handles user login and issues a JWT token.
func (h *AuthHandler) HandleLogin(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing login request body: %v", err)
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		log.Printf("Error during login for user %s: %v", req.Username, err)
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"message": "Authentication failed",
			"error":   err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"message": "Login successful",
		"token":   token,
	})
}
