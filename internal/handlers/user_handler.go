package handlers

import (
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/middleware"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/services"
)

// UserHandler handles HTTP requests for user account management.
type UserHandler struct {
	service  *services.UserService
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{
		service:  service,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app. Reads are
// open to any authenticated user; mutations require an administration
// role.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/username/:username", h.HandleGetUserByUsername)
	userRoutes.Get("/:id", h.HandleGetUserByID)

	adminRoutes := userRoutes.Group("", middleware.RoleRequired(models.RoleSystemAdmin, models.RoleStoreManager))
	adminRoutes.Post("/", h.HandleCreateUser)
	adminRoutes.Put("/:id", h.HandleUpdateUser)
	adminRoutes.Patch("/:id/password", h.HandleChangePassword)
	adminRoutes.Post("/:id/activate", h.HandleActivateUser)
	adminRoutes.Post("/:id/deactivate", h.HandleDeactivateUser)
	adminRoutes.Delete("/:id", h.HandleDeleteUser)
	adminRoutes.Post("/:id/roles/:roleName", h.HandleAssignRole)
	adminRoutes.Delete("/:id/roles/:roleName", h.HandleRemoveRole)
}

// HandleGetUsers retrieves all users.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return serviceError(c, "Could not retrieve users", err)
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single user by their ID.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}
	user, err := h.service.GetUserByID(id)
	if err != nil {
		return serviceError(c, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleGetUserByUsername retrieves a single user by their username.
func (h *UserHandler) HandleGetUserByUsername(c *fiber.Ctx) error {
	user, err := h.service.GetUserByUsername(c.Params("username"))
	if err != nil {
		return serviceError(c, "Could not retrieve user", err)
	}
	return c.JSON(user)
}

// HandleCreateUser creates a new user account. The request body is the
// same shape as registration.
func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user body: %v", err)
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
	created, err := h.service.CreateUser(&user, req.Active)
	if err != nil {
		log.Printf("Error creating user: %v", err)
		return serviceError(c, "Could not create user", err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateUserRequest represents the request body for updating a user.
// Pointer fields distinguish "not provided" from a zero value; the
// username is not updatable.
type UpdateUserRequest struct {
	FullName *string `json:"full_name" validate:"omitempty,min=3,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Active   *bool   `json:"active"`
}

// HandleUpdateUser applies the provided fields to an existing user.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing user update body: %v", err)
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	updated, err := h.service.UpdateUser(id, services.UserUpdates{
		FullName: req.FullName,
		Email:    req.Email,
		Active:   req.Active,
	})
	if err != nil {
		log.Printf("Error updating user %d: %v", id, err)
		return serviceError(c, "Could not update user", err)
	}
	return c.JSON(updated)
}

// ChangePasswordRequest represents the request body for a password change.
type ChangePasswordRequest struct {
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// HandleChangePassword re-hashes and stores a new password for the user.
func (h *UserHandler) HandleChangePassword(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}

	var req ChangePasswordRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing password change body: %v", err)
		return badBody(c, err)
	}
	if err := h.validate.Struct(req); err != nil {
		return validationError(c, err)
	}

	if _, err := h.service.ChangePassword(id, req.NewPassword); err != nil {
		log.Printf("Error changing password for user %d: %v", id, err)
		return serviceError(c, "Could not change password", err)
	}
	return c.JSON(fiber.Map{
		"message": "Password updated successfully",
	})
}

// HandleActivateUser sets the user's active flag.
func (h *UserHandler) HandleActivateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}
	user, err := h.service.ActivateUser(id)
	if err != nil {
		log.Printf("Error activating user %d: %v", id, err)
		return serviceError(c, "Could not activate user", err)
	}
	return c.JSON(user)
}

// HandleDeactivateUser clears the user's active flag.
func (h *UserHandler) HandleDeactivateUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}
	user, err := h.service.DeactivateUser(id)
	if err != nil {
		log.Printf("Error deactivating user %d: %v", id, err)
		return serviceError(c, "Could not deactivate user", err)
	}
	return c.JSON(user)
}

// HandleDeleteUser removes a user account.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}
	if err := h.service.DeleteUser(id); err != nil {
		log.Printf("Error deleting user %d: %v", id, err)
		return serviceError(c, "Could not delete user", err)
	}
	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}

// HandleAssignRole adds a role to the user's role set.
func (h *UserHandler) HandleAssignRole(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}
	user, err := h.service.AssignRole(id, c.Params("roleName"))
	if err != nil {
		log.Printf("Error assigning role %s to user %d: %v", c.Params("roleName"), id, err)
		return serviceError(c, "Could not assign role", err)
	}
	return c.JSON(user)
}

// HandleRemoveRole removes a role from the user's role set.
func (h *UserHandler) HandleRemoveRole(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return serviceError(c, "Invalid user ID", err)
	}
	user, err := h.service.RemoveRole(id, c.Params("roleName"))
	if err != nil {
		log.Printf("Error removing role %s from user %d: %v", c.Params("roleName"), id, err)
		return serviceError(c, "Could not remove role", err)
	}
	return c.JSON(user)
}
