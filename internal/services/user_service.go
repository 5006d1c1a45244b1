package services

import (
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
	"github.com/GoldenDust79/EcoMarket-SPA/internal/repositories"
)

// UserUpdates carries the updatable user fields. Nil means "not provided",
// which keeps "explicitly false" distinguishable from "unset" for the
// active flag. The username is deliberately absent: it is immutable.
type UserUpdates struct {
	FullName *string
	Email    *string
	Active   *bool
}

// UserService handles business logic for user accounts and their roles.
type UserService struct {
	userRepo repositories.UserRepository
	roleRepo repositories.RoleRepository
}

// NewUserService creates a new UserService.
func NewUserService(userRepo repositories.UserRepository, roleRepo repositories.RoleRepository) *UserService {
	return &UserService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

// GetAllUsers retrieves all users.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// GetUserByID retrieves a single user by their ID.
func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// GetUserByUsername retrieves a single user by their username.
func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.GetByUsername(username)
}

// CreateUser registers a new user. Username, email and password are
// required and must not collide with existing accounts. The password is
// bcrypt-hashed before it reaches the store. active defaults to true when
// not provided.
func (s *UserService) CreateUser(user *models.User, active *bool) (*models.User, error) {
	if strings.TrimSpace(user.Username) == "" {
		return nil, fmt.Errorf("username is required: %w", models.ErrInvalidArgument)
	}
	if strings.TrimSpace(user.Email) == "" {
		return nil, fmt.Errorf("email is required: %w", models.ErrInvalidArgument)
	}
	if strings.TrimSpace(user.Password) == "" {
		return nil, fmt.Errorf("password is required: %w", models.ErrInvalidArgument)
	}

	if taken, err := s.userRepo.ExistsByUsername(user.Username); err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	} else if taken {
		return nil, fmt.Errorf("username %s is already taken: %w", user.Username, models.ErrDuplicateKey)
	}
	if taken, err := s.userRepo.ExistsByEmail(user.Email); err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	} else if taken {
		return nil, fmt.Errorf("email %s is already registered: %w", user.Email, models.ErrDuplicateKey)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(user.Password)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	user.Active = active == nil || *active
	if user.Roles == nil {
		user.Roles = []models.Role{}
	}

	user.ID = 0
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser applies the provided fields to an existing user. An email
// change is re-checked for uniqueness; the username cannot be changed.
func (s *UserService) UpdateUser(id uint, updates UserUpdates) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if updates.FullName != nil {
		user.FullName = *updates.FullName
	}
	if updates.Email != nil && *updates.Email != user.Email {
		if taken, err := s.userRepo.ExistsByEmail(*updates.Email); err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		} else if taken {
			return nil, fmt.Errorf("email %s is already registered: %w", *updates.Email, models.ErrDuplicateKey)
		}
		user.Email = *updates.Email
	}
	if updates.Active != nil {
		user.Active = *updates.Active
	}

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword re-hashes and persists a new password for the user.
func (s *UserService) ChangePassword(id uint, newPassword string) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(newPassword) == "" {
		return nil, fmt.Errorf("new password must not be blank: %w", models.ErrInvalidArgument)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(strings.TrimSpace(newPassword)), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.Password = string(hashed)

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ActivateUser sets the active flag. Activating an already active user is
// not an error.
func (s *UserService) ActivateUser(id uint) (*models.User, error) {
	return s.setActive(id, true)
}

// DeactivateUser clears the active flag. Deactivating an already inactive
// user is not an error.
func (s *UserService) DeactivateUser(id uint) (*models.User, error) {
	return s.setActive(id, false)
}

func (s *UserService) setActive(id uint, active bool) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	user.Active = active
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeleteUser removes a user outright. The store treats deleting an absent
// ID as a no-op, so existence is checked here first.
func (s *UserService) DeleteUser(id uint) error {
	if _, err := s.userRepo.GetByID(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}

// AssignRole adds the role with the given name to the user's role set.
// The role is looked up by canonical name, and assigning a role the user
// already holds (compared by role ID) is rejected.
func (s *UserService) AssignRole(userID uint, roleName string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.GetByName(models.CanonicalName(roleName))
	if err != nil {
		return nil, err
	}

	if user.HasRole(role.ID) {
		return nil, fmt.Errorf("user %d already has role %s: %w", user.ID, role.Name, models.ErrDuplicateAssignment)
	}

	user.Roles = append(user.Roles, *role)
	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}

// RemoveRole removes the role with the given name from the user's role
// set. Unlike AssignRole, removing a role the user does not hold succeeds
// as a silent no-op; only an unknown user or role name is an error.
func (s *UserService) RemoveRole(userID uint, roleName string) (*models.User, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	role, err := s.roleRepo.GetByName(models.CanonicalName(roleName))
	if err != nil {
		return nil, err
	}

	kept := user.Roles[:0]
	for _, r := range user.Roles {
		if r.ID != role.ID {
			kept = append(kept, r)
		}
	}
	user.Roles = kept

	if err := s.userRepo.Save(user); err != nil {
		return nil, err
	}
	return user, nil
}
