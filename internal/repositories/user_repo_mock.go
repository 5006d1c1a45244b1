package repositories

import (
	"fmt"
	"sort"
	"sync"

	"github.com/GoldenDust79/EcoMarket-SPA/internal/models"
)

// MemoryUserRepository is an in-memory implementation of UserRepository.
type MemoryUserRepository struct {
	users  map[uint]models.User
	nextID uint
	mu     sync.RWMutex
}

// NewMemoryUserRepository creates a new instance of MemoryUserRepository.
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{
		users:  make(map[uint]models.User),
		nextID: 1,
	}
}

// GetAll returns all users in ascending ID order.
func (r *MemoryUserRepository) GetAll() ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	userList := make([]models.User, 0, len(r.users))
	for _, u := range r.users {
		userList = append(userList, copyUser(u))
	}
	sort.Slice(userList, func(i, j int) bool { return userList[i].ID < userList[j].ID })
	return userList, nil
}

// GetByID returns a user by their ID.
func (r *MemoryUserRepository) GetByID(id uint) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, fmt.Errorf("user with ID %d: %w", id, models.ErrNotFound)
	}
	u := copyUser(user)
	return &u, nil
}

// GetByUsername returns a user by their username.
func (r *MemoryUserRepository) GetByUsername(username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			user := copyUser(u)
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with username %s: %w", username, models.ErrNotFound)
}

// GetByEmail returns a user by their email.
func (r *MemoryUserRepository) GetByEmail(email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			user := copyUser(u)
			return &user, nil
		}
	}
	return nil, fmt.Errorf("user with email %s: %w", email, models.ErrNotFound)
}

// ExistsByUsername reports whether a user with the given username exists.
func (r *MemoryUserRepository) ExistsByUsername(username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByEmail reports whether a user with the given email exists.
func (r *MemoryUserRepository) ExistsByEmail(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Save inserts or updates a user, enforcing the username and email unique
// constraints. The role set is stored exactly as given.
func (r *MemoryUserRepository) Save(user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.ID == user.ID {
			continue
		}
		if u.Username == user.Username {
			return fmt.Errorf("username %s: %w", user.Username, models.ErrDuplicateKey)
		}
		if u.Email == user.Email {
			return fmt.Errorf("email %s: %w", user.Email, models.ErrDuplicateKey)
		}
	}

	if user.ID == 0 {
		user.ID = r.nextID
		r.nextID++
	} else if user.ID >= r.nextID {
		r.nextID = user.ID + 1
	}
	r.users[user.ID] = copyUser(*user)
	return nil
}

// Delete removes a user by their ID. Deleting an absent ID is a no-op.
func (r *MemoryUserRepository) Delete(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.users, id)
	return nil
}

// copyUser clones the role slice so callers cannot mutate stored state
// through the returned value.
func copyUser(u models.User) models.User {
	out := u
	out.Roles = make([]models.Role, len(u.Roles))
	copy(out.Roles, u.Roles)
	return out
}
