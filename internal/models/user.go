package models

import "time"

// User represents an account that can log into the store backend.
// Password always holds the bcrypt hash once the user has been created;
// the plaintext never reaches a repository.
type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;type:varchar(50);not null" validate:"required,min=3,max=50"`
	FullName  string    `json:"full_name" gorm:"type:varchar(100);not null" validate:"required,min=3,max=100"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(100);not null" validate:"required,email"`
	Password  string    `json:"-" gorm:"type:varchar(255);not null" validate:"required,min=6"`
	Active    bool      `json:"active" gorm:"not null;default:true"`
	Roles     []Role    `json:"roles" gorm:"many2many:user_roles"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// HasRole reports whether the user already holds the role, compared by
// identifier rather than name.
func (u *User) HasRole(roleID uint) bool {
	for _, r := range u.Roles {
		if r.ID == roleID {
			return true
		}
	}
	return false
}

// RoleNames returns the canonical names of the user's roles.
func (u *User) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Name)
	}
	return names
}
