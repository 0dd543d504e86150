package domain

import (
	"context"
	"errors"
	"time"
)

// Sentinel errors for user operations.
var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// User represents a registered user. Organizers and participants are both
// plain users; Admin widens event visibility.
// swagger:model User
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Admin        bool      `json:"admin"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser returns a new User with the given fields. ID is set by the
// repository on create.
func NewUser(email, name string, admin bool, createdAt, updatedAt time.Time) *User {
	return &User{
		Email:     email,
		Name:      name,
		Admin:     admin,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Viewer returns the visibility viewer for the user.
func (u *User) Viewer() *Viewer {
	if u == nil {
		return nil
	}
	return &Viewer{ID: u.ID, Admin: u.Admin}
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(userID string, admin bool, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns the viewer it identifies.
type TokenVerifier interface {
	Verify(token string) (*Viewer, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
}

// AuthService defines signup and login.
type AuthService interface {
	SignUp(ctx context.Context, email, password, name string) (*User, error)
	Login(ctx context.Context, email, password string) (token string, user *User, err error)
}
