package domain

import (
	"context"
	"strings"
	"time"

	"go-profile-backend/pkg/validation"
)

type User struct {
	ID           string    `json:"id"` // UUID
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RegisterInput is the sign-up payload
type RegisterInput struct {
	Name      string `json:"name" validate:"required,min=2,max=30,no_emoji"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,min=6,max=72"`
	Password2 string `json:"password2" validate:"required,eqfield=Password"`
}

// Normalize trims the free-text fields and lower-cases the email.
func (in RegisterInput) Normalize() RegisterInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}

func (in RegisterInput) Validate() (map[string]string, bool) {
	return check(in.Normalize())
}

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (in LoginInput) Normalize() LoginInput {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	return in
}

func (in LoginInput) Validate() (map[string]string, bool) {
	return check(in.Normalize())
}

// AuthToken is returned on successful login
type AuthToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	// GetByIDs skips ids that do not exist
	GetByIDs(ctx context.Context, ids []string) ([]User, error)
	Delete(ctx context.Context, id string) error
}

type AuthUsecase interface {
	Register(ctx context.Context, in RegisterInput) (*User, error)
	Login(ctx context.Context, in LoginInput) (*AuthToken, error)
	GetCurrentUser(ctx context.Context, id string) (*User, error)
}

// check runs struct-tag validation and always returns a non-nil map.
func check(in interface{}) (map[string]string, bool) {
	errs := validation.Struct(in)
	if errs == nil {
		errs = map[string]string{}
	}
	return errs, len(errs) == 0
}
