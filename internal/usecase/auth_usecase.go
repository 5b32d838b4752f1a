package usecase

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	GenerateToken(userID, email string) (string, time.Time, error)
}

// LoginGuard locks an email out after repeated failed logins.
type LoginGuard interface {
	IsBlocked(ctx context.Context, email string) (bool, error)
	RecordFailedAttempt(ctx context.Context, email string) (bool, error)
	ClearAttempts(ctx context.Context, email string) error
}

type authUsecase struct {
	userRepo domain.UserRepository
	tokens   TokenIssuer
	guard    LoginGuard
	log      logger.Logger
	now      func() time.Time
}

// NewAuthUsecase accepts a nil guard, which disables lockout.
func NewAuthUsecase(userRepo domain.UserRepository, tokens TokenIssuer, guard LoginGuard, log logger.Logger) domain.AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		tokens:   tokens,
		guard:    guard,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (u *authUsecase) Register(ctx context.Context, in domain.RegisterInput) (*domain.User, error) {
	if errs, ok := in.Validate(); !ok {
		return nil, apperror.Validation(errs)
	}
	in = in.Normalize()

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal(fmt.Errorf("hash password: %w", err))
	}

	now := u.now()
	user := &domain.User{
		ID:           uuid.NewString(),
		Name:         in.Name,
		Email:        in.Email,
		Avatar:       GravatarURL(in.Email),
		PasswordHash: string(hash),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, apperror.Validation(map[string]string{"email": "Email already exists"})
		}
		return nil, apperror.Internal(err)
	}

	u.log.Info("user registered", zap.String("user_id", user.ID))
	return user, nil
}

func (u *authUsecase) Login(ctx context.Context, in domain.LoginInput) (*domain.AuthToken, error) {
	if errs, ok := in.Validate(); !ok {
		return nil, apperror.Validation(errs)
	}
	in = in.Normalize()

	if u.guard != nil {
		blocked, err := u.guard.IsBlocked(ctx, in.Email)
		if err != nil {
			u.log.Warn("login guard unavailable", zap.Error(err))
		} else if blocked {
			return nil, apperror.New(http.StatusTooManyRequests, "Too many failed login attempts. Please try again later.", nil)
		}
	}

	user, err := u.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, u.loginFailed(ctx, in.Email)
		}
		return nil, apperror.Internal(err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, u.loginFailed(ctx, in.Email)
	}
	if u.guard != nil {
		if err := u.guard.ClearAttempts(ctx, in.Email); err != nil {
			u.log.Warn("clear login attempts failed", zap.Error(err))
		}
	}

	token, expiresAt, err := u.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	return &domain.AuthToken{Token: "Bearer " + token, ExpiresAt: expiresAt}, nil
}

// loginFailed records the failure and returns the same error for an unknown
// email and a wrong password.
func (u *authUsecase) loginFailed(ctx context.Context, email string) error {
	if u.guard != nil {
		blocked, err := u.guard.RecordFailedAttempt(ctx, email)
		if err != nil {
			u.log.Warn("record login failure failed", zap.Error(err))
		} else if blocked {
			u.log.Warn("login blocked after repeated failures", zap.String("email", email))
		}
	}
	return apperror.Unauthorized("Invalid email or password")
}

func (u *authUsecase) GetCurrentUser(ctx context.Context, id string) (*domain.User, error) {
	user, err := u.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NotFound("User not found")
		}
		return nil, apperror.Internal(err)
	}
	return user, nil
}

// GravatarURL returns the 200px gravatar for email, falling back to the mystery-man image.
func GravatarURL(email string) string {
	sum := md5.Sum([]byte(email))
	return "https://www.gravatar.com/avatar/" + hex.EncodeToString(sum[:]) + "?s=200&r=pg&d=mm"
}
