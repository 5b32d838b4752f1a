package usecase_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"go-profile-backend/internal/domain"
	"go-profile-backend/internal/usecase"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// Mock Repositories
type MockProfileRepo struct {
	mock.Mock
}

func (m *MockProfileRepo) profile(args mock.Arguments) (*domain.Profile, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Profile), args.Error(1)
}

func (m *MockProfileRepo) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, userID))
}
func (m *MockProfileRepo) GetByHandle(ctx context.Context, handle string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, handle))
}
func (m *MockProfileRepo) List(ctx context.Context) ([]domain.Profile, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Profile), args.Error(1)
}
func (m *MockProfileRepo) Upsert(ctx context.Context, f domain.ProfileFields) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, f))
}
func (m *MockProfileRepo) AddExperience(ctx context.Context, userID string, exp domain.Experience) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, userID, exp))
}
func (m *MockProfileRepo) RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, userID, expID))
}
func (m *MockProfileRepo) AddEducation(ctx context.Context, userID string, edu domain.Education) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, userID, edu))
}
func (m *MockProfileRepo) RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error) {
	return m.profile(m.Called(ctx, userID, eduID))
}
func (m *MockProfileRepo) DeleteByUserID(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByIDs(ctx context.Context, ids []string) ([]domain.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.User), args.Error(1)
}
func (m *MockUserRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockTokenIssuer struct {
	mock.Mock
}

func (m *MockTokenIssuer) GenerateToken(userID, email string) (string, time.Time, error) {
	args := m.Called(userID, email)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

func newProfileUC() (domain.ProfileUsecase, *MockProfileRepo, *MockUserRepo) {
	profiles := new(MockProfileRepo)
	users := new(MockUserRepo)
	return usecase.NewProfileUsecase(profiles, users, logger.Nop()), profiles, users
}

func assertStatus(t *testing.T, err error, code int) *apperror.AppError {
	t.Helper()
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestProfileUpsertValidation(t *testing.T) {
	uc, profiles, _ := newProfileUC()

	t.Run("Should short-circuit before any persistence call", func(t *testing.T) {
		_, err := uc.Upsert(context.Background(), "user1", domain.ProfileInput{Website: "nope"})
		appErr := assertStatus(t, err, http.StatusBadRequest)
		assert.Contains(t, appErr.Fields, "status")
		assert.Contains(t, appErr.Fields, "website")
		profiles.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})

	t.Run("Should send only supplied fields to the repository", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		users.On("GetByIDs", mock.Anything, []string{"user1"}).Return([]domain.User{{ID: "user1", Name: "Jo"}}, nil)
		profiles.On("Upsert", mock.Anything, mock.MatchedBy(func(f domain.ProfileFields) bool {
			return f.UserID == "user1" && f.Skills == nil && f.Bio == nil && *f.Status == "Developer"
		})).Return(&domain.Profile{UserID: "user1", Status: "Developer"}, nil).Once()

		p, err := uc.Upsert(context.Background(), "user1", domain.ProfileInput{Status: "Developer"})
		require.NoError(t, err)
		assert.Equal(t, "Developer", p.Status)
		require.NotNil(t, p.User)
		assert.Equal(t, "Jo", p.User.Name)
		profiles.AssertExpectations(t)
	})

	t.Run("Should map a taken handle to a field error", func(t *testing.T) {
		profiles.On("Upsert", mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicateHandle).Once()

		_, err := uc.Upsert(context.Background(), "user1", domain.ProfileInput{Status: "Developer", Handle: "taken"})
		appErr := assertStatus(t, err, http.StatusBadRequest)
		assert.Equal(t, "That handle already exists", appErr.Fields["handle"])
	})

	t.Run("Should hide storage failures", func(t *testing.T) {
		profiles.On("Upsert", mock.Anything, mock.Anything).Return(nil, errors.New("connection reset")).Once()

		_, err := uc.Upsert(context.Background(), "user1", domain.ProfileInput{Status: "Developer"})
		appErr := assertStatus(t, err, http.StatusInternalServerError)
		assert.Equal(t, "Internal Server Error", appErr.Message)
	})
}

func TestProfileEntries(t *testing.T) {
	t.Run("Adding without a profile is a not found", func(t *testing.T) {
		uc, profiles, _ := newProfileUC()
		profiles.On("AddExperience", mock.Anything, "user1", mock.Anything).Return(nil, domain.ErrNotFound)

		_, err := uc.AddExperience(context.Background(), "user1", domain.ExperienceInput{Title: "Dev", Company: "X", From: "2020-01-01"})
		appErr := assertStatus(t, err, http.StatusNotFound)
		assert.Contains(t, appErr.Fields, "noprofile")
	})

	t.Run("Invalid education never reaches the repository", func(t *testing.T) {
		uc, profiles, _ := newProfileUC()
		_, err := uc.AddEducation(context.Background(), "user1", domain.EducationInput{School: "MIT"})
		assertStatus(t, err, http.StatusBadRequest)
		profiles.AssertNotCalled(t, "AddEducation", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Each added entry gets a fresh id", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		users.On("GetByIDs", mock.Anything, mock.Anything).Return([]domain.User{}, nil)
		var ids []string
		profiles.On("AddExperience", mock.Anything, "user1", mock.Anything).
			Run(func(args mock.Arguments) { ids = append(ids, args.Get(2).(domain.Experience).ID.Hex()) }).
			Return(&domain.Profile{}, nil)

		in := domain.ExperienceInput{Title: "Dev", Company: "X", From: "2020-01-01"}
		for i := 0; i < 3; i++ {
			_, err := uc.AddExperience(context.Background(), "user1", in)
			require.NoError(t, err)
		}
		require.Len(t, ids, 3)
		assert.NotEqual(t, ids[0], ids[1])
		assert.NotEqual(t, ids[1], ids[2])
	})

	t.Run("Every mutation returns the owning user", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		stored := &domain.Profile{UserID: "user1", Status: "Developer"}
		profiles.On("AddExperience", mock.Anything, "user1", mock.Anything).Return(stored, nil)
		profiles.On("AddEducation", mock.Anything, "user1", mock.Anything).Return(stored, nil)
		profiles.On("RemoveExperience", mock.Anything, "user1", "x").Return(stored, nil)
		profiles.On("RemoveEducation", mock.Anything, "user1", "y").Return(stored, nil)
		users.On("GetByIDs", mock.Anything, []string{"user1"}).
			Return([]domain.User{{ID: "user1", Name: "Jo", Avatar: "//gravatar", Email: "jo@example.com"}}, nil)

		ctx := context.Background()
		results := make([]*domain.Profile, 0, 4)
		p, err := uc.AddExperience(ctx, "user1", domain.ExperienceInput{Title: "Dev", Company: "X", From: "2020-01-01"})
		require.NoError(t, err)
		results = append(results, p)
		p, err = uc.AddEducation(ctx, "user1", domain.EducationInput{School: "MIT", Degree: "BSc", FieldOfStudy: "CS", From: "2010-09-01"})
		require.NoError(t, err)
		results = append(results, p)
		p, err = uc.RemoveExperience(ctx, "user1", "x")
		require.NoError(t, err)
		results = append(results, p)
		p, err = uc.RemoveEducation(ctx, "user1", "y")
		require.NoError(t, err)
		results = append(results, p)

		for _, r := range results {
			require.NotNil(t, r.User)
			assert.Equal(t, domain.ProfileUser{ID: "user1", Name: "Jo", Avatar: "//gravatar", Email: "jo@example.com"}, *r.User)
		}
		assert.Nil(t, stored.User, "the repository result is not modified in place")
	})
}

func TestProfileLookups(t *testing.T) {
	t.Run("Should resolve the owning user", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		profiles.On("GetByHandle", mock.Anything, "gopher").Return(&domain.Profile{UserID: "u1", Handle: "gopher"}, nil)
		users.On("GetByIDs", mock.Anything, []string{"u1"}).
			Return([]domain.User{{ID: "u1", Name: "Go Pher", Avatar: "//gravatar", Email: "g@example.com"}}, nil)

		p, err := uc.GetByHandle(context.Background(), "gopher")
		require.NoError(t, err)
		require.NotNil(t, p.User)
		assert.Equal(t, domain.ProfileUser{ID: "u1", Name: "Go Pher", Avatar: "//gravatar", Email: "g@example.com"}, *p.User)
	})

	t.Run("Missing handle is a noprofile 404", func(t *testing.T) {
		uc, profiles, _ := newProfileUC()
		profiles.On("GetByHandle", mock.Anything, "nobody").Return(nil, domain.ErrNotFound)

		_, err := uc.GetByHandle(context.Background(), "nobody")
		appErr := assertStatus(t, err, http.StatusNotFound)
		assert.Equal(t, "There is no profile for this user", appErr.Fields["noprofile"])
	})

	t.Run("Empty list is not an error", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		profiles.On("List", mock.Anything).Return([]domain.Profile{}, nil)

		list, err := uc.List(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
		users.AssertNotCalled(t, "GetByIDs", mock.Anything, mock.Anything)
	})

	t.Run("List batches user lookups", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		profiles.On("List", mock.Anything).Return([]domain.Profile{{UserID: "a"}, {UserID: "b"}, {UserID: "a"}}, nil)
		users.On("GetByIDs", mock.Anything, []string{"a", "b"}).Return([]domain.User{{ID: "a", Name: "A"}}, nil).Once()

		list, err := uc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "A", list[0].User.Name)
		assert.Equal(t, "b", list[1].User.ID)
		assert.Empty(t, list[1].User.Name)
		users.AssertExpectations(t)
	})
}

func TestDeleteAccount(t *testing.T) {
	t.Run("Removes both records", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		profiles.On("DeleteByUserID", mock.Anything, "u1").Return(nil)
		users.On("Delete", mock.Anything, "u1").Return(nil)

		require.NoError(t, uc.DeleteAccount(context.Background(), "u1"))
		profiles.AssertExpectations(t)
		users.AssertExpectations(t)
	})

	t.Run("A user without a profile can still delete the account", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		profiles.On("DeleteByUserID", mock.Anything, "u1").Return(domain.ErrNotFound)
		users.On("Delete", mock.Anything, "u1").Return(nil)

		assert.NoError(t, uc.DeleteAccount(context.Background(), "u1"))
	})

	t.Run("Partial failure still awaits both and is surfaced generically", func(t *testing.T) {
		uc, profiles, users := newProfileUC()
		profiles.On("DeleteByUserID", mock.Anything, "u1").Return(nil)
		users.On("Delete", mock.Anything, "u1").Return(errors.New("postgres down"))

		err := uc.DeleteAccount(context.Background(), "u1")
		appErr := assertStatus(t, err, http.StatusInternalServerError)
		assert.Equal(t, "Internal Server Error", appErr.Message)
		profiles.AssertExpectations(t)
		users.AssertExpectations(t)
	})
}

func TestAuthRegister(t *testing.T) {
	valid := domain.RegisterInput{Name: "Jo", Email: " Jo@Example.com ", Password: "secret1", Password2: "secret1"}

	t.Run("Should hash the password and normalise the email", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(users, new(MockTokenIssuer), nil, logger.Nop())
		users.On("Create", mock.Anything, mock.AnythingOfType("*domain.User")).Return(nil)

		u, err := uc.Register(context.Background(), valid)
		require.NoError(t, err)
		assert.Equal(t, "jo@example.com", u.Email)
		assert.NotEmpty(t, u.ID)
		assert.Equal(t, usecase.GravatarURL("jo@example.com"), u.Avatar)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte("secret1")))
	})

	t.Run("Should report a duplicate email on the email field", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(users, new(MockTokenIssuer), nil, logger.Nop())
		users.On("Create", mock.Anything, mock.Anything).Return(domain.ErrDuplicateEmail)

		_, err := uc.Register(context.Background(), valid)
		appErr := assertStatus(t, err, http.StatusBadRequest)
		assert.Equal(t, "Email already exists", appErr.Fields["email"])
	})
}

func TestAuthLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: "u1", Email: "jo@example.com", PasswordHash: string(hash)}

	t.Run("Should issue a bearer token", func(t *testing.T) {
		users := new(MockUserRepo)
		tokens := new(MockTokenIssuer)
		uc := usecase.NewAuthUsecase(users, tokens, nil, logger.Nop())
		exp := time.Now().Add(time.Hour)
		users.On("GetByEmail", mock.Anything, "jo@example.com").Return(stored, nil)
		tokens.On("GenerateToken", "u1", "jo@example.com").Return("abc", exp, nil)

		tok, err := uc.Login(context.Background(), domain.LoginInput{Email: "JO@example.com", Password: "secret1"})
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", tok.Token)
		assert.Equal(t, exp, tok.ExpiresAt)
	})

	t.Run("Should not reveal which credential was wrong", func(t *testing.T) {
		users := new(MockUserRepo)
		uc := usecase.NewAuthUsecase(users, new(MockTokenIssuer), nil, logger.Nop())
		users.On("GetByEmail", mock.Anything, "jo@example.com").Return(stored, nil)
		users.On("GetByEmail", mock.Anything, "ghost@example.com").Return(nil, domain.ErrNotFound)

		_, errPass := uc.Login(context.Background(), domain.LoginInput{Email: "jo@example.com", Password: "wrong"})
		_, errUser := uc.Login(context.Background(), domain.LoginInput{Email: "ghost@example.com", Password: "secret1"})
		assertStatus(t, errPass, http.StatusUnauthorized)
		assertStatus(t, errUser, http.StatusUnauthorized)
		assert.Equal(t, errPass.Error(), errUser.Error())
	})
}

func TestHealthCheck(t *testing.T) {
	uc := usecase.NewHealthUsecase(map[string]usecase.Pinger{
		"mongo":    usecase.PingFunc(func(context.Context) error { return nil }),
		"postgres": usecase.PingFunc(func(context.Context) error { return errors.New("dial tcp: refused") }),
	})

	status, ok := uc.Check(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "degraded", status["status"])
	assert.Equal(t, "ok", status["mongo"])
	assert.Equal(t, "dial tcp: refused", status["postgres"])
}

type MockLoginGuard struct {
	mock.Mock
}

func (m *MockLoginGuard) IsBlocked(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) RecordFailedAttempt(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}
func (m *MockLoginGuard) ClearAttempts(ctx context.Context, email string) error {
	return m.Called(ctx, email).Error(0)
}

func TestAuthLoginGuard(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("secret1"), bcrypt.MinCost)
	require.NoError(t, err)
	stored := &domain.User{ID: "u1", Email: "jo@example.com", PasswordHash: string(hash)}

	t.Run("Blocked email is rejected before the password check", func(t *testing.T) {
		users := new(MockUserRepo)
		guard := new(MockLoginGuard)
		uc := usecase.NewAuthUsecase(users, new(MockTokenIssuer), guard, logger.Nop())
		guard.On("IsBlocked", mock.Anything, "jo@example.com").Return(true, nil)

		_, err := uc.Login(context.Background(), domain.LoginInput{Email: "jo@example.com", Password: "secret1"})
		assertStatus(t, err, http.StatusTooManyRequests)
		users.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
	})

	t.Run("Wrong password is recorded and success clears", func(t *testing.T) {
		users := new(MockUserRepo)
		guard := new(MockLoginGuard)
		tokens := new(MockTokenIssuer)
		uc := usecase.NewAuthUsecase(users, tokens, guard, logger.Nop())
		users.On("GetByEmail", mock.Anything, "jo@example.com").Return(stored, nil)
		guard.On("IsBlocked", mock.Anything, "jo@example.com").Return(false, nil)
		guard.On("RecordFailedAttempt", mock.Anything, "jo@example.com").Return(false, nil).Once()
		guard.On("ClearAttempts", mock.Anything, "jo@example.com").Return(nil).Once()
		tokens.On("GenerateToken", "u1", "jo@example.com").Return("abc", time.Now(), nil)

		_, err := uc.Login(context.Background(), domain.LoginInput{Email: "jo@example.com", Password: "bad"})
		assertStatus(t, err, http.StatusUnauthorized)
		_, err = uc.Login(context.Background(), domain.LoginInput{Email: "jo@example.com", Password: "secret1"})
		require.NoError(t, err)
		guard.AssertExpectations(t)
	})
}
