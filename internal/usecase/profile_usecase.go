package usecase

import (
	"context"
	"errors"

	"go-profile-backend/internal/domain"
	"go-profile-backend/pkg/apperror"
	"go-profile-backend/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	msgNoProfileForUser = "There is no profile for this user"
	msgHandleTaken      = "That handle already exists"
)

type profileUsecase struct {
	profileRepo domain.ProfileRepository
	userRepo    domain.UserRepository
	log         logger.Logger
}

func NewProfileUsecase(profileRepo domain.ProfileRepository, userRepo domain.UserRepository, log logger.Logger) domain.ProfileUsecase {
	return &profileUsecase{
		profileRepo: profileRepo,
		userRepo:    userRepo,
		log:         log,
	}
}

func (u *profileUsecase) GetMine(ctx context.Context, userID string) (*domain.Profile, error) {
	return u.lookup(ctx, func() (*domain.Profile, error) {
		return u.profileRepo.GetByUserID(ctx, userID)
	})
}

func (u *profileUsecase) GetByHandle(ctx context.Context, handle string) (*domain.Profile, error) {
	return u.lookup(ctx, func() (*domain.Profile, error) {
		return u.profileRepo.GetByHandle(ctx, handle)
	})
}

func (u *profileUsecase) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	return u.lookup(ctx, func() (*domain.Profile, error) {
		return u.profileRepo.GetByUserID(ctx, userID)
	})
}

func (u *profileUsecase) List(ctx context.Context) ([]domain.Profile, error) {
	profiles, err := u.profileRepo.List(ctx)
	if err != nil {
		return nil, apperror.Internal(err)
	}
	if len(profiles) == 0 {
		return []domain.Profile{}, nil
	}
	if err := u.attachUsers(ctx, profiles); err != nil {
		return nil, apperror.Internal(err)
	}
	return profiles, nil
}

func (u *profileUsecase) Upsert(ctx context.Context, userID string, in domain.ProfileInput) (*domain.Profile, error) {
	if errs, ok := in.Validate(); !ok {
		return nil, apperror.Validation(errs)
	}

	profile, err := u.profileRepo.Upsert(ctx, domain.BuildProfileFields(userID, in))
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateHandle) {
			return nil, apperror.Validation(map[string]string{"handle": msgHandleTaken})
		}
		return nil, apperror.Internal(err)
	}
	return u.withUser(ctx, profile)
}

func (u *profileUsecase) AddExperience(ctx context.Context, userID string, in domain.ExperienceInput) (*domain.Profile, error) {
	if errs, ok := in.Validate(); !ok {
		return nil, apperror.Validation(errs)
	}
	profile, err := u.profileRepo.AddExperience(ctx, userID, in.ToExperience(primitive.NewObjectID()))
	return u.mutate(ctx, profile, err)
}

func (u *profileUsecase) AddEducation(ctx context.Context, userID string, in domain.EducationInput) (*domain.Profile, error) {
	if errs, ok := in.Validate(); !ok {
		return nil, apperror.Validation(errs)
	}
	profile, err := u.profileRepo.AddEducation(ctx, userID, in.ToEducation(primitive.NewObjectID()))
	return u.mutate(ctx, profile, err)
}

func (u *profileUsecase) RemoveExperience(ctx context.Context, userID, expID string) (*domain.Profile, error) {
	profile, err := u.profileRepo.RemoveExperience(ctx, userID, expID)
	return u.mutate(ctx, profile, err)
}

func (u *profileUsecase) RemoveEducation(ctx context.Context, userID, eduID string) (*domain.Profile, error) {
	profile, err := u.profileRepo.RemoveEducation(ctx, userID, eduID)
	return u.mutate(ctx, profile, err)
}

// DeleteAccount removes the profile and the user concurrently and waits for
// both. A missing profile or user counts as already removed.
func (u *profileUsecase) DeleteAccount(ctx context.Context, userID string) error {
	var profileErr, userErr error
	var g errgroup.Group
	g.Go(func() error {
		profileErr = ignoreNotFound(u.profileRepo.DeleteByUserID(ctx, userID))
		return profileErr
	})
	g.Go(func() error {
		userErr = ignoreNotFound(u.userRepo.Delete(ctx, userID))
		return userErr
	})
	if err := g.Wait(); err == nil {
		u.log.Info("account deleted", zap.String("user_id", userID))
		return nil
	}

	switch {
	case profileErr != nil && userErr != nil:
		u.log.Error("account deletion failed", errors.Join(profileErr, userErr), zap.String("user_id", userID))
		return apperror.Internal(errors.Join(profileErr, userErr))
	case profileErr != nil:
		u.log.Error("account deletion partial: user removed, profile kept", profileErr, zap.String("user_id", userID))
		return apperror.Internal(profileErr)
	default:
		u.log.Error("account deletion partial: profile removed, user kept", userErr, zap.String("user_id", userID))
		return apperror.Internal(userErr)
	}
}

// lookup runs find and resolves the owning user of the result.
func (u *profileUsecase) lookup(ctx context.Context, find func() (*domain.Profile, error)) (*domain.Profile, error) {
	profile, err := find()
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NoProfile(msgNoProfileForUser)
		}
		return nil, apperror.Internal(err)
	}
	return u.withUser(ctx, profile)
}

func (u *profileUsecase) mutate(ctx context.Context, profile *domain.Profile, err error) (*domain.Profile, error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, apperror.NoProfile(msgNoProfileForUser)
		}
		return nil, apperror.Internal(err)
	}
	return u.withUser(ctx, profile)
}

// withUser resolves the owning user of a stored profile.
func (u *profileUsecase) withUser(ctx context.Context, profile *domain.Profile) (*domain.Profile, error) {
	profiles := []domain.Profile{*profile}
	if err := u.attachUsers(ctx, profiles); err != nil {
		return nil, apperror.Internal(err)
	}
	return &profiles[0], nil
}

// attachUsers fills Profile.User with one batched user query. Profiles whose
// user no longer exists keep only the id.
func (u *profileUsecase) attachUsers(ctx context.Context, profiles []domain.Profile) error {
	ids := make([]string, 0, len(profiles))
	seen := make(map[string]bool, len(profiles))
	for _, p := range profiles {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	users, err := u.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[string]domain.User, len(users))
	for _, usr := range users {
		byID[usr.ID] = usr
	}

	for i := range profiles {
		ref := &domain.ProfileUser{ID: profiles[i].UserID}
		if usr, ok := byID[profiles[i].UserID]; ok {
			ref.Name, ref.Avatar, ref.Email = usr.Name, usr.Avatar, usr.Email
		}
		profiles[i].User = ref
	}
	return nil
}

func ignoreNotFound(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	return err
}
