// Package memory holds mutex-guarded in-process repositories used when
// STORAGE_DRIVER=memory and by the handler tests.
package memory

import (
	"context"
	"sync"
	"time"

	"go-profile-backend/internal/domain"
)

type profileRepository struct {
	mu     sync.RWMutex
	byUser map[string]*domain.Profile
	order  []string
	now    func() time.Time
}

func NewProfileRepository() domain.ProfileRepository {
	return &profileRepository{
		byUser: make(map[string]*domain.Profile),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (r *profileRepository) GetByUserID(_ context.Context, userID string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *profileRepository) GetByHandle(_ context.Context, handle string) (*domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if p := r.findHandle(handle); p != nil {
		return p.Clone(), nil
	}
	return nil, domain.ErrNotFound
}

func (r *profileRepository) List(_ context.Context) ([]domain.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	profiles := make([]domain.Profile, 0, len(r.order))
	for _, userID := range r.order {
		profiles = append(profiles, *r.byUser[userID].Clone())
	}
	return profiles, nil
}

func (r *profileRepository) Upsert(_ context.Context, f domain.ProfileFields) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if f.Handle != nil {
		if other := r.findHandle(*f.Handle); other != nil && other.UserID != f.UserID {
			return nil, domain.ErrDuplicateHandle
		}
	}

	now := r.now()
	p, ok := r.byUser[f.UserID]
	if !ok {
		p = domain.NewProfile(f.UserID, now)
		r.byUser[f.UserID] = p
		r.order = append(r.order, f.UserID)
	}
	p.Apply(f)
	p.UpdatedAt = now
	return p.Clone(), nil
}

func (r *profileRepository) AddExperience(_ context.Context, userID string, exp domain.Experience) (*domain.Profile, error) {
	return r.mutate(userID, func(p *domain.Profile) { p.AddExperience(exp) })
}

func (r *profileRepository) RemoveExperience(_ context.Context, userID, expID string) (*domain.Profile, error) {
	return r.mutate(userID, func(p *domain.Profile) { p.RemoveExperience(expID) })
}

func (r *profileRepository) AddEducation(_ context.Context, userID string, edu domain.Education) (*domain.Profile, error) {
	return r.mutate(userID, func(p *domain.Profile) { p.AddEducation(edu) })
}

func (r *profileRepository) RemoveEducation(_ context.Context, userID, eduID string) (*domain.Profile, error) {
	return r.mutate(userID, func(p *domain.Profile) { p.RemoveEducation(eduID) })
}

func (r *profileRepository) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byUser[userID]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byUser, userID)
	for i, id := range r.order {
		if id == userID {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// mutate applies fn under the write lock, so concurrent adds never lose entries.
func (r *profileRepository) mutate(userID string, fn func(*domain.Profile)) (*domain.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	fn(p)
	p.UpdatedAt = r.now()
	return p.Clone(), nil
}

func (r *profileRepository) findHandle(handle string) *domain.Profile {
	for _, p := range r.byUser {
		if p.Handle != "" && p.Handle == handle {
			return p
		}
	}
	return nil
}
