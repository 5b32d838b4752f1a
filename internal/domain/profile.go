package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the public professional profile of a user. There is at most one per user.
type Profile struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	UserID         string             `json:"-" bson:"user"`
	User           *ProfileUser       `json:"user" bson:"-"`
	Handle         string             `json:"handle,omitempty" bson:"handle,omitempty"`
	Company        string             `json:"company,omitempty" bson:"company,omitempty"`
	Website        string             `json:"website,omitempty" bson:"website,omitempty"`
	Location       string             `json:"location,omitempty" bson:"location,omitempty"`
	Bio            string             `json:"bio,omitempty" bson:"bio,omitempty"`
	Status         string             `json:"status" bson:"status"`
	GithubUsername string             `json:"githubusername,omitempty" bson:"githubusername,omitempty"`
	Skills         []string           `json:"skills" bson:"skills"`
	Social         SocialLinks        `json:"social" bson:"social"`
	// Experience and Education are ordered most recent first
	Experience []Experience `json:"experience" bson:"experience"`
	Education  []Education  `json:"education" bson:"education"`
	CreatedAt  time.Time    `json:"created_at" bson:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at" bson:"updated_at"`
}

// ProfileUser is the slice of the owning User exposed alongside a profile.
type ProfileUser struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Email  string `json:"email"`
}

type SocialLinks struct {
	YouTube   string `json:"youtube,omitempty" bson:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty" bson:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty" bson:"facebook,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" bson:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty" bson:"instagram,omitempty"`
}

type Experience struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	Title       string             `json:"title" bson:"title"`
	Company     string             `json:"company" bson:"company"`
	Location    string             `json:"location,omitempty" bson:"location,omitempty"`
	From        time.Time          `json:"from" bson:"from"`
	To          *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current     bool               `json:"current" bson:"current"`
	Description string             `json:"description,omitempty" bson:"description,omitempty"`
}

type Education struct {
	ID           primitive.ObjectID `json:"id" bson:"_id"`
	School       string             `json:"school" bson:"school"`
	Degree       string             `json:"degree" bson:"degree"`
	FieldOfStudy string             `json:"fieldofstudy" bson:"fieldofstudy"`
	From         time.Time          `json:"from" bson:"from"`
	To           *time.Time         `json:"to,omitempty" bson:"to,omitempty"`
	Current      bool               `json:"current" bson:"current"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
}

// NewProfile returns the defaults a profile is created with on first upsert.
func NewProfile(userID string, now time.Time) *Profile {
	return &Profile{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Skills:     []string{},
		Experience: []Experience{},
		Education:  []Education{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Apply merges the present fields of f into p. Social is always replaced.
func (p *Profile) Apply(f ProfileFields) {
	setIfPresent(&p.Handle, f.Handle)
	setIfPresent(&p.Company, f.Company)
	setIfPresent(&p.Website, f.Website)
	setIfPresent(&p.Location, f.Location)
	setIfPresent(&p.Bio, f.Bio)
	setIfPresent(&p.Status, f.Status)
	setIfPresent(&p.GithubUsername, f.GithubUsername)
	if f.Skills != nil {
		p.Skills = append([]string(nil), f.Skills...)
	}
	p.Social = f.Social
}

// AddExperience inserts e at the front of the experience list.
func (p *Profile) AddExperience(e Experience) {
	p.Experience = prepend(p.Experience, e)
}

// RemoveExperience drops the entry with the given id. Unknown ids are a no-op.
func (p *Profile) RemoveExperience(id string) {
	p.Experience = removeWhere(p.Experience, func(e Experience) bool { return e.ID.Hex() == id })
}

func (p *Profile) AddEducation(e Education) {
	p.Education = prepend(p.Education, e)
}

func (p *Profile) RemoveEducation(id string) {
	p.Education = removeWhere(p.Education, func(e Education) bool { return e.ID.Hex() == id })
}

// Clone returns a deep copy so callers can't alias stored slices.
func (p *Profile) Clone() *Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = append([]Experience{}, p.Experience...)
	c.Education = append([]Education{}, p.Education...)
	if p.User != nil {
		u := *p.User
		c.User = &u
	}
	return &c
}

func prepend[T any](s []T, v T) []T {
	out := make([]T, 0, len(s)+1)
	out = append(out, v)
	return append(out, s...)
}

func removeWhere[T any](s []T, match func(T) bool) []T {
	out := make([]T, 0, len(s))
	for _, v := range s {
		if !match(v) {
			out = append(out, v)
		}
	}
	return out
}

func setIfPresent(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByHandle(ctx context.Context, handle string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	// Upsert creates the profile with defaults or updates only the present fields.
	Upsert(ctx context.Context, fields ProfileFields) (*Profile, error)
	AddExperience(ctx context.Context, userID string, exp Experience) (*Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*Profile, error)
	AddEducation(ctx context.Context, userID string, edu Education) (*Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*Profile, error)
	DeleteByUserID(ctx context.Context, userID string) error
}

type ProfileUsecase interface {
	GetMine(ctx context.Context, userID string) (*Profile, error)
	GetByHandle(ctx context.Context, handle string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Upsert(ctx context.Context, userID string, in ProfileInput) (*Profile, error)
	AddExperience(ctx context.Context, userID string, in ExperienceInput) (*Profile, error)
	AddEducation(ctx context.Context, userID string, in EducationInput) (*Profile, error)
	RemoveExperience(ctx context.Context, userID, expID string) (*Profile, error)
	RemoveEducation(ctx context.Context, userID, eduID string) (*Profile, error)
	// DeleteAccount removes the profile and the user. The two removals are not atomic.
	DeleteAccount(ctx context.Context, userID string) error
}
