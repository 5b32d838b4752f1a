package domain

import (
	"strings"
	"time"

	"go-profile-backend/pkg/validation"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProfileStatus is the professional status shown on a profile
type ProfileStatus string

const (
	StatusDeveloper       ProfileStatus = "Developer"
	StatusJuniorDeveloper ProfileStatus = "Junior Developer"
	StatusSeniorDeveloper ProfileStatus = "Senior Developer"
	StatusManager         ProfileStatus = "Manager"
	StatusStudent         ProfileStatus = "Student"
	StatusLearning        ProfileStatus = "Student or Learning"
	StatusInstructor      ProfileStatus = "Instructor or Teacher"
	StatusIntern          ProfileStatus = "Intern"
	StatusOther           ProfileStatus = "Other"
)

// ValidStatuses returns all accepted statuses
func ValidStatuses() []ProfileStatus {
	return []ProfileStatus{
		StatusDeveloper, StatusJuniorDeveloper, StatusSeniorDeveloper, StatusManager,
		StatusStudent, StatusLearning, StatusInstructor, StatusIntern, StatusOther,
	}
}

// IsValid checks if the status is one of ValidStatuses
func (s ProfileStatus) IsValid() bool {
	for _, valid := range ValidStatuses() {
		if s == valid {
			return true
		}
	}
	return false
}

// ProfileInput is the flat create/edit payload. An empty string means "not supplied".
type ProfileInput struct {
	Handle         string `json:"handle" validate:"omitempty,min=2,max=40,handle"`
	Company        string `json:"company" validate:"max=100"`
	Website        string `json:"website" validate:"omitempty,url,max=200"`
	Location       string `json:"location" validate:"max=100"`
	Bio            string `json:"bio" validate:"max=1000"`
	Status         string `json:"status" validate:"required,max=50"`
	GithubUsername string `json:"githubusername" validate:"omitempty,max=39,github_username"`
	// Skills is a comma separated list, e.g. "go,sql,docker"
	Skills    string `json:"skills" validate:"max=500"`
	YouTube   string `json:"youtube" validate:"omitempty,url,max=200"`
	Twitter   string `json:"twitter" validate:"omitempty,url,max=200"`
	Facebook  string `json:"facebook" validate:"omitempty,url,max=200"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url,max=200"`
	Instagram string `json:"instagram" validate:"omitempty,url,max=200"`
}

func (in ProfileInput) Normalize() ProfileInput {
	for _, f := range []*string{
		&in.Handle, &in.Company, &in.Website, &in.Location, &in.Bio, &in.Status,
		&in.GithubUsername, &in.Skills, &in.YouTube, &in.Twitter, &in.Facebook,
		&in.LinkedIn, &in.Instagram,
	} {
		*f = strings.TrimSpace(*f)
	}
	return in
}

func (in ProfileInput) Validate() (map[string]string, bool) {
	in = in.Normalize()
	errs, _ := check(in)
	if _, bad := errs["status"]; !bad && !ProfileStatus(in.Status).IsValid() {
		errs["status"] = "Status must be one of the listed options"
	}
	return errs, len(errs) == 0
}

// ProfileFields is a partial update. A nil pointer leaves the stored value
// unchanged; Social is always written, so a payload without social links
// clears the stored ones.
type ProfileFields struct {
	UserID         string
	Handle         *string
	Company        *string
	Website        *string
	Location       *string
	Bio            *string
	Status         *string
	GithubUsername *string
	Skills         []string // nil = leave unchanged
	Social         SocialLinks
}

// BuildProfileFields keeps only the fields present in the payload.
func BuildProfileFields(userID string, in ProfileInput) ProfileFields {
	in = in.Normalize()
	f := ProfileFields{
		UserID:         userID,
		Handle:         optional(in.Handle),
		Company:        optional(in.Company),
		Website:        optional(in.Website),
		Location:       optional(in.Location),
		Bio:            optional(in.Bio),
		Status:         optional(in.Status),
		GithubUsername: optional(in.GithubUsername),
		Social: SocialLinks{
			YouTube:   in.YouTube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			LinkedIn:  in.LinkedIn,
			Instagram: in.Instagram,
		},
	}
	if in.Skills != "" {
		f.Skills = SplitSkills(in.Skills)
	}
	return f
}

// SplitSkills splits a comma separated list, trimming each token and dropping empty ones.
func SplitSkills(raw string) []string {
	parts := strings.Split(raw, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			skills = append(skills, s)
		}
	}
	return skills
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type ExperienceInput struct {
	Title       string `json:"title" validate:"required,max=100"`
	Company     string `json:"company" validate:"required,max=100"`
	Location    string `json:"location" validate:"max=100"`
	From        string `json:"from" validate:"required,date"`
	To          string `json:"to" validate:"omitempty,date"`
	Current     bool   `json:"current"`
	Description string `json:"description" validate:"max=2000"`
}

func (in ExperienceInput) Normalize() ExperienceInput {
	in.Title = strings.TrimSpace(in.Title)
	in.Company = strings.TrimSpace(in.Company)
	in.Location = strings.TrimSpace(in.Location)
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in ExperienceInput) Validate() (map[string]string, bool) {
	in = in.Normalize()
	errs, _ := check(in)
	checkRange(errs, in.From, in.To)
	return errs, len(errs) == 0
}

// ToExperience builds the stored entry. The input must be valid.
func (in ExperienceInput) ToExperience(id primitive.ObjectID) Experience {
	in = in.Normalize()
	from, to := parseRange(in.From, in.To)
	return Experience{
		ID:          id,
		Title:       in.Title,
		Company:     in.Company,
		Location:    in.Location,
		From:        from,
		To:          to,
		Current:     in.Current,
		Description: in.Description,
	}
}

type EducationInput struct {
	School       string `json:"school" validate:"required,max=100"`
	Degree       string `json:"degree" validate:"required,max=100"`
	FieldOfStudy string `json:"fieldofstudy" validate:"required,max=100"`
	From         string `json:"from" validate:"required,date"`
	To           string `json:"to" validate:"omitempty,date"`
	Current      bool   `json:"current"`
	Description  string `json:"description" validate:"max=2000"`
}

func (in EducationInput) Normalize() EducationInput {
	in.School = strings.TrimSpace(in.School)
	in.Degree = strings.TrimSpace(in.Degree)
	in.FieldOfStudy = strings.TrimSpace(in.FieldOfStudy)
	in.From = strings.TrimSpace(in.From)
	in.To = strings.TrimSpace(in.To)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

func (in EducationInput) Validate() (map[string]string, bool) {
	in = in.Normalize()
	errs, _ := check(in)
	checkRange(errs, in.From, in.To)
	return errs, len(errs) == 0
}

func (in EducationInput) ToEducation(id primitive.ObjectID) Education {
	in = in.Normalize()
	from, to := parseRange(in.From, in.To)
	return Education{
		ID:           id,
		School:       in.School,
		Degree:       in.Degree,
		FieldOfStudy: in.FieldOfStudy,
		From:         from,
		To:           to,
		Current:      in.Current,
		Description:  in.Description,
	}
}

// checkRange flags a "to" date earlier than "from" when both parsed.
func checkRange(errs map[string]string, from, to string) {
	if _, bad := errs["from"]; bad {
		return
	}
	if _, bad := errs["to"]; bad || to == "" {
		return
	}
	f, t := parseRange(from, to)
	if t != nil && t.Before(f) {
		errs["to"] = "To date cannot be before the from date"
	}
}

func parseRange(from, to string) (time.Time, *time.Time) {
	f, _ := validation.ParseDate(from)
	if to == "" {
		return f, nil
	}
	t, err := validation.ParseDate(to)
	if err != nil {
		return f, nil
	}
	return f, &t
}
