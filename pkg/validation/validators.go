package validation

import (
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// Regex patterns
var (
	// Public profile handles end up in URLs: letters, digits, dash, underscore, dot
	handleRegex = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

	// GitHub logins: alphanumerics and single inner hyphens
	githubRegex = regexp.MustCompile(`^[A-Za-z0-9](?:[A-Za-z0-9]|-[A-Za-z0-9])*$`)
)

// DateLayouts lists the accepted formats for date fields, most specific last.
var DateLayouts = []string{"2006-01-02", time.RFC3339}

var (
	defaultValidate *validator.Validate
	defaultOnce     sync.Once
)

// New returns a validator that reports fields by their json name and knows
// the custom tags below.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	RegisterValidators(v)
	return v
}

// Default is shared by every caller; validator.Validate is safe for concurrent use.
func Default() *validator.Validate {
	defaultOnce.Do(func() {
		defaultValidate = New()
	})
	return defaultValidate
}

// RegisterValidators registers custom validators to the validator instance
func RegisterValidators(v *validator.Validate) {
	_ = v.RegisterValidation("handle", ValidHandle)
	_ = v.RegisterValidation("github_username", ValidGithubUsername)
	_ = v.RegisterValidation("no_emoji", NoEmoji)
	_ = v.RegisterValidation("date", ValidDate)
}

// ValidHandle validates a public profile handle
func ValidHandle(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true // Optional, use required if needed
	}
	return handleRegex.MatchString(val)
}

func ValidGithubUsername(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	return githubRegex.MatchString(val)
}

// NoEmoji validates that a string does not contain emoji characters
func NoEmoji(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	for _, r := range val {
		// Supplementary planes are mostly emoji/symbols
		if r > 0x1F000 {
			return false
		}
		if unicode.In(r, unicode.So, unicode.Sk) {
			return false
		}
	}
	return true
}

// ValidDate accepts an empty string or any layout in DateLayouts.
func ValidDate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := ParseDate(val)
	return err == nil
}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
