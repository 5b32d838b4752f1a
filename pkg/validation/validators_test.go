package validation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Handle string `json:"handle" validate:"omitempty,handle"`
	Github string `json:"githubusername" validate:"omitempty,github_username"`
	Name   string `json:"name" validate:"required,no_emoji"`
	From   string `json:"from" validate:"required,date"`
}

func TestStruct(t *testing.T) {
	assert.Nil(t, Struct(sample{Name: "Jo", From: "2020-01-02"}))

	errs := Struct(sample{Handle: "a b", Github: "-x", Name: "Jo 🚀", From: "02/01/2020"})
	require.Len(t, errs, 4)
	assert.Equal(t, "Profile handle may only contain letters, numbers, '.', '-' and '_'", errs["handle"])
	assert.Equal(t, "GitHub username is not a valid GitHub login", errs["githubusername"])
	assert.Equal(t, "Name must not contain emoji or special symbols", errs["name"])
	assert.Equal(t, "From date must be a date (YYYY-MM-DD)", errs["from"])

	errs = Struct(sample{})
	assert.Equal(t, "Name field is required", errs["name"])
	assert.Equal(t, "From date field is required", errs["from"])
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2021-06-30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 6, 30, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2021-06-30T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, 8, d.Hour())
	assert.Equal(t, time.UTC, d.Location())

	_, err = ParseDate("yesterday")
	assert.Error(t, err)
}

func TestLabelFallsBackToField(t *testing.T) {
	assert.Equal(t, "Field of study", Label("fieldofstudy"))
	assert.Equal(t, "unknown", Label("unknown"))
}
