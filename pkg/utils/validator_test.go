package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type signupForm struct {
	Username string `json:"username" validate:"required,max=150,username"`
	Email    string `json:"email" validate:"required,max=254,email"`
}

type titleForm struct {
	Name string   `json:"name" validate:"required,max=256"`
	Year int      `json:"year" validate:"required,notfuture"`
	Slug string   `json:"slug" validate:"omitempty,slug"`
	Tags []string `json:"tags" validate:"dive,slug"`
}

func TestIsValidUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"alice", true},
		{"alice.smith+tag@host-1_x", true},
		{"me", false},
		{"ME", false},
		{"meme", true},
		{"has space", false},
		{"semi;colon", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidUsername(tt.username))
		})
	}
}

func TestIsValidYear(t *testing.T) {
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = orig })

	assert.True(t, IsValidYear(2024))
	assert.True(t, IsValidYear(1895))
	assert.False(t, IsValidYear(2025))
}

func TestValidateStructUsesJSONNames(t *testing.T) {
	errs := ValidateStruct(signupForm{Username: "me", Email: "not-an-email"})

	assert.Len(t, errs, 2)
	assert.Contains(t, errs, "username")
	assert.Equal(t, "Invalid email format", errs["email"])
}

func TestValidateStructValid(t *testing.T) {
	assert.Nil(t, ValidateStruct(signupForm{Username: "bob", Email: "bob@example.com"}))
}

func TestValidateStructMessages(t *testing.T) {
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { nowFunc = orig })

	errs := ValidateStruct(titleForm{
		Name: "",
		Year: 2030,
		Slug: "bad slug",
		Tags: []string{"ok", "not ok"},
	})

	assert.Equal(t, "This field is required", errs["name"])
	assert.Equal(t, "Year cannot be greater than 2024", errs["year"])
	assert.Contains(t, errs["slug"], "Slug may contain")
	assert.Contains(t, errs, "tags[1]")
	assert.NotContains(t, errs, "tags[0]")
}

func TestMaxMessageDependsOnKind(t *testing.T) {
	type form struct {
		Text  string `json:"text" validate:"max=3"`
		Score int    `json:"score" validate:"max=10"`
	}

	errs := ValidateStruct(form{Text: "toolong", Score: 11})

	assert.Equal(t, "Maximum length is 3", errs["text"])
	assert.Equal(t, "Maximum value is 10", errs["score"])
}

func TestFormatValidationErrorsIsSorted(t *testing.T) {
	got := FormatValidationErrors(map[string]string{
		"year": "bad",
		"name": "missing",
	})

	assert.Equal(t, "name: missing; year: bad", got)
}
