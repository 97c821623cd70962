package usecase

import (
	"testing"

	"yamdb/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanModify(t *testing.T) {
	author := uuid.New()

	assert.True(t, CanModify(utils.Actor{UserID: author, Role: "user"}, author))
	assert.False(t, CanModify(utils.Actor{UserID: uuid.New(), Role: "user"}, author))
	assert.True(t, CanModify(utils.Actor{UserID: uuid.New(), Role: "moderator"}, author))
	assert.True(t, CanModify(utils.Actor{UserID: uuid.New(), Role: "admin"}, author))
	assert.False(t, CanModify(utils.Actor{Role: "admin"}, author))
}

func TestRoles(t *testing.T) {
	assert.True(t, IsAdmin("admin"))
	assert.False(t, IsAdmin("moderator"))
	assert.True(t, IsStaff("moderator"))
	assert.False(t, IsStaff("user"))
	assert.False(t, IsStaff(""))
}

func TestValidationErrorMatchesInvalidInput(t *testing.T) {
	err := newValidationError("slug", "taken")

	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Equal(t, "validation failed: slug: taken", err.Error())
}
