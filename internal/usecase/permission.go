package usecase

import (
	"yamdb/internal/data/entity"
	"yamdb/pkg/utils"

	"github.com/google/uuid"
)

func IsAdmin(role string) bool {
	return role == string(entity.RoleAdmin)
}

// IsStaff reports whether role may moderate other users' content.
func IsStaff(role string) bool {
	return role == string(entity.RoleAdmin) || role == string(entity.RoleModerator)
}

// CanModify reports whether actor may edit or delete content written by authorID.
func CanModify(actor utils.Actor, authorID uuid.UUID) bool {
	if actor.UserID == uuid.Nil {
		return false
	}
	return IsStaff(actor.Role) || actor.UserID == authorID
}
