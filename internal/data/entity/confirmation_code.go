package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConfirmationCode stores the bcrypt hash of a code sent at signup.
type ConfirmationCode struct {
	BaseSimple
	UserID    uuid.UUID  `db:"user_id"`
	CodeHash  string     `db:"code_hash"`
	ExpiresAt time.Time  `db:"expires_at"`
	UsedAt    *time.Time `db:"used_at"`
}
