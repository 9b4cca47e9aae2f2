package model

import (
	"time"

	"github.com/google/uuid"
)

// User is the single account record. PasswordHash never leaves the
// service boundary; handlers build their own response views.
type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	Name         string    `db:"name"`
	Phone        *string   `db:"phone"`
	Bio          *string   `db:"bio"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
