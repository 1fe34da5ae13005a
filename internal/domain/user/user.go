package user

import (
	"context"
	"time"
)

// User is the slim directory record the billing engine resolves webhook
// events against. Account management lives elsewhere; this service only
// reads users.
type User struct {
	ID        uint
	SID       string
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Repository reads the user directory.
type Repository interface {
	GetByID(ctx context.Context, id uint) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
