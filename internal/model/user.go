package model

import "time"

// User is an admin account. Only the auth subsystem creates or mutates
// users; the rest of the application treats them as read-only subjects of
// issued tokens. The password hash never appears in JSON output.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	HashedPassword string    `json:"-"`
	IsActive       bool      `json:"is_active"`
	IsSuperuser    bool      `json:"is_superuser"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
