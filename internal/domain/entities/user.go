package entities

import (
	"time"
)

// User represents a registered patient account
type User struct {
	ID        string    `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"full_name" db:"full_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Reminder represents a scheduled reminder belonging to a user
type Reminder struct {
	ID           string    `json:"id" db:"id"`
	UserID       string    `json:"user_id" db:"user_id"`
	Title        string    `json:"title" db:"title"`
	ScheduledFor time.Time `json:"scheduled_for" db:"scheduled_for"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
