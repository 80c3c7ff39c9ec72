package entity

import (
	"time"
)

// User is the aggregate root for the user domain.
// Password holds the bcrypt hash; handlers never serialize it.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
