package domain

import "time"

// Domain entity: бизнес-объект (истина).
// Не зависит от Gin, Postgres, Redis.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Profile is the read view of a user exposed over the API.
type Profile struct {
	Name      string
	Email     string
	UpdatedAt time.Time
}

// Profile returns the public view of the user.
func (u User) Profile() Profile {
	return Profile{Name: u.Name, Email: u.Email, UpdatedAt: u.UpdatedAt}
}
