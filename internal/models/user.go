package models

import "time"

type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"username"`
	Nickname     string    `json:"nickname"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	ImageURL     *string   `json:"imageUrl"`
	CreatedAt    time.Time `json:"createdAt"`
}

// OwnerSummary is the slice of a user embedded in a job post detail response.
type OwnerSummary struct {
	ID       int     `json:"id"`
	Nickname string  `json:"nickname"`
	ImageURL *string `json:"imageUrl"`
}
