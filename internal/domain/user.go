package domain

import "time"

// User is a backend account as listed on the admin dashboard.
type User struct {
	ID        string    `json:"_id"`
	FullName  string    `json:"fullname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}
