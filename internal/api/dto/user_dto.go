package dto

import "github.com/spec-kit/ticket-console/internal/domain"

// UserLoginRequest payload for login.
type UserLoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// UserSignupRequest payload for new accounts.
type UserSignupRequest struct {
	FullName string `json:"fullname" form:"fullname"`
	Username string `json:"username" form:"username"`
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
	Phone    string `json:"phone" form:"phone"`
	Address  string `json:"address" form:"address"`
}

// AuthResponse is returned by login and sign-up.
type AuthResponse struct {
	Token string             `json:"token"`
	User  domain.UserProfile `json:"user"`
}
