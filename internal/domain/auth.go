package domain

import (
	"encoding/json"
	"time"
)

// Role differentiates administrators from end users.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Valid reports whether the role is one the console knows how to route.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// UserProfile is the identity record returned by the login endpoint. Its role
// does not change for the lifetime of a session.
type UserProfile struct {
	ID        string    `json:"user_id"`
	FullName  string    `json:"fullname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// UnmarshalJSON accepts both identity spellings the backend emits.
func (p *UserProfile) UnmarshalJSON(data []byte) error {
	type profileAlias UserProfile
	var raw struct {
		profileAlias
		MongoID  string `json:"_id"`
		ID       string `json:"id"`
		FullName string `json:"fullName"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = UserProfile(raw.profileAlias)
	if p.ID == "" {
		p.ID = firstNonEmpty(raw.MongoID, raw.ID)
	}
	if p.FullName == "" {
		p.FullName = raw.FullName
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
