package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

// CredentialInfo is the result of inspecting a bearer credential. OK is false
// when the credential is not a JWT or carries no readable expiry.
type CredentialInfo struct {
	OK     bool
	Expiry time.Time
}

// Expired reports whether the credential must be treated as unusable at now.
// Unreadable credentials count as expired.
func (i CredentialInfo) Expired(now time.Time) bool {
	return !i.OK || !i.Expiry.After(now)
}

// ParseCredential reads the expiry of a JWT bearer credential. The signature
// is not verified: only the backend holds the key, and the console uses the
// expiry solely to decide whether to send the visitor back to login.
func ParseCredential(token string) CredentialInfo {
	if token == "" {
		return CredentialInfo{}
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return CredentialInfo{}
	}
	if claims.ExpiresAt == nil {
		return CredentialInfo{}
	}
	return CredentialInfo{OK: true, Expiry: claims.ExpiresAt.Time}
}
