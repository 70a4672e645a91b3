package domain

import "time"

// TokenClaims is the decoded content of a verified access token.
type TokenClaims struct {
	SubjectID int64
	Role      Role
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// AuthResult is returned by registration and login.
type AuthResult struct {
	Identity  *Identity
	Token     string
	ExpiresAt time.Time
}
