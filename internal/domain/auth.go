package domain

import "time"

// TokenType differentiates access vs refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// TokenPair is the credential issued on registration, login and refresh.
type TokenPair struct {
	Access           string
	AccessExpiresAt  time.Time
	Refresh          string
	RefreshID        string
	RefreshExpiresAt time.Time
}

// Session is the result of a successful authentication: the user, its role and fresh tokens.
type Session struct {
	User    *User
	Profile *UserProfile
	Tokens  TokenPair
}
