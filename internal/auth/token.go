package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk/internal/domain"
)

var (
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
	errWrongTokenType          = errors.New("wrong token type")
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenManager builds a new manager.
func NewTokenManager(secret string, accessTTL, refreshTTL time.Duration) *TokenManager {
	if accessTTL <= 0 {
		accessTTL = 5 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	return &TokenManager{secret: []byte(secret), accessTTL: accessTTL, refreshTTL: refreshTTL}
}

// Claims describes JWT payload. The identity claims are echoed so clients can
// render role-specific views without another round trip.
type Claims struct {
	UserID    string           `json:"user_id"`
	Username  string           `json:"username"`
	Email     string           `json:"email"`
	IsAgent   bool             `json:"is_agent"`
	TokenType domain.TokenType `json:"token_type"`
	jwt.RegisteredClaims
}

// RefreshTTL reports the lifetime of issued refresh tokens.
func (tm *TokenManager) RefreshTTL() time.Duration {
	return tm.refreshTTL
}

// IssuePair signs an access and a refresh token for the user.
func (tm *TokenManager) IssuePair(user *domain.User, profile *domain.UserProfile) (domain.TokenPair, error) {
	now := time.Now()
	isAgent := profile.IsAgent()

	access, accessExp, err := tm.sign(user, isAgent, domain.TokenTypeAccess, uuid.NewString(), now, tm.accessTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	refreshID := uuid.NewString()
	refresh, refreshExp, err := tm.sign(user, isAgent, domain.TokenTypeRefresh, refreshID, now, tm.refreshTTL)
	if err != nil {
		return domain.TokenPair{}, err
	}
	return domain.TokenPair{
		Access:           access,
		AccessExpiresAt:  accessExp,
		Refresh:          refresh,
		RefreshID:        refreshID,
		RefreshExpiresAt: refreshExp,
	}, nil
}

func (tm *TokenManager) sign(user *domain.User, isAgent bool, tokenType domain.TokenType, id string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	expiresAt := now.Add(ttl)
	claims := &Claims{
		UserID:    user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsAgent:   isAgent,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        id,
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseToken validates signature, expiry and token type and returns claims.
func (tm *TokenManager) ParseToken(tokenStr string, expected domain.TokenType) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errUnexpectedSigningMethod
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	if claims.TokenType != expected {
		return nil, errWrongTokenType
	}
	return claims, nil
}
