package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const (
	TokenTypeAccess  = "ACCESS"
	TokenTypeRefresh = "REFRESH"
)

// AccessToken is the signed credential together with its expiry.
type AccessToken struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthTokens struct {
	Access AccessToken `json:"access"`
}

// TokenService signs and validates HS256 JWTs. It keeps no state beyond the
// signing key.
type TokenService struct {
	secretKey []byte
	accessTTL time.Duration
	now       func() time.Time
}

// NewTokenService creates a TokenService. An empty secret is rejected.
func NewTokenService(secret string, accessTTL time.Duration) (*TokenService, error) {
	if secret == "" {
		return nil, errors.New("JWT secret not configured")
	}
	return &TokenService{secretKey: []byte(secret), accessTTL: accessTTL, now: time.Now}, nil
}

// GenerateToken signs a token for userID that expires at the given unix time.
func (s *TokenService) GenerateToken(userID string, expires int64, tokenType string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID,
		"type": tokenType,
		"exp":  expires,
		"iat":  s.now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secretKey)
}

// GenerateAuthTokens issues the access token returned by login and register.
func (s *TokenService) GenerateAuthTokens(userID string) (*AuthTokens, error) {
	expires := s.now().Add(s.accessTTL).Unix()
	token, err := s.GenerateToken(userID, expires, TokenTypeAccess)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	return &AuthTokens{Access: AccessToken{Token: token, Expires: time.Unix(expires, 0).UTC()}}, nil
}

// ValidateToken parses tokenStr and returns its subject. If expectedType is
// non-empty, the "type" claim must match it.
func (s *TokenService) ValidateToken(tokenStr, expectedType string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	})
	if err != nil || token == nil || !token.Valid {
		return "", fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid token claims")
	}
	if expectedType != "" {
		if typ, ok := claims["type"].(string); !ok || typ != expectedType {
			return "", fmt.Errorf("invalid token type")
		}
	}
	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return "", fmt.Errorf("token has no subject")
	}
	return sub, nil
}
