package service

import (
	"errors"
	"time"

	"github.com/chopie/restaurant/internal/models"
	"github.com/golang-jwt/jwt/v4"
)

// TokenService issues and verifies staff tokens
type TokenService interface {
	CreateToken(user *models.StaffUser) (string, error)
	VerifyToken(tokenString string) (*models.TokenPayload, error)
}

type tokenClaims struct {
	jwt.RegisteredClaims
	UserID uint64 `json:"uid"`
	Name   string `json:"name"`
	Role   string `json:"role"`
}

// AuthToken implements TokenService with HS256 signed JWT
type AuthToken struct {
	key []byte
	ttl time.Duration
}

// NewAuthToken creates new AuthToken instance
func NewAuthToken(key []byte, ttl time.Duration) *AuthToken {
	return &AuthToken{key: key, ttl: ttl}
}

// CreateToken issues token carrying staff id, display name and role
func (at *AuthToken) CreateToken(user *models.StaffUser) (string, error) {
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(at.ttl)),
		},
		UserID: user.ID,
		Name:   user.Name,
		Role:   user.Role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(at.key)
}

// VerifyToken parses and validates token, returning its payload
func (at *AuthToken) VerifyToken(tokenString string) (*models.TokenPayload, error) {
	claims := tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return at.key, nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return &models.TokenPayload{
		UserID: claims.UserID,
		Name:   claims.Name,
		Role:   claims.Role,
	}, nil
}
