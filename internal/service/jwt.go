package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/Payphone-Digital/marketplace/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type JWTService struct {
	secretKey  string
	expiration time.Duration
	now        func() time.Time
}

func NewJWTService(secretKey string, expiration time.Duration) *JWTService {
	return &JWTService{
		secretKey:  secretKey,
		expiration: expiration,
		now:        time.Now,
	}
}

// TokenClaims is what an access token carries about its account
type TokenClaims struct {
	AccountID    uuid.UUID
	Email        string
	TokenVersion int
}

// GenerateToken creates a signed access token for the account
func (s *JWTService) GenerateToken(account *model.Account) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"account_id":    account.ID.String(),
		"email":         account.Email,
		"token_version": account.TokenVersion,
		"exp":           now.Add(s.expiration).Unix(),
		"iat":           now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenString, err := token.SignedString([]byte(s.secretKey))
	if err != nil {
		return "", err
	}
	return tokenString, nil
}

// ExpiresIn is the token lifetime in seconds
func (s *JWTService) ExpiresIn() int {
	return int(s.expiration.Seconds())
}

// ValidateToken validates the JWT token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return []byte(s.secretKey), nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}

	rawID, ok := claims["account_id"].(string)
	if !ok {
		return nil, errors.New("invalid account ID in token")
	}
	accountID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid account ID in token: %w", err)
	}

	version, ok := claims["token_version"].(float64)
	if !ok {
		return nil, errors.New("invalid token version format")
	}

	email, _ := claims["email"].(string)

	return &TokenClaims{
		AccountID:    accountID,
		Email:        email,
		TokenVersion: int(version),
	}, nil
}
