package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/heartlinkapp/heartlink/internal/apperr"
	"github.com/heartlinkapp/heartlink/internal/models"
	"github.com/heartlinkapp/heartlink/internal/repository"
)

const bcryptCost = 12

// invalidCredentials is shared by unknown-email and wrong-password failures so
// responses cannot be used for account enumeration.
const invalidCredentials = "Invalid credentials"

type Credentials struct {
	UserID string
	Token  string
}

type tokenClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type AuthService struct {
	users    repository.UserRepository
	secret   []byte
	tokenTTL time.Duration
	log      *zap.SugaredLogger
}

func NewAuthService(users repository.UserRepository, secret string, tokenTTL time.Duration, log *zap.SugaredLogger) *AuthService {
	return &AuthService{users: users, secret: []byte(secret), tokenTTL: tokenTTL, log: log}
}

func (s *AuthService) Register(ctx context.Context, email, password string) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Please provide both email and password")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, apperr.Internal("hash password", err)
	}

	u := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		Likes:        []string{},
		Matches:      []string{},
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperr.Conflict("Email already registered")
		}
		return nil, apperr.Internal("create user", err)
	}

	token, err := s.issueToken(u.ID.Hex())
	if err != nil {
		return nil, apperr.Internal("sign token", err)
	}
	s.log.Infow("user registered", "user_id", u.ID.Hex())
	return &Credentials{UserID: u.ID.Hex(), Token: token}, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*Credentials, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, apperr.Validation("Please provide both email and password")
	}

	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Auth(invalidCredentials)
		}
		return nil, apperr.Internal("find user", err)
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, apperr.Auth(invalidCredentials)
	}

	token, err := s.issueToken(u.ID.Hex())
	if err != nil {
		return nil, apperr.Internal("sign token", err)
	}
	return &Credentials{UserID: u.ID.Hex(), Token: token}, nil
}

// Verify parses and validates a bearer token and returns the embedded user id.
func (s *AuthService) Verify(tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", apperr.Auth("missing token")
	}
	token, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return "", apperr.Auth("invalid token")
	}
	claims, ok := token.Claims.(*tokenClaims)
	if !ok || claims.UserID == "" {
		return "", apperr.Auth("invalid token")
	}
	return claims.UserID, nil
}

func (s *AuthService) issueToken(userID string) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}
