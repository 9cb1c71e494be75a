package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/friendly-foods/backend/internal/models"
	"github.com/friendly-foods/backend/internal/store"
)

var (
	ErrEmailTaken         = errors.New("an account with that email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

const tokenLifetime = 30 * 24 * time.Hour

// TokenClaims are the JWT claims issued on registration and login.
type TokenClaims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

// AuthService handles registration, login and token validation against the
// users collection of the document store.
type AuthService struct {
	store     store.DocumentStore
	jwtSecret string
}

func NewAuthService(s store.DocumentStore, jwtSecret string) *AuthService {
	return &AuthService{store: s, jwtSecret: jwtSecret}
}

// Register creates a new account and returns a signed token plus the user.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	doc, err := s.store.Read(ctx)
	if err != nil {
		return "", nil, err
	}

	for _, u := range doc.Users {
		if strings.ToLower(u.Email) == email {
			return "", nil, ErrEmailTaken
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", nil, err
	}

	user := models.User{
		ID:           uuid.New().String(),
		Username:     strings.TrimSpace(username),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	doc.Users = append(doc.Users, user)

	if err := s.store.Write(ctx, doc); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, &user, nil
}

// Login verifies credentials and returns a signed token plus the user.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	doc, err := s.store.Read(ctx)
	if err != nil {
		return "", nil, err
	}

	for i := range doc.Users {
		if strings.ToLower(doc.Users[i].Email) != email {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(doc.Users[i].PasswordHash), []byte(password)) != nil {
			return "", nil, ErrInvalidCredentials
		}
		token, err := s.generateToken(doc.Users[i].ID)
		if err != nil {
			return "", nil, err
		}
		return token, &doc.Users[i], nil
	}

	return "", nil, ErrInvalidCredentials
}

// ValidateToken parses and verifies a bearer token.
func (s *AuthService) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, errors.New("invalid or expired token")
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid or expired token")
	}
	return claims, nil
}

func (s *AuthService) generateToken(userID string) (string, error) {
	claims := TokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tokenLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}
