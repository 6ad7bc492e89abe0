package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"scan_kiosk/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = time.Hour

// Domain errors for auth flows.
var (
	ErrInvalidPassword = errors.New("invalid password")
	ErrUserNotFound    = errors.New("operator not found")
	ErrInvalidToken    = errors.New("invalid token")
	ErrSignUpDisabled  = errors.New("operator sign-up is disabled")
	ErrEmptyUsername   = errors.New("username is empty")
)

// AuthService handles operator accounts and API tokens.
type AuthService struct {
	repo        repository.Operators
	signingKey  []byte
	tokenTTL    time.Duration
	allowSignUp bool
}

// NewAuthService uses a random per-process signing key when none is
// configured, so tokens do not survive a restart.
func NewAuthService(repo repository.Operators, opts AuthOptions) *AuthService {
	key := []byte(opts.SigningKey)
	if len(key) == 0 {
		key = randomKey()
	}
	ttl := opts.TokenTTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &AuthService{
		repo:        repo,
		signingKey:  key,
		tokenTTL:    ttl,
		allowSignUp: opts.AllowSignUp,
	}
}

// SignUp hashes the password and creates an operator.
func (s *AuthService) SignUp(ctx context.Context, username, password string) (int, error) {
	if !s.allowSignUp {
		return 0, ErrSignUpDisabled
	}
	username = strings.TrimSpace(username)
	if username == "" {
		return 0, ErrEmptyUsername
	}
	hash, err := hashPassword(password)
	if err != nil {
		return 0, fmt.Errorf("invalid password: %w", err)
	}
	return s.repo.Create(ctx, username, hash)
}

// Claims defines JWT claims
type Claims struct {
	jwt.RegisteredClaims
	OperatorID int `json:"operator_id"`
}

// GenerateToken validates credentials and returns a JWT.
func (s *AuthService) GenerateToken(ctx context.Context, username, password string) (string, error) {
	op, err := s.repo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return "", err
	}
	if op == nil {
		return "", ErrUserNotFound
	}

	if err := verifyPassword(op.PasswordHash, password); err != nil {
		return "", ErrInvalidPassword
	}

	return s.issueToken(op.ID)
}

// ParseToken parses a JWT and returns the operator ID.
func (s *AuthService) ParseToken(accessToken string) (int, error) {
	token, err := jwt.ParseWithClaims(accessToken, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Ensure HMAC signing is used
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil {
		return 0, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}

	return claims.OperatorID, nil
}

// helper: hash password safely
func hashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// helper: verify password against hash
func verifyPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueToken(operatorID int) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		OperatorID: operatorID,
	})
	return token.SignedString(s.signingKey)
}

func randomKey() []byte {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		panic(fmt.Sprintf("auth: read random signing key: %v", err))
	}
	return key
}
