// Package auth registers users and issues the bearer tokens that guard the
// API.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"

	"lawbix/internal/domain"
	"lawbix/internal/ports"
)

const minPasswordLen = 6

type Service struct {
	users  ports.UserRepository
	secret []byte
	ttl    time.Duration
	cost   int
	now    func() time.Time
}

func New(users ports.UserRepository, secret string, ttl time.Duration) *Service {
	return &Service{
		users:  users,
		secret: []byte(secret),
		ttl:    ttl,
		cost:   bcrypt.DefaultCost,
		now:    time.Now,
	}
}

type claims struct {
	UserID int64 `json:"id"`
	jwt.RegisteredClaims
}

func (s *Service) Register(ctx context.Context, name, email, password string) (string, domain.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" || password == "" {
		return "", domain.User{}, domain.Invalid("body", "Faltan datos")
	}
	if !strings.Contains(email, "@") {
		return "", domain.User{}, domain.Invalid("email", "Email inválido")
	}
	if len(password) < minPasswordLen {
		return "", domain.User{}, domain.Invalid("password", fmt.Sprintf("La contraseña debe tener al menos %d caracteres", minPasswordLen))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", domain.User{}, fmt.Errorf("hash password: %w", err)
	}
	u, err := s.users.CreateUser(ctx, name, email, string(hash), domain.RoleClient)
	if err != nil {
		return "", domain.User{}, err
	}
	token, err := s.issue(u.ID)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}

// Login reports domain.ErrUnauthorized for an unknown email or a wrong
// password alike.
func (s *Service) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", domain.User{}, domain.Invalid("body", "Faltan datos")
	}
	u, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.User{}, domain.ErrUnauthorized
	}
	if err != nil {
		return "", domain.User{}, err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", domain.User{}, domain.ErrUnauthorized
	}
	token, err := s.issue(u.ID)
	if err != nil {
		return "", domain.User{}, err
	}
	return token, u, nil
}

// Authenticate verifies an HS256 token and loads its user.
func (s *Service) Authenticate(ctx context.Context, token string) (domain.User, error) {
	var c claims
	_, err := jwt.ParseWithClaims(token, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("%w: %w", domain.ErrUnauthorized, err)
	}
	u, err := s.users.UserByID(ctx, c.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.User{}, domain.ErrUnauthorized
	}
	return u, err
}

func (s *Service) Me(ctx context.Context, userID int64) (domain.User, error) {
	return s.users.UserByID(ctx, userID)
}

func (s *Service) issue(userID int64) (string, error) {
	now := s.now()
	c := claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

var _ ports.Auth = (*Service)(nil)
