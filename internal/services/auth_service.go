package services

import (
	"database/sql"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bimodwien/full-ecommerce-new/internal/apperr"
	"github.com/bimodwien/full-ecommerce-new/internal/domain"
	"github.com/bimodwien/full-ecommerce-new/internal/repos"
	"github.com/bimodwien/full-ecommerce-new/internal/validate"
)

const tokenTTL = 24 * time.Hour

// AuthService issues and verifies the bearer tokens the middleware turns into
// a caller identity. Core services never see a token, only {userId, role}.
type AuthService struct {
	Users  *repos.UserRepo
	secret []byte
}

func NewAuthService(users *repos.UserRepo, secret string) *AuthService {
	return &AuthService{Users: users, secret: []byte(secret)}
}

// Identity is the verified caller attached to a request.
type Identity struct {
	UserID string
	Role   string
}

func (s *AuthService) Register(name, email, password, role string) (*domain.User, error) {
	name, ok := validate.Name(name)
	if !ok {
		return nil, apperr.New(apperr.Validation, "Name is required")
	}
	email, ok = validate.Email(email)
	if !ok {
		return nil, apperr.New(apperr.Validation, "Invalid email address")
	}
	if !validate.Password(password) {
		return nil, apperr.New(apperr.Validation, "Password must be 8-72 characters with letters and digits")
	}
	if role != domain.RoleBuyer && role != domain.RoleSeller {
		return nil, apperr.New(apperr.Validation, "Role must be buyer or seller")
	}

	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, apperr.New(apperr.Conflict, "Email already registered")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 12)
	if err != nil {
		return nil, err
	}
	u := domain.User{
		ID:    uuid.NewString(),
		Email: email,
		Name:  name,
		Hash:  string(hash),
		Role:  role,
	}
	if err := s.Users.Insert(u); err != nil {
		if repos.IsUniqueViolation(err) {
			return nil, apperr.New(apperr.Conflict, "Email already registered")
		}
		return nil, err
	}
	return &u, nil
}

func (s *AuthService) Login(email, password string) (string, *domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return "", nil, apperr.New(apperr.Unauthorized, "invalid email or password")
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return "", nil, apperr.New(apperr.Unauthorized, "invalid email or password")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  u.ID,
		"role": u.Role,
		"iat":  now.Unix(),
		"exp":  now.Add(tokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", nil, err
	}
	return token, u, nil
}

// Verify parses a bearer token and returns the identity it carries.
func (s *AuthService) Verify(token string) (Identity, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return Identity{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" {
		return Identity{}, apperr.New(apperr.Unauthorized, "Unauthorized")
	}
	return Identity{UserID: sub, Role: role}, nil
}
