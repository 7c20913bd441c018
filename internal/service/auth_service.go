package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"inducthub/internal/config"
	"inducthub/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// AuthService issues and validates portal tokens. Manager credentials
// come from the environment; staff tokens are issued per user.
type AuthService struct {
	managerUsername string
	managerPassword string
	jwtSecret       []byte
}

// NewAuthService creates a new auth service from config.
func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{
		managerUsername: cfg.ManagerUsername,
		managerPassword: cfg.ManagerPassword,
		jwtSecret:       []byte(cfg.JWTSecret),
	}
}

// Login validates manager credentials and returns a manager token.
func (s *AuthService) Login(username, password string) (*model.LoginResponse, error) {
	if username != s.managerUsername || password != s.managerPassword {
		return nil, ErrInvalidCredentials
	}

	userID := "mgr_" + uuid.New().String()[:8]
	token, err := s.issueToken(userID, model.RoleManager, 0)
	if err != nil {
		return nil, err
	}
	return &model.LoginResponse{Token: token, UserID: userID, Role: model.RoleManager}, nil
}

// IssueStaffToken creates a 24h token for a staff member.
func (s *AuthService) IssueStaffToken(userID string) (string, error) {
	return s.issueToken(userID, model.RoleStaff, 24*time.Hour)
}

func (s *AuthService) issueToken(userID string, role model.Role, ttl time.Duration) (string, error) {
	claims := &model.UserClaims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	if ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(ttl))
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// ValidateToken validates a portal JWT and returns its claims.
func (s *AuthService) ValidateToken(tokenString string) (*model.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &model.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*model.UserClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
