package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inducthub/internal/config"
	"inducthub/internal/model"
)

func testAuth() *AuthService {
	return NewAuthService(&config.Config{
		ManagerUsername: "admin",
		ManagerPassword: "correct-horse",
		JWTSecret:       "test-secret",
	})
}

func TestLogin(t *testing.T) {
	svc := testAuth()

	resp, err := svc.Login("admin", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, model.RoleManager, resp.Role)
	assert.NotEmpty(t, resp.Token)
	assert.Contains(t, resp.UserID, "mgr_")

	claims, err := svc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.UserID, claims.UserID)
	assert.Equal(t, model.RoleManager, claims.Role)
}

func TestLoginBadCredentials(t *testing.T) {
	svc := testAuth()

	_, err := svc.Login("admin", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login("someone", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssueStaffToken(t *testing.T) {
	svc := testAuth()

	token, err := svc.IssueStaffToken("staff_42")
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "staff_42", claims.UserID)
	assert.Equal(t, model.RoleStaff, claims.Role)
	require.NotNil(t, claims.ExpiresAt)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	svc := testAuth()

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	other := NewAuthService(&config.Config{JWTSecret: "different-secret"})
	token, err := other.IssueStaffToken("staff_42")
	require.NoError(t, err)

	_, err = testAuth().ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
