package model

import "github.com/golang-jwt/jwt/v5"

// Role distinguishes staff taking inductions from managers reviewing them
type Role string

const (
	RoleStaff   Role = "staff"
	RoleManager Role = "manager"
)

// UserClaims are the JWT claims carried by portal tokens
type UserClaims struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}
