package auth

import (
	"errors"

	"github.com/opencircle/core/internal/models"
)

type SignupDTO struct {
	Email     string `json:"email"     binding:"required,email"`
	Password  string `json:"password"  binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"  binding:"required"`
}

type LoginDTO struct {
	Email     string `json:"email"     binding:"required,email"`
	Password  string `json:"password"  binding:"required"`
	IPAddress string `json:"ipAddress"`
}

type RefreshTokenDTO struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LoginResult flattens the user fields next to the token pair, matching the
// login response shape.
type LoginResult struct {
	*models.User
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// TokenPair is the refresh response payload.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

var (
	// ErrEmailTaken rejects a second signup with an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials covers both unknown email and wrong password, so
	// login failures never reveal which one it was.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrInvalidRefreshToken covers unknown, expired and already-rotated
	// refresh tokens.
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
)
