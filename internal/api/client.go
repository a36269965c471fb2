// Package api implements the JSON client for the Zipboard backend.
//
// The client is deliberately thin: it encodes requests, decodes responses,
// and attaches the bearer token when one is available. Session mutation and
// error recovery belong to the auth layer, not here.
package api

import (
	"context"

	"github.com/zipboard/zipboard/internal/models"
)

// TokenSource supplies the bearer token to attach to outgoing requests.
// An empty string means no Authorization header is sent.
type TokenSource interface {
	CurrentToken() string
}

// LoginRequest is the body for POST /users/login. Exactly one of Username or
// Email is set; the backend accepts either field.
type LoginRequest struct {
	Username string `json:"username,omitempty"`
	Email    string `json:"email,omitempty"`
	Password string `json:"password"`
}

// LoginResponse is the success body of POST /users/login. Token may be empty
// when the backend continues an existing session.
type LoginResponse struct {
	Token string       `json:"token,omitempty"`
	User  *models.User `json:"user"`
}

// RegisterRequest is the body for POST /users.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is the success body of POST /users: either a user record
// (immediate success) or pendingVerification=true with no user (the account
// awaits email confirmation).
type RegisterResponse struct {
	User                *models.User `json:"user,omitempty"`
	PendingVerification bool         `json:"pendingVerification,omitempty"`
}

// ResultPayload is the body for POST /test-results.
type ResultPayload struct {
	UserID      string `json:"userId,omitempty"`
	WPM         int    `json:"wpm"`
	Accuracy    int    `json:"accuracy"`
	RawWPM      int    `json:"rawWpm"`
	Characters  int    `json:"characters"`
	DurationSec int    `json:"durationSec"`
	Mode        string `json:"mode"`
}

// Client defines the remote API surface the client application consumes.
//
// Contract:
//   - Login: authenticate with credentials, returns token (optional) and user.
//   - Register: create an account; may come back verification-pending.
//   - Me: fetch the profile of the bearer-token owner.
//   - SaveResult: persist a finished typing test remotely.
//
// Non-2xx responses surface as *Error. All methods honor context
// cancellation and timeouts.
type Client interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error)
	Me(ctx context.Context) (*models.User, error)
	SaveResult(ctx context.Context, req ResultPayload) error
}
