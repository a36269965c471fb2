// Package auth orchestrates login, registration, logout and session refresh
// against the remote API, reading and writing the session store.
package auth

import (
	"context"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/zipboard/zipboard/internal/api"
	"github.com/zipboard/zipboard/internal/browser"
	"github.com/zipboard/zipboard/internal/logging"
	"github.com/zipboard/zipboard/internal/models"
	"github.com/zipboard/zipboard/internal/session"
)

// Redirect is a navigation instruction for the caller. The service emits it
// instead of navigating itself so a failed or impossible navigation can never
// swallow the operation's actual result.
type Redirect struct {
	Path  string
	Query url.Values
}

// RegisterResult is the discriminated outcome of Register: either an
// immediate account (User set) or a verification-pending acceptance
// (PendingVerification true, Redirect pointing at the polling page).
type RegisterResult struct {
	PendingVerification bool
	User                *models.User
	Redirect            *Redirect
}

// Service is the authentication client.
type Service struct {
	api     api.Client
	session *session.Store
	nav     browser.Navigator
	log     logging.Logger
}

func NewService(apiClient api.Client, store *session.Store, nav browser.Navigator, log logging.Logger) *Service {
	if log == nil {
		log = logging.Nop()
	}
	return &Service{api: apiClient, session: store, nav: nav, log: log}
}

// Login authenticates with a single identifier that may be a username or an
// email address. The '@' substring test decides which request field carries
// it; this is a heuristic matching the backend contract, not email
// validation. On success the token (when returned) is persisted first, then
// the user. API errors propagate unchanged.
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	if err := validate(validation.Errors{
		"identifier": validation.Validate(identifier, validation.Required),
		"password":   validation.Validate(password, validation.Required),
	}); err != nil {
		return nil, err
	}

	req := api.LoginRequest{Password: password}
	if strings.Contains(identifier, "@") {
		req.Email = identifier
	} else {
		req.Username = identifier
	}

	resp, err := s.api.Login(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Token != "" {
		if err := s.session.SetToken(ctx, resp.Token); err != nil {
			return nil, err
		}
	}
	if err := s.session.SetUser(ctx, resp.User); err != nil {
		return nil, err
	}

	s.log.Info(ctx, "logged in", "user", resp.User.ID)
	return resp.User, nil
}

// Register creates an account. A verification-pending response sets the
// pending flag and returns a redirect instruction carrying username and
// email for the verification page; user and token stay untouched. An
// immediate-success response persists the user and clears the pending flag.
func (s *Service) Register(ctx context.Context, username, email, password string) (*RegisterResult, error) {
	if err := validate(validation.Errors{
		"username": validation.Validate(username, validation.Required),
		"email":    validation.Validate(email, validation.Required),
		"password": validation.Validate(password, validation.Required),
	}); err != nil {
		return nil, err
	}

	resp, err := s.api.Register(ctx, api.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	if resp.PendingVerification {
		s.session.SetPendingVerification(true)
		s.log.Info(ctx, "registration pending verification", "user", username)
		return &RegisterResult{
			PendingVerification: true,
			Redirect: &Redirect{
				Path:  "/verify-email",
				Query: url.Values{"user": {username}, "email": {email}},
			},
		}, nil
	}

	if err := s.session.SetUser(ctx, resp.User); err != nil {
		return nil, err
	}
	s.session.SetPendingVerification(false)

	s.log.Info(ctx, "registered", "user", resp.User.ID)
	return &RegisterResult{User: resp.User}, nil
}

// Logout clears token, user and the pending flag, then makes a best-effort
// navigation back to the landing page. Navigation failure is logged, never
// returned.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.session.Clear(ctx); err != nil {
		return err
	}

	if s.nav != nil {
		if err := s.nav.Navigate("/"); err != nil {
			s.log.Warn(ctx, "post-logout navigation failed", "error", err)
		}
	}
	return nil
}

// FetchMe refreshes the user record from the who-am-I endpoint using the
// stored token. A 401 reconciles the session by clearing token and user
// before re-raising; any other failure leaves the session untouched.
func (s *Service) FetchMe(ctx context.Context) (*models.User, error) {
	me, err := s.api.Me(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			if clearErr := s.session.Clear(ctx); clearErr != nil {
				s.log.Error(ctx, "clearing stale session failed", "error", clearErr)
			}
		}
		return nil, err
	}

	if err := s.session.SetUser(ctx, me); err != nil {
		return nil, err
	}
	return me, nil
}

// LoginWithToken persists the token unconditionally, then fetches the
// authoritative profile. Used by the OAuth callback and popup paths. A 401
// during the fetch clears the just-set token via the FetchMe rule.
func (s *Service) LoginWithToken(ctx context.Context, token string) (*models.User, error) {
	if err := s.session.SetToken(ctx, token); err != nil {
		return nil, err
	}
	return s.FetchMe(ctx)
}
