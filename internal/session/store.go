// Package session holds the current user/token session: a mutex-guarded
// in-memory view hydrated from, and written through to, the local state
// repository so sessions survive restarts.
//
// The store is the only session-shaped mutable state in the client. It is
// mutated exclusively by the auth layer; everything else reads.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/zipboard/zipboard/internal/dbx"
	"github.com/zipboard/zipboard/internal/models"
	"github.com/zipboard/zipboard/internal/repositories/state"
)

// Persisted state keys. The v1 suffix leaves room for format migrations.
const (
	UserKey  = "zb_user_v1"
	TokenKey = "zb_token_v1"
)

// State is the derived session status.
type State int

const (
	// Anonymous: no token, no user.
	Anonymous State = iota
	// Authenticated: token and user both present.
	Authenticated
	// PendingVerification: registration accepted, awaiting email confirmation.
	PendingVerification
)

func (s State) String() string {
	switch s {
	case Authenticated:
		return "authenticated"
	case PendingVerification:
		return "pending-verification"
	default:
		return "anonymous"
	}
}

// Store is the session container. All reads are synchronous and always see
// the latest committed mutation; durable writes happen before the in-memory
// view flips so a crash can lose a write but never invent one.
type Store struct {
	db *sql.DB

	mu      sync.RWMutex
	user    *models.User
	token   string
	pending bool
}

// Load constructs a Store hydrated from the state table. A corrupt persisted
// user record degrades to an absent user rather than an error.
func Load(ctx context.Context, db *sql.DB) (*Store, error) {
	repo := state.NewSQLiteRepository(db)

	s := &Store{db: db}

	raw, err := repo.Get(ctx, TokenKey)
	if err != nil {
		return nil, err
	}
	s.token = string(raw)

	rawUser, err := repo.Get(ctx, UserKey)
	if err != nil {
		return nil, err
	}
	if len(rawUser) > 0 {
		var u models.User
		if json.Unmarshal(rawUser, &u) == nil {
			s.user = &u
		}
	}

	return s, nil
}

// SetSession persists user and token together in one transaction, then
// publishes them to readers.
func (s *Store) SetSession(ctx context.Context, user *models.User, token string) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
			return err
		}
		return repo.Set(ctx, UserKey, encoded)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.token = token
	s.mu.Unlock()
	return nil
}

// SetToken persists and publishes the token only. Used on the OAuth path
// where the token arrives one asynchronous step before the profile.
func (s *Store) SetToken(ctx context.Context, token string) error {
	repo := state.NewSQLiteRepository(s.db)
	if err := repo.Set(ctx, TokenKey, []byte(token)); err != nil {
		return err
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// SetUser persists and publishes the user record only.
func (s *Store) SetUser(ctx context.Context, user *models.User) error {
	encoded, err := json.Marshal(user)
	if err != nil {
		return err
	}

	repo := state.NewSQLiteRepository(s.db)
	if err := repo.Set(ctx, UserKey, encoded); err != nil {
		return err
	}

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()
	return nil
}

// Clear removes user and token together and resets the pending flag.
func (s *Store) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := state.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, UserKey)
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.user = nil
	s.token = ""
	s.pending = false
	s.mu.Unlock()
	return nil
}

func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// CurrentToken also satisfies api.TokenSource, so the HTTP client always
// sends whatever token is current.
func (s *Store) CurrentToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// SetPendingVerification sets the in-memory registration-pending flag. The
// flag is deliberately not persisted: a restart drops back to anonymous.
func (s *Store) SetPendingVerification(v bool) {
	s.mu.Lock()
	s.pending = v
	s.mu.Unlock()
}

func (s *Store) PendingVerification() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

// Current returns the derived session state.
func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	switch {
	case s.user != nil && s.token != "":
		return Authenticated
	case s.pending:
		return PendingVerification
	default:
		return Anonymous
	}
}
