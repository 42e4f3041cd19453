// Package session owns the single answer to "who is logged in". Guards,
// the navigation prompt and every view read through it; nothing else
// touches the persisted credentials.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"movierealm/internal/models"
	"movierealm/internal/store"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Session is the live record of the authenticated identity. A nil *Session
// means anonymous.
type Session struct {
	Identity models.Identity
	Token    string
}

func (s *Session) Role() models.Role {
	if s == nil {
		return ""
	}
	return s.Identity.Role
}

// AuthAPI is the slice of the backend the store needs.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*models.LoginResponse, error)
	Register(ctx context.Context, username, email, password string) error
	Logout(ctx context.Context) error
}

type Store struct {
	api    AuthAPI
	local  store.Store
	logger *logrus.Logger

	mu       sync.Mutex
	restored bool
	current  *Session
	subs     []func(*Session)
}

func NewStore(api AuthAPI, local store.Store, logger *logrus.Logger) *Store {
	return &Store{api: api, local: local, logger: logger}
}

// Restore reads the persisted (token, identity) pair, if any. It runs
// synchronously at startup, before any guard evaluates, so guarded content
// never flashes for a session that is about to appear.
func (s *Store) Restore() {
	var (
		token    string
		identity models.Identity
	)
	haveToken, err := s.local.Get(store.KeyToken, &token)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read persisted token")
	}
	haveIdentity, err := s.local.Get(store.KeyIdentity, &identity)
	if err != nil {
		s.logger.WithError(err).Warn("Failed to read persisted identity")
	}

	s.mu.Lock()
	s.restored = true
	if haveToken && haveIdentity {
		s.current = &Session{Identity: identity, Token: token}
	} else {
		s.current = nil
	}
	s.mu.Unlock()

	if sess := s.Current(); sess != nil {
		s.logger.WithFields(logrus.Fields{
			"user_id": sess.Identity.UserID,
			"role":    sess.Identity.Role,
		}).Info("Session restored")
	}
	s.notify()
}

// Restored reports whether Restore has completed; guards render a neutral
// placeholder until it has.
func (s *Store) Restored() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restored
}

func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Token implements api.TokenSource.
func (s *Store) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Subscribe registers fn to run synchronously after every session
// transition. The current state is delivered immediately when the store is
// already restored, so late subscribers never start stale.
func (s *Store) Subscribe(fn func(*Session)) {
	s.mu.Lock()
	s.subs = append(s.subs, fn)
	restored := s.restored
	current := s.current
	s.mu.Unlock()

	if restored {
		fn(current)
	}
}

// Login authenticates against the backend. On success the token and
// identity are persisted and the session replaced; on any failure the
// session is left exactly as it was.
func (s *Store) Login(ctx context.Context, email, password string) (*Session, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		s.logger.WithError(err).Info("Login failed")
		return nil, err
	}

	identity := models.Identity{
		UserID:   res.UserID,
		Role:     res.Role,
		Email:    res.Email,
		Username: res.Username,
	}
	if err := s.local.Set(store.KeyToken, res.AccessToken); err != nil {
		s.logger.WithError(err).Warn("Failed to persist token")
	}
	if err := s.local.Set(store.KeyIdentity, identity); err != nil {
		s.logger.WithError(err).Warn("Failed to persist identity")
	}

	sess := &Session{Identity: identity, Token: res.AccessToken}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"user_id": identity.UserID,
		"role":    identity.Role,
	}).Info("Logged in")
	s.notify()
	return sess, nil
}

// Register creates an account. It does not log in.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	return s.api.Register(ctx, username, email, password)
}

// Logout clears the persisted credentials and the live session. It always
// succeeds locally; the server notification is best effort and a dead
// network does not keep anyone logged in.
func (s *Store) Logout(ctx context.Context) {
	if s.Current() != nil {
		if err := s.api.Logout(ctx); err != nil {
			s.logger.WithError(err).Debug("Server logout notification failed")
		}
	}
	s.clear()
	s.logger.Info("Logged out")
}

// ForceLogout is the API client's unauthorized hook: the token was rejected,
// so the session is gone whether the user asked for it or not.
func (s *Store) ForceLogout() {
	if s.Current() == nil {
		return
	}
	s.clear()
	s.logger.Info("Session expired, credentials cleared")
}

func (s *Store) clear() {
	if err := s.local.Delete(store.KeyToken); err != nil {
		s.logger.WithError(err).Warn("Failed to clear persisted token")
	}
	if err := s.local.Delete(store.KeyIdentity); err != nil {
		s.logger.WithError(err).Warn("Failed to clear persisted identity")
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()
	s.notify()
}

func (s *Store) notify() {
	s.mu.Lock()
	subs := make([]func(*Session), len(s.subs))
	copy(subs, s.subs)
	current := s.current
	s.mu.Unlock()

	for _, fn := range subs {
		fn(current)
	}
}
