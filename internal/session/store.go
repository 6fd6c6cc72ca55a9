package session

import (
	"errors"
	"fmt"
	gosync "sync"
	"unicode"
	"unicode/utf8"

	"github.com/nhle/todo-client/internal/credential"
	"github.com/nhle/todo-client/internal/model"
)

// Keys used in the persistence tiers.
const (
	KeyToken     = "token"
	KeyUserEmail = "userEmail"
)

// Store holds the currently authenticated user. The token is persisted to
// the durable vault when the user asked to be remembered, otherwise to the
// session vault that disappears with the process.
type Store struct {
	mu      gosync.RWMutex
	current *model.Session

	durable   credential.Vault
	ephemeral credential.Vault
}

// New creates an empty store over the two persistence tiers.
func New(durable, ephemeral credential.Vault) *Store {
	return &Store{
		durable:   durable,
		ephemeral: ephemeral,
	}
}

// Set replaces any prior session and persists its token to the tier chosen
// by remember. The in-memory session is updated even when persisting fails.
func (s *Store) Set(sess model.Session, remember bool) error {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	if remember {
		if err := s.durable.Set(KeyToken, sess.Token); err != nil {
			return fmt.Errorf("persisting token: %w", err)
		}
		if err := s.durable.Set(KeyUserEmail, sess.Email); err != nil {
			return fmt.Errorf("persisting user email: %w", err)
		}
		return nil
	}

	if err := s.ephemeral.Set(KeyToken, sess.Token); err != nil {
		return fmt.Errorf("persisting session token: %w", err)
	}
	return nil
}

// Clear forgets the session and wipes both persistence tiers.
func (s *Store) Clear() error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	var errs []error
	for _, key := range []string{KeyToken, KeyUserEmail} {
		if err := s.durable.Delete(key); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.ephemeral.Delete(KeyToken); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("clearing session: %w", errors.Join(errs...))
	}
	return nil
}

// Restore rehydrates a remembered session from the durable tier. It
// reports whether a token was found. Only the token and email survive a
// restart, so the profile name stays empty until the next login.
func (s *Store) Restore() (bool, error) {
	token, err := s.durable.Get(KeyToken)
	if errors.Is(err, credential.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("restoring token: %w", err)
	}
	if token == "" {
		return false, nil
	}

	email, err := s.durable.Get(KeyUserEmail)
	if err != nil && !errors.Is(err, credential.ErrNotFound) {
		return false, fmt.Errorf("restoring user email: %w", err)
	}

	s.mu.Lock()
	s.current = &model.Session{
		User:  model.User{Email: email},
		Token: token,
	}
	s.mu.Unlock()
	return true, nil
}

// Token returns the current bearer token, or "" when logged out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return ""
	}
	return s.current.Token
}

// Current returns a copy of the session and whether one exists.
func (s *Store) Current() (model.Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.current == nil {
		return model.Session{}, false
	}
	return *s.current, true
}

// LoggedIn reports whether a session with a token is held.
func (s *Store) LoggedIn() bool {
	return s.Token() != ""
}

// DisplayName returns the name shown in the header: the full name, the
// email when no name is known, or "User".
func (s *Store) DisplayName() string {
	sess, ok := s.Current()
	switch {
	case !ok:
		return "User"
	case sess.FullName != "":
		return sess.FullName
	case sess.Email != "":
		return sess.Email
	default:
		return "User"
	}
}

// Initial returns the avatar letter for the current user.
func (s *Store) Initial() string {
	sess, _ := s.Current()
	r, _ := utf8.DecodeRuneInString(sess.FullName)
	if r == utf8.RuneError {
		return "U"
	}
	return string(unicode.ToUpper(r))
}
