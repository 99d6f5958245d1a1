// Package identity holds the signed-in user for a session. A Store is created
// when the session starts and cleared on sign-out; nothing is persisted.
package identity

import (
	"context"
	"sync"
)

// User is the record handed over by the auth provider after sign-in.
type User struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// ChangeFunc observes identity changes. user is nil after Clear.
type ChangeFunc func(user *User)

// Store owns the current user of one session.
type Store struct {
	// notifyMu orders writes together with their callbacks. mu guards user
	// and is never held while a callback runs.
	notifyMu sync.Mutex
	mu       sync.RWMutex
	user     *User
	onChange ChangeFunc
}

// Option configures a Store.
type Option func(*Store)

// WithOnChange registers a callback invoked after every SetUser and Clear.
// Callbacks run one at a time in the order the writes happened, so the last
// one observed matches Current. A callback must not write to the same Store.
func WithOnChange(fn ChangeFunc) Option {
	return func(s *Store) {
		s.onChange = fn
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the signed-in user, if any.
func (s *Store) Current() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return User{}, false
	}
	return *s.user, true
}

// SetUser replaces the current user. The value is stored as given.
func (s *Store) SetUser(u User) {
	copied := u
	s.write(&u, &copied)
}

// Clear signs the user out.
func (s *Store) Clear() {
	s.write(nil, nil)
}

func (s *Store) write(user, notify *User) {
	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	if s.onChange != nil {
		s.onChange(notify)
	}
}

type storeKey struct{}

// WithStore attaches a store to ctx.
func WithStore(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, storeKey{}, s)
}

// FromContext returns the store attached to ctx, or nil.
func FromContext(ctx context.Context) *Store {
	if s, ok := ctx.Value(storeKey{}).(*Store); ok {
		return s
	}
	return nil
}
