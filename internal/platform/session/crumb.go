// Package session caches the cookie and crumb pair that authorizes requests
// to the quote provider.
package session

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrSessionNotFound is returned when no unexpired crumb is stored.
var ErrSessionNotFound = errors.New("session not found")

// Cookie is a name/value pair replayed on provider requests.
type Cookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Crumb is a provider session: the crumb token, the cookies it is bound to
// and the time it stops being reused.
type Crumb struct {
	Value     string    `json:"value"`
	Cookies   []Cookie  `json:"cookies"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsValid reports whether the crumb is usable at now.
func (c *Crumb) IsValid(now time.Time) bool {
	return c != nil && c.Value != "" && now.Before(c.ExpiresAt)
}

// MemoryStore keeps a single crumb in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	crumb *Crumb
	now   func() time.Time
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{now: time.Now}
}

// Load returns the stored crumb or ErrSessionNotFound when absent or expired.
func (s *MemoryStore) Load(_ context.Context) (*Crumb, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.crumb.IsValid(s.now()) {
		return nil, ErrSessionNotFound
	}
	c := *s.crumb
	return &c, nil
}

// Save replaces the stored crumb.
func (s *MemoryStore) Save(_ context.Context, c *Crumb) error {
	if !c.IsValid(s.now()) {
		return errors.New("session already expired")
	}
	cp := *c
	s.mu.Lock()
	s.crumb = &cp
	s.mu.Unlock()
	return nil
}

// Invalidate drops the stored crumb.
func (s *MemoryStore) Invalidate(_ context.Context) error {
	s.mu.Lock()
	s.crumb = nil
	s.mu.Unlock()
	return nil
}
