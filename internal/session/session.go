// Package session keeps one application-state container per browser. A
// browser is identified by an opaque cookie; each session owns its token
// store, an API client bound to it and a queue of flash toasts.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/flash"
	"github.com/ErlanBelekov/bookshelf/internal/state"
	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
)

const CookieName = "session_id"

type Session struct {
	ID     string
	Store  *state.Store
	Client *apiclient.Client

	tokens tokenstore.Store
	ready  sync.Once

	mu       sync.Mutex
	lastSeen time.Time
	toasts   []flash.Toast
}

func (s *Session) Tokens() tokenstore.Store { return s.tokens }

func (s *Session) Success(text string) { s.push(flash.Success, text) }
func (s *Session) Error(text string)   { s.push(flash.Error, text) }

func (s *Session) push(kind flash.Kind, text string) {
	s.mu.Lock()
	s.toasts = append(s.toasts, flash.Toast{Kind: kind, Text: text})
	s.mu.Unlock()
}

// PopToasts returns the queued toasts and empties the queue.
func (s *Session) PopToasts() []flash.Toast {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.toasts
	s.toasts = nil
	return out
}

func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

// toucher is implemented by token backends whose entries expire on their own.
type toucher interface {
	Touch(ctx context.Context) error
}
