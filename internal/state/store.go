package state

import (
	"context"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
)

// API is everything the slices dispatch against; *apiclient.Client satisfies it.
type API interface {
	AuthAPI
	BookAPI
}

// Store is the application-state container of one UI root.
type Store struct {
	Auth  *AuthSlice
	Books *BookSlice

	tokens tokenstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// New wires the slices of one UI root. A 401 seen by the books slice also
// clears the auth slice's user.
func New(api API, tokens tokenstore.Store, logger *slog.Logger) *Store {
	auth := NewAuthSlice(api, tokens, logger)
	books := NewBookSlice(api, logger)
	books.onUnauthorized = auth.dropUser
	return &Store{
		Auth:   auth,
		Books:  books,
		tokens: tokens,
		logger: logger.With("component", "store"),
		now:    time.Now,
	}
}

// Unauthorized forgets the user after a 401 seen outside the slices, such
// as an upload. The client has already removed the token.
func (s *Store) Unauthorized() {
	s.Auth.dropUser()
}

// Bootstrap runs once when the UI root starts. With a stored token it
// refreshes the current user, unless the token is a JWT that has already
// expired, which is discarded without a request. It reports whether a
// refresh was attempted.
func (s *Store) Bootstrap(ctx context.Context) (bool, error) {
	token, err := s.tokens.Get(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}
	if tokenstore.Expired(token, s.now()) {
		s.logger.InfoContext(ctx, "stored token expired, discarding")
		return false, s.tokens.Remove(ctx)
	}
	_, err = s.Auth.CheckAuth(ctx)
	return true, err
}
