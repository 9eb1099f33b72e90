package state

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
)

const (
	OpRegister  = "auth/register"
	OpLogin     = "auth/login"
	OpCheckAuth = "auth/checkAuth"
	OpLogout    = "auth/logout"
)

const (
	msgRegisterFailed = "Registration failed"
	msgLoginFailed    = "Login failed"
	msgSessionExpired = "Session expired"
)

// AuthAPI is the subset of the API client the auth slice needs.
type AuthAPI interface {
	Register(ctx context.Context, in domain.RegisterInput) (apiclient.AuthResponse, error)
	Login(ctx context.Context, creds domain.Credentials) (apiclient.AuthResponse, error)
	Me(ctx context.Context) (domain.User, error)
}

// AuthState is a point-in-time copy of the auth slice.
type AuthState struct {
	User    *domain.User
	Request Request
}

func (s AuthState) Authenticated() bool { return s.User != nil }

type AuthSlice struct {
	api    AuthAPI
	tokens tokenstore.Store
	logger *slog.Logger

	mu    sync.Mutex
	state AuthState
}

func NewAuthSlice(api AuthAPI, tokens tokenstore.Store, logger *slog.Logger) *AuthSlice {
	return &AuthSlice{
		api:    api,
		tokens: tokens,
		logger: logger.With("component", "auth_slice"),
	}
}

func (s *AuthSlice) Snapshot() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.state
	if out.User != nil {
		u := *out.User
		out.User = &u
	}
	return out
}

// Register creates the account, persists the returned token and stores the user.
func (s *AuthSlice) Register(ctx context.Context, in domain.RegisterInput) (domain.User, error) {
	s.begin(OpRegister)
	resp, err := s.api.Register(ctx, in)
	if err != nil {
		return domain.User{}, s.fail(OpRegister, err, msgRegisterFailed)
	}
	return s.authenticated(ctx, OpRegister, resp, msgRegisterFailed)
}

// Login exchanges credentials for a token and stores the user.
func (s *AuthSlice) Login(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	s.begin(OpLogin)
	resp, err := s.api.Login(ctx, creds)
	if err != nil {
		return domain.User{}, s.fail(OpLogin, err, msgLoginFailed)
	}
	return s.authenticated(ctx, OpLogin, resp, msgLoginFailed)
}

// CheckAuth refreshes the current user from the stored token. On failure the
// token is removed and the user cleared: an invalid token means logged out.
func (s *AuthSlice) CheckAuth(ctx context.Context) (domain.User, error) {
	s.begin(OpCheckAuth)
	user, err := s.api.Me(ctx)
	if err != nil {
		if rmErr := s.tokens.Remove(ctx); rmErr != nil {
			s.logger.ErrorContext(ctx, "remove token after failed refresh", "error", rmErr)
		}
		opErr := failure(s.logger, OpCheckAuth, err, msgSessionExpired)
		s.mu.Lock()
		s.state.User = nil
		s.state.Request = failed(OpCheckAuth, opErr.Message)
		s.mu.Unlock()
		return domain.User{}, opErr
	}
	s.settleUser(OpCheckAuth, user)
	return user, nil
}

// Logout clears the token and the user. It cannot fail; a token store error
// is only logged.
func (s *AuthSlice) Logout(ctx context.Context) {
	if err := s.tokens.Remove(ctx); err != nil {
		s.logger.ErrorContext(ctx, "remove token on logout", "error", err)
	}
	s.mu.Lock()
	s.state.User = nil
	s.state.Request = succeeded(OpLogout)
	s.mu.Unlock()
}

// dropUser forgets the user after the API rejected the token elsewhere.
// The token itself is already gone by then.
func (s *AuthSlice) dropUser() {
	s.mu.Lock()
	s.state.User = nil
	s.mu.Unlock()
}

// ClearError drops a failure status back to idle.
func (s *AuthSlice) ClearError() {
	s.mu.Lock()
	if s.state.Request.Phase == Failed {
		s.state.Request = Request{}
	}
	s.mu.Unlock()
}

func (s *AuthSlice) authenticated(ctx context.Context, op string, resp apiclient.AuthResponse, fallback string) (domain.User, error) {
	if err := s.tokens.Set(ctx, resp.Token); err != nil {
		s.logger.ErrorContext(ctx, "persist token", "op", op, "error", err)
		return domain.User{}, s.fail(op, err, fallback)
	}
	s.settleUser(op, resp.User)
	return resp.User, nil
}

func (s *AuthSlice) begin(op string) {
	s.mu.Lock()
	s.state.Request = pending(op)
	s.mu.Unlock()
}

func (s *AuthSlice) settleUser(op string, user domain.User) {
	s.mu.Lock()
	s.state.User = &user
	s.state.Request = succeeded(op)
	s.mu.Unlock()
}

func (s *AuthSlice) fail(op string, err error, fallback string) error {
	opErr := failure(s.logger, op, err, fallback)
	s.mu.Lock()
	s.state.Request = failed(op, opErr.Message)
	s.mu.Unlock()
	return opErr
}
