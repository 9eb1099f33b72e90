package state_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ErlanBelekov/bookshelf/internal/apiclient"
	"github.com/ErlanBelekov/bookshelf/internal/domain"
	"github.com/ErlanBelekov/bookshelf/internal/state"
	"github.com/ErlanBelekov/bookshelf/internal/tokenstore"
)

func TestLogin_StoresUserAndToken(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	api := &fakeAPI{
		login: func(_ context.Context, creds domain.Credentials) (apiclient.AuthResponse, error) {
			if creds.Email != "a@b.com" || creds.Password != "pw" {
				t.Errorf("creds = %+v", creds)
			}
			return apiclient.AuthResponse{Token: "t1", User: domain.User{ID: "u1"}}, nil
		},
	}
	slice := state.NewAuthSlice(api, tokens, discardLogger())

	user, err := slice.Login(context.Background(), domain.Credentials{Email: "a@b.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if user.ID != "u1" {
		t.Errorf("returned user = %q, want u1", user.ID)
	}

	snap := slice.Snapshot()
	if snap.User == nil || snap.User.ID != "u1" {
		t.Fatalf("state.User = %+v, want u1", snap.User)
	}
	if snap.Request.Loading() {
		t.Error("loading should be false after success")
	}
	if snap.Request.Error() != "" {
		t.Errorf("error = %q, want none", snap.Request.Error())
	}
	if tok, _ := tokens.Get(context.Background()); tok != "t1" {
		t.Errorf("stored token = %q, want t1", tok)
	}
}

func TestRegister_StoresUserAndToken(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	api := &fakeAPI{
		register: func(_ context.Context, in domain.RegisterInput) (apiclient.AuthResponse, error) {
			return apiclient.AuthResponse{Token: "t2", User: domain.User{ID: "u2", FirstName: in.FirstName}}, nil
		},
	}
	slice := state.NewAuthSlice(api, tokens, discardLogger())

	if _, err := slice.Register(context.Background(), domain.RegisterInput{FirstName: "Ada"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	snap := slice.Snapshot()
	if !snap.Authenticated() || snap.User.FirstName != "Ada" {
		t.Fatalf("state.User = %+v", snap.User)
	}
	if snap.Request.Phase != state.Succeeded || snap.Request.Op != state.OpRegister {
		t.Errorf("request = %+v", snap.Request)
	}
	if tok, _ := tokens.Get(context.Background()); tok != "t2" {
		t.Errorf("stored token = %q, want t2", tok)
	}
}

func TestLoginFailure_ServerMessageOrFallback(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server message", apiErr(http.StatusUnauthorized, "Incorrect email or password"), "Incorrect email or password"},
		{"network error", errors.New("dial tcp: connection refused"), "Login failed"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			tokens := tokenstore.NewMemoryStore()
			api := &fakeAPI{
				login: func(context.Context, domain.Credentials) (apiclient.AuthResponse, error) {
					return apiclient.AuthResponse{}, tc.err
				},
			}
			slice := state.NewAuthSlice(api, tokens, discardLogger())

			_, err := slice.Login(context.Background(), domain.Credentials{})
			var opErr *state.OpError
			if !errors.As(err, &opErr) || opErr.Message != tc.want {
				t.Fatalf("err = %v, want OpError %q", err, tc.want)
			}
			if !errors.Is(err, tc.err) {
				t.Error("OpError should unwrap to the cause")
			}

			snap := slice.Snapshot()
			if snap.Request.Loading() {
				t.Error("loading should be false after failure")
			}
			if snap.Request.Error() != tc.want {
				t.Errorf("error = %q, want %q", snap.Request.Error(), tc.want)
			}
			if snap.User != nil {
				t.Error("user must stay empty")
			}
			if tok, _ := tokens.Get(context.Background()); tok != "" {
				t.Errorf("token = %q, want none", tok)
			}
		})
	}
}

func TestRegisterFailure_Fallback(t *testing.T) {
	api := &fakeAPI{
		register: func(context.Context, domain.RegisterInput) (apiclient.AuthResponse, error) {
			return apiclient.AuthResponse{}, errors.New("timeout")
		},
	}
	slice := state.NewAuthSlice(api, tokenstore.NewMemoryStore(), discardLogger())
	_, _ = slice.Register(context.Background(), domain.RegisterInput{})
	if got := slice.Snapshot().Request.Error(); got != "Registration failed" {
		t.Errorf("error = %q, want Registration failed", got)
	}
}

func TestLoading_TrueWhileRequestOutstanding(t *testing.T) {
	release := make(chan struct{})
	entered := make(chan struct{})
	api := &fakeAPI{
		login: func(context.Context, domain.Credentials) (apiclient.AuthResponse, error) {
			close(entered)
			<-release
			return apiclient.AuthResponse{Token: "t", User: domain.User{ID: "u"}}, nil
		},
	}
	slice := state.NewAuthSlice(api, tokenstore.NewMemoryStore(), discardLogger())

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = slice.Login(context.Background(), domain.Credentials{})
	}()

	<-entered
	if !slice.Snapshot().Request.Loading() {
		t.Error("loading should be true while login is outstanding")
	}
	close(release)
	<-done
	if slice.Snapshot().Request.Loading() {
		t.Error("loading should be false once login settles")
	}
}

func TestStart_ClearsPreviousError(t *testing.T) {
	calls := 0
	release := make(chan struct{})
	entered := make(chan struct{}, 1)
	api := &fakeAPI{
		login: func(context.Context, domain.Credentials) (apiclient.AuthResponse, error) {
			calls++
			if calls == 1 {
				return apiclient.AuthResponse{}, apiErr(http.StatusBadRequest, "bad")
			}
			entered <- struct{}{}
			<-release
			return apiclient.AuthResponse{Token: "t", User: domain.User{ID: "u"}}, nil
		},
	}
	slice := state.NewAuthSlice(api, tokenstore.NewMemoryStore(), discardLogger())
	_, _ = slice.Login(context.Background(), domain.Credentials{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = slice.Login(context.Background(), domain.Credentials{})
	}()
	<-entered
	if got := slice.Snapshot().Request.Error(); got != "" {
		t.Errorf("error during second attempt = %q, want cleared", got)
	}
	close(release)
	<-done
}

func TestCheckAuth_FailureRemovesToken(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	_ = tokens.Set(context.Background(), "stale")
	api := &fakeAPI{
		me: func(context.Context) (domain.User, error) {
			return domain.User{}, apiErr(http.StatusUnauthorized, "Invalid token")
		},
	}
	slice := state.NewAuthSlice(api, tokens, discardLogger())

	if _, err := slice.CheckAuth(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if tok, _ := tokens.Get(context.Background()); tok != "" {
		t.Errorf("token = %q, want removed", tok)
	}
	snap := slice.Snapshot()
	if snap.Authenticated() {
		t.Error("user should be cleared")
	}
	if snap.Request.Error() != "Invalid token" || snap.Request.Loading() {
		t.Errorf("request = %+v", snap.Request)
	}
}

func TestCheckAuth_SuccessReplacesUser(t *testing.T) {
	api := &fakeAPI{
		me: func(context.Context) (domain.User, error) {
			return domain.User{ID: "u1", Email: "a@b.com"}, nil
		},
	}
	slice := state.NewAuthSlice(api, tokenstore.NewMemoryStore(), discardLogger())
	if _, err := slice.CheckAuth(context.Background()); err != nil {
		t.Fatal(err)
	}
	if snap := slice.Snapshot(); snap.User == nil || snap.User.Email != "a@b.com" {
		t.Errorf("user = %+v", snap.User)
	}
}

func TestLogout_ClearsEverythingAndCannotFail(t *testing.T) {
	tokens := tokenstore.NewMemoryStore()
	api := &fakeAPI{
		login: func(context.Context, domain.Credentials) (apiclient.AuthResponse, error) {
			return apiclient.AuthResponse{Token: "t1", User: domain.User{ID: "u1"}}, nil
		},
	}
	slice := state.NewAuthSlice(api, tokens, discardLogger())
	_, _ = slice.Login(context.Background(), domain.Credentials{})

	slice.Logout(context.Background())

	snap := slice.Snapshot()
	if snap.Authenticated() || snap.Request.Loading() {
		t.Errorf("after logout: %+v", snap)
	}
	if tok, _ := tokens.Get(context.Background()); tok != "" {
		t.Errorf("token = %q, want removed", tok)
	}
}

// failingTokens fails every write.
type failingTokens struct{ tokenstore.MemoryStore }

func (f *failingTokens) Set(context.Context, string) error { return errors.New("disk full") }
func (f *failingTokens) Remove(context.Context) error      { return errors.New("disk full") }

func TestLogin_TokenPersistFailureFailsOperation(t *testing.T) {
	api := &fakeAPI{
		login: func(context.Context, domain.Credentials) (apiclient.AuthResponse, error) {
			return apiclient.AuthResponse{Token: "t1", User: domain.User{ID: "u1"}}, nil
		},
	}
	slice := state.NewAuthSlice(api, &failingTokens{}, discardLogger())

	if _, err := slice.Login(context.Background(), domain.Credentials{}); err == nil {
		t.Fatal("expected error when the token cannot be persisted")
	}
	snap := slice.Snapshot()
	if snap.Authenticated() || snap.Request.Error() != "Login failed" {
		t.Errorf("state = %+v", snap)
	}

	slice.Logout(context.Background())
	if snap := slice.Snapshot(); snap.Request.Phase != state.Succeeded {
		t.Errorf("logout must succeed even when the store fails, got %+v", snap.Request)
	}
}

func TestAuthClearError(t *testing.T) {
	api := &fakeAPI{
		login: func(context.Context, domain.Credentials) (apiclient.AuthResponse, error) {
			return apiclient.AuthResponse{}, apiErr(http.StatusBadRequest, "nope")
		},
	}
	slice := state.NewAuthSlice(api, tokenstore.NewMemoryStore(), discardLogger())
	_, _ = slice.Login(context.Background(), domain.Credentials{})
	slice.ClearError()
	if snap := slice.Snapshot(); snap.Request.Phase != state.Idle || snap.Request.Error() != "" {
		t.Errorf("after ClearError: %+v", snap.Request)
	}
}

func TestSnapshot_IsACopy(t *testing.T) {
	api := &fakeAPI{
		me: func(context.Context) (domain.User, error) { return domain.User{ID: "u1"}, nil },
	}
	slice := state.NewAuthSlice(api, tokenstore.NewMemoryStore(), discardLogger())
	_, _ = slice.CheckAuth(context.Background())

	snap := slice.Snapshot()
	snap.User.ID = "mutated"
	if slice.Snapshot().User.ID != "u1" {
		t.Error("mutating a snapshot leaked into the slice")
	}
}
