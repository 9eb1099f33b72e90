package apiclient

import (
	"context"
	"net/http"

	"github.com/ErlanBelekov/bookshelf/internal/domain"
)

// AuthResponse is the body of a successful register or login.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type meResponse struct {
	User domain.User `json:"user"`
}

func (c *Client) Register(ctx context.Context, in domain.RegisterInput) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, "auth.register", http.MethodPost, "/auth/register", in, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

func (c *Client) Login(ctx context.Context, creds domain.Credentials) (AuthResponse, error) {
	var resp AuthResponse
	if err := c.doJSON(ctx, "auth.login", http.MethodPost, "/auth/login", creds, &resp); err != nil {
		return AuthResponse{}, err
	}
	return resp, nil
}

// Me returns the user the stored token belongs to.
func (c *Client) Me(ctx context.Context) (domain.User, error) {
	var resp meResponse
	if err := c.doJSON(ctx, "auth.me", http.MethodGet, "/auth/me", nil, &resp); err != nil {
		return domain.User{}, err
	}
	return resp.User, nil
}
