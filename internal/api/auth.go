package api

import (
	"context"
	"net/http"

	"github.com/dtran/maildash/internal/model"
)

// AuthResponse is the payload returned by login.
type AuthResponse struct {
	User         model.User `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

// Login authenticates with the server and stores the issued token
// pair in the session store. It bypasses the bearer/refresh machinery:
// a 401 here means bad credentials, not an expired session.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	ctx, cancel := context.WithTimeout(ctx, c.defaultTimeout)
	defer cancel()

	var resp AuthResponse
	err := c.send(ctx, http.MethodPost, "/auth/login", "",
		map[string]string{"email": email, "password": password}, &resp)
	if err != nil {
		return nil, err
	}

	if err := c.tokens.SetTokens(resp.AccessToken, resp.RefreshToken); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Logout drops the stored session tokens. The server keeps no
// session state beyond token validity, so this is purely local.
func (c *Client) Logout() {
	c.tokens.Clear()
}

// HasSession reports whether an access token is stored.
func (c *Client) HasSession() bool {
	return c.tokens.AccessToken() != ""
}
