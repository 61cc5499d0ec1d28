package api

import (
	"context"
	"net/http"
	"net/url"

	"till/internal/catalog"
)

// Login authenticates with username and password. The endpoint follows the
// OAuth2 password-form convention, so the body is form-encoded.
func (c *Client) Login(ctx context.Context, username, password string) (*catalog.Token, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)
	var out catalog.Token
	if err := c.doForm(ctx, "/auth/login", form, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LoginPIN authenticates a cashier with their PIN code.
func (c *Client) LoginPIN(ctx context.Context, pin string) (*catalog.Token, error) {
	body := map[string]string{"pin_code": pin}
	var out catalog.Token
	if err := c.do(ctx, http.MethodPost, "/auth/pin-login", body, &out, false); err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the user the current token belongs to. Handy to verify a stored
// session is still valid before opening the cashier screen.
func (c *Client) Me(ctx context.Context) (*catalog.User, error) {
	var out catalog.User
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists all users (admin only).
func (c *Client) Users(ctx context.Context) ([]catalog.User, error) {
	var out []catalog.User
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, &out, true); err != nil {
		return nil, err
	}
	return out, nil
}

// UserCreate is the payload for CreateUser.
type UserCreate struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	PinCode  string `json:"pin_code"`
	Role     string `json:"role"`
	StoreID  string `json:"store_id,omitempty"`
}

// CreateUser creates an operator account (admin only).
func (c *Client) CreateUser(ctx context.Context, in UserCreate) (*catalog.User, error) {
	var out catalog.User
	if err := c.do(ctx, http.MethodPost, "/admin/users", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser patches the given fields of a user (admin only).
func (c *Client) UpdateUser(ctx context.Context, id string, fields map[string]any) (*catalog.User, error) {
	var out catalog.User
	if err := c.do(ctx, http.MethodPatch, "/admin/users/"+url.PathEscape(id), fields, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}
