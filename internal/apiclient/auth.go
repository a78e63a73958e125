package apiclient

import (
	"context"
	"net/http"

	"github.com/coursecraft/instructor-console/internal/models"
)

// Login authenticates against the auth API and returns the issued token and
// user. Accounts without instructor rights are rejected here, before any
// console session exists: the whole console is gated on is_instructor.
func (c *Client) Login(ctx context.Context, username, password string) (*models.LoginResponse, error) {
	body := map[string]string{
		"username": username,
		"password": password,
	}
	env, err := c.doJSON(ctx, http.MethodPost, c.authBaseURL+"/user/login", body)
	if err != nil {
		return nil, err
	}

	var result models.LoginResponse
	if err := env.decode(&result); err != nil {
		return nil, err
	}
	if !result.User.IsInstructor {
		return nil, &APIError{
			Kind:    KindAuth,
			Status:  http.StatusForbidden,
			Message: "only instructors may access this console",
		}
	}
	return &result, nil
}

// VerifyToken asks the auth API whether the current bearer token is valid
func (c *Client) VerifyToken(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodGet, c.authBaseURL+"/user/verify", nil, nil, "")
	return err
}

// RefreshToken exchanges the current token for a fresh one
func (c *Client) RefreshToken(ctx context.Context) (string, error) {
	env, err := c.doJSON(ctx, http.MethodPost, c.authBaseURL+"/user/refresh", nil)
	if err != nil {
		return "", err
	}
	var result struct {
		Token string `json:"token"`
	}
	if err := env.decode(&result); err != nil {
		return "", err
	}
	return result.Token, nil
}
