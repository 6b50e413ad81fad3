package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/mchen04/penguin-mail/internal/session"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type refreshResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges the user's password for a credential pair and stores
// it. The login call itself carries no bearer credential.
func (c *Client) Login(ctx context.Context, email, password string) error {
	var out loginResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/login", RequestOptions{
		Body: loginRequest{Email: email, Password: password},
	}, &out); err != nil {
		return err
	}

	if err := c.store.Save(session.Credentials{
		Access:  out.AccessToken,
		Refresh: out.RefreshToken,
	}); err != nil {
		return fmt.Errorf("storing credentials: %w", err)
	}
	return nil
}

// Logout tells the server to end the session, then clears the stored
// credentials regardless of the server's answer.
func (c *Client) Logout(ctx context.Context) error {
	err := c.Do(ctx, http.MethodPost, "/auth/logout", RequestOptions{}, nil)
	if clearErr := c.store.Clear(); clearErr != nil {
		return fmt.Errorf("clearing credentials: %w", clearErr)
	}
	return err
}

// refreshAccessToken exchanges the stored refresh token for a new
// access token and replaces only the access half of the pair. It goes
// straight to the refresh endpoint: the usual 401 handling must not
// apply here, a failed refresh is terminal.
func (c *Client) refreshAccessToken(ctx context.Context) error {
	creds, err := c.store.Load()
	if err != nil {
		return fmt.Errorf("loading credentials: %w", err)
	}
	if creds.Refresh == "" {
		return fmt.Errorf("no refresh token stored")
	}

	payload, err := json.Marshal(refreshRequest{RefreshToken: creds.Refresh})
	if err != nil {
		return fmt.Errorf("marshaling refresh request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/auth/refresh", bytes.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("creating refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	body, readErr := io.ReadAll(resp.Body)
	resp.Body.Close()
	if readErr != nil {
		return &NetworkError{Err: readErr}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return serverError(resp.StatusCode, errorDetail(body))
	}

	var out refreshResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("unmarshaling refresh response: %w", err)
	}
	if out.AccessToken == "" {
		return fmt.Errorf("refresh response missing access token")
	}

	creds.Access = out.AccessToken
	if err := c.store.Save(creds); err != nil {
		return fmt.Errorf("storing refreshed credentials: %w", err)
	}
	return nil
}
