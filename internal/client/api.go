package client

// API CLIENT:
// A thin typed wrapper over the EmoAI HTTP API, used by the emoai CLI. It
// mirrors the server's handlers one method per endpoint and converts error
// responses back into *APIError values, so callers can branch on the same
// machine-readable types the server emits ("invalid_code", "code_expired", …).

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/emoai/emoai-server/internal/model"
)

// APIError is a non-2xx response from the server, preserving its
// machine-readable type and human-readable message.
type APIError struct {
	Status  int    // HTTP status code
	Type    string `json:"error"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %s (%d): %s", e.Type, e.Status, e.Message)
}

// AuthResult is a successful register/login/verify response.
type AuthResult struct {
	Token string           `json:"token"`
	User  model.PublicUser `json:"user"`
}

// LoginResult is either a completed login (Auth set) or a 2FA challenge
// (Requires2FA set; in demo deployments Code carries the one-time code).
type LoginResult struct {
	Auth        *AuthResult
	Requires2FA bool
	Message     string
	Code        string
}

// ResetRequestResult is the response to a password-reset request.
type ResetRequestResult struct {
	Message string `json:"message"`
	Code    string `json:"code"` // only present in demo deployments
}

// Profile is the /me payload: public profile plus aggregated stats.
type Profile struct {
	User  model.PublicUser `json:"user"`
	Stats model.Stats      `json:"stats"`
}

// Client talks to an EmoAI server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client for the given base URL (e.g. "http://localhost:4000").
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Register creates an account and returns the session token.
func (c *Client) Register(ctx context.Context, name, email, password, institution string) (*AuthResult, error) {
	var out AuthResult
	err := c.post(ctx, "/auth/register", "", map[string]string{
		"name":        name,
		"email":       email,
		"password":    password,
		"institution": institution,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates. When the account has 2FA enabled the result carries a
// challenge instead of a token; complete it with VerifyTwoFactor.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	// The login response has two shapes, so decode into a superset first.
	var raw struct {
		Token       string           `json:"token"`
		User        model.PublicUser `json:"user"`
		Requires2FA bool             `json:"requires2fa"`
		Message     string           `json:"message"`
		Code        string           `json:"code"`
	}
	err := c.post(ctx, "/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	}, &raw)
	if err != nil {
		return nil, err
	}

	if raw.Requires2FA {
		return &LoginResult{Requires2FA: true, Message: raw.Message, Code: raw.Code}, nil
	}
	return &LoginResult{Auth: &AuthResult{Token: raw.Token, User: raw.User}}, nil
}

// VerifyTwoFactor completes a 2FA challenge with the emailed code.
func (c *Client) VerifyTwoFactor(ctx context.Context, email, code string) (*AuthResult, error) {
	var out AuthResult
	err := c.post(ctx, "/auth/verify-2fa", "", map[string]string{
		"email": email,
		"code":  code,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestPasswordReset starts the forgot-password flow. The server answers
// with the same message whether or not the email exists.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (*ResetRequestResult, error) {
	var out ResetRequestResult
	err := c.post(ctx, "/auth/request-password-reset", "", map[string]string{
		"email": email,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword finishes the forgot-password flow. On success the user still
// has to log in — a reset never issues a token.
func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return c.post(ctx, "/auth/reset-password", "", map[string]string{
		"email":       email,
		"code":        code,
		"newPassword": newPassword,
	}, nil)
}

// Me fetches the caller's profile and stats.
func (c *Client) Me(ctx context.Context, token string) (*Profile, error) {
	var out Profile
	if err := c.get(ctx, "/me", token, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateCheckin records a mood check-in for the authenticated user.
func (c *Client) CreateCheckin(ctx context.Context, token, mood, note string) (*model.Checkin, error) {
	var out struct {
		Checkin model.Checkin `json:"checkin"`
	}
	err := c.post(ctx, "/checkins", token, map[string]string{
		"mood": mood,
		"note": note,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out.Checkin, nil
}

// ListCheckins returns the authenticated user's check-in history.
func (c *Client) ListCheckins(ctx context.Context, token string) ([]model.Checkin, error) {
	var out struct {
		Checkins []model.Checkin `json:"checkins"`
	}
	if err := c.get(ctx, "/checkins", token, &out); err != nil {
		return nil, err
	}
	return out.Checkins, nil
}

// Chat sends a message to the support chatbot and returns its reply.
func (c *Client) Chat(ctx context.Context, token, text string) (string, error) {
	var out struct {
		Reply string `json:"reply"`
	}
	err := c.post(ctx, "/chat", token, map[string]string{"text": text}, &out)
	if err != nil {
		return "", err
	}
	return out.Reply, nil
}

// post sends a JSON body and decodes the JSON response into out (if non-nil).
func (c *Client) post(ctx context.Context, path, token string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("client: encoding request: %w", err)
	}
	return c.do(ctx, http.MethodPost, path, token, bytes.NewReader(raw), out)
}

func (c *Client) get(ctx context.Context, path, token string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, token, nil, out)
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("client: reading response: %w", err)
	}

	if resp.StatusCode >= 400 {
		apiErr := &APIError{Status: resp.StatusCode}
		// If the body isn't our error shape, keep the raw text as message.
		if json.Unmarshal(data, apiErr) != nil || apiErr.Type == "" {
			apiErr.Type = "unexpected_response"
			apiErr.Message = string(data)
		}
		return apiErr
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("client: decoding response: %w", err)
		}
	}
	return nil
}
