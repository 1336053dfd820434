package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"presence/internal/attendance"
	"presence/internal/session"
)

// Client calls the attendance backend. Protected requests carry
// "Authorization: Bearer <token>" sourced from the token source on every
// call, so a login or logout is picked up immediately.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	token   func() string
}

// New creates a client. tokenSource may return "" while signed out.
func New(baseURL string, timeout time.Duration, tokenSource func() string) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if tokenSource == nil {
		tokenSource = func() string { return "" }
	}
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: timeout},
		token:   tokenSource,
	}
}

// Login exchanges credentials for a session. The response token plus any
// extra claims become the session payload.
func (c *Client) Login(ctx context.Context, email, password string) (session.Session, error) {
	body, _ := json.Marshal(map[string]string{"email": email, "password": password})
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/auth/login", bytes.NewReader(body))
	if err != nil {
		return session.Session{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return session.Session{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		msg := readMessage(resp.Body)
		if msg == "" {
			msg = resp.Status
		}
		return session.Session{}, fmt.Errorf("%w: %s", ErrInvalidCredentials, msg)
	}

	var raw map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return session.Session{}, fmt.Errorf("decode login response: %w", err)
	}
	tok, _ := raw["token"].(string)
	if tok == "" {
		return session.Session{}, fmt.Errorf("%w: no token in response", ErrInvalidCredentials)
	}
	delete(raw, "token")
	return session.Session{Token: tok, Claims: raw}, nil
}

// Status fetches the current day's attendance record.
func (c *Client) Status(ctx context.Context) (attendance.Status, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/attendance/status", nil)
	if err != nil {
		return attendance.Status{}, err
	}
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return attendance.Status{}, fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return attendance.Status{}, &StatusError{Code: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	var out struct {
		Data attendance.Status `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return attendance.Status{}, fmt.Errorf("decode status response: %w", err)
	}
	return out.Data, nil
}

// Submit sends one action-shaped attendance record.
func (c *Client) Submit(ctx context.Context, sub attendance.Submission) error {
	body, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/attendance", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	c.authorize(req)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &StatusError{Code: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) authorize(req *http.Request) {
	if tok := c.token(); tok != "" {
		req.Header.Set("Authorization", "Bearer "+tok)
	}
}

// readMessage pulls the conventional {"message": "..."} text out of an error
// body, tolerating anything else.
func readMessage(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, 1<<16))
	if err != nil {
		return ""
	}
	var out struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &out) == nil && out.Message != "" {
		return out.Message
	}
	return ""
}
