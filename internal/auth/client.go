package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/falahalshidi/shrfa-app/internal/errs"
	"github.com/falahalshidi/shrfa-app/internal/logger"
)

// Client talks to a GoTrue-style auth REST API (password grant). It keeps the
// current access token so Session() and SignOut() act on the active session.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *logger.Logger

	mu          sync.Mutex
	accessToken string
	listeners   []func(*Principal)
}

func NewClient(baseURL, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

type tokenResponse struct {
	AccessToken string   `json:"access_token"`
	User        authUser `json:"user"`
	Error       string   `json:"error"`
	ErrorCode   string   `json:"error_code"`
	Msg         string   `json:"msg"`
}

type authUser struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	Identities   []json.RawMessage      `json:"identities"`
}

func (c *Client) SignUp(ctx context.Context, email, password string, md Metadata) (*Session, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data": map[string]interface{}{
			"full_name": md.FullName,
			"phone":     md.Phone,
		},
	}
	if md.IsAdmin != nil {
		body["data"].(map[string]interface{})["is_admin"] = *md.IsAdmin
	}

	var resp tokenResponse
	status, err := c.post(ctx, "/signup", body, &resp)
	if err != nil {
		return nil, &errs.TransientIOError{Op: "auth.signup", Err: err}
	}
	if status == http.StatusUnprocessableEntity || isDuplicateMessage(resp.Error, resp.ErrorCode, resp.Msg) {
		return nil, &errs.DuplicateAccountError{Email: email}
	}
	if status != http.StatusOK {
		return nil, &errs.TransientIOError{Op: "auth.signup", Err: fmt.Errorf("status %d: %s", status, resp.Msg)}
	}
	// The provider reports sign-up against an existing email as a success
	// with an empty identities list.
	if len(resp.User.Identities) == 0 {
		return nil, &errs.DuplicateAccountError{Email: email}
	}

	if resp.AccessToken == "" {
		// Email confirmation flows return no session. Sign in explicitly.
		return c.SignIn(ctx, email, password)
	}

	return c.adoptSession(resp)
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {
	body := map[string]string{"email": email, "password": password}

	var resp tokenResponse
	status, err := c.post(ctx, "/token?grant_type=password", body, &resp)
	if err != nil {
		return nil, &errs.TransientIOError{Op: "auth.signin", Err: err}
	}
	if status != http.StatusOK || resp.AccessToken == "" {
		return nil, fmt.Errorf("invalid credentials (status %d)", status)
	}

	return c.adoptSession(resp)
}

func (c *Client) SignOut(ctx context.Context) error {
	c.mu.Lock()
	token := c.accessToken
	c.accessToken = ""
	listeners := append([]func(*Principal){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(nil)
	}

	if token == "" {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/logout", nil)
	if err != nil {
		return err
	}
	c.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &errs.TransientIOError{Op: "auth.signout", Err: err}
	}
	resp.Body.Close()
	return nil
}

func (c *Client) Session(ctx context.Context) (*Principal, error) {
	c.mu.Lock()
	token := c.accessToken
	c.mu.Unlock()

	if token == "" {
		return nil, nil
	}
	return c.UserFromToken(ctx, token)
}

func (c *Client) UserFromToken(ctx context.Context, token string) (*Principal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/user", nil)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &errs.TransientIOError{Op: "auth.user", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("token rejected by auth provider: status %d", resp.StatusCode)
	}

	var u authUser
	if err := json.NewDecoder(resp.Body).Decode(&u); err != nil {
		return nil, &errs.TransientIOError{Op: "auth.user", Err: err}
	}
	return principalFromUser(u), nil
}

func (c *Client) OnSessionChange(fn func(*Principal)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

func (c *Client) adoptSession(resp tokenResponse) (*Session, error) {
	principal := principalFromUser(resp.User)

	c.mu.Lock()
	c.accessToken = resp.AccessToken
	listeners := append([]func(*Principal){}, c.listeners...)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(principal)
	}

	return &Session{AccessToken: resp.AccessToken, Principal: principal}, nil
}

func (c *Client) post(ctx context.Context, path string, body interface{}, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return 0, err
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return resp.StatusCode, err
		}
		if len(raw) > 0 {
			if err := json.Unmarshal(raw, out); err != nil {
				return resp.StatusCode, fmt.Errorf("decode auth response: %w", err)
			}
		}
	}
	return resp.StatusCode, nil
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("apikey", c.apiKey)
	}
}

func principalFromUser(u authUser) *Principal {
	md := Metadata{}
	if v, ok := u.UserMetadata["full_name"].(string); ok {
		md.FullName = v
	}
	if v, ok := u.UserMetadata["phone"].(string); ok {
		md.Phone = v
	}
	if v, ok := u.UserMetadata["is_admin"].(bool); ok {
		md.IsAdmin = &v
	}
	return &Principal{ID: u.ID, Email: u.Email, Metadata: md}
}

func isDuplicateMessage(parts ...string) bool {
	for _, p := range parts {
		lower := strings.ToLower(p)
		if lower == "email_exists" ||
			strings.Contains(lower, "already registered") ||
			strings.Contains(lower, "already exists") {
			return true
		}
	}
	return false
}
