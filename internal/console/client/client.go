// Package client is the console's HTTP gateway to the admin API. Every failure
// comes back as an apperrors value so callers can branch on its Kind.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/yigit/schooladmin/internal/app/models"
	"github.com/yigit/schooladmin/internal/app/models/dto"
	"github.com/yigit/schooladmin/internal/pkg/apperrors"
)

// APIPrefix is prepended to every resource path.
const APIPrefix = "/api/v1"

// DefaultTimeout bounds every request unless overridden.
const DefaultTimeout = 10 * time.Second

// Client talks to one API server.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger

	mu    sync.RWMutex
	token string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the server at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken replaces the bearer token.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// Login exchanges credentials for an access token and keeps it for later requests.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.TokenResponse, error) {
	var token dto.TokenResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", dto.LoginRequest{Email: email, Password: password}, &token); err != nil {
		return nil, err
	}
	c.SetToken(token.AccessToken)
	return &token, nil
}

// Semesters lists the reference semesters.
func (c *Client) Semesters(ctx context.Context) ([]models.Semester, error) {
	var out []models.Semester
	if err := c.do(ctx, http.MethodGet, "/semesters", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *errorBody      `json:"error"`
}

type errorBody struct {
	Code    dto.ErrorCode   `json:"code"`
	Message string          `json:"message"`
	Field   string          `json:"field"`
	Details json.RawMessage `json:"details"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+APIPrefix+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return apperrors.NewNetworkError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewNetworkError(err)
	}
	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("request")

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode >= http.StatusBadRequest {
			return decodeError(resp.StatusCode, nil)
		}
		return fmt.Errorf("decode response: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		return decodeError(resp.StatusCode, env.Error)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode response data: %w", err)
	}
	return nil
}

// decodeError maps a failed response back to an apperrors kind.
func decodeError(status int, body *errorBody) error {
	msg := http.StatusText(status)
	var field string
	var code dto.ErrorCode
	var details json.RawMessage
	if body != nil {
		if body.Message != "" {
			msg = body.Message
		}
		field, code, details = body.Field, body.Code, body.Details
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(field, msg).WithCode(string(code))
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperrors.NewAuthorizationError(msg).WithCode(string(code))
	case http.StatusNotFound:
		return apperrors.NewResourceNotFoundError(msg).WithCode(string(code))
	case http.StatusConflict:
		var cd dto.ConflictDetails
		if len(details) > 0 && json.Unmarshal(details, &cd) == nil && cd.Field != "" {
			return apperrors.NewConflictError(cd.Field, cd.Value, msg).WithCode(string(code))
		}
		return apperrors.NewRelationConflictError(errors.New(msg)).WithCode(string(code))
	default:
		return (&apperrors.CustomError{Kind: apperrors.KindInternal, Message: msg}).WithCode(string(code))
	}
}
