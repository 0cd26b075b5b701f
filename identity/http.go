package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/casewise/sessionkit/observe"
)

// HTTPClient is the JSON-over-HTTP implementation of Client.
type HTTPClient struct {
	config     Config
	httpClient *http.Client
	logger     observe.Logger
}

// NewHTTPClient creates an HTTPClient. A nil logger gets a no-op one.
func NewHTTPClient(config Config, logger observe.Logger) (*HTTPClient, error) {
	config.applyDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = observe.NopLogger()
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: config.Timeout}
	}

	return &HTTPClient{
		config:     config,
		httpClient: httpClient,
		logger:     logger.WithComponent("identity"),
	}, nil
}

// loginResponse is the wire shape of a successful login.
type loginResponse struct {
	Tokens TokenPair `json:"tokens"`
	User   User      `json:"user"`
}

// refreshResponse is the wire shape of a successful refresh. Refresh is
// present only when the service rotated the refresh token.
type refreshResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// errorResponse is the wire shape of a structured failure.
type errorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors"`
}

// Login exchanges credentials for a token pair and user.
func (c *HTTPClient) Login(ctx context.Context, identifier, password string) (*TokenPair, *User, error) {
	body := map[string]string{"identifier": identifier, "password": password}

	status, data, err := c.do(ctx, http.MethodPost, c.config.LoginPath, body, "")
	if err != nil {
		return nil, nil, err
	}

	switch {
	case status == http.StatusOK:
		var resp loginResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, nil, fmt.Errorf("identity: decode login response: %w", err)
		}
		return &resp.Tokens, &resp.User, nil
	case status == http.StatusUnauthorized:
		return nil, nil, ErrInvalidCredentials
	case status == http.StatusForbidden && decodeErrorCode(data) == "account_disabled":
		return nil, nil, ErrAccountDisabled
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		return nil, nil, decodeValidationError(data)
	default:
		return nil, nil, fmt.Errorf("identity: login: unexpected status %d", status)
	}
}

// Register creates an account. No tokens are returned: the two-step
// register-then-login contract is the service's, not an omission here.
func (c *HTTPClient) Register(ctx context.Context, reg Registration) (*User, error) {
	if err := reg.Validate(); err != nil {
		return nil, err
	}

	status, data, err := c.do(ctx, http.MethodPost, c.config.RegisterPath, reg, "")
	if err != nil {
		return nil, err
	}

	switch {
	case status == http.StatusOK || status == http.StatusCreated:
		var user User
		if err := json.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("identity: decode register response: %w", err)
		}
		return &user, nil
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity ||
		status == http.StatusConflict:
		return nil, decodeValidationError(data)
	default:
		return nil, fmt.Errorf("identity: register: unexpected status %d", status)
	}
}

// Refresh exchanges a refresh token for a new access token. An empty
// Refresh in the returned pair means the token was not rotated.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	body := map[string]string{"refresh": refreshToken}

	status, data, err := c.do(ctx, http.MethodPost, c.config.RefreshPath, body, "")
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var resp refreshResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return nil, fmt.Errorf("identity: decode refresh response: %w", err)
		}
		return &TokenPair{Access: resp.Access, Refresh: resp.Refresh}, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrRefreshTokenInvalid
	default:
		return nil, fmt.Errorf("identity: refresh: unexpected status %d", status)
	}
}

// CurrentUser fetches the authoritative user for the access token.
func (c *HTTPClient) CurrentUser(ctx context.Context, accessToken string) (*User, error) {
	status, data, err := c.do(ctx, http.MethodGet, c.config.CurrentUserPath, nil, accessToken)
	if err != nil {
		return nil, err
	}

	switch status {
	case http.StatusOK:
		var user User
		if err := json.Unmarshal(data, &user); err != nil {
			return nil, fmt.Errorf("identity: decode user response: %w", err)
		}
		return &user, nil
	case http.StatusUnauthorized:
		return nil, ErrUnauthorized
	default:
		return nil, fmt.Errorf("identity: current user: unexpected status %d", status)
	}
}

// do executes one request and returns status and body. Transport failures
// wrap ErrNetwork.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, accessToken string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("identity: encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	url := strings.TrimRight(c.config.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("identity: create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn(ctx, "identity request failed",
			observe.Field{Key: "method", Value: method},
			observe.Field{Key: "path", Value: path},
			observe.Field{Key: "request_id", Value: requestID},
		)
		return 0, nil, fmt.Errorf("%w: %s %s: %v", ErrNetwork, method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: read response: %v", ErrNetwork, err)
	}

	c.logger.Debug(ctx, "identity request",
		observe.Field{Key: "method", Value: method},
		observe.Field{Key: "path", Value: path},
		observe.Field{Key: "status", Value: resp.StatusCode},
		observe.Field{Key: "request_id", Value: requestID},
	)
	return resp.StatusCode, data, nil
}

// decodeErrorCode extracts the machine-readable code from an error body.
func decodeErrorCode(data []byte) string {
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return ""
	}
	return resp.Code
}

// decodeValidationError converts an error body into a *ValidationError.
func decodeValidationError(data []byte) error {
	var resp errorResponse
	if err := json.Unmarshal(data, &resp); err != nil || len(resp.Errors) == 0 {
		return &ValidationError{}
	}
	return &ValidationError{Fields: resp.Errors}
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
