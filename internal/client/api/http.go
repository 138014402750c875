package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/mlodewijk/modcat/internal/client/models"
	"github.com/mlodewijk/modcat/internal/common"
)

// apiError is the tagged error body the server returns on failures.
type apiError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// HTTPClient talks to the modcat backend over REST.
type HTTPClient struct {
	baseURL     *url.URL
	httpClient  *http.Client
	accessToken string
}

// NewHTTPClient constructs an HTTPClient against the given base URL
// (e.g. "http://localhost:3000").
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse baseURL: %w", err)
	}
	return &HTTPClient{
		baseURL:    parsed,
		httpClient: &http.Client{Timeout: timeout},
	}, nil
}

// SetAccessToken sets the bearer token attached to subsequent requests.
// An empty string detaches it.
func (c *HTTPClient) SetAccessToken(token string) {
	c.accessToken = token
}

// do performs one request. A nil body sends no payload; out, when non-nil,
// receives the decoded success body. Failure statuses are mapped to the
// package sentinels, transport errors to ErrUnavailable.
func (c *HTTPClient) do(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}

	u := c.baseURL.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.accessToken != "" {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return c.mapError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return err
		}
	}
	return nil
}

func (c *HTTPClient) mapError(resp *http.Response) error {
	var body apiError
	_ = json.NewDecoder(resp.Body).Decode(&body)

	msg := body.Message
	if msg == "" {
		msg = resp.Status
	}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrConflict, msg)
	default:
		return fmt.Errorf("server error (%d): %s", resp.StatusCode, msg)
	}
}

func (c *HTTPClient) Register(ctx context.Context, firstname, lastname, email, password string) (*models.AuthResult, error) {
	req := map[string]string{
		"firstname": firstname,
		"lastname":  lastname,
		"email":     email,
		"password":  password,
	}
	var result models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResult, error) {
	req := map[string]string{"email": email, "password": password}
	var result models.AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Logout notifies the server for symmetry; the session itself is discarded
// locally by the caller.
func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) UpdateEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPut, "/api/users/email", map[string]string{"email": email}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) AddFavorite(ctx context.Context, fav models.Favorite) (*models.User, error) {
	var user models.User
	if err := c.do(ctx, http.MethodPost, "/api/users/favorites", fav, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, moduleID string) (*models.User, error) {
	var user models.User
	path := "/api/users/favorites/" + url.PathEscape(moduleID)
	if err := c.do(ctx, http.MethodDelete, path, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
