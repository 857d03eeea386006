package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stellarburger/internal/credentials"
	"stellarburger/internal/models"
)

// DefaultTimeout bounds a single backend request
const DefaultTimeout = 10 * time.Second

// HTTPClient talks to the storefront REST API
type HTTPClient struct {
	httpClient  *http.Client
	BaseURL     string
	Credentials credentials.Reader
}

// NewHTTPClient creates a client for baseURL (e.g. "https://host/api"). The
// access token for authorised calls is read from creds on every request.
func NewHTTPClient(baseURL string, creds credentials.Reader, timeout time.Duration) *HTTPClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPClient{
		httpClient:  &http.Client{Timeout: timeout},
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Credentials: creds,
	}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// FetchCatalog gets the ingredient list
func (c *HTTPClient) FetchCatalog(ctx context.Context) ([]models.Ingredient, error) {
	var out struct {
		Data []models.Ingredient `json:"data"`
	}
	if err := c.do(ctx, http.MethodGet, "/ingredients", nil, false, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// FetchFeed gets the latest page of the public feed
func (c *HTTPClient) FetchFeed(ctx context.Context) (models.FeedPage, error) {
	var out models.FeedPage
	if err := c.do(ctx, http.MethodGet, "/orders/all", nil, false, &out); err != nil {
		return models.FeedPage{}, err
	}
	return out, nil
}

// FetchProfile gets the user behind the current access token
func (c *HTTPClient) FetchProfile(ctx context.Context) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/auth/user", nil, true, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// Register creates an account
func (c *HTTPClient) Register(ctx context.Context, data models.RegisterData) (models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", data, false, &out); err != nil {
		return models.AuthResponse{}, err
	}
	return out, nil
}

// Login exchanges credentials for a token pair
func (c *HTTPClient) Login(ctx context.Context, data models.LoginData) (models.AuthResponse, error) {
	var out models.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", data, false, &out); err != nil {
		return models.AuthResponse{}, err
	}
	return out, nil
}

// Logout revokes refreshToken
func (c *HTTPClient) Logout(ctx context.Context, refreshToken string) error {
	body := map[string]string{"token": refreshToken}
	return c.do(ctx, http.MethodPost, "/auth/logout", body, false, nil)
}

// RefreshToken trades refreshToken for a new token pair
func (c *HTTPClient) RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	var out models.TokenPair
	body := map[string]string{"token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/auth/token", body, false, &out); err != nil {
		return models.TokenPair{}, err
	}
	return out, nil
}

// UpdateProfile patches the current user
func (c *HTTPClient) UpdateProfile(ctx context.Context, data models.ProfileUpdate) (models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodPatch, "/auth/user", data, true, &out); err != nil {
		return models.User{}, err
	}
	return out.User, nil
}

// ForgotPassword starts password recovery for email
func (c *HTTPClient) ForgotPassword(ctx context.Context, email string) error {
	return c.do(ctx, http.MethodPost, "/password-reset", map[string]string{"email": email}, false, nil)
}

// ResetPassword completes password recovery
func (c *HTTPClient) ResetPassword(ctx context.Context, data models.PasswordReset) error {
	return c.do(ctx, http.MethodPost, "/password-reset/reset", data, false, nil)
}

// SubmitOrder places an order
func (c *HTTPClient) SubmitOrder(ctx context.Context, ingredientIDs []string) (models.Order, error) {
	var out struct {
		Order models.Order `json:"order"`
	}
	body := map[string][]string{"ingredients": ingredientIDs}
	if err := c.do(ctx, http.MethodPost, "/orders", body, true, &out); err != nil {
		return models.Order{}, err
	}
	return out.Order, nil
}

// FetchAllOrders gets the current user's orders
func (c *HTTPClient) FetchAllOrders(ctx context.Context) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders", nil, true, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// FetchOrderByNumber looks an order up by number. The backend answers with a list
func (c *HTTPClient) FetchOrderByNumber(ctx context.Context, number int) ([]models.Order, error) {
	var out struct {
		Orders []models.Order `json:"orders"`
	}
	if err := c.do(ctx, http.MethodGet, "/orders/"+strconv.Itoa(number), nil, false, &out); err != nil {
		return nil, err
	}
	return out.Orders, nil
}

// do sends one request and decodes the JSON envelope. Non-2xx responses and
// envelopes with success=false become *Error.
func (c *HTTPClient) do(ctx context.Context, method, path string, in any, auth bool, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Content-Type", "application/json;charset=utf-8")
	if auth && c.Credentials != nil {
		if token := c.Credentials.AccessToken(); token != "" {
			req.Header.Set("Authorization", token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s %s: %w", method, path, err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	if resp.StatusCode >= 300 || !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s %s: %w", method, path, err)
		}
	}
	return nil
}
