package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/n0l0g0/pos-frontend/pkg/errors"
)

const errorBodyReadLimit int64 = 1024

// TokenSource supplies the bearer token attached to authenticated calls.
// An empty token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// UnauthorizedHook runs whenever any endpoint answers 401, before the error
// is returned to the caller. Used to tear the local session down.
type UnauthorizedHook func(ctx context.Context)

// Client talks to the remote POS API. All persistent data lives behind it.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	tokens         TokenSource
	onUnauthorized UnauthorizedHook
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTokenSource attaches the session's bearer token to every call.
func WithTokenSource(tokens TokenSource) Option {
	return func(c *Client) {
		c.tokens = tokens
	}
}

// WithUnauthorizedHook registers the session teardown callback.
func WithUnauthorizedHook(hook UnauthorizedHook) Option {
	return func(c *Client) {
		c.onUnauthorized = hook
	}
}

// WithTimeout overrides the default HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// NewClient builds the API client for the given base URL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimSpace(baseURL)
	if trimmed == "" {
		return nil, fmt.Errorf("api base url is required")
	}

	client := &Client{
		baseURL:    strings.TrimRight(trimmed, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Login exchanges credentials for a bearer token.
func (c *Client) Login(ctx context.Context, email, password string) (*Credentials, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}
	body := map[string]string{"email": email, "password": password}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "auth/login", nil, body, &creds); err != nil {
		return nil, err
	}
	if creds.Token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeTransport, "login response missing token")
	}
	return &creds, nil
}

// Me returns the authenticated user's identity for the cashier field.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) ListProducts(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := c.do(ctx, http.MethodGet, "products", nil, nil, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) CreateProduct(ctx context.Context, input ProductInput) error {
	return c.do(ctx, http.MethodPost, "products", nil, input, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, input ProductInput) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.do(ctx, http.MethodPut, "products/"+url.PathEscape(id), nil, input, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	return c.do(ctx, http.MethodDelete, "products/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) ListUnits(ctx context.Context) ([]Unit, error) {
	var units []Unit
	if err := c.do(ctx, http.MethodGet, "units", nil, nil, &units); err != nil {
		return nil, err
	}
	return units, nil
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.do(ctx, http.MethodGet, "users", nil, nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindUserByEmail resolves a single account through the filtered listing.
func (c *Client) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	query := url.Values{"email": {email}}
	var users []User
	if err := c.do(ctx, http.MethodGet, "users", query, nil, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no user with that email")
	}
	return &users[0], nil
}

func (c *Client) CreateUser(ctx context.Context, input UserInput) error {
	return c.do(ctx, http.MethodPost, "users", nil, input, nil)
}

func (c *Client) UpdateUser(ctx context.Context, id string, input UserInput) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return c.do(ctx, http.MethodPut, "users/"+url.PathEscape(id), nil, input, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	return c.do(ctx, http.MethodDelete, "users/"+url.PathEscape(id), nil, nil, nil)
}

func (c *Client) SetUserPassword(ctx context.Context, id, password string) error {
	if strings.TrimSpace(id) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if password == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}
	body := map[string]string{"password": password}
	return c.do(ctx, http.MethodPut, "users/"+url.PathEscape(id)+"/password", nil, body, nil)
}

func (c *Client) ListSales(ctx context.Context) ([]Sale, error) {
	var sales []Sale
	if err := c.do(ctx, http.MethodGet, "sales", nil, nil, &sales); err != nil {
		return nil, err
	}
	return sales, nil
}

// CreateSale submits a finalized sale once. No retry: on failure the caller's
// cart stays intact for a manual retry.
func (c *Client) CreateSale(ctx context.Context, sale Sale) error {
	if sale.ReceiptID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "receipt id is required")
	}
	if len(sale.Cart) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "sale must contain at least one line")
	}
	return c.do(ctx, http.MethodPost, "sales", nil, sale, nil)
}

func (c *Client) ListAuditEntries(ctx context.Context) ([]AuditEntry, error) {
	var entries []AuditEntry
	if err := c.do(ctx, http.MethodGet, "audit-log", nil, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := fmt.Sprintf("%s/%s", c.baseURL, strings.TrimLeft(path, "/"))
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("%s %s", method, path))
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized(ctx)
		}
		return pkgerrors.New(pkgerrors.CodeUnauthorized, fmt.Sprintf("%s %s: unauthorized", method, path))
	}
	if resp.StatusCode == http.StatusNotFound {
		return pkgerrors.New(pkgerrors.CodeNotFound, fmt.Sprintf("%s %s: not found", method, path))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, errorBodyReadLimit))
		return pkgerrors.New(pkgerrors.CodeSubmission,
			fmt.Sprintf("%s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(msg))))
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeTransport, err, fmt.Sprintf("decode %s %s response", method, path))
	}
	return nil
}
