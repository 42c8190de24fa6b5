// Package identity implements ports.AuthGateway against the skilldrones
// identity backend: form-encoded requests, JSON responses, and a session
// carried in cookies. Transport failures are converted into the closed
// error taxonomy in internal/errors before they leave this package.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	domainauth "github.com/skilldrones/regionview/internal/domain/auth"
	errs "github.com/skilldrones/regionview/internal/errors"
	"github.com/skilldrones/regionview/internal/ports"
)

const defaultTimeout = 10 * time.Second

// Options groups dependencies for Client.
type Options struct {
	// BaseURL is the identity backend base URL, e.g. "https://api.skilldrones.io".
	BaseURL string
	// Timeout bounds each request; zero means the 10s default.
	Timeout time.Duration
	// Hints is cleared whenever the backend reports the session invalid.
	Hints ports.HintStore
	// Logger is optional.
	Logger *slog.Logger
}

// Client talks to the identity backend. The embedded cookie jar carries the
// session cookie between calls, so a Client instance represents one browser
// -like session.
type Client struct {
	http    *http.Client
	baseURL string
	hints   ports.HintStore
	logger  *slog.Logger
}

var _ ports.AuthGateway = (*Client)(nil)

// NewClient constructs a Client with its own cookie jar.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.Hints == nil {
		return nil, fmt.Errorf("hint store is required")
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		http:    &http.Client{Jar: jar, Timeout: timeout},
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		hints:   opts.Hints,
		logger:  logger,
	}, nil
}

// loginResponse is the success shape of POST /auth/login.
type loginResponse struct {
	Result bool `json:"result"`
}

// logoutResponse is the success shape of GET /auth/logout.
type logoutResponse struct {
	Result bool `json:"result"`
}

// registerResponse is the success shape of POST /user.
type registerResponse struct {
	Success bool `json:"success"`
}

// errorResponse is the error body shape the backend may send.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Login authenticates with credentials via POST /auth/login.
func (c *Client) Login(ctx context.Context, email, password string) error {
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	var out loginResponse
	return c.postForm(ctx, "/auth/login", form, &out)
}

// Logout terminates the backend session via GET /auth/logout.
func (c *Client) Logout(ctx context.Context) error {
	var out logoutResponse
	return c.get(ctx, "/auth/logout", &out)
}

// Register creates a new account via POST /user. It does not establish a session.
func (c *Client) Register(ctx context.Context, in ports.RegisterInput) error {
	form := url.Values{}
	form.Set("email", in.Email)
	form.Set("password", in.Password)
	form.Set("name", in.Name)
	form.Set("surname", in.Surname)

	var out registerResponse
	return c.postForm(ctx, "/user", form, &out)
}

// GetProfile fetches the authenticated user's profile via GET /profile.
func (c *Client) GetProfile(ctx context.Context) (domainauth.UserProfile, error) {
	var profile domainauth.UserProfile
	if err := c.get(ctx, "/profile", &profile); err != nil {
		return domainauth.UserProfile{}, err
	}
	if err := profile.Validate(); err != nil {
		return domainauth.UserProfile{}, errs.Wrap(err, errs.ErrCodeServerFault, "Unexpected response from server")
	}
	return profile, nil
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return errs.Wrap(err, errs.ErrCodeServerFault, "Request error")
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return errs.Wrap(err, errs.ErrCodeServerFault, "Request error")
	}
	return c.do(req, out)
}

// do executes the request and decodes a 2xx body into out. Any other
// outcome is classified into the error taxonomy.
func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-Id", uuid.NewString())

	resp, err := c.http.Do(req)
	if err != nil {
		// No response received: DNS failure, refused connection, timeout.
		return errs.Wrap(err, errs.ErrCodeNetworkUnreachable, "Network error: No response received")
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			c.logger.Warn("close response body", "error", cerr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.classify(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errs.Wrap(err, errs.ErrCodeServerFault, "Unexpected response from server")
	}
	return nil
}

// classify maps a non-2xx response onto the error taxonomy. An invalid
// session (401/403) additionally clears the locally persisted hints so a
// dead session is not remembered across restarts.
func (c *Client) classify(resp *http.Response) error {
	message := errorMessage(resp.Body)

	switch resp.StatusCode {
	case http.StatusBadRequest:
		return errs.BadRequest("Invalid credentials")
	case http.StatusUnauthorized:
		c.clearHints()
		return errs.Unauthorizedf("Unauthorized: %s", message)
	case http.StatusForbidden:
		c.clearHints()
		return errs.Forbiddenf("Forbidden: %s", message)
	case http.StatusNotFound:
		return errs.NotFoundf("Not found: %s", message)
	case http.StatusConflict:
		return errs.Conflict("User already exists")
	default:
		return errs.ServerFault(resp.StatusCode, fmt.Sprintf("Server error: %d - %s", resp.StatusCode, message))
	}
}

func (c *Client) clearHints() {
	if err := c.hints.Clear(); err != nil {
		c.logger.Warn("clear session hints", "error", err)
	}
}

// errorMessage extracts the backend's error text from a failure body.
func errorMessage(body io.Reader) string {
	var parsed errorResponse
	if err := json.NewDecoder(body).Decode(&parsed); err == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return "Unknown error"
}
