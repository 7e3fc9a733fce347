package client

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/thand-io/rbac-migrate/internal/config"
)

// ErrConflict is returned when a create receives a 409. The caller treats
// it as "already exists", not as a failure.
var ErrConflict = errors.New("entity already exists")

// ErrNotFound is returned when a name-filtered lookup matches nothing.
var ErrNotFound = errors.New("entity not found")

// APIError is any non-2xx response other than a conflict on create.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client talks to both API surfaces of the target platform: the legacy
// organization API for reading groups and the v4 API for writing RBAC
// entities. All calls are organization-scoped.
type Client struct {
	rest *resty.Client
	org  string
}

func New(cfg *config.Config) *Client {
	rest := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.API.BaseURL, "/")).
		SetTimeout(30 * time.Second).
		SetHeaders(cfg.Headers())

	return &Client{
		rest: rest,
		org:  cfg.API.Org,
	}
}

func (c *Client) legacyPath(format string, args ...any) string {
	return fmt.Sprintf("/Contrast/api/ng/%s", c.org) + fmt.Sprintf(format, args...)
}

func (c *Client) v4Path(format string, args ...any) string {
	return fmt.Sprintf("/api/v4/organizations/%s", c.org) + fmt.Sprintf(format, args...)
}

func (c *Client) request() *resty.Request {
	return c.rest.R()
}

// checkStatus maps a response onto the error taxonomy. Creates pass
// conflictOK so a 409 comes back as ErrConflict rather than an APIError.
func checkStatus(resp *resty.Response, conflictOK bool) error {
	if resp.IsSuccess() {
		return nil
	}
	if conflictOK && resp.StatusCode() == http.StatusConflict {
		return ErrConflict
	}
	return &APIError{
		StatusCode: resp.StatusCode(),
		Body:       resp.String(),
	}
}
