package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/panelops/panelops-backend/pkg/config"
	pkgerrors "github.com/panelops/panelops-backend/pkg/errors"
	"github.com/panelops/panelops-backend/pkg/logger"
)

const maxErrorBodyBytes = 512

var errBaseURLRequired = errors.New("upstream base url is required")

// Observer receives the outcome of every upstream call. Implemented by
// pkg/metrics; nil observers are skipped.
type Observer interface {
	ObserveUpstream(source, method string, status int, duration time.Duration)
}

// Client centralizes auth, JSON decoding, error mapping, and logging for one
// upstream REST collaborator.
type Client struct {
	source   string
	baseURL  string
	token    string
	http     *http.Client
	logger   *logger.Logger
	observer Observer
}

// New validates the upstream configuration and builds a client for it.
func New(source string, cfg config.UpstreamConfig, logg *logger.Logger) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("%s: %w", source, errBaseURLRequired)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		source:  source,
		baseURL: baseURL,
		token:   strings.TrimSpace(cfg.Token),
		http:    &http.Client{Timeout: timeout},
		logger:  logg,
	}, nil
}

// WithObserver attaches a metrics observer and returns the client.
func (c *Client) WithObserver(obs Observer) *Client {
	c.observer = obs
	return c
}

// Source reports which upstream this client talks to.
func (c *Client) Source() string {
	return c.source
}

// Get issues a GET request and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

// Put issues a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

// Patch issues a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

// Delete issues a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// Ping checks the upstream health endpoint. Used by the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build upstream request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(method, 0, time.Since(start))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, c.source+" unreachable")
	}
	defer resp.Body.Close()
	c.observe(method, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		up := &pkgerrors.Upstream{
			Source: c.source,
			Status: resp.StatusCode,
			Body:   string(snippet),
		}
		code := pkgerrors.CodeForUpstreamStatus(resp.StatusCode)
		return pkgerrors.Wrap(code, up, c.source+" request failed")
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode "+c.source+" response")
	}
	return nil
}

func (c *Client) observe(method string, status int, duration time.Duration) {
	if c.observer != nil {
		c.observer.ObserveUpstream(c.source, method, status, duration)
	}
}
