// Package client is a Go client for the console HTTP API.
package client

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	defaultTimeout    = 15 * time.Second
	defaultRetries    = 3
	defaultRetryWait  = 200 * time.Millisecond
	defaultRetryLimit = 2 * time.Second
)

// Config configures a Client.
type Config struct {
	// BaseURL is the API root, including the /api prefix.
	BaseURL    string
	Token      string
	Timeout    time.Duration
	RetryCount int
	RetryWait  time.Duration
	HTTPClient *http.Client
}

// Client calls the console API. It is safe for concurrent use.
type Client struct {
	http *resty.Client

	mu    sync.RWMutex
	token string
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("api error: status=%d message=%s", e.Status, e.Message)
	}
	return fmt.Sprintf("api error: status=%d code=%s message=%s", e.Status, e.Code, e.Message)
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type errorEnvelope struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details any    `json:"details"`
	} `json:"error"`
}

// New builds a client. Transport errors and 5xx responses are retried.
func New(cfg Config) *Client {
	restyClient := resty.New()
	if cfg.HTTPClient != nil {
		restyClient = resty.NewWithClient(cfg.HTTPClient)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	retries := cfg.RetryCount
	if retries < 0 {
		retries = 0
	} else if retries == 0 {
		retries = defaultRetries
	}
	wait := cfg.RetryWait
	if wait <= 0 {
		wait = defaultRetryWait
	}

	restyClient.
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(timeout).
		SetRetryCount(retries).
		SetRetryWaitTime(wait).
		SetRetryMaxWaitTime(defaultRetryLimit).
		AddRetryCondition(shouldRetry)

	return &Client{http: restyClient, token: cfg.Token}
}

// shouldRetry only repeats reads. A write that failed with a 5xx may still
// have committed, so sending it again could record a sale twice.
func shouldRetry(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil {
		return false
	}
	switch resp.Request.Method {
	case http.MethodGet, http.MethodHead:
	default:
		return false
	}
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}

// SetToken replaces the bearer token used on later calls.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

func (c *Client) request(ctx context.Context) *resty.Request {
	req := c.http.R().SetContext(ctx).SetError(&errorEnvelope{})
	if token := c.Token(); token != "" {
		req.SetAuthToken(token)
	}
	return req
}

func call[T any](ctx context.Context, c *Client, method, path string, body any) (T, error) {
	var zero T
	result := &envelope[T]{}
	req := c.request(ctx).SetResult(result)
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		return zero, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.IsError() {
		return zero, decodeError(resp)
	}
	return result.Data, nil
}

func decodeError(resp *resty.Response) error {
	apiErr := &APIError{Status: resp.StatusCode(), Message: http.StatusText(resp.StatusCode())}
	if env, ok := resp.Error().(*errorEnvelope); ok && env != nil && env.Error.Code != "" {
		apiErr.Code = env.Error.Code
		apiErr.Message = env.Error.Message
		apiErr.Details = env.Error.Details
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 APIError.
func IsNotFound(err error) bool {
	apiErr, ok := err.(*APIError)
	return ok && apiErr.Status == http.StatusNotFound
}

// File is a downloaded export.
type File struct {
	Filename    string
	ContentType string
	Body        []byte
}

func (c *Client) download(ctx context.Context, path, format string) (*File, error) {
	resp, err := c.request(ctx).
		SetQueryParam("format", format).
		Get(path)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", path, err)
	}
	if resp.IsError() {
		return nil, decodeError(resp)
	}

	file := &File{ContentType: resp.Header().Get("Content-Type"), Body: resp.Body()}
	if _, params, err := mime.ParseMediaType(resp.Header().Get("Content-Disposition")); err == nil {
		file.Filename = params["filename"]
	}
	return file, nil
}
