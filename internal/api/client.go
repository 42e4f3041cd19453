// Package api is the single dispatch point for calls to the MovieRealm
// backend. It attaches the bearer token when a session exists, classifies
// failures, and reports credential expiry to whoever registered for it.
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
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"movierealm/internal/apierr"
)

const (
	defaultTimeout = 30 * time.Second
	defaultAgent   = "MovieRealmClient/1.0"

	// maxResponseSize caps response bodies to prevent memory issues.
	maxResponseSize = 5 * 1024 * 1024
)

// TokenSource yields the current credential token, or "" when anonymous.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
	limiter    *rate.Limiter
	userAgent  string

	tokens         TokenSource
	onUnauthorized func()
}

type ClientConfig struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit rate.Limit // requests per second, 0 means unlimited
	UserAgent string
	Logger    *logrus.Logger
}

func NewClient(config ClientConfig) *Client {
	if config.Logger == nil {
		config.Logger = logrus.New()
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = defaultAgent
	}
	limit := rate.Limit(rate.Inf)
	if config.RateLimit > 0 {
		limit = config.RateLimit
	}

	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: config.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   10,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		logger:    config.Logger,
		limiter:   rate.NewLimiter(limit, 1),
		userAgent: config.UserAgent,
	}
}

// SetTokenSource wires the session store in after construction; the store
// itself needs the client to log in, so this cannot be a config field.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.tokens = ts
}

// SetUnauthorizedHook registers the function invoked when an authenticated
// call is rejected with 401. Calls marked AuthSurface never trigger it, so
// a failed login cannot cascade into a logout loop.
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.onUnauthorized = fn
}

// Request describes one outbound call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Body   any
	Out    any
	// AuthSurface marks the login/register calls themselves; a 401 on
	// these means bad credentials, not an expired session.
	AuthSurface bool
}

func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query, Out: out})
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Out: out})
}

func (c *Client) Put(ctx context.Context, path string, query url.Values, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Query: query, Body: body, Out: out})
}

func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path, Out: out})
}

// Do dispatches a single request. It never retries; callers decide whether
// an idempotent read is worth reissuing.
func (c *Client) Do(ctx context.Context, r Request) error {
	requestID := uuid.NewString()
	log := c.logger.WithFields(logrus.Fields{
		"request_id": requestID,
		"method":     r.Method,
		"path":       r.Path,
	})

	if err := c.limiter.Wait(ctx); err != nil {
		return apierr.Network(fmt.Sprintf("rate limiter wait aborted: %v", err))
	}

	fullURL := c.baseURL + r.Path
	if len(r.Query) > 0 {
		fullURL += "?" + r.Query.Encode()
	}

	var payload io.Reader
	if r.Body != nil {
		jsonData, err := json.Marshal(r.Body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, fullURL, payload)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("API request failed")
		return apierr.Network(err.Error())
	}
	defer resp.Body.Close()

	body, err := readCappedBody(resp.Body)
	if err != nil {
		log.WithError(err).Warn("Failed to read response body")
		return apierr.Network(err.Error())
	}

	if resp.StatusCode >= 400 {
		apiErr := apierr.FromStatus(resp.StatusCode, extractDetail(body))
		apiErr.RequestID = requestID

		log.WithField("status", resp.StatusCode).Info("API request rejected")

		if apiErr.Kind == apierr.KindUnauthorized && !r.AuthSurface && c.onUnauthorized != nil {
			// Dead token: report upward so the session store can clear
			// persisted credentials instead of replaying failed calls.
			c.onUnauthorized()
		}
		return apiErr
	}

	log.WithFields(logrus.Fields{
		"status":        resp.StatusCode,
		"response_size": len(body),
	}).Debug("API request successful")

	if r.Out != nil && len(body) > 0 {
		if err := json.Unmarshal(body, r.Out); err != nil {
			return apierr.Network(fmt.Sprintf("failed to decode response: %v", err))
		}
	}
	return nil
}

func readCappedBody(body io.Reader) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(body, maxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if len(data) > maxResponseSize {
		return nil, fmt.Errorf("response too large: exceeded %d bytes", maxResponseSize)
	}
	return data, nil
}

// extractDetail pulls the backend's {"detail": "..."} message out of an
// error body; anything unparseable yields "".
func extractDetail(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var wire struct {
		Detail  string `json:"detail"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &wire); err != nil {
		return ""
	}
	if wire.Detail != "" {
		return wire.Detail
	}
	return wire.Message
}
