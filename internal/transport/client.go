// Package transport is the HTTP client for the two backend token endpoints.
// It knows nothing about storage or session state; non-2xx statuses collapse
// to ErrRejected without semantic parsing of failure bodies.
package transport

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

	"github.com/rs/zerolog"
)

// ErrRejected is returned when a token endpoint answers with a non-2xx status
// or an unusable body. Callers treat it as a credential problem, not an outage.
var ErrRejected = errors.New("token endpoint rejected the request")

// responseBodyLimit bounds how much of a token response is read.
const responseBodyLimit = 1 << 20

// TokenPair is the issue/renew response payload.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Config defines a public type used by sessionkit APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	BaseURL     string
	TokenPath   string
	RefreshPath string
	HTTPClient  *http.Client
	Logger      zerolog.Logger
}

// Client defines a public type used by sessionkit APIs.
//
// Client instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Client struct {
	http        *http.Client
	base        *url.URL
	tokenPath   string
	refreshPath string
	log         zerolog.Logger
}

// NewClient describes the newclient operation and its observable behavior.
//
// NewClient may return an error when input validation, dependency calls, or security checks fail.
// NewClient does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("backend base URL required")
	}
	base, err := url.Parse(cfg.BaseURL)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.New("invalid backend base URL")
	}
	if cfg.TokenPath == "" || cfg.RefreshPath == "" {
		return nil, errors.New("token and refresh paths required")
	}
	if cfg.HTTPClient == nil {
		// Per-call deadlines come from the caller's context; no global timeout.
		cfg.HTTPClient = &http.Client{}
	}
	return &Client{
		http:        cfg.HTTPClient,
		base:        base,
		tokenPath:   cfg.TokenPath,
		refreshPath: cfg.RefreshPath,
		log:         cfg.Logger,
	}, nil
}

// IssueToken exchanges credentials for a token pair via the form-encoded
// issuance endpoint.
//
// IssueToken may return an error when input validation, dependency calls, or security checks fail.
// IssueToken does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) IssueToken(ctx context.Context, username, password string) (TokenPair, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.tokenPath), strings.NewReader(form.Encode()))
	if err != nil {
		return TokenPair{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	return c.do(req)
}

// Renew exchanges a refresh token for a new token pair.
//
// Renew may return an error when input validation, dependency calls, or security checks fail.
// Renew does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (c *Client) Renew(ctx context.Context, refreshToken string) (TokenPair, error) {
	body, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return TokenPair{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(c.refreshPath), bytes.NewReader(body))
	if err != nil {
		return TokenPair{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req)
}

func (c *Client) endpoint(path string) string {
	ref := &url.URL{Path: path}
	return c.base.ResolveReference(ref).String()
}

func (c *Client) do(req *http.Request) (TokenPair, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		// Unwrap url.Error so callers can classify context deadline hits.
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			return TokenPair{}, urlErr.Err
		}
		return TokenPair{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Debug().Int("status", resp.StatusCode).Str("path", req.URL.Path).Msg("token endpoint refused")
		return TokenPair{}, fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, responseBodyLimit))
	if err != nil {
		return TokenPair{}, err
	}

	var pair TokenPair
	if err := json.Unmarshal(data, &pair); err != nil {
		return TokenPair{}, fmt.Errorf("%w: undecodable token response", ErrRejected)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		return TokenPair{}, fmt.Errorf("%w: incomplete token response", ErrRejected)
	}
	return pair, nil
}
