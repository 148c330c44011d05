// Package gateway is the single place the console talks to the remote ticket
// API. Every call carries the visitor's bearer credential when one is stored,
// every failure is logged once here and returned unchanged, and nothing is
// retried.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-console/internal/config"
	"github.com/spec-kit/ticket-console/internal/observability"
	"github.com/spec-kit/ticket-console/internal/session"
	apperrors "github.com/spec-kit/ticket-console/pkg/util/errorutil"
)

const maxErrorBody = 64 << 10

// Client issues requests to the ticket API.
type Client struct {
	baseURL string
	http    *http.Client
	store   session.Store
	logger  *zap.Logger
	metrics *observability.Metrics
}

// New builds a client for cfg.BaseURL. No client-side timeout is applied; a
// call resolves when the transport does.
func New(cfg config.APIConfig, logger *zap.Logger, metrics *observability.Metrics) *Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
	}
	return NewWithHTTPClient(cfg.BaseURL, &http.Client{Transport: transport}, logger, metrics)
}

// NewWithHTTPClient builds a client over an existing http.Client.
func NewWithHTTPClient(baseURL string, httpClient *http.Client, logger *zap.Logger, metrics *observability.Metrics) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		logger:  logger,
		metrics: metrics,
	}
}

// WithSession returns a client whose calls authenticate with the credential
// held by store.
func (c *Client) WithSession(store session.Store) *Client {
	clone := *c
	clone.store = store
	return &clone
}

type call struct {
	op     string
	method string
	path   string
	query  url.Values
	body   any
}

// do performs one request. When out is nil the response body is discarded;
// otherwise it is decoded into out.
func (c *Client) do(ctx context.Context, req call, out any) error {
	start := time.Now()
	err := c.roundTrip(ctx, req, out)
	c.metrics.RecordAPICall(req.op, time.Since(start), err != nil)
	if err != nil {
		fields := []zap.Field{
			zap.String("op", req.op),
			zap.String("method", req.method),
			zap.String("path", req.path),
			zap.Error(err),
		}
		var httpErr *apperrors.HTTPError
		if errors.As(err, &httpErr) {
			fields = append(fields, zap.Int("status", httpErr.Status), zap.ByteString("body", truncate(httpErr.Body, 512)))
		}
		c.logger.Warn("api request failed", fields...)
	}
	return err
}

func (c *Client) roundTrip(ctx context.Context, req call, out any) error {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", req.op, err)
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", req.op, err)
	}
	httpReq.Header.Set("Accept", "application/json")
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := c.credential(ctx); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return &apperrors.NetworkError{Op: req.op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperrors.HTTPError{Op: req.op, Status: resp.StatusCode, Body: raw}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &apperrors.NetworkError{Op: req.op, Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperrors.DecodeError{Op: req.op, Err: err}
	}
	return nil
}

// credential reads the bearer token; an absent or unreadable session means
// the request goes out unauthenticated.
func (c *Client) credential(ctx context.Context) string {
	if c.store == nil {
		return ""
	}
	sess, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			c.logger.Warn("session unreadable; sending request without credential", zap.Error(err))
		}
		return ""
	}
	return sess.Credential
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}

func pathID(id string) string {
	return url.PathEscape(id)
}

func pageQuery(page, size int) url.Values {
	q := url.Values{}
	q.Set("page", fmt.Sprint(page))
	q.Set("size", fmt.Sprint(size))
	return q
}
