// Package apiclient is a typed client for the ticketing REST backend.
// Every call is authenticated with the caller's bearer token and bound to
// the caller's context.  Nothing is retried.
package apiclient

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

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/ticketing-gateway/internal/metrics"
)

// maxBodyBytes caps how much of a response is read into memory.
const maxBodyBytes = 8 << 20

// Options configures a Client.  Zero values get defaults.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *logrus.Entry
	Metrics    *metrics.Metrics
}

// Client is shared by all requests; it holds no per-user state.
type Client struct {
	baseURL string
	http    *http.Client
	log     *logrus.Entry
	metrics *metrics.Metrics
}

// New builds a Client.
func New(opts Options) *Client {
	hc := opts.HTTPClient
	if hc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	log := opts.Logger
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http:    hc,
		log:     log,
		metrics: opts.Metrics,
	}
}

// Session binds the client to one bearer token.  Sessions are cheap and
// are created per incoming request.
type Session struct {
	c     *Client
	token string
}

// WithToken returns a Session that authenticates as token.
func (c *Client) WithToken(token string) *Session {
	return &Session{c: c, token: token}
}

// Token is the raw bearer token of the session.
func (s *Session) Token() string { return s.token }

func (s *Session) do(ctx context.Context, op, method, path string, query url.Values, in, out interface{}) error {
	return s.send(ctx, op, method, path, query, in, out, false)
}

// doAck is do for endpoints whose success body is an optional echo of
// the entity; a body that does not decode (plain "OK" text) is ignored.
func (s *Session) doAck(ctx context.Context, op, method, path string, in, out interface{}) error {
	return s.send(ctx, op, method, path, nil, in, out, true)
}

func (s *Session) send(ctx context.Context, op, method, path string, query url.Values, in, out interface{}, ack bool) error {
	u := s.c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	start := time.Now()
	resp, err := s.c.http.Do(req)
	if err != nil {
		s.c.metrics.ObserveUpstream(op, 0, time.Since(start))
		s.c.log.WithFields(logrus.Fields{"operation": op, "error": err.Error()}).Warn("backend call failed")
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	s.c.metrics.ObserveUpstream(op, resp.StatusCode, time.Since(start))

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{StatusCode: resp.StatusCode, Message: extractMessage(resp.StatusCode, raw)}
		s.c.log.WithFields(logrus.Fields{
			"operation": op,
			"status":    resp.StatusCode,
			"error":     apiErr.Message,
		}).Warn("backend rejected request")
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := decodeBody(raw, out); err != nil {
		if ack {
			return nil
		}
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

// decodeBody accepts both bare payloads and {"data": ...} envelopes.
func decodeBody(raw []byte, out interface{}) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var env map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &env); err == nil {
			if data, ok := env["data"]; ok {
				if _, hasID := env["id"]; !hasID {
					return json.Unmarshal(data, out)
				}
			}
		}
	}
	return json.Unmarshal(trimmed, out)
}

func pathID(id string) string { return url.PathEscape(id) }
