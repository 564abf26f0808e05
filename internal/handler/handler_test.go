package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/ticketing-gateway/internal/apiclient"
	"github.com/iliyamo/ticketing-gateway/internal/handler"
	"github.com/iliyamo/ticketing-gateway/internal/logger"
	"github.com/iliyamo/ticketing-gateway/internal/queue"
	"github.com/iliyamo/ticketing-gateway/internal/repository"
	"github.com/iliyamo/ticketing-gateway/internal/router"
)

const secret = "gateway-test-secret"

type reply struct {
	status int
	body   string
}

// backend is a scripted stand-in for the ticketing REST API.  Routes are
// keyed by "METHOD /path" without the query string.
type backend struct {
	mu     sync.Mutex
	routes map[string]reply
	calls  []string
	bodies map[string]string
}

func newBackend(t *testing.T) (*backend, *httptest.Server) {
	t.Helper()
	b := &backend{routes: map[string]reply{}, bodies: map[string]string{}}
	srv := httptest.NewServer(http.HandlerFunc(b.serve))
	t.Cleanup(srv.Close)
	return b, srv
}

func (b *backend) on(route string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.routes[route] = reply{status: status, body: body}
}

func (b *backend) serve(w http.ResponseWriter, r *http.Request) {
	raw, _ := io.ReadAll(r.Body)
	key := r.Method + " " + r.URL.Path
	call := key
	if r.URL.RawQuery != "" {
		call += "?" + r.URL.RawQuery
	}
	b.mu.Lock()
	b.calls = append(b.calls, call)
	b.bodies[key] = string(raw)
	rep, ok := b.routes[key]
	b.mu.Unlock()
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no such route"}`))
		return
	}
	if strings.HasPrefix(rep.body, "{") || strings.HasPrefix(rep.body, "[") {
		w.Header().Set("Content-Type", "application/json")
	}
	w.WriteHeader(rep.status)
	_, _ = w.Write([]byte(rep.body))
}

func (b *backend) called() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.calls...)
}

func (b *backend) body(route string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.bodies[route]
}

type recorder struct {
	mu     sync.Mutex
	events []queue.ActivityEvent
}

func (r *recorder) PublishActivity(_ context.Context, ev queue.ActivityEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recorder) kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

type invalidations struct{ n int }

func (i *invalidations) Invalidate(context.Context) { i.n++ }

type staticLister struct {
	got   repository.ActivityFilter
	items []queue.ActivityEvent
	reads int
}

func (s *staticLister) List(_ context.Context, f repository.ActivityFilter) ([]queue.ActivityEvent, error) {
	s.got = f
	s.reads++
	return s.items, nil
}

func (s *staticLister) Get(_ context.Context, id string) (*queue.ActivityEvent, error) {
	s.reads++
	for i := range s.items {
		if s.items[i].ID == id {
			return &s.items[i], nil
		}
	}
	return nil, repository.ErrNotFound
}

type gateway struct {
	e        *echo.Echo
	backend  *backend
	events   *recorder
	cache    *invalidations
	activity *staticLister
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	return newGatewayWithSecret(t, secret)
}

// newGatewayWithSecret builds the gateway with jwtSecret; an empty secret
// reads token claims without verifying them.
func newGatewayWithSecret(t *testing.T, jwtSecret string) *gateway {
	t.Helper()
	b, srv := newBackend(t)
	g := &gateway{e: echo.New(), backend: b, events: &recorder{}, cache: &invalidations{}, activity: &staticLister{}}
	deps := &handler.Deps{
		API:       apiclient.New(apiclient.Options{BaseURL: srv.URL, Timeout: 5 * time.Second, Logger: logger.Discard()}),
		Publisher: g.events,
		Cache:     g.cache,
		Log:       logger.Discard(),
	}
	opts := router.Options{JWTSecret: jwtSecret}
	auth := handler.NewAuthHandler(deps)
	events := handler.NewEventHandler(deps)
	txs := handler.NewTransactionHandler(deps)

	router.RegisterRoutes(g.e, &handler.Health{}, nil)
	router.RegisterCommon(g.e, auth, events, opts)
	router.RegisterOrganizer(g.e, events, handler.NewReportHandler(deps, apiclient.ScopeOrganizer), opts)
	router.RegisterAdmin(g.e, handler.NewReportHandler(deps, apiclient.ScopeAdmin), txs, handler.NewActivityHandler(deps, g.activity), opts)
	router.RegisterAttendee(g.e, auth, txs, handler.NewTopUpHandler(deps), opts)
	return g
}

func token(t *testing.T, role string) string {
	t.Helper()
	return signedToken(t, secret, role)
}

func signedToken(t *testing.T, key, role string) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   strings.ToLower(role) + "@example.com",
		"role":  role,
		"id":    float64(42),
		"exp":   time.Now().Add(time.Hour).Unix(),
		"email": strings.ToLower(role) + "@example.com",
	}).SignedString([]byte(key))
	require.NoError(t, err)
	return tok
}

func (g *gateway) do(t *testing.T, role, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	tok := ""
	if role != "" {
		tok = token(t, role)
	}
	return g.doToken(t, tok, req)
}

// doToken serves req with tok as the bearer token, if any.
func (g *gateway) doToken(t *testing.T, tok string, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	if tok != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	g.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
