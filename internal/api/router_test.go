package api

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
	"github.com/natours/booking-api/internal/core/service"
	"github.com/natours/booking-api/internal/infrastructure/token"
)

type stubIdentities map[string]*domain.Identity

func (s stubIdentities) FindByID(_ context.Context, id string) (*domain.Identity, error) {
	identity, ok := s[id]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	clone := *identity
	return &clone, nil
}

type stubTours struct{}

func (stubTours) List(_ context.Context, f ports.ListToursFilter) (*ports.TourPage, error) {
	return &ports.TourPage{Page: f.Page, Limit: f.Limit}, nil
}

func (stubTours) Delete(context.Context, string) error { return nil }

func (stubTours) MonthlyPlan(context.Context, int) ([]domain.MonthlyPlan, error) {
	return nil, nil
}

type countingLimiter struct {
	max   int
	calls int
}

func (l *countingLimiter) Allow(context.Context, string) (bool, error) {
	l.calls++
	return l.calls <= l.max, nil
}

// keyedLimiter allows max requests per key.
type keyedLimiter struct {
	max  int
	hits map[string]int
}

func (l *keyedLimiter) Allow(_ context.Context, key string) (bool, error) {
	if l.hits == nil {
		l.hits = map[string]int{}
	}
	l.hits[key]++
	return l.hits[key] <= l.max, nil
}

func newTestRouter(t *testing.T, limiter ports.RateLimiter, trusted ...*net.IPNet) (http.Handler, func(id string) string) {
	t.Helper()
	identities := stubIdentities{
		"user":  {ID: "user", Role: domain.RoleUser},
		"guide": {ID: "guide", Role: domain.RoleGuide},
		"lead":  {ID: "lead", Role: domain.RoleLeadGuide},
		"admin": {ID: "admin", Role: domain.RoleAdmin},
	}
	tokens := token.NewJWTService("router-secret", time.Hour)
	e := NewRouter(Dependencies{
		Gate:        service.NewGate(tokens, identities, zerolog.Nop()),
		Tours:       stubTours{},
		RateLimiter: limiter,
		Logger:      zerolog.Nop(),
		Registry:    prometheus.NewRegistry(),

		TrustedProxies: trusted,
	})
	issue := func(id string) string {
		signed, err := tokens.Issue(id)
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		return signed
	}
	return e, issue
}

func call(h http.Handler, method, target, bearer string) int {
	req := httptest.NewRequest(method, target, nil)
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouter_RoleGatedRoutes(t *testing.T) {
	h, issue := newTestRouter(t, nil)

	cases := []struct {
		method, target, who string
		want                int
	}{
		{http.MethodGet, "/api/v1/tours", "", http.StatusUnauthorized},
		{http.MethodGet, "/api/v1/tours", "user", http.StatusOK},
		{http.MethodGet, "/api/v1/tours/monthly-plan/2026", "user", http.StatusForbidden},
		{http.MethodGet, "/api/v1/tours/monthly-plan/2026", "guide", http.StatusOK},
		{http.MethodGet, "/api/v1/tours/monthly-plan/2026", "lead", http.StatusOK},
		{http.MethodDelete, "/api/v1/tours/t1", "guide", http.StatusForbidden},
		{http.MethodDelete, "/api/v1/tours/t1", "lead", http.StatusNoContent},
		{http.MethodDelete, "/api/v1/tours/t1", "admin", http.StatusNoContent},
		{http.MethodDelete, "/api/v1/tours/t1", "", http.StatusUnauthorized},
	}

	for _, c := range cases {
		bearer := ""
		if c.who != "" {
			bearer = issue(c.who)
		}
		if got := call(h, c.method, c.target, bearer); got != c.want {
			t.Errorf("%s %s as %q: expected %d, got %d", c.method, c.target, c.who, c.want, got)
		}
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	if got := call(h, http.MethodGet, "/api/v2/nothing", ""); got != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", got)
	}
}

func TestRouter_Health(t *testing.T) {
	h, _ := newTestRouter(t, nil)
	if got := call(h, http.MethodGet, "/health", ""); got != http.StatusOK {
		t.Fatalf("expected 200, got %d", got)
	}
}

func TestRouter_RateLimit(t *testing.T) {
	limiter := &countingLimiter{max: 2}
	h, issue := newTestRouter(t, limiter)
	bearer := issue("user")

	for i := 0; i < 2; i++ {
		if got := call(h, http.MethodGet, "/api/v1/tours", bearer); got != http.StatusOK {
			t.Fatalf("request %d: expected 200, got %d", i, got)
		}
	}
	if got := call(h, http.MethodGet, "/api/v1/tours", bearer); got != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", got)
	}
}

func TestRouter_MetricsExposesRequestCounters(t *testing.T) {
	h, issue := newTestRouter(t, nil)
	call(h, http.MethodGet, "/api/v1/tours", issue("user"))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("request counters missing from /metrics output")
	}
}

func callFrom(h http.Handler, remoteAddr, forwardedFor, bearer string) int {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tours", nil)
	req.RemoteAddr = remoteAddr
	req.Header.Set("Authorization", "Bearer "+bearer)
	req.Header.Set("X-Forwarded-For", forwardedFor)
	req.Header.Set("X-Real-IP", forwardedFor)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRouter_RateLimitIgnoresForwardingHeadersFromClients(t *testing.T) {
	limiter := &keyedLimiter{max: 2}
	h, issue := newTestRouter(t, limiter)
	bearer := issue("user")

	var codes []int
	for i := 0; i < 4; i++ {
		codes = append(codes, callFrom(h, "203.0.113.7:51234", fmt.Sprintf("10.0.0.%d", i), bearer))
	}

	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}
	for i := range want {
		if codes[i] != want[i] {
			t.Fatalf("codes = %v, want %v", codes, want)
		}
	}
	if len(limiter.hits) != 1 || limiter.hits["203.0.113.7"] != 4 {
		t.Fatalf("expected every request keyed on the peer address, got %v", limiter.hits)
	}
}

func TestRouter_RateLimitTrustsConfiguredProxy(t *testing.T) {
	_, proxies, err := net.ParseCIDR("198.51.100.0/24")
	if err != nil {
		t.Fatal(err)
	}
	limiter := &keyedLimiter{max: 1}
	h, issue := newTestRouter(t, limiter, proxies)
	bearer := issue("user")

	// Two clients behind the proxy get separate buckets.
	if got := callFrom(h, "198.51.100.10:443", "203.0.113.1", bearer); got != http.StatusOK {
		t.Fatalf("first client: expected 200, got %d", got)
	}
	if got := callFrom(h, "198.51.100.10:443", "203.0.113.2", bearer); got != http.StatusOK {
		t.Fatalf("second client: expected 200, got %d", got)
	}
	if got := callFrom(h, "198.51.100.10:443", "203.0.113.1", bearer); got != http.StatusTooManyRequests {
		t.Fatalf("first client again: expected 429, got %d", got)
	}

	// A peer outside the list cannot pick its own key.
	if got := callFrom(h, "192.0.2.50:1234", "203.0.113.9", bearer); got != http.StatusOK {
		t.Fatalf("untrusted peer: expected 200, got %d", got)
	}
	if limiter.hits["192.0.2.50"] != 1 || limiter.hits["203.0.113.9"] != 0 {
		t.Fatalf("untrusted peer keyed on header: %v", limiter.hits)
	}
}
