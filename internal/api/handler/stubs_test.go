package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/api/response"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

type stubAuthService struct {
	signupFn         func(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error)
	loginFn          func(ctx context.Context, email, password string) (*ports.AuthResult, error)
	updatePasswordFn func(ctx context.Context, in ports.UpdatePasswordInput) (*ports.AuthResult, error)
}

func (s *stubAuthService) Signup(ctx context.Context, in ports.SignupInput) (*ports.AuthResult, error) {
	return s.signupFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) UpdatePassword(ctx context.Context, in ports.UpdatePasswordInput) (*ports.AuthResult, error) {
	return s.updatePasswordFn(ctx, in)
}

type stubTourService struct {
	listFn        func(ctx context.Context, f ports.ListToursFilter) (*ports.TourPage, error)
	deleteFn      func(ctx context.Context, id string) error
	monthlyPlanFn func(ctx context.Context, year int) ([]domain.MonthlyPlan, error)
}

func (s *stubTourService) List(ctx context.Context, f ports.ListToursFilter) (*ports.TourPage, error) {
	return s.listFn(ctx, f)
}

func (s *stubTourService) Delete(ctx context.Context, id string) error {
	return s.deleteFn(ctx, id)
}

func (s *stubTourService) MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlan, error) {
	return s.monthlyPlanFn(ctx, year)
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	e.HTTPErrorHandler = response.NewHTTPErrorHandler(zerolog.Nop())
	return e
}

// do runs h against a request and renders any returned error the way the
// router would.
func do(e *echo.Echo, method, target string, body io.Reader, identity *domain.Identity, h echo.HandlerFunc, params ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if identity != nil {
		req = req.WithContext(domain.WithIdentity(req.Context(), identity))
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if len(params) == 2 {
		c.SetParamNames(params[0])
		c.SetParamValues(params[1])
	}

	if err := h(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return resp
}
