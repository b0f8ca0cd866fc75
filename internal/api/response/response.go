// Package response renders every API reply, success or failure, in the same
// JSend-style envelope and owns the mapping from domain errors to HTTP codes.
package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
	StatusError   = "error"
)

// ErrorBody is the envelope of every error response.
type ErrorBody struct {
	Status  string              `json:"status"`
	Message string              `json:"message"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
}

// DataBody wraps a successful payload as {"status":"success","data":{...}}.
type DataBody struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

// Data writes a success envelope around data.
func Data(c echo.Context, code int, data any) error {
	return c.JSON(code, DataBody{Status: StatusSuccess, Data: data})
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders {"status": "fail"|"error", "message": "..."}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body, code := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (ErrorBody, int) {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ErrorBody{Status: StatusFail, Message: ve.Error(), Errors: ve.Fields}, http.StatusBadRequest
	}

	var ue *domain.UnauthenticatedError
	if errors.As(err, &ue) {
		return fail(ue.Error()), http.StatusUnauthorized
	}

	switch {
	case errors.Is(err, domain.ErrDuplicateEmail):
		return fail("Duplicate field value: email. Please use another value!"), http.StatusBadRequest
	case errors.Is(err, domain.ErrWrongCurrentPassword):
		return fail("Your current password is wrong."), http.StatusUnauthorized
	case errors.Is(err, domain.ErrIdentityNotFound):
		// Never a 404: that would reveal which ids exist.
		return fail(domain.MsgInvalidSession), http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fail("You do not have permission to perform this action"), http.StatusForbidden
	case errors.Is(err, domain.ErrTourNotFound):
		return fail("No tour found with that ID"), http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return fail("Too many requests from this IP, please try again in an hour!"), http.StatusTooManyRequests
	}

	// Echo's own errors (bind failures, body limit, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusNotFound && errors.Is(err, echo.ErrNotFound) {
			return fail(fmt.Sprintf("Can't find %s on this server!", c.Request().URL.Path)), http.StatusNotFound
		}
		if he.Code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Path()).Msg("http error")
			return ErrorBody{Status: StatusError, Message: "Something went very wrong!"}, he.Code
		}
		return fail(fmt.Sprintf("%v", he.Message)), he.Code
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return ErrorBody{Status: StatusError, Message: "Something went very wrong!"}, http.StatusInternalServerError
}

func fail(msg string) ErrorBody {
	return ErrorBody{Status: StatusFail, Message: msg}
}
