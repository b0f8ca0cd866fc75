package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/natours/booking-api/internal/api/response"
	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

// TourHandler handles HTTP requests for tour operations.
type TourHandler struct {
	service ports.TourService
}

func NewTourHandler(service ports.TourService) *TourHandler {
	return &TourHandler{service: service}
}

type listToursQuery struct {
	Page       int    `query:"page"`
	Limit      int    `query:"limit"`
	Difficulty string `query:"difficulty" validate:"omitempty,oneof=easy medium difficult"`
}

type listToursResponse struct {
	Status  string        `json:"status" example:"success"`
	Results int           `json:"results"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	Limit   int           `json:"limit"`
	Data    toursEnvelope `json:"data"`
}

type toursEnvelope struct {
	Tours []*domain.Tour `json:"tours"`
}

// List handles GET /api/v1/tours.
//
// @Summary      List tours
// @Tags         tours
// @Produce      json
// @Security     BearerAuth
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Param        difficulty  query     string  false  "easy, medium or difficult"
// @Success      200         {object}  listToursResponse
// @Failure      400         {object}  response.ErrorBody
// @Failure      401         {object}  response.ErrorBody
// @Router       /api/v1/tours [get]
func (h *TourHandler) List(c echo.Context) error {
	var q listToursQuery
	if err := c.Bind(&q); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid query parameters")
	}
	if err := c.Validate(&q); err != nil {
		return err
	}

	page, err := h.service.List(c.Request().Context(), ports.ListToursFilter{
		Difficulty: q.Difficulty,
		Page:       q.Page,
		Limit:      q.Limit,
	})
	if err != nil {
		return err
	}

	tours := page.Tours
	if tours == nil {
		tours = []*domain.Tour{}
	}
	return c.JSON(http.StatusOK, listToursResponse{
		Status:  response.StatusSuccess,
		Results: len(tours),
		Total:   page.Total,
		Page:    page.Page,
		Limit:   page.Limit,
		Data:    toursEnvelope{Tours: tours},
	})
}

// Delete handles DELETE /api/v1/tours/:id.
//
// @Summary      Delete a tour
// @Tags         tours
// @Security     BearerAuth
// @Param        id   path      string  true  "Tour id"
// @Success      204
// @Failure      401  {object}  response.ErrorBody
// @Failure      403  {object}  response.ErrorBody
// @Failure      404  {object}  response.ErrorBody
// @Router       /api/v1/tours/{id} [delete]
func (h *TourHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MonthlyPlan handles GET /api/v1/tours/monthly-plan/:year.
//
// @Summary      Tour starts per month
// @Tags         tours
// @Produce      json
// @Security     BearerAuth
// @Param        year  path      int  true  "Calendar year"
// @Success      200   {object}  response.DataBody
// @Failure      400   {object}  response.ErrorBody
// @Failure      401   {object}  response.ErrorBody
// @Failure      403   {object}  response.ErrorBody
// @Router       /api/v1/tours/monthly-plan/{year} [get]
func (h *TourHandler) MonthlyPlan(c echo.Context) error {
	var year int
	if err := echo.PathParamsBinder(c).MustInt("year", &year).BindError(); err != nil {
		return domain.NewValidationError("year", "year must be a number")
	}

	plan, err := h.service.MonthlyPlan(c.Request().Context(), year)
	if err != nil {
		return err
	}
	if plan == nil {
		plan = []domain.MonthlyPlan{}
	}
	return response.Data(c, http.StatusOK, map[string]any{"plan": plan})
}
