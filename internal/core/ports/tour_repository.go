package ports

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
)

// ListToursFilter carries the query parameters for listing tours.
type ListToursFilter struct {
	Difficulty string // optional
	Page       int    // 1-based
	Limit      int    // max rows per page (capped by service)
}

// TourRepository defines persistence operations for tours.
type TourRepository interface {
	List(ctx context.Context, filter ListToursFilter) ([]*domain.Tour, int64, error)
	Delete(ctx context.Context, id string) error
	// MonthlyPlan groups the start dates falling within year by month.
	MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlan, error)
}
