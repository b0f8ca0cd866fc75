package ports

import (
	"context"

	"github.com/natours/booking-api/internal/core/domain"
)

// TourPage is one page of the tour listing.
type TourPage struct {
	Tours []*domain.Tour
	Total int64
	Page  int
	Limit int
}

// TourService exposes the tour operations behind the role-gated routes.
type TourService interface {
	List(ctx context.Context, filter ListToursFilter) (*TourPage, error)
	Delete(ctx context.Context, id string) error
	MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlan, error)
}
