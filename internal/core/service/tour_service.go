package service

import (
	"context"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/natours/booking-api/internal/core/domain"
	"github.com/natours/booking-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	// maxPage keeps (page-1)*limit within an int.
	maxPage = math.MaxInt / maxPageLimit
)

type TourService struct {
	repo   ports.TourRepository
	logger zerolog.Logger
}

func NewTourService(repo ports.TourRepository, logger zerolog.Logger) *TourService {
	return &TourService{repo: repo, logger: logger}
}

// List returns one page of tours. Page defaults to 1 and the limit is
// clamped to maxPageLimit.
func (s *TourService) List(ctx context.Context, f ports.ListToursFilter) (*ports.TourPage, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Page > maxPage {
		return nil, domain.NewValidationError("page", fmt.Sprintf("page must be at most %d", maxPage))
	}
	switch {
	case f.Limit <= 0:
		f.Limit = defaultPageLimit
	case f.Limit > maxPageLimit:
		f.Limit = maxPageLimit
	}

	tours, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list tours: %w", err)
	}
	return &ports.TourPage{Tours: tours, Total: total, Page: f.Page, Limit: f.Limit}, nil
}

func (s *TourService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	actor := ""
	if identity := domain.IdentityFromContext(ctx); identity != nil {
		actor = identity.ID
	}
	s.logger.Info().Str("tour_id", id).Str("user_id", actor).Msg("tour deleted")
	return nil
}

// MonthlyPlan rejects years outside a sane calendar range before querying.
func (s *TourService) MonthlyPlan(ctx context.Context, year int) ([]domain.MonthlyPlan, error) {
	if year < 1970 || year > 9999 {
		return nil, domain.NewValidationError("year", fmt.Sprintf("year %d is out of range", year))
	}
	return s.repo.MonthlyPlan(ctx, year)
}
