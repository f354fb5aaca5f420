package availability

import (
	"context"
	"strings"

	"reservo/server/internal/domain"
	"reservo/server/internal/store"
)

type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func validationError(msg string) error {
	return &ValidationError{msg: msg}
}

// Service answers availability queries for one entity by fetching its
// reservations and running the interval engine over them. It holds no state
// beyond its collaborators; concurrent calls are independent.
type Service struct {
	store store.IntervalStore
}

func NewService(st store.IntervalStore) *Service {
	return &Service{store: st}
}

func (s *Service) CheckDate(ctx context.Context, entityID string, day domain.Date) (domain.DateCheck, error) {
	if strings.TrimSpace(entityID) == "" {
		return domain.DateCheck{}, validationError("entity_id is required")
	}
	if day.IsZero() {
		return domain.DateCheck{}, validationError("date is required")
	}

	reservations, err := s.store.ListReservations(ctx, entityID, domain.Period{Start: day, End: day})
	if err != nil {
		return domain.DateCheck{}, err
	}

	return domain.CheckDate(domain.Normalize(reservations), day), nil
}

func (s *Service) CheckRange(ctx context.Context, entityID string, window domain.Period) (domain.RangeCheck, error) {
	if strings.TrimSpace(entityID) == "" {
		return domain.RangeCheck{}, validationError("entity_id is required")
	}
	if window.Start.IsZero() || window.End.IsZero() {
		return domain.RangeCheck{}, validationError("start_date and end_date are required")
	}
	if window.Start.After(window.End) {
		return domain.RangeCheck{}, validationError("start_date must not be after end_date")
	}

	reservations, err := s.store.ListReservations(ctx, entityID, window)
	if err != nil {
		return domain.RangeCheck{}, err
	}

	return domain.CheckRange(domain.Normalize(reservations), window), nil
}
