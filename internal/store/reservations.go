package store

import (
	"context"

	"reservo/server/internal/domain"
)

// IntervalStore returns the reservations for an entity that intersect the
// given window. Implementations may return more than the window requires
// (the engine clips), but must not omit any intersecting reservation.
type IntervalStore interface {
	ListReservations(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error)
}
