package availability

import (
	"context"
	"errors"
	"testing"

	"reservo/server/internal/domain"
	"reservo/server/internal/store"
)

type fakeStore struct {
	listFn func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error)
}

func (f *fakeStore) ListReservations(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
	if f.listFn == nil {
		panic("ListReservations not configured")
	}
	return f.listFn(ctx, entityID, window)
}

func mustDate(t *testing.T, s string) domain.Date {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("ParseDate(%q) error: %v", s, err)
	}
	return d
}

func TestCheckDate_RequiresEntityID(t *testing.T) {
	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			return nil, nil
		},
	})

	_, err := svc.CheckDate(context.Background(), "  ", mustDate(t, "2024-01-15"))
	if err == nil {
		t.Fatalf("expected error")
	}
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "entity_id is required" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "entity_id is required")
	}
}

func TestCheckDate_RequiresDate(t *testing.T) {
	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			return nil, nil
		},
	})

	_, err := svc.CheckDate(context.Background(), "1", domain.Date{})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
}

func TestCheckDate_PassesSingleDayWindowToStore(t *testing.T) {
	var gotEntityID string
	var gotWindow domain.Period

	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			gotEntityID = entityID
			gotWindow = window
			return nil, nil
		},
	})

	day := mustDate(t, "2024-01-15")
	check, err := svc.CheckDate(context.Background(), "e1", day)
	if err != nil {
		t.Fatalf("CheckDate error: %v", err)
	}
	if !check.Available {
		t.Fatalf("available = false, want true")
	}
	if gotEntityID != "e1" {
		t.Fatalf("entity_id = %q, want %q", gotEntityID, "e1")
	}
	if !gotWindow.Start.Equal(day) || !gotWindow.End.Equal(day) {
		t.Fatalf("window = %v, want [%v, %v]", gotWindow, day, day)
	}
}

func TestCheckDate_NormalizesBeforeChecking(t *testing.T) {
	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			return []domain.Reservation{
				// Malformed record is dropped, not surfaced.
				{ID: "bad", StartDate: mustDate(t, "2024-01-20"), EndDate: mustDate(t, "2024-01-10")},
				{ID: "late", StartDate: mustDate(t, "2024-01-12"), EndDate: mustDate(t, "2024-01-16")},
				{ID: "early", StartDate: mustDate(t, "2024-01-10"), EndDate: mustDate(t, "2024-01-15")},
			}, nil
		},
	})

	check, err := svc.CheckDate(context.Background(), "e1", mustDate(t, "2024-01-14"))
	if err != nil {
		t.Fatalf("CheckDate error: %v", err)
	}
	if check.Available {
		t.Fatalf("available = true, want false")
	}
	if check.Conflict.ID != "early" {
		t.Fatalf("conflict id = %q, want %q", check.Conflict.ID, "early")
	}
}

func TestCheckRange_RejectsInvertedRange(t *testing.T) {
	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			t.Fatalf("store must not be called for an invalid range")
			return nil, nil
		},
	})

	_, err := svc.CheckRange(context.Background(), "e1", domain.Period{
		Start: mustDate(t, "2024-01-20"),
		End:   mustDate(t, "2024-01-10"),
	})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("error type = %T, want *ValidationError", err)
	}
	if vErr.Error() != "start_date must not be after end_date" {
		t.Fatalf("error = %q, want %q", vErr.Error(), "start_date must not be after end_date")
	}
}

func TestCheckRange_PropagatesBackendErrors(t *testing.T) {
	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			return nil, store.ErrBackendUnavailable
		},
	})

	_, err := svc.CheckRange(context.Background(), "e1", domain.Period{
		Start: mustDate(t, "2024-01-10"),
		End:   mustDate(t, "2024-01-20"),
	})
	if !errors.Is(err, store.ErrBackendUnavailable) {
		t.Fatalf("error = %v, want %v", err, store.ErrBackendUnavailable)
	}
}

func TestCheckRange_ComputesConflictsAndFreePeriods(t *testing.T) {
	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			return []domain.Reservation{
				{ID: "r1", BookedBy: "alice", StartDate: mustDate(t, "2024-01-16"), EndDate: mustDate(t, "2024-01-18")},
			}, nil
		},
	})

	check, err := svc.CheckRange(context.Background(), "e1", domain.Period{
		Start: mustDate(t, "2024-01-15"),
		End:   mustDate(t, "2024-01-20"),
	})
	if err != nil {
		t.Fatalf("CheckRange error: %v", err)
	}
	if check.Available {
		t.Fatalf("available = true, want false")
	}
	if len(check.Conflicts) != 1 || check.Conflicts[0].ID != "r1" {
		t.Fatalf("conflicts = %v, want [r1]", check.Conflicts)
	}
	if len(check.FreePeriods) != 2 {
		t.Fatalf("free periods = %v, want 2 periods", check.FreePeriods)
	}
}

func TestCheckRange_EmptyStoreAlwaysAvailable(t *testing.T) {
	svc := NewService(&fakeStore{
		listFn: func(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
			return nil, nil
		},
	})

	window := domain.Period{Start: mustDate(t, "2024-01-10"), End: mustDate(t, "2024-01-20")}
	check, err := svc.CheckRange(context.Background(), "e1", window)
	if err != nil {
		t.Fatalf("CheckRange error: %v", err)
	}
	if !check.Available {
		t.Fatalf("available = false, want true")
	}
	if len(check.FreePeriods) != 1 || check.FreePeriods[0] != window {
		t.Fatalf("free periods = %v, want [%v]", check.FreePeriods, window)
	}
}
