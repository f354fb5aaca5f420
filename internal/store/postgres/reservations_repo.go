package postgres

import (
	"context"
	"time"

	"github.com/uptrace/bun"

	"reservo/server/internal/domain"
)

// ReservationRepo serves availability queries straight from a local
// reservations table, for deployments that own the booking database instead
// of calling the reservations backend over HTTP.
type ReservationRepo struct {
	db *bun.DB
}

func NewReservationRepo(db *bun.DB) *ReservationRepo {
	return &ReservationRepo{db: db}
}

type reservationRow struct {
	bun.BaseModel `bun:"table:reservations"`

	ID        string    `bun:"id,pk"`
	EntityID  string    `bun:"entity_id,notnull"`
	BookedBy  string    `bun:"booked_by,notnull"`
	StartDate time.Time `bun:"start_date,notnull"`
	EndDate   time.Time `bun:"end_date,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:now()"`
}

func (r *ReservationRepo) ListReservations(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
	var rows []reservationRow
	err := r.db.NewSelect().
		Model(&rows).
		Where("entity_id = ?", entityID).
		Where("start_date <= ?", window.End.Time()).
		Where("end_date >= ?", window.Start.Time()).
		OrderExpr("start_date ASC, end_date ASC, id ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]domain.Reservation, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}
	return out, nil
}

// Insert exists for seeding and tests; the availability API itself never
// writes reservations.
func (r *ReservationRepo) Insert(ctx context.Context, entityID string, res domain.Reservation) error {
	createdAt, err := time.Parse(time.RFC3339, res.CreatedAt)
	if err != nil {
		createdAt = time.Now().UTC()
	}

	row := reservationRow{
		ID:        res.ID,
		EntityID:  entityID,
		BookedBy:  res.BookedBy,
		StartDate: res.StartDate.Time(),
		EndDate:   res.EndDate.Time(),
		CreatedAt: createdAt,
	}
	_, err = r.db.NewInsert().Model(&row).Exec(ctx)
	return err
}

func (row reservationRow) toDomain() domain.Reservation {
	return domain.Reservation{
		ID:        row.ID,
		BookedBy:  row.BookedBy,
		StartDate: domain.DateOf(row.StartDate),
		EndDate:   domain.DateOf(row.EndDate),
		CreatedAt: row.CreatedAt.UTC().Format(time.RFC3339),
	}
}
