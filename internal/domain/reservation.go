package domain

// Reservation is an occupied closed date interval for one entity. Both
// StartDate and EndDate are occupied days. CreatedAt is an opaque ISO-8601
// string carried through for display and never interpreted.
type Reservation struct {
	ID        string
	BookedBy  string
	StartDate Date
	EndDate   Date
	CreatedAt string
}

// Period is a closed date range with Start <= End.
type Period struct {
	Start Date `json:"start_date"`
	End   Date `json:"end_date"`
}

func (p Period) Contains(d Date) bool {
	return !d.Before(p.Start) && !d.After(p.End)
}
