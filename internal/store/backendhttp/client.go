package backendhttp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"reservo/server/internal/domain"
	"reservo/server/internal/store"
)

// Client fetches reservations from the reservations backend REST API. The
// backend is month-scoped, so a window query fans out into one request per
// calendar month the window touches.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type listEnvelope struct {
	Success bool                 `json:"success"`
	Data    []reservationPayload `json:"data"`
}

type reservationPayload struct {
	ReservationID string `json:"reservationId"`
	BookedBy      string `json:"bookedBy"`
	StartDate     string `json:"startDate"`
	EndDate       string `json:"endDate"`
	CreatedAt     string `json:"createdAt"`
}

func (c *Client) ListReservations(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
	seen := make(map[string]struct{})
	var out []domain.Reservation

	year, month := window.Start.Year, window.Start.Month
	for {
		payloads, err := c.listMonth(ctx, entityID, year, month)
		if err != nil {
			return nil, err
		}

		for _, p := range payloads {
			// A reservation spanning a month boundary is returned for
			// every month it touches; keep the first copy only.
			if _, ok := seen[p.ReservationID]; ok {
				continue
			}
			r, ok := p.toReservation()
			if !ok {
				continue
			}
			seen[p.ReservationID] = struct{}{}
			out = append(out, r)
		}

		if year == window.End.Year && month == window.End.Month {
			break
		}
		month++
		if month > time.December {
			month = time.January
			year++
		}
	}

	return out, nil
}

func (c *Client) listMonth(ctx context.Context, entityID string, year int, month time.Month) ([]reservationPayload, error) {
	u := fmt.Sprintf("%s/api/entities/%s/reservations?year=%d&month=%d",
		c.baseURL, url.PathEscape(entityID), year, int(month))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, mapTransportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: backend returned status %d", store.ErrBackendUnavailable, resp.StatusCode)
	}

	var envelope listEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", store.ErrBackendUnavailable, err)
	}
	if !envelope.Success {
		return nil, nil
	}
	return envelope.Data, nil
}

func (p reservationPayload) toReservation() (domain.Reservation, bool) {
	start, ok := parseBackendDate(p.StartDate)
	if !ok {
		return domain.Reservation{}, false
	}
	end, ok := parseBackendDate(p.EndDate)
	if !ok {
		return domain.Reservation{}, false
	}
	return domain.Reservation{
		ID:        p.ReservationID,
		BookedBy:  p.BookedBy,
		StartDate: start,
		EndDate:   end,
		CreatedAt: p.CreatedAt,
	}, true
}

// The backend serializes reservation bounds as full ISO-8601 timestamps; only
// the calendar date matters here. Plain dates are accepted as well.
func parseBackendDate(s string) (domain.Date, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return domain.DateOf(t), true
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return domain.Date{}, false
	}
	return d, true
}

func mapTransportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", store.ErrBackendTimeout, err)
	}
	return fmt.Errorf("%w: %v", store.ErrBackendUnavailable, err)
}
