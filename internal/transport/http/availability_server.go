package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"reservo/server/internal/domain"
	"reservo/server/internal/service/availability"
	"reservo/server/internal/store"
)

type AvailabilityServer struct {
	svc             availabilityService
	defaultEntityID string
	log             *slog.Logger
}

type availabilityService interface {
	CheckDate(ctx context.Context, entityID string, day domain.Date) (domain.DateCheck, error)
	CheckRange(ctx context.Context, entityID string, window domain.Period) (domain.RangeCheck, error)
}

func NewAvailabilityServer(svc availabilityService, defaultEntityID string, log *slog.Logger) *AvailabilityServer {
	if log == nil {
		log = slog.Default()
	}
	return &AvailabilityServer{
		svc:             svc,
		defaultEntityID: defaultEntityID,
		log:             log.With(slog.String("component", "http.availability")),
	}
}

func (s *AvailabilityServer) Register(r gin.IRouter) {
	v1 := r.Group("/v1/availability")
	v1.GET("/date", s.checkDate)
	v1.GET("/range", s.checkRange)
}

type reservationView struct {
	ID        string      `json:"id"`
	BookedBy  string      `json:"booked_by"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
	CreatedAt string      `json:"created_at,omitempty"`
}

type dateCheckResponse struct {
	Available   bool             `json:"available"`
	Date        domain.Date      `json:"date"`
	EntityID    string           `json:"entity_id"`
	Message     string           `json:"message,omitempty"`
	Reservation *reservationView `json:"reservation,omitempty"`
}

type rangeCheckResponse struct {
	Available        bool              `json:"available"`
	EntityID         string            `json:"entity_id"`
	RequestedPeriod  domain.Period     `json:"requested_period"`
	Conflicts        []reservationView `json:"conflicts"`
	AvailablePeriods []domain.Period   `json:"available_periods"`
	Message          string            `json:"message"`
}

func (s *AvailabilityServer) checkDate(c *gin.Context) {
	log := s.log.With(slog.String("route", "checkDate"))

	entityID := s.entityID(c)
	day, ok := s.dateParam(c, log, "date")
	if !ok {
		return
	}

	check, err := s.svc.CheckDate(c.Request.Context(), entityID, day)
	if err != nil {
		s.writeError(c, log, err, entityID)
		return
	}

	resp := dateCheckResponse{
		Available: check.Available,
		Date:      day,
		EntityID:  entityID,
	}
	if check.Available {
		resp.Message = fmt.Sprintf("Entity %s is available on %s", entityID, day)
	} else {
		v := toReservationView(*check.Conflict, true)
		resp.Reservation = &v
	}

	log.Debug(
		"date checked",
		slog.String("entity_id", entityID),
		slog.String("date", day.String()),
		slog.Bool("available", check.Available),
	)

	c.JSON(http.StatusOK, resp)
}

func (s *AvailabilityServer) checkRange(c *gin.Context) {
	log := s.log.With(slog.String("route", "checkRange"))

	entityID := s.entityID(c)
	start, ok := s.dateParam(c, log, "start_date")
	if !ok {
		return
	}
	end, ok := s.dateParam(c, log, "end_date")
	if !ok {
		return
	}

	window := domain.Period{Start: start, End: end}
	check, err := s.svc.CheckRange(c.Request.Context(), entityID, window)
	if err != nil {
		s.writeError(c, log, err, entityID)
		return
	}

	resp := rangeCheckResponse{
		Available:        check.Available,
		EntityID:         entityID,
		RequestedPeriod:  window,
		Conflicts:        make([]reservationView, 0, len(check.Conflicts)),
		AvailablePeriods: check.FreePeriods,
	}
	if resp.AvailablePeriods == nil {
		resp.AvailablePeriods = []domain.Period{}
	}
	for _, r := range check.Conflicts {
		resp.Conflicts = append(resp.Conflicts, toReservationView(r, false))
	}
	if check.Available {
		resp.Message = fmt.Sprintf("Entity %s is completely available from %s to %s", entityID, start, end)
	} else {
		resp.Message = fmt.Sprintf("Entity %s has %d conflicting reservation(s) in the requested period", entityID, len(check.Conflicts))
	}

	log.Debug(
		"range checked",
		slog.String("entity_id", entityID),
		slog.String("start_date", start.String()),
		slog.String("end_date", end.String()),
		slog.Bool("available", check.Available),
		slog.Int("conflicts", len(check.Conflicts)),
	)

	c.JSON(http.StatusOK, resp)
}

func (s *AvailabilityServer) entityID(c *gin.Context) string {
	id := strings.TrimSpace(c.Query("entity_id"))
	if id == "" {
		id = s.defaultEntityID
	}
	return id
}

func (s *AvailabilityServer) dateParam(c *gin.Context, log *slog.Logger, name string) (domain.Date, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		log.Warn("invalid request", slog.String("reason", "missing_"+name))
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " is required"})
		return domain.Date{}, false
	}
	day, err := domain.ParseDate(raw)
	if err != nil {
		log.Warn("invalid request", slog.String("reason", "malformed_"+name), slog.String(name, raw))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name + ": use YYYY-MM-DD format"})
		return domain.Date{}, false
	}
	return day, true
}

func (s *AvailabilityServer) writeError(c *gin.Context, log *slog.Logger, err error, entityID string) {
	var vErr *availability.ValidationError
	switch {
	case errors.As(err, &vErr):
		log.Warn("invalid request", slog.Any("err", err), slog.String("entity_id", entityID))
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.Is(err, store.ErrBackendTimeout):
		log.Error("backend timeout", slog.Any("err", err), slog.String("entity_id", entityID))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "reservations backend timed out"})
	case errors.Is(err, store.ErrBackendUnavailable):
		log.Error("backend unavailable", slog.Any("err", err), slog.String("entity_id", entityID))
		c.JSON(http.StatusBadGateway, gin.H{"error": "reservations backend unavailable"})
	default:
		log.Error("availability check failed", slog.Any("err", err), slog.String("entity_id", entityID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func toReservationView(r domain.Reservation, withCreatedAt bool) reservationView {
	v := reservationView{
		ID:        r.ID,
		BookedBy:  r.BookedBy,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
	}
	if withCreatedAt {
		v.CreatedAt = r.CreatedAt
	}
	return v
}
