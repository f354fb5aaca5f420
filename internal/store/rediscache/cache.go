package rediscache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"reservo/server/internal/domain"
	"reservo/server/internal/store"
)

// Cache is a read-through decorator over an IntervalStore. Entries are keyed
// by entity and window and expire after the configured TTL. Redis failures
// never fail a query; the cache falls through to the underlying store.
type Cache struct {
	next store.IntervalStore
	rdb  *redis.Client
	ttl  time.Duration
	log  *slog.Logger
}

func New(next store.IntervalStore, rdb *redis.Client, ttl time.Duration, log *slog.Logger) *Cache {
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		next: next,
		rdb:  rdb,
		ttl:  ttl,
		log:  log.With(slog.String("component", "store.rediscache")),
	}
}

type cachedReservation struct {
	ID        string      `json:"id"`
	BookedBy  string      `json:"booked_by"`
	StartDate domain.Date `json:"start_date"`
	EndDate   domain.Date `json:"end_date"`
	CreatedAt string      `json:"created_at"`
}

func (c *Cache) ListReservations(ctx context.Context, entityID string, window domain.Period) ([]domain.Reservation, error) {
	key := cacheKey(entityID, window)

	if payload, err := c.rdb.Get(ctx, key).Bytes(); err == nil {
		var cached []cachedReservation
		if err := json.Unmarshal(payload, &cached); err == nil {
			out := make([]domain.Reservation, 0, len(cached))
			for _, r := range cached {
				out = append(out, domain.Reservation{
					ID:        r.ID,
					BookedBy:  r.BookedBy,
					StartDate: r.StartDate,
					EndDate:   r.EndDate,
					CreatedAt: r.CreatedAt,
				})
			}
			return out, nil
		}
		c.log.Warn("cache entry corrupt; refetching", slog.String("key", key))
	} else if err != redis.Nil {
		c.log.Warn("cache read failed", slog.Any("err", err), slog.String("key", key))
	}

	reservations, err := c.next.ListReservations(ctx, entityID, window)
	if err != nil {
		return nil, err
	}

	cached := make([]cachedReservation, 0, len(reservations))
	for _, r := range reservations {
		cached = append(cached, cachedReservation{
			ID:        r.ID,
			BookedBy:  r.BookedBy,
			StartDate: r.StartDate,
			EndDate:   r.EndDate,
			CreatedAt: r.CreatedAt,
		})
	}
	payload, err := json.Marshal(cached)
	if err == nil {
		if err := c.rdb.Set(ctx, key, payload, c.ttl).Err(); err != nil {
			c.log.Warn("cache write failed", slog.Any("err", err), slog.String("key", key))
		}
	}

	return reservations, nil
}

func cacheKey(entityID string, window domain.Period) string {
	return "reservo:reservations:" + entityID + ":" + window.Start.String() + ":" + window.End.String()
}
