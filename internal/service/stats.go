package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"sync/atomic"
	"time"

	"github.com/vinayvardhann/careflow-scheduler/internal/cache"
	"github.com/vinayvardhann/careflow-scheduler/internal/models"
	"github.com/vinayvardhann/careflow-scheduler/internal/repository"
	"github.com/vinayvardhann/careflow-scheduler/internal/timeslot"
)

// Stats are the dashboard aggregates over every appointment and doctor.
type Stats struct {
	TotalAppointments int64   `json:"totalAppointments"`
	TodayAppointments int64   `json:"todayAppointments"`
	AvgWaitTime       int     `json:"avgWaitTime"`
	CompletionRate    float64 `json:"completionRate"`
}

const statsKeyPrefix = "careflow:stats:"

type StatsAggregator struct {
	store *repository.Store
	cache cache.Cache
	ttl   time.Duration
	loc   *time.Location
	now   func() time.Time

	// generation moves on every Invalidate in this process.
	generation atomic.Uint64
}

// NewStatsAggregator builds an aggregator; "today" is evaluated in loc.
// A nil cache disables caching.
func NewStatsAggregator(store *repository.Store, c cache.Cache, ttl time.Duration, loc *time.Location) *StatsAggregator {
	if c == nil {
		c = cache.Nop{}
	}
	if loc == nil {
		loc = time.UTC
	}
	return &StatsAggregator{store: store, cache: c, ttl: ttl, loc: loc, now: time.Now}
}

// Today returns the current date in the aggregator's zone.
func (a *StatsAggregator) Today() string {
	return timeslot.FormatDate(a.now(), a.loc)
}

func (a *StatsAggregator) Compute(ctx context.Context) (*Stats, error) {
	key := statsKeyPrefix + a.Today()

	cached, err := a.cache.Get(ctx, key)
	switch {
	case err == nil:
		var stats Stats
		if err := json.Unmarshal(cached, &stats); err == nil {
			return &stats, nil
		}
		log.Printf("stats cache: discarding unreadable entry %s", key)
	case !errors.Is(err, cache.ErrMiss):
		log.Printf("stats cache: get %s: %v", key, err)
	}

	gen := a.generation.Load()
	stats, err := a.compute(ctx)
	if err != nil {
		return nil, err
	}

	if a.ttl > 0 && a.generation.Load() == gen {
		payload, err := json.Marshal(stats)
		if err == nil {
			err = a.cache.Set(ctx, key, payload, a.ttl)
		}
		if err != nil {
			log.Printf("stats cache: set %s: %v", key, err)
		}
		// An Invalidate between the check and the Set deleted before we wrote.
		if a.generation.Load() != gen {
			a.drop(ctx, key)
		}
	}
	return stats, nil
}

// Invalidate drops today's cached stats.
func (a *StatsAggregator) Invalidate(ctx context.Context) {
	a.generation.Add(1)
	a.drop(ctx, statsKeyPrefix+a.Today())
}

func (a *StatsAggregator) drop(ctx context.Context, key string) {
	if err := a.cache.Delete(ctx, key); err != nil {
		log.Printf("stats cache: delete %s: %v", key, err)
	}
}

func (a *StatsAggregator) compute(ctx context.Context) (*Stats, error) {
	appointments := a.store.Appointments

	total, err := appointments.Count(ctx, repository.AppointmentFilter{})
	if err != nil {
		return nil, fmt.Errorf("count appointments: %w", err)
	}
	today, err := appointments.Count(ctx, repository.AppointmentFilter{Date: a.Today()})
	if err != nil {
		return nil, fmt.Errorf("count today's appointments: %w", err)
	}
	completed, err := appointments.Count(ctx, repository.AppointmentFilter{Status: models.StatusCompleted})
	if err != nil {
		return nil, fmt.Errorf("count completed appointments: %w", err)
	}
	minutes, err := a.store.Doctors.ConsultationTimes(ctx)
	if err != nil {
		return nil, fmt.Errorf("load consultation times: %w", err)
	}

	stats := &Stats{
		TotalAppointments: total,
		TodayAppointments: today,
	}
	if total > 0 {
		stats.CompletionRate = math.Round(float64(completed)/float64(total)*1000) / 10
	}
	if len(minutes) > 0 {
		sum := 0
		for _, m := range minutes {
			sum += m
		}
		stats.AvgWaitTime = int(math.Round(float64(sum) / float64(len(minutes))))
	}
	return stats, nil
}
