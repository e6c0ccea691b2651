// Package usage appends generation and visit events to the shared logs.
// Both logs are append-only; duplicates are meaningful frequency signal and
// are never deduplicated.
package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"promail/internal/domain"
	"promail/internal/infra/geoip"
	"promail/internal/store"
)

const defaultGeoWait = 800 * time.Millisecond

// Recorder writes usage and visit entries through the record store.
type Recorder struct {
	store   store.RecordStore
	locator geoip.Locator
	logger  zerolog.Logger
	geoWait time.Duration
	now     func() time.Time
}

// NewRecorder creates a Recorder. The locator may be nil, in which case
// entries are written without coordinates. geoWait bounds how long a usage
// append waits for the coordinate lookup; zero selects the default.
func NewRecorder(rs store.RecordStore, locator geoip.Locator, logger zerolog.Logger, geoWait time.Duration) *Recorder {
	if geoWait <= 0 {
		geoWait = defaultGeoWait
	}
	return &Recorder{
		store:   rs,
		locator: locator,
		logger:  logger,
		geoWait: geoWait,
		now:     time.Now,
	}
}

// RecordUsage appends exactly one usage entry for a successful generation.
// The coordinate lookup races a bounded timer; whichever finishes first
// decides whether the entry carries a location, and the entry is persisted
// once either way. A missing location is normal, never an error.
func (r *Recorder) RecordUsage(ctx context.Context, email string, language domain.Language, tone domain.Tone, category domain.Category, clientIP string) error {
	entry := domain.UsageEntry{
		Timestamp: r.now().UTC(),
		Email:     email,
		Language:  language,
		Tone:      tone,
		Category:  category,
	}
	entry.Location = r.locate(ctx, clientIP)

	entries, err := r.Usage(ctx)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	return r.writeLog(ctx, store.UsageKey, entries)
}

// RecordVisit appends a visit entry; called once per session start.
func (r *Recorder) RecordVisit(ctx context.Context) error {
	visits, err := r.Visits(ctx)
	if err != nil {
		return err
	}
	visits = append(visits, domain.VisitEntry{Timestamp: r.now().UTC()})
	return r.writeLog(ctx, store.VisitsKey, visits)
}

// Usage reads the full usage log. An absent or unparseable log reads as empty.
func (r *Recorder) Usage(ctx context.Context) ([]domain.UsageEntry, error) {
	raw, err := r.store.Get(ctx, store.UsageKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("usage: read log: %w", err)
	}
	var entries []domain.UsageEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		r.logger.Warn().Err(err).Msg("usage log unreadable, treating as empty")
		return nil, nil
	}
	return entries, nil
}

// Visits reads the full visit log. An absent or unparseable log reads as empty.
func (r *Recorder) Visits(ctx context.Context) ([]domain.VisitEntry, error) {
	raw, err := r.store.Get(ctx, store.VisitsKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("usage: read visits: %w", err)
	}
	var visits []domain.VisitEntry
	if err := json.Unmarshal(raw, &visits); err != nil {
		r.logger.Warn().Err(err).Msg("visit log unreadable, treating as empty")
		return nil, nil
	}
	return visits, nil
}

// locate resolves coordinates with a one-shot gate: the lookup result is
// consumed at most once, and the bounded timer is the fallback completion.
func (r *Recorder) locate(ctx context.Context, clientIP string) *domain.GeoPoint {
	if r.locator == nil || clientIP == "" {
		return nil
	}
	resolved := make(chan *domain.GeoPoint, 1)
	go func() {
		point, err := r.locator.Locate(clientIP)
		if err != nil {
			r.logger.Debug().Err(err).Str("ip", clientIP).Msg("geo lookup failed")
			resolved <- nil
			return
		}
		resolved <- point
	}()

	timer := time.NewTimer(r.geoWait)
	defer timer.Stop()
	select {
	case point := <-resolved:
		return point
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return nil
	}
}

func (r *Recorder) writeLog(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("usage: encode log: %w", err)
	}
	if err := r.store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("usage: append log: %w", err)
	}
	return nil
}
