package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/wolfman30/hospital-platform/pkg/logging"
)

// BookedSlotSource reports the start times already consumed by non-cancelled
// appointments for a doctor on a calendar day.
type BookedSlotSource interface {
	BookedStartTimes(ctx context.Context, doctorID string, date time.Time) ([]string, error)
}

// Resolver computes the free slots for a (doctor, date) pair by subtracting
// booked start times from the fixed catalog.
type Resolver struct {
	source BookedSlotSource
	logger *logging.Logger
}

// NewResolver creates a slot resolver.
func NewResolver(source BookedSlotSource, logger *logging.Logger) *Resolver {
	if source == nil {
		panic("schedule: booked slot source required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Resolver{source: source, logger: logger}
}

// AvailableSlots returns the catalog slots not yet taken for the doctor on
// the given day, in catalog order. A missing doctor or date yields an empty
// result without touching the store.
func (r *Resolver) AvailableSlots(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	if doctorID == "" || date.IsZero() {
		return []string{}, nil
	}

	booked, err := r.source.BookedStartTimes(ctx, doctorID, date)
	if err != nil {
		return nil, fmt.Errorf("schedule: load booked slots: %w", err)
	}

	occupied := make(map[string]struct{}, len(booked))
	for _, raw := range booked {
		normalized, err := Normalize24(raw)
		if err != nil {
			r.logger.Warn("skipping unparseable booked start time", "doctor_id", doctorID, "start_time", raw)
			continue
		}
		occupied[normalized] = struct{}{}
	}

	free := make([]string, 0, len(Catalog()))
	for _, slot := range Catalog() {
		if _, taken := occupied[slot]; !taken {
			free = append(free, slot)
		}
	}
	return free, nil
}
