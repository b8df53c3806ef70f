package schedule

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wolfman30/hospital-platform/pkg/logging"
)

type fakeSlotSource struct {
	booked []string
	err    error
	calls  int
}

func (f *fakeSlotSource) BookedStartTimes(ctx context.Context, doctorID string, date time.Time) ([]string, error) {
	f.calls++
	return f.booked, f.err
}

func TestAvailableSlots_SubtractsBooked(t *testing.T) {
	source := &fakeSlotSource{booked: []string{"09:30", "14:00"}}
	resolver := NewResolver(source, logging.Default())

	date := time.Date(2026, 3, 12, 0, 0, 0, 0, time.UTC)
	slots, err := resolver.AvailableSlots(context.Background(), "doc-1", date)
	require.NoError(t, err)

	assert.NotContains(t, slots, "09:30")
	assert.NotContains(t, slots, "14:00")
	assert.Len(t, slots, len(Catalog())-2)

	// Catalog order is preserved.
	assert.Equal(t, []string{"09:00", "10:00", "10:30", "11:00", "11:30", "14:30", "15:00", "15:30", "16:00", "16:30"}, slots)
}

func TestAvailableSlots_NormalizesSeconds(t *testing.T) {
	source := &fakeSlotSource{booked: []string{"09:00:00", "10:30:00"}}
	resolver := NewResolver(source, logging.Default())

	slots, err := resolver.AvailableSlots(context.Background(), "doc-1", time.Now())
	require.NoError(t, err)

	assert.NotContains(t, slots, "09:00")
	assert.NotContains(t, slots, "10:30")
}

func TestAvailableSlots_NoDuplicates(t *testing.T) {
	source := &fakeSlotSource{booked: []string{"09:00", "09:00:00"}}
	resolver := NewResolver(source, logging.Default())

	slots, err := resolver.AvailableSlots(context.Background(), "doc-1", time.Now())
	require.NoError(t, err)

	seen := map[string]int{}
	for _, s := range slots {
		seen[s]++
	}
	for slot, n := range seen {
		assert.Equal(t, 1, n, "slot %s appears %d times", slot, n)
	}
}

func TestAvailableSlots_EmptyInputsSkipStore(t *testing.T) {
	source := &fakeSlotSource{booked: []string{"09:00"}}
	resolver := NewResolver(source, logging.Default())

	slots, err := resolver.AvailableSlots(context.Background(), "", time.Now())
	require.NoError(t, err)
	assert.Empty(t, slots)

	slots, err = resolver.AvailableSlots(context.Background(), "doc-1", time.Time{})
	require.NoError(t, err)
	assert.Empty(t, slots)

	assert.Zero(t, source.calls, "store must not be contacted without doctor and date")
}

func TestAvailableSlots_SourceError(t *testing.T) {
	source := &fakeSlotSource{err: errors.New("connection refused")}
	resolver := NewResolver(source, logging.Default())

	slots, err := resolver.AvailableSlots(context.Background(), "doc-1", time.Now())
	require.Error(t, err)
	assert.Nil(t, slots, "no stale slot data on fetch failure")
}

func TestAvailableSlots_FullyBooked(t *testing.T) {
	source := &fakeSlotSource{booked: Catalog()}
	resolver := NewResolver(source, logging.Default())

	slots, err := resolver.AvailableSlots(context.Background(), "doc-1", time.Now())
	require.NoError(t, err)
	assert.Empty(t, slots)
	assert.NotNil(t, slots, "fully booked yields empty, not nil")
}
