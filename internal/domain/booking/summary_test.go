package booking

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shareit-marketplace/server/internal/domain/item"
	"github.com/shareit-marketplace/server/internal/domain/user"
)

func summaryBooking(start, end time.Time) *Booking {
	itm := item.Reconstruct(uuid.New(), uuid.New(), "ladder", "step ladder", true, nil)
	booker := user.Reconstruct(uuid.New(), "Booker", "booker@example.com")
	return Reconstruct(uuid.New(), start, end, itm, booker, StatusApproved)
}

func TestSummarizeEmpty(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := Summarize(nil, now)
	assert.Nil(t, s.Last)
	assert.Nil(t, s.Next)
}

func TestSummarizePicksLatestStartedAndSoonestUpcoming(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	older := summaryBooking(now.Add(-72*time.Hour), now.Add(-48*time.Hour))
	recent := summaryBooking(now.Add(-24*time.Hour), now.Add(-12*time.Hour))
	soon := summaryBooking(now.Add(12*time.Hour), now.Add(24*time.Hour))
	later := summaryBooking(now.Add(48*time.Hour), now.Add(72*time.Hour))

	// Input sorted ascending by start, as the projector query returns it.
	s := Summarize([]*Booking{older, recent, soon, later}, now)

	require.NotNil(t, s.Last)
	require.NotNil(t, s.Next)
	assert.Equal(t, recent.ID(), s.Last.ID())
	assert.Equal(t, soon.ID(), s.Next.ID())
}

func TestSummarizeOnlyPast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := summaryBooking(now.Add(-24*time.Hour), now.Add(-12*time.Hour))

	s := Summarize([]*Booking{b}, now)
	require.NotNil(t, s.Last)
	assert.Equal(t, b.ID(), s.Last.ID())
	assert.Nil(t, s.Next)
}

func TestSummarizeOnlyFuture(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	b := summaryBooking(now.Add(12*time.Hour), now.Add(24*time.Hour))

	s := Summarize([]*Booking{b}, now)
	assert.Nil(t, s.Last)
	require.NotNil(t, s.Next)
	assert.Equal(t, b.ID(), s.Next.ID())
}

func TestSummarizeStartExactlyNowCountsAsLast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	atNow := summaryBooking(now, now.Add(12*time.Hour))

	s := Summarize([]*Booking{atNow}, now)
	require.NotNil(t, s.Last)
	assert.Equal(t, atNow.ID(), s.Last.ID())
	assert.Nil(t, s.Next)
}

func TestSummarizeOngoingBookingIsLast(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ongoing := summaryBooking(now.Add(-time.Hour), now.Add(time.Hour))
	upcoming := summaryBooking(now.Add(24*time.Hour), now.Add(48*time.Hour))

	s := Summarize([]*Booking{ongoing, upcoming}, now)
	require.NotNil(t, s.Last)
	require.NotNil(t, s.Next)
	assert.Equal(t, ongoing.ID(), s.Last.ID())
	assert.Equal(t, upcoming.ID(), s.Next.ID())
}
