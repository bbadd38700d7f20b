package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseState(t *testing.T) {
	cases := []struct {
		in      string
		want    State
		wantErr bool
	}{
		{"", StateAll, false},
		{"ALL", StateAll, false},
		{"CURRENT", StateCurrent, false},
		{"PAST", StatePast, false},
		{"FUTURE", StateFuture, false},
		{"WAITING", StateWaiting, false},
		{"REJECTED", StateRejected, false},
		{"APPROVED", "", true},
		{"current", "", true},
		{"bogus", "", true},
	}

	for _, tc := range cases {
		got, err := ParseState(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		assert.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestStateMatchesBoundaries(t *testing.T) {
	now := time.Now()

	// CURRENT is inclusive at both window ends.
	starting := &Booking{Start: now, End: now.Add(time.Hour), Status: StatusWaiting}
	ending := &Booking{Start: now.Add(-time.Hour), End: now, Status: StatusWaiting}

	assert.True(t, StateCurrent.Matches(starting, now))
	assert.True(t, StateCurrent.Matches(ending, now))
	assert.False(t, StatePast.Matches(ending, now))
	assert.False(t, StateFuture.Matches(starting, now))
}

// Every booking falls under ALL, under exactly one of PAST/CURRENT/FUTURE,
// and under WAITING/REJECTED exactly when its status says so.
func TestStateMatchesPartition(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := time.Unix(1_700_000_000, 0)

		startOffset := rapid.Int64Range(-1000, 1000).Draw(t, "startOffset")
		duration := rapid.Int64Range(0, 2000).Draw(t, "duration")
		status := rapid.SampledFrom([]Status{StatusWaiting, StatusApproved, StatusRejected}).Draw(t, "status")

		b := &Booking{
			Start:  now.Add(time.Duration(startOffset) * time.Second),
			End:    now.Add(time.Duration(startOffset+duration) * time.Second),
			Status: status,
		}

		if !StateAll.Matches(b, now) {
			t.Fatalf("ALL must match every booking")
		}

		windows := 0
		for _, s := range []State{StatePast, StateCurrent, StateFuture} {
			if s.Matches(b, now) {
				windows++
			}
		}
		if windows != 1 {
			t.Fatalf("booking start=%v end=%v matched %d time windows, want 1", b.Start, b.End, windows)
		}

		if got := StateWaiting.Matches(b, now); got != (status == StatusWaiting) {
			t.Fatalf("WAITING match = %v for status %s", got, status)
		}
		if got := StateRejected.Matches(b, now); got != (status == StatusRejected) {
			t.Fatalf("REJECTED match = %v for status %s", got, status)
		}
	})
}
