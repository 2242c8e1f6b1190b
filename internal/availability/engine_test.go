package availability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRange(t *testing.T, start, end string) Range {
	t.Helper()
	r, err := ParseRange(start, end)
	require.NoError(t, err)
	return r
}

func TestOverlaps_MatchesIntervalFormulaAndIsSymmetric(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(i int) time.Time { return base.AddDate(0, 0, i) }

	// every ordered pair of ranges inside a 6 day window
	for a1 := 0; a1 < 6; a1++ {
		for a2 := a1; a2 < 6; a2++ {
			for b1 := 0; b1 < 6; b1++ {
				for b2 := b1; b2 < 6; b2++ {
					a := Range{Start: day(a1), End: day(a2)}
					b := Range{Start: day(b1), End: day(b2)}
					want := a1 <= b2 && b1 <= a2
					assert.Equal(t, want, Overlaps(a, b), "overlap(%s, %s)", a, b)
					assert.Equal(t, Overlaps(a, b), Overlaps(b, a), "symmetry for %s, %s", a, b)
				}
			}
		}
	}
}

func TestIsOverlapping(t *testing.T) {
	tests := []struct {
		name      string
		candidate [2]string
		existing  []Period
		want      bool
	}{
		{
			name:      "no existing bookings",
			candidate: [2]string{"2024-01-01", "2024-01-05"},
			want:      false,
		},
		{
			name:      "single day booking inside candidate",
			candidate: [2]string{"2024-01-05", "2024-01-10"},
			existing:  []Period{{StartDate: "2024-01-05", EndDate: "2024-01-05"}},
			want:      true,
		},
		{
			name:      "single day overlaps itself",
			candidate: [2]string{"2024-01-05", "2024-01-05"},
			existing:  []Period{{StartDate: "2024-01-05", EndDate: "2024-01-05"}},
			want:      true,
		},
		{
			name:      "adjacent ranges do not overlap",
			candidate: [2]string{"2024-01-06", "2024-01-10"},
			existing:  []Period{{StartDate: "2024-01-01", EndDate: "2024-01-05"}},
			want:      false,
		},
		{
			name:      "candidate fully contained",
			candidate: [2]string{"2024-01-03", "2024-01-05"},
			existing:  []Period{{StartDate: "2024-01-01", EndDate: "2024-01-10"}},
			want:      true,
		},
		{
			name:      "candidate contains existing",
			candidate: [2]string{"2024-01-01", "2024-01-31"},
			existing:  []Period{{StartDate: "2024-01-10", EndDate: "2024-01-12"}},
			want:      true,
		},
		{
			name:      "shared end day",
			candidate: [2]string{"2024-01-05", "2024-01-07"},
			existing:  []Period{{StartDate: "2024-01-01", EndDate: "2024-01-05"}},
			want:      true,
		},
		{
			name:      "malformed record is skipped",
			candidate: [2]string{"2024-01-03", "2024-01-05"},
			existing:  []Period{{StartDate: "2024-01-01", EndDate: "not-a-date"}},
			want:      false,
		},
		{
			name:      "inverted stored record is skipped",
			candidate: [2]string{"2024-01-03", "2024-01-05"},
			existing:  []Period{{StartDate: "2024-01-10", EndDate: "2024-01-01"}},
			want:      false,
		},
		{
			name:      "conflict after a malformed record is still found",
			candidate: [2]string{"2024-01-03", "2024-01-05"},
			existing: []Period{
				{StartDate: "garbage", EndDate: "2024-01-04"},
				{StartDate: "2024-01-04", EndDate: "2024-01-04"},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidate := mustRange(t, tt.candidate[0], tt.candidate[1])
			assert.Equal(t, tt.want, IsOverlapping(candidate, tt.existing))
		})
	}
}

func TestAdmit(t *testing.T) {
	existing := []Period{{StartDate: "2024-01-01", EndDate: "2024-01-05"}}

	t.Run("adjacent range is accepted", func(t *testing.T) {
		got := Admit(mustRange(t, "2024-01-06", "2024-01-10"), existing)
		assert.Equal(t, Accepted, got.Decision)
		assert.True(t, got.Accepted())
		assert.Nil(t, got.Conflict)
	})

	t.Run("contained range is rejected with the conflicting period", func(t *testing.T) {
		within := []Period{{StartDate: "2024-01-01", EndDate: "2024-01-10"}}
		got := Admit(mustRange(t, "2024-01-03", "2024-01-05"), within)
		assert.Equal(t, Rejected, got.Decision)
		require.NotNil(t, got.Conflict)
		assert.Equal(t, within[0], *got.Conflict)
	})

	t.Run("inverted candidate is rejected as invalid", func(t *testing.T) {
		inverted := Range{
			Start: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC),
		}
		got := Admit(inverted, nil)
		assert.Equal(t, InvalidRange, got.Decision)
		assert.False(t, got.Accepted())
	})
}

func TestExpandToBlockedDates(t *testing.T) {
	bookings := []Period{
		{StartDate: "2024-03-05", EndDate: "2024-03-05"},
		{StartDate: "2024-03-01", EndDate: "2024-03-03"},
	}

	got := FormatDates(ExpandToBlockedDates(bookings))
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-03", "2024-03-05"}, got)
}

func TestExpandToBlockedDates_DeduplicatesAndIgnoresOrder(t *testing.T) {
	a := []Period{
		{StartDate: "2024-02-27", EndDate: "2024-03-02"},
		{StartDate: "2024-03-01", EndDate: "2024-03-04"},
		{StartDate: "2024-03-10", EndDate: "2024-03-10"},
	}
	b := []Period{a[2], a[0], a[1]}

	first := ExpandToBlockedDates(a)
	second := ExpandToBlockedDates(b)
	assert.Equal(t, first, second)
	assert.Equal(t, first, ExpandToBlockedDates(a))

	// leap day and month boundary are walked one day at a time
	assert.Equal(t, []string{
		"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01",
		"2024-03-02", "2024-03-03", "2024-03-04", "2024-03-10",
	}, FormatDates(first))
}

func TestExpandToBlockedDates_MalformedRecordIsIgnored(t *testing.T) {
	clean := []Period{
		{StartDate: "2024-03-01", EndDate: "2024-03-02"},
	}
	dirty := append([]Period{{StartDate: "2024-03-05", EndDate: "2024-13-40"}}, clean...)

	assert.Equal(t, ExpandToBlockedDates(clean), ExpandToBlockedDates(dirty))
}

func TestExpandToBlockedDates_Empty(t *testing.T) {
	got := ExpandToBlockedDates(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExpandWithin(t *testing.T) {
	bookings := []Period{
		{StartDate: "2024-02-25", EndDate: "2024-03-02"},
		{StartDate: "2024-03-30", EndDate: "2024-04-03"},
		{StartDate: "2024-05-01", EndDate: "2024-05-02"},
	}
	march := mustRange(t, "2024-03-01", "2024-03-31")

	got := FormatDates(ExpandWithin(bookings, march))
	assert.Equal(t, []string{"2024-03-01", "2024-03-02", "2024-03-30", "2024-03-31"}, got)

	for _, d := range ExpandWithin(bookings, march) {
		assert.True(t, march.Contains(d))
	}
}

func TestParseRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
		days    int
	}{
		{name: "single day", start: "2024-01-05", end: "2024-01-05", days: 1},
		{name: "week", start: "2024-01-01", end: "2024-01-07", days: 7},
		{name: "inverted", start: "2024-01-07", end: "2024-01-01", wantErr: ErrInvalidRange},
		{name: "bad start", start: "01/05/2024", end: "2024-01-07", wantErr: ErrMalformedDate},
		{name: "bad end", start: "2024-01-05", end: "2024-02-30", wantErr: ErrMalformedDate},
		{name: "timestamp rejected", start: "2024-01-05T10:00:00Z", end: "2024-01-06", wantErr: ErrMalformedDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := ParseRange(tt.start, tt.end)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.days, r.Days())
			assert.Equal(t, tt.start, FormatDate(r.Start))
			assert.Equal(t, tt.end, FormatDate(r.End))
		})
	}
}

func TestNewRange_TruncatesToDay(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	r, err := NewRange(
		time.Date(2024, 6, 1, 23, 30, 0, 0, loc),
		time.Date(2024, 6, 2, 0, 15, 0, 0, loc),
	)
	require.NoError(t, err)
	assert.Equal(t, "2024-06-01..2024-06-02", r.String())
}
