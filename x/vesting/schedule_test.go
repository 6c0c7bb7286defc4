package vesting

import (
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schedule(entries ...uint64) Schedule {
	var s Schedule
	for i := 0; i < len(entries); i += 2 {
		s.Times = append(s.Times, gringotts.UnixTime(entries[i]))
		s.Amounts = append(s.Amounts, coin.NewAmount(entries[i+1]))
	}
	return s
}

func TestTotalVestedAsOf(t *testing.T) {
	const t0 = 1000
	s := schedule(t0-1, 10, t0, 9, t0+1, 11)

	cases := map[string]struct {
		schedule Schedule
		now      gringotts.UnixTime
		want     uint64
	}{
		"empty schedule":          {schedule: Schedule{}, now: t0, want: 0},
		"nothing matured":         {schedule: s, now: t0 - 2, want: 0},
		"first entry matured":     {schedule: s, now: t0 - 1, want: 10},
		"maturity is inclusive":   {schedule: s, now: t0, want: 19},
		"everything matured":      {schedule: s, now: t0 + 1, want: 30},
		"long after last entry":   {schedule: s, now: t0 + 1000, want: 30},
		"single entry not mature": {schedule: schedule(t0, 10), now: t0 - 1, want: 0},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			before := tc.schedule
			got, err := tc.schedule.TotalVestedAsOf(tc.now)
			require.NoError(t, err)
			assert.Equal(t, coin.NewAmount(tc.want), got)
			assert.Equal(t, before, tc.schedule)
		})
	}
}

func TestTotalVestedIsNonDecreasing(t *testing.T) {
	s := schedule(10, 5, 20, 7, 30, 1, 40, 100)
	var prev coin.Amount
	for now := gringotts.UnixTime(0); now < 50; now++ {
		got, err := s.TotalVestedAsOf(now)
		require.NoError(t, err)
		if got.LessThan(prev) {
			t.Fatalf("vested decreased at %d: %s < %s", now, got, prev)
		}
		prev = got
	}
}

func TestCollectVested(t *testing.T) {
	const t0 = 1000

	cases := map[string]struct {
		schedule  Schedule
		now       gringotts.UnixTime
		requested uint64
		wantErr   *errors.Error
		want      Schedule
	}{
		"collect the whole single entry": {
			schedule:  schedule(t0, 10),
			now:       t0,
			requested: 10,
			want:      Schedule{Times: []gringotts.UnixTime{}, Amounts: []coin.Amount{}},
		},
		"collect part of a single entry": {
			schedule:  schedule(t0, 10),
			now:       t0,
			requested: 6,
			want:      schedule(t0, 4),
		},
		"collect across entries": {
			schedule:  schedule(t0-1, 10, t0, 9, t0+1, 11),
			now:       t0,
			requested: 15,
			want:      schedule(t0, 4, t0+1, 11),
		},
		"exact boundary removes the entry": {
			schedule:  schedule(t0-1, 10, t0, 9, t0+1, 11),
			now:       t0,
			requested: 19,
			want:      schedule(t0+1, 11),
		},
		"boundary of the first entry": {
			schedule:  schedule(t0-1, 10, t0, 9),
			now:       t0,
			requested: 10,
			want:      schedule(t0, 9),
		},
		"zero request is a no-op": {
			schedule:  schedule(t0, 10),
			now:       t0 - 5,
			requested: 0,
			want:      schedule(t0, 10),
		},
		"zero request on empty schedule": {
			schedule:  Schedule{},
			now:       t0,
			requested: 0,
			want:      Schedule{},
		},
		"more than matured": {
			schedule:  schedule(t0-1, 10, t0, 9, t0+1, 11),
			now:       t0,
			requested: 20,
			wantErr:   errors.ErrInsufficientVested,
			want:      schedule(t0-1, 10, t0, 9, t0+1, 11),
		},
		"nothing matured": {
			schedule:  schedule(t0, 10),
			now:       t0 - 1,
			requested: 1,
			wantErr:   errors.ErrInsufficientVested,
			want:      schedule(t0, 10),
		},
		"empty schedule": {
			schedule:  Schedule{},
			now:       t0,
			requested: 1,
			wantErr:   errors.ErrInsufficientVested,
			want:      Schedule{},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			s := tc.schedule
			vestedBefore, err := s.TotalVestedAsOf(tc.now)
			require.NoError(t, err)

			got, err := s.CollectVested(tc.now, coin.NewAmount(tc.requested))
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			assert.Equal(t, tc.want, s)
			if tc.wantErr != nil {
				return
			}
			assert.Equal(t, coin.NewAmount(tc.requested), got)

			vestedAfter, err := s.TotalVestedAsOf(tc.now)
			require.NoError(t, err)
			diff, err := vestedBefore.Sub(vestedAfter)
			require.NoError(t, err)
			assert.Equal(t, coin.NewAmount(tc.requested), diff)

			for i, a := range s.Amounts {
				if a.IsZero() {
					t.Fatalf("zero amount entry %d persisted", i)
				}
			}
			require.NoError(t, s.Validate())
		})
	}
}

func TestCollectVestedDoesNotAlias(t *testing.T) {
	s := schedule(10, 5, 20, 7)
	original := s.Amounts
	_, err := s.CollectVested(20, coin.NewAmount(6))
	require.NoError(t, err)
	assert.Equal(t, schedule(20, 6), s)
	assert.Equal(t, coin.NewAmount(5), original[0])
	assert.Equal(t, coin.NewAmount(7), original[1])
}

func TestEmergencyDrain(t *testing.T) {
	s := schedule(10, 5, 20, 7, 30, 11)
	total, err := s.EmergencyDrain()
	require.NoError(t, err)
	assert.Equal(t, coin.NewAmount(23), total)
	assert.Equal(t, 0, s.Len())

	total, err = s.EmergencyDrain()
	require.NoError(t, err)
	assert.True(t, total.IsZero())
}

func TestScheduleValidate(t *testing.T) {
	cases := map[string]struct {
		schedule Schedule
		wantErr  *errors.Error
	}{
		"valid":     {schedule: schedule(1, 1, 2, 2)},
		"empty":     {schedule: Schedule{}},
		"zero":      {schedule: schedule(1, 0), wantErr: errors.ErrInvalidConfiguration},
		"not after": {schedule: schedule(2, 1, 2, 1), wantErr: errors.ErrInvalidConfiguration},
		"mismatch": {
			schedule: Schedule{Times: []gringotts.UnixTime{1}},
			wantErr:  errors.ErrInvalidConfiguration,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if err := tc.schedule.Validate(); !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}
