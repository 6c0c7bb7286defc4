package gov

import (
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/iov-one/gringotts/vaulttest/assert"
)

func TestCurrentStatus(t *testing.T) {
	const (
		height = 100
		now    = 5000
	)

	cases := map[string]struct {
		threshold uint64
		total     uint64
		tally     Tally
		stored    Status
		expires   Expiration
		want      Status
	}{
		"below threshold": {
			threshold: 7500,
			total:     4,
			tally:     Tally{Yes: 2, No: 1},
			stored:    StatusOpen,
			expires:   Expiration{AtTime: now + 1},
			want:      StatusOpen,
		},
		"exactly at threshold": {
			threshold: 7500,
			total:     4,
			tally:     Tally{Yes: 3},
			stored:    StatusOpen,
			expires:   Expiration{AtTime: now + 1},
			want:      StatusPassed,
		},
		"one third does not reach 34%": {
			threshold: 3400,
			total:     3,
			tally:     Tally{Yes: 1},
			stored:    StatusOpen,
			expires:   Expiration{Never: true},
			want:      StatusOpen,
		},
		"zero threshold passes with no votes": {
			threshold: 0,
			total:     3,
			stored:    StatusOpen,
			expires:   Expiration{AtTime: now + 1},
			want:      StatusPassed,
		},
		"full threshold needs everyone": {
			threshold: 10000,
			total:     2,
			tally:     Tally{Yes: 1, No: 1},
			stored:    StatusOpen,
			expires:   Expiration{AtTime: now + 1},
			want:      StatusOpen,
		},
		"expired by time": {
			threshold: 7500,
			total:     4,
			tally:     Tally{Yes: 1},
			stored:    StatusOpen,
			expires:   Expiration{AtTime: now},
			want:      StatusRejected,
		},
		"expired by height": {
			threshold: 7500,
			total:     4,
			tally:     Tally{Yes: 1},
			stored:    StatusOpen,
			expires:   Expiration{AtHeight: height},
			want:      StatusRejected,
		},
		"not yet expired by height": {
			threshold: 7500,
			total:     4,
			tally:     Tally{Yes: 1},
			stored:    StatusOpen,
			expires:   Expiration{AtHeight: height + 1},
			want:      StatusOpen,
		},
		"passed stays passed after expiration": {
			threshold: 5000,
			total:     2,
			tally:     Tally{Yes: 1},
			stored:    StatusPassed,
			expires:   Expiration{AtTime: now - 100},
			want:      StatusPassed,
		},
		"stored open is recomputed": {
			threshold: 5000,
			total:     2,
			tally:     Tally{Yes: 1},
			stored:    StatusOpen,
			expires:   Expiration{AtTime: now - 100},
			want:      StatusPassed,
		},
		"executed is authoritative": {
			threshold: 10000,
			total:     2,
			tally:     Tally{Yes: 2},
			stored:    StatusExecuted,
			expires:   Expiration{AtTime: now - 100},
			want:      StatusExecuted,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p := Proposal{
				ThresholdBP: tc.threshold,
				TotalWeight: tc.total,
				Tally:       tc.tally,
				Status:      tc.stored,
				Expires:     tc.expires,
			}
			got := p.CurrentStatus(height, now)
			assert.Equal(t, tc.want, got)
			// Status computation is a pure function.
			assert.Equal(t, got, p.CurrentStatus(height, now))
		})
	}
}

func TestProposalValidate(t *testing.T) {
	send, err := gringotts.NewSelfCall(&VoteMsg{ProposalID: 1})
	assert.Nil(t, err)

	valid := func() *Proposal {
		return &Proposal{
			Title:       "Update admin",
			CreatedAt:   1000,
			Expires:     Expiration{AtTime: 2000},
			Actions:     []gringotts.Instruction{send},
			Status:      StatusOpen,
			Tally:       Tally{Yes: 1},
			ThresholdBP: 5000,
			TotalWeight: 3,
			Proposer:    vaulttest.NewCondition().Address(),
		}
	}

	cases := map[string]struct {
		mutate  func(*Proposal)
		wantErr *errors.Error
	}{
		"valid": {
			mutate: func(*Proposal) {},
		},
		"valid with deposit": {
			mutate:  func(p *Proposal) { p.Deposit = coin.NewCoinp(10, "usei") },
			wantErr: nil,
		},
		"missing title": {
			mutate:  func(p *Proposal) { p.Title = "" },
			wantErr: errors.ErrEmpty,
		},
		"no actions": {
			mutate:  func(p *Proposal) { p.Actions = nil },
			wantErr: errors.ErrEmpty,
		},
		"invalid action": {
			mutate:  func(p *Proposal) { p.Actions = []gringotts.Instruction{{}} },
			wantErr: errors.ErrMsg,
		},
		"two expirations": {
			mutate:  func(p *Proposal) { p.Expires.AtHeight = 10 },
			wantErr: errors.ErrState,
		},
		"unknown status": {
			mutate:  func(p *Proposal) { p.Status = 0 },
			wantErr: errors.ErrState,
		},
		"threshold above 100%": {
			mutate:  func(p *Proposal) { p.ThresholdBP = 10001 },
			wantErr: errors.ErrState,
		},
		"more votes than weight": {
			mutate:  func(p *Proposal) { p.Tally = Tally{Yes: 2, No: 2} },
			wantErr: errors.ErrState,
		},
		"missing proposer": {
			mutate:  func(p *Proposal) { p.Proposer = nil },
			wantErr: errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			p := valid()
			tc.mutate(p)
			assert.IsErr(t, tc.wantErr, p.Validate())
		})
	}
}

func TestStatusString(t *testing.T) {
	assert.Equal(t, "passed", StatusPassed.String())
	assert.Equal(t, "Status(9)", Status(9).String())
}
