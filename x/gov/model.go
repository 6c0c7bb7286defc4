package gov

import (
	"fmt"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
)

// thresholdScale is the value of 100% in basis points.
const thresholdScale = 10000

const (
	maxTitleLength       = 128
	maxDescriptionLength = 5000
)

// Status of a proposal.
type Status uint8

const (
	StatusOpen Status = iota + 1
	StatusPassed
	StatusRejected
	StatusExecuted
)

var statusNames = map[Status]string{
	StatusOpen:     "open",
	StatusPassed:   "passed",
	StatusRejected: "rejected",
	StatusExecuted: "executed",
}

func (s Status) String() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return fmt.Sprintf("Status(%d)", uint8(s))
}

func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errors.Wrapf(errors.ErrState, "unknown status %d", uint8(s))
	}
	return nil
}

// Tally is the sum of ballot weights.
type Tally struct {
	_   struct{} `cbor:",toarray"`
	Yes uint64   `json:"yes"`
	No  uint64   `json:"no"`
}

// Proposal is an ordered list of instructions waiting for the approval of
// the administrators.
type Proposal struct {
	_             struct{}                `cbor:",toarray"`
	Title         string                  `json:"title"`
	Description   string                  `json:"description"`
	CreatedHeight int64                   `json:"created_height"`
	CreatedAt     gringotts.UnixTime      `json:"created_at"`
	Expires       Expiration              `json:"expires"`
	Actions       []gringotts.Instruction `json:"actions"`

	// Status is the last observed status. Only StatusExecuted is
	// authoritative, use CurrentStatus to learn the status at a block.
	Status      Status            `json:"status"`
	Tally       Tally             `json:"tally"`
	ThresholdBP uint64            `json:"threshold_bp"`
	TotalWeight uint64            `json:"total_weight"`
	Proposer    gringotts.Address `json:"proposer"`
	Deposit     *coin.Coin        `json:"deposit,omitempty"`
}

var _ orm.Model = (*Proposal)(nil)

func (p *Proposal) Validate() error {
	var errs error
	switch {
	case p.Title == "":
		errs = errors.AppendField(errs, "Title", errors.ErrEmpty)
	case len(p.Title) > maxTitleLength:
		errs = errors.AppendField(errs, "Title", errors.Wrapf(errors.ErrInput, "longer than %d characters", maxTitleLength))
	}
	if len(p.Description) > maxDescriptionLength {
		errs = errors.AppendField(errs, "Description", errors.Wrapf(errors.ErrInput, "longer than %d characters", maxDescriptionLength))
	}
	if p.CreatedHeight < 0 {
		errs = errors.AppendField(errs, "CreatedHeight", errors.ErrInput)
	}
	errs = errors.AppendField(errs, "CreatedAt", p.CreatedAt.Validate())
	errs = errors.AppendField(errs, "Expires", p.Expires.Validate())
	if len(p.Actions) == 0 {
		errs = errors.AppendField(errs, "Actions", errors.ErrEmpty)
	}
	for i, a := range p.Actions {
		errs = errors.AppendField(errs, fmt.Sprintf("Actions.%d", i), a.Validate())
	}
	errs = errors.AppendField(errs, "Status", p.Status.Validate())
	if p.ThresholdBP > thresholdScale {
		errs = errors.AppendField(errs, "ThresholdBP", errors.Wrap(errors.ErrState, "greater than 100%"))
	}
	if p.TotalWeight == 0 {
		errs = errors.AppendField(errs, "TotalWeight", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Proposer", p.Proposer.Validate())
	if p.Deposit != nil {
		errs = errors.AppendField(errs, "Deposit", p.Deposit.Validate())
	}
	return errs
}

// CurrentStatus computes the status of the proposal at given block. The
// result is the same for the same tally, snapshots and block, whatever
// status was stored before.
func (p *Proposal) CurrentStatus(height int64, now gringotts.UnixTime) Status {
	switch {
	case p.Status == StatusExecuted:
		return StatusExecuted
	case p.passed():
		return StatusPassed
	case p.Expires.IsExpired(height, now):
		return StatusRejected
	default:
		return StatusOpen
	}
}

// passed compares yes/total with threshold/10000 without division.
func (p *Proposal) passed() bool {
	return p.Tally.Yes*thresholdScale >= p.ThresholdBP*p.TotalWeight
}

// count adds the weight of a ballot to the tally.
func (p *Proposal) count(b *Ballot) {
	if b.Approve {
		p.Tally.Yes += b.Weight
	} else {
		p.Tally.No += b.Weight
	}
}

// Ballot is the vote of a single administrator on a proposal.
type Ballot struct {
	_       struct{}          `cbor:",toarray"`
	Voter   gringotts.Address `json:"voter"`
	Approve bool              `json:"approve"`
	Weight  uint64            `json:"weight"`
}

var _ orm.Model = (*Ballot)(nil)

func (b *Ballot) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Voter", b.Voter.Validate())
	if b.Weight == 0 {
		errs = errors.AppendField(errs, "Weight", errors.ErrEmpty)
	}
	return errs
}
