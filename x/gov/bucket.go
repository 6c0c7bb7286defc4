package gov

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
)

// ProposalBucket stores proposals under a sequence id. Ids start at 1 and
// are never reused.
type ProposalBucket struct {
	orm.ModelBucket
}

// NewProposalBucket returns a bucket for managing proposals.
func NewProposalBucket() *ProposalBucket {
	b := orm.NewModelBucket("proposals", &Proposal{},
		orm.WithIDSequence(orm.NewSequence("proposals", "id")))
	return &ProposalBucket{ModelBucket: b}
}

// Create stores a new proposal and returns its id.
func (b *ProposalBucket) Create(db gringotts.KVStore, p *Proposal) (uint64, error) {
	key, err := b.Put(db, nil, p)
	if err != nil {
		return 0, errors.Wrap(err, "cannot store proposal")
	}
	return orm.DecodeSequence(key)
}

// GetProposal loads the proposal for the given id. If it does not exist then
// ErrNotFound is returned.
func (b *ProposalBucket) GetProposal(db gringotts.ReadOnlyKVStore, id uint64) (*Proposal, error) {
	var p Proposal
	if err := b.One(db, orm.EncodeSequence(id), &p); err != nil {
		return nil, errors.Wrapf(err, "proposal %d", id)
	}
	return &p, nil
}

// Update stores the given proposal under an existing id.
func (b *ProposalBucket) Update(db gringotts.KVStore, id uint64, p *Proposal) error {
	if _, err := b.Put(db, orm.EncodeSequence(id), p); err != nil {
		return errors.Wrapf(err, "cannot save proposal %d", id)
	}
	return nil
}

// BallotBucket stores ballots under the proposal id followed by the voter
// address, so that all ballots of a proposal share a prefix.
type BallotBucket struct {
	orm.ModelBucket
}

// NewBallotBucket returns a bucket for managing ballots.
func NewBallotBucket() *BallotBucket {
	return &BallotBucket{ModelBucket: orm.NewModelBucket("ballots", &Ballot{})}
}

func ballotKey(proposalID uint64, voter gringotts.Address) []byte {
	return append(orm.EncodeSequence(proposalID), voter...)
}

// HasVoted returns true if the voter has a ballot on the proposal.
func (b *BallotBucket) HasVoted(db gringotts.ReadOnlyKVStore, proposalID uint64, voter gringotts.Address) (bool, error) {
	switch err := b.Has(db, ballotKey(proposalID, voter)); {
	case err == nil:
		return true, nil
	case errors.ErrNotFound.Is(err):
		return false, nil
	default:
		return false, err
	}
}

// Cast stores a new ballot. A second ballot of the same voter fails with
// ErrAlreadyVoted.
func (b *BallotBucket) Cast(db gringotts.KVStore, proposalID uint64, ballot *Ballot) error {
	voted, err := b.HasVoted(db, proposalID, ballot.Voter)
	if err != nil {
		return err
	}
	if voted {
		return errors.Wrapf(errors.ErrAlreadyVoted, "%s on proposal %d", ballot.Voter, proposalID)
	}
	if _, err := b.Put(db, ballotKey(proposalID, ballot.Voter), ballot); err != nil {
		return errors.Wrap(err, "cannot store ballot")
	}
	return nil
}

// ByProposal returns all ballots of a proposal ordered by voter address.
func (b *BallotBucket) ByProposal(db gringotts.ReadOnlyKVStore, proposalID uint64) ([]Ballot, error) {
	var ballots []Ballot
	if _, err := b.ByPrefix(db, orm.EncodeSequence(proposalID), &ballots); err != nil {
		return nil, err
	}
	return ballots, nil
}
