package gov

import (
	"context"
	"strconv"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
	"github.com/iov-one/gringotts/x"
	"github.com/iov-one/gringotts/x/roles"
)

const (
	tagAction     = "action"
	tagProposalID = "proposal_id"
	tagProposer   = "proposer"
	tagVoter      = "voter"
	tagStatus     = "status"
)

// ballotWeight is the weight of every administrator.
const ballotWeight = 1

// RegisterQuery registers governance buckets for querying.
func RegisterQuery(qr gringotts.QueryRouter) {
	registerProposalQuery(qr, NewProposalBucket())
	NewBallotBucket().Register("ballots", qr)
}

// RegisterRoutes registers handlers for governance message processing.
func RegisterRoutes(r gringotts.Registry, auth x.Authenticator) {
	gate := roles.NewGate()
	proposals := NewProposalBucket()
	ballots := NewBallotBucket()
	propose := &ProposeHandler{
		auth:      auth,
		gate:      gate,
		admins:    roles.AdminTable(),
		proposals: proposals,
		ballots:   ballots,
	}
	for _, m := range proposeMsgs() {
		r.Handle(m, propose)
	}
	r.Handle(&VoteMsg{}, &VoteHandler{
		auth:      auth,
		gate:      gate,
		proposals: proposals,
		ballots:   ballots,
	})
	r.Handle(&ProcessProposalMsg{}, &ProcessHandler{
		auth:      auth,
		gate:      gate,
		proposals: proposals,
	})
}

// ProposeHandler creates a proposal from any ProposeMsg.
type ProposeHandler struct {
	auth      x.Authenticator
	gate      *roles.Gate
	admins    *roles.Table
	proposals *ProposalBucket
	ballots   *BallotBucket
}

var _ gringotts.Handler = (*ProposeHandler)(nil)

func (h *ProposeHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, err := h.validate(ctx, info, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *ProposeHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	proposal, err := h.validate(ctx, info, db, tx)
	if err != nil {
		return nil, err
	}
	ballot := &Ballot{Voter: proposal.Proposer, Approve: true, Weight: ballotWeight}
	proposal.count(ballot)
	proposal.Status = proposal.CurrentStatus(info.Height(), info.UnixTime())

	id, err := h.proposals.Create(db, proposal)
	if err != nil {
		return nil, err
	}
	if err := h.ballots.Cast(db, id, ballot); err != nil {
		return nil, err
	}

	res := &gringotts.DeliverResult{Data: orm.EncodeSequence(id)}
	res.Tag(tagAction, "propose")
	res.Tag(tagProposalID, strconv.FormatUint(id, 10))
	res.Tag(tagProposer, proposal.Proposer.String())
	res.Tag(tagStatus, proposal.Status.String())
	info.Logger().Info("proposal created",
		"id", id,
		"title", proposal.Title,
		"status", proposal.Status.String(),
		"expires", proposal.Expires.String())
	return res, nil
}

// validate returns the proposal to create, without the ballot of the
// proposer.
func (h *ProposeHandler) validate(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*Proposal, error) {
	proposer, err := h.gate.RequireAdmin(ctx, h.auth, db)
	if err != nil {
		return nil, err
	}
	var msg ProposeMsg
	if err := gringotts.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	title, description, actions, err := msg.Draft()
	if err != nil {
		return nil, err
	}
	t, d := msg.Summary()
	if t != "" {
		title = t
	}
	if d != "" {
		description = d
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	weight, err := h.admins.Count(db)
	if err != nil {
		return nil, errors.Wrap(err, "count admins")
	}
	return &Proposal{
		Title:         title,
		Description:   description,
		CreatedHeight: info.Height(),
		CreatedAt:     info.UnixTime(),
		Expires:       conf.MaxVotingPeriod.After(info),
		Actions:       actions,
		Status:        StatusOpen,
		ThresholdBP:   conf.ThresholdBP(),
		TotalWeight:   uint64(weight) * ballotWeight,
		Proposer:      proposer,
	}, nil
}

// VoteHandler records the ballot of an administrator.
type VoteHandler struct {
	auth      x.Authenticator
	gate      *roles.Gate
	proposals *ProposalBucket
	ballots   *BallotBucket
}

var _ gringotts.Handler = (*VoteHandler)(nil)

func (h *VoteHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, _, err := h.validate(ctx, info, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *VoteHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	voter, msg, proposal, err := h.validate(ctx, info, db, tx)
	if err != nil {
		return nil, err
	}
	ballot := &Ballot{Voter: voter, Approve: msg.Approve, Weight: ballotWeight}
	if err := h.ballots.Cast(db, msg.ProposalID, ballot); err != nil {
		return nil, err
	}
	proposal.count(ballot)
	proposal.Status = proposal.CurrentStatus(info.Height(), info.UnixTime())
	if err := h.proposals.Update(db, msg.ProposalID, proposal); err != nil {
		return nil, err
	}

	res := &gringotts.DeliverResult{Data: []byte(proposal.Status.String())}
	res.Tag(tagAction, "vote")
	res.Tag(tagProposalID, strconv.FormatUint(msg.ProposalID, 10))
	res.Tag(tagVoter, voter.String())
	res.Tag(tagStatus, proposal.Status.String())
	info.Logger().Debug("vote cast",
		"id", msg.ProposalID,
		"approve", msg.Approve,
		"status", proposal.Status.String())
	return res, nil
}

func (h *VoteHandler) validate(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (gringotts.Address, *VoteMsg, *Proposal, error) {
	voter, err := h.gate.RequireAdmin(ctx, h.auth, db)
	if err != nil {
		return nil, nil, nil, err
	}
	var msg VoteMsg
	if err := gringotts.LoadMsg(tx, &msg); err != nil {
		return nil, nil, nil, errors.Wrap(err, "load msg")
	}
	proposal, err := h.proposals.GetProposal(db, msg.ProposalID)
	if err != nil {
		return nil, nil, nil, err
	}
	switch status := proposal.CurrentStatus(info.Height(), info.UnixTime()); status {
	case StatusOpen:
	case StatusRejected:
		return nil, nil, nil, errors.Wrapf(errors.ErrProposalExpired, "expired at %s", proposal.Expires)
	default:
		return nil, nil, nil, errors.Wrapf(errors.ErrProposalNotOpen, "proposal is %s", status)
	}
	voted, err := h.ballots.HasVoted(db, msg.ProposalID, voter)
	if err != nil {
		return nil, nil, nil, err
	}
	if voted {
		return nil, nil, nil, errors.Wrapf(errors.ErrAlreadyVoted, "proposal %d", msg.ProposalID)
	}
	return voter, &msg, proposal, nil
}

// ProcessHandler executes a passed proposal. The stored instructions are
// returned for dispatch exactly once.
type ProcessHandler struct {
	auth      x.Authenticator
	gate      *roles.Gate
	proposals *ProposalBucket
}

var _ gringotts.Handler = (*ProcessHandler)(nil)

func (h *ProcessHandler) Check(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.CheckResult, error) {
	if _, _, err := h.validate(ctx, info, db, tx); err != nil {
		return nil, err
	}
	return &gringotts.CheckResult{}, nil
}

func (h *ProcessHandler) Deliver(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*gringotts.DeliverResult, error) {
	msg, proposal, err := h.validate(ctx, info, db, tx)
	if err != nil {
		return nil, err
	}
	proposal.Status = StatusExecuted
	if err := h.proposals.Update(db, msg.ProposalID, proposal); err != nil {
		return nil, err
	}

	res := &gringotts.DeliverResult{Dispatch: proposal.Actions}
	res.Tag(tagAction, "process_proposal")
	res.Tag(tagProposalID, strconv.FormatUint(msg.ProposalID, 10))
	res.Tag(tagStatus, proposal.Status.String())
	info.Logger().Info("proposal executed", "id", msg.ProposalID, "actions", len(proposal.Actions))
	return res, nil
}

func (h *ProcessHandler) validate(ctx context.Context, info gringotts.BlockInfo, db gringotts.KVStore, tx gringotts.Tx) (*ProcessProposalMsg, *Proposal, error) {
	if _, err := h.gate.RequireAdmin(ctx, h.auth, db); err != nil {
		return nil, nil, err
	}
	var msg ProcessProposalMsg
	if err := gringotts.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	proposal, err := h.proposals.GetProposal(db, msg.ProposalID)
	if err != nil {
		return nil, nil, err
	}
	if status := proposal.CurrentStatus(info.Height(), info.UnixTime()); status != StatusPassed {
		return nil, nil, errors.Wrapf(errors.ErrWrongExecutionStatus, "proposal is %s", status)
	}
	return &msg, proposal, nil
}
