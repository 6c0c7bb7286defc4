package gringotts

import (
	"context"

	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
)

// Instruction is an opaque follow-up action produced by a handler and
// executed by the host after the state change of the command is written.
// Exactly one attribute must be set.
//
// The vault never interprets instructions it stores. A governance proposal
// keeps its instructions and replays them verbatim once, when processed.
type Instruction struct {
	BankSend                *BankSend                `cbor:"1,keyasint,omitempty" yaml:"bank_send,omitempty" json:"bank_send,omitempty"`
	Delegate                *Delegate                `cbor:"2,keyasint,omitempty" yaml:"delegate,omitempty" json:"delegate,omitempty"`
	Redelegate              *Redelegate              `cbor:"3,keyasint,omitempty" yaml:"redelegate,omitempty" json:"redelegate,omitempty"`
	Undelegate              *Undelegate              `cbor:"4,keyasint,omitempty" yaml:"undelegate,omitempty" json:"undelegate,omitempty"`
	WithdrawDelegatorReward *WithdrawDelegatorReward `cbor:"5,keyasint,omitempty" yaml:"withdraw_delegator_reward,omitempty" json:"withdraw_delegator_reward,omitempty"`
	GovVote                 *GovVote                 `cbor:"6,keyasint,omitempty" yaml:"gov_vote,omitempty" json:"gov_vote,omitempty"`
	SelfCall                *SelfCall                `cbor:"7,keyasint,omitempty" yaml:"self_call,omitempty" json:"self_call,omitempty"`
}

// Kind returns the name of the instruction type that is set.
func (i Instruction) Kind() string {
	switch {
	case i.BankSend != nil:
		return "bank_send"
	case i.Delegate != nil:
		return "delegate"
	case i.Redelegate != nil:
		return "redelegate"
	case i.Undelegate != nil:
		return "undelegate"
	case i.WithdrawDelegatorReward != nil:
		return "withdraw_delegator_reward"
	case i.GovVote != nil:
		return "gov_vote"
	case i.SelfCall != nil:
		return "self_call"
	}
	return ""
}

func (i Instruction) Validate() error {
	var set int
	var err error
	if i.BankSend != nil {
		set++
		err = errors.AppendField(err, "BankSend", i.BankSend.Validate())
	}
	if i.Delegate != nil {
		set++
		err = errors.AppendField(err, "Delegate", i.Delegate.Validate())
	}
	if i.Redelegate != nil {
		set++
		err = errors.AppendField(err, "Redelegate", i.Redelegate.Validate())
	}
	if i.Undelegate != nil {
		set++
		err = errors.AppendField(err, "Undelegate", i.Undelegate.Validate())
	}
	if i.WithdrawDelegatorReward != nil {
		set++
		err = errors.AppendField(err, "WithdrawDelegatorReward", i.WithdrawDelegatorReward.Validate())
	}
	if i.GovVote != nil {
		set++
		err = errors.AppendField(err, "GovVote", i.GovVote.Validate())
	}
	if i.SelfCall != nil {
		set++
		err = errors.AppendField(err, "SelfCall", i.SelfCall.Validate())
	}
	if set != 1 {
		return errors.Append(err, errors.Wrapf(errors.ErrMsg, "exactly one instruction must be set, got %d", set))
	}
	return err
}

// BankSend transfers tokens from the vault to given address.
type BankSend struct {
	_      struct{}  `cbor:",toarray"`
	To     Address   `yaml:"to" json:"to"`
	Amount coin.Coin `yaml:"amount" json:"amount"`
}

func (b *BankSend) Validate() error {
	var err error
	err = errors.AppendField(err, "To", b.To.Validate())
	err = errors.AppendField(err, "Amount", b.Amount.Validate())
	if b.Amount.IsZero() {
		err = errors.AppendField(err, "Amount", errors.ErrAmount)
	}
	return err
}

// Delegate stakes vault tokens with a validator.
type Delegate struct {
	_         struct{}  `cbor:",toarray"`
	Validator string    `yaml:"validator" json:"validator"`
	Amount    coin.Coin `yaml:"amount" json:"amount"`
}

func (d *Delegate) Validate() error {
	var err error
	err = errors.AppendField(err, "Validator", validateValidator(d.Validator))
	err = errors.AppendField(err, "Amount", validateStake(d.Amount))
	return err
}

// Redelegate moves stake from one validator to another.
type Redelegate struct {
	_            struct{}  `cbor:",toarray"`
	SrcValidator string    `yaml:"src_validator" json:"src_validator"`
	DstValidator string    `yaml:"dst_validator" json:"dst_validator"`
	Amount       coin.Coin `yaml:"amount" json:"amount"`
}

func (r *Redelegate) Validate() error {
	var err error
	err = errors.AppendField(err, "SrcValidator", validateValidator(r.SrcValidator))
	err = errors.AppendField(err, "DstValidator", validateValidator(r.DstValidator))
	if r.SrcValidator == r.DstValidator {
		err = errors.AppendField(err, "DstValidator", errors.Wrap(errors.ErrInput, "same as source"))
	}
	err = errors.AppendField(err, "Amount", validateStake(r.Amount))
	return err
}

// Undelegate releases stake from a validator.
type Undelegate struct {
	_         struct{}  `cbor:",toarray"`
	Validator string    `yaml:"validator" json:"validator"`
	Amount    coin.Coin `yaml:"amount" json:"amount"`
}

func (u *Undelegate) Validate() error {
	var err error
	err = errors.AppendField(err, "Validator", validateValidator(u.Validator))
	err = errors.AppendField(err, "Amount", validateStake(u.Amount))
	return err
}

// WithdrawDelegatorReward claims the staking reward accrued at a validator.
type WithdrawDelegatorReward struct {
	_         struct{} `cbor:",toarray"`
	Validator string   `yaml:"validator" json:"validator"`
}

func (w *WithdrawDelegatorReward) Validate() error {
	return errors.Field("Validator", validateValidator(w.Validator), "")
}

// Vote options of an external governance proposal.
const (
	VoteYes        = "yes"
	VoteNo         = "no"
	VoteAbstain    = "abstain"
	VoteNoWithVeto = "no_with_veto"
)

// GovVote casts the vault vote in an external governance.
type GovVote struct {
	_          struct{} `cbor:",toarray"`
	ProposalID uint64   `yaml:"proposal_id" json:"proposal_id"`
	Option     string   `yaml:"option" json:"option"`
}

func (g *GovVote) Validate() error {
	var err error
	if g.ProposalID == 0 {
		err = errors.AppendField(err, "ProposalID", errors.ErrEmpty)
	}
	switch g.Option {
	case VoteYes, VoteNo, VoteAbstain, VoteNoWithVeto:
	default:
		err = errors.AppendField(err, "Option", errors.Wrapf(errors.ErrInput, "unknown option %q", g.Option))
	}
	return err
}

// SelfCall re-invokes the vault with its own identity as the caller. This is
// the only way to reach handlers that require a self-call.
type SelfCall struct {
	_   struct{} `cbor:",toarray"`
	Msg Envelope `yaml:"-" json:"msg"`
}

func (s *SelfCall) Validate() error {
	return errors.Field("Msg", s.Msg.Validate(), "")
}

// NewSelfCall wraps given message into a self-call instruction.
func NewSelfCall(m Msg) (Instruction, error) {
	env, err := WrapMsg(m)
	if err != nil {
		return Instruction{}, err
	}
	return Instruction{SelfCall: &SelfCall{Msg: env}}, nil
}

func validateValidator(v string) error {
	if v == "" {
		return errors.ErrEmpty
	}
	if len(v) > 256 {
		return errors.Wrap(errors.ErrInput, "too long")
	}
	return nil
}

func validateStake(c coin.Coin) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.IsZero() {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return nil
}

// Dispatcher executes instructions produced by handlers. It is implemented
// by the host and connects the vault to the external bank and staking
// modules.
type Dispatcher interface {
	Dispatch(ctx context.Context, info BlockInfo, db KVStore, ins Instruction) error
}
