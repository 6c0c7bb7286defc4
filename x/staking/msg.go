package staking

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
)

const maxValidatorLength = 256

// DelegateMsg stakes vault funds with a validator.
type DelegateMsg struct {
	_         struct{}    `cbor:",toarray"`
	Validator string      `yaml:"validator" json:"validator"`
	Amount    coin.Amount `yaml:"amount" json:"amount"`
}

var _ gringotts.Msg = (*DelegateMsg)(nil)

func (DelegateMsg) Path() string {
	return "staking/delegate"
}

func (m *DelegateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Validator", validateValidator(m.Validator))
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// RedelegateMsg moves a delegation between two validators.
type RedelegateMsg struct {
	_            struct{}    `cbor:",toarray"`
	SrcValidator string      `yaml:"src_validator" json:"src_validator"`
	DstValidator string      `yaml:"dst_validator" json:"dst_validator"`
	Amount       coin.Amount `yaml:"amount" json:"amount"`
}

var _ gringotts.Msg = (*RedelegateMsg)(nil)

func (RedelegateMsg) Path() string {
	return "staking/redelegate"
}

func (m *RedelegateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "SrcValidator", validateValidator(m.SrcValidator))
	errs = errors.AppendField(errs, "DstValidator", validateValidator(m.DstValidator))
	if m.SrcValidator != "" && m.SrcValidator == m.DstValidator {
		errs = errors.AppendField(errs, "DstValidator", errors.Wrap(errors.ErrInput, "same as source"))
	}
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// UndelegateMsg unbonds vault funds from a validator.
type UndelegateMsg struct {
	_         struct{}    `cbor:",toarray"`
	Validator string      `yaml:"validator" json:"validator"`
	Amount    coin.Amount `yaml:"amount" json:"amount"`
}

var _ gringotts.Msg = (*UndelegateMsg)(nil)

func (UndelegateMsg) Path() string {
	return "staking/undelegate"
}

func (m *UndelegateMsg) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Validator", validateValidator(m.Validator))
	errs = errors.AppendField(errs, "Amount", validateAmount(m.Amount))
	return errs
}

// WithdrawRewardMsg withdraws the delegation reward accumulated at a
// validator and forwards it to the staking reward distribution address.
type WithdrawRewardMsg struct {
	_         struct{} `cbor:",toarray"`
	Validator string   `yaml:"validator" json:"validator"`
}

var _ gringotts.Msg = (*WithdrawRewardMsg)(nil)

func (WithdrawRewardMsg) Path() string {
	return "staking/withdraw_reward"
}

func (m *WithdrawRewardMsg) Validate() error {
	return errors.Field("Validator", validateValidator(m.Validator), "")
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(c *gringotts.MsgCodec) {
	c.Register(&DelegateMsg{})
	c.Register(&RedelegateMsg{})
	c.Register(&UndelegateMsg{})
	c.Register(&WithdrawRewardMsg{})
}

func validateValidator(v string) error {
	switch {
	case v == "":
		return errors.ErrEmpty
	case len(v) > maxValidatorLength:
		return errors.Wrapf(errors.ErrInput, "longer than %d characters", maxValidatorLength)
	}
	return nil
}

func validateAmount(a coin.Amount) error {
	if a.IsZero() {
		return errors.Wrap(errors.ErrAmount, "must be greater than zero")
	}
	return nil
}
