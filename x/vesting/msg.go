package vesting

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
)

// WithdrawUnlockedMsg releases matured principal to the unlocked
// distribution address. Without an amount everything matured so far is
// released.
type WithdrawUnlockedMsg struct {
	_      struct{}     `cbor:",toarray"`
	Amount *coin.Amount `yaml:"amount,omitempty" json:"amount,omitempty"`
}

var _ gringotts.Msg = (*WithdrawUnlockedMsg)(nil)

func (WithdrawUnlockedMsg) Path() string {
	return "vesting/withdraw_unlocked"
}

func (m *WithdrawUnlockedMsg) Validate() error {
	return nil
}

// InternalWithdrawLockedMsg drains the whole remaining schedule to the
// recipient. It is accepted only as a self-call.
type InternalWithdrawLockedMsg struct {
	_         struct{}          `cbor:",toarray"`
	Recipient gringotts.Address `yaml:"recipient" json:"recipient"`
}

var _ gringotts.Msg = (*InternalWithdrawLockedMsg)(nil)

func (InternalWithdrawLockedMsg) Path() string {
	return "vesting/internal_withdraw_locked"
}

func (m *InternalWithdrawLockedMsg) Validate() error {
	return errors.Field("Recipient", m.Recipient.Validate(), "")
}

// InternalUpdateUnlockedDistributionAddressMsg changes where matured
// principal is released to. It is accepted only as a self-call.
type InternalUpdateUnlockedDistributionAddressMsg struct {
	_       struct{}          `cbor:",toarray"`
	Address gringotts.Address `yaml:"address" json:"address"`
}

var _ gringotts.Msg = (*InternalUpdateUnlockedDistributionAddressMsg)(nil)

func (InternalUpdateUnlockedDistributionAddressMsg) Path() string {
	return "vesting/internal_update_unlocked_address"
}

func (m *InternalUpdateUnlockedDistributionAddressMsg) Validate() error {
	return errors.Field("Address", m.Address.Validate(), "")
}

// InternalUpdateStakingRewardDistributionAddressMsg changes where staking
// rewards are sent to. It is accepted only as a self-call.
type InternalUpdateStakingRewardDistributionAddressMsg struct {
	_       struct{}          `cbor:",toarray"`
	Address gringotts.Address `yaml:"address" json:"address"`
}

var _ gringotts.Msg = (*InternalUpdateStakingRewardDistributionAddressMsg)(nil)

func (InternalUpdateStakingRewardDistributionAddressMsg) Path() string {
	return "vesting/internal_update_reward_address"
}

func (m *InternalUpdateStakingRewardDistributionAddressMsg) Validate() error {
	return errors.Field("Address", m.Address.Validate(), "")
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(c *gringotts.MsgCodec) {
	c.Register(&WithdrawUnlockedMsg{})
	c.Register(&InternalWithdrawLockedMsg{})
	c.Register(&InternalUpdateUnlockedDistributionAddressMsg{})
	c.Register(&InternalUpdateStakingRewardDistributionAddressMsg{})
}
