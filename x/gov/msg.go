package gov

import (
	"fmt"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/x/roles"
	"github.com/iov-one/gringotts/x/vesting"
)

// ProposeMsg is implemented by every message that creates a proposal.
type ProposeMsg interface {
	gringotts.Msg

	// Draft returns the generated title, the description and the
	// instructions of the proposal.
	Draft() (title, description string, actions []gringotts.Instruction, err error)
	// Summary returns the title and description set by the proposer.
	// Non empty values replace the generated ones.
	Summary() (title, description string)
}

// ProposeUpdateAdminMsg proposes adding or removing an administrator.
type ProposeUpdateAdminMsg struct {
	_           struct{}          `cbor:",toarray"`
	Admin       gringotts.Address `yaml:"admin" json:"admin"`
	Remove      bool              `yaml:"remove" json:"remove"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
}

var _ ProposeMsg = (*ProposeUpdateAdminMsg)(nil)

func (ProposeUpdateAdminMsg) Path() string {
	return "gov/propose_update_admin"
}

func (m *ProposeUpdateAdminMsg) Summary() (string, string) {
	return m.Title, m.Description
}

func (m *ProposeUpdateAdminMsg) Validate() error {
	errs := errors.Field("Admin", m.Admin.Validate(), "")
	return errors.Append(errs, validateSummary(m.Title, m.Description))
}

func (m *ProposeUpdateAdminMsg) Draft() (string, string, []gringotts.Instruction, error) {
	return selfCallDraft("Update admin", describeUpdate(m.Admin, m.Remove),
		&roles.InternalUpdateAdminMsg{Admin: m.Admin, Remove: m.Remove})
}

// ProposeUpdateOpMsg proposes adding or removing an operator.
type ProposeUpdateOpMsg struct {
	_           struct{}          `cbor:",toarray"`
	Op          gringotts.Address `yaml:"op" json:"op"`
	Remove      bool              `yaml:"remove" json:"remove"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
}

var _ ProposeMsg = (*ProposeUpdateOpMsg)(nil)

func (ProposeUpdateOpMsg) Path() string {
	return "gov/propose_update_op"
}

func (m *ProposeUpdateOpMsg) Summary() (string, string) {
	return m.Title, m.Description
}

func (m *ProposeUpdateOpMsg) Validate() error {
	errs := errors.Field("Op", m.Op.Validate(), "")
	return errors.Append(errs, validateSummary(m.Title, m.Description))
}

func (m *ProposeUpdateOpMsg) Draft() (string, string, []gringotts.Instruction, error) {
	return selfCallDraft("Update operator", describeUpdate(m.Op, m.Remove),
		&roles.InternalUpdateOpMsg{Op: m.Op, Remove: m.Remove})
}

// ProposeUpdateUnlockedDistributionAddressMsg proposes a new recipient of
// the matured principal.
type ProposeUpdateUnlockedDistributionAddressMsg struct {
	_           struct{}          `cbor:",toarray"`
	Address     gringotts.Address `yaml:"address" json:"address"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
}

var _ ProposeMsg = (*ProposeUpdateUnlockedDistributionAddressMsg)(nil)

func (ProposeUpdateUnlockedDistributionAddressMsg) Path() string {
	return "gov/propose_update_unlocked_address"
}

func (m *ProposeUpdateUnlockedDistributionAddressMsg) Summary() (string, string) {
	return m.Title, m.Description
}

func (m *ProposeUpdateUnlockedDistributionAddressMsg) Validate() error {
	errs := errors.Field("Address", m.Address.Validate(), "")
	return errors.Append(errs, validateSummary(m.Title, m.Description))
}

func (m *ProposeUpdateUnlockedDistributionAddressMsg) Draft() (string, string, []gringotts.Instruction, error) {
	return selfCallDraft("Update unlocked distribution address", "set to "+m.Address.String(),
		&vesting.InternalUpdateUnlockedDistributionAddressMsg{Address: m.Address})
}

// ProposeUpdateStakingRewardDistributionAddressMsg proposes a new recipient
// of the staking rewards.
type ProposeUpdateStakingRewardDistributionAddressMsg struct {
	_           struct{}          `cbor:",toarray"`
	Address     gringotts.Address `yaml:"address" json:"address"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
}

var _ ProposeMsg = (*ProposeUpdateStakingRewardDistributionAddressMsg)(nil)

func (ProposeUpdateStakingRewardDistributionAddressMsg) Path() string {
	return "gov/propose_update_reward_address"
}

func (m *ProposeUpdateStakingRewardDistributionAddressMsg) Summary() (string, string) {
	return m.Title, m.Description
}

func (m *ProposeUpdateStakingRewardDistributionAddressMsg) Validate() error {
	errs := errors.Field("Address", m.Address.Validate(), "")
	return errors.Append(errs, validateSummary(m.Title, m.Description))
}

func (m *ProposeUpdateStakingRewardDistributionAddressMsg) Draft() (string, string, []gringotts.Instruction, error) {
	return selfCallDraft("Update staking reward distribution address", "set to "+m.Address.String(),
		&vesting.InternalUpdateStakingRewardDistributionAddressMsg{Address: m.Address})
}

// ProposeEmergencyWithdrawMsg proposes draining the whole remaining
// schedule to a recipient.
type ProposeEmergencyWithdrawMsg struct {
	_           struct{}          `cbor:",toarray"`
	Recipient   gringotts.Address `yaml:"recipient" json:"recipient"`
	Title       string            `yaml:"title,omitempty" json:"title,omitempty"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
}

var _ ProposeMsg = (*ProposeEmergencyWithdrawMsg)(nil)

func (ProposeEmergencyWithdrawMsg) Path() string {
	return "gov/propose_emergency_withdraw"
}

func (m *ProposeEmergencyWithdrawMsg) Summary() (string, string) {
	return m.Title, m.Description
}

func (m *ProposeEmergencyWithdrawMsg) Validate() error {
	errs := errors.Field("Recipient", m.Recipient.Validate(), "")
	return errors.Append(errs, validateSummary(m.Title, m.Description))
}

func (m *ProposeEmergencyWithdrawMsg) Draft() (string, string, []gringotts.Instruction, error) {
	return selfCallDraft("Emergency withdraw", "drain locked tokens to "+m.Recipient.String(),
		&vesting.InternalWithdrawLockedMsg{Recipient: m.Recipient})
}

// ProposeGovVoteMsg proposes casting the vault vote on a proposal of the
// chain governance.
type ProposeGovVoteMsg struct {
	_             struct{} `cbor:",toarray"`
	GovProposalID uint64   `yaml:"gov_proposal_id" json:"gov_proposal_id"`
	Option        string   `yaml:"option" json:"option"`
	Title         string   `yaml:"title,omitempty" json:"title,omitempty"`
	Description   string   `yaml:"description,omitempty" json:"description,omitempty"`
}

var _ ProposeMsg = (*ProposeGovVoteMsg)(nil)

func (ProposeGovVoteMsg) Path() string {
	return "gov/propose_gov_vote"
}

func (m *ProposeGovVoteMsg) Summary() (string, string) {
	return m.Title, m.Description
}

func (m *ProposeGovVoteMsg) Validate() error {
	return errors.Append(m.vote().Validate(), validateSummary(m.Title, m.Description))
}

func (m *ProposeGovVoteMsg) vote() *gringotts.GovVote {
	return &gringotts.GovVote{ProposalID: m.GovProposalID, Option: m.Option}
}

func (m *ProposeGovVoteMsg) Draft() (string, string, []gringotts.Instruction, error) {
	title := fmt.Sprintf("Vote on governance proposal %d", m.GovProposalID)
	return title, "vote " + m.Option, []gringotts.Instruction{{GovVote: m.vote()}}, nil
}

// VoteMsg casts the ballot of the signer.
type VoteMsg struct {
	_          struct{} `cbor:",toarray"`
	ProposalID uint64   `yaml:"proposal_id" json:"proposal_id"`
	Approve    bool     `yaml:"approve" json:"approve"`
}

var _ gringotts.Msg = (*VoteMsg)(nil)

func (VoteMsg) Path() string {
	return "gov/vote"
}

func (m *VoteMsg) Validate() error {
	if m.ProposalID == 0 {
		return errors.Field("ProposalID", errors.ErrEmpty, "")
	}
	return nil
}

// ProcessProposalMsg releases the instructions of a passed proposal.
type ProcessProposalMsg struct {
	_          struct{} `cbor:",toarray"`
	ProposalID uint64   `yaml:"proposal_id" json:"proposal_id"`
}

var _ gringotts.Msg = (*ProcessProposalMsg)(nil)

func (ProcessProposalMsg) Path() string {
	return "gov/process_proposal"
}

func (m *ProcessProposalMsg) Validate() error {
	if m.ProposalID == 0 {
		return errors.Field("ProposalID", errors.ErrEmpty, "")
	}
	return nil
}

// RegisterCodec registers the messages of this package.
func RegisterCodec(c *gringotts.MsgCodec) {
	for _, m := range proposeMsgs() {
		c.Register(m)
	}
	c.Register(&VoteMsg{})
	c.Register(&ProcessProposalMsg{})
}

func proposeMsgs() []ProposeMsg {
	return []ProposeMsg{
		&ProposeUpdateAdminMsg{},
		&ProposeUpdateOpMsg{},
		&ProposeUpdateUnlockedDistributionAddressMsg{},
		&ProposeUpdateStakingRewardDistributionAddressMsg{},
		&ProposeEmergencyWithdrawMsg{},
		&ProposeGovVoteMsg{},
	}
}

func selfCallDraft(title, description string, m gringotts.Msg) (string, string, []gringotts.Instruction, error) {
	ins, err := gringotts.NewSelfCall(m)
	if err != nil {
		return "", "", nil, errors.Wrap(err, "self-call")
	}
	return title, description, []gringotts.Instruction{ins}, nil
}

func validateSummary(title, description string) error {
	var errs error
	if len(title) > maxTitleLength {
		errs = errors.AppendField(errs, "Title", errors.Wrapf(errors.ErrInput, "longer than %d characters", maxTitleLength))
	}
	if len(description) > maxDescriptionLength {
		errs = errors.AppendField(errs, "Description", errors.Wrapf(errors.ErrInput, "longer than %d characters", maxDescriptionLength))
	}
	return errs
}

func describeUpdate(addr gringotts.Address, remove bool) string {
	if remove {
		return "remove " + addr.String()
	}
	return "add " + addr.String()
}
