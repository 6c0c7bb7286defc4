package gringotts

import (
	"testing"
	"time"

	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	abci "github.com/tendermint/tendermint/abci/types"
	"gopkg.in/yaml.v3"
)

type pingMsg struct {
	Text string
}

func (*pingMsg) Path() string { return "test/ping" }

func (m *pingMsg) Validate() error {
	if m.Text == "" {
		return errors.Wrap(errors.ErrEmpty, "text")
	}
	return nil
}

type pingTx struct {
	msg Msg
}

func (tx pingTx) GetMsg() (Msg, error) { return tx.msg, nil }

func TestMsgCodec(t *testing.T) {
	c := NewMsgCodec()
	c.Register(&pingMsg{})
	assert.Equal(t, []string{"test/ping"}, c.Paths())

	env, err := c.Wrap(&pingMsg{Text: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "test/ping", env.Path)

	raw, err := Marshal(env)
	require.NoError(t, err)
	var decoded Envelope
	require.NoError(t, Unmarshal(raw, &decoded))

	msg, err := c.Unwrap(decoded)
	require.NoError(t, err)
	assert.Equal(t, &pingMsg{Text: "hello"}, msg)

	_, err = c.Unwrap(Envelope{Path: "test/pong", Body: env.Body})
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = c.Unwrap(Envelope{Path: "invalid", Body: env.Body})
	assert.True(t, errors.ErrMsg.Is(err))

	_, err = c.Wrap(&pingMsg{})
	assert.True(t, errors.ErrEmpty.Is(err))

	assert.Panics(t, func() { c.Register(&otherPing{}) })
}

type otherPing struct{ pingMsg }

func TestLoadMsg(t *testing.T) {
	var dest *pingMsg
	require.NoError(t, LoadMsg(pingTx{msg: &pingMsg{Text: "x"}}, &dest))
	assert.Equal(t, "x", dest.Text)

	var value pingMsg
	require.NoError(t, LoadMsg(pingTx{msg: &pingMsg{Text: "y"}}, &value))
	assert.Equal(t, "y", value.Text)

	var wrong *otherPing
	err := LoadMsg(pingTx{msg: &pingMsg{Text: "x"}}, &wrong)
	assert.True(t, errors.ErrType.Is(err))

	err = LoadMsg(pingTx{msg: &pingMsg{}}, &dest)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestInstructionValidate(t *testing.T) {
	addr := NewCondition("sigs", "ed25519", []byte("bob")).Address()
	self, err := NewSelfCall(&pingMsg{Text: "again"})
	require.NoError(t, err)

	cases := map[string]struct {
		ins      Instruction
		wantKind string
		wantErr  *errors.Error
	}{
		"bank send": {
			ins:      Instruction{BankSend: &BankSend{To: addr, Amount: coin.NewCoin(10, "usei")}},
			wantKind: "bank_send",
		},
		"zero bank send": {
			ins:      Instruction{BankSend: &BankSend{To: addr, Amount: coin.NewCoin(0, "usei")}},
			wantKind: "bank_send",
			wantErr:  errors.ErrAmount,
		},
		"delegate": {
			ins:      Instruction{Delegate: &Delegate{Validator: "val", Amount: coin.NewCoin(1, "usei")}},
			wantKind: "delegate",
		},
		"redelegate to the same validator": {
			ins:      Instruction{Redelegate: &Redelegate{SrcValidator: "val", DstValidator: "val", Amount: coin.NewCoin(1, "usei")}},
			wantKind: "redelegate",
			wantErr:  errors.ErrInput,
		},
		"gov vote": {
			ins:      Instruction{GovVote: &GovVote{ProposalID: 3, Option: VoteNoWithVeto}},
			wantKind: "gov_vote",
		},
		"gov vote with unknown option": {
			ins:      Instruction{GovVote: &GovVote{ProposalID: 3, Option: "maybe"}},
			wantKind: "gov_vote",
			wantErr:  errors.ErrInput,
		},
		"self call": {
			ins:      self,
			wantKind: "self_call",
		},
		"nothing set": {
			ins:     Instruction{},
			wantErr: errors.ErrMsg,
		},
		"two set": {
			ins: Instruction{
				Undelegate:              &Undelegate{Validator: "val", Amount: coin.NewCoin(1, "usei")},
				WithdrawDelegatorReward: &WithdrawDelegatorReward{Validator: "val"},
			},
			wantKind: "undelegate",
			wantErr:  errors.ErrMsg,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.wantKind, tc.ins.Kind())
			err := tc.ins.Validate()
			if tc.wantErr == nil {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr.Error())
			}

			raw, err := Marshal(tc.ins)
			require.NoError(t, err)
			var got Instruction
			require.NoError(t, Unmarshal(raw, &got))
			assert.Equal(t, tc.ins.Kind(), got.Kind())
		})
	}
}

func TestBlockInfo(t *testing.T) {
	now := time.Date(2023, 5, 1, 12, 0, 0, 0, time.UTC)
	info, err := NewBlockInfo(abci.Header{Height: 7, Time: now}, "test-chain", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), info.Height())
	assert.Equal(t, AsUnixTime(now), info.UnixTime())
	assert.True(t, info.IsExpired(AsUnixTime(now)))
	assert.False(t, info.IsExpired(AsUnixTime(now)+1))
	assert.True(t, info.InThePast(AsUnixTime(now)-1))
	assert.True(t, info.InTheFuture(AsUnixTime(now)+1))
	assert.NotNil(t, info.Logger())

	_, err = NewBlockInfo(abci.Header{}, "x", nil)
	assert.True(t, errors.ErrInput.Is(err))
}

func TestUnixTimeYAML(t *testing.T) {
	var v struct {
		A UnixTime `yaml:"a"`
		B UnixTime `yaml:"b"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("a: 1600000000\nb: 2020-09-13T12:26:40Z\n"), &v))
	assert.Equal(t, UnixTime(1600000000), v.A)
	assert.Equal(t, UnixTime(1600000000), v.B)

	err := yaml.Unmarshal([]byte("a: -5\n"), &v)
	assert.Error(t, err)
	assert.Equal(t, UnixTime(1600000000).Add(time.Minute), UnixTime(1600000060))
}

func TestParseVersion(t *testing.T) {
	major, minor, patch, err := ParseVersion("v1.12.3-4-gabc")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 12, 3}, []int{major, minor, patch})

	_, _, _, err = ParseVersion("1.2")
	assert.True(t, errors.ErrInput.Is(err))
	assert.NoError(t, CurrentContractVersion().Validate())
}
