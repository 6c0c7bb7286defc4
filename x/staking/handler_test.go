package staking

import (
	"context"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/coin"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/store"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/iov-one/gringotts/x/roles"
	"github.com/iov-one/gringotts/x/vesting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type registry map[string]gringotts.Handler

func (r registry) Handle(m gringotts.Msg, h gringotts.Handler) {
	r[m.Path()] = h
}

type fixture struct {
	db       gringotts.CacheableKVStore
	admin    gringotts.Condition
	operator gringotts.Condition
	reward   gringotts.Address
}

func newFixture(t testing.TB) *fixture {
	t.Helper()
	f := &fixture{
		db:       store.MemStore(),
		admin:    vaulttest.NewCondition(),
		operator: vaulttest.NewCondition(),
		reward:   vaulttest.RandomAddr(t),
	}
	require.NoError(t, roles.AdminTable().Add(f.db, f.admin.Address()))
	require.NoError(t, roles.OperatorTable().Add(f.db, f.operator.Address()))
	require.NoError(t, vesting.NewBucket().Save(f.db, &vesting.Tranche{
		Denom:    "usei",
		Schedule: vesting.Schedule{
			Times:   []gringotts.UnixTime{1000},
			Amounts: []coin.Amount{coin.NewAmount(100)},
		},
		UnlockedAddress:      vaulttest.RandomAddr(t),
		StakingRewardAddress: f.reward,
	}))
	return f
}

func (f *fixture) run(t testing.TB, signer gringotts.Condition, rewards RewardQuerier, msg gringotts.Msg) (*gringotts.DeliverResult, error) {
	t.Helper()
	r := registry{}
	RegisterRoutes(r, &vaulttest.Auth{Signer: signer}, rewards)
	h, ok := r[msg.Path()]
	require.True(t, ok, "no handler for %s", msg.Path())

	ctx := context.Background()
	info := vaulttest.UnixBlockInfo(t, 5, 2000)
	tx := &vaulttest.Tx{Msg: msg}
	cache := f.db.CacheWrap()
	_, checkErr := h.Check(ctx, info, cache, tx)
	cache.Discard()
	res, err := h.Deliver(ctx, info, f.db, tx)
	if (checkErr == nil) != (err == nil) {
		t.Fatalf("check and deliver disagree: %v, %v", checkErr, err)
	}
	return res, err
}

func TestStakingInstructions(t *testing.T) {
	cases := map[string]struct {
		operator bool
		msg      gringotts.Msg
		wantErr  *errors.Error
		want     gringotts.Instruction
	}{
		"delegate": {
			operator: true,
			msg:      &DelegateMsg{Validator: "seivaloper1a", Amount: coin.NewAmount(40)},
			want:     gringotts.Instruction{
				Delegate: &gringotts.Delegate{Validator: "seivaloper1a", Amount: coin.NewCoin(40, "usei")},
			},
		},
		"redelegate": {
			operator: true,
			msg:      &RedelegateMsg{SrcValidator: "seivaloper1a", DstValidator: "seivaloper1b", Amount: coin.NewAmount(7)},
			want:     gringotts.Instruction{
				Redelegate: &gringotts.Redelegate{
					SrcValidator: "seivaloper1a",
					DstValidator: "seivaloper1b",
					Amount:       coin.NewCoin(7, "usei"),
				},
			},
		},
		"undelegate": {
			operator: true,
			msg:      &UndelegateMsg{Validator: "seivaloper1a", Amount: coin.NewAmount(3)},
			want:     gringotts.Instruction{
				Undelegate: &gringotts.Undelegate{Validator: "seivaloper1a", Amount: coin.NewCoin(3, "usei")},
			},
		},
		"admin cannot delegate": {
			operator: false,
			msg:      &DelegateMsg{Validator: "seivaloper1a", Amount: coin.NewAmount(40)},
			wantErr:  errors.ErrUnauthorized,
		},
		"zero amount": {
			operator: true,
			msg:      &UndelegateMsg{Validator: "seivaloper1a"},
			wantErr:  errors.ErrAmount,
		},
		"redelegate to the same validator": {
			operator: true,
			msg:      &RedelegateMsg{SrcValidator: "seivaloper1a", DstValidator: "seivaloper1a", Amount: coin.NewAmount(7)},
			wantErr:  errors.ErrInput,
		},
		"missing validator": {
			operator: true,
			msg:      &DelegateMsg{Amount: coin.NewAmount(1)},
			wantErr:  errors.ErrEmpty,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			signer := f.admin
			if tc.operator {
				signer = f.operator
			}
			res, err := f.run(t, signer, &vaulttest.RewardQuerier{}, tc.msg)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr != nil {
				return
			}
			require.Len(t, res.Dispatch, 1)
			assert.Equal(t, tc.want, res.Dispatch[0])
			assert.Nil(t, res.Dispatch[0].Validate())
		})
	}
}

func TestWithdrawReward(t *testing.T) {
	cases := map[string]struct {
		operator   bool
		rewards    *vaulttest.RewardQuerier
		wantErr    *errors.Error
		wantReward uint64
	}{
		"reward forwarded": {
			operator:   true,
			rewards:    &vaulttest.RewardQuerier{Rewards: map[string]coin.Coin{"seivaloper1a": coin.NewCoin(12, "usei")}},
			wantReward: 12,
		},
		"no reward": {
			operator: true,
			rewards:  &vaulttest.RewardQuerier{Rewards: map[string]coin.Coin{"seivaloper1b": coin.NewCoin(12, "usei")}},
			wantErr:  errors.ErrInsufficientReward,
		},
		"reward in another denomination": {
			operator: true,
			rewards:  &vaulttest.RewardQuerier{Rewards: map[string]coin.Coin{"seivaloper1a": coin.NewCoin(12, "uatom")}},
			wantErr:  errors.ErrAmount,
		},
		"query failure": {
			operator: true,
			rewards:  &vaulttest.RewardQuerier{Err: errors.ErrDatabase},
			wantErr:  errors.ErrDatabase,
		},
		"not an operator": {
			operator: false,
			rewards:  &vaulttest.RewardQuerier{Rewards: map[string]coin.Coin{"seivaloper1a": coin.NewCoin(12, "usei")}},
			wantErr:  errors.ErrUnauthorized,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newFixture(t)
			signer := f.admin
			if tc.operator {
				signer = f.operator
			}
			res, err := f.run(t, signer, tc.rewards, &WithdrawRewardMsg{Validator: "seivaloper1a"})
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}

			tranche, lerr := vesting.LoadTranche(f.db)
			require.NoError(t, lerr)
			assert.Equal(t, coin.NewAmount(tc.wantReward), tranche.WithdrawnReward)
			if tc.wantErr != nil {
				return
			}

			vaultReward := coin.NewCoin(tc.wantReward, "usei")
			require.Len(t, res.Dispatch, 2)
			assert.Equal(t, &gringotts.WithdrawDelegatorReward{Validator: "seivaloper1a"}, res.Dispatch[0].WithdrawDelegatorReward)
			assert.Equal(t, &gringotts.BankSend{To: f.reward, Amount: vaultReward}, res.Dispatch[1].BankSend)
			assert.Equal(t, vaultReward.String(), string(res.Data))
		})
	}
}
