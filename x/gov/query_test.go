package gov

import (
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/orm"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryProposals(t *testing.T) {
	f := newFixture(t, 3, Configuration{ThresholdPercent: 100, MaxVotingPeriod: Duration{Time: 100}})
	id := f.propose(t, f.admins[0], 1000, &ProposeEmergencyWithdrawMsg{Recipient: vaulttest.RandomAddr(t)})
	f.propose(t, f.admins[1], 1000, &ProposeEmergencyWithdrawMsg{Recipient: vaulttest.RandomAddr(t)})

	qr := gringotts.NewQueryRouter()
	RegisterQuery(qr)

	h, mod := qr.Handler("/proposals")
	require.NotNil(t, h)

	// Without a recorded block the stored status is returned.
	models, err := h.Query(f.db, mod, orm.EncodeSequence(id))
	require.NoError(t, err)
	require.Len(t, models, 1)
	var p Proposal
	require.NoError(t, gringotts.Unmarshal(models[0].Value, &p))
	assert.Equal(t, StatusOpen, p.Status)

	// The stored record still says open, the query computes rejected.
	require.NoError(t, gringotts.SaveLastBlock(f.db, vaulttest.UnixBlockInfo(t, 50, 1100)))
	h, mod = qr.Handler("/proposals?prefix")
	models, err = h.Query(f.db, mod, nil)
	require.NoError(t, err)
	require.Len(t, models, 2)
	for _, m := range models {
		var p Proposal
		require.NoError(t, gringotts.Unmarshal(m.Value, &p))
		assert.Equal(t, StatusRejected, p.Status)
	}
	assert.Equal(t, StatusOpen, f.proposal(t, id).Status)

	h, mod = qr.Handler("/ballots?prefix")
	require.NotNil(t, h)
	models, err = h.Query(f.db, mod, orm.EncodeSequence(id))
	require.NoError(t, err)
	require.Len(t, models, 1)
	var b Ballot
	require.NoError(t, gringotts.Unmarshal(models[0].Value, &b))
	assert.Equal(t, f.admins[0].Address(), b.Voter)
	assert.True(t, b.Approve)

	ballots, err := NewBallotBucket().ByProposal(f.db, id)
	require.NoError(t, err)
	assert.Len(t, ballots, 1)
}
