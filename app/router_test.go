package app

import (
	"context"
	"testing"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/store"
	"github.com/iov-one/gringotts/vaulttest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter(t *testing.T) {
	codec := gringotts.NewMsgCodec()
	r := NewRouter(codec)

	good := &vaulttest.Handler{}
	bad := &vaulttest.Handler{
		CheckErr:   errors.ErrAmount,
		DeliverErr: errors.ErrAmount,
	}
	r.Handle(&vaulttest.Msg{RoutePath: "test/good"}, good)
	r.Handle(&vaulttest.Msg{RoutePath: "test/bad"}, bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle(&vaulttest.Msg{RoutePath: "test/good"}, good) })
	assert.Panics(t, func() { r.Handle(&vaulttest.Msg{RoutePath: "l:7"}, good) })
	assert.Equal(t, []string{"test/bad", "test/good"}, codec.Paths())

	ctx := context.Background()
	info := vaulttest.UnixBlockInfo(t, 3, 1000)
	db := store.MemStore()

	_, err := r.Check(ctx, info, db, &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/good"}})
	require.NoError(t, err)
	_, err = r.Deliver(ctx, info, db, &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/good"}})
	require.NoError(t, err)
	assert.Equal(t, 2, good.CallCount())

	_, err = r.Deliver(ctx, info, db, &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/bad"}})
	assert.True(t, errors.ErrAmount.Is(err))

	_, err = r.Check(ctx, info, db, &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/missing"}})
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Deliver(ctx, info, db, &vaulttest.Tx{Msg: &vaulttest.Msg{RoutePath: "test/missing"}})
	assert.True(t, errors.ErrNotFound.Is(err))

	_, err = r.Deliver(ctx, info, db, &vaulttest.Tx{Err: errors.ErrType})
	assert.True(t, errors.ErrType.Is(err))
	assert.Equal(t, 2, good.CallCount())
}
