/*
Package app links together all the various components
to construct the gringottsd vault.
*/
package app

import (
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/app"
	"github.com/iov-one/gringotts/store/badgerdb"
	"github.com/iov-one/gringotts/x"
	"github.com/iov-one/gringotts/x/gov"
	"github.com/iov-one/gringotts/x/roles"
	"github.com/iov-one/gringotts/x/sigs"
	"github.com/iov-one/gringotts/x/staking"
	"github.com/iov-one/gringotts/x/utils"
	"github.com/iov-one/gringotts/x/vesting"
	"github.com/tendermint/tendermint/libs/log"
)

// Name is returned by the vault info.
const Name = "gringottsd"

// Authenticator returns the authentication of signed transactions.
// Self-calls are recognized by the role gate alone and never through
// signatures.
func Authenticator() x.Authenticator {
	return sigs.Authenticate{}
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
		// on CheckTx, bad tx don't affect state
		utils.NewSavepoint().OnCheck(),
		sigs.NewDecorator(),
		// on DeliverTx, bad tx will increment nonce
		// even if the message fails
		utils.NewSavepoint().OnDeliver(),
	)
}

// SelfChain returns the decorators of self-calls. There are no signatures,
// the caller is authenticated by the host.
func SelfChain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		utils.NewActionTagger(),
	)
}

// Router returns a router with all handlers of the vault registered. All
// messages are added to given codec.
func Router(codec *gringotts.MsgCodec, authFn x.Authenticator, rewards staking.RewardQuerier) *app.Router {
	r := app.NewRouter(codec)
	sigs.RegisterRoutes(r, authFn)
	roles.RegisterRoutes(r)
	vesting.RegisterRoutes(r, authFn)
	gov.RegisterRoutes(r, authFn)
	staking.RegisterRoutes(r, authFn, rewards)
	return r
}

// Codec returns a codec that knows all messages of the vault, including
// the ones that can be reached only by a self-call.
func Codec() *gringotts.MsgCodec {
	c := gringotts.NewMsgCodec()
	roles.RegisterCodec(c)
	vesting.RegisterCodec(c)
	gov.RegisterCodec(c)
	staking.RegisterCodec(c)
	return c
}

// QueryRouter returns a default query router, allowing access to "/admins",
// "/ops", "/vesting", "/vesting/vested", "/proposals", "/ballots",
// "/rewards", "/outbox", "/auth" and "/version".
func QueryRouter(outbox *app.Outbox) gringotts.QueryRouter {
	r := gringotts.NewQueryRouter()
	r.RegisterAll(
		sigs.RegisterQuery,
		roles.RegisterQuery,
		vesting.RegisterQuery,
		gov.RegisterQuery,
		staking.RegisterQuery,
		outbox.RegisterQuery,
		gringotts.RegisterVersionQuery,
	)
	return r
}

// Initializer loads all extensions from the genesis file.
func Initializer() gringotts.Initializer {
	return gringotts.MultiInitializer{
		&roles.Initializer{},
		&vesting.Initializer{},
		&gov.Initializer{},
		&staking.Initializer{},
	}
}

// Stack wires up all components of the vault.
//
// Rewards of the staking module are read from the state. Withdrawing a
// reward clears it. All instructions for the external modules are
// recorded in the outbox.
func Stack(metrics *app.Metrics) app.Stack {
	authFn := Authenticator()
	codec := Codec()
	rewards := staking.NewRewardBucket()
	outbox := app.NewOutbox()
	r := Router(codec, authFn, rewards)

	return app.Stack{
		Codec:       codec,
		Decoder:     TxDecoder(codec),
		Handler:     Chain().WithHandler(r),
		SelfHandler: SelfChain().WithHandler(r),
		SelfAddress: roles.LoadSelfAddress,
		Queries:     QueryRouter(outbox),
		Initializer: Initializer(),
		Dispatcher:  app.MultiDispatcher{staking.NewSettler(rewards), outbox},
		Metrics:     metrics,
	}
}

// Application opens the database in given directory and returns the vault
// running on it. An empty directory keeps the state in memory.
func Application(dir string, logger log.Logger, metrics *app.Metrics) (*app.Vault, error) {
	kv, err := badgerdb.Open(badgerdb.Options{
		Dir:    dir,
		Logger: logger.With("module", "badger"),
	})
	if err != nil {
		return nil, err
	}
	v, err := app.NewVault(Name, kv, Stack(metrics))
	if err != nil {
		kv.Close()
		return nil, err
	}
	return v.WithLogger(logger), nil
}
