package app

import (
	"context"
	"fmt"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/x"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

// maxSelfCallDepth limits how deep self-calls can be nested.
const maxSelfCallDepth = 8

// TxDecoder can parse bytes into a Tx
type TxDecoder func(txBytes []byte) (gringotts.Tx, error)

// SelfAddressFunc returns the address the vault uses when it calls itself.
type SelfAddressFunc func(db gringotts.ReadOnlyKVStore) (gringotts.Address, error)

// Stack groups together everything a vault needs to process requests.
type Stack struct {
	// Codec knows all messages. It decodes self-call envelopes.
	Codec   *gringotts.MsgCodec
	Decoder TxDecoder

	// Handler processes signed transactions.
	Handler gringotts.Handler

	// SelfHandler processes self-call messages. It is called with a
	// context that authenticates the vault address only.
	SelfHandler gringotts.Handler
	SelfAddress SelfAddressFunc

	Queries     gringotts.QueryRouter
	Initializer gringotts.Initializer

	// Dispatcher receives all instructions that are not self-calls.
	Dispatcher gringotts.Dispatcher
	Metrics    *Metrics
}

// Vault contains a data store and all info needed to perform
// transactions, queries and the genesis initialization.
//
// A vault processes one block at a time. BeginBlock sets the header that
// all following transactions are executed with, Commit persists the state
// changes of the block.
type Vault struct {
	name   string
	logger log.Logger
	store  *CommitStore
	stack  Stack

	// chainID is loaded from db in initialization
	// saved once in InitChain
	chainID string

	// header of the block currently processed
	header abci.Header
}

// NewVault loads the latest state from given store and returns a vault
// ready to process blocks.
func NewVault(name string, kv gringotts.CommitKVStore, stack Stack) (*Vault, error) {
	if stack.Codec == nil || stack.Decoder == nil || stack.Handler == nil {
		return nil, errors.Wrap(errors.ErrInput, "incomplete stack")
	}
	store, err := NewCommitStore(kv)
	if err != nil {
		return nil, err
	}
	chainID, err := loadChainID(store.DeliverStore())
	if err != nil {
		return nil, err
	}
	v := &Vault{
		name:    name,
		logger:  log.NewNopLogger(),
		store:   store,
		stack:   stack,
		chainID: chainID,
	}
	if chainID != "" {
		height, now, err := gringotts.LastBlock(store.DeliverStore())
		if err != nil && !errors.ErrNotFound.Is(err) {
			return nil, err
		}
		v.header = abci.Header{ChainID: chainID, Height: height, Time: now.Time()}
	}
	return v, nil
}

// WithLogger sets the logger on the vault and returns it,
// to make it easy to chain in initialization
func (v *Vault) WithLogger(logger log.Logger) *Vault {
	v.logger = logger
	return v
}

// Logger returns the vault base logger
func (v *Vault) Logger() log.Logger {
	return v.logger
}

// ChainID returns the chain id stored in the genesis. It is empty until
// InitChain was called.
func (v *Vault) ChainID() string {
	return v.chainID
}

// LastHeader returns the header of the latest block, the genesis block
// before any block was started.
func (v *Vault) LastHeader() abci.Header {
	return v.header
}

// Info returns the latest committed version.
func (v *Vault) Info() (gringotts.CommitID, error) {
	return v.store.CommitInfo()
}

// InitChain loads the genesis state. The application state of the request
// is a YAML document, every extension reads its own section.
//
// The state can be initialized only once.
func (v *Vault) InitChain(req abci.RequestInitChain) error {
	if v.chainID != "" {
		return errors.Wrapf(errors.ErrState, "app state previously loaded for chain %s", v.chainID)
	}
	if len(req.AppStateBytes) == 0 {
		return errors.Wrap(errors.ErrEmpty, "app state not set in genesis")
	}
	opts, err := gringotts.ParseOptions(req.AppStateBytes)
	if err != nil {
		return err
	}
	header := abci.Header{ChainID: req.ChainId, Time: req.Time}
	info, err := gringotts.NewBlockInfo(header, req.ChainId, v.logger)
	if err != nil {
		return err
	}
	info = info.WithLogInfo("call", "init_chain")

	cache := v.store.DeliverStore().CacheWrap()
	if err := v.initChain(opts, info, cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return err
	}
	v.chainID = req.ChainId
	v.header = header
	v.logger.Info("Genesis loaded", "chain_id", req.ChainId)
	return nil
}

func (v *Vault) initChain(opts gringotts.Options, info gringotts.BlockInfo, db gringotts.KVStore) error {
	if err := saveChainID(db, info.ChainID()); err != nil {
		return err
	}
	if err := gringotts.SaveContractVersion(db, gringotts.CurrentContractVersion()); err != nil {
		return errors.Wrap(err, "contract version")
	}
	if v.stack.Initializer != nil {
		if err := v.stack.Initializer.FromGenesis(opts, info, db); err != nil {
			return errors.Wrap(err, "genesis")
		}
	}
	return gringotts.SaveLastBlock(db, info)
}

// BeginBlock sets the header of the block all following transactions are
// executed in.
func (v *Vault) BeginBlock(header abci.Header) error {
	if v.chainID == "" {
		return errors.Wrap(errors.ErrState, "genesis not loaded")
	}
	if header.Height <= v.header.Height {
		return errors.Wrapf(errors.ErrInput, "block height %d not after %d", header.Height, v.header.Height)
	}
	if header.Time.Before(v.header.Time) {
		return errors.Wrap(errors.ErrInput, "block time before the previous block")
	}
	header.ChainID = v.chainID
	info, err := gringotts.NewBlockInfo(header, v.chainID, v.logger)
	if err != nil {
		return err
	}
	if err := gringotts.SaveLastBlock(v.store.DeliverStore(), info); err != nil {
		return err
	}
	v.header = header
	return nil
}

// CheckTx verifies a transaction against the check state without executing
// any follow-up instructions.
func (v *Vault) CheckTx(txBytes []byte) (*gringotts.CheckResult, error) {
	tx, path, err := v.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	info, err := v.blockInfo("check_tx", path)
	if err != nil {
		return nil, err
	}
	return v.stack.Handler.Check(context.Background(), info, v.store.CheckStore(), tx)
}

// DeliverTx executes a transaction and then all instructions the handler
// produced, in order.
//
// If the handler fails, no state is changed. A failing self-call rejects
// the whole transaction: the handler state and every instruction executed
// so far are discarded. A failing external instruction stops the execution
// of the remaining ones, everything before it is kept and its error is
// returned together with the result.
func (v *Vault) DeliverTx(txBytes []byte) (*gringotts.DeliverResult, error) {
	tx, path, err := v.loadTx(txBytes)
	if err != nil {
		return nil, err
	}
	info, err := v.blockInfo("deliver_tx", path)
	if err != nil {
		return nil, err
	}
	ctx := context.Background()
	cache := v.store.DeliverStore().CacheWrap()

	res, err := v.stack.Handler.Deliver(ctx, info, cache, tx)
	v.stack.Metrics.observeMsg(path, err)
	if err != nil {
		// Decorators outside of the savepoint, like the sequence
		// check, keep their changes.
		if werr := cache.Write(); werr != nil {
			return nil, werr
		}
		return nil, err
	}
	tags, revert, err := v.dispatch(ctx, info, cache, res.Dispatch, 0)
	if revert {
		cache.Discard()
		info.Logger().Error("Self call failed", "err", err)
		return nil, err
	}
	if werr := cache.Write(); werr != nil {
		return nil, werr
	}
	res.Tags = append(res.Tags, tags...)
	if err != nil {
		info.Logger().Error("Dispatch failed", "err", err)
		return res, err
	}
	return res, nil
}

// dispatch executes instructions in order. Self-calls are routed back into
// the vault and the instructions they produce are executed in place,
// before the next instruction of the caller. Tags of all self-calls are
// returned. revert is set when a self-call failed at any depth and the
// whole transaction must be rejected.
func (v *Vault) dispatch(ctx context.Context, info gringotts.BlockInfo, db gringotts.CacheableKVStore, instructions []gringotts.Instruction, depth int) (tags []common.KVPair, revert bool, err error) {
	for i, ins := range instructions {
		kind := ins.Kind()
		if ins.SelfCall == nil {
			if v.stack.Dispatcher == nil {
				return tags, false, errors.Wrapf(errors.ErrState, "no dispatcher for instruction #%d %s", i, kind)
			}
			cache := db.CacheWrap()
			if err := v.stack.Dispatcher.Dispatch(ctx, info, cache, ins); err != nil {
				cache.Discard()
				return tags, false, errors.Wrapf(err, "instruction #%d %s", i, kind)
			}
			if err := cache.Write(); err != nil {
				return tags, false, err
			}
			v.stack.Metrics.observeDispatch(kind)
			continue
		}

		if depth >= maxSelfCallDepth {
			return tags, true, errors.Wrapf(errors.ErrState, "self call nested more than %d times", maxSelfCallDepth)
		}
		res, err := v.selfCall(ctx, info, db, ins.SelfCall)
		if err != nil {
			return tags, true, errors.Wrapf(err, "instruction #%d %s %s", i, kind, ins.SelfCall.Msg.Path)
		}
		v.stack.Metrics.observeDispatch(kind)
		tags = append(tags, res.Tags...)
		sub, revert, err := v.dispatch(ctx, info, db, res.Dispatch, depth+1)
		tags = append(tags, sub...)
		if err != nil {
			return tags, revert, err
		}
	}
	return tags, false, nil
}

// selfCall executes the message of a self-call instruction in its own
// savepoint.
func (v *Vault) selfCall(ctx context.Context, info gringotts.BlockInfo, db gringotts.CacheableKVStore, call *gringotts.SelfCall) (*gringotts.DeliverResult, error) {
	if v.stack.SelfHandler == nil || v.stack.SelfAddress == nil {
		return nil, errors.Wrap(errors.ErrState, "self calls not supported")
	}
	msg, err := v.stack.Codec.Unwrap(call.Msg)
	if err != nil {
		return nil, err
	}
	self, err := v.stack.SelfAddress(db)
	if err != nil {
		return nil, errors.Wrap(err, "self address")
	}

	cache := db.CacheWrap()
	res, err := v.stack.SelfHandler.Deliver(x.WithSelfCall(ctx, self), info.WithLogInfo("self_call", msg.Path()), cache, &selfCallTx{msg: msg})
	v.stack.Metrics.observeMsg(msg.Path(), err)
	if err != nil {
		cache.Discard()
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, err
	}
	return res, nil
}

// Query executes a read only query against the latest committed state.
// Path may be followed by "?prefix" to make a prefix query.
func (v *Vault) Query(path string, data []byte) ([]gringotts.Model, error) {
	qh, mod := v.stack.Queries.Handler(path)
	if qh == nil {
		return nil, errors.Wrapf(errors.ErrNotFound, "unexpected query path: %v", path)
	}
	return qh.Query(v.store.QueryStore(), mod, data)
}

// Commit persists the changes of the current block.
func (v *Vault) Commit() (gringotts.CommitID, error) {
	commitID, err := v.store.Commit()
	if err != nil {
		return commitID, err
	}
	v.stack.Metrics.observeCommit()
	v.logger.Info("Commit synced",
		"height", commitID.Version,
		"hash", fmt.Sprintf("%X", commitID.Hash),
	)
	return commitID, nil
}

// Close releases the database. Changes that were not committed are lost.
func (v *Vault) Close() error {
	return v.store.Close()
}

// loadTx calls the decoder, and capture any panics
func (v *Vault) loadTx(txBytes []byte) (tx gringotts.Tx, path string, err error) {
	defer errors.Recover(&err)
	tx, err = v.stack.Decoder(txBytes)
	if err != nil {
		return nil, "", err
	}
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, "", err
	}
	return tx, msg.Path(), nil
}

func (v *Vault) blockInfo(call, path string) (gringotts.BlockInfo, error) {
	if v.chainID == "" {
		return gringotts.BlockInfo{}, errors.Wrap(errors.ErrState, "genesis not loaded")
	}
	info, err := gringotts.NewBlockInfo(v.header, v.chainID, v.logger)
	if err != nil {
		return info, err
	}
	return info.WithLogInfo("call", call, "path", path), nil
}

// selfCallTx carries the message of a self-call. It has no signatures.
type selfCallTx struct {
	msg gringotts.Msg
}

var _ gringotts.Tx = (*selfCallTx)(nil)

func (tx *selfCallTx) GetMsg() (gringotts.Msg, error) {
	return tx.msg, nil
}
