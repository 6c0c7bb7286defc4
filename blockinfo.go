package gringotts

import (
	"regexp"
	"time"

	"github.com/iov-one/gringotts/errors"
	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"
)

var (
	// DefaultLogger is used for all block info that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()

	// IsValidChainID is the RegExp to ensure valid chain IDs
	IsValidChainID = regexp.MustCompile(`^[a-zA-Z0-9_\-]{6,20}$`).MatchString
)

// BlockInfo carries the block level information every handler needs. It is
// the only source of "now" for the vault.
type BlockInfo struct {
	header  abci.Header
	chainID string
	logger  log.Logger
}

// NewBlockInfo creates a BlockInfo struct with current context of where it is
// being executed.
func NewBlockInfo(header abci.Header, chainID string, logger log.Logger) (BlockInfo, error) {
	if !IsValidChainID(chainID) {
		return BlockInfo{}, errors.Wrapf(errors.ErrInput, "chain id %q invalid", chainID)
	}
	if logger == nil {
		logger = DefaultLogger
	}
	return BlockInfo{
		header:  header,
		chainID: chainID,
		logger:  logger,
	}, nil
}

func (b BlockInfo) Header() abci.Header {
	return b.header
}

func (b BlockInfo) ChainID() string {
	return b.chainID
}

func (b BlockInfo) Height() int64 {
	return b.header.Height
}

func (b BlockInfo) BlockTime() time.Time {
	return b.header.Time
}

func (b BlockInfo) UnixTime() UnixTime {
	return AsUnixTime(b.header.Time)
}

func (b BlockInfo) Logger() log.Logger {
	return b.logger
}

// WithLogInfo accepts keyvalue pairs, and returns another block info like
// this, after passing all the keyvals to the Logger.
func (b BlockInfo) WithLogInfo(keyvals ...interface{}) BlockInfo {
	b.logger = b.logger.With(keyvals...)
	return b
}

// IsExpired returns true if given time is in the past as compared to the "now"
// as declared for the block. Expiration is inclusive, meaning that if current
// time is equal to the expiration time than this function returns true.
func (b BlockInfo) IsExpired(t UnixTime) bool {
	return t <= b.UnixTime()
}

// InThePast returns true if given time is strictly before the block time.
func (b BlockInfo) InThePast(t UnixTime) bool {
	return t < b.UnixTime()
}

// InTheFuture returns true if given time is strictly after the block time.
func (b BlockInfo) InTheFuture(t UnixTime) bool {
	return t > b.UnixTime()
}

var lastBlockKey = []byte("_last_block")

type lastBlock struct {
	_      struct{} `cbor:",toarray"`
	Height int64
	Time   UnixTime
}

// SaveLastBlock records the height and time of given block. The host calls
// it for every processed block so that queries can refer to the current
// block time.
func SaveLastBlock(db KVStore, info BlockInfo) error {
	raw, err := Marshal(lastBlock{Height: info.Height(), Time: info.UnixTime()})
	if err != nil {
		return err
	}
	if err := db.Set(lastBlockKey, raw); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LastBlock returns the height and time recorded by SaveLastBlock.
func LastBlock(db ReadOnlyKVStore) (int64, UnixTime, error) {
	raw, err := db.Get(lastBlockKey)
	if err != nil {
		return 0, 0, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return 0, 0, errors.Wrap(errors.ErrNotFound, "no block processed")
	}
	var b lastBlock
	if err := Unmarshal(raw, &b); err != nil {
		return 0, 0, err
	}
	return b.Height, b.Time, nil
}
