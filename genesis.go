package gringotts

import (
	"github.com/iov-one/gringotts/errors"
	"gopkg.in/yaml.v3"
)

// Options are the app options of the genesis document.
// Each extension can look up its key and decode the YAML as desired.
type Options map[string]yaml.Node

// ParseOptions reads options from a YAML document.
func ParseOptions(raw []byte) (Options, error) {
	var opts Options
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "genesis options: %s", err)
	}
	if opts == nil {
		opts = Options{}
	}
	return opts, nil
}

// ReadOptions reads the values stored under a given key,
// and decodes the YAML into the given obj.
// Returns an error if it cannot parse.
// Noop and no error if key is missing
func (o Options) ReadOptions(key string, obj interface{}) error {
	node, ok := o[key]
	if !ok {
		return nil
	}
	if err := node.Decode(obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "option %q: %s", key, err)
	}
	return nil
}

// Initializer implementations are used to initialize
// extensions from genesis file contents. The block info describes the
// genesis block; its time is "now" for the validation of the initial state.
type Initializer interface {
	FromGenesis(opts Options, info BlockInfo, db KVStore) error
}

// MultiInitializer runs all initializers in the order given.
type MultiInitializer []Initializer

var _ Initializer = MultiInitializer(nil)

func (m MultiInitializer) FromGenesis(opts Options, info BlockInfo, db KVStore) error {
	for _, i := range m {
		if err := i.FromGenesis(opts, info, db); err != nil {
			return err
		}
	}
	return nil
}
