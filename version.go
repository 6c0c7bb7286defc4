package gringotts

import (
	"fmt"
	"regexp"

	"github.com/iov-one/gringotts/errors"
)

// ContractName is recorded in the state together with the version that
// created it.
const ContractName = "gringotts"

// Version should be set by build flags: `git describe --tags`
var Version = "v0.1.0"

var semver = regexp.MustCompile(`^v(\d+)\.(\d+)\.(\d+)`)

// ContractVersion is the name and version of the code that initialized
// a state.
type ContractVersion struct {
	_        struct{} `cbor:",toarray"`
	Contract string   `json:"contract"`
	Version  string   `json:"version"`
}

// CurrentContractVersion returns the version of this binary.
func CurrentContractVersion() ContractVersion {
	return ContractVersion{Contract: ContractName, Version: Version}
}

func (v ContractVersion) Validate() error {
	if v.Contract == "" {
		return errors.Wrap(errors.ErrEmpty, "contract")
	}
	if _, _, _, err := ParseVersion(v.Version); err != nil {
		return err
	}
	return nil
}

// ParseVersion extracts major, minor and patch from a version string.
func ParseVersion(v string) (major, minor, patch int, err error) {
	m := semver.FindStringSubmatch(v)
	if m == nil {
		return 0, 0, 0, errors.Wrapf(errors.ErrInput, "invalid version %q", v)
	}
	_, err = fmt.Sscanf(m[1]+" "+m[2]+" "+m[3], "%d %d %d", &major, &minor, &patch)
	if err != nil {
		return 0, 0, 0, errors.Wrapf(errors.ErrInput, "invalid version %q", v)
	}
	return major, minor, patch, nil
}

var versionKey = []byte("_contract_info")

// SaveContractVersion records the version of the code that initialized the
// state.
func SaveContractVersion(db KVStore, v ContractVersion) error {
	if err := v.Validate(); err != nil {
		return err
	}
	raw, err := Marshal(v)
	if err != nil {
		return err
	}
	return db.Set(versionKey, raw)
}

// LoadContractVersion returns the version recorded at initialization.
func LoadContractVersion(db ReadOnlyKVStore) (ContractVersion, error) {
	var v ContractVersion
	raw, err := db.Get(versionKey)
	if err != nil {
		return v, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	if raw == nil {
		return v, errors.Wrap(errors.ErrNotFound, "contract version")
	}
	return v, Unmarshal(raw, &v)
}

// RegisterVersionQuery registers the recorded contract version under
// /version.
func RegisterVersionQuery(qr QueryRouter) {
	qr.Register("/version", QueryFunc(func(db ReadOnlyKVStore, mod string, data []byte) ([]Model, error) {
		if mod != KeyQueryMod {
			return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
		}
		raw, err := db.Get(versionKey)
		if err != nil {
			return nil, errors.Wrap(errors.ErrDatabase, err.Error())
		}
		if raw == nil {
			return nil, nil
		}
		return []Model{Pair(versionKey, raw)}, nil
	}))
}
