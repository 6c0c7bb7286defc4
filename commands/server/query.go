package server

import (
	"encoding/hex"
	"strconv"
	"unicode/utf8"

	"github.com/fxamacker/cbor/v2"
	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/orm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const flagFormat = "format"

// Formats of the query data argument.
const (
	FormatText    = "text"
	FormatHex     = "hex"
	FormatAddress = "address"
	FormatID      = "id"
)

// QueryCmd queries the committed state of the vault. Values are printed in
// the CBOR diagnostic notation.
func QueryCmd(env *Env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "query <path> [data]",
		Short: "Query the vault state",
		Long:  `Query the vault state, for example

  query /vesting
  query /proposals?prefix
  query /ballots 1 --format id
  query /auth <address> --format address`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			var data []byte
			if len(args) == 2 {
				var err error
				if data, err = ParseQueryData(format, args[1]); err != nil {
					return err
				}
			}

			v, metrics, err := env.open()
			if err != nil {
				return err
			}
			models, err := v.Query(args[0], data)
			if cerr := env.close(v, metrics); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			out, err := describeModels(models)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			if err := enc.Encode(out); err != nil {
				return errors.Wrapf(errors.ErrInput, "print result: %s", err)
			}
			return enc.Close()
		},
	}
	cmd.Flags().StringVarP(&format, flagFormat, "f", FormatText, "format of the data argument: text, hex, address or id")
	return cmd
}

// ParseQueryData decodes the data argument of a query.
func ParseQueryData(format, arg string) ([]byte, error) {
	switch format {
	case FormatText:
		return []byte(arg), nil
	case FormatHex:
		b, err := hex.DecodeString(arg)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "hex data: %s", err)
		}
		return b, nil
	case FormatAddress:
		return gringotts.ParseAddress(arg)
	case FormatID:
		n, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "id: %s", err)
		}
		return orm.EncodeSequence(n), nil
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown format %q", format)
	}
}

type modelView struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

func describeModels(models []gringotts.Model) ([]modelView, error) {
	out := make([]modelView, 0, len(models))
	for _, m := range models {
		value, err := cbor.Diagnose(m.Value)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "value of %X: %s", m.Key, err)
		}
		out = append(out, modelView{Key: describeKey(m.Key), Value: value})
	}
	return out, nil
}

// describeKey prints printable keys as they are, binary keys as hex.
func describeKey(key []byte) string {
	if utf8.Valid(key) {
		printable := true
		for _, r := range string(key) {
			if r < 0x20 || r == 0x7f {
				printable = false
				break
			}
		}
		if printable {
			return string(key)
		}
	}
	return hex.EncodeToString(key)
}
