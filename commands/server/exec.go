package server

import (
	"encoding/hex"
	"io"
	"os"
	"time"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/app"
	"github.com/iov-one/gringotts/crypto"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/x/sigs"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
	"gopkg.in/yaml.v3"
)

const (
	flagKey = "key"
	flagMsg = "msg"
)

// MsgFile is the YAML layout of a message executed by the exec command.
//
//	path: gov/vote
//	msg:
//	  proposal_id: 1
//	  approve: true
type MsgFile struct {
	Path string    `yaml:"path"`
	Msg  yaml.Node `yaml:"msg"`
}

// ReadMsg decodes a message file into the message type registered under
// its path.
func ReadMsg(codec *gringotts.MsgCodec, raw []byte) (gringotts.Msg, error) {
	var f MsgFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "message file: %s", err)
	}
	msg, err := codec.New(f.Path)
	if err != nil {
		return nil, err
	}
	if !f.Msg.IsZero() {
		if err := f.Msg.Decode(msg); err != nil {
			return nil, errors.Wrapf(errors.ErrInput, "message %s: %s", f.Path, err)
		}
	}
	if err := msg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid message")
	}
	return msg, nil
}

// ExecCmd signs a message and delivers it in a new block.
func ExecCmd(env *Env) *cobra.Command {
	var keyFile, msgFile string
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Sign a message and execute it in a new block",
		Args:  cobra.NoArgs,
		RunE:  func(cmd *cobra.Command, args []string) error {
			key, err := LoadKey(keyFile)
			if err != nil {
				return err
			}
			raw, err := os.ReadFile(msgFile)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "cannot read message file: %s", err)
			}
			msg, err := ReadMsg(env.Codec, raw)
			if err != nil {
				return err
			}

			v, metrics, err := env.open()
			if err != nil {
				return err
			}
			res, err := execMsg(v, key, msg, time.Now().UTC())
			if cerr := env.close(v, metrics); err == nil {
				err = cerr
			}
			if res != nil {
				if perr := printResult(cmd.OutOrStdout(), res); err == nil {
					err = perr
				}
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&keyFile, flagKey, "k", "key.txt", "private key of the signer")
	cmd.Flags().StringVarP(&msgFile, flagMsg, "m", "msg.yaml", "message file in YAML format")
	return cmd
}

// execResult is printed after a message was executed.
type execResult struct {
	Height   int64                   `yaml:"height"`
	Path     string                  `yaml:"path"`
	Data     string                  `yaml:"data,omitempty"`
	Log      string                  `yaml:"log,omitempty"`
	Tags     map[string]string       `yaml:"tags,omitempty"`
	Dispatch []gringotts.Instruction `yaml:"dispatch,omitempty"`
	Code     uint32                  `yaml:"code"`
	Error    string                  `yaml:"error,omitempty"`
}

// execMsg runs the message in a block following the last one. The block
// is committed even if the message fails, because the signature sequence
// of the signer was used.
func execMsg(v *app.Vault, key *crypto.PrivateKey, msg gringotts.Msg, now time.Time) (*execResult, error) {
	seq, err := nextSequence(v, key.PublicKey().Address())
	if err != nil {
		return nil, err
	}
	tx, err := sigs.NewStdTx(msg)
	if err != nil {
		return nil, err
	}
	if err := tx.Sign(key, v.ChainID(), seq); err != nil {
		return nil, errors.Wrap(err, "sign")
	}
	raw, err := tx.Marshal()
	if err != nil {
		return nil, err
	}

	last := v.LastHeader()
	if now.Before(last.Time) {
		now = last.Time
	}
	header := abci.Header{Height: last.Height + 1, Time: now}
	if err := v.BeginBlock(header); err != nil {
		return nil, err
	}
	res, deliverErr := v.DeliverTx(raw)
	if _, err := v.Commit(); err != nil {
		return nil, errors.Wrap(err, "commit")
	}

	out := &execResult{Height: header.Height, Path: msg.Path()}
	if res != nil {
		out.Data = hex.EncodeToString(res.Data)
		out.Log = res.Log
		out.Dispatch = res.Dispatch
		if len(res.Tags) > 0 {
			out.Tags = make(map[string]string, len(res.Tags))
			for _, t := range res.Tags {
				out.Tags[string(t.Key)] = string(t.Value)
			}
		}
	}
	out.Code, out.Error = errors.ABCIInfo(deliverErr, false)
	return out, deliverErr
}

// nextSequence returns the sequence the signer must use in the next
// transaction.
func nextSequence(v *app.Vault, signer gringotts.Address) (int64, error) {
	models, err := v.Query("/auth", signer)
	if err != nil {
		return 0, err
	}
	if len(models) == 0 {
		return 0, nil
	}
	var user sigs.UserData
	if err := gringotts.Unmarshal(models[0].Value, &user); err != nil {
		return 0, errors.Wrap(err, "user data")
	}
	return user.Sequence, nil
}

func printResult(w io.Writer, res *execResult) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(res); err != nil {
		return errors.Wrapf(errors.ErrInput, "print result: %s", err)
	}
	return enc.Close()
}

// LoadKey reads a private key written by the keys command.
func LoadKey(path string) (*crypto.PrivateKey, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "cannot read key file: %s", err)
	}
	var key crypto.PrivateKey
	if err := key.UnmarshalText(raw); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &key, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

