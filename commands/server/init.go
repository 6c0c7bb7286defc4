package server

import (
	"fmt"
	"os"
	"time"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/errors"
	"github.com/iov-one/gringotts/store"
	"github.com/spf13/cobra"
	abci "github.com/tendermint/tendermint/abci/types"
)

const (
	flagGenesis = "genesis"
	flagChainID = "chain-id"
)

// InitCmd loads a genesis file into an empty vault and commits the
// genesis block.
func InitCmd(env *Env) *cobra.Command {
	var genesisFile, chainID string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize the vault from a genesis file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(genesisFile)
			if err != nil {
				return errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
			}
			if chainID == "" {
				chainID = env.Config.ChainID
			}

			v, metrics, err := env.open()
			if err != nil {
				return err
			}
			err = initChain(v, chainID, raw)
			if cerr := env.close(v, metrics); err == nil {
				err = cerr
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized chain %s\n", chainID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&genesisFile, flagGenesis, "g", "genesis.yaml", "genesis file in YAML format")
	cmd.Flags().StringVar(&chainID, flagChainID, "", "chain id, defaults to the configured one")
	return cmd
}

type genesisVault interface {
	InitChain(abci.RequestInitChain) error
	Commit() (gringotts.CommitID, error)
}

func initChain(v genesisVault, chainID string, appState []byte) error {
	err := v.InitChain(abci.RequestInitChain{
		ChainId:       chainID,
		Time:          time.Now().UTC(),
		AppStateBytes: appState,
	})
	if err != nil {
		return err
	}
	_, err = v.Commit()
	return err
}

// ValidateCmd checks genesis files without touching the vault.
func ValidateCmd(env *Env) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <genesis file>...",
		Short: "Validate genesis files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ValidateGenesis(env.Initializer, env.Config.ChainID, args); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d genesis file(s) valid\n", len(args))
			return nil
		},
	}
}

// ValidateGenesis loads every genesis file into a throw away in memory
// store.
func ValidateGenesis(ini gringotts.Initializer, chainID string, genesisPaths []string) error {
	for _, path := range genesisPaths {
		if err := validateGenesis(ini, chainID, path); err != nil {
			return errors.Wrap(err, path)
		}
	}
	return nil
}

func validateGenesis(ini gringotts.Initializer, chainID, genesisPath string) error {
	b, err := os.ReadFile(genesisPath)
	if err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot read genesis file: %s", err)
	}
	opts, err := gringotts.ParseOptions(b)
	if err != nil {
		return err
	}
	header := abci.Header{ChainID: chainID, Time: time.Now().UTC()}
	info, err := gringotts.NewBlockInfo(header, chainID, nil)
	if err != nil {
		return err
	}
	if err := ini.FromGenesis(opts, info, store.MemStore()); err != nil {
		return errors.Wrap(err, "cannot initialize from genesis")
	}
	return nil
}
