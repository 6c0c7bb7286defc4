package server

import (
	"fmt"
	"os"

	"github.com/iov-one/gringotts"
	"github.com/iov-one/gringotts/crypto"
	"github.com/iov-one/gringotts/errors"
	"github.com/spf13/cobra"
)

// KeysCmd manages the private keys used to sign transactions.
func KeysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage signing keys",
	}
	cmd.AddCommand(keysGenCmd(), keysShowCmd())
	return cmd
}

func keysGenCmd() *cobra.Command {
	var keyFile string
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate a new private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, err := GenerateKey(keyFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), addr)
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyFile, flagKey, "k", "key.txt", "file the key is written to")
	return cmd
}

func keysShowCmd() *cobra.Command {
	var keyFile string
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the address of a private key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := LoadKey(keyFile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), key.PublicKey().Address())
			return nil
		},
	}
	cmd.Flags().StringVarP(&keyFile, flagKey, "k", "key.txt", "private key file")
	return cmd
}

// GenerateKey writes a new private key to given file and returns its
// address. An existing file is never overwritten.
func GenerateKey(path string) (gringotts.Address, error) {
	if fileExists(path) {
		return nil, errors.Wrapf(errors.ErrDuplicate, "key file %s exists", path)
	}
	key := crypto.GenPrivKeyEd25519()
	raw, err := key.MarshalText()
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, append(raw, '\n'), 0o600); err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "write key: %s", err)
	}
	return key.PublicKey().Address(), nil
}
