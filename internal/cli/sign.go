package cli

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/fossillogic/jellyfish/internal/chain"
	"github.com/spf13/cobra"
)

var signKeyHex string

var signCmd = &cobra.Command{
	Use:   "sign <block-index>",
	Short: "Sign a block with the configured key (or the default key)",
	Args:  cobra.ExactArgs(1),
	RunE:  runSign,
}

func init() {
	signCmd.Flags().StringVar(&signKeyHex, "key", "", "hex-encoded signing key (default: built-in default key)")
}

func runSign(cmd *cobra.Command, args []string) error {
	idx, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("bad block index %q: %w", args[0], err)
	}

	c, err := openChain()
	if err != nil {
		return err
	}
	if idx < 0 || idx >= c.Count {
		return fmt.Errorf("block index %d out of range (count=%d)", idx, c.Count)
	}

	var key []byte
	if signKeyHex != "" {
		key, err = hex.DecodeString(signKeyHex)
		if err != nil {
			return fmt.Errorf("bad --key: %w", err)
		}
	}

	chain.Sign(&c.Memory[idx], key)
	fmt.Fprintf(cmd.OutOrStdout(), "signed block %d\n", idx)
	return saveChain(c)
}
