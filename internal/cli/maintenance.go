package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Compact the chain, dropping blocks below the confidence floor",
	RunE: withChain(func(cmd *cobra.Command) error {
		c, err := openChain()
		if err != nil {
			return err
		}
		before := c.Count
		c.Cleanup()
		fmt.Fprintf(cmd.OutOrStdout(), "cleanup: %d -> %d blocks\n", before, c.Count)
		return saveChain(c)
	}),
}

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Move valid blocks to the front, preserving order",
	RunE: withChain(func(cmd *cobra.Command) error {
		c, err := openChain()
		if err != nil {
			return err
		}
		moved := c.Compact()
		fmt.Fprintf(cmd.OutOrStdout(), "compact: moved %d blocks\n", moved)
		return saveChain(c)
	}),
}

var pruneMinConfidence float64

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove invalid or low-confidence blocks",
	RunE: withChain(func(cmd *cobra.Command) error {
		c, err := openChain()
		if err != nil {
			return err
		}
		removed := c.Prune(pruneMinConfidence)
		fmt.Fprintf(cmd.OutOrStdout(), "prune: removed %d blocks\n", removed)
		return saveChain(c)
	}),
}

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove exact duplicate (input, output) blocks",
	RunE: withChain(func(cmd *cobra.Command) error {
		c, err := openChain()
		if err != nil {
			return err
		}
		removed := c.Dedupe()
		fmt.Fprintf(cmd.OutOrStdout(), "dedupe: removed %d blocks\n", removed)
		return saveChain(c)
	}),
}

var trimMaxBlocks int

var trimCmd = &cobra.Command{
	Use:   "trim",
	Short: "Keep only the highest-confidence blocks",
	RunE: withChain(func(cmd *cobra.Command) error {
		c, err := openChain()
		if err != nil {
			return err
		}
		removed := c.Trim(trimMaxBlocks)
		fmt.Fprintf(cmd.OutOrStdout(), "trim: removed %d blocks\n", removed)
		return saveChain(c)
	}),
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check every block's structural integrity (signatures are not checked)",
	RunE: withChain(func(cmd *cobra.Command) error {
		c, err := openChain()
		if err != nil {
			return err
		}
		ok := c.VerifyChain()
		fmt.Fprintf(cmd.OutOrStdout(), "verify: chain valid = %t\n", ok)
		for _, r := range c.ValidationReport() {
			if r.Valid && !r.OK {
				fmt.Fprintf(cmd.OutOrStdout(), "  block %d: failed structural check\n", r.Index)
			}
		}
		return nil
	}),
}

func init() {
	pruneCmd.Flags().Float64Var(&pruneMinConfidence, "min-confidence", 0.05, "minimum confidence to keep a block")
	trimCmd.Flags().IntVar(&trimMaxBlocks, "max-blocks", 128, "maximum blocks to retain")
}

// withChain adapts a cobra RunE-shaped closure that only needs *cobra.Command.
func withChain(fn func(cmd *cobra.Command) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return fn(cmd)
	}
}
