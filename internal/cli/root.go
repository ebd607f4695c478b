package cli

import (
	"context"

	"github.com/fossillogic/jellyfish/internal/chain"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jellyfish",
	Short: "An auditable, content-addressed associative memory chain",
	Long:  "jellyfish records (input -> output) associations as cryptographically fingerprinted blocks in a fixed-capacity chain, with decay, pruning, and signing built in.",
}

var chainPath string

func Execute() error {
	shutdownTracing := chain.InitTracing()
	defer shutdownTracing(context.Background())
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&chainPath, "chain", "", "path to a .fish chain file (required by most subcommands)")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(learnCmd)
	rootCmd.AddCommand(reasonCmd)
	rootCmd.AddCommand(decayCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(signCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(cleanupCmd)
	rootCmd.AddCommand(compactCmd)
	rootCmd.AddCommand(pruneCmd)
	rootCmd.AddCommand(dedupeCmd)
	rootCmd.AddCommand(trimCmd)
	rootCmd.AddCommand(mindsetCmd)
}
