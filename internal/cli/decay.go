package cli

import (
	"context"
	"fmt"

	"github.com/fossillogic/jellyfish/internal/chain"
	"github.com/spf13/cobra"
)

var decayRateSeconds float64

var decayCmd = &cobra.Command{
	Use:   "decay",
	Short: "Age every block's confidence by its half-life and save",
	RunE:  runDecay,
}

func init() {
	decayCmd.Flags().Float64Var(&decayRateSeconds, "rate", 86400, "half-life in seconds")
}

func runDecay(cmd *cobra.Command, args []string) error {
	c, err := openChain()
	if err != nil {
		return err
	}

	before := c.ChainStats().ValidCount
	chain.NewTraced(c).DecayCtx(context.Background(), decayRateSeconds)
	after := c.ChainStats().ValidCount

	if err := saveChain(c); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "decayed: %d -> %d valid blocks\n", before, after)
	return nil
}
