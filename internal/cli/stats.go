package cli

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fossillogic/jellyfish/internal/chain"
	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize a chain's health",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	c, err := openChain()
	if err != nil {
		return err
	}

	s := c.ChainStats()
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "blocks:            %s / %d\n", humanize.Comma(int64(c.Count)), chain.MaxBlocks)
	fmt.Fprintf(out, "valid:             %s\n", humanize.Comma(int64(s.ValidCount)))
	fmt.Fprintf(out, "avg confidence:    %.3f\n", s.AvgConfidence)
	fmt.Fprintf(out, "immutable ratio:   %.1f%%\n", s.ImmutableRatio*100)
	fmt.Fprintf(out, "trust score:       %.3f\n", c.TrustScore())
	fmt.Fprintf(out, "knowledge cover:   %.1f%%\n", c.KnowledgeCoverage()*100)
	fmt.Fprintf(out, "created:           %s\n", humanize.Time(time.Unix(int64(c.CreatedAt), 0)))
	fmt.Fprintf(out, "updated:           %s\n", humanize.Time(time.Unix(int64(c.UpdatedAt), 0)))

	if best := c.BestMemory(); best != nil {
		fmt.Fprintf(out, "best memory:       %s\n", best.Explain())
	}
	return nil
}
