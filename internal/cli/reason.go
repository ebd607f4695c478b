package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reasonCmd = &cobra.Command{
	Use:   "reason <input>",
	Short: "Look up the best-known output for input",
	Args:  cobra.ExactArgs(1),
	RunE:  runReason,
}

func runReason(cmd *cobra.Command, args []string) error {
	c, err := openChain()
	if err != nil {
		return err
	}

	output, confidence, _, ok := c.ReasonVerbose(args[0])
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), output)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s (confidence: %.2f)\n", output, confidence)
	return nil
}
