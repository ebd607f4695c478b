package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var learnCmd = &cobra.Command{
	Use:   "learn <input> <output>",
	Short: "Admit or reinforce an (input -> output) association",
	Args:  cobra.ExactArgs(2),
	RunE:  runLearn,
}

func runLearn(cmd *cobra.Command, args []string) error {
	c, err := openChain()
	if err != nil {
		return err
	}

	input, output := args[0], args[1]
	if c.DetectConflict(input, output) {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %q is already associated with a different output\n", input)
	}

	if err := c.Learn(input, output); err != nil {
		return err
	}

	return saveChain(c)
}
