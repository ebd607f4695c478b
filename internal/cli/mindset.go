package cli

import (
	"fmt"
	"path/filepath"

	"github.com/fossillogic/jellyfish/internal/mindset"
	"github.com/spf13/cobra"
)

var mindsetDir string

var mindsetCmd = &cobra.Command{
	Use:   "mindset",
	Short: "Inspect .jellyfish model descriptors",
	RunE:  runMindset,
}

func init() {
	mindsetCmd.Flags().StringVar(&mindsetDir, "dir", "mindsets", "directory of .jellyfish files")
}

func runMindset(cmd *cobra.Command, args []string) error {
	matches, err := filepath.Glob(filepath.Join(mindsetDir, "*.jellyfish"))
	if err != nil {
		return err
	}

	reg := mindset.NewRegistry()
	out := cmd.OutOrStdout()
	for _, path := range matches {
		models, err := mindset.LoadFile(path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "skip %s: %v\n", path, err)
			continue
		}
		for _, m := range models {
			if err := m.Validate(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "invalid model in %s: %v\n", path, err)
				continue
			}
			reg.Models[m.Name] = m
			fmt.Fprintf(out, "%s\tpriority=%d\ttrust=%.2f\ttags=%v\n", m.Name, m.Priority, m.TrustScore, m.Tags)
		}
	}
	return nil
}
