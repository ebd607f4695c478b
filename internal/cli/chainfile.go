package cli

import (
	"fmt"
	"os"

	"github.com/fossillogic/jellyfish/internal/chain"
)

// openChain loads the chain named by --chain, or initializes a fresh one if
// the file doesn't exist yet.
func openChain() (*chain.Chain, error) {
	if chainPath == "" {
		return nil, fmt.Errorf("--chain is required")
	}
	if _, err := os.Stat(chainPath); os.IsNotExist(err) {
		return chain.New(chain.NewDeviceID()), nil
	}
	c, err := chain.Load(chainPath)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", chainPath, err)
	}
	return c, nil
}

func saveChain(c *chain.Chain) error {
	if err := c.Save(chainPath); err != nil {
		return fmt.Errorf("save %s: %w", chainPath, err)
	}
	return nil
}
