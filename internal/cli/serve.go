package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fossillogic/jellyfish/internal/catalog"
	"github.com/fossillogic/jellyfish/internal/chain"
	"github.com/fossillogic/jellyfish/internal/config"
	"github.com/fossillogic/jellyfish/internal/mindset"
	"github.com/fossillogic/jellyfish/internal/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "path to a YAML config file")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(serveConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	catPath := cfg.Catalog.Path
	if catPath == "" {
		catPath, err = catalog.DefaultDBPath()
		if err != nil {
			return fmt.Errorf("resolve catalog path: %w", err)
		}
	}

	cat, err := catalog.Open(catPath)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer cat.Close()

	reg := mindset.NewRegistry()
	if matches, err := filepath.Glob(filepath.Join(cfg.Mindset.Dir, "*.jellyfish")); err == nil {
		for _, path := range matches {
			models, err := mindset.LoadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "mindset: skip %s: %v\n", path, err)
				continue
			}
			for _, m := range models {
				if err := m.Validate(); err == nil {
					reg.Models[m.Name] = m
				}
			}
		}
	}

	var watcher *mindset.Watcher
	if cfg.Mindset.Watch {
		watcher, err = mindset.NewWatcher(cfg.Mindset.Dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "mindset: watch disabled: %v\n", err)
		} else {
			go watcher.Run(reg)
			defer watcher.Close()
		}
	}

	metrics := chain.NewMetrics(prometheus.DefaultRegisterer)

	srv := server.New(cat, reg, metrics, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "jellyfish serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  catalog: %s\n", catPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}
