package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/diashow/internal/config"
	"github.com/papapumpkin/diashow/internal/library"
)

// resolveRoot picks the show folder: the positional argument wins, then the
// configured show_root.
func resolveRoot(cfg config.Config, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.ShowRoot != "" {
		return cfg.ShowRoot, nil
	}
	return "", fmt.Errorf("no show folder: pass one as an argument or set show_root")
}

// scanShow scans the show folder, consulting and refreshing the rating cache.
// Cache problems are reported on stderr but never fail the scan.
func scanShow(ctx context.Context, cfg config.Config, root string) (*library.Node, error) {
	cache, err := library.LoadCache(cfg.CachePath, root)
	if err != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "warning: rating cache unreadable: %v\n", err)
	}

	scanner := &library.Scanner{Root: root, Cache: cache}
	tree, err := scanner.Scan(ctx)
	if err != nil {
		return nil, err
	}

	if err := library.SaveCache(cfg.CachePath, root, tree); err != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "warning: rating cache not saved: %v\n", err)
	}
	return tree, nil
}

// pickNode resolves the node to play or inspect. An empty path means the
// whole tree.
func pickNode(tree *library.Node, path string) (*library.Node, error) {
	if path == "" {
		return tree, nil
	}
	node := tree.Find(path)
	if node == nil {
		return nil, fmt.Errorf("no folder %q in the show", path)
	}
	return node, nil
}

// loadConfig loads and validates configuration, applying flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		cfg.Verbose = true
	}
	return cfg, nil
}
