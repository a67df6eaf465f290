package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/diashow/internal/ansi"
	"github.com/papapumpkin/diashow/internal/config"
	"github.com/papapumpkin/diashow/internal/history"
	"github.com/papapumpkin/diashow/internal/library"
)

var scanCmd = &cobra.Command{
	Use:   "scan [folder]",
	Short: "Scan a show folder and print its tree with ratings",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().Bool("watch", false, "keep watching the folder and rescan on changes")

	rootCmd.AddCommand(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	root, err := resolveRoot(cfg, args)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tree, err := scanShow(ctx, cfg, root)
	if err != nil {
		return err
	}
	printTree(tree)
	printLastPlayed(ctx, cfg, root)

	watch, _ := cmd.Flags().GetBool("watch")
	if !watch {
		return nil
	}

	watcher, err := library.NewWatcher(root, nil, 0)
	if err != nil {
		return fmt.Errorf("watch %q: %w", root, err)
	}
	defer watcher.Close()

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	fmt.Println("\n" + ansi.Green + "watching for changes, ctrl+c to stop" + ansi.Reset)
	for {
		select {
		case <-sigCtx.Done():
			return nil
		case change := <-watcher.Changes:
			if cfg.Verbose {
				fmt.Fprintf(os.Stderr, "change: %s\n", change.Path)
			}
			tree, err := scanShow(ctx, cfg, root)
			if err != nil {
				fmt.Fprintf(os.Stderr, "%srescan failed: %v%s\n", ansi.Red, err, ansi.Reset)
				continue
			}
			fmt.Println()
			printTree(tree)
		}
	}
}

// printTree renders the node hierarchy with per-folder image counts and
// sizes, followed by the rating histogram of the whole show.
func printTree(tree *library.Node) {
	tree.Walk(func(node *library.Node, depth int) {
		indent := strings.Repeat("  ", depth)
		name := node.Name
		if depth == 0 {
			name = ansi.Bold + name + ansi.Reset
		}
		fmt.Printf("%s%s  %d images, %s%s%s\n",
			indent, name, node.CountImages(),
			ansi.Dim, humanize.Bytes(nodeSize(node)), ansi.Reset)
	})

	hist := tree.Histogram()
	fmt.Println()
	for rating := len(hist) - 1; rating >= 0; rating-- {
		stars := strings.Repeat("★", rating) + strings.Repeat("☆", len(hist)-1-rating)
		fmt.Printf("  %s%s%s  %d\n", ansi.Yellow, stars, ansi.Reset, hist[rating])
	}
}

// printLastPlayed shows when this show was last played, if ever. History
// problems are silently skipped; the scan output stands on its own.
func printLastPlayed(ctx context.Context, cfg config.Config, root string) {
	store, err := history.Open(ctx, cfg.HistoryPath)
	if err != nil {
		return
	}
	defer store.Close()

	sessions, err := store.Sessions(ctx)
	if err != nil {
		return
	}
	for _, sess := range sessions {
		if sess.Root == root {
			fmt.Printf("\n%slast played %s (preset %s, %d images)%s\n",
				ansi.Dim, humanize.Time(sess.StartedAt), sess.Preset, sess.ImageCount, ansi.Reset)
			return
		}
	}
}

// nodeSize sums the byte sizes of every image under the node.
func nodeSize(node *library.Node) uint64 {
	var total uint64
	for _, img := range node.AllImages() {
		total += uint64(img.Size)
	}
	return total
}
