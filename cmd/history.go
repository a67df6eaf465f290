package cmd

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/diashow/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past slideshow sessions",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Bool("views", false, "also list per-image view counts of the latest session")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := history.Open(ctx, cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.Sessions(ctx)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Println("no sessions yet")
		return nil
	}

	for _, sess := range sessions {
		status := "cancelled"
		if sess.Completed {
			status = "completed"
		}
		if sess.EndedAt.IsZero() {
			status = "interrupted"
		}
		fmt.Printf("%s  %s  %d images, preset %s, %s order, %s\n",
			humanize.Time(sess.StartedAt), sess.Root, sess.ImageCount,
			sess.Preset, sess.Order, status)
	}

	showViews, _ := cmd.Flags().GetBool("views")
	if !showViews {
		return nil
	}

	last, err := store.LastSession(ctx)
	if errors.Is(err, history.ErrNoSessions) {
		return nil
	}
	if err != nil {
		return err
	}
	views, err := store.Views(ctx, last.ID)
	if err != nil {
		return err
	}
	fmt.Println()
	for _, v := range views {
		fmt.Printf("  %dx  %d★  %s\n", v.Views, v.Rating, filepath.Base(v.Path))
	}
	return nil
}
