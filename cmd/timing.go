package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/diashow/internal/ansi"
	"github.com/papapumpkin/diashow/internal/timing"
)

var timingCmd = &cobra.Command{
	Use:   "timing [folder]",
	Short: "Show the computed per-rating display durations for a show",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTiming,
}

func init() {
	timingCmd.Flags().String("preset", "auto", "runtime preset: s, m, l, x or auto")
	timingCmd.Flags().String("node", "", "subfolder to compute for (default: whole show)")

	rootCmd.AddCommand(timingCmd)
}

func runTiming(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	root, err := resolveRoot(cfg, args)
	if err != nil {
		return err
	}

	tree, err := scanShow(cmd.Context(), cfg, root)
	if err != nil {
		return err
	}
	nodePath, _ := cmd.Flags().GetString("node")
	node, err := pickNode(tree, nodePath)
	if err != nil {
		return err
	}

	counts := node.Histogram()
	total := node.CountImages()
	presetFlag, _ := cmd.Flags().GetString("preset")
	presetName, preset, err := cfg.PresetFor(presetFlag, total)
	if err != nil {
		return err
	}

	budget := preset.Budget(cfg.BlendSeconds)
	tm, err := timing.Compute(counts, cfg.Weights.Table(), budget)
	if errors.Is(err, timing.ErrZeroWeightedSum) {
		return fmt.Errorf("nothing to time: the selected folder has no weighted images")
	}
	if err != nil {
		return err
	}

	fmt.Printf("preset %s: %d images in %g minutes\n\n", presetName, total, float64(preset.Minutes))
	for rating := timing.MaxRating; rating >= 0; rating-- {
		if counts[rating] == 0 {
			continue
		}
		stars := strings.Repeat("★", rating) + strings.Repeat("☆", timing.MaxRating-rating)
		fmt.Printf("  %s%s%s  %3d images  %6.2fs each\n",
			ansi.Yellow, stars, ansi.Reset, counts[rating], tm.DurationSeconds[rating])
	}
	fmt.Printf("\n  cross-fade %.2fs\n", tm.BlendSeconds)
	fmt.Printf("  realized total %s (budget %s)\n",
		formatMinutes(tm.RealizedSeconds), formatMinutes(budget.TotalSeconds))
	return nil
}

// formatMinutes renders seconds as "Xm Ys".
func formatMinutes(seconds float64) string {
	total := int(seconds + 0.5)
	return fmt.Sprintf("%dm %02ds", total/60, total%60)
}
