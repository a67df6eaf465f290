package cmd

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/diashow/internal/history"
	"github.com/papapumpkin/diashow/internal/library"
	"github.com/papapumpkin/diashow/internal/player"
	"github.com/papapumpkin/diashow/internal/telemetry"
	"github.com/papapumpkin/diashow/internal/timeline"
	"github.com/papapumpkin/diashow/internal/timing"
	"github.com/papapumpkin/diashow/internal/tui"
)

var playCmd = &cobra.Command{
	Use:   "play [folder]",
	Short: "Play a show folder as a timed slideshow",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runPlay,
}

func init() {
	playCmd.Flags().String("preset", "auto", "runtime preset: s, m, l, x or auto")
	playCmd.Flags().String("node", "", "subfolder to play (default: whole show)")
	playCmd.Flags().String("order", "forward", "display order: forward, reverse or random")
	playCmd.Flags().Int64("seed", 0, "random order seed (0 picks one from the clock)")

	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
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
	nodePath, _ := cmd.Flags().GetString("node")
	node, err := pickNode(tree, nodePath)
	if err != nil {
		return err
	}

	images := node.AllImages()
	if len(images) == 0 {
		return fmt.Errorf("nothing to play: %q holds no images", node.Path)
	}

	orderFlag, _ := cmd.Flags().GetString("order")
	order, err := library.ParseOrder(orderFlag)
	if err != nil {
		return err
	}
	seed, _ := cmd.Flags().GetInt64("seed")
	images = library.Arrange(images, order, seed)

	presetFlag, _ := cmd.Flags().GetString("preset")
	presetName, preset, err := cfg.PresetFor(presetFlag, len(images))
	if err != nil {
		return err
	}

	tm, err := timing.Compute(node.Histogram(), cfg.Weights.Table(), preset.Budget(cfg.BlendSeconds))
	if errors.Is(err, timing.ErrZeroWeightedSum) {
		return fmt.Errorf("nothing to play: every image in %q carries zero weight", node.Path)
	}
	if err != nil {
		return err
	}

	slides := make([]timeline.Slide, len(images))
	for i, img := range images {
		slides[i] = timeline.Slide{Image: img.Path, Rating: img.Rating}
	}
	entries := timeline.Build(slides, tm)

	store, err := history.Open(ctx, cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer store.Close()

	var emitter *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		emitter, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			return err
		}
		defer emitter.Close()
	}

	sessionID := uuid.NewString()
	err = store.BeginSession(ctx, history.Session{
		ID:              sessionID,
		Root:            root,
		Node:            nodePath,
		Order:           order.String(),
		Preset:          presetName,
		ImageCount:      len(images),
		RealizedSeconds: tm.RealizedSeconds,
	})
	if err != nil {
		return err
	}

	_ = emitter.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      telemetry.KindSessionStart,
		SessionID: sessionID,
		Data: map[string]any{
			"root":    root,
			"preset":  presetName,
			"images":  len(images),
			"runtime": tm.RealizedSeconds,
		},
	})

	clock := player.NewMonotonicClock()
	canvas := tui.NewCanvas(80, 24) // resized to the real terminal on startup
	sched := player.New(entries, clock, canvas)

	completed, err := tui.Run(tui.PlayerConfig{
		Scheduler: sched,
		Clock:     clock,
		Canvas:    canvas,
		FPS:       cfg.FPS,
		Emitter:   emitter,
		SessionID: sessionID,
		OnView: func(image string, rating int) {
			if err := store.RecordView(ctx, sessionID, image, rating); err != nil && cfg.Verbose {
				fmt.Fprintf(os.Stderr, "warning: view not recorded: %v\n", err)
			}
		},
	})
	if endErr := store.EndSession(ctx, sessionID, completed); endErr != nil && cfg.Verbose {
		fmt.Fprintf(os.Stderr, "warning: session not closed: %v\n", endErr)
	}
	_ = emitter.Emit(telemetry.Event{
		Timestamp: time.Now(),
		Kind:      telemetry.KindSessionDone,
		SessionID: sessionID,
		Data:      map[string]any{"completed": completed},
	})
	return err
}
