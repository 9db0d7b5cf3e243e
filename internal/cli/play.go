package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmera/partview"
	"github.com/rmera/partview/config"
	"github.com/rmera/partview/playback"
	"github.com/rmera/partview/render"
)

// PlayOptions holds the flags of the play command.
type PlayOptions struct {
	*RootOptions
	ConfigFile    string
	Interval      time.Duration
	Normalization string
	Palette       string
	Order         string
	Output        string
	Compressed    bool
	Strict        bool
	Watch         bool
	Frames        uint64
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}
	cmd := &cobra.Command{
		Use:   "play [dir]",
		Short: "Play a trajectory directory in a loop",
		Long: `Play the frame files of a directory in a loop, one per tick.

Frames that can't be read are reported and skipped. Without --output the
point clouds are only logged; with it, each frame is written as a PNG image.

Example:
  partview play ./output/halleys_comet --interval 100ms
  partview play --config partview.yaml --output ./png --frames 200`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.ConfigFile, "config", "c", "", "YAML configuration file")
	f.DurationVar(&opts.Interval, "interval", playback.DefaultInterval, "time between frames")
	f.StringVar(&opts.Normalization, "normalization", "frame", "color range: frame or global")
	f.StringVar(&opts.Palette, "palette", "kindlmann", "color palette")
	f.StringVar(&opts.Order, "order", "name", "frame order: name or step")
	f.StringVarP(&opts.Output, "output", "o", "", "write each frame as a PNG image in this directory")
	f.BoolVar(&opts.Compressed, "compressed", false, "also play .bin.zst and .bin.gz files")
	f.BoolVar(&opts.Strict, "strict-version", false, "skip frames with an unknown format version")
	f.BoolVar(&opts.Watch, "watch", false, "pick up files added to or removed from the directory")
	f.Uint64Var(&opts.Frames, "frames", 0, "stop after this many ticks (0: play until interrupted)")
	return cmd
}

//buildConfig puts together defaults, the configuration file and the flags
//actually given, in that order of precedence.
func buildConfig(cmd *cobra.Command, opts *PlayOptions, args []string) (config.Config, error) {
	c := config.Default()
	if opts.ConfigFile != "" {
		var err error
		if c, err = config.Load(opts.ConfigFile); err != nil {
			return c, err
		}
	}
	f := cmd.Flags()
	if len(args) > 0 {
		c.Dir = args[0]
	}
	if f.Changed("interval") {
		c.Interval = opts.Interval
	}
	if f.Changed("normalization") {
		c.Normalization = opts.Normalization
	}
	if f.Changed("palette") {
		c.Palette = opts.Palette
	}
	if f.Changed("order") {
		c.Order = opts.Order
	}
	if f.Changed("output") {
		c.Output = opts.Output
	}
	if f.Changed("compressed") {
		c.Compressed = opts.Compressed
	}
	if f.Changed("strict-version") {
		c.StrictVersion = opts.Strict
	}
	if f.Changed("watch") {
		c.Watch = opts.Watch
	}
	return c, c.Validate()
}

func runPlay(cmd *cobra.Command, opts *PlayOptions, args []string) error {
	log := opts.logger(cmd.ErrOrStderr())
	c, err := buildConfig(cmd, opts, args)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}

	var r partview.Renderer = &render.Log{Logger: log}
	if c.Output != "" {
		png, err := render.NewPNG(c.Output)
		if err != nil {
			return WrapExitError(ExitCommandError, "can't prepare output", err)
		}
		png.Title = c.Dir
		r = png
	}

	popts, err := c.PlayerOptions(log)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid configuration", err)
	}
	popts = append(popts, playback.WithMaxTicks(opts.Frames))
	P := playback.New(r, popts...)
	if err := P.Load(c.Dir); err != nil {
		return WrapExitError(ExitCommandError, "can't play "+c.Dir, err)
	}

	parent := cmd.Context()
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := P.Start(ctx); err != nil {
		return WrapExitError(ExitFailure, "can't start playback", err)
	}
	<-P.Done()
	P.Stop()

	st := P.Stats()
	log.Info("done", slog.Uint64("ticks", st.Ticks), slog.Uint64("presented", st.Presented),
		slog.Uint64("skipped", st.Skipped), slog.Uint64("loops", st.Loops))
	return nil
}
