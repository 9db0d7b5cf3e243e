package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rmera/partview/framestore"
	"github.com/rmera/partview/traj/part"
)

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	var codec string
	cmd := &cobra.Command{
		Use:   "pack <dir>",
		Short: "Write compressed copies of the frame files of a directory",
		Long: `Write a compressed copy of every .bin frame in a directory, next to the
original: frame_00010.bin gets a frame_00010.bin.zst (or .bin.gz) sibling.
The originals are left alone. Play the result with --compressed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := part.ParseCodec(codec)
			if !ok || c == part.Raw {
				return WrapExitError(ExitCommandError, "invalid codec", fmt.Errorf("%q, want zst or gz", codec))
			}
			log := rootOpts.logger(cmd.ErrOrStderr())
			n, err := pack(args[0], c)
			if err != nil {
				return err
			}
			log.Info("packed", "dir", args[0], "frames", n, "codec", c.String())
			return nil
		},
	}
	cmd.Flags().StringVar(&codec, "codec", "zst", "compression: zst or gz")
	return cmd
}

func pack(dir string, c part.Codec) (int, error) {
	files, err := framestore.Discover(dir)
	if err != nil {
		return 0, WrapExitError(ExitCommandError, "can't pack "+dir, err)
	}
	for _, f := range files {
		F, err := part.ReadFile(f)
		if err != nil {
			return 0, WrapExitError(ExitFailure, "can't read frame", err)
		}
		out := strings.TrimSuffix(f, part.RawSuffix) + c.Suffix()
		if err := part.WriteFile(out, F); err != nil {
			return 0, WrapExitError(ExitFailure, "can't write frame", err)
		}
	}
	return len(files), nil
}
