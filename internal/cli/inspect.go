package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rmera/partview/traj/part"
)

// NewInspectCommand creates the inspect command.
func NewInspectCommand(rootOpts *RootOptions) *cobra.Command {
	var headerOnly bool
	cmd := &cobra.Command{
		Use:   "inspect <file>...",
		Short: "Print the header and a census of frame files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.OutOrStdout(), args, headerOnly)
		},
	}
	cmd.Flags().BoolVar(&headerOnly, "header", false, "only read the headers")
	return cmd
}

func runInspect(w io.Writer, files []string, headerOnly bool) error {
	var failed int
	for _, name := range files {
		if err := inspectOne(w, name, headerOnly); err != nil {
			fmt.Fprintf(w, "%s: %v\n", name, err)
			failed++
		}
	}
	if failed > 0 {
		return WrapExitError(ExitFailure, fmt.Sprintf("%d of %d files could not be read", failed, len(files)), errors.New("bad frame files"))
	}
	return nil
}

func printHeader(w io.Writer, name string, h part.Header) {
	fmt.Fprintf(w, "%s\n  magic %q version %d step %d count %d flags 0x%08x\n",
		name, h.Magic[:], h.Version, h.Step, h.Count, h.Flags)
}

func inspectOne(w io.Writer, name string, headerOnly bool) error {
	if headerOnly {
		h, err := part.ReadHeader(name)
		if err != nil {
			return err
		}
		printHeader(w, name, h)
		return nil
	}
	F, err := part.ReadFile(name)
	if err != nil {
		return err
	}
	printHeader(w, name, F.Header)
	types, states := F.Census()
	tk := make([]uint32, 0, len(types))
	for t := range types {
		tk = append(tk, t)
	}
	sort.Slice(tk, func(i, j int) bool { return tk[i] < tk[j] })
	for _, t := range tk {
		fmt.Fprintf(w, "  type %d: %d\n", t, types[t])
	}
	sk := make([]part.State, 0, len(states))
	for s := range states {
		sk = append(sk, s)
	}
	sort.Slice(sk, func(i, j int) bool { return sk[i] < sk[j] })
	for _, s := range sk {
		fmt.Fprintf(w, "  state %s: %d\n", s, states[s])
	}
	return nil
}
