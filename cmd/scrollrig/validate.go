package main

import (
	"fmt"
	"io"

	"github.com/phanxgames/scrollrig"
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	var (
		tolerance float32
		strict    bool
	)
	cmd := &cobra.Command{
		Use:   "validate <timeline.yaml>",
		Short: "Check a timeline and report pose jumps at cuts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := scrollrig.LoadTimeline(args[0])
			if err != nil {
				return err
			}
			n := reportTimeline(cmd.OutOrStdout(), args[0], tl, tolerance)
			if strict && n > 0 {
				return fmt.Errorf("%s: %d pose discontinuities", args[0], n)
			}
			return nil
		},
	}
	cmd.Flags().Float32Var(&tolerance, "tolerance", 1e-4, "Largest pose difference at a cut treated as continuous")
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail when any cut is discontinuous")
	return cmd
}

// reportTimeline writes a summary of tl and one line per discontinuous cut.
// It returns the number of discontinuities.
func reportTimeline(w io.Writer, label string, tl *scrollrig.Timeline, tol float32) int {
	cuts := tl.Cuts()
	fmt.Fprintf(w, "%s: ok\n", label)
	fmt.Fprintf(w, "  segments:   %d\n", tl.NumSegments())
	fmt.Fprintf(w, "  sections:   %d\n", tl.NumSections())
	fmt.Fprintf(w, "  names:      %d\n", len(tl.Names()))
	fmt.Fprintf(w, "  transition: %.2f\n", tl.TransitionZone())

	jumps := tl.Discontinuities(tol)
	for _, i := range jumps {
		from, to := tl.Segment(i-1).To, tl.Segment(i).From
		fmt.Fprintf(w, "  discontinuity at cut %d (progress %.4f): position jumps %.4f\n",
			i, cuts[i], to.Position.Sub(from.Position).Len())
	}
	if len(jumps) == 0 {
		fmt.Fprintln(w, "  poses are continuous at every cut")
	}
	return len(jumps)
}
