package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/phanxgames/scrollrig"
	"github.com/spf13/cobra"
)

func newSampleCmd() *cobra.Command {
	var (
		timeline string
		model    string
		steps    int
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print the timeline's frame state as a table",
		Long: `Sweep progress from 0 to 1 in equal steps and print, for each step, the
active segment, its local and eased factors, the root position, the global
alpha and the displacement travel and scale.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if steps < 1 {
				return fmt.Errorf("--steps must be at least 1, got %d", steps)
			}
			tl, err := loadTimeline(timeline)
			if err != nil {
				return err
			}
			root, err := loadModel(model)
			if err != nil {
				return err
			}
			scene := scrollrig.NewScene()
			scene.NewRig(tl)
			scene.Attach(root)
			return sampleTable(cmd.OutOrStdout(), scene, steps)
		},
	}
	cmd.Flags().StringVar(&timeline, "timeline", "", "Timeline YAML (default: built-in)")
	cmd.Flags().StringVar(&model, "model", "", "glTF model (default: placeholder)")
	cmd.Flags().IntVar(&steps, "steps", 22, "Number of intervals between 0 and 1")
	return cmd
}

// sampleTable updates scene at steps+1 evenly spaced progress values, in
// order, and writes one row per frame.
func sampleTable(w io.Writer, scene *scrollrig.Scene, steps int) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "progress\tseg\tlocal\teased\tx\ty\tz\talpha\ttravel\tscale\t")
	for i := 0; i <= steps; i++ {
		u := float32(i) / float32(steps)
		fs := scene.Update(u)
		p := fs.Pose.Position
		fmt.Fprintf(tw, "%.4f\t%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\t\n",
			fs.Progress, fs.Segment, fs.Local, fs.Factor,
			p[0], p[1], p[2], fs.GlobalAlpha, fs.Travel, fs.ScaleFactor)
	}
	return tw.Flush()
}
