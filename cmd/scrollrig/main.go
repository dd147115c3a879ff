// scrollrig drives a named-part model along a scroll timeline.
//
// Commands:
//
//	preview [model.gltf|model.glb]  open a window and scroll through the timeline
//	validate <timeline.yaml>        check a timeline and report pose jumps at cuts
//	sample                          print the timeline's frame state as a table
//	inspect <model>                 list a model's nodes and the timeline names it lacks
//
// Without a model, preview and sample use a built-in placeholder gearbox.
// Without --timeline, the built-in eleven-page timeline is used.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/phanxgames/scrollrig"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	cmd := &cobra.Command{
		Use:          "scrollrig",
		Short:        "Scroll-driven 3D timeline engine",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			slog.SetDefault(newLogger(cmd.ErrOrStderr(), verbose))
		},
	}
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")

	cmd.AddCommand(
		newPreviewCmd(),
		newValidateCmd(),
		newSampleCmd(),
		newInspectCmd(),
	)
	return cmd
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadTimeline reads path, or returns the built-in timeline when path is "".
func loadTimeline(path string) (*scrollrig.Timeline, error) {
	if path == "" {
		return scrollrig.DefaultTimeline(), nil
	}
	return scrollrig.LoadTimeline(path)
}

// loadModel reads path, or builds the placeholder model when path is "".
func loadModel(path string) (*scrollrig.Node, error) {
	if path == "" {
		return scrollrig.PlaceholderModel(), nil
	}
	root, err := scrollrig.LoadGLTF(path)
	if err != nil {
		return nil, fmt.Errorf("load model: %w", err)
	}
	return root, nil
}

func optionalArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
