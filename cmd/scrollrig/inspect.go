package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/phanxgames/scrollrig"
	"github.com/spf13/cobra"
)

func newInspectCmd() *cobra.Command {
	var timeline string
	cmd := &cobra.Command{
		Use:   "inspect <model.gltf|model.glb>",
		Short: "List a model's nodes and the timeline names it lacks",
		Long: `List a model's node hierarchy with mesh material slots, then report every
name the timeline refers to that the model does not contain. Missing names
are inert at runtime: the parts they name simply never animate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := loadTimeline(timeline)
			if err != nil {
				return err
			}
			root, err := loadModel(args[0])
			if err != nil {
				return err
			}
			inspectModel(cmd.OutOrStdout(), root, tl)
			return nil
		},
	}
	cmd.Flags().StringVar(&timeline, "timeline", "", "Timeline YAML (default: built-in)")
	return cmd
}

// inspectModel writes the tree under root and the timeline names missing
// from it. It returns the missing names.
func inspectModel(w io.Writer, root *scrollrig.Node, tl *scrollrig.Timeline) []string {
	writeTree(w, root, 0)

	rig := scrollrig.NewRig(root, tl)
	rig.Update(0)
	missing := rig.Missing()
	known := len(tl.Names()) - len(missing)
	fmt.Fprintf(w, "\ntimeline names: %d found, %d missing\n", known, len(missing))
	for _, name := range missing {
		fmt.Fprintf(w, "  missing %s\n", name)
	}
	return missing
}

func writeTree(w io.Writer, n *scrollrig.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsMesh() {
		slots := make([]string, len(n.Materials))
		for i, m := range n.Materials {
			if m == nil {
				slots[i] = "-"
				continue
			}
			slots[i] = fmt.Sprintf("%s(%.2f)", m.Name, m.Opacity)
		}
		fmt.Fprintf(w, "%s%s [mesh %s]\n", indent, n.Name, strings.Join(slots, " "))
	} else {
		fmt.Fprintf(w, "%s%s\n", indent, n.Name)
	}
	for _, c := range n.Children() {
		writeTree(w, c, depth+1)
	}
}
