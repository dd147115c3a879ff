package preview

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/phanxgames/scrollrig"
)

// hudRefresh is how often the HUD text is rebuilt, in seconds.
const hudRefresh = 0.25

// hudStats is the input to one HUD refresh.
type hudStats struct {
	fps, tps float64
	state    scrollrig.FrameState
	page     float32
	pages    float32
	missing  int
	autoplay bool
	loading  bool
}

// HUD is a debug overlay with FPS/TPS and the rig's frame state. The text
// is rebuilt every hudRefresh seconds and drawn with ebitenutil.DebugPrintAt.
type HUD struct {
	Visible bool

	text  string
	lines int
	since float64
}

// NewHUD creates a visible HUD.
func NewHUD() *HUD {
	return &HUD{Visible: true, since: hudRefresh}
}

// update rebuilds the text when the refresh interval has elapsed.
func (h *HUD) update(dt float64, stats hudStats) {
	h.since += dt
	if h.since < hudRefresh {
		return
	}
	h.since = 0
	h.text = hudText(stats)
	h.lines = strings.Count(h.text, "\n") + 1
}

// Draw prints the HUD in the top-left corner over a translucent panel.
func (h *HUD) Draw(screen *ebiten.Image) {
	if !h.Visible || h.text == "" {
		return
	}
	// ebitenutil's debug font is 6x16 per glyph.
	w := float32(longestLine(h.text)*6 + 8)
	hgt := float32(h.lines*16 + 4)
	vector.DrawFilledRect(screen, 0, 0, w, hgt, color.NRGBA{0, 0, 0, 128}, false)
	ebitenutil.DebugPrintAt(screen, h.text, 4, 2)
}

func hudText(s hudStats) string {
	st := s.state
	var b strings.Builder
	fmt.Fprintf(&b, "FPS: %.1f  TPS: %.1f\n", s.fps, s.tps)
	fmt.Fprintf(&b, "progress %.3f  page %.2f/%.0f\n", st.Progress, s.page, s.pages)
	fmt.Fprintf(&b, "segment %d  local %.2f  eased %.2f\n", st.Segment, st.Local, st.Factor)
	p := st.Pose.Position
	fmt.Fprintf(&b, "pos (%.2f, %.2f, %.2f)\n", p[0], p[1], p[2])
	fmt.Fprintf(&b, "alpha %.2f  travel %.2f  scale %.2f", st.GlobalAlpha, st.Travel, st.ScaleFactor)
	if s.missing > 0 {
		fmt.Fprintf(&b, "\nmissing %d names", s.missing)
	}
	if s.loading {
		b.WriteString("\nloading model...")
	}
	if s.autoplay {
		b.WriteString("\nautoplay")
	}
	if st.PoseHeld {
		b.WriteString("\npose held")
	}
	return b.String()
}

func longestLine(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		n = max(n, len(line))
	}
	return n
}
