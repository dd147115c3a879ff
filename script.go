package scrollrig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// scriptStep is a single action in a frame script.
type scriptStep struct {
	Action string  `yaml:"action"`
	Label  string  `yaml:"label,omitempty"`
	To     float32 `yaml:"to,omitempty"`
	Pages  float32 `yaml:"pages,omitempty"`
	Frames int     `yaml:"frames,omitempty"`
}

// frameScript is the top-level structure of a script file.
type frameScript struct {
	Steps []scriptStep `yaml:"steps"`
}

// ScriptRunner sequences scroll moves, waits and screenshots across frames
// for automated previews. JSON scripts decode too.
//
// Actions:
//
//	scroll     damp toward offset "to" and wait until the scroll settles
//	scrollBy   damp by "pages" pages and wait until the scroll settles
//	jump       set the offset to "to" immediately
//	wait       hold for "frames" frames
//	screenshot request a capture labelled "label"
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	settling  bool
	done      bool
}

// ParseScript decodes a frame script.
func ParseScript(data []byte) (*ScriptRunner, error) {
	var script frameScript
	if err := yaml.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "scroll", "scrollBy", "jump", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// LoadScript reads and parses a frame script file.
func LoadScript(path string) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return ParseScript(data)
}

// Done reports whether all steps have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame, driving s. It returns the label of
// a screenshot requested this frame, or "".
func (r *ScriptRunner) Step(s *Scroll) string {
	if r.done {
		return ""
	}
	// Wait for a damped move to finish before advancing.
	if r.settling {
		if !s.Settled() {
			return ""
		}
		r.settling = false
	}
	if r.waitCount > 0 {
		r.waitCount--
		return ""
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return ""
	}

	st := r.steps[r.cursor]
	r.cursor++

	var shot string
	switch st.Action {
	case "screenshot":
		shot = st.Label
	case "scroll":
		s.ScrollTo(st.To)
		r.settling = true
	case "scrollBy":
		s.ScrollBy(st.Pages)
		r.settling = true
	case "jump":
		s.Jump(st.To)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && !r.settling {
		r.done = true
	}
	return shot
}
