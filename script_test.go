package scrollrig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleScript = `
steps:
  - action: jump
    to: 0.5
  - action: screenshot
    label: middle
  - action: wait
    frames: 3
  - action: scroll
    to: 1
  - action: screenshot
    label: end
`

func TestParseScriptErrors(t *testing.T) {
	tests := []struct {
		name, src, want string
	}{
		{"empty", "steps: []", "no steps"},
		{"unknown", "steps: [{action: teleport}]", "unknown action"},
		{"yaml", "steps: [", "parse script"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScript([]byte(tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestParseScriptJSON(t *testing.T) {
	r, err := ParseScript([]byte(`{"steps": [{"action": "screenshot", "label": "x"}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if got := r.Step(NewScroll(1, 60, 0, 0)); got != "x" {
		t.Errorf("label = %q, want x", got)
	}
	if !r.Done() {
		t.Error("single-step script should be done")
	}
}

func TestScriptRunnerFlow(t *testing.T) {
	r, err := ParseScript([]byte(sampleScript))
	if err != nil {
		t.Fatal(err)
	}
	s := NewScroll(DefaultPages, 60, 0, 0)

	type shot struct {
		label  string
		frame  int
		offset float32
	}
	var shots []shot
	frame := 0
	for !r.Done() {
		frame++
		if frame > 2000 {
			t.Fatal("script did not finish")
		}
		if label := r.Step(s); label != "" {
			shots = append(shots, shot{label, frame, s.Offset()})
		}
		s.Update()
	}

	if len(shots) != 2 {
		t.Fatalf("shots = %+v, want 2", shots)
	}
	if shots[0].label != "middle" || shots[0].frame != 2 || shots[0].offset != 0.5 {
		t.Errorf("first shot = %+v", shots[0])
	}
	if shots[1].label != "end" || shots[1].offset != 1 {
		t.Errorf("second shot = %+v, want end at offset 1", shots[1])
	}
	// wait 3 covers frames 3-5, scroll starts on frame 6 and takes time to settle.
	if shots[1].frame <= 7 {
		t.Errorf("end shot at frame %d should wait for the scroll to settle", shots[1].frame)
	}
}

func TestLoadScript(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tour.yaml")
	if err := os.WriteFile(path, []byte(sampleScript), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadScript(path); err != nil {
		t.Fatalf("LoadScript: %v", err)
	}
	if _, err := LoadScript(filepath.Join(t.TempDir(), "none.yaml")); err == nil {
		t.Error("missing file should fail")
	}
}
