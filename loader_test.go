package scrollrig

import (
	"context"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

const gearboxGLTF = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"name": "gearbox", "nodes": [0]}],
  "nodes": [
    {"name": "housing", "children": [1, 2], "translation": [0, 1, 0]},
    {"name": "gear_1", "mesh": 0, "rotation": [0, 0.7071068, 0, 0.7071068]},
    {"name": "gear_2", "mesh": 1, "scale": [2, 2, 2]}
  ],
  "meshes": [
    {"name": "gear_mesh", "primitives": [
      {"attributes": {"POSITION": 0}, "material": 0},
      {"attributes": {"POSITION": 1}}
    ]},
    {"primitives": [{"attributes": {"POSITION": 0}, "material": 0}]}
  ],
  "accessors": [
    {"count": 3, "type": "VEC3", "min": [-1, -1, -1], "max": [1, 1, 1]},
    {"count": 3, "type": "VEC3", "min": [0, 0, 0], "max": [3, 0.5, 0.5]}
  ],
  "materials": [
    {"name": "brass", "alphaMode": "BLEND", "pbrMetallicRoughness": {"baseColorFactor": [1, 0.8, 0.2, 0.5]}}
  ]
}`

func parseString(t *testing.T, src string) *Node {
	t.Helper()
	root, err := ParseGLTF(strings.NewReader(src), false)
	if err != nil {
		t.Fatalf("ParseGLTF: %v", err)
	}
	return root
}

func TestParseGLTFHierarchy(t *testing.T) {
	root := parseString(t, gearboxGLTF)
	if root.Name != "gearbox" {
		t.Errorf("root name = %q, want gearbox", root.Name)
	}
	housing := root.FindByName("housing")
	if housing == nil || housing.NumChildren() != 2 {
		t.Fatal("housing should have two children")
	}
	assertVec(t, "housing", housing.Position, mgl32.Vec3{0, 1, 0})

	g1 := root.FindByName("gear_1")
	if !g1.IsMesh() || len(g1.Materials) != 2 {
		t.Fatalf("gear_1 should be a mesh with two slots, got %+v", g1)
	}
	assertQuat(t, "gear_1 rotation", g1.Rotation, mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 1, 0}))
	assertVec(t, "bounds min", g1.Bounds.Min, mgl32.Vec3{-1, -1, -1})
	assertVec(t, "bounds max", g1.Bounds.Max, mgl32.Vec3{3, 1, 1})

	assertVec(t, "gear_2 scale", root.FindByName("gear_2").Scale, mgl32.Vec3{2, 2, 2})
}

func TestParseGLTFSharedMaterials(t *testing.T) {
	root := parseString(t, gearboxGLTF)
	g1 := root.FindByName("gear_1")
	g2 := root.FindByName("gear_2")
	if g1.Materials[0] != g2.Materials[0] {
		t.Error("primitives with the same material index should share a Material")
	}
	brass := g1.Materials[0]
	if brass.Name != "brass" || !brass.Transparent {
		t.Errorf("brass = %+v", brass)
	}
	assertNear(t, "opacity", brass.Opacity, 0.5)
	if g1.Materials[1] == nil || g1.Materials[1].Name != "default" {
		t.Error("primitive without material should get the default material")
	}
}

func TestParseGLTFMatrix(t *testing.T) {
	m := mgl32.Translate3D(1, 2, 3).
		Mul4(mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1}).Mat4()).
		Mul4(mgl32.Scale3D(2, 3, 4))
	pos, rot, scale := decomposeMatrix(m)
	assertVec(t, "position", pos, mgl32.Vec3{1, 2, 3})
	assertQuat(t, "rotation", rot, mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1}))
	assertVec(t, "scale", scale, mgl32.Vec3{2, 3, 4})
}

func TestParseGLTFNoScenes(t *testing.T) {
	src := `{"asset": {"version": "2.0"}, "nodes": [{"name": "a", "children": [1]}, {"name": "b"}, {"name": "c"}]}`
	root := parseString(t, src)
	if root.NumChildren() != 2 {
		t.Fatalf("root children = %d, want 2 (a and c)", root.NumChildren())
	}
	if root.ChildAt(0).Name != "a" || root.ChildAt(1).Name != "c" {
		t.Error("parentless nodes should become roots in order")
	}
}

func TestParseGLTFErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want error
	}{
		{"version", `{"asset": {"version": "1.0"}}`, ErrGLTFVersion},
		{"node index", `{"asset": {"version": "2.0"}, "scenes": [{"nodes": [4]}]}`, ErrGLTFIndex},
		{"mesh index", `{"asset": {"version": "2.0"}, "scenes": [{"nodes": [0]}], "nodes": [{"mesh": 2}]}`, ErrGLTFIndex},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseGLTF(strings.NewReader(tt.src), false)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	cyclic := `{"asset": {"version": "2.0"}, "scenes": [{"nodes": [0]}], "nodes": [{"children": [1]}, {"children": [0]}]}`
	if _, err := ParseGLTF(strings.NewReader(cyclic), false); err == nil {
		t.Error("cyclic node graph should be rejected")
	}
}

// buildGLB wraps a JSON document in a GLB container with a trailing BIN chunk.
func buildGLB(json string) []byte {
	for len(json)%4 != 0 {
		json += " "
	}
	bin := []byte{0, 0, 0, 0}
	total := 12 + 8 + len(json) + 8 + len(bin)

	var out []byte
	out = binary.LittleEndian.AppendUint32(out, gltfGLBMagic)
	out = binary.LittleEndian.AppendUint32(out, gltfGLBVersion)
	out = binary.LittleEndian.AppendUint32(out, uint32(total))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(json)))
	out = binary.LittleEndian.AppendUint32(out, gltfGLBChunkJSON)
	out = append(out, json...)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(bin)))
	out = binary.LittleEndian.AppendUint32(out, gltfGLBChunkBIN)
	out = append(out, bin...)
	return out
}

func TestParseGLB(t *testing.T) {
	data := buildGLB(gearboxGLTF)
	root, err := ParseGLTF(strings.NewReader(string(data)), true)
	if err != nil {
		t.Fatalf("ParseGLTF(glb): %v", err)
	}
	if root.FindByName("gear_2") == nil {
		t.Error("gear_2 should be present")
	}

	bad := append([]byte(nil), data...)
	bad[0] = 'x'
	if _, err := ParseGLTF(strings.NewReader(string(bad)), true); !errors.Is(err, ErrGLBMagic) {
		t.Errorf("err = %v, want ErrGLBMagic", err)
	}
}

func TestParseGLBTruncatedChunk(t *testing.T) {
	data := buildGLB(gearboxGLTF)
	// Claim a JSON chunk far larger than the file.
	binary.LittleEndian.PutUint32(data[12:], 0xFFFFFFF0)
	_, err := ParseGLTF(strings.NewReader(string(data)), true)
	if !errors.Is(err, ErrGLBTruncated) {
		t.Errorf("err = %v, want ErrGLBTruncated", err)
	}
}

func TestLoadGLTFDetectsGLBAndNamesRoot(t *testing.T) {
	dir := t.TempDir()
	// Misnamed extension: the magic number decides.
	path := filepath.Join(dir, "widget.bin")
	src := `{"asset": {"version": "2.0"}, "nodes": [{"name": "part"}]}`
	if err := os.WriteFile(path, buildGLB(src), 0o644); err != nil {
		t.Fatal(err)
	}
	root, err := LoadGLTF(path)
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if root.Name != "widget" {
		t.Errorf("root name = %q, want widget", root.Name)
	}
}

func TestLoadAsyncPoll(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gearbox.gltf")
	if err := os.WriteFile(path, []byte(gearboxGLTF), 0o644); err != nil {
		t.Fatal(err)
	}
	req := LoadAsync(context.Background(), path)
	if req.Path() != path {
		t.Errorf("Path = %q", req.Path())
	}

	deadline := time.Now().Add(5 * time.Second)
	var root *Node
	for {
		r, done, err := req.Poll()
		if done {
			if err != nil {
				t.Fatalf("load failed: %v", err)
			}
			root = r
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("load did not finish")
		}
		time.Sleep(time.Millisecond)
	}
	again, done, _ := req.Poll()
	if !done || again != root {
		t.Error("Poll should keep returning the same result")
	}

	// A late-arriving model is picked up by a rig that started empty.
	s := NewScene()
	r := s.NewRig(MustTimeline(TimelineSpec{
		Cuts:          []float32{0, 1},
		Poses:         make([]PosePair, 1),
		Global:        scenarioBand,
		GlobalTargets: []string{"gear_1"},
	}))
	s.Update(0.4)
	if r.Resolver().NumResolved() != 0 {
		t.Fatal("nothing should resolve before the model arrives")
	}
	s.Attach(root)
	s.Update(0.4)
	assertNear(t, "dimmed", root.FindByName("gear_1").Materials[0].Opacity, 0.5*0.2)
}

func TestLoadAsyncCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadAsync(ctx, "does-not-matter.glb").Wait(context.Background())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestLoadAsyncMissingFile(t *testing.T) {
	_, err := LoadAsync(context.Background(), filepath.Join(t.TempDir(), "nope.glb")).Wait(context.Background())
	if err == nil {
		t.Error("missing file should fail")
	}
}
