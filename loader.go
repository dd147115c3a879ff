package scrollrig

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

// Errors returned by the glTF loader.
var (
	ErrGLTFVersion    = errors.New("invalid glTF version: must be 2.0")
	ErrGLBMagic       = errors.New("invalid GLB magic number")
	ErrGLBVersion     = errors.New("invalid GLB version: must be 2")
	ErrGLBJSONMissing = errors.New("GLB file missing JSON chunk")
	ErrGLBTruncated   = errors.New("GLB chunk runs past end of file")
	ErrGLTFIndex      = errors.New("glTF index out of range")
)

// LoadGLTF reads a .gltf or .glb file and returns its scene as a Node tree.
// The format is detected from the extension or the GLB magic number.
func LoadGLTF(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	isGLB := strings.EqualFold(filepath.Ext(path), ".glb") ||
		(len(data) >= 4 && binary.LittleEndian.Uint32(data[:4]) == gltfGLBMagic)
	root, err := parseGLTFData(data, isGLB)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if root.Name == "" {
		root.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return root, nil
}

// ParseGLTF decodes a glTF JSON document, or a GLB container when isGLB is
// set, into a Node tree rooted at a group named after the scene.
//
// Nodes keep their names and local transforms. A node with a mesh becomes a
// mesh node with one material slot per primitive and bounds taken from the
// POSITION accessors. Primitives that reference the same material share one
// *Material, and primitives without a material share a default one.
func ParseGLTF(r io.Reader, isGLB bool) (*Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read model: %w", err)
	}
	return parseGLTFData(data, isGLB)
}

func parseGLTFData(data []byte, isGLB bool) (*Node, error) {
	if isGLB {
		var err error
		data, err = glbJSONChunk(data)
		if err != nil {
			return nil, err
		}
	}
	var doc gltfDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse glTF JSON: %w", err)
	}
	if !strings.HasPrefix(doc.Asset.Version, "2.") {
		return nil, ErrGLTFVersion
	}
	b := &gltfBuilder{doc: &doc, visiting: make(map[int]bool)}
	return b.build()
}

// glbJSONChunk extracts the JSON chunk of a GLB container.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html#glb-file-format-specification
func glbJSONChunk(data []byte) ([]byte, error) {
	if len(data) < 12 {
		return nil, errors.New("GLB file too small")
	}
	r := bytes.NewReader(data)

	var header gltfGLBHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("read GLB header: %w", err)
	}
	if header.Magic != gltfGLBMagic {
		return nil, ErrGLBMagic
	}
	if header.Version != gltfGLBVersion {
		return nil, ErrGLBVersion
	}

	for {
		var chunk gltfGLBChunkHeader
		if err := binary.Read(r, binary.LittleEndian, &chunk); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		if chunk.ChunkType != gltfGLBChunkJSON {
			if _, err := r.Seek(int64(chunk.ChunkLength), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("skip chunk: %w", err)
			}
			continue
		}
		if int64(chunk.ChunkLength) > int64(r.Len()) {
			return nil, fmt.Errorf("%w: JSON chunk of %d bytes, %d left", ErrGLBTruncated, chunk.ChunkLength, r.Len())
		}
		out := make([]byte, chunk.ChunkLength)
		if _, err := io.ReadFull(r, out); err != nil {
			return nil, fmt.Errorf("read chunk data: %w", err)
		}
		return out, nil
	}
	return nil, ErrGLBJSONMissing
}

// gltfBuilder turns a decoded document into Nodes.
type gltfBuilder struct {
	doc       *gltfDocument
	materials []*Material
	fallback  *Material
	visiting  map[int]bool
}

func (b *gltfBuilder) build() (*Node, error) {
	b.materials = make([]*Material, len(b.doc.Materials))
	for i, gm := range b.doc.Materials {
		b.materials[i] = convertMaterial(gm, i)
	}

	var roots []int
	name := ""
	switch {
	case len(b.doc.Scenes) > 0:
		idx := 0
		if b.doc.Scene != nil {
			idx = *b.doc.Scene
		}
		if idx < 0 || idx >= len(b.doc.Scenes) {
			return nil, fmt.Errorf("%w: scene %d", ErrGLTFIndex, idx)
		}
		roots = b.doc.Scenes[idx].Nodes
		name = b.doc.Scenes[idx].Name
	default:
		// No scenes: every node that is nobody's child is a root.
		isChild := make([]bool, len(b.doc.Nodes))
		for _, n := range b.doc.Nodes {
			for _, c := range n.Children {
				if c >= 0 && c < len(isChild) {
					isChild[c] = true
				}
			}
		}
		for i := range b.doc.Nodes {
			if !isChild[i] {
				roots = append(roots, i)
			}
		}
	}

	root := NewGroup(name)
	for _, idx := range roots {
		child, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.AddChild(child)
	}
	return root, nil
}

func (b *gltfBuilder) node(idx int) (*Node, error) {
	if idx < 0 || idx >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("%w: node %d", ErrGLTFIndex, idx)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("glTF node %d is its own ancestor", idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	gn := b.doc.Nodes[idx]
	var n *Node
	if gn.Mesh != nil {
		var err error
		if n, err = b.mesh(gn.Name, *gn.Mesh); err != nil {
			return nil, err
		}
	} else {
		n = NewGroup(gn.Name)
	}
	applyGLTFTransform(n, gn)

	for _, c := range gn.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.AddChild(child)
	}
	return n, nil
}

func (b *gltfBuilder) mesh(name string, idx int) (*Node, error) {
	if idx < 0 || idx >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("%w: mesh %d", ErrGLTFIndex, idx)
	}
	gm := b.doc.Meshes[idx]
	if name == "" {
		name = gm.Name
	}
	slots := make([]*Material, len(gm.Primitives))
	var bounds Box
	for i, prim := range gm.Primitives {
		switch {
		case prim.Material == nil:
			slots[i] = b.defaultMaterial()
		case *prim.Material >= 0 && *prim.Material < len(b.materials):
			slots[i] = b.materials[*prim.Material]
		default:
			return nil, fmt.Errorf("%w: material %d", ErrGLTFIndex, *prim.Material)
		}
		if ai, ok := prim.Attributes["POSITION"]; ok {
			if ai < 0 || ai >= len(b.doc.Accessors) {
				return nil, fmt.Errorf("%w: accessor %d", ErrGLTFIndex, ai)
			}
			bounds = bounds.Union(accessorBounds(b.doc.Accessors[ai]))
		}
	}
	n := NewMesh(name, slots...)
	n.Bounds = bounds
	return n, nil
}

func (b *gltfBuilder) defaultMaterial() *Material {
	if b.fallback == nil {
		b.fallback = NewMaterial("default")
	}
	return b.fallback
}

func convertMaterial(gm gltfMaterial, idx int) *Material {
	name := gm.Name
	if name == "" {
		name = fmt.Sprintf("material_%d", idx)
	}
	m := NewMaterial(name)
	if pbr := gm.PbrMetallicRoughness; pbr != nil && pbr.BaseColorFactor != nil {
		c := pbr.BaseColorFactor
		m.Color = Color{c[0], c[1], c[2], c[3]}
		m.Opacity = c[3]
	}
	m.Transparent = gm.AlphaMode == gltfAlphaModeBlend
	return m
}

func accessorBounds(a gltfAccessor) Box {
	if len(a.Min) < 3 || len(a.Max) < 3 {
		return Box{}
	}
	return Box{
		Min: mgl32.Vec3{a.Min[0], a.Min[1], a.Min[2]},
		Max: mgl32.Vec3{a.Max[0], a.Max[1], a.Max[2]},
	}
}

// applyGLTFTransform sets the node's local TRS from either the matrix or the
// separate translation, rotation and scale properties.
func applyGLTFTransform(n *Node, gn gltfNode) {
	if gn.Matrix != nil {
		m := mgl32.Mat4(*gn.Matrix)
		n.Position, n.Rotation, n.Scale = decomposeMatrix(m)
		n.MarkDirty()
		return
	}
	if t := gn.Translation; t != nil {
		n.Position = mgl32.Vec3{t[0], t[1], t[2]}
	}
	if r := gn.Rotation; r != nil {
		q := mgl32.Quat{W: r[3], V: mgl32.Vec3{r[0], r[1], r[2]}}
		if q.Len() > 0 {
			n.Rotation = q.Normalize()
		}
	}
	if s := gn.Scale; s != nil {
		n.Scale = mgl32.Vec3{s[0], s[1], s[2]}
	}
	n.MarkDirty()
}

// decomposeMatrix splits an affine column-major matrix into translation,
// rotation and scale. A negative determinant flips the X scale.
func decomposeMatrix(m mgl32.Mat4) (mgl32.Vec3, mgl32.Quat, mgl32.Vec3) {
	t := m.Col(3).Vec3()
	sx := m.Col(0).Vec3().Len()
	sy := m.Col(1).Vec3().Len()
	sz := m.Col(2).Vec3().Len()
	if m.Det() < 0 {
		sx = -sx
	}
	if sx == 0 || sy == 0 || sz == 0 {
		return t, mgl32.QuatIdent(), mgl32.Vec3{sx, sy, sz}
	}
	var r mgl32.Mat4
	r.SetCol(0, m.Col(0).Mul(1/sx))
	r.SetCol(1, m.Col(1).Mul(1/sy))
	r.SetCol(2, m.Col(2).Mul(1/sz))
	r.SetCol(3, mgl32.Vec4{0, 0, 0, 1})
	return t, mgl32.Mat4ToQuat(r).Normalize(), mgl32.Vec3{sx, sy, sz}
}

// --- Async loading ---

type loadResult struct {
	root *Node
	err  error
}

// AssetRequest is a model load running in the background. The frame loop
// observes it with Poll, which never blocks.
type AssetRequest struct {
	path   string
	result chan loadResult
	done   bool
	root   *Node
	err    error
}

// LoadAsync starts loading path in a background goroutine. Cancelling ctx
// makes the request finish with ctx's error if it has not finished already.
func LoadAsync(ctx context.Context, path string) *AssetRequest {
	req := &AssetRequest{path: path, result: make(chan loadResult, 1)}
	go func() {
		if err := ctx.Err(); err != nil {
			req.result <- loadResult{err: err}
			return
		}
		root, err := LoadGLTF(path)
		if err == nil && ctx.Err() != nil {
			root, err = nil, ctx.Err()
		}
		req.result <- loadResult{root: root, err: err}
	}()
	return req
}

// Path returns the requested file path.
func (a *AssetRequest) Path() string {
	return a.path
}

// Poll reports whether the load has finished and, if so, its result.
// Once it reports done it keeps returning the same result.
func (a *AssetRequest) Poll() (root *Node, done bool, err error) {
	if a.done {
		return a.root, true, a.err
	}
	select {
	case res := <-a.result:
		a.done = true
		a.root, a.err = res.root, res.err
		return a.root, true, a.err
	default:
		return nil, false, nil
	}
}

// Wait blocks until the load finishes or ctx is done. It is meant for
// command-line tools; the frame loop uses Poll.
func (a *AssetRequest) Wait(ctx context.Context) (*Node, error) {
	if a.done {
		return a.root, a.err
	}
	select {
	case res := <-a.result:
		a.done = true
		a.root, a.err = res.root, res.err
		return a.root, a.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
