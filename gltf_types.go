// gltf_types.go contains the subset of the glTF 2.0 JSON schema the loader
// reads: the node hierarchy, mesh primitives, accessor bounds and material
// color and alpha. Buffers are never decoded.
// Reference: https://registry.khronos.org/glTF/specs/2.0/glTF-2.0.html

package scrollrig

// --- glTF Root Structure ---

// gltfDocument represents the root of a glTF JSON document.
type gltfDocument struct {
	Asset     gltfAsset      `json:"asset"`
	Scene     *int           `json:"scene,omitempty"`
	Scenes    []gltfScene    `json:"scenes,omitempty"`
	Nodes     []gltfNode     `json:"nodes,omitempty"`
	Meshes    []gltfMesh     `json:"meshes,omitempty"`
	Accessors []gltfAccessor `json:"accessors,omitempty"`
	Materials []gltfMaterial `json:"materials,omitempty"`
}

// gltfAsset contains metadata about the glTF asset.
type gltfAsset struct {
	// Version is the glTF version (required, must be "2.0").
	Version   string `json:"version"`
	Generator string `json:"generator,omitempty"`
}

// --- Scene Graph ---

// gltfScene is a set of root nodes.
type gltfScene struct {
	Name  string `json:"name,omitempty"`
	Nodes []int  `json:"nodes,omitempty"`
}

// gltfNode is a node in the node hierarchy. Either Matrix or any of
// Translation, Rotation and Scale may be set.
type gltfNode struct {
	Name     string `json:"name,omitempty"`
	Children []int  `json:"children,omitempty"`
	Mesh     *int   `json:"mesh,omitempty"`

	// Matrix is a 4x4 transformation matrix (column-major).
	Matrix *[16]float32 `json:"matrix,omitempty"`

	Translation *[3]float32 `json:"translation,omitempty"`
	// Rotation is a unit quaternion (x, y, z, w).
	Rotation *[4]float32 `json:"rotation,omitempty"`
	Scale    *[3]float32 `json:"scale,omitempty"`
}

// --- Mesh Data ---

// gltfMesh is a set of primitives to be rendered.
type gltfMesh struct {
	Name       string          `json:"name,omitempty"`
	Primitives []gltfPrimitive `json:"primitives"`
}

// gltfPrimitive is one draw of a mesh. Each primitive becomes a material slot.
type gltfPrimitive struct {
	// Attributes maps semantic (POSITION, NORMAL, ...) to accessor index.
	Attributes map[string]int `json:"attributes"`
	Material   *int           `json:"material,omitempty"`
}

// gltfAccessor is read only for its min/max, which glTF requires on
// POSITION accessors.
type gltfAccessor struct {
	Count int       `json:"count"`
	Type  string    `json:"type"`
	Max   []float32 `json:"max,omitempty"`
	Min   []float32 `json:"min,omitempty"`
}

// --- Materials ---

// gltfMaterial defines the appearance of a primitive.
type gltfMaterial struct {
	Name                 string                    `json:"name,omitempty"`
	PbrMetallicRoughness *gltfPbrMetallicRoughness `json:"pbrMetallicRoughness,omitempty"`

	// AlphaMode is "OPAQUE" (default), "MASK" or "BLEND".
	AlphaMode string `json:"alphaMode,omitempty"`
}

// gltfPbrMetallicRoughness is the metallic-roughness material model.
type gltfPbrMetallicRoughness struct {
	// BaseColorFactor is the base color (RGBA). Alpha becomes opacity.
	BaseColorFactor *[4]float32 `json:"baseColorFactor,omitempty"`
}

const gltfAlphaModeBlend = "BLEND"

// --- GLB Container ---

// gltfGLBHeader is the 12-byte header of a GLB file.
type gltfGLBHeader struct {
	Magic   uint32
	Version uint32
	Length  uint32
}

// gltfGLBChunkHeader precedes each GLB chunk.
type gltfGLBChunkHeader struct {
	ChunkLength uint32
	ChunkType   uint32
}

const (
	gltfGLBMagic     = 0x46546C67 // "glTF"
	gltfGLBVersion   = 2
	gltfGLBChunkJSON = 0x4E4F534A // "JSON"
	gltfGLBChunkBIN  = 0x004E4942 // "BIN\0"
)
