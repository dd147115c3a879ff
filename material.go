package scrollrig

// materialIDCounter is a plain counter, like nodeIDCounter.
var materialIDCounter uint32

func nextMaterialID() uint32 {
	materialIDCounter++
	return materialIDCounter
}

// Material holds the surface state the rig mutates. A single Material may be
// referenced by many meshes; the loader shares them the way glTF material
// indices are shared.
type Material struct {
	ID          uint32
	Name        string
	Color       Color
	Opacity     float32
	Transparent bool
}

// NewMaterial creates an opaque white material.
func NewMaterial(name string) *Material {
	return &Material{
		ID:      nextMaterialID(),
		Name:    name,
		Color:   ColorWhite,
		Opacity: 1,
	}
}

// Clone returns an independent copy of m with a fresh ID.
func (m *Material) Clone() *Material {
	c := *m
	c.ID = nextMaterialID()
	return &c
}
