package components

import (
	"unsafe"

	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("ConvexCollider", func() engine.Serializable {
		return NewConvexCollider(nil, nil)
	})
}

// ConvexCollider wraps a convex hull given as engine-frame vertices. Every
// instance owns its setup; hulls with identical data still cook once per
// core.
type ConvexCollider struct {
	Primitive
	Vertices []rl.Vector3
	Indices  []uint32

	setupData *physics.BodySetup
}

func NewConvexCollider(vertices []rl.Vector3, indices []uint32) *ConvexCollider {
	c := &ConvexCollider{Vertices: vertices, Indices: indices}
	c.init(c, c.bodySetup)
	return c
}

// NewConvexColliderFromModel builds a hull from every mesh in a raylib model.
// Model space is Y-up and is converted to the engine frame.
func NewConvexColliderFromModel(model rl.Model) *ConvexCollider {
	return NewConvexCollider(ModelVertices(model), nil)
}

func (c *ConvexCollider) bodySetup() *physics.BodySetup {
	if c.setupData == nil {
		c.setupData = physics.NewConvexSetup(c.Vertices, c.Indices)
	}
	return c.setupData
}

// SetHull replaces the hull and rebuilds a live body.
func (c *ConvexCollider) SetHull(vertices []rl.Vector3, indices []uint32) {
	c.Vertices, c.Indices = vertices, indices
	c.setupData = nil
	c.RecreatePhysicsState()
}

// ModelVertices extracts mesh vertices in the engine frame. Indices are not
// needed because the hull is rebuilt from the point cloud.
func ModelVertices(model rl.Model) []rl.Vector3 {
	if model.MeshCount == 0 || model.Meshes == nil {
		return nil
	}
	var out []rl.Vector3
	meshes := unsafe.Slice(model.Meshes, model.MeshCount)
	for _, mesh := range meshes {
		if mesh.Vertices == nil {
			continue
		}
		vertices := unsafe.Slice(mesh.Vertices, mesh.VertexCount*3)
		for i := int32(0); i < mesh.VertexCount; i++ {
			v := rl.Vector3{X: vertices[i*3+0], Y: vertices[i*3+1], Z: vertices[i*3+2]}
			out = append(out, physics.FromRenderVec(v))
		}
	}
	return out
}

func (c *ConvexCollider) TypeName() string {
	return "ConvexCollider"
}

func (c *ConvexCollider) Serialize() map[string]any {
	verts := make([]any, len(c.Vertices))
	for i, v := range c.Vertices {
		verts[i] = vec3List(v)
	}
	return c.serializeBody(map[string]any{
		"type":     "ConvexCollider",
		"vertices": verts,
	})
}

func (c *ConvexCollider) Deserialize(data map[string]any) {
	if list, ok := data["vertices"].([]any); ok {
		c.Vertices = c.Vertices[:0]
		for i := range list {
			var v rl.Vector3
			readVec3(map[string]any{"v": list[i]}, "v", &v)
			c.Vertices = append(c.Vertices, v)
		}
		c.Indices = nil
		c.setupData = nil
	}
	c.deserializeBody(data)
}
