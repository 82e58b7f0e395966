package components

import (
	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Camera", func() engine.Serializable {
		return NewCamera()
	})
}

// Camera looks along its GameObject's forward axis, with the engine up axis
// as camera up.
type Camera struct {
	engine.BaseComponent
	FOV        float32
	Projection rl.CameraProjection
	IsMain     bool // If true, this is the active game camera
}

func NewCamera() *Camera {
	return &Camera{
		FOV:        45.0,
		Projection: rl.CameraPerspective,
	}
}

// TypeName implements engine.Serializable
func (c *Camera) TypeName() string {
	return "Camera"
}

// Serialize implements engine.Serializable
func (c *Camera) Serialize() map[string]any {
	return map[string]any{
		"type":   "Camera",
		"fov":    c.FOV,
		"isMain": c.IsMain,
	}
}

// Deserialize implements engine.Serializable
func (c *Camera) Deserialize(data map[string]any) {
	readFloat(data, "fov", &c.FOV)
	readBool(data, "isMain", &c.IsMain)
}

// LookAt rotates the GameObject so its forward axis points at target.
func (c *Camera) LookAt(target rl.Vector3) {
	g := c.GetGameObject()
	if g == nil {
		return
	}
	pos := g.WorldPosition()
	dir := rl.Vector3Normalize(rl.Vector3Subtract(target, pos))
	if rl.Vector3Length(dir) == 0 {
		return
	}
	t := g.WorldTransform()
	t.Rotation = rl.QuaternionFromVector3ToVector3(rl.Vector3{X: 1}, dir)
	g.SetWorldTransform(t)
}

// GetRaylibCamera converts the engine-frame view into raylib's Y-up space.
func (c *Camera) GetRaylibCamera() rl.Camera3D {
	g := c.GetGameObject()
	if g == nil {
		return rl.Camera3D{}
	}
	t := g.WorldTransform()
	eye := physics.ToRenderVec(t.Position)
	return rl.Camera3D{
		Position:   eye,
		Target:     rl.Vector3Add(eye, physics.ToRenderVec(t.Forward())),
		Up:         physics.ToRenderVec(rl.Vector3{Z: 1}),
		Fovy:       c.FOV,
		Projection: c.Projection,
	}
}
