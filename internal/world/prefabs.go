package world

import (
	"physbridge/internal/components"
	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// NewGround is a static slab whose top face sits at Z = 0.
func NewGround(size float32) *engine.GameObject {
	g := engine.NewGameObject("Ground")
	g.Transform.Position = rl.Vector3{Z: -0.5}
	g.AddComponent(components.NewBoxCollider(rl.Vector3{X: size, Y: size, Z: 1}))
	g.AddComponent(components.NewShapeRenderer(rl.LightGray))
	return g
}

// NewDynamicBox is a simulated box of the given full extent.
func NewDynamicBox(name string, pos, size rl.Vector3, color rl.Color) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	g.AddComponent(components.NewBoxCollider(size))
	g.AddComponent(components.NewRigidbody())
	g.AddComponent(components.NewShapeRenderer(color))
	return g
}

func NewDynamicSphere(name string, pos rl.Vector3, radius float32, color rl.Color) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	g.AddComponent(components.NewSphereCollider(radius))
	g.AddComponent(components.NewRigidbody())
	g.AddComponent(components.NewShapeRenderer(color))
	return g
}

func NewDynamicCapsule(name string, pos rl.Vector3, radius, halfHeight float32, color rl.Color) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	g.AddComponent(components.NewCapsuleCollider(radius, halfHeight))
	g.AddComponent(components.NewRigidbody())
	g.AddComponent(components.NewShapeRenderer(color))
	return g
}

// NewTriggerZone is a static trigger box. Dynamic bodies entering it raise
// native trigger events; kinematic and static colliders are polled.
func NewTriggerZone(name string, pos, size rl.Vector3) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = pos
	box := components.NewBoxCollider(size)
	box.Body.IsTrigger = true
	g.AddComponent(box)
	r := components.NewShapeRenderer(rl.Fade(rl.SkyBlue, 0.4))
	r.Wireframe = true
	g.AddComponent(r)
	return g
}

// NewSweeper is a kinematic box driven around a circle by a Mover. Its body
// follows the object, so it pushes simulated bodies out of its path.
func NewSweeper(name string, center rl.Vector3, radius float32) *engine.GameObject {
	g := engine.NewGameObject(name)
	g.Transform.Position = center
	box := components.NewBoxCollider(rl.Vector3{X: 4, Y: 0.5, Z: 1})
	box.BlockHits = true
	g.AddComponent(box)
	g.AddComponent(components.NewMover(radius, 0.8, 30))
	g.AddComponent(components.NewShapeRenderer(rl.DarkGray))
	return g
}
