package components

import (
	"physbridge/internal/engine"
	"physbridge/internal/physics"
)

func init() {
	engine.RegisterComponent("CapsuleCollider", func() engine.Serializable {
		return NewCapsuleCollider(0.5, 0.5)
	})
}

// CapsuleSize is the comparable parameter set of a capsule archetype.
type CapsuleSize struct {
	Radius     float32
	HalfHeight float32
}

var capsuleArchetype = physics.NewArchetype(
	physics.NewCapsuleSetup(0.5, 0.5),
	CapsuleSize{Radius: 0.5, HalfHeight: 0.5},
	func(s *physics.BodySetup, size CapsuleSize) {
		e := &s.AggGeom.SphylElems[0]
		e.Radius = size.Radius
		e.Length = 2 * size.HalfHeight
	},
)

// CapsuleCollider stands along the engine Z axis. HalfHeight is half the
// cylinder length, excluding the caps.
type CapsuleCollider struct {
	Primitive
	Radius     float32
	HalfHeight float32

	own *physics.SetupOwnership[CapsuleSize]
}

func NewCapsuleCollider(radius, halfHeight float32) *CapsuleCollider {
	c := &CapsuleCollider{
		Radius:     radius,
		HalfHeight: halfHeight,
		own:        physics.NewSetupOwnership(capsuleArchetype),
	}
	c.init(c, c.bodySetup)
	return c
}

func (c *CapsuleCollider) size() CapsuleSize {
	return CapsuleSize{Radius: c.Radius, HalfHeight: c.HalfHeight}
}

func (c *CapsuleCollider) bodySetup() *physics.BodySetup {
	c.own.Update(c.size())
	return c.own.Setup()
}

func (c *CapsuleCollider) SetSize(radius, halfHeight float32) {
	c.Radius, c.HalfHeight = radius, halfHeight
	if c.own.Update(c.size()) {
		c.RecreatePhysicsState()
	}
}

func (c *CapsuleCollider) SharesSetup() bool {
	c.own.Update(c.size())
	return c.own.IsShared()
}

func (c *CapsuleCollider) TypeName() string {
	return "CapsuleCollider"
}

func (c *CapsuleCollider) Serialize() map[string]any {
	return c.serializeBody(map[string]any{
		"type":       "CapsuleCollider",
		"radius":     c.Radius,
		"halfHeight": c.HalfHeight,
	})
}

func (c *CapsuleCollider) Deserialize(data map[string]any) {
	readFloat(data, "radius", &c.Radius)
	readFloat(data, "halfHeight", &c.HalfHeight)
	c.deserializeBody(data)
}
