package components

import (
	"physbridge/internal/engine"
	"physbridge/internal/physics"
)

func init() {
	engine.RegisterComponent("SphereCollider", func() engine.Serializable {
		return NewSphereCollider(0.5)
	})
}

var sphereArchetype = physics.NewArchetype(
	physics.NewSphereSetup(0.5),
	float32(0.5),
	func(s *physics.BodySetup, radius float32) {
		s.AggGeom.SphereElems[0].Radius = radius
	},
)

type SphereCollider struct {
	Primitive
	Radius float32

	own *physics.SetupOwnership[float32]
}

func NewSphereCollider(radius float32) *SphereCollider {
	s := &SphereCollider{Radius: radius, own: physics.NewSetupOwnership(sphereArchetype)}
	s.init(s, s.bodySetup)
	return s
}

func (s *SphereCollider) bodySetup() *physics.BodySetup {
	s.own.Update(s.Radius)
	return s.own.Setup()
}

func (s *SphereCollider) SetRadius(radius float32) {
	s.Radius = radius
	if s.own.Update(radius) {
		s.RecreatePhysicsState()
	}
}

func (s *SphereCollider) SharesSetup() bool {
	s.own.Update(s.Radius)
	return s.own.IsShared()
}

func (s *SphereCollider) TypeName() string {
	return "SphereCollider"
}

func (s *SphereCollider) Serialize() map[string]any {
	return s.serializeBody(map[string]any{
		"type":   "SphereCollider",
		"radius": s.Radius,
	})
}

func (s *SphereCollider) Deserialize(data map[string]any) {
	readFloat(data, "radius", &s.Radius)
	s.deserializeBody(data)
}
