package native

import (
	"physbridge/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type ShapeFlags uint8

const (
	ShapeSimulation ShapeFlags = 1 << iota
	ShapeSceneQuery
	ShapeTrigger
)

// Shape attaches geometry and a material to at most one actor.
type Shape struct {
	id        uint64
	geometry  Geometry
	material  *Material
	localPose Transform
	flags     ShapeFlags
	actor     Actor
	name      string
}

func (s *Shape) ID() uint64               { return s.id }
func (s *Shape) Geometry() Geometry       { return s.geometry }
func (s *Shape) Material() *Material      { return s.material }
func (s *Shape) LocalPose() Transform     { return s.localPose }
func (s *Shape) Flags() ShapeFlags        { return s.flags }
func (s *Shape) Actor() Actor             { return s.actor }
func (s *Shape) Name() string             { return s.name }
func (s *Shape) SetName(name string)      { s.name = name }
func (s *Shape) IsTrigger() bool          { return s.flags&ShapeTrigger != 0 }
func (s *Shape) SetLocalPose(t Transform) { s.localPose = t }

// SetFlag toggles a flag. Trigger and simulation are exclusive: enabling one
// clears the other.
func (s *Shape) SetFlag(f ShapeFlags, on bool) {
	if !on {
		s.flags &^= f
		return
	}
	switch f {
	case ShapeTrigger:
		s.flags &^= ShapeSimulation
	case ShapeSimulation:
		s.flags &^= ShapeTrigger
	}
	s.flags |= f
}

// WorldPose is the shape pose in the scene frame.
func (s *Shape) WorldPose() Transform {
	if s.actor == nil {
		return s.localPose
	}
	return s.actor.GlobalPose().Mul(s.localPose)
}

// primitive returns the world-space collision primitive.
func (s *Shape) primitive() collision.Shape {
	pose := s.WorldPose()
	center := rl.Vector3(pose.P)
	rot := rl.Quaternion(pose.Q)
	switch g := s.geometry.(type) {
	case BoxGeometry:
		return collision.NewOBB(center, rl.Vector3(g.HalfExtents), rot)
	case SphereGeometry:
		return collision.Sphere{Center: center, Radius: g.Radius}
	case CapsuleGeometry:
		axis := pose.Q.Rotate(V(1, 0, 0))
		return collision.NewCapsule(center, rl.Vector3(axis), g.HalfHeight, g.Radius)
	case ConvexMeshGeometry:
		c, half := g.LocalBounds()
		return collision.NewOBB(rl.Vector3(pose.Apply(c)), rl.Vector3(half), rot)
	}
	return nil
}
