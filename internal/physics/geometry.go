package physics

import (
	"physbridge/internal/collision"
	"physbridge/internal/engine"
	"physbridge/internal/physics/internal/native"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// CollisionEnabled selects which systems see an element.
type CollisionEnabled uint8

const (
	QueryAndPhysics CollisionEnabled = iota
	NoCollision
	QueryOnly
	PhysicsOnly
)

func (c CollisionEnabled) String() string {
	switch c {
	case QueryAndPhysics:
		return "QueryAndPhysics"
	case NoCollision:
		return "NoCollision"
	case QueryOnly:
		return "QueryOnly"
	case PhysicsOnly:
		return "PhysicsOnly"
	}
	return "Unknown"
}

func (c CollisionEnabled) shapeFlags() native.ShapeFlags {
	switch c {
	case QueryOnly:
		return native.ShapeSceneQuery
	case PhysicsOnly:
		return native.ShapeSimulation
	case NoCollision:
		return 0
	}
	return native.ShapeSimulation | native.ShapeSceneQuery
}

// ShapeElem is the data shared by every element kind.
type ShapeElem struct {
	Name             string
	CollisionEnabled CollisionEnabled
}

// SphereElem is a sphere in the body's local space.
type SphereElem struct {
	ShapeElem
	Center rl.Vector3
	Radius float32
}

// BoxElem is a box with full edge lengths X, Y, Z.
type BoxElem struct {
	ShapeElem
	Center   rl.Vector3
	Rotation rl.Quaternion
	X, Y, Z  float32
}

// SphylElem is a capsule standing along local Z. Length is the length of the
// cylindrical section, not counting the caps.
type SphylElem struct {
	ShapeElem
	Center   rl.Vector3
	Rotation rl.Quaternion
	Radius   float32
	Length   float32
}

// ConvexElem is a convex hull over a local vertex cloud. The cooked native
// mesh is cached on the element after first use.
type ConvexElem struct {
	ShapeElem
	Vertices []rl.Vector3
	Indices  []uint32

	cooked   *native.ConvexMesh
	cookedBy *Core
}

func (e *ConvexElem) mesh(core *Core) (*native.ConvexMesh, error) {
	if e.cooked != nil && e.cookedBy == core && core.IsInitialized() {
		return e.cooked, nil
	}
	if len(e.Vertices) == 0 {
		return nil, native.ErrEmptyVertexData
	}
	verts := make([]native.Vec3, len(e.Vertices))
	for i, v := range e.Vertices {
		verts[i] = ToPhysicsVec(v)
	}
	m, err := core.cookConvex(verts, e.Indices)
	if err != nil {
		return nil, err
	}
	e.cooked, e.cookedBy = m, core
	return m, nil
}

// IsCooked reports whether a native mesh is cached on the element.
func (e *ConvexElem) IsCooked() bool { return e.cooked != nil }

func (e *ConvexElem) localBounds() collision.AABB {
	b := collision.EmptyAABB()
	for _, v := range e.Vertices {
		b = b.ExtendPoint(v)
	}
	return b
}

// AggregateGeom is a set of primitive elements making up one body.
type AggregateGeom struct {
	SphereElems []SphereElem
	BoxElems    []BoxElem
	SphylElems  []SphylElem
	ConvexElems []ConvexElem
}

func (g *AggregateGeom) ElementCount() int {
	return len(g.SphereElems) + len(g.BoxElems) + len(g.SphylElems) + len(g.ConvexElems)
}

func (g *AggregateGeom) Empty() bool { return g.ElementCount() == 0 }

// CollisionShapes returns world-space primitives for every colliding element
// under t, in the engine frame.
func (g *AggregateGeom) CollisionShapes(t engine.Transform) []collision.Shape {
	rot := t.GetQuaternion()
	sx, sy, sz := math32.Abs(t.Scale.X), math32.Abs(t.Scale.Y), math32.Abs(t.Scale.Z)
	maxScale := max(sx, sy, sz)

	shapes := make([]collision.Shape, 0, g.ElementCount())
	for _, e := range g.SphereElems {
		if e.CollisionEnabled == NoCollision {
			continue
		}
		shapes = append(shapes, collision.Sphere{Center: t.TransformPoint(e.Center), Radius: e.Radius * maxScale})
	}
	for _, e := range g.BoxElems {
		if e.CollisionEnabled == NoCollision {
			continue
		}
		half := rl.Vector3{X: e.X / 2 * sx, Y: e.Y / 2 * sy, Z: e.Z / 2 * sz}
		shapes = append(shapes, collision.NewOBB(t.TransformPoint(e.Center), half, rl.QuaternionMultiply(rot, quatOrIdentity(e.Rotation))))
	}
	for _, e := range g.SphylElems {
		if e.CollisionEnabled == NoCollision {
			continue
		}
		axis := rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, rl.QuaternionMultiply(rot, quatOrIdentity(e.Rotation)))
		shapes = append(shapes, collision.NewCapsule(t.TransformPoint(e.Center), axis, e.Length/2*sz, e.Radius*max(sx, sy)))
	}
	for i := range g.ConvexElems {
		e := &g.ConvexElems[i]
		if e.CollisionEnabled == NoCollision || len(e.Vertices) == 0 {
			continue
		}
		b := e.localBounds()
		half := rl.Vector3Multiply(rl.Vector3Scale(b.Size(), 0.5), rl.Vector3{X: sx, Y: sy, Z: sz})
		shapes = append(shapes, collision.NewOBB(t.TransformPoint(b.Center()), half, rot))
	}
	return shapes
}

// CalcAABB bounds every colliding element under t.
func (g *AggregateGeom) CalcAABB(t engine.Transform) collision.AABB {
	box := collision.EmptyAABB()
	for _, s := range g.CollisionShapes(t) {
		box = box.Union(s.Bounds())
	}
	return box
}

func quatOrIdentity(q rl.Quaternion) rl.Quaternion {
	if q.X == 0 && q.Y == 0 && q.Z == 0 && q.W == 0 {
		return rl.QuaternionIdentity()
	}
	return q
}

// BodySetup is the collision geometry a BodyInstance is built from. One
// setup may be shared by many bodies.
type BodySetup struct {
	AggGeom AggregateGeom
}

// NewBoxSetup builds a single box with full extents.
func NewBoxSetup(extent rl.Vector3) *BodySetup {
	return &BodySetup{AggGeom: AggregateGeom{
		BoxElems: []BoxElem{{Rotation: rl.QuaternionIdentity(), X: extent.X, Y: extent.Y, Z: extent.Z}},
	}}
}

func NewSphereSetup(radius float32) *BodySetup {
	return &BodySetup{AggGeom: AggregateGeom{
		SphereElems: []SphereElem{{Radius: radius}},
	}}
}

// NewCapsuleSetup builds an upright capsule. halfHeight excludes the caps.
func NewCapsuleSetup(radius, halfHeight float32) *BodySetup {
	return &BodySetup{AggGeom: AggregateGeom{
		SphylElems: []SphylElem{{Rotation: rl.QuaternionIdentity(), Radius: radius, Length: 2 * halfHeight}},
	}}
}

func NewConvexSetup(vertices []rl.Vector3, indices []uint32) *BodySetup {
	return &BodySetup{AggGeom: AggregateGeom{
		ConvexElems: []ConvexElem{{
			Vertices: append([]rl.Vector3(nil), vertices...),
			Indices:  append([]uint32(nil), indices...),
		}},
	}}
}
