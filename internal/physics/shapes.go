package physics

import (
	"log"

	"physbridge/internal/physics/internal/native"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// capsuleCorrection turns the native capsule (along local X) upright. In the
// native frame the engine's up axis is +Y.
var capsuleCorrection = native.QuatFromAxisAngle(native.V(0, 0, 1), math32.Pi/2)

// CreateNativeShapes builds one native shape per colliding element, scaled by
// the owner's world scale, and attaches them to actor. It returns the number
// of shapes attached; failures are logged and skipped.
func (s *BodySetup) CreateNativeShapes(core *Core, actor native.Actor, mat *Material, scale rl.Vector3) int {
	if !core.IsInitialized() {
		log.Printf("Physics: cannot create shapes, core not initialized")
		return 0
	}
	if actor == nil {
		return 0
	}
	if mat == nil {
		mat = core.DefaultMaterial()
	}

	sx, sy, sz := math32.Abs(scale.X), math32.Abs(scale.Y), math32.Abs(scale.Z)
	maxScale := max(sx, sy, sz)
	g := &s.AggGeom
	attached := 0

	attach := func(geom native.Geometry, elem ShapeElem, center rl.Vector3, rot native.Quat) {
		flags := elem.CollisionEnabled.shapeFlags()
		if flags == 0 {
			return
		}
		shape, err := core.physics.CreateShape(geom, mat.native)
		if err != nil {
			log.Printf("Physics: skipping element %q: %v", elem.Name, err)
			return
		}
		shape.SetName(elem.Name)
		shape.SetFlag(native.ShapeSimulation, flags&native.ShapeSimulation != 0)
		shape.SetFlag(native.ShapeSceneQuery, flags&native.ShapeSceneQuery != 0)
		shape.SetLocalPose(native.NewTransform(ToPhysicsVec(rl.Vector3Multiply(center, scale)), rot))
		if err := actor.AttachShape(shape); err != nil {
			log.Printf("Physics: attach element %q: %v", elem.Name, err)
			return
		}
		attached++
	}

	for _, e := range g.SphereElems {
		attach(native.SphereGeometry{Radius: e.Radius * maxScale}, e.ShapeElem, e.Center, native.IdentityQuat())
	}
	for _, e := range g.BoxElems {
		// Engine extents (X fwd, Y right, Z up) map to native (right, up, back).
		half := native.V(e.Y/2*sy, e.Z/2*sz, e.X/2*sx)
		attach(native.BoxGeometry{HalfExtents: half}, e.ShapeElem, e.Center, ToPhysicsQuat(quatOrIdentity(e.Rotation)))
	}
	for _, e := range g.SphylElems {
		geom := native.CapsuleGeometry{Radius: e.Radius * max(sx, sy), HalfHeight: e.Length / 2 * sz}
		rot := ToPhysicsQuat(quatOrIdentity(e.Rotation)).Mul(capsuleCorrection).Normalize()
		attach(geom, e.ShapeElem, e.Center, rot)
	}
	for i := range g.ConvexElems {
		e := &g.ConvexElems[i]
		if e.CollisionEnabled == NoCollision {
			continue
		}
		m, err := e.mesh(core)
		if err != nil {
			log.Printf("Physics: convex element %q not cooked: %v", e.Name, err)
			continue
		}
		attach(native.ConvexMeshGeometry{Mesh: m, Scale: ToPhysicsScale(scale)}, e.ShapeElem, rl.Vector3{}, native.IdentityQuat())
	}

	if attached == 0 {
		log.Printf("Physics: no shapes created from %d element(s)", g.ElementCount())
	}
	return attached
}
