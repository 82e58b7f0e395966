package native

import (
	"fmt"
	"log"
	"sync/atomic"
)

// ActorID identifies an actor for the lifetime of its Physics.
type ActorID uint64

// Tolerances describe the scale the SDK is tuned for.
type Tolerances struct {
	Length float32 // typical object size, meters
	Speed  float32 // typical object speed, m/s
}

func DefaultTolerances() Tolerances {
	return Tolerances{Length: 1, Speed: 10}
}

// Physics is the factory for every other native object.
type Physics struct {
	tolerances Tolerances
	nextActor  atomic.Uint64
	nextShape  atomic.Uint64
	released   atomic.Bool
	scenes     atomic.Int32
}

// CreatePhysics initialises the SDK.
func CreatePhysics(tol Tolerances) (*Physics, error) {
	if tol.Length <= 0 || tol.Speed <= 0 {
		return nil, fmt.Errorf("native: create physics: invalid tolerances %+v", tol)
	}
	return &Physics{tolerances: tol}, nil
}

func (p *Physics) Tolerances() Tolerances { return p.tolerances }

// Release invalidates the factory. Objects it created stay usable but no new
// objects can be made.
func (p *Physics) Release() {
	if p.released.Swap(true) {
		return
	}
	if n := p.scenes.Load(); n > 0 {
		log.Printf("Physics: released with %d live scene(s)", n)
	}
}

func (p *Physics) IsReleased() bool { return p == nil || p.released.Load() }

// Material holds surface response parameters.
type Material struct {
	StaticFriction  float32
	DynamicFriction float32
	Restitution     float32
}

func (p *Physics) CreateMaterial(static, dynamic, restitution float32) *Material {
	if p.IsReleased() {
		return nil
	}
	return &Material{
		StaticFriction:  max(static, 0),
		DynamicFriction: max(dynamic, 0),
		Restitution:     min(max(restitution, 0), 1),
	}
}

// CreateRigidDynamic creates a simulated body at pose. Returns nil if the
// factory was released or the pose is invalid.
func (p *Physics) CreateRigidDynamic(pose Transform) *RigidDynamic {
	if p.IsReleased() || !pose.IsValid() {
		return nil
	}
	d := &RigidDynamic{
		mass:           1,
		invMass:        1,
		inertia:        V(1, 1, 1),
		invInertia:     V(1, 1, 1),
		linearDamping:  0,
		angularDamping: 0.05,
	}
	d.rigidActor = rigidActor{id: ActorID(p.nextActor.Add(1)), pose: pose, self: d}
	return d
}

// CreateRigidStatic creates an immovable body at pose.
func (p *Physics) CreateRigidStatic(pose Transform) *RigidStatic {
	if p.IsReleased() || !pose.IsValid() {
		return nil
	}
	s := &RigidStatic{}
	s.rigidActor = rigidActor{id: ActorID(p.nextActor.Add(1)), pose: pose, self: s}
	return s
}

// CreateShape builds a shape from geometry. The shape starts as a
// simulation shape with an identity local pose.
func (p *Physics) CreateShape(geom Geometry, mat *Material) (*Shape, error) {
	if p.IsReleased() {
		return nil, ErrNotInitialized
	}
	if geom == nil || !geom.IsValid() {
		return nil, fmt.Errorf("native: create shape: %w", ErrInvalidGeometry)
	}
	if mat == nil {
		return nil, fmt.Errorf("native: create shape: nil material")
	}
	return &Shape{
		id:        p.nextShape.Add(1),
		geometry:  geom,
		material:  mat,
		localPose: IdentityTransform(),
		flags:     ShapeSimulation | ShapeSceneQuery,
	}, nil
}
