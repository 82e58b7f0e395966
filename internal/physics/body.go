package physics

import (
	"log"

	"physbridge/internal/engine"
	"physbridge/internal/physics/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/jinzhu/copier"
)

// Owner is the component a BodyInstance belongs to.
type Owner = engine.PrimitiveComponent

// SceneState tracks a body's membership in a native scene.
type SceneState uint8

const (
	NotAdded SceneState = iota
	AwaitingAdd
	Added
	AwaitingRemove
	Removed
)

func (s SceneState) String() string {
	switch s {
	case NotAdded:
		return "NotAdded"
	case AwaitingAdd:
		return "AwaitingAdd"
	case Added:
		return "Added"
	case AwaitingRemove:
		return "AwaitingRemove"
	case Removed:
		return "Removed"
	}
	return "Unknown"
}

// BodyInstance bridges one component to at most one native actor. Exported
// fields are the physics parameters and are read by InitBody.
type BodyInstance struct {
	SimulatePhysics bool
	EnableGravity   bool
	IsTrigger       bool
	// MassInKg overrides density-based mass when positive.
	MassInKg       float32
	LinearDamping  float32
	AngularDamping float32
	// Material overrides the scene default when set.
	Material *Material

	state SceneState
	actor native.Actor
	// trigger is whether the live shapes were built as triggers.
	trigger bool
	owner   Owner
	scene   *Scene

	// scale is the owner's world scale at InitBody; native poses carry none.
	scale    rl.Vector3
	prevPose engine.Transform
	currPose engine.Transform
}

func NewBodyInstance() *BodyInstance {
	return &BodyInstance{
		EnableGravity:  true,
		LinearDamping:  0.01,
		AngularDamping: 0.05,
		scale:          rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

func (b *BodyInstance) State() SceneState { return b.state }

// IsInitialized reports whether a native actor exists.
func (b *BodyInstance) IsInitialized() bool { return b.actor != nil }

func (b *BodyInstance) IsInScene() bool { return b.state == Added }
func (b *BodyInstance) Owner() Owner    { return b.owner }
func (b *BodyInstance) Scene() *Scene   { return b.scene }

// InitBody creates the native actor from setup at t and adds it to scene.
// On failure the body is left NotAdded with nothing allocated.
func (b *BodyInstance) InitBody(setup *BodySetup, t engine.Transform, owner Owner, scene *Scene) bool {
	if b.actor != nil {
		b.TermBody()
	}
	b.state = AwaitingAdd

	fail := func(format string, args ...any) bool {
		log.Printf("BodyInstance: init failed: "+format, args...)
		b.state = NotAdded
		return false
	}
	switch {
	case setup == nil:
		return fail("no body setup")
	case owner == nil:
		return fail("no owner")
	case scene == nil:
		return fail("no scene")
	case !scene.IsInitialized():
		return fail("scene not initialized")
	}

	core := scene.core
	pose := ToPhysicsPose(t)
	var actor native.Actor
	if b.SimulatePhysics {
		if d := core.physics.CreateRigidDynamic(pose); d != nil {
			actor = d
		}
	} else {
		if s := core.physics.CreateRigidStatic(pose); s != nil {
			actor = s
		}
	}
	if actor == nil {
		return fail("native actor creation failed for pose %+v", t)
	}

	mat := b.Material
	if mat == nil {
		mat = scene.DefaultMaterial()
	}
	// Zero shapes is allowed; the actor simply never collides.
	setup.CreateNativeShapes(core, actor, mat, t.Scale)
	if b.IsTrigger {
		for _, s := range actor.Shapes() {
			if s.Flags()&native.ShapeSimulation != 0 {
				s.SetFlag(native.ShapeTrigger, true)
			}
		}
	}

	if d, ok := actor.(*native.RigidDynamic); ok {
		d.SetGravityDisabled(!b.EnableGravity)
		d.SetLinearDamping(ToPhysicsScalar(b.LinearDamping))
		d.SetAngularDamping(ToPhysicsScalar(b.AngularDamping))
		b.applyMass(d, core.DefaultDensity())
	}

	if err := scene.addBody(b, actor); err != nil {
		actor.Release()
		return fail("%v", err)
	}

	b.actor = actor
	b.trigger = b.IsTrigger
	b.owner = owner
	b.scene = scene
	b.scale = t.Scale
	b.prevPose = t
	b.currPose = t
	b.state = Added
	return true
}

func (b *BodyInstance) applyMass(d *native.RigidDynamic, density float32) {
	if b.MassInKg > 0 {
		d.SetMassAndUpdateInertia(ToPhysicsScalar(b.MassInKg))
		return
	}
	if !d.UpdateMassAndInertia(density) {
		log.Printf("BodyInstance: no shape contributes mass, using 1 kg")
	}
}

// TermBody removes and releases the native actor. Safe to call repeatedly.
func (b *BodyInstance) TermBody() {
	if b.actor == nil {
		return
	}
	b.state = AwaitingRemove
	if b.scene != nil && b.scene.IsInitialized() {
		b.scene.removeBody(b)
	}
	b.actor.Release()
	b.actor = nil
	b.trigger = false
	b.owner = nil
	b.scene = nil
	b.state = Removed
}

func (b *BodyInstance) dynamic() *native.RigidDynamic {
	d, _ := b.actor.(*native.RigidDynamic)
	return d
}

// GetWorldTransform returns the native pose in the engine frame, carrying
// the scale captured at init.
func (b *BodyInstance) GetWorldTransform() engine.Transform {
	if b.actor == nil {
		return engine.IdentityTransform()
	}
	t := ToEnginePose(b.actor.GlobalPose())
	t.Scale = b.scale
	return t
}

// SetWorldTransform moves the native actor. With teleport set a simulating
// body also loses its velocity and interpolation history.
func (b *BodyInstance) SetWorldTransform(t engine.Transform, teleport bool) {
	if b.actor == nil {
		return
	}
	pose := ToPhysicsPose(t)
	if !pose.IsValid() {
		log.Printf("BodyInstance: ignoring invalid transform %+v", t)
		return
	}
	b.actor.SetGlobalPose(pose)
	if !teleport {
		return
	}
	if d := b.dynamic(); d != nil {
		d.SetLinearVelocity(native.Vec3{})
		d.SetAngularVelocity(native.Vec3{})
	}
	t.Scale = b.scale
	b.prevPose = t
	b.currPose = t
}

// IsDynamic reports whether the live actor is dynamic. It can differ from
// SimulatePhysics until the body is re-initialized.
func (b *BodyInstance) IsDynamic() bool { return b.dynamic() != nil }

// SyncComponentToPhysics pushes the owner's transform into a body that is
// not simulating.
func (b *BodyInstance) SyncComponentToPhysics() {
	if b.actor == nil || b.owner == nil || b.IsDynamic() {
		return
	}
	b.SetWorldTransform(b.owner.GetWorldTransform(), false)
}

// SyncPhysicsToComponent writes the simulated pose to the owner.
func (b *BodyInstance) SyncPhysicsToComponent() {
	if b.owner == nil || !b.IsDynamic() {
		return
	}
	b.owner.SetWorldTransform(b.GetWorldTransform())
}

// AddForce applies a force for the next step. With accelChange the mass is
// ignored.
func (b *BodyInstance) AddForce(f rl.Vector3, accelChange bool) {
	if d := b.dynamic(); d != nil {
		mode := native.ForceModeForce
		if accelChange {
			mode = native.ForceModeAcceleration
		}
		d.AddForce(ToPhysicsVec(f), mode)
	}
}

// AddImpulse changes velocity immediately. With velChange the mass is
// ignored.
func (b *BodyInstance) AddImpulse(i rl.Vector3, velChange bool) {
	if d := b.dynamic(); d != nil {
		mode := native.ForceModeImpulse
		if velChange {
			mode = native.ForceModeVelocityChange
		}
		d.AddForce(ToPhysicsVec(i), mode)
	}
}

func (b *BodyInstance) AddTorque(t rl.Vector3, accelChange bool) {
	if d := b.dynamic(); d != nil {
		mode := native.ForceModeForce
		if accelChange {
			mode = native.ForceModeAcceleration
		}
		d.AddTorque(ToPhysicsAxial(t), mode)
	}
}

func (b *BodyInstance) AddAngularImpulse(i rl.Vector3, velChange bool) {
	if d := b.dynamic(); d != nil {
		mode := native.ForceModeImpulse
		if velChange {
			mode = native.ForceModeVelocityChange
		}
		d.AddTorque(ToPhysicsAxial(i), mode)
	}
}

func (b *BodyInstance) GetLinearVelocity() rl.Vector3 {
	if d := b.dynamic(); d != nil {
		return ToEngineVec(d.LinearVelocity())
	}
	return rl.Vector3{}
}

func (b *BodyInstance) SetLinearVelocity(v rl.Vector3, addToCurrent bool) {
	d := b.dynamic()
	if d == nil {
		return
	}
	nv := ToPhysicsVec(v)
	if addToCurrent {
		nv = nv.Add(d.LinearVelocity())
	}
	d.SetLinearVelocity(nv)
}

// GetAngularVelocity is in radians per second.
func (b *BodyInstance) GetAngularVelocity() rl.Vector3 {
	if d := b.dynamic(); d != nil {
		return ToEngineAxial(d.AngularVelocity())
	}
	return rl.Vector3{}
}

func (b *BodyInstance) SetAngularVelocity(v rl.Vector3, addToCurrent bool) {
	d := b.dynamic()
	if d == nil {
		return
	}
	nv := ToPhysicsAxial(v)
	if addToCurrent {
		nv = nv.Add(d.AngularVelocity())
	}
	d.SetAngularVelocity(nv)
}

// GetMass returns zero for static or uninitialized bodies.
func (b *BodyInstance) GetMass() float32 {
	if d := b.dynamic(); d != nil {
		return ToEngineScalar(d.Mass())
	}
	return 0
}

// GetMassSpaceInertiaTensor returns the principal moments in engine axes.
func (b *BodyInstance) GetMassSpaceInertiaTensor() rl.Vector3 {
	if d := b.dynamic(); d != nil {
		return ToEngineScale(d.MassSpaceInertiaTensor())
	}
	return rl.Vector3{}
}

func (b *BodyInstance) IsSleeping() bool {
	d := b.dynamic()
	return d != nil && d.IsSleeping()
}

func (b *BodyInstance) WakeUp() {
	if d := b.dynamic(); d != nil {
		d.WakeUp()
	}
}

func (b *BodyInstance) PutToSleep() {
	if d := b.dynamic(); d != nil {
		d.PutToSleep()
	}
}

// SetSimulatePhysics records the flag for the next InitBody. A live actor
// cannot switch between static and dynamic.
func (b *BodyInstance) SetSimulatePhysics(simulate bool) {
	if simulate == b.SimulatePhysics {
		return
	}
	if b.actor != nil {
		log.Printf("BodyInstance: simulate physics changed to %v on a live body; takes effect after re-init", simulate)
	}
	b.SimulatePhysics = simulate
}

func (b *BodyInstance) SetEnableGravity(enable bool) {
	b.EnableGravity = enable
	if d := b.dynamic(); d != nil {
		d.SetGravityDisabled(!enable)
		d.WakeUp()
	}
}

// SetIsTrigger records the flag for the next InitBody. Live shapes keep
// the kind they were built with.
func (b *BodyInstance) SetIsTrigger(trigger bool) {
	if trigger == b.IsTrigger {
		return
	}
	if b.actor != nil {
		log.Printf("BodyInstance: trigger changed to %v on a live body; takes effect after re-init", trigger)
	}
	b.IsTrigger = trigger
}

func (b *BodyInstance) SetMassInKg(mass float32) {
	b.MassInKg = max(mass, 0)
	if d := b.dynamic(); d != nil {
		b.applyMass(d, b.scene.core.DefaultDensity())
	}
}

func (b *BodyInstance) SetDamping(linear, angular float32) {
	b.LinearDamping, b.AngularDamping = linear, angular
	if d := b.dynamic(); d != nil {
		d.SetLinearDamping(ToPhysicsScalar(linear))
		d.SetAngularDamping(ToPhysicsScalar(angular))
	}
}

// Clone copies the physics parameters only; the copy has no native actor.
func (b *BodyInstance) Clone() *BodyInstance {
	c := NewBodyInstance()
	if err := copier.Copy(c, b); err != nil {
		log.Printf("BodyInstance: clone: %v", err)
	}
	return c
}

// CapturePhysicsTransform shifts the current pose to previous and records
// the freshly simulated one. Called once per sub-step.
func (b *BodyInstance) CapturePhysicsTransform() {
	if b.actor == nil {
		return
	}
	b.prevPose = b.currPose
	b.currPose = b.GetWorldTransform()
}

// InterpolatedTransform blends the last two captured poses. alpha 0 is the
// previous pose and 1 the current one.
func (b *BodyInstance) InterpolatedTransform(alpha float32) engine.Transform {
	alpha = min(max(alpha, 0), 1)
	q0 := b.prevPose.GetQuaternion()
	q1 := b.currPose.GetQuaternion()
	if q0.X*q1.X+q0.Y*q1.Y+q0.Z*q1.Z+q0.W*q1.W < 0 {
		q1 = rl.Quaternion{X: -q1.X, Y: -q1.Y, Z: -q1.Z, W: -q1.W}
	}
	return engine.Transform{
		Position: rl.Vector3Lerp(b.prevPose.Position, b.currPose.Position, alpha),
		Rotation: rl.QuaternionNormalize(rl.QuaternionSlerp(q0, q1, alpha)),
		Scale:    b.scale,
	}
}

// UpdateRenderInterpolation writes the interpolated pose to the owner.
func (b *BodyInstance) UpdateRenderInterpolation(alpha float32) {
	if b.owner == nil || !b.IsDynamic() {
		return
	}
	b.owner.SetWorldTransform(b.InterpolatedTransform(alpha))
}
