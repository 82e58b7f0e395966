package native

import (
	"fmt"
)

// Actor is implemented by RigidStatic and RigidDynamic.
type Actor interface {
	ID() ActorID
	GlobalPose() Transform
	SetGlobalPose(t Transform)
	AttachShape(s *Shape) error
	DetachShape(s *Shape)
	Shapes() []*Shape
	Scene() *Scene
	Release()
	IsReleased() bool

	base() *rigidActor
}

type rigidActor struct {
	id       ActorID
	pose     Transform
	shapes   []*Shape
	scene    *Scene
	released bool
	self     Actor
}

func (a *rigidActor) base() *rigidActor         { return a }
func (a *rigidActor) ID() ActorID               { return a.id }
func (a *rigidActor) GlobalPose() Transform     { return a.pose }
func (a *rigidActor) Shapes() []*Shape          { return a.shapes }
func (a *rigidActor) Scene() *Scene             { return a.scene }
func (a *rigidActor) IsReleased() bool          { return a.released }
func (a *rigidActor) SetGlobalPose(t Transform) { a.pose = t }

// AttachShape binds s to this actor. A shape can only belong to one actor.
func (a *rigidActor) AttachShape(s *Shape) error {
	if a.released {
		return ErrActorReleased
	}
	if s == nil {
		return fmt.Errorf("native: attach shape: nil shape")
	}
	if s.actor != nil {
		return fmt.Errorf("native: attach shape %d: already attached to actor %d", s.id, s.actor.ID())
	}
	s.actor = a.self
	a.shapes = append(a.shapes, s)
	return nil
}

func (a *rigidActor) DetachShape(s *Shape) {
	for i, sh := range a.shapes {
		if sh == s {
			a.shapes = append(a.shapes[:i], a.shapes[i+1:]...)
			s.actor = nil
			return
		}
	}
}

// Release removes the actor from its scene and detaches every shape.
func (a *rigidActor) Release() {
	if a.released {
		return
	}
	if a.scene != nil {
		a.scene.RemoveActor(a.self)
	}
	for _, s := range a.shapes {
		s.actor = nil
	}
	a.shapes = nil
	a.released = true
}

// RigidStatic never moves under simulation.
type RigidStatic struct {
	rigidActor
}

type ForceMode uint8

const (
	ForceModeForce ForceMode = iota
	ForceModeImpulse
	ForceModeVelocityChange
	ForceModeAcceleration
)

// RigidDynamic is a simulated body.
type RigidDynamic struct {
	rigidActor

	linearVelocity  Vec3
	angularVelocity Vec3
	mass            float32
	invMass         float32
	inertia         Vec3 // mass-space diagonal
	invInertia      Vec3
	linearDamping   float32
	angularDamping  float32
	disableGravity  bool

	force  Vec3 // accumulated for the next step, as acceleration
	torque Vec3 // accumulated for the next step, as angular acceleration

	sleeping   bool
	sleepTimer float32
}

// SetGlobalPose teleports the body and wakes it.
func (d *RigidDynamic) SetGlobalPose(t Transform) {
	d.pose = t
	d.WakeUp()
}

func (d *RigidDynamic) LinearVelocity() Vec3  { return d.linearVelocity }
func (d *RigidDynamic) AngularVelocity() Vec3 { return d.angularVelocity }

func (d *RigidDynamic) SetLinearVelocity(v Vec3) {
	d.linearVelocity = v
	if !v.IsZero() {
		d.WakeUp()
	}
}

func (d *RigidDynamic) SetAngularVelocity(v Vec3) {
	d.angularVelocity = v
	if !v.IsZero() {
		d.WakeUp()
	}
}

func (d *RigidDynamic) LinearDamping() float32  { return d.linearDamping }
func (d *RigidDynamic) AngularDamping() float32 { return d.angularDamping }

func (d *RigidDynamic) SetLinearDamping(v float32)  { d.linearDamping = max(v, 0) }
func (d *RigidDynamic) SetAngularDamping(v float32) { d.angularDamping = max(v, 0) }

func (d *RigidDynamic) SetGravityDisabled(disabled bool) { d.disableGravity = disabled }
func (d *RigidDynamic) IsGravityDisabled() bool          { return d.disableGravity }

func (d *RigidDynamic) Mass() float32 { return d.mass }

// InvMass is zero for an infinitely heavy body.
func (d *RigidDynamic) InvMass() float32 { return d.invMass }

func (d *RigidDynamic) MassSpaceInertiaTensor() Vec3 { return d.inertia }

func (d *RigidDynamic) setMassProps(mass float32, inertia Vec3) {
	d.mass = mass
	d.inertia = inertia
	d.invMass = inv(mass)
	d.invInertia = V(inv(inertia.X), inv(inertia.Y), inv(inertia.Z))
}

func inv(v float32) float32 {
	if v <= 0 {
		return 0
	}
	return 1 / v
}

// massFromShapes sums mass and inertia of simulation shapes for density.
func (d *RigidDynamic) massFromShapes(density float32) (float32, Vec3) {
	var total float32
	var inertia Vec3
	for _, s := range d.shapes {
		if s.flags&ShapeSimulation == 0 {
			continue
		}
		m, local := s.geometry.massProperties(density)
		total += m
		// Rotate the diagonal into the actor frame and shift by the offset.
		inertia = inertia.Add(rotateDiagonal(local, s.localPose.Q))
		off := s.localPose.P
		inertia = inertia.Add(V(
			m*(off.Y*off.Y+off.Z*off.Z),
			m*(off.X*off.X+off.Z*off.Z),
			m*(off.X*off.X+off.Y*off.Y),
		))
	}
	return total, inertia
}

// rotateDiagonal returns the diagonal of R*diag(d)*R^T.
func rotateDiagonal(d Vec3, q Quat) Vec3 {
	ax := q.Rotate(V(1, 0, 0))
	ay := q.Rotate(V(0, 1, 0))
	az := q.Rotate(V(0, 0, 1))
	return V(
		ax.X*ax.X*d.X+ay.X*ay.X*d.Y+az.X*az.X*d.Z,
		ax.Y*ax.Y*d.X+ay.Y*ay.Y*d.Y+az.Y*az.Y*d.Z,
		ax.Z*ax.Z*d.X+ay.Z*ay.Z*d.Y+az.Z*az.Z*d.Z,
	)
}

// UpdateMassAndInertia derives mass from the attached simulation shapes.
// Returns false when no shape contributes mass; the body keeps unit mass.
func (d *RigidDynamic) UpdateMassAndInertia(density float32) bool {
	m, i := d.massFromShapes(density)
	if m <= 0 {
		d.setMassProps(1, V(1, 1, 1))
		return false
	}
	d.setMassProps(m, i)
	return true
}

// SetMassAndUpdateInertia sets an explicit mass and scales the shape-derived
// inertia to match it.
func (d *RigidDynamic) SetMassAndUpdateInertia(mass float32) bool {
	if mass <= 0 {
		return false
	}
	m, i := d.massFromShapes(1)
	if m <= 0 {
		d.setMassProps(mass, V(mass, mass, mass))
		return true
	}
	d.setMassProps(mass, i.Scale(mass/m))
	return true
}

// AddForce accumulates a force for the next step, or changes velocity
// immediately for impulse modes.
func (d *RigidDynamic) AddForce(f Vec3, mode ForceMode) {
	switch mode {
	case ForceModeForce:
		d.force = d.force.Add(f.Scale(d.invMass))
	case ForceModeAcceleration:
		d.force = d.force.Add(f)
	case ForceModeImpulse:
		d.linearVelocity = d.linearVelocity.Add(f.Scale(d.invMass))
	case ForceModeVelocityChange:
		d.linearVelocity = d.linearVelocity.Add(f)
	}
	d.WakeUp()
}

// AddTorque mirrors AddForce for rotation.
func (d *RigidDynamic) AddTorque(t Vec3, mode ForceMode) {
	switch mode {
	case ForceModeForce:
		d.torque = d.torque.Add(d.applyInvInertia(t))
	case ForceModeAcceleration:
		d.torque = d.torque.Add(t)
	case ForceModeImpulse:
		d.angularVelocity = d.angularVelocity.Add(d.applyInvInertia(t))
	case ForceModeVelocityChange:
		d.angularVelocity = d.angularVelocity.Add(t)
	}
	d.WakeUp()
}

// applyInvInertia maps a world-space torque or impulse through the inverse
// world inertia tensor.
func (d *RigidDynamic) applyInvInertia(v Vec3) Vec3 {
	local := d.pose.Q.RotateInv(v)
	return d.pose.Q.Rotate(local.Mul(d.invInertia))
}

func (d *RigidDynamic) IsSleeping() bool { return d.sleeping }

func (d *RigidDynamic) WakeUp() {
	d.sleeping = false
	d.sleepTimer = 0
}

func (d *RigidDynamic) PutToSleep() {
	d.sleeping = true
	d.linearVelocity = Vec3{}
	d.angularVelocity = Vec3{}
	d.force = Vec3{}
	d.torque = Vec3{}
}

// trySleep puts the body to sleep after it stays below both thresholds for
// the configured time.
func (d *RigidDynamic) trySleep(dt float32, cfg SleepSettings) {
	if d.sleeping || cfg.Time <= 0 {
		return
	}
	if d.linearVelocity.Length() < cfg.LinearThreshold && d.angularVelocity.Length() < cfg.AngularThreshold {
		d.sleepTimer += dt
		if d.sleepTimer >= cfg.Time {
			d.PutToSleep()
		}
	} else {
		d.sleepTimer = 0
	}
}
