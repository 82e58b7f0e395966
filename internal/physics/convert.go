package physics

import (
	"physbridge/internal/engine"
	"physbridge/internal/physics/internal/native"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// The engine uses X forward, Y right, Z up (left-handed). The native SDK uses
// X right, Y up, Z back (right-handed). The position map is a reflection, so
// axial quantities (angular velocity, torque) carry an extra sign flip.

func ToPhysicsVec(v rl.Vector3) native.Vec3 {
	return native.V(v.Y, v.Z, -v.X)
}

func ToEngineVec(v native.Vec3) rl.Vector3 {
	return rl.Vector3{X: -v.Z, Y: v.X, Z: v.Y}
}

func ToPhysicsQuat(q rl.Quaternion) native.Quat {
	return native.Quat{X: -q.Y, Y: -q.Z, Z: q.X, W: q.W}
}

func ToEngineQuat(q native.Quat) rl.Quaternion {
	return rl.Quaternion{X: q.Z, Y: -q.X, Z: -q.Y, W: q.W}
}

// ToPhysicsAxial converts a rotation vector (angular velocity, torque,
// angular impulse).
func ToPhysicsAxial(v rl.Vector3) native.Vec3 {
	return native.V(-v.Y, -v.Z, v.X)
}

func ToEngineAxial(v native.Vec3) rl.Vector3 {
	return rl.Vector3{X: v.Z, Y: -v.X, Z: -v.Y}
}

// ToPhysicsPose drops scale; the native SDK applies scale to shapes only.
func ToPhysicsPose(t engine.Transform) native.Transform {
	return native.NewTransform(ToPhysicsVec(t.Position), ToPhysicsQuat(t.GetQuaternion()))
}

// ToEnginePose returns a transform with unit scale.
func ToEnginePose(t native.Transform) engine.Transform {
	return engine.NewTransform(ToEngineVec(t.P), ToEngineQuat(t.Q), rl.Vector3{X: 1, Y: 1, Z: 1})
}

// ToPhysicsScale permutes per-axis scale magnitudes into the native frame.
func ToPhysicsScale(s rl.Vector3) native.Vec3 {
	return native.V(math32.Abs(s.Y), math32.Abs(s.Z), math32.Abs(s.X))
}

func ToEngineScale(s native.Vec3) rl.Vector3 {
	return rl.Vector3{X: math32.Abs(s.Z), Y: math32.Abs(s.X), Z: math32.Abs(s.Y)}
}

// Mass, damping and time share units on both sides.
func ToPhysicsScalar(v float32) float32 { return v }
func ToEngineScalar(v float32) float32  { return v }

// raylib draws in a right-handed Y-up space, which shares the native axes.
// The Render helpers let drawing and mesh import code cross that boundary
// without seeing native types.

func ToRenderVec(v rl.Vector3) rl.Vector3 { return rl.Vector3(ToPhysicsVec(v)) }

func FromRenderVec(v rl.Vector3) rl.Vector3 { return ToEngineVec(native.Vec3(v)) }

func ToRenderQuat(q rl.Quaternion) rl.Quaternion { return rl.Quaternion(ToPhysicsQuat(q)) }

func ToRenderScale(s rl.Vector3) rl.Vector3 { return rl.Vector3(ToPhysicsScale(s)) }
