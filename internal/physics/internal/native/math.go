package native

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Vec3 is a vector in the native frame: right-handed, Y up.
type Vec3 rl.Vector3

// Quat is a rotation in the native frame.
type Quat rl.Quaternion

// Transform is a rigid pose (no scale) in the native frame.
type Transform struct {
	P Vec3
	Q Quat
}

func V(x, y, z float32) Vec3 { return Vec3{X: x, Y: y, Z: z} }

func IdentityQuat() Quat { return Quat(rl.QuaternionIdentity()) }

func IdentityTransform() Transform { return Transform{Q: IdentityQuat()} }

func NewTransform(p Vec3, q Quat) Transform { return Transform{P: p, Q: q} }

func (v Vec3) rl() rl.Vector3 { return rl.Vector3(v) }

func (v Vec3) Add(o Vec3) Vec3             { return Vec3(rl.Vector3Add(v.rl(), o.rl())) }
func (v Vec3) Sub(o Vec3) Vec3             { return Vec3(rl.Vector3Subtract(v.rl(), o.rl())) }
func (v Vec3) Scale(s float32) Vec3        { return Vec3(rl.Vector3Scale(v.rl(), s)) }
func (v Vec3) Mul(o Vec3) Vec3             { return Vec3(rl.Vector3Multiply(v.rl(), o.rl())) }
func (v Vec3) Dot(o Vec3) float32          { return rl.Vector3DotProduct(v.rl(), o.rl()) }
func (v Vec3) Cross(o Vec3) Vec3           { return Vec3(rl.Vector3CrossProduct(v.rl(), o.rl())) }
func (v Vec3) Length() float32             { return rl.Vector3Length(v.rl()) }
func (v Vec3) LengthSqr() float32          { return rl.Vector3LengthSqr(v.rl()) }
func (v Vec3) Neg() Vec3                   { return Vec3(rl.Vector3Negate(v.rl())) }
func (v Vec3) IsZero() bool                { return v.X == 0 && v.Y == 0 && v.Z == 0 }
func (v Vec3) Lerp(o Vec3, t float32) Vec3 { return Vec3(rl.Vector3Lerp(v.rl(), o.rl(), t)) }

func (v Vec3) Normalize() Vec3 {
	if v.LengthSqr() < 1e-12 {
		return Vec3{}
	}
	return Vec3(rl.Vector3Normalize(v.rl()))
}

func (q Quat) rl() rl.Quaternion { return rl.Quaternion(q) }

func (q Quat) Mul(o Quat) Quat { return Quat(rl.QuaternionMultiply(q.rl(), o.rl())) }

func (q Quat) Normalize() Quat { return Quat(rl.QuaternionNormalize(q.rl())) }

func (q Quat) Conjugate() Quat { return Quat{X: -q.X, Y: -q.Y, Z: -q.Z, W: q.W} }

// Rotate applies q to v.
func (q Quat) Rotate(v Vec3) Vec3 { return Vec3(rl.Vector3RotateByQuaternion(v.rl(), q.rl())) }

// RotateInv applies the inverse of q to v.
func (q Quat) RotateInv(v Vec3) Vec3 { return q.Conjugate().Rotate(v) }

// QuatFromAxisAngle builds a rotation of angle radians about axis.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	return Quat(rl.QuaternionFromAxisAngle(axis.rl(), angle))
}

// Apply maps a local point to the parent frame.
func (t Transform) Apply(p Vec3) Vec3 { return t.P.Add(t.Q.Rotate(p)) }

// Mul composes t with a child pose expressed in t's frame.
func (t Transform) Mul(child Transform) Transform {
	return Transform{P: t.Apply(child.P), Q: t.Q.Mul(child.Q).Normalize()}
}

// IsValid rejects NaN positions and non-unit rotations.
func (t Transform) IsValid() bool {
	for _, f := range []float32{t.P.X, t.P.Y, t.P.Z, t.Q.X, t.Q.Y, t.Q.Z, t.Q.W} {
		if f != f {
			return false
		}
	}
	l := t.Q.X*t.Q.X + t.Q.Y*t.Q.Y + t.Q.Z*t.Q.Z + t.Q.W*t.Q.W
	return l > 0.98 && l < 1.02
}
