package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// Transform uses the engine convention: X forward, Y right, Z up (left-handed).
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

// IdentityTransform returns a transform at the origin with unit scale.
func IdentityTransform() Transform {
	return Transform{
		Rotation: rl.QuaternionIdentity(),
		Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
	}
}

// NewTransform builds a transform from position, rotation and scale.
func NewTransform(pos rl.Vector3, rot rl.Quaternion, scale rl.Vector3) Transform {
	return Transform{Position: pos, Rotation: rot, Scale: scale}
}

// GetQuaternion returns the rotation, falling back to identity for a zero quaternion.
func (t Transform) GetQuaternion() rl.Quaternion {
	if t.Rotation.X == 0 && t.Rotation.Y == 0 && t.Rotation.Z == 0 && t.Rotation.W == 0 {
		return rl.QuaternionIdentity()
	}
	return t.Rotation
}

// SetRotationEuler sets the rotation from roll/pitch/yaw in degrees (X, Y, Z).
func (t *Transform) SetRotationEuler(degrees rl.Vector3) {
	t.Rotation = rl.QuaternionFromEuler(degrees.X*rl.Deg2rad, degrees.Y*rl.Deg2rad, degrees.Z*rl.Deg2rad)
}

// RotationEuler returns the rotation as degrees per axis.
func (t Transform) RotationEuler() rl.Vector3 {
	return rl.Vector3Scale(rl.QuaternionToEuler(t.GetQuaternion()), rl.Rad2deg)
}

// TransformPoint maps a local point into the space this transform lives in.
func (t Transform) TransformPoint(p rl.Vector3) rl.Vector3 {
	scaled := rl.Vector3Multiply(p, t.Scale)
	return rl.Vector3Add(t.Position, rl.Vector3RotateByQuaternion(scaled, t.GetQuaternion()))
}

// Forward is the rotated +X axis.
func (t Transform) Forward() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, t.GetQuaternion())
}

// Right is the rotated +Y axis.
func (t Transform) Right() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, t.GetQuaternion())
}

// Up is the rotated +Z axis.
func (t Transform) Up() rl.Vector3 {
	return rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, t.GetQuaternion())
}

// Compose returns child expressed in the space of t.
func (t Transform) Compose(child Transform) Transform {
	return Transform{
		Position: t.TransformPoint(child.Position),
		Rotation: rl.QuaternionNormalize(rl.QuaternionMultiply(t.GetQuaternion(), child.GetQuaternion())),
		Scale:    rl.Vector3Multiply(t.Scale, child.Scale),
	}
}

// Relative is the inverse of Compose: given a world transform, it returns the
// local transform that composes with t to produce it.
func (t Transform) Relative(world Transform) Transform {
	inv := rl.QuaternionInvert(t.GetQuaternion())
	local := rl.Vector3RotateByQuaternion(rl.Vector3Subtract(world.Position, t.Position), inv)
	return Transform{
		Position: safeDivide(local, t.Scale),
		Rotation: rl.QuaternionNormalize(rl.QuaternionMultiply(inv, world.GetQuaternion())),
		Scale:    safeDivide(world.Scale, t.Scale),
	}
}

func safeDivide(v, by rl.Vector3) rl.Vector3 {
	div := func(a, b float32) float32 {
		if b == 0 {
			return a
		}
		return a / b
	}
	return rl.Vector3{X: div(v.X, by.X), Y: div(v.Y, by.Y), Z: div(v.Z, by.Z)}
}
