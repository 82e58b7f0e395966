package collision

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// OBB represents an Oriented Bounding Box
type OBB struct {
	Center   rl.Vector3    // World-space center
	HalfSize rl.Vector3    // Half-extents along local axes
	Axes     [3]rl.Vector3 // Local X, Y, Z axes (rotated)
}

// NewOBB creates an OBB from center, half-extents and orientation.
func NewOBB(center, halfSize rl.Vector3, rot rl.Quaternion) OBB {
	return OBB{
		Center:   center,
		HalfSize: halfSize,
		Axes: [3]rl.Vector3{
			rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{X: 1}, rot)),
			rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{Y: 1}, rot)),
			rl.Vector3Normalize(rl.Vector3RotateByQuaternion(rl.Vector3{Z: 1}, rot)),
		},
	}
}

// NewAABBasOBB creates an axis-aligned OBB (no rotation)
func NewAABBasOBB(center, size rl.Vector3) OBB {
	return OBB{
		Center:   center,
		HalfSize: rl.Vector3Scale(size, 0.5),
		Axes: [3]rl.Vector3{
			{X: 1, Y: 0, Z: 0},
			{X: 0, Y: 1, Z: 0},
			{X: 0, Y: 0, Z: 1},
		},
	}
}

func (o OBB) halfAt(i int) float32 {
	switch i {
	case 0:
		return o.HalfSize.X
	case 1:
		return o.HalfSize.Y
	}
	return o.HalfSize.Z
}

// Bounds returns the world-space AABB enclosing the box.
func (o OBB) Bounds() AABB {
	var ext rl.Vector3
	for i := 0; i < 3; i++ {
		h := o.halfAt(i)
		ext.X += math32.Abs(o.Axes[i].X) * h
		ext.Y += math32.Abs(o.Axes[i].Y) * h
		ext.Z += math32.Abs(o.Axes[i].Z) * h
	}
	return AABB{Min: rl.Vector3Subtract(o.Center, ext), Max: rl.Vector3Add(o.Center, ext)}
}

// Vertices returns the eight corners.
func (o OBB) Vertices() [8]rl.Vector3 {
	var out [8]rl.Vector3
	for i := 0; i < 8; i++ {
		sx, sy, sz := float32(-1), float32(-1), float32(-1)
		if i&1 != 0 {
			sx = 1
		}
		if i&2 != 0 {
			sy = 1
		}
		if i&4 != 0 {
			sz = 1
		}
		p := o.Center
		p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[0], sx*o.HalfSize.X))
		p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[1], sy*o.HalfSize.Y))
		p = rl.Vector3Add(p, rl.Vector3Scale(o.Axes[2], sz*o.HalfSize.Z))
		out[i] = p
	}
	return out
}

// ContainsPoint reports whether p lies inside the box grown by slop.
func (o OBB) ContainsPoint(p rl.Vector3, slop float32) bool {
	d := rl.Vector3Subtract(p, o.Center)
	for i := 0; i < 3; i++ {
		if math32.Abs(rl.Vector3DotProduct(d, o.Axes[i])) > o.halfAt(i)+slop {
			return false
		}
	}
	return true
}

// IntersectsOBB tests if two OBBs intersect using the Separating Axis Theorem
func (a OBB) IntersectsOBB(b OBB) bool {
	// Vector from A's center to B's center
	t := rl.Vector3Subtract(b.Center, a.Center)

	// 15 axes: 3 face normals from each box plus 9 edge cross products
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, a.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		if !overlapOnAxis(a, b, b.Axes[i], t) {
			return false
		}
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			axis := rl.Vector3CrossProduct(a.Axes[i], b.Axes[j])
			// Skip near-zero axes (parallel edges)
			if rl.Vector3Length(axis) > 0.0001 {
				axis = rl.Vector3Normalize(axis)
				if !overlapOnAxis(a, b, axis, t) {
					return false
				}
			}
		}
	}

	return true
}

func (o OBB) projectedRadius(axis rl.Vector3) float32 {
	return o.HalfSize.X*math32.Abs(rl.Vector3DotProduct(o.Axes[0], axis)) +
		o.HalfSize.Y*math32.Abs(rl.Vector3DotProduct(o.Axes[1], axis)) +
		o.HalfSize.Z*math32.Abs(rl.Vector3DotProduct(o.Axes[2], axis))
}

// overlapOnAxis checks if two OBBs overlap when projected onto a given axis
func overlapOnAxis(a, b OBB, axis, t rl.Vector3) bool {
	distance := math32.Abs(rl.Vector3DotProduct(t, axis))
	return distance <= a.projectedRadius(axis)+b.projectedRadius(axis)
}

// ResolveOBB returns the minimum translation vector to push 'a' out of 'b'
// Returns zero vector if no overlap
func (a OBB) ResolveOBB(b OBB) rl.Vector3 {
	if !a.IntersectsOBB(b) {
		return rl.Vector3Zero()
	}

	t := rl.Vector3Subtract(b.Center, a.Center)
	minPenetration := float32(math32.MaxFloat32)
	var mtv rl.Vector3

	testAxis := func(axis rl.Vector3) {
		if rl.Vector3Length(axis) < 0.0001 {
			return
		}
		axis = rl.Vector3Normalize(axis)

		dist := rl.Vector3DotProduct(t, axis)
		penetration := a.projectedRadius(axis) + b.projectedRadius(axis) - math32.Abs(dist)

		if penetration < minPenetration {
			minPenetration = penetration
			// Push in the direction away from B
			if dist < 0 {
				mtv = rl.Vector3Scale(axis, penetration)
			} else {
				mtv = rl.Vector3Scale(axis, -penetration)
			}
		}
	}

	for i := 0; i < 3; i++ {
		testAxis(a.Axes[i])
	}
	for i := 0; i < 3; i++ {
		testAxis(b.Axes[i])
	}
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			testAxis(rl.Vector3CrossProduct(a.Axes[i], b.Axes[j]))
		}
	}

	return mtv
}

// IntersectsSphere tests if an OBB intersects with a sphere
func (o OBB) IntersectsSphere(center rl.Vector3, radius float32) bool {
	closest := ClosestPointOnOBB(o, center)
	return rl.Vector3LengthSqr(rl.Vector3Subtract(center, closest)) <= radius*radius
}

// ClosestPointOnOBB returns the closest point on or inside the OBB to the given point
func ClosestPointOnOBB(o OBB, point rl.Vector3) rl.Vector3 {
	local := rl.Vector3Subtract(point, o.Center)
	result := o.Center
	for i := 0; i < 3; i++ {
		h := o.halfAt(i)
		d := clamp(rl.Vector3DotProduct(local, o.Axes[i]), -h, h)
		result = rl.Vector3Add(result, rl.Vector3Scale(o.Axes[i], d))
	}
	return result
}

func clamp(v, min, max float32) float32 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
