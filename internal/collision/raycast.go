package collision

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type RaycastHit struct {
	Point    rl.Vector3
	Normal   rl.Vector3
	Distance float32
}

// Raycast intersects a ray with a shape. direction must be normalized.
// A ray starting inside a shape hits at distance zero.
func Raycast(s Shape, origin, direction rl.Vector3, maxDistance float32) (RaycastHit, bool) {
	switch sh := s.(type) {
	case Sphere:
		return raycastSphere(origin, direction, sh.Center, sh.Radius, maxDistance)
	case Capsule:
		return raycastCapsule(origin, direction, sh, maxDistance)
	case OBB:
		return raycastOBB(origin, direction, sh, maxDistance)
	}
	return RaycastHit{}, false
}

// raycastOBB runs the slab test in the box's local frame.
func raycastOBB(origin, direction rl.Vector3, box OBB, maxDistance float32) (RaycastHit, bool) {
	rel := rl.Vector3Subtract(origin, box.Center)
	tmin := float32(-math32.MaxFloat32)
	tmax := float32(math32.MaxFloat32)
	axis := -1
	var sign float32

	for i := 0; i < 3; i++ {
		o := rl.Vector3DotProduct(rel, box.Axes[i])
		d := rl.Vector3DotProduct(direction, box.Axes[i])
		h := box.halfAt(i)
		if math32.Abs(d) < 1e-9 {
			if o < -h || o > h {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (-h - o) / d
		t2 := (h - o) / d
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin = t1
			axis = i
			sign = s
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}

	if tmax < 0 || tmin > maxDistance {
		return RaycastHit{}, false
	}
	if tmin < 0 || axis < 0 {
		return RaycastHit{Point: origin, Normal: rl.Vector3Negate(direction)}, true
	}
	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, tmin))
	normal := rl.Vector3Scale(box.Axes[axis], sign)
	return RaycastHit{Point: point, Normal: normal, Distance: tmin}, true
}

func raycastSphere(origin, direction, center rl.Vector3, radius, maxDistance float32) (RaycastHit, bool) {
	oc := rl.Vector3Subtract(origin, center)
	c := rl.Vector3DotProduct(oc, oc) - radius*radius
	if c <= 0 {
		return RaycastHit{Point: origin, Normal: rl.Vector3Negate(direction)}, true
	}
	b := rl.Vector3DotProduct(oc, direction)
	discriminant := b*b - c
	if discriminant < 0 {
		return RaycastHit{}, false
	}

	t := -b - math32.Sqrt(discriminant)
	if t < 0 || t > maxDistance {
		return RaycastHit{}, false
	}

	point := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
	normal := rl.Vector3Normalize(rl.Vector3Subtract(point, center))
	return RaycastHit{Point: point, Normal: normal, Distance: t}, true
}

// raycastCapsule marches the ray against the capsule's distance field. The
// step never overshoots because each step is the exact distance to the surface.
func raycastCapsule(origin, direction rl.Vector3, c Capsule, maxDistance float32) (RaycastHit, bool) {
	const eps = 1e-4
	var t float32
	for i := 0; i < 64 && t <= maxDistance; i++ {
		p := rl.Vector3Add(origin, rl.Vector3Scale(direction, t))
		axisPoint := ClosestPointOnSegment(c.A, c.B, p)
		d := rl.Vector3Distance(p, axisPoint) - c.Radius
		if d < eps {
			if t == 0 && d < 0 {
				return RaycastHit{Point: origin, Normal: rl.Vector3Negate(direction)}, true
			}
			n, _ := safeNormal(rl.Vector3Subtract(p, axisPoint), rl.Vector3Negate(direction))
			return RaycastHit{Point: p, Normal: n, Distance: t}, true
		}
		t += d
	}
	return RaycastHit{}, false
}
