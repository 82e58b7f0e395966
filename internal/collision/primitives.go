package collision

import (
	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Shape is a world-space collision primitive.
type Shape interface {
	Bounds() AABB
}

type Sphere struct {
	Center rl.Vector3
	Radius float32
}

func (s Sphere) Bounds() AABB {
	r := rl.Vector3{X: s.Radius, Y: s.Radius, Z: s.Radius}
	return AABB{Min: rl.Vector3Subtract(s.Center, r), Max: rl.Vector3Add(s.Center, r)}
}

// Capsule is the set of points within Radius of the segment A-B.
type Capsule struct {
	A, B   rl.Vector3
	Radius float32
}

// NewCapsule builds a capsule centered at center whose segment runs along
// axis with the given half-height.
func NewCapsule(center, axis rl.Vector3, halfHeight, radius float32) Capsule {
	d := rl.Vector3Scale(rl.Vector3Normalize(axis), halfHeight)
	return Capsule{A: rl.Vector3Subtract(center, d), B: rl.Vector3Add(center, d), Radius: radius}
}

func (c Capsule) Bounds() AABB {
	r := rl.Vector3{X: c.Radius, Y: c.Radius, Z: c.Radius}
	lo := rl.Vector3Min(c.A, c.B)
	hi := rl.Vector3Max(c.A, c.B)
	return AABB{Min: rl.Vector3Subtract(lo, r), Max: rl.Vector3Add(hi, r)}
}

// ClosestPointOnSegment returns the point on a-b nearest to p.
func ClosestPointOnSegment(a, b, p rl.Vector3) rl.Vector3 {
	ab := rl.Vector3Subtract(b, a)
	lenSq := rl.Vector3LengthSqr(ab)
	if lenSq < 1e-12 {
		return a
	}
	t := clamp(rl.Vector3DotProduct(rl.Vector3Subtract(p, a), ab)/lenSq, 0, 1)
	return rl.Vector3Add(a, rl.Vector3Scale(ab, t))
}

// ClosestPointsSegments returns the closest pair of points between p1-q1 and p2-q2.
func ClosestPointsSegments(p1, q1, p2, q2 rl.Vector3) (rl.Vector3, rl.Vector3) {
	d1 := rl.Vector3Subtract(q1, p1)
	d2 := rl.Vector3Subtract(q2, p2)
	r := rl.Vector3Subtract(p1, p2)
	a := rl.Vector3DotProduct(d1, d1)
	e := rl.Vector3DotProduct(d2, d2)
	f := rl.Vector3DotProduct(d2, r)

	const eps = 1e-9
	var s, t float32
	switch {
	case a <= eps && e <= eps:
		return p1, p2
	case a <= eps:
		t = clamp(f/e, 0, 1)
	default:
		c := rl.Vector3DotProduct(d1, r)
		if e <= eps {
			s = clamp(-c/a, 0, 1)
		} else {
			b := rl.Vector3DotProduct(d1, d2)
			denom := a*e - b*b
			if denom != 0 {
				s = clamp((b*f-c*e)/denom, 0, 1)
			}
			t = (b*s + f) / e
			if t < 0 {
				t = 0
				s = clamp(-c/a, 0, 1)
			} else if t > 1 {
				t = 1
				s = clamp((b-c)/a, 0, 1)
			}
		}
	}
	return rl.Vector3Add(p1, rl.Vector3Scale(d1, s)), rl.Vector3Add(p2, rl.Vector3Scale(d2, t))
}

func safeNormal(v, fallback rl.Vector3) (rl.Vector3, float32) {
	l := rl.Vector3Length(v)
	if l < 1e-6 {
		return fallback, 0
	}
	return rl.Vector3Scale(v, 1/l), l
}

// sphereContact treats two points with radii as spheres.
func sphereContact(ca rl.Vector3, ra float32, cb rl.Vector3, rb float32) (Contact, bool) {
	n, dist := safeNormal(rl.Vector3Subtract(cb, ca), rl.Vector3{Y: 1})
	sep := dist - ra - rb
	if sep > 0 {
		return Contact{}, false
	}
	p := rl.Vector3Add(ca, rl.Vector3Scale(n, ra+sep*0.5))
	return Contact{Normal: n, Points: []ContactPoint{{Position: p, Separation: sep}}}, true
}

// sphereBoxContact returns a contact with the normal pointing from the sphere
// toward the box.
func sphereBoxContact(c rl.Vector3, r float32, box OBB) (Contact, bool) {
	closest := ClosestPointOnOBB(box, c)
	d := rl.Vector3Subtract(closest, c)
	distSq := rl.Vector3LengthSqr(d)
	if distSq > r*r {
		return Contact{}, false
	}
	if distSq > 1e-10 {
		dist := math32.Sqrt(distSq)
		n := rl.Vector3Scale(d, 1/dist)
		return Contact{Normal: n, Points: []ContactPoint{{Position: closest, Separation: dist - r}}}, true
	}

	// Center inside the box: exit through the nearest face.
	local := rl.Vector3Subtract(c, box.Center)
	best := float32(math32.MaxFloat32)
	var n rl.Vector3
	for i := 0; i < 3; i++ {
		proj := rl.Vector3DotProduct(local, box.Axes[i])
		gap := box.halfAt(i) - math32.Abs(proj)
		if gap < best {
			best = gap
			if proj >= 0 {
				n = rl.Vector3Negate(box.Axes[i])
			} else {
				n = box.Axes[i]
			}
		}
	}
	face := rl.Vector3Subtract(c, rl.Vector3Scale(n, best))
	return Contact{Normal: n, Points: []ContactPoint{{Position: face, Separation: -(best + r)}}}, true
}
