package collision

import (
	rl "github.com/gen2brain/raylib-go/raylib"
)

// ContactPoint is one point of a manifold. Separation is negative while
// penetrating.
type ContactPoint struct {
	Position   rl.Vector3
	Separation float32
}

// Contact is a manifold between two shapes. Normal points from the first
// shape toward the second.
type Contact struct {
	Normal rl.Vector3
	Points []ContactPoint
}

// Depth returns the deepest penetration in the manifold.
func (c Contact) Depth() float32 {
	var d float32
	for _, p := range c.Points {
		if -p.Separation > d {
			d = -p.Separation
		}
	}
	return d
}

func (c Contact) flipped() Contact {
	c.Normal = rl.Vector3Negate(c.Normal)
	return c
}

// Overlaps reports whether two shapes touch or interpenetrate.
func Overlaps(a, b Shape) bool {
	if !a.Bounds().Intersects(b.Bounds()) {
		return false
	}
	if oa, ok := a.(OBB); ok {
		if ob, ok := b.(OBB); ok {
			return oa.IntersectsOBB(ob)
		}
	}
	_, ok := Collide(a, b)
	return ok
}

// Collide computes a contact manifold for a pair of shapes. Unknown shape
// types never collide.
func Collide(a, b Shape) (Contact, bool) {
	switch sa := a.(type) {
	case Sphere:
		switch sb := b.(type) {
		case Sphere:
			return sphereContact(sa.Center, sa.Radius, sb.Center, sb.Radius)
		case Capsule:
			p := ClosestPointOnSegment(sb.A, sb.B, sa.Center)
			return sphereContact(sa.Center, sa.Radius, p, sb.Radius)
		case OBB:
			return sphereBoxContact(sa.Center, sa.Radius, sb)
		}
	case Capsule:
		switch sb := b.(type) {
		case Sphere:
			c, ok := Collide(sb, sa)
			return c.flipped(), ok
		case Capsule:
			pa, pb := ClosestPointsSegments(sa.A, sa.B, sb.A, sb.B)
			return sphereContact(pa, sa.Radius, pb, sb.Radius)
		case OBB:
			return capsuleBoxContact(sa, sb)
		}
	case OBB:
		switch sb := b.(type) {
		case Sphere, Capsule:
			c, ok := Collide(sb, sa)
			return c.flipped(), ok
		case OBB:
			return boxBoxContact(sa, sb)
		}
	}
	return Contact{}, false
}

// capsuleBoxContact samples the capsule segment at both ends and at the point
// nearest the box center, keeping every sample that touches.
func capsuleBoxContact(c Capsule, box OBB) (Contact, bool) {
	samples := [3]rl.Vector3{c.A, c.B, ClosestPointOnSegment(c.A, c.B, box.Center)}
	var out Contact
	deepest := float32(1)
	for _, s := range samples {
		sc, ok := sphereBoxContact(s, c.Radius, box)
		if !ok {
			continue
		}
		sep := sc.Points[0].Separation
		if sep < deepest {
			deepest = sep
			out.Normal = sc.Normal
		}
		out.Points = appendUnique(out.Points, sc.Points[0])
	}
	return out, len(out.Points) > 0
}

// boxBoxContact uses the SAT axis of least penetration for the normal and
// collects vertices of each box lying inside the other.
func boxBoxContact(a, b OBB) (Contact, bool) {
	mtv := a.ResolveOBB(b)
	depth := rl.Vector3Length(mtv)
	if depth < 1e-6 {
		if !a.IntersectsOBB(b) {
			return Contact{}, false
		}
		n, _ := safeNormal(rl.Vector3Subtract(b.Center, a.Center), rl.Vector3{Y: 1})
		mid := rl.Vector3Lerp(a.Center, b.Center, 0.5)
		return Contact{Normal: n, Points: []ContactPoint{{Position: mid}}}, true
	}
	// mtv pushes a away from b, so the a->b normal is its opposite.
	n := rl.Vector3Scale(mtv, -1/depth)

	const slop = 1e-3
	var pts []ContactPoint
	for _, v := range a.Vertices() {
		if b.ContainsPoint(v, slop) {
			pts = appendUnique(pts, ContactPoint{Position: v, Separation: -depth})
		}
	}
	for _, v := range b.Vertices() {
		if a.ContainsPoint(v, slop) {
			pts = appendUnique(pts, ContactPoint{Position: v, Separation: -depth})
		}
	}
	if len(pts) == 0 {
		// Edge-edge: approximate with the midpoint of the closest features.
		pa := ClosestPointOnOBB(a, b.Center)
		pb := ClosestPointOnOBB(b, a.Center)
		pts = append(pts, ContactPoint{Position: rl.Vector3Lerp(pa, pb, 0.5), Separation: -depth})
	}
	if len(pts) > MaxManifoldPoints {
		pts = pts[:MaxManifoldPoints]
	}
	return Contact{Normal: n, Points: pts}, true
}

// MaxManifoldPoints caps the points kept per shape pair.
const MaxManifoldPoints = 8

func appendUnique(pts []ContactPoint, p ContactPoint) []ContactPoint {
	for _, q := range pts {
		if rl.Vector3LengthSqr(rl.Vector3Subtract(q.Position, p.Position)) < 1e-8 {
			return pts
		}
	}
	return append(pts, p)
}
