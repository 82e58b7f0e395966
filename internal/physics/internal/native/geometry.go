package native

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Geometry is implemented by every shape description the SDK accepts.
type Geometry interface {
	IsValid() bool
	// massProperties returns mass and diagonal inertia about the geometry's
	// own origin for a uniform density.
	massProperties(density float32) (float32, Vec3)
}

type BoxGeometry struct {
	HalfExtents Vec3
}

func (g BoxGeometry) IsValid() bool {
	return g.HalfExtents.X > 0 && g.HalfExtents.Y > 0 && g.HalfExtents.Z > 0
}

func (g BoxGeometry) massProperties(density float32) (float32, Vec3) {
	h := g.HalfExtents
	return boxMass(h, density)
}

func boxMass(h Vec3, density float32) (float32, Vec3) {
	m := density * 8 * h.X * h.Y * h.Z
	k := m / 3
	return m, V(k*(h.Y*h.Y+h.Z*h.Z), k*(h.X*h.X+h.Z*h.Z), k*(h.X*h.X+h.Y*h.Y))
}

type SphereGeometry struct {
	Radius float32
}

func (g SphereGeometry) IsValid() bool { return g.Radius > 0 }

func (g SphereGeometry) massProperties(density float32) (float32, Vec3) {
	r := g.Radius
	m := density * 4.0 / 3.0 * math32.Pi * r * r * r
	i := 0.4 * m * r * r
	return m, V(i, i, i)
}

// CapsuleGeometry is aligned with the local X axis. HalfHeight is half the
// length of the cylindrical section.
type CapsuleGeometry struct {
	Radius     float32
	HalfHeight float32
}

func (g CapsuleGeometry) IsValid() bool { return g.Radius > 0 && g.HalfHeight >= 0 }

func (g CapsuleGeometry) massProperties(density float32) (float32, Vec3) {
	r, h := g.Radius, g.HalfHeight
	mc := density * math32.Pi * r * r * 2 * h
	ms := density * 4.0 / 3.0 * math32.Pi * r * r * r
	axial := mc*r*r/2 + ms*0.4*r*r
	H := 2 * h
	perp := mc*(H*H/12+r*r/4) + ms*(0.4*r*r+H*H/4+3*H*r/8)
	return mc + ms, V(axial, perp, perp)
}

// ConvexMeshGeometry instances a cooked mesh with a per-axis scale.
type ConvexMeshGeometry struct {
	Mesh  *ConvexMesh
	Scale Vec3
}

func (g ConvexMeshGeometry) IsValid() bool {
	return g.Mesh != nil && g.Scale.X != 0 && g.Scale.Y != 0 && g.Scale.Z != 0
}

// LocalBounds returns the scaled hull bounds in the shape frame.
func (g ConvexMeshGeometry) LocalBounds() (center, half Vec3) {
	lo := g.Mesh.min.Mul(g.Scale)
	hi := g.Mesh.max.Mul(g.Scale)
	center = lo.Add(hi).Scale(0.5)
	half = V(math32.Abs(hi.X-lo.X)/2, math32.Abs(hi.Y-lo.Y)/2, math32.Abs(hi.Z-lo.Z)/2)
	return center, half
}

func (g ConvexMeshGeometry) massProperties(density float32) (float32, Vec3) {
	_, half := g.LocalBounds()
	return boxMass(half, density)
}

// ConvexMesh is a cooked hull shared across shapes.
type ConvexMesh struct {
	vertices []Vec3
	indices  []uint32
	min, max Vec3
}

func (m *ConvexMesh) VertexCount() int { return len(m.vertices) }

// CookConvexMesh validates a point cloud and prepares it for instancing.
// Indices are optional; when present every index must address a vertex.
func (p *Physics) CookConvexMesh(vertices []Vec3, indices []uint32) (*ConvexMesh, error) {
	if p.IsReleased() {
		return nil, ErrNotInitialized
	}
	if len(vertices) == 0 {
		return nil, fmt.Errorf("native: cook convex: %w", ErrEmptyVertexData)
	}
	for _, i := range indices {
		if int(i) >= len(vertices) {
			return nil, fmt.Errorf("native: cook convex: index %d out of range: %w", i, ErrInvalidGeometry)
		}
	}
	if !hasVolume(vertices) {
		return nil, fmt.Errorf("native: cook convex: %d vertices: %w", len(vertices), ErrDegenerateHull)
	}
	m := &ConvexMesh{
		vertices: append([]Vec3(nil), vertices...),
		indices:  append([]uint32(nil), indices...),
		min:      vertices[0],
		max:      vertices[0],
	}
	for _, v := range vertices[1:] {
		m.min = V(min(m.min.X, v.X), min(m.min.Y, v.Y), min(m.min.Z, v.Z))
		m.max = V(max(m.max.X, v.X), max(m.max.Y, v.Y), max(m.max.Z, v.Z))
	}
	return m, nil
}

// hasVolume reports whether the cloud spans three dimensions.
func hasVolume(vs []Vec3) bool {
	const eps = 1e-6
	if len(vs) < 4 {
		return false
	}
	a := vs[0]
	var b Vec3
	best := float32(0)
	for _, v := range vs {
		if d := v.Sub(a).LengthSqr(); d > best {
			best, b = d, v
		}
	}
	if best < eps {
		return false
	}
	ab := b.Sub(a)
	var c Vec3
	best = 0
	for _, v := range vs {
		if d := ab.Cross(v.Sub(a)).LengthSqr(); d > best {
			best, c = d, v
		}
	}
	if best < eps {
		return false
	}
	n := ab.Cross(c.Sub(a)).Normalize()
	for _, v := range vs {
		if math32.Abs(n.Dot(v.Sub(a))) > eps {
			return true
		}
	}
	return false
}
