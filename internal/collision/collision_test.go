package collision

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func near(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-4
}

func TestAABBResolve(t *testing.T) {
	a := NewAABBFromCenter(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	b := NewAABBFromCenter(rl.Vector3{X: 1.5}, rl.Vector3{X: 2, Y: 2, Z: 2})

	push := a.Resolve(b)
	if !near(push.X, -0.5) || push.Y != 0 || push.Z != 0 {
		t.Errorf("Expected push (-0.5,0,0), got %v", push)
	}

	far := NewAABBFromCenter(rl.Vector3{X: 10}, rl.Vector3{X: 1, Y: 1, Z: 1})
	if a.Intersects(far) {
		t.Error("Distant boxes should not intersect")
	}
}

func TestEmptyAABBUnion(t *testing.T) {
	box := NewAABBFromCenter(rl.Vector3{X: 1}, rl.Vector3{X: 2, Y: 2, Z: 2})
	u := EmptyAABB().Union(box)
	if u != box {
		t.Errorf("Expected %v, got %v", box, u)
	}
	if !EmptyAABB().IsEmpty() {
		t.Error("EmptyAABB should be empty")
	}
}

func TestOBBRotatedSeparation(t *testing.T) {
	rot := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, math.Pi/4)
	a := NewOBB(rl.Vector3{}, rl.Vector3{X: 0.5, Y: 0.5, Z: 0.5}, rot)

	// The rotated corner reaches ~0.707 along X.
	touching := NewAABBasOBB(rl.Vector3{X: 1.1}, rl.Vector3{X: 1, Y: 1, Z: 1})
	if !a.IntersectsOBB(touching) {
		t.Error("Rotated box corner should reach neighbour")
	}
	apart := NewAABBasOBB(rl.Vector3{X: 1.3}, rl.Vector3{X: 1, Y: 1, Z: 1})
	if a.IntersectsOBB(apart) {
		t.Error("Boxes should be separated")
	}
}

func TestCollideSphereSphere(t *testing.T) {
	a := Sphere{Center: rl.Vector3{}, Radius: 1}
	b := Sphere{Center: rl.Vector3{X: 1.5}, Radius: 1}

	c, ok := Collide(a, b)
	if !ok {
		t.Fatal("Expected contact")
	}
	if !near(c.Normal.X, 1) {
		t.Errorf("Expected normal +X, got %v", c.Normal)
	}
	if !near(c.Depth(), 0.5) {
		t.Errorf("Expected depth 0.5, got %f", c.Depth())
	}

	flipped, _ := Collide(b, a)
	if !near(flipped.Normal.X, -1) {
		t.Errorf("Expected normal -X when swapped, got %v", flipped.Normal)
	}
}

func TestCollideSphereInsideBox(t *testing.T) {
	box := NewAABBasOBB(rl.Vector3{}, rl.Vector3{X: 4, Y: 4, Z: 4})
	s := Sphere{Center: rl.Vector3{Y: 1.5}, Radius: 0.25}

	c, ok := Collide(s, box)
	if !ok {
		t.Fatal("Expected contact")
	}
	// Nearest face is +Y, so the sphere leaves upward and the box sits below it.
	if !near(c.Normal.Y, -1) {
		t.Errorf("Expected normal -Y, got %v", c.Normal)
	}
	if !near(c.Depth(), 0.75) {
		t.Errorf("Expected depth 0.75, got %f", c.Depth())
	}
}

func TestCollideBoxOnBoxManifold(t *testing.T) {
	ground := NewAABBasOBB(rl.Vector3{Y: -0.5}, rl.Vector3{X: 10, Y: 1, Z: 10})
	crate := NewAABBasOBB(rl.Vector3{Y: 0.45}, rl.Vector3{X: 1, Y: 1, Z: 1})

	c, ok := Collide(crate, ground)
	if !ok {
		t.Fatal("Expected contact")
	}
	if !near(c.Normal.Y, -1) {
		t.Errorf("Expected normal pointing down into ground, got %v", c.Normal)
	}
	if len(c.Points) != 4 {
		t.Errorf("Expected 4 face contact points, got %d", len(c.Points))
	}
	if !near(c.Depth(), 0.05) {
		t.Errorf("Expected depth 0.05, got %f", c.Depth())
	}
}

func TestCollideCapsuleLyingOnBox(t *testing.T) {
	ground := NewAABBasOBB(rl.Vector3{Y: -0.5}, rl.Vector3{X: 10, Y: 1, Z: 10})
	capsule := NewCapsule(rl.Vector3{Y: 0.4}, rl.Vector3{X: 1}, 1, 0.5)

	c, ok := Collide(capsule, ground)
	if !ok {
		t.Fatal("Expected contact")
	}
	if len(c.Points) < 2 {
		t.Errorf("Expected both capsule ends to touch, got %d points", len(c.Points))
	}
}

func TestOverlapsDisjoint(t *testing.T) {
	a := Capsule{A: rl.Vector3{}, B: rl.Vector3{Z: 2}, Radius: 0.5}
	b := Sphere{Center: rl.Vector3{X: 3, Z: 1}, Radius: 0.5}
	if Overlaps(a, b) {
		t.Error("Expected no overlap")
	}
	b.Center.X = 0.9
	if !Overlaps(a, b) {
		t.Error("Expected overlap")
	}
}

func TestRaycastShapes(t *testing.T) {
	down := rl.Vector3{Z: -1}
	origin := rl.Vector3{Z: 10}

	box := NewAABBasOBB(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	hit, ok := Raycast(box, origin, down, 100)
	if !ok || !near(hit.Distance, 9) || !near(hit.Normal.Z, 1) {
		t.Errorf("Box: expected hit at 9 with +Z normal, got %v %v", ok, hit)
	}

	sphere := Sphere{Center: rl.Vector3{}, Radius: 2}
	hit, ok = Raycast(sphere, origin, down, 100)
	if !ok || !near(hit.Distance, 8) {
		t.Errorf("Sphere: expected hit at 8, got %v %v", ok, hit)
	}

	capsule := NewCapsule(rl.Vector3{}, rl.Vector3{X: 1}, 2, 0.5)
	hit, ok = Raycast(capsule, origin, down, 100)
	if !ok || math.Abs(float64(hit.Distance-9.5)) > 1e-3 {
		t.Errorf("Capsule: expected hit at 9.5, got %v %v", ok, hit)
	}

	if _, ok := Raycast(sphere, origin, down, 5); ok {
		t.Error("Hit beyond max distance should be rejected")
	}
	if _, ok := Raycast(sphere, rl.Vector3{X: 10, Z: 10}, down, 100); ok {
		t.Error("Ray passing beside the sphere should miss")
	}
}

func TestRaycastFromInside(t *testing.T) {
	box := NewAABBasOBB(rl.Vector3{}, rl.Vector3{X: 2, Y: 2, Z: 2})
	hit, ok := Raycast(box, rl.Vector3{}, rl.Vector3{X: 1}, 10)
	if !ok || hit.Distance != 0 {
		t.Errorf("Expected zero-distance hit from inside, got %v %v", ok, hit)
	}
}
