package native

import (
	"errors"
	"math"
	"testing"
)

type recorder struct {
	contacts []ContactPair
	headers  []ContactPairHeader
	triggers []TriggerPair
}

func (r *recorder) OnContact(h ContactPairHeader, pairs []ContactPair) {
	for _, p := range pairs {
		r.headers = append(r.headers, h)
		r.contacts = append(r.contacts, p)
	}
}

func (r *recorder) OnTrigger(pairs []TriggerPair) {
	r.triggers = append(r.triggers, pairs...)
}

func (r *recorder) count(ev PairEvents) int {
	n := 0
	for _, p := range r.contacts {
		if p.Events&ev != 0 {
			n++
		}
	}
	return n
}

func near(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) < float64(eps)
}

func newTestScene(t *testing.T) (*Physics, *Scene, *recorder) {
	t.Helper()
	p, err := CreatePhysics(DefaultTolerances())
	if err != nil {
		t.Fatalf("CreatePhysics failed: %v", err)
	}
	rec := &recorder{}
	desc := DefaultSceneDesc()
	desc.Callback = rec
	s, err := p.CreateScene(desc)
	if err != nil {
		t.Fatalf("CreateScene failed: %v", err)
	}
	return p, s, rec
}

func addBox(t *testing.T, p *Physics, s *Scene, pos Vec3, half Vec3, dynamic bool, mat *Material) Actor {
	t.Helper()
	shape, err := p.CreateShape(BoxGeometry{HalfExtents: half}, mat)
	if err != nil {
		t.Fatalf("CreateShape failed: %v", err)
	}
	var a Actor
	if dynamic {
		d := p.CreateRigidDynamic(NewTransform(pos, IdentityQuat()))
		if err := d.AttachShape(shape); err != nil {
			t.Fatal(err)
		}
		d.UpdateMassAndInertia(1000)
		a = d
	} else {
		a = p.CreateRigidStatic(NewTransform(pos, IdentityQuat()))
		if err := a.AttachShape(shape); err != nil {
			t.Fatal(err)
		}
	}
	if err := s.AddActor(a); err != nil {
		t.Fatalf("AddActor failed: %v", err)
	}
	return a
}

func step(s *Scene, n int) {
	for i := 0; i < n; i++ {
		_ = s.Simulate(1.0 / 60)
		s.FetchResults(true)
	}
}

func TestCreatePhysicsInvalidTolerances(t *testing.T) {
	if _, err := CreatePhysics(Tolerances{}); err == nil {
		t.Error("Expected error for zero tolerances")
	}
}

func TestBoxMassFromDensity(t *testing.T) {
	p, _ := CreatePhysics(DefaultTolerances())
	mat := p.CreateMaterial(0.5, 0.5, 0.6)
	shape, _ := p.CreateShape(BoxGeometry{HalfExtents: V(0.5, 0.5, 0.5)}, mat)
	d := p.CreateRigidDynamic(IdentityTransform())
	_ = d.AttachShape(shape)

	if !d.UpdateMassAndInertia(1000) {
		t.Fatal("UpdateMassAndInertia should succeed with a simulation shape")
	}
	if !near(d.Mass(), 1000, 1e-3) {
		t.Errorf("Expected mass 1000, got %f", d.Mass())
	}
	// Solid cube: I = m*(a^2+a^2)/12 with a = 1.
	want := float32(1000.0 / 6.0)
	if i := d.MassSpaceInertiaTensor(); !near(i.X, want, 1e-2) || !near(i.Y, want, 1e-2) {
		t.Errorf("Expected inertia %f, got %v", want, i)
	}

	if !d.SetMassAndUpdateInertia(10) || !near(d.Mass(), 10, 1e-5) {
		t.Errorf("Expected explicit mass 10, got %f", d.Mass())
	}
}

func TestCapsuleMassLargerThanSphere(t *testing.T) {
	sm, _ := SphereGeometry{Radius: 0.5}.massProperties(1000)
	cm, _ := CapsuleGeometry{Radius: 0.5, HalfHeight: 0.5}.massProperties(1000)
	if cm <= sm {
		t.Errorf("Capsule mass %f should exceed sphere mass %f", cm, sm)
	}
}

func TestCookConvexMeshErrors(t *testing.T) {
	p, _ := CreatePhysics(DefaultTolerances())

	if _, err := p.CookConvexMesh(nil, nil); !errors.Is(err, ErrEmptyVertexData) {
		t.Errorf("Expected ErrEmptyVertexData, got %v", err)
	}

	flat := []Vec3{V(0, 0, 0), V(1, 0, 0), V(0, 0, 1), V(1, 0, 1)}
	if _, err := p.CookConvexMesh(flat, nil); !errors.Is(err, ErrDegenerateHull) {
		t.Errorf("Expected ErrDegenerateHull, got %v", err)
	}

	tetra := []Vec3{V(0, 0, 0), V(1, 0, 0), V(0, 1, 0), V(0, 0, 1)}
	if _, err := p.CookConvexMesh(tetra, []uint32{0, 1, 9}); !errors.Is(err, ErrInvalidGeometry) {
		t.Errorf("Expected ErrInvalidGeometry for bad index, got %v", err)
	}
	m, err := p.CookConvexMesh(tetra, []uint32{0, 1, 2, 0, 1, 3, 0, 2, 3, 1, 2, 3})
	if err != nil {
		t.Fatalf("CookConvexMesh failed: %v", err)
	}
	if m.VertexCount() != 4 {
		t.Errorf("Expected 4 vertices, got %d", m.VertexCount())
	}
}

func TestReleasedPhysicsRefusesObjects(t *testing.T) {
	p, _ := CreatePhysics(DefaultTolerances())
	p.Release()
	if p.CreateRigidDynamic(IdentityTransform()) != nil {
		t.Error("Released physics should not create actors")
	}
	if _, err := p.CreateScene(DefaultSceneDesc()); !errors.Is(err, ErrNotInitialized) {
		t.Errorf("Expected ErrNotInitialized, got %v", err)
	}
}

func TestAddActorTwice(t *testing.T) {
	p, s, _ := newTestScene(t)
	mat := p.CreateMaterial(0.5, 0.5, 0)
	a := addBox(t, p, s, V(0, 0, 0), V(0.5, 0.5, 0.5), true, mat)
	if err := s.AddActor(a); !errors.Is(err, ErrActorInScene) {
		t.Errorf("Expected ErrActorInScene, got %v", err)
	}
}

func TestBoxSettlesOnGround(t *testing.T) {
	p, s, rec := newTestScene(t)
	mat := p.CreateMaterial(0.5, 0.5, 0)
	addBox(t, p, s, V(0, -0.5, 0), V(10, 0.5, 10), false, mat)
	box := addBox(t, p, s, V(0, 2, 0), V(0.5, 0.5, 0.5), true, mat).(*RigidDynamic)

	step(s, 240)

	if y := box.GlobalPose().P.Y; !near(y, 0.5, 0.05) {
		t.Errorf("Expected box resting at y=0.5, got %f", y)
	}
	if rec.count(TouchFound) == 0 {
		t.Error("Expected a TouchFound contact report")
	}
	for _, c := range rec.contacts {
		if c.Events&TouchFound == 0 {
			continue
		}
		buf := make([]ContactPairPoint, 64)
		n := c.ExtractContacts(buf)
		if n == 0 {
			t.Fatal("TouchFound should carry contact points")
		}
		var total Vec3
		for _, pt := range buf[:n] {
			total = total.Add(pt.Impulse)
		}
		if total.Length() == 0 {
			t.Error("Expected a non-zero impulse on first touch")
		}
		break
	}
}

func TestTriggerFoundAndLost(t *testing.T) {
	p, s, rec := newTestScene(t)
	mat := p.CreateMaterial(0.5, 0.5, 0)
	trigger := addBox(t, p, s, V(0, 0, 0), V(1, 1, 1), false, mat)
	trigger.Shapes()[0].SetFlag(ShapeTrigger, true)

	ball, _ := p.CreateShape(SphereGeometry{Radius: 0.25}, mat)
	d := p.CreateRigidDynamic(NewTransform(V(0, 3, 0), IdentityQuat()))
	_ = d.AttachShape(ball)
	d.UpdateMassAndInertia(1000)
	_ = s.AddActor(d)

	step(s, 120)

	if len(rec.contacts) != 0 {
		t.Errorf("Trigger overlap should not produce contacts, got %d", len(rec.contacts))
	}
	if len(rec.triggers) != 2 {
		t.Fatalf("Expected found+lost trigger reports, got %d", len(rec.triggers))
	}
	if rec.triggers[0].Status != TouchFound || rec.triggers[1].Status != TouchLost {
		t.Errorf("Unexpected trigger order: %v then %v", rec.triggers[0].Status, rec.triggers[1].Status)
	}
	if rec.triggers[0].TriggerActor != trigger || rec.triggers[0].OtherActor != Actor(d) {
		t.Error("Trigger pair sides are swapped")
	}
}

func TestRemoveActorReportsLost(t *testing.T) {
	p, s, rec := newTestScene(t)
	mat := p.CreateMaterial(0.5, 0.5, 0)
	ground := addBox(t, p, s, V(0, -0.5, 0), V(10, 0.5, 10), false, mat)
	addBox(t, p, s, V(0, 0.49, 0), V(0.5, 0.5, 0.5), true, mat)

	step(s, 1)
	if rec.count(TouchFound) != 1 {
		t.Fatalf("Expected one TouchFound, got %d", rec.count(TouchFound))
	}

	rec.contacts, rec.headers = nil, nil
	s.RemoveActor(ground)
	if !s.FetchResults(true) {
		t.Fatal("FetchResults should deliver queued removal reports")
	}
	if rec.count(TouchLost) != 1 {
		t.Fatalf("Expected one TouchLost, got %d", rec.count(TouchLost))
	}
	h := rec.headers[0]
	removedIdx := 0
	if h.Actors[1] == ground {
		removedIdx = 1
	}
	want := RemovedActor0
	if removedIdx == 1 {
		want = RemovedActor1
	}
	if h.Flags&want == 0 {
		t.Errorf("Expected removed flag on ground side, got %b", h.Flags)
	}
	if ground.Scene() != nil {
		t.Error("Removed actor should have no scene")
	}
}

func TestForceModes(t *testing.T) {
	p, s, _ := newTestScene(t)
	mat := p.CreateMaterial(0.5, 0.5, 0)
	d := addBox(t, p, s, V(0, 10, 0), V(0.5, 0.5, 0.5), true, mat).(*RigidDynamic)
	d.SetGravityDisabled(true)
	d.SetMassAndUpdateInertia(2)

	d.AddForce(V(4, 0, 0), ForceModeImpulse)
	if v := d.LinearVelocity(); !near(v.X, 2, 1e-5) {
		t.Errorf("Impulse should change velocity immediately, got %v", v)
	}

	d.SetLinearVelocity(Vec3{})
	d.AddForce(V(0, 0, 3), ForceModeVelocityChange)
	if v := d.LinearVelocity(); !near(v.Z, 3, 1e-5) {
		t.Errorf("Velocity change should ignore mass, got %v", v)
	}

	d.SetLinearVelocity(Vec3{})
	d.AddForce(V(120, 0, 0), ForceModeForce)
	if v := d.LinearVelocity(); !v.IsZero() {
		t.Errorf("Force should wait for the next step, got %v", v)
	}
	step(s, 1)
	if v := d.LinearVelocity(); !near(v.X, 1, 1e-3) {
		t.Errorf("Expected 120N/2kg for 1/60s = 1 m/s, got %v", v)
	}
}

func TestBodyFallsAsleep(t *testing.T) {
	p, s, _ := newTestScene(t)
	mat := p.CreateMaterial(0.5, 0.5, 0)
	d := addBox(t, p, s, V(0, 10, 0), V(0.5, 0.5, 0.5), true, mat).(*RigidDynamic)
	d.SetGravityDisabled(true)

	step(s, 40)
	if !d.IsSleeping() {
		t.Error("Resting body should fall asleep after the sleep time")
	}
	if st := s.Stats(); st.NumActiveActors != 0 || st.NumDynamicActors != 1 {
		t.Errorf("Unexpected stats %+v", st)
	}

	d.AddForce(V(1, 0, 0), ForceModeImpulse)
	if d.IsSleeping() {
		t.Error("Impulse should wake the body")
	}
}

func TestSceneRaycast(t *testing.T) {
	p, s, _ := newTestScene(t)
	mat := p.CreateMaterial(0.5, 0.5, 0)
	near1 := addBox(t, p, s, V(0, 0, -5), V(0.5, 0.5, 0.5), false, mat)
	addBox(t, p, s, V(0, 0, -10), V(0.5, 0.5, 0.5), false, mat)

	hit, ok := s.Raycast(V(0, 0, 0), V(0, 0, -1), 100)
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Actor != near1 {
		t.Error("Expected the closest actor")
	}
	if !near(hit.Distance, 4.5, 1e-3) {
		t.Errorf("Expected distance 4.5, got %f", hit.Distance)
	}
	if !near(hit.Normal.Z, 1, 1e-4) {
		t.Errorf("Expected normal +Z, got %v", hit.Normal)
	}
}
