package components

import (
	"slices"
	"testing"

	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// fakeWorld hosts a real physics scene without the world package.
type fakeWorld struct {
	scene     *physics.Scene
	colliders []physics.Collider
}

func (w *fakeWorld) PhysicsScene() *physics.Scene { return w.scene }

func (w *fakeWorld) RegisterCollider(c physics.Collider) {
	w.colliders = append(w.colliders, c)
}

func (w *fakeWorld) UnregisterCollider(c physics.Collider) {
	if i := slices.Index(w.colliders, c); i >= 0 {
		w.colliders = slices.Delete(w.colliders, i, i+1)
	}
}

func newFakeWorld(t *testing.T) (*fakeWorld, *engine.Scene) {
	t.Helper()
	core := physics.NewCore(physics.DefaultCoreConfig())
	if err := core.Init(); err != nil {
		t.Fatalf("core init failed: %v", err)
	}
	w := &fakeWorld{scene: physics.NewScene(core, physics.DefaultSceneConfig())}
	if err := w.scene.Init(w); err != nil {
		t.Fatalf("scene init failed: %v", err)
	}
	s := engine.NewScene("test")
	s.World = w
	t.Cleanup(func() {
		w.scene.Term()
		core.Shutdown()
	})
	return w, s
}

func TestDefaultSizedCollidersShareSetup(t *testing.T) {
	a := NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	b := NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	c := NewBoxCollider(rl.Vector3{X: 2, Y: 1, Z: 1})

	if !a.SharesSetup() || a.BodySetup() != b.BodySetup() {
		t.Error("Unit boxes should share one setup")
	}
	if c.SharesSetup() || c.BodySetup() == a.BodySetup() {
		t.Error("A resized box should own its setup")
	}
	if got := c.BodySetup().AggGeom.BoxElems[0].X; got != 2 {
		t.Errorf("Expected extent 2, got %v", got)
	}

	c.SetSize(rl.Vector3{X: 1, Y: 1, Z: 1})
	if !c.SharesSetup() {
		t.Error("Reverting to the default size should share again")
	}
}

func TestFieldEditsReevaluateSetup(t *testing.T) {
	s := NewSphereCollider(0.5)
	if !s.SharesSetup() {
		t.Fatal("Default sphere should share")
	}
	s.Radius = 2
	if s.SharesSetup() {
		t.Error("Editing Radius directly should diverge on next use")
	}
	if got := s.BodySetup().AggGeom.SphereElems[0].Radius; got != 2 {
		t.Errorf("Expected radius 2, got %v", got)
	}
}

func TestCapsuleSetup(t *testing.T) {
	c := NewCapsuleCollider(0.3, 1)
	e := c.BodySetup().AggGeom.SphylElems[0]
	if e.Radius != 0.3 || e.Length != 2 {
		t.Errorf("Expected radius 0.3 and length 2, got %+v", e)
	}
	if NewCapsuleCollider(0.5, 0.5).BodySetup() != capsuleArchetype.Setup {
		t.Error("Default capsule should use the archetype")
	}
}

func TestStartCreatesBodyAndRegisters(t *testing.T) {
	w, scene := newFakeWorld(t)
	g := engine.NewGameObject("crate")
	g.Transform.Position = rl.Vector3{Z: 2}
	box := NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	g.AddComponent(box)
	rb := NewRigidbody()
	rb.Mass = 3
	rb.Bounciness = 0.9
	g.AddComponent(rb)
	scene.AddGameObject(g)
	g.Start()

	if !box.Body.IsInScene() {
		t.Fatalf("Expected body in scene, got %v", box.Body.State())
	}
	if len(w.colliders) != 1 {
		t.Errorf("Expected 1 registered collider, got %d", len(w.colliders))
	}
	if !box.Body.SimulatePhysics || box.Body.GetMass() != 3 {
		t.Errorf("Rigidbody should configure a 3kg simulated body, got %v kg", box.Body.GetMass())
	}
	if m := box.Body.Material; m == nil || m.Params().Restitution != 0.9 {
		t.Error("Rigidbody should give the collider its own material")
	}
	if box.Body.Owner() != physics.Owner(box) {
		t.Error("Body owner should be the collider itself")
	}

	scene.RemoveGameObject(g)
	if box.Body.IsInitialized() {
		t.Error("OnDestroy should release the body")
	}
	if len(w.colliders) != 0 {
		t.Errorf("Expected collider to be unregistered, got %d", len(w.colliders))
	}
}

func TestRigidbodySharesMaterial(t *testing.T) {
	_, scene := newFakeWorld(t)
	g := engine.NewGameObject("dumbbell")
	left := NewSphereCollider(0.5)
	right := NewSphereCollider(0.5)
	g.AddComponent(left)
	g.AddComponent(right)
	rb := NewRigidbody()
	g.AddComponent(rb)
	scene.AddGameObject(g)
	g.Start()

	m := left.Body.Material
	if m == nil || right.Body.Material != m {
		t.Fatal("Expected both colliders to share the rigidbody material")
	}

	rb.configure(left.primitive())
	if left.Body.Material != m {
		t.Error("Reconfiguring with unchanged settings should reuse the material")
	}

	rb.Friction = 0.9
	rb.configure(left.primitive())
	if left.Body.Material == m || left.Body.Material.Params().StaticFriction != 0.9 {
		t.Error("A friction change should create a new material")
	}
}

func TestSetSizeRecreatesLiveBody(t *testing.T) {
	_, scene := newFakeWorld(t)
	g := engine.NewGameObject("box")
	box := NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	g.AddComponent(box)
	scene.AddGameObject(g)
	g.Start()

	box.SetSize(rl.Vector3{X: 4, Y: 4, Z: 4})
	if !box.Body.IsInScene() {
		t.Fatal("Body should be back in the scene")
	}
	hit, ok := box.Body.Scene().LineTraceSingle(rl.Vector3{Z: 10}, rl.Vector3{Z: -10})
	if !ok || hit.ImpactPoint.Z < 1.99 || hit.ImpactPoint.Z > 2.01 {
		t.Errorf("Expected the resized box top at z=2, got %+v", hit)
	}
}

func TestTriggerOverlapMode(t *testing.T) {
	_, scene := newFakeWorld(t)
	g := engine.NewGameObject("zone")
	box := NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	box.Body.IsTrigger = true
	g.AddComponent(box)

	scene.AddGameObject(g)
	g.Start()
	if !box.GeneratesOverlapEvents() {
		t.Error("A trigger in the scene should still poll non-dynamic peers")
	}
	if box.PhysicsBody() != box.Body || !box.Body.IsInScene() {
		t.Error("Expected the collider to expose its live body")
	}
	box.BlockHits = true
	if box.BlocksHits() {
		t.Error("Triggers never block")
	}

	box.SetIsTrigger(false)
	if box.Body.IsTrigger {
		t.Error("Expected the trigger flag to be recorded")
	}
	hit, ok := box.Body.Scene().LineTraceSingle(rl.Vector3{Z: 10}, rl.Vector3{Z: -10})
	if ok {
		t.Errorf("Live trigger shapes should stay invisible to traces until re-init, got %+v", hit)
	}
	box.RecreatePhysicsState()
	if _, ok := box.Body.Scene().LineTraceSingle(rl.Vector3{Z: 10}, rl.Vector3{Z: -10}); !ok {
		t.Error("Expected the rebuilt solid box to block traces")
	}
}

func TestDeserializeAcceptsIntegers(t *testing.T) {
	b := NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	b.Deserialize(map[string]any{
		"size":            []any{2, 3.5, 4},
		"simulatePhysics": true,
		"massInKg":        7,
		"linearDamping":   0.2,
		"blockHits":       true,
	})
	if b.Size != (rl.Vector3{X: 2, Y: 3.5, Z: 4}) {
		t.Errorf("Expected size (2, 3.5, 4), got %v", b.Size)
	}
	if !b.Body.SimulatePhysics || b.Body.MassInKg != 7 || b.Body.LinearDamping != 0.2 || !b.BlockHits {
		t.Errorf("Unexpected body params %+v", b.Body)
	}

	c := NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	c.Deserialize(b.Serialize())
	if c.Size != b.Size || c.Body.MassInKg != 7 {
		t.Errorf("Expected serialized params to carry over, got %v %v", c.Size, c.Body.MassInKg)
	}
}

func TestConvexDeserialize(t *testing.T) {
	c := NewConvexCollider(nil, nil)
	c.Deserialize(map[string]any{
		"vertices": []any{
			[]any{0, 0, 0}, []any{1, 0, 0}, []any{0, 1, 0}, []any{0, 0, 1},
		},
	})
	if len(c.Vertices) != 4 || c.Vertices[3] != (rl.Vector3{Z: 1}) {
		t.Errorf("Unexpected vertices %v", c.Vertices)
	}
	if n := len(c.BodySetup().AggGeom.ConvexElems); n != 1 {
		t.Errorf("Expected one convex element, got %d", n)
	}
}

func TestModelVerticesEmptyModel(t *testing.T) {
	if v := ModelVertices(rl.Model{}); v != nil {
		t.Errorf("Expected no vertices, got %d", len(v))
	}
}

func TestMoverCircles(t *testing.T) {
	g := engine.NewGameObject("m")
	g.Transform.Position = rl.Vector3{X: 1, Y: 1, Z: 1}
	m := NewMover(2, 1, 90)
	g.AddComponent(m)
	g.Start()

	m.Update(0)
	if p := g.Transform.Position; p.X != 3 || p.Y != 1 {
		t.Errorf("Expected (3, 1), got %v", p)
	}
	m.Update(1)
	fwd := g.Transform.Forward()
	if fwd.Y < 0.99 {
		t.Errorf("Expected a quarter turn to face +Y, got %v", fwd)
	}
}
