package physics

import (
	"testing"

	"physbridge/internal/engine"
	"physbridge/internal/physics/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func recordHits(c *testComp) *[]engine.HitEvent {
	var hits []engine.HitEvent
	c.events.OnComponentHit.AddListener(func(e engine.HitEvent) {
		hits = append(hits, e)
	})
	return &hits
}

func recordOverlaps(c *testComp) (begins, ends *int) {
	var b, e int
	c.events.OnComponentBeginOverlap.AddListener(func(engine.OverlapEvent) { b++ })
	c.events.OnComponentEndOverlap.AddListener(func(engine.OverlapEvent) { e++ })
	return &b, &e
}

func TestContactBroadcastsSymmetricHit(t *testing.T) {
	s := newTestScene(t)
	_, ground := addBody(t, s, NewBoxSetup(rl.Vector3{X: 20, Y: 20, Z: 1}), rl.Vector3{}, false)
	_, box := addBody(t, s, NewBoxSetup(rl.Vector3{X: 1, Y: 1, Z: 1}), rl.Vector3{Z: 2}, true)
	groundHits := recordHits(ground)
	boxHits := recordHits(box)

	for i := 0; i < 120; i++ {
		s.Simulate(1.0 / 60)
	}

	if len(*boxHits) == 0 {
		t.Fatal("Expected the falling box to report a hit")
	}
	if len(*boxHits) != len(*groundHits) {
		t.Errorf("Hit counts differ: box %d, ground %d", len(*boxHits), len(*groundHits))
	}
	if s.Events().TotalContactEvents() != uint64(len(*boxHits)) {
		t.Errorf("Expected %d contact events, got %d", len(*boxHits), s.Events().TotalContactEvents())
	}

	bh, gh := (*boxHits)[0], (*groundHits)[0]
	if bh.Other != engine.Component(ground) || bh.OtherActor != ground.GetGameObject() {
		t.Error("Box hit should name the ground")
	}
	if gh.Other != engine.Component(box) || gh.Self != engine.Component(ground) {
		t.Error("Ground hit should name the box")
	}
	if !nearVec(bh.NormalImpulse, rl.Vector3Negate(gh.NormalImpulse)) {
		t.Errorf("Impulses should be opposite: %v vs %v", bh.NormalImpulse, gh.NormalImpulse)
	}
	if bh.NormalImpulse.Z <= 0 {
		t.Errorf("Ground should push the box up, got %v", bh.NormalImpulse)
	}
	if bh.Hit.ImpactNormal.Z <= 0 {
		t.Errorf("Box impact normal should face up, got %v", bh.Hit.ImpactNormal)
	}
	if !bh.Hit.BlockingHit || bh.Hit.Actor != ground.GetGameObject() {
		t.Error("Hit result should be a blocking hit against the ground")
	}
}

func TestTriggerBroadcastsBeginAndEnd(t *testing.T) {
	s := newTestScene(t)

	zone := NewBodyInstance()
	zone.IsTrigger = true
	zoneComp := newTestComp("zone", rl.Vector3{})
	if !zone.InitBody(NewBoxSetup(rl.Vector3{X: 2, Y: 2, Z: 2}), zoneComp.GetWorldTransform(), zoneComp, s) {
		t.Fatal("InitBody failed")
	}
	_, ball := addBody(t, s, NewSphereSetup(0.25), rl.Vector3{Z: 3}, true)

	zoneBegin, zoneEnd := recordOverlaps(zoneComp)
	ballBegin, ballEnd := recordOverlaps(ball)
	var peer *engine.GameObject
	zoneComp.events.OnComponentBeginOverlap.AddListener(func(e engine.OverlapEvent) { peer = e.OtherActor })

	for i := 0; i < 120; i++ {
		s.Simulate(1.0 / 60)
	}

	if *zoneBegin != 1 || *ballBegin != 1 {
		t.Errorf("Expected one begin per side, got zone=%d ball=%d", *zoneBegin, *ballBegin)
	}
	if *zoneEnd != 1 || *ballEnd != 1 {
		t.Errorf("Expected one end per side, got zone=%d ball=%d", *zoneEnd, *ballEnd)
	}
	if peer != ball.GetGameObject() {
		t.Error("Zone should see the ball as the overlapping actor")
	}
	if s.Events().TotalTriggerEvents() != 2 {
		t.Errorf("Expected 2 trigger events, got %d", s.Events().TotalTriggerEvents())
	}
}

func TestContactIgnoresRemovedAndUnknownActors(t *testing.T) {
	s := newTestScene(t)
	b, c := addBody(t, s, NewSphereSetup(0.5), rl.Vector3{}, true)
	hits := recordHits(c)
	stray := s.core.physics.CreateRigidStatic(native.IdentityTransform())

	cb := s.Events()
	pairs := []native.ContactPair{{Events: native.TouchFound}}
	cb.OnContact(native.ContactPairHeader{Actors: [2]native.Actor{b.actor, stray}}, pairs)
	cb.OnContact(native.ContactPairHeader{
		Actors: [2]native.Actor{b.actor, b.actor},
		Flags:  native.RemovedActor1,
	}, pairs)

	if len(*hits) != 0 {
		t.Errorf("Expected no hits, got %d", len(*hits))
	}
	if cb.unresolved != 1 {
		t.Errorf("Expected one unresolved report, got %d", cb.unresolved)
	}
}

func TestExtractHitResultFlip(t *testing.T) {
	points := []native.ContactPairPoint{{
		Position:   native.V(1, 2, 3),
		Separation: -0.1,
		Normal:     native.V(0, 1, 0),
	}}
	first := ExtractHitResult(points, nil, false)
	second := ExtractHitResult(points, nil, true)

	if !nearVec(first.ImpactNormal, rl.Vector3{Z: 1}) {
		t.Errorf("Expected +Z normal, got %v", first.ImpactNormal)
	}
	if !nearVec(second.ImpactNormal, rl.Vector3{Z: -1}) {
		t.Errorf("Expected -Z normal, got %v", second.ImpactNormal)
	}
	if !nearVec(first.ImpactPoint, rl.Vector3{X: -3, Y: 1, Z: 2}) {
		t.Errorf("Expected converted point, got %v", first.ImpactPoint)
	}
	if !near(first.PenetrationDepth, 0.1) || !first.StartPenetrating {
		t.Errorf("Expected penetration 0.1, got %v", first.PenetrationDepth)
	}
}
