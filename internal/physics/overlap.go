package physics

import (
	"slices"

	"physbridge/internal/collision"
	"physbridge/internal/engine"
)

// Transition is the edge of an overlap.
type Transition uint8

const (
	BeginOverlap Transition = iota
	EndOverlap
)

func (t Transition) String() string {
	if t == BeginOverlap {
		return "begin"
	}
	return "end"
}

// Collider is a component the overlap tracker can test.
type Collider interface {
	engine.PrimitiveComponent
	GeneratesOverlapEvents() bool
	BlocksHits() bool
	// PhysicsBody is the collider's body, or nil if it has none.
	PhysicsBody() *BodyInstance
	// CollisionShapes returns world-space primitives in the engine frame.
	CollisionShapes() []collision.Shape
}

// OverlapWorld is what a tracker needs from its world.
type OverlapWorld interface {
	Colliders() []Collider
	// TryMarkOverlapPair claims the transition for the unordered owner pair.
	// It returns false if the pair was already claimed this tick.
	TryMarkOverlapPair(a, b *engine.GameObject, t Transition) bool
}

// OverlapTracker derives begin/end overlap transitions for one collider by
// testing it against every other collider each tick.
type OverlapTracker struct {
	self     Collider
	previous []Collider
	infos    []engine.OverlapInfo
}

func NewOverlapTracker(self Collider) *OverlapTracker {
	return &OverlapTracker{self: self}
}

// OverlapInfos is the set published by the last Tick.
func (t *OverlapTracker) OverlapInfos() []engine.OverlapInfo { return t.infos }

func (t *OverlapTracker) IsOverlappingActor(g *engine.GameObject) bool {
	for _, info := range t.infos {
		if info.Actor == g {
			return true
		}
	}
	return false
}

// Reset forgets all tracking state without broadcasting.
func (t *OverlapTracker) Reset() {
	t.previous = nil
	t.infos = nil
}

// Tick recomputes overlaps and broadcasts transitions claimed through w.
func (t *OverlapTracker) Tick(w OverlapWorld) {
	owner := t.self.GetGameObject()
	if w == nil || owner == nil || !t.self.GeneratesOverlapEvents() {
		t.Reset()
		return
	}

	selfShapes := t.self.CollisionShapes()
	var now []Collider
	for _, peer := range w.Colliders() {
		if peer == t.self || !peer.GeneratesOverlapEvents() {
			continue
		}
		po := peer.GetGameObject()
		if po == nil || po == owner || po.IsPendingDestroy() {
			continue
		}
		if reportedNatively(t.self, peer) {
			continue
		}
		if shapesOverlap(selfShapes, peer.CollisionShapes()) {
			now = append(now, peer)
		}
	}

	// Callers may hold the previous slice.
	t.infos = make([]engine.OverlapInfo, 0, len(now))
	for _, peer := range now {
		t.infos = append(t.infos, engine.OverlapInfo{Component: peer, Actor: peer.GetGameObject()})
	}

	for _, peer := range now {
		if !slices.Contains(t.previous, peer) {
			t.broadcast(w, peer, BeginOverlap)
		}
	}
	// Pending-destroy peers are never in now, so they end here exactly once.
	for _, peer := range t.previous {
		if !slices.Contains(now, peer) {
			t.broadcast(w, peer, EndOverlap)
		}
	}
	t.previous = now
}

func (t *OverlapTracker) broadcast(w OverlapWorld, peer Collider, tr Transition) {
	a, b := t.self.GetGameObject(), peer.GetGameObject()
	if b == nil || !w.TryMarkOverlapPair(a, b, tr) {
		return
	}
	selfEv := engine.OverlapEvent{Self: t.self, OtherActor: b, Other: peer}
	peerEv := engine.OverlapEvent{Self: peer, OtherActor: a, Other: t.self}

	switch tr {
	case BeginOverlap:
		t.self.ComponentEvents().OnComponentBeginOverlap.Invoke(selfEv)
		peer.ComponentEvents().OnComponentBeginOverlap.Invoke(peerEv)
		a.Events.OnActorBeginOverlap.Invoke(selfEv)
		b.Events.OnActorBeginOverlap.Invoke(peerEv)
		if t.self.BlocksHits() || peer.BlocksHits() {
			a.Events.OnActorHit.Invoke(engine.HitEvent{Self: t.self, OtherActor: b, Other: peer,
				Hit: engine.HitResult{Actor: b, Component: peer, BlockingHit: true}})
			b.Events.OnActorHit.Invoke(engine.HitEvent{Self: peer, OtherActor: a, Other: t.self,
				Hit: engine.HitResult{Actor: a, Component: t.self, BlockingHit: true}})
		}
	case EndOverlap:
		t.self.ComponentEvents().OnComponentEndOverlap.Invoke(selfEv)
		peer.ComponentEvents().OnComponentEndOverlap.Invoke(peerEv)
		a.Events.OnActorEndOverlap.Invoke(selfEv)
		b.Events.OnActorEndOverlap.Invoke(peerEv)
	}
}

// reportedNatively is true for pairs the native scene reports as trigger
// events: one live trigger and one dynamic body in the same scene.
func reportedNatively(a, b Collider) bool {
	ba, bb := a.PhysicsBody(), b.PhysicsBody()
	if ba == nil || bb == nil || !ba.IsInScene() || !bb.IsInScene() || ba.scene != bb.scene {
		return false
	}
	if ba.trigger == bb.trigger {
		return false
	}
	return ba.IsDynamic() || bb.IsDynamic()
}

func shapesOverlap(a, b []collision.Shape) bool {
	for _, sa := range a {
		ba := sa.Bounds()
		for _, sb := range b {
			if ba.Intersects(sb.Bounds()) && collision.Overlaps(sa, sb) {
				return true
			}
		}
	}
	return false
}
