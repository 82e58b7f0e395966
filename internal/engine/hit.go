package engine

import rl "github.com/gen2brain/raylib-go/raylib"

// HitResult describes a single blocking contact or sweep result.
type HitResult struct {
	Actor            *GameObject
	Component        Component
	Location         rl.Vector3
	ImpactPoint      rl.Vector3
	Normal           rl.Vector3
	ImpactNormal     rl.Vector3
	PenetrationDepth float32
	Time             float32
	BlockingHit      bool
	StartPenetrating bool
}

// HitEvent is delivered to OnComponentHit and OnActorHit listeners. Self is the
// receiving component; Other and OtherActor name the peer.
type HitEvent struct {
	Self          Component
	OtherActor    *GameObject
	Other         Component
	NormalImpulse rl.Vector3
	Hit           HitResult
}

// OverlapEvent is delivered to begin/end overlap listeners.
type OverlapEvent struct {
	Self       Component
	OtherActor *GameObject
	Other      Component
	FromSweep  bool
	Sweep      HitResult
}

// OverlapInfo is one entry in a component's published overlap list.
type OverlapInfo struct {
	Component Component
	Actor     *GameObject
}

// PrimitiveEvents are the component-level collision delegates.
type PrimitiveEvents struct {
	OnComponentHit          EventWithArg[HitEvent]
	OnComponentBeginOverlap EventWithArg[OverlapEvent]
	OnComponentEndOverlap   EventWithArg[OverlapEvent]
}

// ActorEvents are the owner-level collision delegates.
type ActorEvents struct {
	OnActorHit          EventWithArg[HitEvent]
	OnActorBeginOverlap EventWithArg[OverlapEvent]
	OnActorEndOverlap   EventWithArg[OverlapEvent]
}
