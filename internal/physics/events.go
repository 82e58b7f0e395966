package physics

import (
	"log"

	"physbridge/internal/engine"
	"physbridge/internal/physics/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// maxContactPoints bounds how many points are read from one contact pair.
const maxContactPoints = 64

// EventCallback turns native contact and trigger reports into component
// delegates. Native reports are edge-triggered, so nothing is deduplicated
// here.
type EventCallback struct {
	scene *Scene
	buf   [maxContactPoints]native.ContactPairPoint

	contactEvents uint64
	triggerEvents uint64
	unresolved    uint64
}

func newEventCallback(s *Scene) *EventCallback {
	return &EventCallback{scene: s}
}

// TotalContactEvents counts hit broadcasts (one per new touch).
func (c *EventCallback) TotalContactEvents() uint64 { return c.contactEvents }

// TotalTriggerEvents counts trigger begin and end broadcasts.
func (c *EventCallback) TotalTriggerEvents() uint64 { return c.triggerEvents }

func (c *EventCallback) resolve(a native.Actor) Owner {
	b := c.scene.bodyFor(a)
	if b == nil {
		return nil
	}
	return b.owner
}

func (c *EventCallback) OnContact(h native.ContactPairHeader, pairs []native.ContactPair) {
	if h.Flags&(native.RemovedActor0|native.RemovedActor1) != 0 {
		return
	}
	comp0, comp1 := c.resolve(h.Actors[0]), c.resolve(h.Actors[1])
	if comp0 == nil || comp1 == nil {
		c.unresolved++
		log.Printf("Physics: contact between actors %d and %d has no owning component (%d total)",
			h.Actors[0].ID(), h.Actors[1].ID(), c.unresolved)
		return
	}

	for _, p := range pairs {
		if p.Flags&(native.RemovedShape0|native.RemovedShape1) != 0 {
			continue
		}
		if p.Events&native.TouchLost != 0 {
			log.Printf("Physics: touch lost between %s and %s", nameOf(comp0), nameOf(comp1))
			continue
		}
		if p.Events&native.TouchFound == 0 {
			continue
		}

		n := p.ExtractContacts(c.buf[:])
		points := c.buf[:n]
		var sum native.Vec3
		for _, pt := range points {
			sum = sum.Add(pt.Impulse)
		}
		impulse := ToEngineVec(sum)

		c.contactEvents++
		comp0.ComponentEvents().OnComponentHit.Invoke(engine.HitEvent{
			Self:          comp0,
			OtherActor:    comp1.GetGameObject(),
			Other:         comp1,
			NormalImpulse: impulse,
			Hit:           ExtractHitResult(points, comp1, false),
		})
		comp1.ComponentEvents().OnComponentHit.Invoke(engine.HitEvent{
			Self:          comp1,
			OtherActor:    comp0.GetGameObject(),
			Other:         comp0,
			NormalImpulse: rl.Vector3Negate(impulse),
			Hit:           ExtractHitResult(points, comp0, true),
		})
	}
}

func (c *EventCallback) OnTrigger(pairs []native.TriggerPair) {
	for _, tp := range pairs {
		if tp.Flags&(native.RemovedShapeTrigger|native.RemovedShapeOther) != 0 {
			continue
		}
		trig, other := c.resolve(tp.TriggerActor), c.resolve(tp.OtherActor)
		if trig == nil || other == nil {
			c.unresolved++
			log.Printf("Physics: trigger pair has no owning component (%d total)", c.unresolved)
			continue
		}

		trigEv := engine.OverlapEvent{Self: trig, OtherActor: other.GetGameObject(), Other: other}
		otherEv := engine.OverlapEvent{Self: other, OtherActor: trig.GetGameObject(), Other: trig}
		switch tp.Status {
		case native.TouchFound:
			c.triggerEvents++
			trig.ComponentEvents().OnComponentBeginOverlap.Invoke(trigEv)
			other.ComponentEvents().OnComponentBeginOverlap.Invoke(otherEv)
		case native.TouchLost:
			c.triggerEvents++
			trig.ComponentEvents().OnComponentEndOverlap.Invoke(trigEv)
			other.ComponentEvents().OnComponentEndOverlap.Invoke(otherEv)
		}
	}
}

// ExtractHitResult describes the first contact point as seen by the
// component hit by other. flip negates the normal for the second body of a
// pair.
func ExtractHitResult(points []native.ContactPairPoint, other Owner, flip bool) engine.HitResult {
	hr := engine.HitResult{BlockingHit: true}
	if other != nil {
		hr.Component = other
		hr.Actor = other.GetGameObject()
	}
	if len(points) == 0 {
		return hr
	}
	p := points[0]
	normal := ToEngineVec(p.Normal)
	if flip {
		normal = rl.Vector3Negate(normal)
	}
	hr.Location = ToEngineVec(p.Position)
	hr.ImpactPoint = hr.Location
	hr.Normal = normal
	hr.ImpactNormal = normal
	hr.PenetrationDepth = max(-p.Separation, 0)
	hr.StartPenetrating = p.Separation < 0
	return hr
}

func nameOf(c Owner) string {
	if g := c.GetGameObject(); g != nil {
		return g.Name
	}
	return "<detached>"
}
