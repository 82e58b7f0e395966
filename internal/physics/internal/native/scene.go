package native

import (
	"fmt"
	"log"

	"physbridge/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/sync/errgroup"
)

// SleepSettings control when resting dynamics stop simulating.
type SleepSettings struct {
	LinearThreshold  float32 // m/s
	AngularThreshold float32 // rad/s
	Time             float32 // seconds below both thresholds before sleeping
}

type SceneDesc struct {
	Gravity          Vec3
	WorkerThreads    int
	SolverIterations int
	Sleep            SleepSettings
	// BounceThreshold is the approach speed below which restitution is ignored.
	BounceThreshold float32
	Callback        SimulationEventCallback
}

func DefaultSceneDesc() SceneDesc {
	return SceneDesc{
		Gravity:          V(0, -9.81, 0),
		WorkerThreads:    4,
		SolverIterations: 8,
		Sleep:            SleepSettings{LinearThreshold: 0.05, AngularThreshold: 0.05, Time: 0.5},
		BounceThreshold:  1,
	}
}

// SceneStats counts actors by kind. Active means an awake dynamic.
type SceneStats struct {
	NumActiveActors  int
	NumStaticActors  int
	NumDynamicActors int
}

// narrowBatch is the number of pairs handed to one worker.
const narrowBatch = 64

type narrowResult struct {
	contact collision.Contact
	hit     bool
}

type Scene struct {
	physics *Physics
	desc    SceneDesc
	actors  []Actor
	bp      *broadPhase

	touching map[pairKey]shapePair // solid pairs in contact after the last step
	overlaps map[pairKey]shapePair // trigger pairs overlapping after the last step

	pendingContacts []pendingContact
	pendingTriggers []TriggerPair

	simulating bool
	released   bool
	steps      uint64
}

// CreateScene validates desc and builds an empty scene.
func (p *Physics) CreateScene(desc SceneDesc) (*Scene, error) {
	if p.IsReleased() {
		return nil, fmt.Errorf("native: create scene: %w", ErrNotInitialized)
	}
	if desc.WorkerThreads < 1 {
		desc.WorkerThreads = 1
	}
	if desc.SolverIterations < 1 {
		desc.SolverIterations = 1
	}
	p.scenes.Add(1)
	return &Scene{
		physics:  p,
		desc:     desc,
		bp:       newBroadPhase(),
		touching: make(map[pairKey]shapePair),
		overlaps: make(map[pairKey]shapePair),
	}, nil
}

// Release removes every actor and invalidates the scene.
func (s *Scene) Release() {
	if s.released {
		return
	}
	for len(s.actors) > 0 {
		s.RemoveActor(s.actors[len(s.actors)-1])
	}
	s.pendingContacts = nil
	s.pendingTriggers = nil
	s.released = true
	s.physics.scenes.Add(-1)
}

func (s *Scene) IsReleased() bool { return s.released }

func (s *Scene) SetGravity(g Vec3) { s.desc.Gravity = g }
func (s *Scene) Gravity() Vec3     { return s.desc.Gravity }

func (s *Scene) SetSimulationEventCallback(cb SimulationEventCallback) { s.desc.Callback = cb }

// StepCount is the number of completed Simulate calls.
func (s *Scene) StepCount() uint64 { return s.steps }

func (s *Scene) Actors() []Actor { return s.actors }

// AddActor inserts a into the scene. Sleeping state is preserved.
func (s *Scene) AddActor(a Actor) error {
	if s.released {
		return fmt.Errorf("native: add actor: scene released")
	}
	if a == nil {
		return fmt.Errorf("native: add actor: nil actor")
	}
	b := a.base()
	if b.released {
		return fmt.Errorf("native: add actor %d: %w", b.id, ErrActorReleased)
	}
	if b.scene != nil {
		return fmt.Errorf("native: add actor %d: %w", b.id, ErrActorInScene)
	}
	b.scene = s
	s.actors = append(s.actors, a)
	return nil
}

// RemoveActor takes a out of the scene. Pairs it was part of are reported as
// lost with the removed flags set on the next FetchResults.
func (s *Scene) RemoveActor(a Actor) {
	if a == nil || a.base().scene != s {
		return
	}
	for i, other := range s.actors {
		if other == a {
			s.actors = append(s.actors[:i], s.actors[i+1:]...)
			break
		}
	}
	for _, pair := range sortedPairs(s.touching) {
		if pair.a.actor != a && pair.b.actor != a {
			continue
		}
		delete(s.touching, pair.key())
		cp := ContactPair{Shapes: [2]*Shape{pair.a, pair.b}, Events: TouchLost}
		h := ContactPairHeader{Actors: [2]Actor{pair.a.actor, pair.b.actor}}
		if pair.a.actor == a {
			h.Flags |= RemovedActor0
			cp.Flags |= RemovedShape0
		}
		if pair.b.actor == a {
			h.Flags |= RemovedActor1
			cp.Flags |= RemovedShape1
		}
		s.pendingContacts = append(s.pendingContacts, pendingContact{header: h, pairs: []ContactPair{cp}})
	}
	for _, pair := range sortedPairs(s.overlaps) {
		if pair.a.actor != a && pair.b.actor != a {
			continue
		}
		delete(s.overlaps, pair.key())
		tp := triggerPairOf(pair, TouchLost)
		if tp.TriggerActor == a {
			tp.Flags |= RemovedShapeTrigger
		}
		if tp.OtherActor == a {
			tp.Flags |= RemovedShapeOther
		}
		s.pendingTriggers = append(s.pendingTriggers, tp)
	}
	a.base().scene = nil
}

func triggerPairOf(pair shapePair, status PairEvents) TriggerPair {
	trig, other := pair.a, pair.b
	if !trig.IsTrigger() {
		trig, other = other, trig
	}
	return TriggerPair{
		TriggerShape: trig,
		TriggerActor: trig.actor,
		OtherShape:   other,
		OtherActor:   other.actor,
		Status:       status,
	}
}

func (s *Scene) Stats() SceneStats {
	var st SceneStats
	for _, a := range s.actors {
		switch d := a.(type) {
		case *RigidStatic:
			st.NumStaticActors++
		case *RigidDynamic:
			st.NumDynamicActors++
			if !d.sleeping {
				st.NumActiveActors++
			}
		}
	}
	return st
}

func isAwake(a Actor) bool {
	d, ok := a.(*RigidDynamic)
	return ok && !d.sleeping
}

// pairActive reports whether a pair needs narrow phase this step.
func pairActive(a, b *Shape) bool {
	return isAwake(a.actor) || isAwake(b.actor)
}

// Simulate advances the scene by dt. Results and events become visible
// through FetchResults.
func (s *Scene) Simulate(dt float32) error {
	if s.released {
		return fmt.Errorf("native: simulate: scene released")
	}
	if dt <= 0 {
		return fmt.Errorf("native: simulate %v: %w", dt, ErrInvalidTimestep)
	}
	s.simulating = true

	dynamics := make([]*RigidDynamic, 0, len(s.actors))
	for _, a := range s.actors {
		if d, ok := a.(*RigidDynamic); ok && !d.sleeping {
			dynamics = append(dynamics, d)
		}
	}

	// 1. Apply gravity and accumulated forces, then damping.
	for _, d := range dynamics {
		acc := d.force
		if !d.disableGravity {
			acc = acc.Add(s.desc.Gravity)
		}
		d.linearVelocity = d.linearVelocity.Add(acc.Scale(dt))
		d.angularVelocity = d.angularVelocity.Add(d.torque.Scale(dt))
		d.linearVelocity = d.linearVelocity.Scale(1 / (1 + dt*d.linearDamping))
		d.angularVelocity = d.angularVelocity.Scale(1 / (1 + dt*d.angularDamping))
		d.force, d.torque = Vec3{}, Vec3{}
	}

	// 2. Broad phase over every shape that simulates or triggers.
	var proxies []proxy
	index := make(map[*Shape]int)
	for _, a := range s.actors {
		for _, sh := range a.Shapes() {
			if sh.flags&(ShapeSimulation|ShapeTrigger) == 0 {
				continue
			}
			prim := sh.primitive()
			if prim == nil {
				continue
			}
			index[sh] = len(proxies)
			proxies = append(proxies, proxy{shape: sh, prim: prim, bounds: prim.Bounds()})
		}
	}
	pairs := s.bp.findPairs(proxies, func(a, b *Shape) bool {
		if a.IsTrigger() && b.IsTrigger() {
			return false
		}
		return pairActive(a, b)
	})

	// 3. Narrow phase on the worker pool. Results are indexed by pair so the
	// merge below is deterministic.
	results := make([]narrowResult, len(pairs))
	var g errgroup.Group
	g.SetLimit(s.desc.WorkerThreads)
	for start := 0; start < len(pairs); start += narrowBatch {
		end := min(start+narrowBatch, len(pairs))
		g.Go(func() error {
			for i := start; i < end; i++ {
				pa := proxies[index[pairs[i].a]].prim
				pb := proxies[index[pairs[i].b]].prim
				if pairs[i].a.IsTrigger() || pairs[i].b.IsTrigger() {
					results[i].hit = collision.Overlaps(pa, pb)
					continue
				}
				results[i].contact, results[i].hit = collision.Collide(pa, pb)
			}
			return nil
		})
	}
	_ = g.Wait()

	// 4. Build and solve contact constraints.
	wakeThreshold := s.desc.Sleep.LinearThreshold * 2
	constraints := make([]*contactConstraint, len(pairs))
	for i, pair := range pairs {
		if !results[i].hit || pair.a.IsTrigger() || pair.b.IsTrigger() {
			continue
		}
		wakeOnImpact(pair.a.actor, pair.b.actor, wakeThreshold)
		constraints[i] = newConstraint(pair.a.actor, pair.b.actor, pair.a.material, pair.b.material,
			results[i].contact, dt, s.desc.BounceThreshold)
	}
	for it := 0; it < s.desc.SolverIterations; it++ {
		for _, c := range constraints {
			if c != nil {
				c.solve()
			}
		}
	}

	// 5. Integrate poses and update sleep state.
	for _, d := range dynamics {
		if d.sleeping {
			continue
		}
		d.pose.P = d.pose.P.Add(d.linearVelocity.Scale(dt))
		w := d.angularVelocity
		spin := Quat{X: w.X, Y: w.Y, Z: w.Z}.Mul(d.pose.Q)
		q := d.pose.Q
		d.pose.Q = Quat{
			X: q.X + 0.5*dt*spin.X,
			Y: q.Y + 0.5*dt*spin.Y,
			Z: q.Z + 0.5*dt*spin.Z,
			W: q.W + 0.5*dt*spin.W,
		}.Normalize()
		d.trySleep(dt, s.desc.Sleep)
	}

	// 6. Diff pair state into events.
	s.diffPairs(pairs, results, constraints)
	s.steps++
	return nil
}

func (s *Scene) diffPairs(pairs []shapePair, results []narrowResult, constraints []*contactConstraint) {
	touching := make(map[pairKey]shapePair, len(s.touching))
	overlaps := make(map[pairKey]shapePair, len(s.overlaps))

	for i, pair := range pairs {
		if !results[i].hit {
			continue
		}
		k := pair.key()
		if pair.a.IsTrigger() || pair.b.IsTrigger() {
			overlaps[k] = pair
			if _, was := s.overlaps[k]; !was {
				s.pendingTriggers = append(s.pendingTriggers, triggerPairOf(pair, TouchFound))
			}
			continue
		}
		touching[k] = pair
		ev := TouchFound
		if _, was := s.touching[k]; was {
			ev = TouchPersists
		}
		s.queueContact(pair, ev, constraints[i].report())
	}

	// Pairs that dropped out of the candidate list because nothing in them is
	// awake keep their state.
	for _, pair := range sortedPairs(s.touching) {
		k := pair.key()
		if _, still := touching[k]; still {
			continue
		}
		if !pairActive(pair.a, pair.b) {
			touching[k] = pair
			continue
		}
		s.queueContact(pair, TouchLost, nil)
	}
	for _, pair := range sortedPairs(s.overlaps) {
		k := pair.key()
		if _, still := overlaps[k]; still {
			continue
		}
		if !pairActive(pair.a, pair.b) {
			overlaps[k] = pair
			continue
		}
		s.pendingTriggers = append(s.pendingTriggers, triggerPairOf(pair, TouchLost))
	}

	s.touching = touching
	s.overlaps = overlaps
}

func (s *Scene) queueContact(pair shapePair, ev PairEvents, points []ContactPairPoint) {
	s.pendingContacts = append(s.pendingContacts, pendingContact{
		header: ContactPairHeader{Actors: [2]Actor{pair.a.actor, pair.b.actor}},
		pairs:  []ContactPair{{Shapes: [2]*Shape{pair.a, pair.b}, Events: ev, points: points}},
	})
}

// IsSimulating reports whether a step is waiting for FetchResults.
func (s *Scene) IsSimulating() bool { return s.simulating }

// FetchResults completes the step and delivers queued events to the
// callback. Steps run synchronously, so block has no effect; it returns
// false only when there is no step to complete and nothing queued.
func (s *Scene) FetchResults(block bool) bool {
	_ = block
	if !s.simulating && len(s.pendingContacts) == 0 && len(s.pendingTriggers) == 0 {
		return false
	}
	s.simulating = false

	contacts, triggers := s.pendingContacts, s.pendingTriggers
	s.pendingContacts, s.pendingTriggers = nil, nil

	cb := s.desc.Callback
	if cb == nil {
		return true
	}
	for _, pc := range contacts {
		cb.OnContact(pc.header, pc.pairs)
	}
	if len(triggers) > 0 {
		cb.OnTrigger(triggers)
	}
	if n := len(contacts) + len(triggers); n > 0 && s.steps%600 == 0 {
		log.Printf("Physics: step %d delivered %d contact and %d trigger report(s)", s.steps, len(contacts), len(triggers))
	}
	return true
}

// RaycastHit is the closest scene-query hit along a ray.
type RaycastHit struct {
	Actor    Actor
	Shape    *Shape
	Position Vec3
	Normal   Vec3
	Distance float32
}

// Raycast returns the closest scene-query shape hit by the ray. Triggers are
// skipped.
func (s *Scene) Raycast(origin, dir Vec3, maxDistance float32) (RaycastHit, bool) {
	dir = dir.Normalize()
	if dir.IsZero() || maxDistance <= 0 {
		return RaycastHit{}, false
	}
	var best RaycastHit
	found := false
	for _, a := range s.actors {
		for _, sh := range a.Shapes() {
			if sh.flags&ShapeSceneQuery == 0 || sh.IsTrigger() {
				continue
			}
			prim := sh.primitive()
			if prim == nil {
				continue
			}
			hit, ok := collision.Raycast(prim, rl.Vector3(origin), rl.Vector3(dir), maxDistance)
			if !ok || (found && hit.Distance >= best.Distance) {
				continue
			}
			best = RaycastHit{Actor: a, Shape: sh, Position: Vec3(hit.Point), Normal: Vec3(hit.Normal), Distance: hit.Distance}
			found = true
		}
	}
	return best, found
}
