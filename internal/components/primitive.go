package components

import (
	"log"

	"physbridge/internal/collision"
	"physbridge/internal/engine"
	"physbridge/internal/physics"
)

// PhysicsWorld is what primitives need from the world that owns their scene.
type PhysicsWorld interface {
	PhysicsScene() *physics.Scene
	RegisterCollider(c physics.Collider)
	UnregisterCollider(c physics.Collider)
}

func physicsWorldOf(g *engine.GameObject) PhysicsWorld {
	if g == nil || g.Scene == nil {
		return nil
	}
	w, _ := g.Scene.World.(PhysicsWorld)
	return w
}

// Primitive is the physics-facing half of every collider component. It owns
// the BodyInstance, the overlap tracker and the component-level delegates.
// Concrete colliders embed it and call init from their constructor.
type Primitive struct {
	engine.BaseComponent
	Body *physics.BodyInstance

	// GenerateOverlapEvents enables the polling overlap tracker.
	GenerateOverlapEvents bool
	// BlockHits makes polled overlaps also fire OnActorHit.
	BlockHits bool

	events     engine.PrimitiveEvents
	tracker    *physics.OverlapTracker
	self       physics.Collider
	setup      func() *physics.BodySetup
	registered PhysicsWorld
}

func (p *Primitive) init(self physics.Collider, setup func() *physics.BodySetup) {
	p.Body = physics.NewBodyInstance()
	p.GenerateOverlapEvents = true
	p.self = self
	p.setup = setup
	p.tracker = physics.NewOverlapTracker(self)
}

func (p *Primitive) primitive() *Primitive { return p }

func (p *Primitive) GetWorldTransform() engine.Transform {
	g := p.GetGameObject()
	if g == nil {
		return engine.IdentityTransform()
	}
	return g.WorldTransform()
}

func (p *Primitive) SetWorldTransform(t engine.Transform) {
	if g := p.GetGameObject(); g != nil {
		g.SetWorldTransform(t)
	}
}

func (p *Primitive) ComponentEvents() *engine.PrimitiveEvents { return &p.events }

func (p *Primitive) GeneratesOverlapEvents() bool { return p.GenerateOverlapEvents }

func (p *Primitive) PhysicsBody() *physics.BodyInstance { return p.Body }

func (p *Primitive) BlocksHits() bool {
	return p.BlockHits && !p.Body.IsTrigger
}

func (p *Primitive) CollisionShapes() []collision.Shape {
	setup := p.BodySetup()
	if setup == nil {
		return nil
	}
	return setup.AggGeom.CollisionShapes(p.GetWorldTransform())
}

// BodySetup is the geometry the next CreatePhysicsState will use.
func (p *Primitive) BodySetup() *physics.BodySetup {
	if p.setup == nil {
		return nil
	}
	return p.setup()
}

func (p *Primitive) Start() {
	g := p.GetGameObject()
	w := physicsWorldOf(g)
	if w == nil {
		return
	}
	if p.registered == nil {
		w.RegisterCollider(p.self)
		p.registered = w
	}
	if rb := engine.GetComponent[*Rigidbody](g); rb != nil {
		rb.configure(p)
	}
	p.CreatePhysicsState()
}

func (p *Primitive) OnDestroy() {
	p.DestroyPhysicsState()
	p.tracker.Reset()
	if p.registered != nil {
		p.registered.UnregisterCollider(p.self)
		p.registered = nil
	}
}

// CreatePhysicsState builds the native body in the world's physics scene.
// Worlds without one (previews, editors) keep the collider query-only.
func (p *Primitive) CreatePhysicsState() bool {
	w := physicsWorldOf(p.GetGameObject())
	if w == nil {
		return false
	}
	scene := w.PhysicsScene()
	if !scene.IsInitialized() {
		return false
	}
	return p.Body.InitBody(p.BodySetup(), p.GetWorldTransform(), p.self, scene)
}

func (p *Primitive) DestroyPhysicsState() {
	p.Body.TermBody()
}

// RecreatePhysicsState rebuilds a live body, picking up geometry or
// simulation changes.
func (p *Primitive) RecreatePhysicsState() {
	if !p.Body.IsInitialized() {
		return
	}
	p.DestroyPhysicsState()
	if !p.CreatePhysicsState() {
		log.Printf("Physics: could not recreate body for %s", p.name())
	}
}

func (p *Primitive) SetSimulatePhysics(simulate bool) {
	p.Body.SetSimulatePhysics(simulate)
}

func (p *Primitive) SetIsTrigger(trigger bool) {
	p.Body.SetIsTrigger(trigger)
}

func (p *Primitive) TickOverlaps(w physics.OverlapWorld) {
	p.tracker.Tick(w)
}

func (p *Primitive) OverlapInfos() []engine.OverlapInfo { return p.tracker.OverlapInfos() }

func (p *Primitive) IsOverlappingActor(g *engine.GameObject) bool {
	return p.tracker.IsOverlappingActor(g)
}

func (p *Primitive) name() string {
	if g := p.GetGameObject(); g != nil {
		return g.Name
	}
	return "<detached>"
}

func (p *Primitive) serializeBody(data map[string]any) map[string]any {
	b := p.Body
	data["simulatePhysics"] = b.SimulatePhysics
	data["enableGravity"] = b.EnableGravity
	data["isTrigger"] = b.IsTrigger
	data["massInKg"] = b.MassInKg
	data["linearDamping"] = b.LinearDamping
	data["angularDamping"] = b.AngularDamping
	data["generateOverlapEvents"] = p.GenerateOverlapEvents
	data["blockHits"] = p.BlockHits
	return data
}

func (p *Primitive) deserializeBody(data map[string]any) {
	b := p.Body
	readBool(data, "simulatePhysics", &b.SimulatePhysics)
	readBool(data, "enableGravity", &b.EnableGravity)
	readBool(data, "isTrigger", &b.IsTrigger)
	readFloat(data, "massInKg", &b.MassInKg)
	readFloat(data, "linearDamping", &b.LinearDamping)
	readFloat(data, "angularDamping", &b.AngularDamping)
	readBool(data, "generateOverlapEvents", &p.GenerateOverlapEvents)
	readBool(data, "blockHits", &p.BlockHits)
}
