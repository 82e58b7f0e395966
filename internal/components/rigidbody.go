package components

import (
	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Rigidbody", func() engine.Serializable {
		return NewRigidbody()
	})
}

// Rigidbody marks a GameObject's colliders as simulated and carries the body
// parameters they should start with. It only configures; the native body
// lives on each collider's BodyInstance.
type Rigidbody struct {
	engine.BaseComponent
	Mass           float32 // kg; 0 derives mass from density
	Bounciness     float32 // 0 = no bounce, 1 = perfect bounce
	Friction       float32 // used for both static and dynamic friction
	LinearDamping  float32
	AngularDamping float32
	UseGravity     bool
	IsKinematic    bool // follows its GameObject instead of simulating

	material    *physics.Material
	materialKey rigidbodyMaterial
}

// rigidbodyMaterial is what the cached material was created from.
type rigidbodyMaterial struct {
	core                 *physics.Core
	friction, bounciness float32
}

func NewRigidbody() *Rigidbody {
	return &Rigidbody{
		Bounciness:     0.5,
		Friction:       0.5,
		LinearDamping:  0.01,
		AngularDamping: 0.05,
		UseGravity:     true,
	}
}

// configure copies the parameters onto a sibling collider before its body
// is created.
func (r *Rigidbody) configure(p *Primitive) {
	b := p.Body
	b.SimulatePhysics = !r.IsKinematic
	b.EnableGravity = r.UseGravity
	b.MassInKg = max(r.Mass, 0)
	b.LinearDamping = r.LinearDamping
	b.AngularDamping = r.AngularDamping

	w := physicsWorldOf(r.GetGameObject())
	if w == nil {
		return
	}
	scene := w.PhysicsScene()
	if scene == nil {
		return
	}
	b.Material = r.materialFor(scene.Core())
}

// materialFor returns one material per core and surface setting, shared by
// every collider this rigidbody configures.
func (r *Rigidbody) materialFor(core *physics.Core) *physics.Material {
	if !core.IsInitialized() {
		return nil
	}
	key := rigidbodyMaterial{core: core, friction: r.Friction, bounciness: r.Bounciness}
	if r.material == nil || r.materialKey != key {
		r.material = core.CreateMaterial(r.Friction, r.Friction, r.Bounciness)
		r.materialKey = key
	}
	return r.material
}

// Colliders returns the primitives this rigidbody configures.
func (r *Rigidbody) Colliders() []*Primitive {
	g := r.GetGameObject()
	if g == nil {
		return nil
	}
	var out []*Primitive
	for _, c := range g.Components() {
		if h, ok := c.(interface{ primitive() *Primitive }); ok {
			out = append(out, h.primitive())
		}
	}
	return out
}

// AddImpulse applies an impulse to every simulated collider.
func (r *Rigidbody) AddImpulse(impulse rl.Vector3, velChange bool) {
	for _, p := range r.Colliders() {
		p.Body.AddImpulse(impulse, velChange)
	}
}

// TypeName implements engine.Serializable
func (r *Rigidbody) TypeName() string {
	return "Rigidbody"
}

// Serialize implements engine.Serializable
func (r *Rigidbody) Serialize() map[string]any {
	return map[string]any{
		"type":           "Rigidbody",
		"mass":           r.Mass,
		"bounciness":     r.Bounciness,
		"friction":       r.Friction,
		"linearDamping":  r.LinearDamping,
		"angularDamping": r.AngularDamping,
		"useGravity":     r.UseGravity,
		"isKinematic":    r.IsKinematic,
	}
}

// Deserialize implements engine.Serializable
func (r *Rigidbody) Deserialize(data map[string]any) {
	readFloat(data, "mass", &r.Mass)
	readFloat(data, "bounciness", &r.Bounciness)
	readFloat(data, "friction", &r.Friction)
	readFloat(data, "linearDamping", &r.LinearDamping)
	readFloat(data, "angularDamping", &r.AngularDamping)
	readBool(data, "useGravity", &r.UseGravity)
	readBool(data, "isKinematic", &r.IsKinematic)
}
