package components

import (
	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("BoxCollider", func() engine.Serializable {
		return NewBoxCollider(rl.Vector3{X: 1, Y: 1, Z: 1})
	})
}

// Unit boxes share one setup; any other size gets a private copy.
var boxArchetype = physics.NewArchetype(
	physics.NewBoxSetup(rl.Vector3{X: 1, Y: 1, Z: 1}),
	rl.Vector3{X: 1, Y: 1, Z: 1},
	func(s *physics.BodySetup, size rl.Vector3) {
		e := &s.AggGeom.BoxElems[0]
		e.X, e.Y, e.Z = size.X, size.Y, size.Z
	},
)

// BoxCollider is a box primitive. Size is the full extent along each
// engine axis.
type BoxCollider struct {
	Primitive
	Size rl.Vector3

	own *physics.SetupOwnership[rl.Vector3]
}

func NewBoxCollider(size rl.Vector3) *BoxCollider {
	b := &BoxCollider{Size: size, own: physics.NewSetupOwnership(boxArchetype)}
	b.init(b, b.bodySetup)
	return b
}

func (b *BoxCollider) bodySetup() *physics.BodySetup {
	b.own.Update(b.Size)
	return b.own.Setup()
}

// SetSize changes the extent and rebuilds a live body.
func (b *BoxCollider) SetSize(size rl.Vector3) {
	b.Size = size
	if b.own.Update(size) {
		b.RecreatePhysicsState()
	}
}

// SharesSetup reports whether the collider still uses the shared unit box.
func (b *BoxCollider) SharesSetup() bool {
	b.own.Update(b.Size)
	return b.own.IsShared()
}

func (b *BoxCollider) TypeName() string {
	return "BoxCollider"
}

func (b *BoxCollider) Serialize() map[string]any {
	return b.serializeBody(map[string]any{
		"type": "BoxCollider",
		"size": vec3List(b.Size),
	})
}

func (b *BoxCollider) Deserialize(data map[string]any) {
	readVec3(data, "size", &b.Size)
	b.deserializeBody(data)
}
