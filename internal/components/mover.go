package components

import (
	"physbridge/internal/engine"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
)

func init() {
	engine.RegisterComponent("Mover", func() engine.Serializable {
		return NewMover(0, 1, 45)
	})
}

// Mover drives its GameObject around a horizontal circle and spins it about
// the up axis. Colliders on a moved object should not simulate; their
// bodies follow the GameObject each tick.
type Mover struct {
	engine.BaseComponent
	Radius        float32 // circle radius
	Speed         float32 // radians per second along the circle
	SpinSpeed     float32 // degrees per second about +Z
	Phase         float32
	startPosition rl.Vector3
	time          float32
	started       bool
}

func NewMover(radius, speed, spinSpeed float32) *Mover {
	return &Mover{Radius: radius, Speed: speed, SpinSpeed: spinSpeed}
}

func (m *Mover) Start() {
	if g := m.GetGameObject(); g != nil {
		m.startPosition = g.Transform.Position
		m.started = true
	}
}

func (m *Mover) Update(deltaTime float32) {
	g := m.GetGameObject()
	if g == nil {
		return
	}
	if !m.started {
		m.Start()
	}
	m.time += deltaTime

	t := m.time*m.Speed + m.Phase
	offset := rl.Vector3{
		X: math32.Cos(t) * m.Radius,
		Y: math32.Sin(t) * m.Radius,
	}
	g.Transform.Position = rl.Vector3Add(m.startPosition, offset)

	angle := m.time * m.SpinSpeed * rl.Deg2rad
	g.Transform.Rotation = rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, angle)
}

func (m *Mover) TypeName() string {
	return "Mover"
}

func (m *Mover) Serialize() map[string]any {
	return map[string]any{
		"type":      "Mover",
		"radius":    m.Radius,
		"speed":     m.Speed,
		"spinSpeed": m.SpinSpeed,
		"phase":     m.Phase,
	}
}

func (m *Mover) Deserialize(data map[string]any) {
	readFloat(data, "radius", &m.Radius)
	readFloat(data, "speed", &m.Speed)
	readFloat(data, "spinSpeed", &m.SpinSpeed)
	readFloat(data, "phase", &m.Phase)
}
