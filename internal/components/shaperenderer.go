package components

import (
	"physbridge/internal/collision"
	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ShapeRenderer draws the collision shapes of every collider on its
// GameObject. Call Draw between BeginMode3D and EndMode3D.
type ShapeRenderer struct {
	engine.BaseComponent
	Color      rl.Color
	SleepColor rl.Color
	Wireframe  bool
}

func NewShapeRenderer(color rl.Color) *ShapeRenderer {
	return &ShapeRenderer{
		Color:      color,
		SleepColor: rl.Gray,
	}
}

func (m *ShapeRenderer) Draw() {
	g := m.GetGameObject()
	if g == nil || !g.Active {
		return
	}
	for _, c := range g.Components() {
		h, ok := c.(interface{ primitive() *Primitive })
		if !ok {
			continue
		}
		p := h.primitive()
		color := m.Color
		if p.Body.IsSleeping() {
			color = m.SleepColor
		}
		for _, s := range p.CollisionShapes() {
			m.drawShape(s, color)
		}
	}
}

func (m *ShapeRenderer) drawShape(s collision.Shape, color rl.Color) {
	switch shape := s.(type) {
	case collision.OBB:
		drawOBB(shape, color, m.Wireframe)
	case collision.Sphere:
		center := physics.ToRenderVec(shape.Center)
		if m.Wireframe {
			rl.DrawSphereWires(center, shape.Radius, 8, 12, color)
		} else {
			rl.DrawSphere(center, shape.Radius, color)
		}
	case collision.Capsule:
		a, b := physics.ToRenderVec(shape.A), physics.ToRenderVec(shape.B)
		if m.Wireframe {
			rl.DrawCapsuleWires(a, b, shape.Radius, 8, 4, color)
		} else {
			rl.DrawCapsule(a, b, shape.Radius, 8, 4, color)
		}
	}
}

// Corner i of an OBB has bit k set when it lies on the + side of axis k,
// so edges join corners that differ in exactly one bit.
func drawOBB(o collision.OBB, color rl.Color, wireframe bool) {
	var v [8]rl.Vector3
	for i, p := range o.Vertices() {
		v[i] = physics.ToRenderVec(p)
	}
	if !wireframe {
		// both windings; the frame change mirrors handedness
		faces := [6][4]int{
			{0, 2, 6, 4}, {1, 5, 7, 3},
			{0, 4, 5, 1}, {2, 3, 7, 6},
			{0, 1, 3, 2}, {4, 6, 7, 5},
		}
		for _, f := range faces {
			rl.DrawTriangle3D(v[f[0]], v[f[1]], v[f[2]], color)
			rl.DrawTriangle3D(v[f[0]], v[f[2]], v[f[3]], color)
			rl.DrawTriangle3D(v[f[0]], v[f[2]], v[f[1]], color)
			rl.DrawTriangle3D(v[f[0]], v[f[3]], v[f[2]], color)
		}
		return
	}
	for i := 0; i < 8; i++ {
		for bit := 1; bit < 8; bit <<= 1 {
			if j := i | bit; j != i {
				rl.DrawLine3D(v[i], v[j], color)
			}
		}
	}
}
