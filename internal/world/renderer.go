package world

import (
	"physbridge/internal/collision"
	"physbridge/internal/components"
	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws every ShapeRenderer in the scene, skipping objects whose
// collision bounds fall outside the view frustum.
type Renderer struct {
	GridSlices  int32
	GridSpacing float32

	drawn, culled int
}

func NewRenderer() *Renderer {
	return &Renderer{GridSlices: 40, GridSpacing: 1}
}

// Draw renders objects with camera. It must run between BeginDrawing and
// EndDrawing.
func (r *Renderer) Draw(camera rl.Camera3D, objects []*engine.GameObject) {
	aspect := float32(rl.GetScreenWidth()) / float32(max(rl.GetScreenHeight(), 1))
	frustum := ExtractFrustum(camera, aspect)
	r.drawn, r.culled = 0, 0

	rl.BeginMode3D(camera)
	rl.DrawGrid(r.GridSlices, r.GridSpacing)
	for _, g := range objects {
		sr := engine.GetComponent[*components.ShapeRenderer](g)
		if sr == nil {
			continue
		}
		if b, ok := objectBounds(g); ok && !frustum.ContainsAABB(b) {
			r.culled++
			continue
		}
		sr.Draw()
		r.drawn++
	}
	rl.EndMode3D()
}

func (r *Renderer) Drawn() int  { return r.drawn }
func (r *Renderer) Culled() int { return r.culled }

// objectBounds is the render-space box around every collider on g.
func objectBounds(g *engine.GameObject) (collision.AABB, bool) {
	box := collision.EmptyAABB()
	for _, c := range engine.GetComponents[physics.Collider](g) {
		for _, s := range c.CollisionShapes() {
			b := s.Bounds()
			box = box.ExtendPoint(physics.ToRenderVec(b.Min)).ExtendPoint(physics.ToRenderVec(b.Max))
		}
	}
	return box, !box.IsEmpty()
}
