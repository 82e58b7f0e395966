package world

import (
	"physbridge/internal/collision"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Frustum holds a camera's clip planes (left, right, bottom, top, near,
// far) in render space, normals pointing inward.
type Frustum struct {
	planes [6]plane
}

// plane is n·p + d = 0.
type plane struct {
	n rl.Vector3
	d float32
}

// ExtractFrustum reads the clip planes off the camera's view-projection
// matrix.
func ExtractFrustum(camera rl.Camera3D, aspect float32) Frustum {
	view := rl.GetCameraMatrix(camera)

	var proj rl.Matrix
	if camera.Projection == rl.CameraPerspective {
		proj = rl.MatrixPerspective(camera.Fovy*rl.Deg2rad, aspect, 0.1, 1000.0)
	} else {
		halfH := camera.Fovy / 2.0
		halfW := halfH * aspect
		proj = rl.MatrixOrtho(-halfW, halfW, -halfH, halfH, 0.1, 1000.0)
	}
	m := rl.MatrixMultiply(view, proj)

	// raylib matrices are column-major, so row i is M[i], M[4+i], M[8+i], M[12+i].
	rows := [4][4]float32{
		{m.M0, m.M4, m.M8, m.M12},
		{m.M1, m.M5, m.M9, m.M13},
		{m.M2, m.M6, m.M10, m.M14},
		{m.M3, m.M7, m.M11, m.M15},
	}
	var f Frustum
	for axis := 0; axis < 3; axis++ {
		f.planes[2*axis] = clipPlane(rows[3], rows[axis], 1)
		f.planes[2*axis+1] = clipPlane(rows[3], rows[axis], -1)
	}
	return f
}

// clipPlane combines the w row with ±row and normalizes the result.
func clipPlane(w, row [4]float32, sign float32) plane {
	p := plane{
		n: rl.Vector3{X: w[0] + sign*row[0], Y: w[1] + sign*row[1], Z: w[2] + sign*row[2]},
		d: w[3] + sign*row[3],
	}
	if l := rl.Vector3Length(p.n); l > 0 {
		p.n = rl.Vector3Scale(p.n, 1/l)
		p.d /= l
	}
	return p
}

// ContainsAABB is false only when the box lies entirely behind one plane.
// Each plane is tested against the corner farthest along its normal.
func (f *Frustum) ContainsAABB(b collision.AABB) bool {
	for _, pl := range f.planes {
		p := b.Min
		if pl.n.X >= 0 {
			p.X = b.Max.X
		}
		if pl.n.Y >= 0 {
			p.Y = b.Max.Y
		}
		if pl.n.Z >= 0 {
			p.Z = b.Max.Z
		}
		if rl.Vector3DotProduct(pl.n, p)+pl.d < 0 {
			return false
		}
	}
	return true
}
