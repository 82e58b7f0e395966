package native

import "errors"

var (
	ErrNotInitialized  = errors.New("native: physics not initialized")
	ErrInvalidGeometry = errors.New("native: invalid geometry")
	ErrEmptyVertexData = errors.New("native: empty vertex data")
	ErrDegenerateHull  = errors.New("native: degenerate convex hull")
	ErrActorInScene    = errors.New("native: actor already belongs to a scene")
	ErrActorReleased   = errors.New("native: actor released")
	ErrInvalidTimestep = errors.New("native: timestep must be positive")
)
