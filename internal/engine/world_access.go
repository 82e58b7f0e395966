package engine

// WorldAccess provides components with access to world-level operations
// without creating circular import dependencies.
type WorldAccess interface {
	SpawnObject(g *GameObject)
	Destroy(g *GameObject)
}

// WorldOf returns the world services reachable from g, or nil when g is not
// in a scene owned by a world.
func WorldOf(g *GameObject) WorldAccess {
	if g == nil || g.Scene == nil {
		return nil
	}
	w, _ := g.Scene.World.(WorldAccess)
	return w
}
