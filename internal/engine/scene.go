package engine

type Scene struct {
	Name        string
	GameObjects []*GameObject

	// World is the owning world, set by the world package. Components reach
	// world services by asserting it to the interface they need.
	World any

	uidMap  map[uint64]*GameObject
	pending []*GameObject
}

func NewScene(name string) *Scene {
	return &Scene{
		Name:        name,
		GameObjects: make([]*GameObject, 0),
		uidMap:      make(map[uint64]*GameObject),
	}
}

func (s *Scene) AddGameObject(g *GameObject) {
	if s.uidMap == nil {
		s.uidMap = make(map[uint64]*GameObject)
	}
	g.Scene = s
	s.GameObjects = append(s.GameObjects, g)
	s.uidMap[g.UID] = g
}

// RemoveGameObject removes g and its children immediately. Destroyable
// components get OnDestroy first.
func (s *Scene) RemoveGameObject(g *GameObject) {
	for _, child := range append([]*GameObject(nil), g.Children...) {
		s.RemoveGameObject(child)
	}
	for _, c := range g.components {
		if d, ok := c.(Destroyable); ok {
			d.OnDestroy()
		}
	}
	delete(s.uidMap, g.UID)
	for i, obj := range s.GameObjects {
		if obj == g {
			s.GameObjects = append(s.GameObjects[:i], s.GameObjects[i+1:]...)
			break
		}
	}
	if g.Parent != nil {
		g.Parent.RemoveChild(g)
	}
}

// Destroy marks g and its children pending. They are removed on the next
// FlushDestroyed.
func (s *Scene) Destroy(g *GameObject) {
	if g.pendingDestroy {
		return
	}
	g.pendingDestroy = true
	s.pending = append(s.pending, g)
	for _, child := range g.Children {
		s.Destroy(child)
	}
}

// FlushDestroyed removes every object marked by Destroy and returns how many
// top-level objects were flushed.
func (s *Scene) FlushDestroyed() int {
	pending := s.pending
	s.pending = nil
	n := 0
	for _, g := range pending {
		if _, ok := s.uidMap[g.UID]; !ok {
			continue
		}
		s.RemoveGameObject(g)
		n++
	}
	return n
}

func (s *Scene) FindByUID(uid uint64) *GameObject {
	return s.uidMap[uid]
}

func (s *Scene) FindByName(name string) *GameObject {
	for _, g := range s.GameObjects {
		if g.Name == name {
			return g
		}
	}
	return nil
}

func (s *Scene) FindByTag(tag string) []*GameObject {
	var result []*GameObject
	for _, g := range s.GameObjects {
		if g.HasTag(tag) {
			result = append(result, g)
		}
	}
	return result
}

func (s *Scene) Start() {
	for _, g := range s.GameObjects {
		g.Start()
	}
}

func (s *Scene) Update(deltaTime float32) {
	for _, g := range s.GameObjects {
		g.Update(deltaTime)
	}
}
