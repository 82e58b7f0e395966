package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

var nextUID atomic.Uint64

type GameObject struct {
	Name      string
	UID       uint64
	Tags      []string
	Transform Transform // local, relative to Parent
	Active    bool
	Scene     *Scene
	Parent    *GameObject
	Children  []*GameObject

	// Owner-level delegates, fired by the overlap tracker.
	Events ActorEvents

	components     []Component
	started        bool
	pendingDestroy bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		Name:       name,
		UID:        nextUID.Add(1),
		Active:     true,
		Transform:  IdentityTransform(),
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
	if g.started {
		c.Start()
	}
}

// GetComponent returns the first component assignable to T
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// GetComponents returns every component assignable to T
func GetComponents[T any](g *GameObject) []T {
	var out []T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			out = append(out, typed)
		}
	}
	return out
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	g.started = true
	for _, c := range g.components {
		c.Start()
	}
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active || g.pendingDestroy {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// IsPendingDestroy reports whether Destroy was requested. Pending objects stay
// reachable until the owning scene flushes them.
func (g *GameObject) IsPendingDestroy() bool {
	return g.pendingDestroy
}

func (g *GameObject) AddChild(child *GameObject) {
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// WorldTransform composes the local transform with every ancestor.
func (g *GameObject) WorldTransform() Transform {
	if g.Parent == nil {
		return g.Transform
	}
	return g.Parent.WorldTransform().Compose(g.Transform)
}

// SetWorldTransform stores t as the world transform, converting to parent space.
func (g *GameObject) SetWorldTransform(t Transform) {
	if g.Parent == nil {
		g.Transform = t
		return
	}
	g.Transform = g.Parent.WorldTransform().Relative(t)
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	return g.WorldTransform().Position
}

func (g *GameObject) WorldRotation() rl.Quaternion {
	return g.WorldTransform().GetQuaternion()
}

func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	return rl.Vector3Multiply(g.Parent.WorldScale(), g.Transform.Scale)
}
