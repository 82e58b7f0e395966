package engine

type Component interface {
	Start()
	Update(deltaTime float32)
	SetGameObject(g *GameObject)
	GetGameObject() *GameObject
}

// Destroyable is implemented by components that release resources when their
// GameObject is flushed from the scene.
type Destroyable interface {
	OnDestroy()
}

// PrimitiveComponent is implemented by components that carry a world transform
// and component-level collision delegates.
type PrimitiveComponent interface {
	Component
	GetWorldTransform() Transform
	SetWorldTransform(t Transform)
	ComponentEvents() *PrimitiveEvents
}

// BaseComponent provides default implementation for Component interface
type BaseComponent struct {
	gameObject *GameObject
}

func (b *BaseComponent) Start() {}

func (b *BaseComponent) Update(deltaTime float32) {}

func (b *BaseComponent) SetGameObject(g *GameObject) {
	b.gameObject = g
}

func (b *BaseComponent) GetGameObject() *GameObject {
	return b.gameObject
}

// IsPendingDestroy reports whether the owning GameObject is going away.
func (b *BaseComponent) IsPendingDestroy() bool {
	return b.gameObject == nil || b.gameObject.IsPendingDestroy()
}
