package engine

import (
	"fmt"
	"sort"
)

// Serializable is implemented by components that can be saved to and loaded
// from scene files.
type Serializable interface {
	Component
	TypeName() string
	Serialize() map[string]any
	Deserialize(data map[string]any)
}

// ComponentFactory creates a zero-configured component ready for Deserialize.
type ComponentFactory func() Serializable

var componentRegistry = map[string]ComponentFactory{}

// RegisterComponent registers a named component type. Registering the same
// name twice panics.
func RegisterComponent(name string, factory ComponentFactory) {
	if _, exists := componentRegistry[name]; exists {
		panic(fmt.Sprintf("component %q already registered", name))
	}
	componentRegistry[name] = factory
}

// CreateComponent looks up a registered component by name and deserializes
// data into it. Returns nil for unknown names.
func CreateComponent(name string, data map[string]any) Serializable {
	factory, ok := componentRegistry[name]
	if !ok {
		return nil
	}
	c := factory()
	if data != nil {
		c.Deserialize(data)
	}
	return c
}

// GetRegisteredComponents returns a sorted list of all registered component names.
func GetRegisteredComponents() []string {
	names := make([]string, 0, len(componentRegistry))
	for name := range componentRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
