package physics

import (
	"log"

	"github.com/jinzhu/copier"
)

type SetupKind uint8

const (
	SetupShared SetupKind = iota
	SetupOwned
)

// SetupRef is either the archetype's shared setup or a private copy.
type SetupRef struct {
	Kind  SetupKind
	setup *BodySetup
}

func SharedSetup(s *BodySetup) SetupRef { return SetupRef{Kind: SetupShared, setup: s} }
func OwnedSetup(s *BodySetup) SetupRef  { return SetupRef{Kind: SetupOwned, setup: s} }

func (r SetupRef) Get() *BodySetup { return r.setup }

// Archetype is the default geometry for a component type. P is the set of
// parameters that shape the geometry, e.g. a box extent.
type Archetype[P comparable] struct {
	Defaults P
	Setup    *BodySetup
	apply    func(*BodySetup, P)
}

// NewArchetype builds the shared setup by applying defaults to base.
func NewArchetype[P comparable](base *BodySetup, defaults P, apply func(*BodySetup, P)) *Archetype[P] {
	apply(base, defaults)
	return &Archetype[P]{Defaults: defaults, Setup: base, apply: apply}
}

// SetupOwnership tracks which setup one component uses. The component holds
// the shared archetype setup while its parameters equal the defaults and a
// private copy otherwise.
type SetupOwnership[P comparable] struct {
	arch        *Archetype[P]
	params      P
	ref         SetupRef
	allocations int
}

func NewSetupOwnership[P comparable](arch *Archetype[P]) *SetupOwnership[P] {
	return &SetupOwnership[P]{arch: arch, params: arch.Defaults, ref: SharedSetup(arch.Setup)}
}

// Update re-evaluates ownership for p. It returns true when the setup in use
// changed in any way.
func (o *SetupOwnership[P]) Update(p P) bool {
	if p == o.params {
		return false
	}
	if p == o.arch.Defaults {
		// Drops the private copy, if any.
		o.ref = SharedSetup(o.arch.Setup)
		o.params = p
		return true
	}

	if o.ref.Kind == SetupShared {
		owned := &BodySetup{}
		if err := copier.CopyWithOption(owned, o.arch.Setup, copier.Option{DeepCopy: true}); err != nil {
			log.Printf("Physics: copy archetype setup: %v", err)
			return false
		}
		o.ref = OwnedSetup(owned)
		o.allocations++
	}
	o.arch.apply(o.ref.setup, p)
	o.params = p
	return true
}

func (o *SetupOwnership[P]) Setup() *BodySetup { return o.ref.setup }
func (o *SetupOwnership[P]) Ref() SetupRef     { return o.ref }
func (o *SetupOwnership[P]) Params() P         { return o.params }
func (o *SetupOwnership[P]) IsShared() bool    { return o.ref.Kind == SetupShared }

// Allocations counts private copies made over the ownership's lifetime.
func (o *SetupOwnership[P]) Allocations() int { return o.allocations }
