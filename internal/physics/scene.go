package physics

import (
	"fmt"
	"log"
	"math"
	"slices"

	"physbridge/internal/engine"
	"physbridge/internal/physics/internal/native"

	rl "github.com/gen2brain/raylib-go/raylib"
)

type SleepConfig struct {
	LinearThreshold  float32
	AngularThreshold float32
	Time             float32
}

type SceneConfig struct {
	FixedTimestep float32
	MaxSubsteps   int
	// Gravity is in the engine frame (Z up).
	Gravity          rl.Vector3
	WorkerThreads    int
	SolverIterations int
	Sleep            SleepConfig
}

func DefaultSceneConfig() SceneConfig {
	return SceneConfig{
		FixedTimestep:    1.0 / 60.0,
		MaxSubsteps:      8,
		Gravity:          rl.Vector3{Z: -9.81},
		WorkerThreads:    4,
		SolverIterations: 8,
		Sleep:            SleepConfig{LinearThreshold: 0.05, AngularThreshold: 0.05, Time: 0.5},
	}
}

// SceneStats counts bodies in the native scene. Active means an awake
// dynamic body.
type SceneStats struct {
	NumActiveActors  int
	NumStaticActors  int
	NumDynamicActors int
}

// Scene is the per-world physics scene. It runs the native simulation on a
// fixed timestep and interpolates simulated bodies for rendering.
type Scene struct {
	core   *Core
	cfg    SceneConfig
	native *native.Scene
	world  any
	events *EventCallback

	bodies map[native.ActorID]*BodyInstance
	order  []*BodyInstance

	accumulator   float64
	alpha         float32
	substepsLast  int
	totalSubsteps uint64

	initialized  bool
	simulating   bool
	warnedUninit bool
}

func NewScene(core *Core, cfg SceneConfig) *Scene {
	def := DefaultSceneConfig()
	if cfg.FixedTimestep <= 0 {
		cfg.FixedTimestep = def.FixedTimestep
	}
	if cfg.MaxSubsteps < 1 {
		cfg.MaxSubsteps = def.MaxSubsteps
	}
	return &Scene{
		core:   core,
		cfg:    cfg,
		bodies: make(map[native.ActorID]*BodyInstance),
	}
}

// Init creates the native scene. owningWorld is kept for event consumers.
func (s *Scene) Init(owningWorld any) error {
	if s.initialized {
		return nil
	}
	if !s.core.IsInitialized() {
		return fmt.Errorf("physics: init scene: %w", native.ErrNotInitialized)
	}
	s.events = newEventCallback(s)

	desc := native.DefaultSceneDesc()
	desc.Gravity = ToPhysicsVec(s.cfg.Gravity)
	if s.cfg.WorkerThreads > 0 {
		desc.WorkerThreads = s.cfg.WorkerThreads
	}
	if s.cfg.SolverIterations > 0 {
		desc.SolverIterations = s.cfg.SolverIterations
	}
	if s.cfg.Sleep.Time > 0 {
		desc.Sleep = native.SleepSettings(s.cfg.Sleep)
	}
	desc.Callback = s.events

	ns, err := s.core.physics.CreateScene(desc)
	if err != nil {
		return fmt.Errorf("physics: init scene: %w", err)
	}
	s.native = ns
	s.world = owningWorld
	s.initialized = true
	s.warnedUninit = false
	log.Printf("PhysScene: initialized (step %.4fs, max %d substeps, %d workers)",
		s.cfg.FixedTimestep, s.cfg.MaxSubsteps, desc.WorkerThreads)
	return nil
}

// Term terminates every body still in the scene and releases the native
// scene.
func (s *Scene) Term() {
	if !s.initialized {
		return
	}
	for len(s.order) > 0 {
		s.order[len(s.order)-1].TermBody()
	}
	s.native.Release()
	s.native = nil
	s.world = nil
	s.initialized = false
	s.accumulator = 0
	log.Printf("PhysScene: terminated after %d substeps", s.totalSubsteps)
}

func (s *Scene) IsInitialized() bool { return s != nil && s.initialized }

// World returns the value passed to Init.
func (s *Scene) World() any { return s.world }

func (s *Scene) Core() *Core { return s.core }

func (s *Scene) Config() SceneConfig { return s.cfg }

func (s *Scene) DefaultMaterial() *Material { return s.core.DefaultMaterial() }

func (s *Scene) warnOnce(op string) {
	if s.warnedUninit {
		return
	}
	s.warnedUninit = true
	log.Printf("PhysScene: %s on uninitialized scene ignored", op)
}

func (s *Scene) addBody(b *BodyInstance, a native.Actor) error {
	if err := s.native.AddActor(a); err != nil {
		return err
	}
	s.bodies[a.ID()] = b
	s.order = append(s.order, b)
	return nil
}

func (s *Scene) removeBody(b *BodyInstance) {
	if b.actor == nil {
		return
	}
	s.native.RemoveActor(b.actor)
	delete(s.bodies, b.actor.ID())
	if i := slices.Index(s.order, b); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
	}
}

// bodyFor resolves a native actor to the body that created it.
func (s *Scene) bodyFor(a native.Actor) *BodyInstance {
	if a == nil {
		return nil
	}
	return s.bodies[a.ID()]
}

// Bodies returns the registered bodies in insertion order.
func (s *Scene) Bodies() []*BodyInstance { return s.order }

// Simulate advances the scene by dt seconds of wall time. Whole fixed steps
// run until the accumulator drops below one step or MaxSubsteps is reached;
// simulated bodies are then interpolated by the remaining fraction.
func (s *Scene) Simulate(dt float32) {
	if !s.initialized {
		s.warnOnce("simulate")
		return
	}
	fixed := float64(s.cfg.FixedTimestep)
	maxSteps := s.cfg.MaxSubsteps

	d := min(max(float64(dt), 0), fixed*float64(maxSteps))
	s.accumulator += d

	s.simulating = true
	steps := 0
	for s.accumulator >= fixed-fixed*1e-6 && steps < maxSteps {
		if err := s.native.Simulate(float32(fixed)); err != nil {
			log.Printf("PhysScene: step failed: %v", err)
			break
		}
		s.native.FetchResults(true)
		s.accumulator = max(s.accumulator-fixed, 0)
		steps++
		for _, b := range s.order {
			if b.IsDynamic() {
				b.CapturePhysicsTransform()
			}
		}
	}
	s.simulating = false

	if s.accumulator >= fixed {
		dropped := s.accumulator
		s.accumulator = math.Mod(s.accumulator, fixed)
		log.Printf("PhysScene: dropped %.4fs of simulation time", dropped-s.accumulator)
	}
	s.substepsLast = steps
	s.totalSubsteps += uint64(steps)

	s.alpha = float32(s.accumulator / fixed)
	if s.alpha >= 1 {
		s.alpha = math.Nextafter32(1, 0)
	} else if s.alpha < 0 {
		s.alpha = 0
	}
	for _, b := range s.order {
		b.UpdateRenderInterpolation(s.alpha)
	}
}

// IsSimulating is true while Simulate is stepping the native scene. Bodies
// must not be created or terminated while it is set.
func (s *Scene) IsSimulating() bool { return s.simulating }

func (s *Scene) InterpolationAlpha() float32 { return s.alpha }
func (s *Scene) AccumulatedTime() float64    { return s.accumulator }
func (s *Scene) SubstepsLastFrame() int      { return s.substepsLast }
func (s *Scene) TotalSubsteps() uint64       { return s.totalSubsteps }

// SetGravity takes an engine-frame acceleration.
func (s *Scene) SetGravity(g rl.Vector3) {
	s.cfg.Gravity = g
	if !s.initialized {
		s.warnOnce("set gravity")
		return
	}
	s.native.SetGravity(ToPhysicsVec(g))
	for _, b := range s.order {
		b.WakeUp()
	}
}

func (s *Scene) Gravity() rl.Vector3 {
	if !s.initialized {
		return s.cfg.Gravity
	}
	return ToEngineVec(s.native.Gravity())
}

// SetTimestep changes the fixed step and sub-step cap. Invalid values are
// ignored.
func (s *Scene) SetTimestep(fixed float32, maxSubsteps int) {
	if fixed <= 0 || maxSubsteps < 1 {
		log.Printf("PhysScene: ignoring timestep %v with %d substeps", fixed, maxSubsteps)
		return
	}
	s.cfg.FixedTimestep = fixed
	s.cfg.MaxSubsteps = maxSubsteps
	s.accumulator = min(s.accumulator, float64(fixed))
}

func (s *Scene) Stats() SceneStats {
	if !s.initialized {
		return SceneStats{}
	}
	st := s.native.Stats()
	return SceneStats{
		NumActiveActors:  st.NumActiveActors,
		NumStaticActors:  st.NumStaticActors,
		NumDynamicActors: st.NumDynamicActors,
	}
}

// Events returns the scene's native event translator.
func (s *Scene) Events() *EventCallback { return s.events }

// LineTraceSingle returns the closest body hit between start and end.
func (s *Scene) LineTraceSingle(start, end rl.Vector3) (engine.HitResult, bool) {
	if !s.initialized {
		s.warnOnce("line trace")
		return engine.HitResult{}, false
	}
	delta := rl.Vector3Subtract(end, start)
	length := rl.Vector3Length(delta)
	if length == 0 {
		return engine.HitResult{}, false
	}
	hit, ok := s.native.Raycast(ToPhysicsVec(start), ToPhysicsVec(delta), length)
	if !ok {
		return engine.HitResult{}, false
	}
	res := engine.HitResult{
		Location:         ToEngineVec(hit.Position),
		ImpactPoint:      ToEngineVec(hit.Position),
		Normal:           ToEngineVec(hit.Normal),
		ImpactNormal:     ToEngineVec(hit.Normal),
		Time:             hit.Distance / length,
		BlockingHit:      true,
		StartPenetrating: hit.Distance == 0,
	}
	if b := s.bodyFor(hit.Actor); b != nil && b.owner != nil {
		res.Component = b.owner
		res.Actor = b.owner.GetGameObject()
	}
	return res, true
}
