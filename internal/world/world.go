package world

import (
	"fmt"
	"log"
	"slices"

	"physbridge/internal/config"
	"physbridge/internal/engine"
	"physbridge/internal/physics"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// overlapClaim is one claimed transition for an unordered owner pair.
type overlapClaim struct {
	lo, hi uint64
	t      physics.Transition
}

// overlapTicker is implemented by colliders that run the polling tracker.
type overlapTicker interface {
	physics.Collider
	TickOverlaps(w physics.OverlapWorld)
}

// World owns an engine scene and the physics scene simulating it. It is the
// collision manager for its colliders and arbitrates overlap broadcasts.
type World struct {
	Scene    *engine.Scene
	Core     *physics.Core
	Physics  *physics.Scene
	Settings config.Settings

	colliders []physics.Collider
	claims    map[overlapClaim]struct{}
	ticks     uint64
	started   bool
}

func New(settings config.Settings) *World {
	settings.Normalize()
	w := &World{
		Scene:    engine.NewScene("Main"),
		Settings: settings,
		claims:   make(map[overlapClaim]struct{}),
	}
	w.Scene.World = w
	w.Core = physics.NewCore(coreConfig(settings))
	w.Physics = physics.NewScene(w.Core, sceneConfig(settings))
	return w
}

// Initialize brings up the physics core and scene, then starts every object
// already in the engine scene.
func (w *World) Initialize() error {
	if err := w.Core.Init(); err != nil {
		return fmt.Errorf("world: %w", err)
	}
	if err := w.Physics.Init(w); err != nil {
		w.Core.Shutdown()
		return fmt.Errorf("world: %w", err)
	}
	w.Scene.Start()
	w.started = true
	return nil
}

// Shutdown destroys every object, then tears down the physics scene and core.
func (w *World) Shutdown() {
	for _, g := range slices.Clone(w.Scene.GameObjects) {
		if g.Parent == nil {
			w.Scene.RemoveGameObject(g)
		}
	}
	w.Physics.Term()
	w.Core.Shutdown()
	w.started = false
}

func coreConfig(s config.Settings) physics.CoreConfig {
	c := physics.DefaultCoreConfig()
	c.DefaultMaterial = physics.MaterialParams{
		StaticFriction:  s.DefaultMaterial.StaticFriction,
		DynamicFriction: s.DefaultMaterial.DynamicFriction,
		Restitution:     s.DefaultMaterial.Restitution,
	}
	c.DefaultDensity = s.DefaultDensity
	return c
}

func sceneConfig(s config.Settings) physics.SceneConfig {
	return physics.SceneConfig{
		FixedTimestep:    s.FixedTimestep,
		MaxSubsteps:      s.MaxSubsteps,
		Gravity:          gravityOf(s),
		WorkerThreads:    s.WorkerThreads,
		SolverIterations: s.SolverIterations,
		Sleep: physics.SleepConfig{
			LinearThreshold:  s.Sleep.LinearThreshold,
			AngularThreshold: s.Sleep.AngularThreshold,
			Time:             s.Sleep.Time,
		},
	}
}

func gravityOf(s config.Settings) rl.Vector3 {
	return rl.Vector3{X: s.Gravity[0], Y: s.Gravity[1], Z: s.Gravity[2]}
}

// ApplySettings pushes gravity and timestep into the live scene. The other
// values are fixed once the scene exists.
func (w *World) ApplySettings(s config.Settings) {
	s.Normalize()
	old := w.Settings
	w.Settings = s
	w.Physics.SetGravity(gravityOf(s))
	w.Physics.SetTimestep(s.FixedTimestep, s.MaxSubsteps)
	if s.WorkerThreads != old.WorkerThreads || s.SolverIterations != old.SolverIterations ||
		s.Sleep != old.Sleep || s.DefaultMaterial != old.DefaultMaterial || s.DefaultDensity != old.DefaultDensity {
		log.Printf("World: some physics settings only apply to a new world")
	}
}

// Tick advances one frame: kinematic bodies follow their objects, physics
// steps and interpolates, scripts update, overlaps are polled, and objects
// destroyed during the frame are flushed.
func (w *World) Tick(deltaTime float32) {
	w.ticks++
	clear(w.claims)

	for _, b := range w.Physics.Bodies() {
		b.SyncComponentToPhysics()
	}
	w.Physics.Simulate(deltaTime)

	w.Scene.Update(deltaTime)

	for _, c := range slices.Clone(w.colliders) {
		t, ok := c.(overlapTicker)
		if !ok || t.GetGameObject().IsPendingDestroy() {
			continue
		}
		t.TickOverlaps(w)
	}

	w.Scene.FlushDestroyed()
}

func (w *World) Ticks() uint64 { return w.ticks }

// SpawnObject adds g to the scene and starts it once the world is running.
func (w *World) SpawnObject(g *engine.GameObject) {
	w.Scene.AddGameObject(g)
	if w.started {
		g.Start()
	}
}

// Destroy defers removal of g to the end of the current tick.
func (w *World) Destroy(g *engine.GameObject) {
	w.Scene.Destroy(g)
}

func (w *World) PhysicsScene() *physics.Scene { return w.Physics }

func (w *World) RegisterCollider(c physics.Collider) {
	if slices.Contains(w.colliders, c) {
		return
	}
	w.colliders = append(w.colliders, c)
}

func (w *World) UnregisterCollider(c physics.Collider) {
	if i := slices.Index(w.colliders, c); i >= 0 {
		w.colliders = slices.Delete(w.colliders, i, i+1)
	}
}

func (w *World) Colliders() []physics.Collider { return w.colliders }

// TryMarkOverlapPair claims a transition for the unordered pair (a, b) for
// the rest of this tick.
func (w *World) TryMarkOverlapPair(a, b *engine.GameObject, t physics.Transition) bool {
	k := overlapClaim{lo: min(a.UID, b.UID), hi: max(a.UID, b.UID), t: t}
	if _, claimed := w.claims[k]; claimed {
		return false
	}
	w.claims[k] = struct{}{}
	return true
}

// LineTrace casts against the physics scene.
func (w *World) LineTrace(start, end rl.Vector3) (engine.HitResult, bool) {
	return w.Physics.LineTraceSingle(start, end)
}
