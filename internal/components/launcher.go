package components

import (
	"fmt"

	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Launcher spawns simulated spheres from its GameObject along the engine
// forward axis.
type Launcher struct {
	engine.BaseComponent
	World    engine.WorldAccess
	Key      int32
	Cooldown float32
	Speed    float32
	Radius   float32

	sinceShot float32
	shots     int
}

func NewLauncher(world engine.WorldAccess) *Launcher {
	return &Launcher{
		World:     world,
		Key:       rl.KeySpace,
		Cooldown:  0.15,
		Speed:     20,
		Radius:    0.25,
		sinceShot: 1,
	}
}

// Update fires while Key is held. It needs a raylib window.
func (l *Launcher) Update(deltaTime float32) {
	l.sinceShot += deltaTime
	if rl.IsKeyDown(l.Key) && l.sinceShot >= l.Cooldown {
		l.Launch()
		l.sinceShot = 0
	}
}

// Launch spawns one projectile and returns it.
func (l *Launcher) Launch() *engine.GameObject {
	g := l.GetGameObject()
	if g == nil || l.World == nil {
		return nil
	}
	l.shots++

	world := g.WorldTransform()
	forward := world.Forward()

	shot := engine.NewGameObject(fmt.Sprintf("Shot_%d", l.shots))
	shot.Tags = []string{"projectile"}
	shot.Transform.Position = rl.Vector3Add(world.Position, rl.Vector3Scale(forward, 1))
	shot.AddComponent(NewSphereCollider(l.Radius))
	rb := NewRigidbody()
	rb.Bounciness = 0.6
	rb.Friction = 0.1
	shot.AddComponent(rb)
	shot.AddComponent(NewShapeRenderer(rl.Orange))

	l.World.SpawnObject(shot)
	rb.AddImpulse(rl.Vector3Scale(forward, l.Speed), true)
	return shot
}

func (l *Launcher) Shots() int { return l.shots }
