// Stress test running independent physics worlds concurrently
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"time"

	"physbridge/internal/config"
	"physbridge/internal/engine"
	"physbridge/internal/world"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/sync/errgroup"
)

type result struct {
	world    int
	bodies   int
	elapsed  time.Duration
	substeps uint64
	contacts uint64
	asleep   int
	lowestZ  float32
}

func main() {
	worlds := flag.Int("worlds", 4, "independent worlds to run in parallel")
	maxBodies := flag.Int("max", 800, "largest body count per world")
	seconds := flag.Float64("seconds", 5, "simulated seconds per run")
	configPath := flag.String("config", config.DefaultPath, "physics settings file")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("physics_stress: %v", err)
	}

	for count := 50; count <= *maxBodies; count *= 2 {
		if err := runBatch(context.Background(), settings, *worlds, count, float32(*seconds)); err != nil {
			log.Fatalf("physics_stress: %v", err)
		}
	}
}

func runBatch(ctx context.Context, settings config.Settings, worlds, count int, seconds float32) error {
	results := make([]result, worlds)
	g, ctx := errgroup.WithContext(ctx)
	start := time.Now()
	for i := range worlds {
		g.Go(func() error {
			r, err := runWorld(ctx, settings, i, count, seconds)
			results[i] = r
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	wall := time.Since(start)

	var substeps, contacts uint64
	var asleep int
	var slowest time.Duration
	for _, r := range results {
		substeps += r.substeps
		contacts += r.contacts
		asleep += r.asleep
		slowest = max(slowest, r.elapsed)
	}
	fmt.Printf("%5d bodies x %d worlds: wall %8v | slowest %8v | %6d substeps | %7d contacts | %4d asleep\n",
		count, worlds, wall.Round(time.Millisecond), slowest.Round(time.Millisecond), substeps, contacts, asleep)
	return nil
}

func runWorld(ctx context.Context, settings config.Settings, id, count int, seconds float32) (result, error) {
	w := world.New(settings)
	if err := w.Initialize(); err != nil {
		return result{}, fmt.Errorf("world %d: %w", id, err)
	}
	defer w.Shutdown()

	rng := rand.New(rand.NewSource(int64(42 + id)))
	spread := float32(10) + float32(count)/40
	w.SpawnObject(world.NewGround(spread * 3))
	for i := range count {
		pos := rl.Vector3{
			X: rng.Float32()*spread - spread/2,
			Y: rng.Float32()*spread - spread/2,
			Z: 2 + rng.Float32()*spread,
		}
		var g *engine.GameObject
		switch i % 3 {
		case 0:
			g = world.NewDynamicBox(fmt.Sprintf("Box_%d", i), pos, rl.Vector3{X: 1, Y: 1, Z: 1}, rl.Red)
		case 1:
			g = world.NewDynamicSphere(fmt.Sprintf("Sphere_%d", i), pos, 0.5, rl.Blue)
		default:
			g = world.NewDynamicCapsule(fmt.Sprintf("Capsule_%d", i), pos, 0.3, 0.4, rl.Green)
		}
		w.SpawnObject(g)
	}

	const frame = float32(1.0 / 60.0)
	start := time.Now()
	for t := float32(0); t < seconds; t += frame {
		if err := ctx.Err(); err != nil {
			return result{}, err
		}
		w.Tick(frame)
	}

	r := result{
		world:    id,
		bodies:   count,
		elapsed:  time.Since(start),
		substeps: w.Physics.TotalSubsteps(),
		contacts: w.Physics.Events().TotalContactEvents(),
		lowestZ:  0,
	}
	for _, b := range w.Physics.Bodies() {
		if b.SimulatePhysics && b.IsSleeping() {
			r.asleep++
		}
		if o := b.Owner(); o != nil {
			r.lowestZ = min(r.lowestZ, o.GetWorldTransform().Position.Z)
		}
	}
	if r.lowestZ < -1 {
		return r, fmt.Errorf("world %d: body fell through the ground to z=%.2f", id, r.lowestZ)
	}
	return r, nil
}
