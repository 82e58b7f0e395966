package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"

	"physbridge/internal/components"
	"physbridge/internal/config"
	"physbridge/internal/engine"
	"physbridge/internal/world"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

type demo struct {
	world    *world.World
	renderer *world.Renderer
	camera   *components.Camera
	launcher *components.Launcher
	watcher  *config.Watcher

	paused   bool
	gravityZ float32
	yaw      float32
	pitch    float32
	distance float32
	spawned  int
	hits     int
}

func main() {
	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	configPath := flag.String("config", config.DefaultPath, "physics settings file")
	scenePath := flag.String("scene", "", "YAML scene to load instead of the built-in one")
	flag.Parse()

	settings, err := config.Load(*configPath)
	if err != nil {
		log.Printf("Config: %v; using defaults", err)
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "physbridge demo")
	defer rl.CloseWindow()
	rl.SetTargetFPS(144)

	d := &demo{
		world:    world.New(settings),
		renderer: world.NewRenderer(),
		gravityZ: settings.Gravity[2],
		yaw:      -30,
		pitch:    25,
		distance: 25,
	}
	if err := d.world.Initialize(); err != nil {
		log.Fatalf("physdemo: %v", err)
	}
	defer d.world.Shutdown()

	if *scenePath != "" {
		if err := d.world.LoadScene(*scenePath); err != nil {
			log.Fatalf("physdemo: %v", err)
		}
	} else {
		d.buildScene()
	}
	d.createCamera()

	if w, err := config.Watch(*configPath); err != nil {
		log.Printf("Config: hot reload disabled: %v", err)
	} else {
		d.watcher = w
		defer w.Close()
	}

	for !rl.WindowShouldClose() {
		d.pollSettings()
		d.update(rl.GetFrameTime())
		d.draw()
	}
}

func (d *demo) buildScene() {
	w := d.world
	w.SpawnObject(world.NewGround(40))
	w.SpawnObject(world.NewTriggerZone("Zone", rl.Vector3{X: 6, Z: 1.5}, rl.Vector3{X: 4, Y: 4, Z: 3}))
	w.SpawnObject(world.NewSweeper("Sweeper", rl.Vector3{Z: 0.5}, 6))

	colors := []rl.Color{rl.Red, rl.Blue, rl.Green, rl.Purple, rl.Orange, rl.Gold}
	for i := range 12 {
		angle := float64(i) * 2 * math.Pi / 12
		pos := rl.Vector3{
			X: float32(math.Cos(angle)) * 3,
			Y: float32(math.Sin(angle)) * 3,
			Z: 3 + float32(i)*0.75,
		}
		color := colors[i%len(colors)]
		var g *engine.GameObject
		switch i % 3 {
		case 0:
			g = world.NewDynamicBox(fmt.Sprintf("Box_%d", i), pos, rl.Vector3{X: 1, Y: 1, Z: 1}, color)
		case 1:
			g = world.NewDynamicSphere(fmt.Sprintf("Sphere_%d", i), pos, 0.5, color)
		default:
			g = world.NewDynamicCapsule(fmt.Sprintf("Capsule_%d", i), pos, 0.4, 0.5, color)
		}
		d.watchHits(g)
		w.SpawnObject(g)
	}

	zone := w.Scene.FindByName("Zone")
	if box := engine.GetComponent[*components.BoxCollider](zone); box != nil {
		box.ComponentEvents().OnComponentBeginOverlap.AddListener(func(e engine.OverlapEvent) {
			log.Printf("Zone: %s entered", e.OtherActor.Name)
		})
	}
}

func (d *demo) watchHits(g *engine.GameObject) {
	for _, c := range g.Components() {
		if p, ok := c.(engine.PrimitiveComponent); ok {
			p.ComponentEvents().OnComponentHit.AddListener(func(engine.HitEvent) { d.hits++ })
		}
	}
}

func (d *demo) createCamera() {
	g := engine.NewGameObject("Camera")
	d.camera = components.NewCamera()
	g.AddComponent(d.camera)
	d.launcher = components.NewLauncher(d.world)
	g.AddComponent(d.launcher)
	d.world.SpawnObject(g)
	d.orbit()
}

// orbit places the camera on a sphere around the origin.
func (d *demo) orbit() {
	g := d.camera.GetGameObject()
	yaw := float64(d.yaw * rl.Deg2rad)
	pitch := float64(d.pitch * rl.Deg2rad)
	dist := float64(d.distance)
	g.Transform.Position = rl.Vector3{
		X: float32(-math.Cos(pitch) * math.Cos(yaw) * dist),
		Y: float32(-math.Cos(pitch) * math.Sin(yaw) * dist),
		Z: float32(math.Sin(pitch) * dist),
	}
	d.camera.LookAt(rl.Vector3{Z: 1})
}

func (d *demo) pollSettings() {
	if d.watcher == nil {
		return
	}
	select {
	case s, ok := <-d.watcher.Settings:
		if ok {
			d.world.ApplySettings(s)
			d.gravityZ = s.Gravity[2]
		}
	case err, ok := <-d.watcher.Errors:
		if ok {
			log.Printf("Config: %v", err)
		}
	default:
	}
}

func (d *demo) update(dt float32) {
	if rl.IsKeyDown(rl.KeyLeft) {
		d.yaw -= 60 * dt
	}
	if rl.IsKeyDown(rl.KeyRight) {
		d.yaw += 60 * dt
	}
	if rl.IsKeyDown(rl.KeyUp) {
		d.pitch = min(d.pitch+40*dt, 85)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		d.pitch = max(d.pitch-40*dt, 5)
	}
	d.distance = min(max(d.distance-rl.GetMouseWheelMove(), 5), 80)
	d.orbit()

	if rl.IsKeyPressed(rl.KeyP) {
		d.paused = !d.paused
	}
	if d.paused {
		return
	}
	d.world.Tick(dt)

	// cull anything that fell off the ground
	for _, g := range d.world.Scene.GameObjects {
		if g.Transform.Position.Z < -50 {
			d.world.Destroy(g)
		}
	}
}

func (d *demo) draw() {
	rl.BeginDrawing()
	defer rl.EndDrawing()
	rl.ClearBackground(rl.RayWhite)

	d.renderer.Draw(d.camera.GetRaylibCamera(), d.world.Scene.GameObjects)
	d.drawPanel()
}

func (d *demo) drawPanel() {
	p := d.world.Physics
	st := p.Stats()
	x, y := float32(10), float32(10)
	gui.Panel(rl.Rectangle{X: x, Y: y, Width: 260, Height: 300}, "Physics")
	y += 30

	line := func(text string) {
		gui.Label(rl.Rectangle{X: x + 10, Y: y, Width: 240, Height: 20}, text)
		y += 22
	}
	line(fmt.Sprintf("FPS %d   substeps %d", rl.GetFPS(), p.SubstepsLastFrame()))
	line(fmt.Sprintf("alpha %.2f   total steps %d", p.InterpolationAlpha(), p.TotalSubsteps()))
	line(fmt.Sprintf("actors %d dynamic, %d static, %d awake", st.NumDynamicActors, st.NumStaticActors, st.NumActiveActors))
	line(fmt.Sprintf("contacts %d   triggers %d", p.Events().TotalContactEvents(), p.Events().TotalTriggerEvents()))
	line(fmt.Sprintf("hits %d   drawn %d   culled %d", d.hits, d.renderer.Drawn(), d.renderer.Culled()))

	y += 6
	g := gui.Slider(rl.Rectangle{X: x + 70, Y: y, Width: 130, Height: 20}, "Gravity Z", fmt.Sprintf("%.1f", d.gravityZ), d.gravityZ, -30, 5)
	if g != d.gravityZ {
		d.gravityZ = g
		p.SetGravity(rl.Vector3{Z: g})
	}
	y += 30
	d.paused = gui.CheckBox(rl.Rectangle{X: x + 10, Y: y, Width: 20, Height: 20}, "Paused (P)", d.paused)
	y += 30
	if gui.Button(rl.Rectangle{X: x + 10, Y: y, Width: 115, Height: 26}, "Drop box") {
		d.spawned++
		box := world.NewDynamicBox(fmt.Sprintf("Dropped_%d", d.spawned), rl.Vector3{Z: 10}, rl.Vector3{X: 1, Y: 1, Z: 1}, rl.Maroon)
		d.watchHits(box)
		d.world.SpawnObject(box)
	}
	if gui.Button(rl.Rectangle{X: x + 135, Y: y, Width: 115, Height: 26}, "Launch (Space)") {
		d.launcher.Launch()
	}
	y += 34
	if gui.Button(rl.Rectangle{X: x + 10, Y: y, Width: 240, Height: 26}, "Save scene") {
		if err := d.world.SaveScene("scene.yaml"); err != nil {
			log.Printf("physdemo: %v", err)
		}
	}
}
