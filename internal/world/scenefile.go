package world

import (
	"fmt"
	"log"
	"os"

	"physbridge/internal/components"
	"physbridge/internal/engine"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gopkg.in/yaml.v3"
)

// --- YAML types ---

type SceneFile struct {
	Objects []ObjectDef `yaml:"objects"`
}

// ObjectDef is one top-level object. Rotation is roll/pitch/yaw in degrees
// about the engine X, Y and Z axes. Components are decoded generically and
// built through the component registry by their "type" key.
type ObjectDef struct {
	Name       string           `yaml:"name"`
	Tags       []string         `yaml:"tags,omitempty"`
	Position   [3]float32       `yaml:"position,flow"`
	Rotation   [3]float32       `yaml:"rotation,flow"`
	Scale      [3]float32       `yaml:"scale,flow,omitempty"`
	Color      string           `yaml:"color,omitempty"`
	Components []map[string]any `yaml:"components"`
}

// --- Color mapping ---

var colorByName = map[string]rl.Color{
	"Red":       rl.Red,
	"Blue":      rl.Blue,
	"Green":     rl.Green,
	"Purple":    rl.Purple,
	"Orange":    rl.Orange,
	"Yellow":    rl.Yellow,
	"Pink":      rl.Pink,
	"SkyBlue":   rl.SkyBlue,
	"Lime":      rl.Lime,
	"Magenta":   rl.Magenta,
	"White":     rl.White,
	"LightGray": rl.LightGray,
	"Gray":      rl.Gray,
	"DarkGray":  rl.DarkGray,
	"Gold":      rl.Gold,
}

var nameByColor map[rl.Color]string

func init() {
	nameByColor = make(map[rl.Color]string, len(colorByName))
	for name, c := range colorByName {
		nameByColor[c] = name
	}
}

func lookupColor(name string) rl.Color {
	if c, ok := colorByName[name]; ok {
		return c
	}
	return rl.White
}

func lookupColorName(c rl.Color) string {
	if name, ok := nameByColor[c]; ok {
		return name
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// --- Loading ---

// LoadScene reads a YAML scene and spawns its objects. Unknown component
// types are logged and skipped.
func (w *World) LoadScene(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("world: read scene: %w", err)
	}
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return fmt.Errorf("world: parse scene %s: %w", path, err)
	}
	for _, def := range sf.Objects {
		w.SpawnObject(buildObject(def))
	}
	return nil
}

func buildObject(def ObjectDef) *engine.GameObject {
	g := engine.NewGameObject(def.Name)
	g.Tags = def.Tags
	g.Transform.Position = rl.Vector3{X: def.Position[0], Y: def.Position[1], Z: def.Position[2]}
	g.Transform.SetRotationEuler(rl.Vector3{X: def.Rotation[0], Y: def.Rotation[1], Z: def.Rotation[2]})
	if def.Scale != [3]float32{} {
		g.Transform.Scale = rl.Vector3{X: def.Scale[0], Y: def.Scale[1], Z: def.Scale[2]}
	}

	for _, data := range def.Components {
		name, _ := data["type"].(string)
		c := engine.CreateComponent(name, data)
		if c == nil {
			log.Printf("World: %s: unknown component type %q", def.Name, name)
			continue
		}
		g.AddComponent(c)
	}
	if def.Color != "" {
		g.AddComponent(components.NewShapeRenderer(lookupColor(def.Color)))
	}
	return g
}

// --- Saving ---

// SaveScene writes every top-level object except runtime projectiles.
func (w *World) SaveScene(path string) error {
	var sf SceneFile
	for _, g := range w.Scene.GameObjects {
		if g.Parent != nil || g.HasTag("projectile") || g.IsPendingDestroy() {
			continue
		}
		sf.Objects = append(sf.Objects, objectDef(g))
	}

	data, err := yaml.Marshal(sf)
	if err != nil {
		return fmt.Errorf("world: marshal scene: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("world: write scene: %w", err)
	}
	return nil
}

func objectDef(g *engine.GameObject) ObjectDef {
	t := g.Transform
	euler := t.RotationEuler()
	def := ObjectDef{
		Name:     g.Name,
		Tags:     g.Tags,
		Position: [3]float32{t.Position.X, t.Position.Y, t.Position.Z},
		Rotation: [3]float32{euler.X, euler.Y, euler.Z},
		Scale:    [3]float32{t.Scale.X, t.Scale.Y, t.Scale.Z},
	}
	for _, c := range g.Components() {
		switch comp := c.(type) {
		case *components.ShapeRenderer:
			def.Color = lookupColorName(comp.Color)
		case engine.Serializable:
			def.Components = append(def.Components, comp.Serialize())
		}
	}
	return def
}
