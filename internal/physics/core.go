package physics

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"log"
	"math"
	"slices"

	"physbridge/internal/physics/internal/native"
)

// MaterialParams describe a surface.
type MaterialParams struct {
	StaticFriction  float32
	DynamicFriction float32
	Restitution     float32
}

// Material is an opaque handle to a native material.
type Material struct {
	params MaterialParams
	native *native.Material
}

func (m *Material) Params() MaterialParams { return m.params }

type CoreConfig struct {
	// LengthScale and SpeedScale tune the native SDK tolerances.
	LengthScale     float32
	SpeedScale      float32
	DefaultMaterial MaterialParams
	// DefaultDensity (kg/m^3) is used for bodies with no explicit mass.
	DefaultDensity float32
}

func DefaultCoreConfig() CoreConfig {
	return CoreConfig{
		LengthScale:     1,
		SpeedScale:      10,
		DefaultMaterial: MaterialParams{StaticFriction: 0.5, DynamicFriction: 0.5, Restitution: 0.6},
		DefaultDensity:  1000,
	}
}

// Core owns the native SDK objects shared by every Scene: the physics
// factory, the default material and the convex cooking cache. It is created
// explicitly and passed to NewScene.
type Core struct {
	cfg         CoreConfig
	physics     *native.Physics
	defaultMat  *Material
	convexCache map[uint64][]cookedHull
	cooked      int
}

// cookedHull keeps the source data so hash collisions are told apart.
type cookedHull struct {
	vertices []native.Vec3
	indices  []uint32
	mesh     *native.ConvexMesh
}

func NewCore(cfg CoreConfig) *Core {
	if cfg.DefaultDensity <= 0 {
		cfg.DefaultDensity = DefaultCoreConfig().DefaultDensity
	}
	return &Core{cfg: cfg}
}

// Init creates the native SDK. Calling it again is a no-op.
func (c *Core) Init() error {
	if c.IsInitialized() {
		return nil
	}
	p, err := native.CreatePhysics(native.Tolerances{Length: c.cfg.LengthScale, Speed: c.cfg.SpeedScale})
	if err != nil {
		return fmt.Errorf("physics: init core: %w", err)
	}
	c.physics = p
	c.convexCache = make(map[uint64][]cookedHull)
	c.cooked = 0
	m := c.cfg.DefaultMaterial
	c.defaultMat = c.CreateMaterial(m.StaticFriction, m.DynamicFriction, m.Restitution)
	log.Printf("Physics: core initialized (density %.0f kg/m^3)", c.cfg.DefaultDensity)
	return nil
}

// Shutdown releases the native SDK. Scenes created from this core must be
// terminated first.
func (c *Core) Shutdown() {
	if !c.IsInitialized() {
		return
	}
	c.physics.Release()
	c.physics = nil
	c.defaultMat = nil
	c.convexCache = nil
	c.cooked = 0
	log.Printf("Physics: core shut down")
}

func (c *Core) IsInitialized() bool {
	return c != nil && c.physics != nil && !c.physics.IsReleased()
}

func (c *Core) Config() CoreConfig { return c.cfg }

func (c *Core) DefaultDensity() float32 { return c.cfg.DefaultDensity }

// CreateMaterial returns nil when the core is not initialized.
func (c *Core) CreateMaterial(static, dynamic, restitution float32) *Material {
	if !c.IsInitialized() {
		return nil
	}
	nm := c.physics.CreateMaterial(static, dynamic, restitution)
	if nm == nil {
		return nil
	}
	return &Material{
		params: MaterialParams{StaticFriction: nm.StaticFriction, DynamicFriction: nm.DynamicFriction, Restitution: nm.Restitution},
		native: nm,
	}
}

func (c *Core) DefaultMaterial() *Material { return c.defaultMat }

// cookConvex returns a cooked hull for the vertex cloud, reusing an earlier
// result with identical content.
func (c *Core) cookConvex(vertices []native.Vec3, indices []uint32) (*native.ConvexMesh, error) {
	if !c.IsInitialized() {
		return nil, native.ErrNotInitialized
	}
	key := hashConvex(vertices, indices)
	for _, h := range c.convexCache[key] {
		if slices.Equal(h.vertices, vertices) && slices.Equal(h.indices, indices) {
			return h.mesh, nil
		}
	}
	m, err := c.physics.CookConvexMesh(vertices, indices)
	if err != nil {
		return nil, err
	}
	c.convexCache[key] = append(c.convexCache[key], cookedHull{
		vertices: slices.Clone(vertices),
		indices:  slices.Clone(indices),
		mesh:     m,
	})
	c.cooked++
	return m, nil
}

// CookedConvexCount is the number of distinct hulls cooked so far.
func (c *Core) CookedConvexCount() int { return c.cooked }

func hashConvex(vertices []native.Vec3, indices []uint32) uint64 {
	h := fnv.New64a()
	var buf [4]byte
	word := func(v uint32) {
		binary.LittleEndian.PutUint32(buf[:], v)
		h.Write(buf[:])
	}
	word(uint32(len(vertices)))
	for _, v := range vertices {
		word(math.Float32bits(v.X))
		word(math.Float32bits(v.Y))
		word(math.Float32bits(v.Z))
	}
	word(uint32(len(indices)))
	for _, i := range indices {
		word(i)
	}
	return h.Sum64()
}
