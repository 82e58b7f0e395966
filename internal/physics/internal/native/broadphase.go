package native

import (
	"cmp"
	"slices"

	"physbridge/internal/collision"

	"github.com/chewxy/math32"
)

// CellSize of the spatial grid. Shapes no larger than a cell are hashed by
// center; larger shapes are tested against everything.
const CellSize = 5.0

type cellKey struct {
	X, Y, Z int
}

func posToCell(x, y, z float32) cellKey {
	return cellKey{
		X: int(math32.Floor(x / CellSize)),
		Y: int(math32.Floor(y / CellSize)),
		Z: int(math32.Floor(z / CellSize)),
	}
}

type proxy struct {
	shape  *Shape
	prim   collision.Shape
	bounds collision.AABB
}

// shapePair orders shapes by id so each pair has one key.
type shapePair struct {
	a, b *Shape
}

func makePair(a, b *Shape) shapePair {
	if a.id > b.id {
		return shapePair{a: b, b: a}
	}
	return shapePair{a: a, b: b}
}

type pairKey [2]uint64

func (p shapePair) key() pairKey { return pairKey{p.a.id, p.b.id} }

type broadPhase struct {
	grid  map[cellKey][]int
	large []int
}

func newBroadPhase() *broadPhase {
	return &broadPhase{grid: make(map[cellKey][]int)}
}

// findPairs returns candidate pairs whose bounds overlap, sorted by key.
// accept filters pairs before the bounds test.
func (bp *broadPhase) findPairs(proxies []proxy, accept func(a, b *Shape) bool) []shapePair {
	clear(bp.grid)
	bp.large = bp.large[:0]

	for i, p := range proxies {
		size := p.bounds.Size()
		if max(size.X, size.Y, size.Z) > CellSize {
			bp.large = append(bp.large, i)
			continue
		}
		c := p.bounds.Center()
		cell := posToCell(c.X, c.Y, c.Z)
		bp.grid[cell] = append(bp.grid[cell], i)
	}

	seen := make(map[pairKey]struct{})
	var pairs []shapePair
	test := func(i, j int) {
		if i == j {
			return
		}
		a, b := proxies[i].shape, proxies[j].shape
		if a.actor == b.actor || !accept(a, b) {
			return
		}
		pair := makePair(a, b)
		k := pair.key()
		if _, ok := seen[k]; ok {
			return
		}
		if !proxies[i].bounds.Intersects(proxies[j].bounds) {
			return
		}
		seen[k] = struct{}{}
		pairs = append(pairs, pair)
	}

	// Check 3x3x3 cube of cells centered on each proxy's cell
	for cell, members := range bp.grid {
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				for dz := -1; dz <= 1; dz++ {
					neighbors := bp.grid[cellKey{cell.X + dx, cell.Y + dy, cell.Z + dz}]
					for _, i := range members {
						for _, j := range neighbors {
							test(i, j)
						}
					}
				}
			}
		}
	}
	for _, i := range bp.large {
		for j := range proxies {
			test(i, j)
		}
	}

	slices.SortFunc(pairs, comparePairs)
	return pairs
}

func comparePairs(x, y shapePair) int {
	kx, ky := x.key(), y.key()
	if kx[0] != ky[0] {
		return cmp.Compare(kx[0], ky[0])
	}
	return cmp.Compare(kx[1], ky[1])
}

// sortedPairs returns the values of m in key order.
func sortedPairs(m map[pairKey]shapePair) []shapePair {
	out := make([]shapePair, 0, len(m))
	for _, p := range m {
		out = append(out, p)
	}
	slices.SortFunc(out, comparePairs)
	return out
}
