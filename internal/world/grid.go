package world

import "math"

// Grid is a fixed chunk-grid spatial index: cell → set of entity ids, plus an
// id → position side map for exact-distance refinement. The two maps are
// mutated only together. Accessed only from the game loop goroutine — no locks.
type Grid struct {
	cells map[cellKey]map[string]struct{}
	pos   map[string]Position
}

type cellKey struct{ cx, cy int32 }

func toCell(v float64) int32 { return int32(math.Floor(v / ChunkSize)) }

func keyOf(p Position) cellKey { return cellKey{cx: toCell(p.X), cy: toCell(p.Y)} }

func NewGrid() *Grid {
	return &Grid{
		cells: make(map[cellKey]map[string]struct{}),
		pos:   make(map[string]Position),
	}
}

// Add places an entity into the grid.
func (g *Grid) Add(id string, p Position) {
	k := keyOf(p)
	cell := g.cells[k]
	if cell == nil {
		cell = make(map[string]struct{})
		g.cells[k] = cell
	}
	cell[id] = struct{}{}
	g.pos[id] = p
}

// Remove takes an entity out of the grid.
func (g *Grid) Remove(id string, p Position) {
	k := keyOf(p)
	if cell := g.cells[k]; cell != nil {
		delete(cell, id)
		if len(cell) == 0 {
			delete(g.cells, k)
		}
	}
	delete(g.pos, id)
}

// Move updates an entity's position. The cell map is untouched when both
// positions fall in the same cell.
func (g *Grid) Move(id string, oldPos, newPos Position) {
	oldK, newK := keyOf(oldPos), keyOf(newPos)
	if oldK != newK {
		if cell := g.cells[oldK]; cell != nil {
			delete(cell, id)
			if len(cell) == 0 {
				delete(g.cells, oldK)
			}
		}
		cell := g.cells[newK]
		if cell == nil {
			cell = make(map[string]struct{})
			g.cells[newK] = cell
		}
		cell[id] = struct{}{}
	}
	g.pos[id] = newPos
}

// PositionOf returns the stored position for an entity.
func (g *Grid) PositionOf(id string) (Position, bool) {
	p, ok := g.pos[id]
	return p, ok
}

// InRadius returns all entity ids within Euclidean distance r of center.
// Scans the bounding box of cells overlapping the disk, then refines against
// the side map. Result is unordered and duplicate-free.
func (g *Grid) InRadius(center Position, r float64) []string {
	minX, maxX := toCell(center.X-r), toCell(center.X+r)
	minY, maxY := toCell(center.Y-r), toCell(center.Y+r)
	var result []string
	for cx := minX; cx <= maxX; cx++ {
		for cy := minY; cy <= maxY; cy++ {
			for id := range g.cells[cellKey{cx: cx, cy: cy}] {
				if Dist(g.pos[id], center) <= r {
					result = append(result, id)
				}
			}
		}
	}
	return result
}

// Len returns the number of indexed entities.
func (g *Grid) Len() int { return len(g.pos) }
