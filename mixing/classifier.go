package mixing

import "fmt"

// DefaultCellSize is the side of each of the four cells around the origin
const DefaultCellSize = 0.05

type cellRange struct {
	minX, maxX float64
	minY, maxY float64
}

func (c cellRange) contains(p Position) bool {
	return c.minX <= p.X && p.X <= c.maxX && c.minY <= p.Y && p.Y <= c.maxY
}

// Classifier counts the objects falling in each cell. Every cell is an
// independent inclusive range test, an object on a boundary counts in
// every cell that contains it.
type Classifier struct {
	CellSize float64
	// LegacyCells reproduces the historical up-right cell of color B,
	// which spans ten cell sizes along x instead of one.
	LegacyCells bool
}

func NewClassifier(cellSize float64, legacyCells bool) *Classifier {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return &Classifier{
		CellSize:    cellSize,
		LegacyCells: legacyCells,
	}
}

func (c *Classifier) cells(color Color) [NumCells]cellRange {
	size := c.CellSize
	upRightMaxX := size
	if c.LegacyCells && color == ColorB {
		upRightMaxX = 10 * size
	}
	return [NumCells]cellRange{
		CellUpLeft:    {minX: -size, maxX: 0, minY: 0, maxY: size},
		CellUpRight:   {minX: 0, maxX: upRightMaxX, minY: 0, maxY: size},
		CellDownRight: {minX: 0, maxX: size, minY: -size, maxY: 0},
		CellDownLeft:  {minX: -size, maxX: 0, minY: -size, maxY: 0},
	}
}

// Classify counts the positions of one color population per cell
func (c *Classifier) Classify(color Color, positions []Position) Cells {
	out := Cells{}
	ranges := c.cells(color)
	for _, p := range positions {
		for i, r := range ranges {
			if r.contains(p) {
				out[i] += 1
			}
		}
	}
	return out
}

// Signature classifies the positions of both populations: the first
// population positions are color A, the next population ones color B.
func (c *Classifier) Signature(positions []Position, population int) (Signature, error) {
	if len(positions) != 2*population {
		return Signature{}, fmt.Errorf("expected %d positions, got %d", 2*population, len(positions))
	}
	return Signature{
		A: c.Classify(ColorA, positions[:population]),
		B: c.Classify(ColorB, positions[population:]),
	}, nil
}
