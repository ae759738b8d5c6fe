package mixing

import (
	"fmt"

	"github.com/zeu5/mixing-rl/types"
)

// Sweep defaults: the container travels Span along the axis in Substeps
// moves, then travels back the same way
const (
	DefaultSpan     = 0.02
	DefaultSubsteps = 5
)

// Direction in which the container is nudged
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
)

var directionNames = [...]string{"Up", "Down", "Left", "Right"}

var _ types.Action = Up

// AllDirections in index order
var AllDirections = []types.Action{Up, Down, Left, Right}

func (d Direction) Valid() bool {
	return d >= Up && d <= Right
}

func (d Direction) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

func (d Direction) Hash() string {
	return d.String()
}

func (d Direction) Index() int {
	return int(d)
}

// ParseDirection reads a direction by name
func ParseDirection(name string) (Direction, error) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", types.ErrInvalidDirection, name)
}

// DirectionFromIndex reads a direction by its action index
func DirectionFromIndex(i int) (Direction, error) {
	d := Direction(i)
	if !d.Valid() {
		return 0, fmt.Errorf("%w: index %d", types.ErrInvalidDirection, i)
	}
	return d, nil
}

type Axis int

const (
	AxisX Axis = iota
	AxisY
)

func (d Direction) Axis() Axis {
	if d == Left || d == Right {
		return AxisX
	}
	return AxisY
}

// Signs of the two legs of the sweep
func (d Direction) Signs() [2]float64 {
	if d == Up || d == Right {
		return [2]float64{1, -1}
	}
	return [2]float64{-1, 1}
}

// Offset of the container for one sub step
type Offset struct {
	DX float64
	DY float64
}

// Sweep returns the 2*substeps container offsets of the there and back move
func (d Direction) Sweep(span float64, substeps int) []Offset {
	if substeps <= 0 {
		substeps = DefaultSubsteps
	}
	out := make([]Offset, 0, 2*substeps)
	step := span / float64(substeps)
	for _, sign := range d.Signs() {
		for i := 0; i < substeps; i++ {
			o := Offset{}
			if d.Axis() == AxisX {
				o.DX = sign * step
			} else {
				o.DY = sign * step
			}
			out = append(out, o)
		}
	}
	return out
}
