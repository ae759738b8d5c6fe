package mixing

import (
	"errors"
	"math"
	"testing"

	"github.com/zeu5/mixing-rl/types"
)

func TestParseDirection(t *testing.T) {
	for i, name := range []string{"Up", "Down", "Left", "Right"} {
		d, err := ParseDirection(name)
		if err != nil {
			t.Fatal(err)
		}
		if d.Index() != i || d.String() != name || AllDirections[i] != d {
			t.Errorf("%s: got %v at index %d", name, d, d.Index())
		}
	}
	for _, name := range []string{"up", "", "Diagonal"} {
		if _, err := ParseDirection(name); !errors.Is(err, types.ErrInvalidDirection) {
			t.Errorf("%q: got %v, want ErrInvalidDirection", name, err)
		}
	}
	for _, i := range []int{-1, 4} {
		if _, err := DirectionFromIndex(i); !errors.Is(err, types.ErrInvalidDirection) {
			t.Errorf("index %d: got %v, want ErrInvalidDirection", i, err)
		}
	}
}

func TestSweep(t *testing.T) {
	tests := []struct {
		d      Direction
		axis   Axis
		firstX float64
		firstY float64
	}{
		{Up, AxisY, 0, 0.004},
		{Down, AxisY, 0, -0.004},
		{Left, AxisX, -0.004, 0},
		{Right, AxisX, 0.004, 0},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			sweep := tt.d.Sweep(DefaultSpan, DefaultSubsteps)
			if len(sweep) != 2*DefaultSubsteps {
				t.Fatalf("got %d offsets", len(sweep))
			}
			if tt.d.Axis() != tt.axis {
				t.Errorf("axis %v, want %v", tt.d.Axis(), tt.axis)
			}
			first := sweep[0]
			if math.Abs(first.DX-tt.firstX) > 1e-12 || math.Abs(first.DY-tt.firstY) > 1e-12 {
				t.Errorf("first offset %+v", first)
			}
			var x, y, peak float64
			for _, o := range sweep {
				x += o.DX
				y += o.DY
				peak = math.Max(peak, math.Abs(x)+math.Abs(y))
			}
			if math.Abs(x) > 1e-12 || math.Abs(y) > 1e-12 {
				t.Errorf("container does not come back: (%v, %v)", x, y)
			}
			if math.Abs(peak-DefaultSpan) > 1e-12 {
				t.Errorf("peak displacement %v, want %v", peak, DefaultSpan)
			}
		})
	}
}
