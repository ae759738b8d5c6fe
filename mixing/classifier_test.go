package mixing

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultCellSize, false)
	tests := []struct {
		name string
		p    Position
		want Cells
	}{
		{"up left", Position{-0.01, 0.01}, Cells{1, 0, 0, 0}},
		{"up right", Position{0.01, 0.01}, Cells{0, 1, 0, 0}},
		{"down right", Position{0.01, -0.01}, Cells{0, 0, 1, 0}},
		{"down left", Position{-0.01, -0.01}, Cells{0, 0, 0, 1}},
		{"outside", Position{0.06, 0.01}, Cells{}},
		{"outer corner", Position{0.05, 0.05}, Cells{0, 1, 0, 0}},
		{"vertical boundary", Position{0, 0.01}, Cells{1, 1, 0, 0}},
		{"origin", Position{0, 0}, Cells{1, 1, 1, 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, color := range []Color{ColorA, ColorB} {
				if got := c.Classify(color, []Position{tt.p}); got != tt.want {
					t.Errorf("color %s: got %v, want %v", color, got, tt.want)
				}
			}
		})
	}
}

func TestLegacyCells(t *testing.T) {
	far := []Position{{X: 0.3, Y: 0.01}}
	legacy := NewClassifier(DefaultCellSize, true)
	if got := legacy.Classify(ColorB, far); got != (Cells{0, 1, 0, 0}) {
		t.Errorf("legacy color B: got %v", got)
	}
	if got := legacy.Classify(ColorA, far); got != (Cells{}) {
		t.Errorf("legacy color A: got %v", got)
	}
	if got := NewClassifier(DefaultCellSize, false).Classify(ColorB, far); got != (Cells{}) {
		t.Errorf("corrected color B: got %v", got)
	}
}

func TestSignatureOfPositions(t *testing.T) {
	c := NewClassifier(0, false)
	want := mustSignature("90000333")
	got, err := c.Signature(positionsFor(want, DefaultPopulation), DefaultPopulation)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %s, want %s", got, want)
	}

	partial := mustSignature("40000300")
	got, _ = c.Signature(positionsFor(partial, DefaultPopulation), DefaultPopulation)
	if got != partial || got.Valid(DefaultPopulation) {
		t.Errorf("objects outside the cells: got %s", got)
	}

	if _, err := c.Signature(make([]Position, 17), DefaultPopulation); err == nil {
		t.Error("expected an error for a missing object")
	}
}
