package mixing

import (
	"context"
	"fmt"
)

var cellCenters = [NumCells]Position{
	CellUpLeft:    {X: -0.025, Y: 0.025},
	CellUpRight:   {X: 0.025, Y: 0.025},
	CellDownRight: {X: 0.025, Y: -0.025},
	CellDownLeft:  {X: -0.025, Y: -0.025},
}

var outside = Position{X: 1, Y: 1}

// positionsFor places objects at cell centers, objects not accounted for
// by the signature are left outside the cells
func positionsFor(sig Signature, population int) []Position {
	out := make([]Position, 0, 2*population)
	for _, cells := range []Cells{sig.A, sig.B} {
		n := 0
		for c, count := range cells {
			for i := 0; i < count; i++ {
				out = append(out, cellCenters[c])
				n++
			}
		}
		for ; n < population; n++ {
			out = append(out, outside)
		}
	}
	return out
}

func mustSignature(s string) Signature {
	sig, err := ParseSignature(s)
	if err != nil {
		panic(err)
	}
	return sig
}

// fakeSim answers with scripted observations: the first one after a
// reset, the next one after every action
type fakeSim struct {
	observations [][]Position
	resetErr     error
	applyErr     error

	cursor    int
	handles   int
	open      map[Handle]bool
	applied   []Direction
	teardowns int
}

var _ Simulator = &fakeSim{}

func newFakeSim(observations ...[]Position) *fakeSim {
	return &fakeSim{
		observations: observations,
		open:         make(map[Handle]bool),
		applied:      make([]Direction, 0),
	}
}

func (f *fakeSim) Reset(_ context.Context) (Handle, error) {
	if f.resetErr != nil {
		return "", f.resetErr
	}
	f.handles += 1
	h := Handle(fmt.Sprintf("h%d", f.handles))
	f.open[h] = true
	f.cursor = 0
	return h, nil
}

func (f *fakeSim) Positions(_ context.Context, h Handle) ([]Position, error) {
	if !f.open[h] {
		return nil, fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	return f.observations[min(f.cursor, len(f.observations)-1)], nil
}

func (f *fakeSim) Apply(_ context.Context, h Handle, d Direction) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	if !f.open[h] {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	f.applied = append(f.applied, d)
	f.cursor += 1
	return nil
}

func (f *fakeSim) Teardown(ctx context.Context, h Handle) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !f.open[h] {
		return fmt.Errorf("%w: %s", ErrUnknownHandle, h)
	}
	delete(f.open, h)
	f.teardowns += 1
	return nil
}
