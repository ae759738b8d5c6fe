package mixing

import (
	"fmt"
	"sync"
)

// StateSpace is the bijection between valid signatures and dense
// indices in [0, Len()). Immutable once built.
type StateSpace struct {
	population int
	colorCells []Cells
	index      map[Signature]int
}

// colorSignatures lists the cell counts over digits 0-9 summing to the
// population, in lexicographic order of their digit strings
func colorSignatures(population int) []Cells {
	out := make([]Cells, 0)
	for a := 0; a <= 9; a++ {
		for b := 0; b <= 9; b++ {
			for c := 0; c <= 9; c++ {
				for d := 0; d <= 9; d++ {
					if a+b+c+d == population {
						out = append(out, Cells{a, b, c, d})
					}
				}
			}
		}
	}
	return out
}

// NewStateSpace enumerates every (A, B) pair of valid color signatures,
// A in the outer loop
func NewStateSpace(population int) (*StateSpace, error) {
	if population < 1 || population > 9 {
		return nil, fmt.Errorf("population %d out of range [1, 9]", population)
	}
	colorCells := colorSignatures(population)
	s := &StateSpace{
		population: population,
		colorCells: colorCells,
		index:      make(map[Signature]int, len(colorCells)*len(colorCells)),
	}
	i := 0
	for _, a := range colorCells {
		for _, b := range colorCells {
			s.index[Signature{A: a, B: b}] = i
			i++
		}
	}
	return s, nil
}

// DefaultStateSpace is built once per process for the default population
var DefaultStateSpace = sync.OnceValue(func() *StateSpace {
	s, _ := NewStateSpace(DefaultPopulation)
	return s
})

// StateSpaceFor returns the shared default space or builds a new one
func StateSpaceFor(population int) (*StateSpace, error) {
	if population == DefaultPopulation {
		return DefaultStateSpace(), nil
	}
	return NewStateSpace(population)
}

func (s *StateSpace) Population() int {
	return s.population
}

func (s *StateSpace) Len() int {
	return len(s.index)
}

// Index of a signature, false if the signature is not valid
func (s *StateSpace) Index(sig Signature) (int, bool) {
	i, ok := s.index[sig]
	return i, ok
}

// Signature at the given index
func (s *StateSpace) Signature(i int) (Signature, bool) {
	if i < 0 || i >= s.Len() {
		return Signature{}, false
	}
	n := len(s.colorCells)
	return Signature{A: s.colorCells[i/n], B: s.colorCells[i%n]}, true
}
