package mixing

import (
	"fmt"
	"strconv"
	"strings"
)

// DefaultPopulation is the number of objects of each color
const DefaultPopulation = 9

// Position of an object relative to the container, in the horizontal plane
type Position struct {
	X float64
	Y float64
}

type Color int

const (
	ColorA Color = iota
	ColorB
)

func (c Color) String() string {
	if c == ColorB {
		return "B"
	}
	return "A"
}

// Cell indices around the container origin
const (
	CellUpLeft = iota
	CellUpRight
	CellDownRight
	CellDownLeft
	NumCells
)

// Cells holds the object count of one color in each cell
type Cells [NumCells]int

func (c Cells) Sum() int {
	sum := 0
	for _, v := range c {
		sum += v
	}
	return sum
}

// Signature is the occupancy of both colors, A first
type Signature struct {
	A Cells
	B Cells
}

func (s Signature) Digits() []int {
	out := make([]int, 0, 2*NumCells)
	out = append(out, s.A[:]...)
	return append(out, s.B[:]...)
}

// Valid when each color accounts for the whole population
func (s Signature) Valid(population int) bool {
	return s.A.Sum() == population && s.B.Sum() == population
}

func (s Signature) String() string {
	b := strings.Builder{}
	for _, d := range s.Digits() {
		b.WriteString(strconv.Itoa(d))
	}
	return b.String()
}

// ParseSignature reads the 8 digit form produced by String
func ParseSignature(str string) (Signature, error) {
	s := Signature{}
	str = strings.TrimSpace(str)
	if len(str) != 2*NumCells {
		return s, fmt.Errorf("signature %q: expected %d digits", str, 2*NumCells)
	}
	for i, r := range str {
		if r < '0' || r > '9' {
			return s, fmt.Errorf("signature %q: invalid digit %q", str, r)
		}
		d := int(r - '0')
		if i < NumCells {
			s.A[i] = d
		} else {
			s.B[i-NumCells] = d
		}
	}
	return s, nil
}
