package types

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// QTable is a dense [states x actions] table of action values.
// Rows are state indices, columns are action indices.
type QTable struct {
	values *mat.Dense
}

// NewQTable returns a zero initialised table
func NewQTable(states, actions int) *QTable {
	return &QTable{
		values: mat.NewDense(states, actions, nil),
	}
}

func (q *QTable) Dims() (int, int) {
	return q.values.Dims()
}

func (q *QTable) Get(state, action int) float64 {
	return q.values.At(state, action)
}

func (q *QTable) Set(state, action int, val float64) {
	q.values.Set(state, action, val)
}

// Row returns a copy of the action values of a state
func (q *QTable) Row(state int) []float64 {
	return mat.Row(nil, state, q.values)
}

// Max value over the actions of a state
func (q *QTable) Max(state int) float64 {
	return floats.Max(q.values.RawRowView(state))
}

// ArgMax returns the first action achieving the row maximum
func (q *QTable) ArgMax(state int) int {
	return floats.MaxIdx(q.values.RawRowView(state))
}

// Reset zeroes all the values
func (q *QTable) Reset() {
	q.values.Zero()
}

func (q *QTable) Clone() *QTable {
	return &QTable{
		values: mat.DenseCopyOf(q.values),
	}
}

// WriteTo serializes the table in the gonum binary matrix format
func (q *QTable) WriteTo(w io.Writer) (int64, error) {
	n, err := q.values.MarshalBinaryTo(w)
	return int64(n), err
}

// ReadQTable decodes a table written by WriteTo and checks that it
// has exactly the expected dimensions. The table is never truncated or padded.
func ReadQTable(r io.Reader, states, actions int) (*QTable, error) {
	var values mat.Dense
	if _, err := values.UnmarshalBinaryFrom(r); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrCorruptTable, err)
	}
	rows, cols := values.Dims()
	if rows != states || cols != actions {
		return nil, fmt.Errorf("%w: dimensions [%d, %d], expected [%d, %d]", ErrCorruptTable, rows, cols, states, actions)
	}
	return &QTable{values: &values}, nil
}
