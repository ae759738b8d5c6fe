package explorer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeu5/mixing-rl/mixing"
)

// Trace as recorded by a run, states are signature strings and actions direction names
type Trace struct {
	Initial    string    `json:"initial"`
	States     []string  `json:"states"`
	Actions    []string  `json:"actions"`
	NextStates []string  `json:"next_states"`
	Rewards    []float64 `json:"rewards"`
}

func NewTrace() *Trace {
	return &Trace{
		States:     make([]string, 0),
		Actions:    make([]string, 0),
		NextStates: make([]string, 0),
		Rewards:    make([]float64, 0),
	}
}

func (t *Trace) Len() int {
	return len(t.States)
}

func (t *Trace) Get(index int) (string, string, string, float64, bool) {
	if index < 0 || index >= len(t.States) {
		return "", "", "", 0, false
	}
	return t.States[index], t.Actions[index], t.NextStates[index], t.Rewards[index], true
}

func (t *Trace) valid() bool {
	n := len(t.States)
	return len(t.Actions) == n && len(t.NextStates) == n && len(t.Rewards) == n
}

// readTraces accepts a single json trace or a jsonl file of traces
func readTraces(path string) ([]*Trace, error) {
	traces := make([]*Trace, 0)
	file, err := os.Open(path)
	if err != nil {
		return traces, fmt.Errorf("error reading file: %w", err)
	}
	defer file.Close()

	if !strings.HasSuffix(path, ".jsonl") {
		t := NewTrace()
		data, err := io.ReadAll(file)
		if err != nil {
			return traces, fmt.Errorf("error reading file: %w", err)
		}
		if err := json.Unmarshal(data, t); err != nil {
			return traces, fmt.Errorf("error parsing file: %w", err)
		}
		if !t.valid() {
			return traces, errors.New("number of states, actions, next states and rewards mismatched")
		}
		return append(traces, t), nil
	}

	scanner := bufio.NewScanner(file)
	maxTraceSize := 5 * 1024 * 1024
	scanner.Buffer(make([]byte, 64*1024), maxTraceSize)
	for line := 1; scanner.Scan(); line++ {
		bs := scanner.Bytes()
		if len(strings.TrimSpace(string(bs))) == 0 {
			continue
		}
		t := NewTrace()
		if err := json.Unmarshal(bs, t); err != nil {
			return traces, fmt.Errorf("error reading trace at line %d: %w", line, err)
		}
		if !t.valid() {
			return traces, fmt.Errorf("trace at line %d: number of states, actions, next states and rewards mismatched", line)
		}
		traces = append(traces, t)
	}
	if err := scanner.Err(); err != nil {
		return traces, fmt.Errorf("failed to read traces: %w", err)
	}
	return traces, nil
}

func cellsGrid(c mixing.Cells) [2]string {
	return [2]string{
		fmt.Sprintf("%d %d", c[mixing.CellUpLeft], c[mixing.CellUpRight]),
		fmt.Sprintf("%d %d", c[mixing.CellDownLeft], c[mixing.CellDownRight]),
	}
}

// renderSignature lays out both colors as the four cells seen from above
func renderSignature(sig mixing.Signature) string {
	a, b := cellsGrid(sig.A), cellsGrid(sig.B)
	return fmt.Sprintf("  A: %s   B: %s\n     %s      %s\n", a[0], b[0], a[1], b[1])
}
