package types

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
)

// VisitGraph records the observed transitions between states, by hash
type VisitGraph struct {
	Nodes map[string]*Node
}

func NewVisitGraph() *VisitGraph {
	return &VisitGraph{
		Nodes: make(map[string]*Node),
	}
}

// Visit marks a state as seen without a transition, true if it is new
func (v *VisitGraph) Visit(s State) bool {
	key := s.Hash()
	if _, ok := v.Nodes[key]; ok {
		return false
	}
	v.Nodes[key] = NewNode(key)
	return true
}

// Update records a transition, true if the source state is new
func (v *VisitGraph) Update(from State, action Action, to State) bool {
	fromKey := from.Hash()
	isNew := v.Visit(from)
	v.Visit(to)
	v.Nodes[fromKey].Visits += 1
	v.Nodes[fromKey].AddNext(action.Hash(), to.Hash())
	v.Nodes[to.Hash()].AddPrev(action.Hash(), fromKey)
	return isNew
}

func (v *VisitGraph) Len() int {
	return len(v.Nodes)
}

func (v *VisitGraph) GetVisits() map[string]int {
	results := make(map[string]int)
	for k, n := range v.Nodes {
		results[k] = n.Visits
	}
	return results
}

// Record writes the graph as json
func (v *VisitGraph) Record(filePath string) error {
	if err := os.MkdirAll(filepath.Dir(filePath), os.ModePerm); err != nil {
		return err
	}
	file, err := os.Create(filePath)
	if err != nil {
		return err
	}
	defer file.Close()
	writer := bufio.NewWriter(file)
	if err := json.NewEncoder(writer).Encode(v); err != nil {
		return err
	}
	return writer.Flush()
}

type Node struct {
	Key    string
	Visits int
	// Next, Prev: Each action can lead to many states
	Next map[string]map[string]bool
	Prev map[string]map[string]bool
}

func NewNode(key string) *Node {
	return &Node{
		Key:  key,
		Next: make(map[string]map[string]bool),
		Prev: make(map[string]map[string]bool),
	}
}

func (n *Node) AddPrev(a, prev string) {
	if _, ok := n.Prev[a]; !ok {
		n.Prev[a] = make(map[string]bool)
	}
	n.Prev[a][prev] = true
}

func (n *Node) AddNext(a, next string) {
	if _, ok := n.Next[a]; !ok {
		n.Next[a] = make(map[string]bool)
	}
	n.Next[a][next] = true
}

// CoverageAnalyzer tracks how many distinct states a run has visited after each episode
type CoverageAnalyzer struct {
	graph    *VisitGraph
	coverage []float64
}

var _ Analyzer = &CoverageAnalyzer{}

func NewCoverageAnalyzer() *CoverageAnalyzer {
	return &CoverageAnalyzer{
		graph:    NewVisitGraph(),
		coverage: make([]float64, 0),
	}
}

func (c *CoverageAnalyzer) Analyze(_ int, eCtx *EpisodeContext) {
	if initial, ok := eCtx.Trace.Initial(); ok {
		c.graph.Visit(initial)
	}
	for i := 0; i < eCtx.Trace.Len(); i++ {
		s, a, ns, _, _ := eCtx.Trace.Get(i)
		c.graph.Update(s, a, ns)
	}
	c.coverage = append(c.coverage, float64(c.graph.Len()))
}

func (c *CoverageAnalyzer) DataSet() DataSet {
	out := make([]float64, len(c.coverage))
	copy(out, c.coverage)
	return out
}

// Graph of the transitions seen since the last reset
func (c *CoverageAnalyzer) Graph() *VisitGraph {
	return c.graph
}

func (c *CoverageAnalyzer) Reset() {
	c.graph = NewVisitGraph()
	c.coverage = make([]float64, 0)
}
