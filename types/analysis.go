package types

import (
	"errors"
	"fmt"
	"os"
	"path"
	"strconv"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// RewardAnalyzer collects the return of every episode
type RewardAnalyzer struct {
	returns []float64
}

var _ Analyzer = &RewardAnalyzer{}

func NewRewardAnalyzer() *RewardAnalyzer {
	return &RewardAnalyzer{
		returns: make([]float64, 0),
	}
}

func (r *RewardAnalyzer) Analyze(_ int, eCtx *EpisodeContext) {
	r.returns = append(r.returns, eCtx.Return)
}

func (r *RewardAnalyzer) DataSet() DataSet {
	out := make([]float64, len(r.returns))
	copy(out, r.returns)
	return out
}

func (r *RewardAnalyzer) Reset() {
	r.returns = make([]float64, 0)
}

// Summary of the returns of a run
type Summary struct {
	Episodes int
	Mean     float64
	StdDev   float64
	Min      float64
	Max      float64
}

func (s Summary) String() string {
	return fmt.Sprintf("episodes: %d, mean: %.2f, stddev: %.2f, min: %.2f, max: %.2f", s.Episodes, s.Mean, s.StdDev, s.Min, s.Max)
}

func Summarize(returns []float64) Summary {
	s := Summary{Episodes: len(returns)}
	if len(returns) == 0 {
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(returns, nil)
	s.Min, s.Max = floats.Min(returns), floats.Max(returns)
	return s
}

// RewardPlotComparator plots the per episode returns of each experiment
// to <plotPath>/<run>_rewards.png
func RewardPlotComparator(plotPath string) Comparator {
	return LinePlotComparator(plotPath, "rewards", "Return")
}

// CoveragePlotComparator plots the number of distinct states visited
// to <plotPath>/<run>_coverage.png
func CoveragePlotComparator(plotPath string) Comparator {
	return LinePlotComparator(plotPath, "coverage", "Visited states")
}

// LinePlotComparator draws one line per experiment from []float64 datasets
// indexed by episode
func LinePlotComparator(plotPath, suffix, yLabel string) Comparator {
	return func(run int, names []string, ds []DataSet) error {
		if len(names) != len(ds) {
			return errors.New("names and datasets mismatched")
		}
		if err := os.MkdirAll(plotPath, os.ModePerm); err != nil {
			return err
		}
		p := plot.New()
		p.Title.Text = "Comparison"
		p.X.Label.Text = "Episode"
		p.Y.Label.Text = yLabel
		for i := 0; i < len(names); i++ {
			values, ok := ds[i].([]float64)
			if !ok {
				return fmt.Errorf("dataset of %s is not a series", names[i])
			}
			points := make(plotter.XYs, len(values))
			for j, v := range values {
				points[j] = plotter.XY{
					X: float64(j + 1),
					Y: v,
				}
			}
			line, err := plotter.NewLine(points)
			if err != nil {
				continue
			}
			line.Color = plotutil.Color(i)
			p.Add(line)
			p.Legend.Add(names[i], line)
		}
		return p.Save(8*vg.Inch, 8*vg.Inch, path.Join(plotPath, strconv.Itoa(run)+"_"+suffix+".png"))
	}
}
