package types

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestRunParallel(t *testing.T) {
	Convey("When jobs run in parallel slots", t, func() {
		Convey("Every job runs and never more than the slots at once", func() {
			var running, peak, finished int32
			jobs := make([]ParallelJob, 6)
			for i := range jobs {
				jobs[i] = func(_ context.Context, out *ParallelOutput) error {
					n := atomic.AddInt32(&running, 1)
					for {
						p := atomic.LoadInt32(&peak)
						if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
							break
						}
					}
					out.Set("working")
					time.Sleep(5 * time.Millisecond)
					atomic.AddInt32(&running, -1)
					atomic.AddInt32(&finished, 1)
					return nil
				}
			}
			So(RunParallel(context.Background(), 2, 10*time.Millisecond, jobs), ShouldBeNil)
			So(atomic.LoadInt32(&finished), ShouldEqual, 6)
			So(atomic.LoadInt32(&peak), ShouldBeLessThanOrEqualTo, 2)
		})

		Convey("The first failure is returned and stops new jobs", func() {
			boom := errors.New("boom")
			var mu sync.Mutex
			started := 0
			jobs := make([]ParallelJob, 5)
			for i := range jobs {
				i := i
				jobs[i] = func(ctx context.Context, _ *ParallelOutput) error {
					mu.Lock()
					started++
					mu.Unlock()
					if i == 0 {
						return boom
					}
					<-ctx.Done()
					return ctx.Err()
				}
			}
			err := RunParallel(context.Background(), 1, 10*time.Millisecond, jobs)
			So(errors.Is(err, boom), ShouldBeTrue)
			So(started, ShouldEqual, 1)
		})

		Convey("No jobs is not an error", func() {
			So(RunParallel(context.Background(), 4, time.Second, nil), ShouldBeNil)
		})
	})
}

func TestCoverageAnalyzer(t *testing.T) {
	Convey("Given a coverage analyzer over scripted episodes", t, func() {
		env := &scriptedEnv{
			resets: []*testState{valid(1)},
			steps:  []*testState{valid(2), valid(3), valid(2)},
		}
		coverage := NewCoverageAnalyzer()
		exp := NewExperiment("Coverage", &AgentConfig{
			Horizon:     3,
			Policy:      &firstActionPolicy{},
			Environment: env,
			Reward:      idReward,
		})
		_, err := exp.Run(&RunConfig{Run: 1, Episodes: 2, Analyzers: []Analyzer{coverage}, Quiet: true})
		So(err, ShouldBeNil)

		So(coverage.DataSet(), ShouldResemble, []float64{3, 3})
		visits := coverage.Graph().GetVisits()
		So(visits["s1"], ShouldEqual, 2)
		So(visits["s2"], ShouldEqual, 3)
		So(coverage.Graph().Nodes["s2"].Next["0"], ShouldContainKey, "s3")

		Convey("The graph can be recorded", func() {
			file := t.TempDir() + "/visits/graph.json"
			So(coverage.Graph().Record(file), ShouldBeNil)
		})

		Convey("Reset forgets the visits", func() {
			coverage.Reset()
			So(coverage.Graph().Len(), ShouldEqual, 0)
			So(coverage.DataSet(), ShouldBeEmpty)
		})
	})
}
