package explorer

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/store"
	"github.com/zeu5/mixing-rl/types"
)

const testTrace = `{"initial":"11000011","states":["11000011","10100011"],"actions":["Left","Up"],"next_states":["10100011","10100101"],"rewards":[10,20]}
{"initial":"11000011","states":[],"actions":[],"next_states":[],"rewards":[]}
`

func setupExplorer(t *testing.T) *Explorer {
	dir := t.TempDir()
	space, err := mixing.NewStateSpace(2)
	if err != nil {
		t.Fatal(err)
	}
	sig, _ := mixing.ParseSignature("11000011")
	index, _ := space.Index(sig)
	table := types.NewQTable(space.Len(), len(mixing.AllDirections))
	table.Set(index, mixing.Left.Index(), 2.5)

	st := store.NewFileStore(filepath.Join(dir, "qtable_1.bin"))
	if err := st.Save(context.Background(), table); err != nil {
		t.Fatal(err)
	}
	tracesFile := filepath.Join(dir, "Train_1.jsonl")
	if err := os.WriteFile(tracesFile, []byte(testTrace), 0o644); err != nil {
		t.Fatal(err)
	}
	e, err := NewExplorer(context.Background(), st, space, tracesFile)
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func run(e *Explorer, input ...string) string {
	out := new(bytes.Buffer)
	e.Interact(strings.NewReader(strings.Join(input, "\n")+"\n"), out)
	return out.String()
}

func TestExplorer(t *testing.T) {
	Convey("Given a stored table and two recorded traces", t, func() {
		e := setupExplorer(t)
		So(e.Traces, ShouldHaveLength, 2)

		Convey("Initial states are counted", func() {
			out := run(e, "1", "5")
			So(out, ShouldContainSubstring, "11000011: 2")
			So(out, ShouldContainSubstring, "Quitting")
		})

		Convey("Q values show the greedy direction", func() {
			out := run(e, "2", "11000011", "5")
			So(out, ShouldContainSubstring, "Left: 2.500000")
			So(out, ShouldContainSubstring, "Greedy choice: Left")
		})

		Convey("Signatures outside the space are reported", func() {
			out := run(e, "3", "22000011", "2", "abcdefgh", "5")
			So(out, ShouldContainSubstring, "not in the state space")
			So(out, ShouldContainSubstring, "invalid digit")
		})

		Convey("A full state shows its index and reward", func() {
			out := run(e, "3", "11000011", "5")
			So(out, ShouldContainSubstring, "State Key: 11000011")
			So(out, ShouldContainSubstring, "Reward: ")
		})

		Convey("Traces can be stepped through", func() {
			out := run(e, "4", "1", "s", "s", "p", "q", "4", "2", "5")
			So(out, ShouldContainSubstring, "For step 2")
			So(out, ShouldContainSubstring, "No more steps!")
			So(out, ShouldContainSubstring, "Empty trace!")
		})

		Convey("The loop ends with the input", func() {
			out := run(e, "1")
			So(out, ShouldNotContainSubstring, "Quitting")
		})
	})
}

func TestReadTracesMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonl")
	bad := `{"initial":"11000011","states":["11000011"],"actions":[],"next_states":["10100011"],"rewards":[1]}`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := readTraces(path); err == nil {
		t.Fatal("expected an error for a trace with missing actions")
	}
}

func TestExploreTableStore(t *testing.T) {
	Convey("The explored table is found where train saved it", t, func() {
		st, release := tableStore("results/qtable_1.bin", "", store.DefaultRedisKey, 2)
		release()
		So(st.Location(), ShouldEqual, "results/qtable_1.bin")

		st, release = tableStore("", "127.0.0.1:6390", store.DefaultRedisKey, 2)
		defer release()
		So(st.Location(), ShouldEqual, "redis://127.0.0.1:6390/"+store.RunKey(store.DefaultRedisKey, 2))
	})
}
