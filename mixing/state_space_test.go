package mixing

import "testing"

func TestStateSpaceSize(t *testing.T) {
	space := DefaultStateSpace()
	if space.Len() != 48400 {
		t.Fatalf("got %d states, want 48400", space.Len())
	}
	small, err := NewStateSpace(2)
	if err != nil {
		t.Fatal(err)
	}
	if small.Len() != 100 {
		t.Fatalf("population 2: got %d states, want 100", small.Len())
	}
	for _, p := range []int{0, 10, -1} {
		if _, err := NewStateSpace(p); err == nil {
			t.Errorf("population %d accepted", p)
		}
	}
}

func TestStateSpaceOrder(t *testing.T) {
	space := DefaultStateSpace()
	tests := []struct {
		index int
		sig   string
	}{
		{0, "00090009"},
		{1, "00090018"},
		{219, "00099000"},
		{220, "00180009"},
		{48399, "90009000"},
	}
	for _, tt := range tests {
		sig, ok := space.Signature(tt.index)
		if !ok || sig.String() != tt.sig {
			t.Errorf("index %d: got %s, want %s", tt.index, sig, tt.sig)
		}
	}
	if _, ok := space.Signature(48400); ok {
		t.Error("index past the end accepted")
	}
	if _, ok := space.Signature(-1); ok {
		t.Error("negative index accepted")
	}
}

func TestStateSpaceBijection(t *testing.T) {
	space := DefaultStateSpace()
	rebuilt, err := NewStateSpace(DefaultPopulation)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < space.Len(); i++ {
		sig, ok := space.Signature(i)
		if !ok || !sig.Valid(DefaultPopulation) {
			t.Fatalf("index %d: invalid signature %s", i, sig)
		}
		if j, ok := space.Index(sig); !ok || j != i {
			t.Fatalf("index %d: signature %s maps back to %d", i, sig, j)
		}
		if j, _ := rebuilt.Index(sig); j != i {
			t.Fatalf("index %d: rebuilt space maps %s to %d", i, sig, j)
		}
	}
}

func TestStateSpaceInvalid(t *testing.T) {
	space := DefaultStateSpace()
	for _, s := range []string{"22223333", "22222233", "00000000", "90009001"} {
		if _, ok := space.Index(mustSignature(s)); ok {
			t.Errorf("%s should not be in the state space", s)
		}
	}
	if _, ok := space.Index(mustSignature("22232223")); !ok {
		t.Error("22232223 should be in the state space")
	}
}
