package mixing

import "testing"

func TestReward(t *testing.T) {
	tests := []struct {
		sig  string
		want int
	}{
		{"22222233", MixedReward},
		{"33222222", MixedReward},
		{"22232223", MixedReward},
		{"90000900", SegregatedReward},
		{"00099000", SegregatedReward},
		// max 9 and min 0 without two full cells
		{"90002232", -100},
		{"22222224", 70},
		{"33301233", -20},
		{"45004500", -50},
		{"33302223", -20},
		{"22221233", 70},
		{"11111111", 60},
		{"54000000", -50},
	}
	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			if got := Reward(mustSignature(tt.sig)); got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRewardClampsLargeCounts(t *testing.T) {
	// counts above 9 never come out of the classifier, the table still clamps them
	sig := Signature{A: Cells{10, 1, 1, 1}, B: Cells{3, 3, 2, 1}}
	if got := Reward(sig); got != -10 {
		t.Errorf("got %d, want -10", got)
	}
}

func TestRewardFunc(t *testing.T) {
	space := DefaultStateSpace()
	f := RewardFunc()
	if got := f(NewMixState(mustSignature("22222233"), space)); got != 100 {
		t.Errorf("got %v, want 100", got)
	}
}
