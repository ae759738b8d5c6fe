package mixing

import (
	"github.com/zeu5/mixing-rl/types"
	"github.com/zeu5/mixing-rl/util"
)

const (
	// six cells holding 2 objects and two holding 3
	MixedReward = 100
	// two cells holding a whole population each
	SegregatedReward = -100
)

// reward of a cell count, indexed by the count. Counts above 9 use the last entry.
var countReward = [...]int{-60, 30, 50, 40, 20, 10, -10, -20, -30, -40}

func rewardOfCount(count int) int {
	if count >= len(countReward) {
		return countReward[len(countReward)-1]
	}
	return countReward[count]
}

// Reward scores how well mixed a signature is. The even arrangement and
// the fully segregated one are checked before the max/min rule.
func Reward(s Signature) int {
	digits := s.Digits()
	counts := util.IntMultiSet(digits...)
	if counts.HasExactly(map[util.Elem]int{util.IntElem(2): 6, util.IntElem(3): 2}) {
		return MixedReward
	}
	if counts.Multiplicity(util.IntElem(9)) == 2 {
		return SegregatedReward
	}

	maxCount, minCount := digits[0], digits[0]
	for _, d := range digits {
		maxCount = max(maxCount, d)
		minCount = min(minCount, d)
	}
	return rewardOfCount(maxCount) + rewardOfCount(minCount)
}

// RewardFunc adapts Reward to the agent, states of other environments score 0
func RewardFunc() types.RewardFunc {
	return func(s types.State) float64 {
		ms, ok := s.(*MixState)
		if !ok {
			return 0
		}
		return float64(Reward(ms.Signature))
	}
}
