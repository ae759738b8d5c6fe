package shaker

import (
	"context"
	"errors"
	"testing"

	"github.com/zeu5/mixing-rl/mixing"
	"github.com/zeu5/mixing-rl/types"
)

func seeded(seed uint64) Config {
	config := DefaultConfig()
	config.Seed = seed
	return config
}

func TestResetSeparatesColors(t *testing.T) {
	ctx := context.Background()
	s := New(seeded(3))
	h, err := s.Reset(ctx)
	if err != nil {
		t.Fatal(err)
	}
	positions, err := s.Positions(ctx, h)
	if err != nil {
		t.Fatal(err)
	}
	if len(positions) != 2*mixing.DefaultPopulation {
		t.Fatalf("got %d positions", len(positions))
	}
	for i, p := range positions {
		if i < mixing.DefaultPopulation && p.X > 0 {
			t.Errorf("color A object %d on the right: %+v", i, p)
		}
		if i >= mixing.DefaultPopulation && p.X < 0 {
			t.Errorf("color B object %d on the left: %+v", i, p)
		}
	}
	sig, err := mixing.NewClassifier(0, false).Signature(positions, mixing.DefaultPopulation)
	if err != nil {
		t.Fatal(err)
	}
	if !sig.Valid(mixing.DefaultPopulation) {
		t.Errorf("settled reset gave %s", sig)
	}
}

func TestApplyKeepsObjectsInside(t *testing.T) {
	ctx := context.Background()
	s := New(seeded(5))
	h, _ := s.Reset(ctx)
	w := s.config.Wall
	for i := 0; i < 50; i++ {
		if err := s.Apply(ctx, h, mixing.AllDirections[i%4].(mixing.Direction)); err != nil {
			t.Fatal(err)
		}
	}
	positions, _ := s.Positions(ctx, h)
	for _, p := range positions {
		if p.X < -w || p.X > w || p.Y < -w || p.Y > w {
			t.Errorf("object left the container: %+v", p)
		}
	}
}

func TestApplyMovesAgainstTheContainer(t *testing.T) {
	ctx := context.Background()
	config := seeded(1)
	config.Jitter = 0
	s := New(config)
	h, _ := s.Reset(ctx)
	before, _ := s.Positions(ctx, h)
	if err := s.Apply(ctx, h, mixing.Up); err != nil {
		t.Fatal(err)
	}
	after, _ := s.Positions(ctx, h)
	for i := range before {
		if after[i].X != before[i].X {
			t.Errorf("object %d moved across the sweep axis", i)
		}
	}
}

func TestSameSeedSameEpisode(t *testing.T) {
	ctx := context.Background()
	run := func() []mixing.Position {
		s := New(seeded(11))
		h, _ := s.Reset(ctx)
		s.Apply(ctx, h, mixing.Left)
		s.Apply(ctx, h, mixing.Down)
		p, _ := s.Positions(ctx, h)
		return p
	}
	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("object %d: %+v != %+v", i, a[i], b[i])
		}
	}
}

func TestUnknownHandleAndDirection(t *testing.T) {
	ctx := context.Background()
	s := New(DefaultConfig())
	if _, err := s.Positions(ctx, "missing"); !errors.Is(err, mixing.ErrUnknownHandle) {
		t.Errorf("positions: got %v", err)
	}
	if err := s.Teardown(ctx, "missing"); !errors.Is(err, mixing.ErrUnknownHandle) {
		t.Errorf("teardown: got %v", err)
	}
	h, _ := s.Reset(ctx)
	if err := s.Apply(ctx, h, mixing.Direction(8)); !errors.Is(err, types.ErrInvalidDirection) {
		t.Errorf("apply: got %v", err)
	}
	if err := s.Teardown(ctx, h); err != nil || s.Open() != 0 {
		t.Errorf("teardown: %v, open %d", err, s.Open())
	}
}

func TestUnsettledAndSpills(t *testing.T) {
	ctx := context.Background()
	config := seeded(2)
	config.UnsettledProb = 1
	config.SpillProb = 1
	s := New(config)
	h, _ := s.Reset(ctx)
	positions, _ := s.Positions(ctx, h)
	sig, _ := mixing.NewClassifier(0, false).Signature(positions, mixing.DefaultPopulation)
	if sig.Valid(mixing.DefaultPopulation) {
		t.Errorf("unsettled reset classified as valid %s", sig)
	}

	if err := s.Apply(ctx, h, mixing.Right); err != nil {
		t.Fatal(err)
	}
	positions, _ = s.Positions(ctx, h)
	sig, _ = mixing.NewClassifier(0, false).Signature(positions, mixing.DefaultPopulation)
	if sig.A.Sum() != 0 || sig.B.Sum() != 0 {
		t.Errorf("every object should have spilled, got %s", sig)
	}
}

func TestTrainingWithTheShaker(t *testing.T) {
	config := mixing.DefaultTrainConfig()
	config.Episodes = 5
	config.Horizon = 10
	config.Seed = 4
	config.Quiet = true
	s := New(seeded(4))
	res, err := mixing.TrainOneRun(context.Background(), s, config)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Returns) != 5 || s.Open() != 0 {
		t.Fatalf("returns %v, open episodes %d", res.Returns, s.Open())
	}

	eval := mixing.EvalConfig{RunOptions: mixing.RunOptions{Episodes: 3, Horizon: 10, Quiet: true}}
	maxima, err := mixing.EvaluateOneRun(context.Background(), New(seeded(9)), res.Table, eval)
	if err != nil {
		t.Fatal(err)
	}
	if len(maxima) != 3 {
		t.Errorf("maxima %v", maxima)
	}
}
