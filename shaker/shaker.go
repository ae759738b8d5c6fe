// Package shaker is a small kinematic stand-in for the physics simulator.
// Objects lag behind the container when it moves, jitter a little and are
// stopped by the container walls. It is meant for offline runs and tests,
// not for physical accuracy.
package shaker

import (
	"context"
	"fmt"
	"sync"

	"github.com/zeu5/mixing-rl/mixing"
	"golang.org/x/exp/rand"
)

type Config struct {
	Population int
	// half width of the container floor
	Wall     float64
	Span     float64
	Substeps int
	// fraction of the container displacement the objects do not follow
	Drag float64
	// standard deviation of the random motion of an object per sub step
	Jitter float64
	// probability that an object jumps out of the container during an action
	SpillProb float64
	// probability that Reset returns before every object has landed
	UnsettledProb float64
	Seed          uint64
}

func DefaultConfig() Config {
	return Config{
		Population: mixing.DefaultPopulation,
		Wall:       mixing.DefaultCellSize,
		Span:       mixing.DefaultSpan,
		Substeps:   mixing.DefaultSubsteps,
		Drag:       0.6,
		Jitter:     0.004,
	}
}

type session struct {
	box mixing.Position
	// positions relative to the box, color A first
	objects []mixing.Position
	outside []bool
}

// Shaker implements mixing.Simulator in process
type Shaker struct {
	config Config

	lock     *sync.Mutex
	rand     *rand.Rand
	sessions map[mixing.Handle]*session
	episodes int
}

var _ mixing.Simulator = &Shaker{}

func New(config Config) *Shaker {
	def := DefaultConfig()
	if config.Population == 0 {
		config.Population = def.Population
	}
	if config.Wall == 0 {
		config.Wall = def.Wall
	}
	if config.Span == 0 {
		config.Span = def.Span
	}
	if config.Substeps == 0 {
		config.Substeps = def.Substeps
	}
	return &Shaker{
		config:   config,
		lock:     new(sync.Mutex),
		rand:     rand.New(rand.NewSource(config.Seed)),
		sessions: make(map[mixing.Handle]*session),
	}
}

func (s *Shaker) uniform(lo, hi float64) float64 {
	return lo + (hi-lo)*s.rand.Float64()
}

// Reset drops color A in the left half of the container and color B in the right half
func (s *Shaker) Reset(ctx context.Context) (mixing.Handle, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	n := s.config.Population
	w := s.config.Wall
	sess := &session{
		objects: make([]mixing.Position, 2*n),
		outside: make([]bool, 2*n),
	}
	for i := 0; i < 2*n; i++ {
		x := s.uniform(-w, 0)
		if i >= n {
			x = s.uniform(0, w)
		}
		sess.objects[i] = mixing.Position{X: x, Y: s.uniform(-w, w)}
	}
	if s.rand.Float64() < s.config.UnsettledProb {
		// still falling, above the rim of the container
		i := s.rand.Intn(2 * n)
		sess.objects[i] = mixing.Position{X: 2 * w, Y: 2 * w}
		sess.outside[i] = true
	}

	s.episodes += 1
	handle := mixing.Handle(fmt.Sprintf("episode-%d", s.episodes))
	s.sessions[handle] = sess
	return handle, nil
}

func (s *Shaker) Positions(ctx context.Context, h mixing.Handle) ([]mixing.Position, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	sess, ok := s.sessions[h]
	if !ok {
		return nil, fmt.Errorf("%w: %s", mixing.ErrUnknownHandle, h)
	}
	out := make([]mixing.Position, len(sess.objects))
	copy(out, sess.objects)
	return out, nil
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(hi, v))
}

func (s *Shaker) Apply(ctx context.Context, h mixing.Handle, d mixing.Direction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := mixing.DirectionFromIndex(d.Index()); err != nil {
		return err
	}
	s.lock.Lock()
	defer s.lock.Unlock()

	sess, ok := s.sessions[h]
	if !ok {
		return fmt.Errorf("%w: %s", mixing.ErrUnknownHandle, h)
	}
	w := s.config.Wall
	for _, o := range d.Sweep(s.config.Span, s.config.Substeps) {
		sess.box.X += o.DX
		sess.box.Y += o.DY
		for i, p := range sess.objects {
			if sess.outside[i] {
				continue
			}
			p.X = clamp(p.X-s.config.Drag*o.DX+s.config.Jitter*s.rand.NormFloat64(), -w, w)
			p.Y = clamp(p.Y-s.config.Drag*o.DY+s.config.Jitter*s.rand.NormFloat64(), -w, w)
			sess.objects[i] = p
		}
	}
	for i := range sess.objects {
		if !sess.outside[i] && s.rand.Float64() < s.config.SpillProb {
			sess.objects[i].X = 3 * w
			sess.outside[i] = true
		}
	}
	return nil
}

func (s *Shaker) Teardown(ctx context.Context, h mixing.Handle) error {
	s.lock.Lock()
	defer s.lock.Unlock()

	if _, ok := s.sessions[h]; !ok {
		return fmt.Errorf("%w: %s", mixing.ErrUnknownHandle, h)
	}
	delete(s.sessions, h)
	return nil
}

// Open returns the number of episode contexts not torn down yet
func (s *Shaker) Open() int {
	s.lock.Lock()
	defer s.lock.Unlock()
	return len(s.sessions)
}
