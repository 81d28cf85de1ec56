// Package spawn drops boxes into a world while the pointer is held down.
package spawn

import (
	"fmt"
	"math/rand"

	"github.com/jakecoffman/cp"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/scene"
)

// Policy decides what happens when the spawner is at capacity.
type Policy uint8

const (
	// DropOldest removes the oldest spawned body to make room.
	DropOldest Policy = iota
	// Refuse skips the spawn.
	Refuse
)

func (p Policy) String() string {
	if p == Refuse {
		return "refuse"
	}
	return "drop-oldest"
}

// ParsePolicy maps a config string to a Policy; anything unrecognised is DropOldest.
func ParsePolicy(s string) Policy {
	if s == "refuse" {
		return Refuse
	}
	return DropOldest
}

type Config struct {
	// Interval is the frame cadence; a held pointer spawns on frames divisible by it.
	Interval int
	// Capacity bounds live spawned bodies. Zero means unbounded.
	Capacity int
	Policy   Policy
	SizeMin  float64
	SizeMax  float64
	Seed     int64
}

func DefaultConfig() Config {
	return Config{
		Interval: 5,
		Capacity: 200,
		Policy:   DropOldest,
		SizeMin:  scene.DefaultBoxSize,
		SizeMax:  scene.DefaultBoxSize,
		Seed:     1,
	}
}

// Result reports what one MaybeSpawn call did.
type Result struct {
	Spawned *engine.Body
	Evicted bool
	Refused bool
	// Err is set when the evicted body could not be removed from the world.
	Err error
}

type Spawner struct {
	cfg  Config
	rng  *rand.Rand
	live []*engine.Body

	spawned int
	evicted int
	refused int
}

func New(cfg Config) *Spawner {
	if cfg.Interval <= 0 {
		cfg.Interval = 1
	}
	if cfg.SizeMin <= 0 {
		cfg.SizeMin = scene.DefaultBoxSize
	}
	if cfg.SizeMax < cfg.SizeMin {
		cfg.SizeMax = cfg.SizeMin
	}
	return &Spawner{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
}

func (s *Spawner) Config() Config { return s.cfg }

// MaybeSpawn adds one box centered at pos when the pointer is down on a
// frame that falls on the spawn cadence.
func (s *Spawner) MaybeSpawn(down bool, pos cp.Vector, frame int, w *engine.World) Result {
	if !down || frame%s.cfg.Interval != 0 {
		return Result{}
	}

	var res Result
	if s.cfg.Capacity > 0 && len(s.live) >= s.cfg.Capacity {
		if s.cfg.Policy == Refuse {
			s.refused++
			return Result{Refused: true}
		}
		oldest := s.live[0]
		s.live = s.live[1:]
		if err := w.RemoveBody(oldest); err != nil {
			res.Err = fmt.Errorf("spawn: evict oldest: %w", err)
		}
		s.evicted++
		res.Evicted = true
	}

	b := w.AddBody(scene.Box(pos, s.size()))
	s.live = append(s.live, b)
	s.spawned++
	res.Spawned = b
	return res
}

func (s *Spawner) size() float64 {
	if s.cfg.SizeMax <= s.cfg.SizeMin {
		return s.cfg.SizeMin
	}
	return s.cfg.SizeMin + s.rng.Float64()*(s.cfg.SizeMax-s.cfg.SizeMin)
}

// Forget drops every tracked body. Call it after the world is reloaded.
func (s *Spawner) Forget() {
	s.live = nil
}

// Reset forgets tracked bodies and reseeds the size generator.
func (s *Spawner) Reset() {
	s.live = nil
	s.rng = rand.New(rand.NewSource(s.cfg.Seed))
	s.spawned, s.evicted, s.refused = 0, 0, 0
}

func (s *Spawner) Live() int    { return len(s.live) }
func (s *Spawner) Spawned() int { return s.spawned }
func (s *Spawner) Evicted() int { return s.evicted }
func (s *Spawner) Refused() int { return s.refused }
