// Package audio sonifies a running session: the tracked body's speed drives
// the pitch of a soft tone, and landings and spawns add short clicks.
package audio

import (
	"fmt"
	"math"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/san-kum/kinelab/internal/engine"
	"github.com/san-kum/kinelab/internal/lab"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	baseFreq  = 220.0
	maxFreq   = 880.0
	clickFreq = 1200.0
	// speedForFull is the speed, px/s, at which the tone reaches full
	// loudness and maxFreq.
	speedForFull = 1000.0
	clickDecay   = 0.9985
	glide        = 0.0005
)

// Sonifier is a lab.Observer feeding a portaudio output stream. OnFrame runs
// on the frame loop and Process on the audio thread.
type Sonifier struct {
	stream *portaudio.Stream
	volume float64

	mu         sync.Mutex
	targetFreq float64
	targetAmp  float64
	click      float64
	clickGen   int
	landed     bool

	freq, amp   float64
	phase       float64
	clickPhase  float64
	filterState float64

	Active bool
}

func NewSonifier(volume float64) *Sonifier {
	return &Sonifier{
		volume:     math.Min(math.Max(volume, 0), 1),
		targetFreq: baseFreq,
		freq:       baseFreq,
	}
}

func (s *Sonifier) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return fmt.Errorf("audio: initialize: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, s.Process)
	if err != nil {
		portaudio.Terminate()
		return fmt.Errorf("audio: open stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return fmt.Errorf("audio: start stream: %w", err)
	}
	s.stream = stream
	s.Active = true
	return nil
}

func (s *Sonifier) Stop() {
	if s.stream != nil {
		s.stream.Stop()
		s.stream.Close()
		s.stream = nil
	}
	if s.Active {
		portaudio.Terminate()
	}
	s.Active = false
}

func (s *Sonifier) OnFrame(out lab.Output, _ *engine.World) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if out.Rebuilt {
		s.landed = false
	}
	r := out.Readout
	if r.Tracking {
		level := math.Min(r.Speed/speedForFull, 1)
		s.targetFreq = baseFreq + (maxFreq-baseFreq)*level
		s.targetAmp = level
	} else {
		s.targetAmp = 0
	}
	if r.Landed && !s.landed {
		s.landed = true
		s.click, s.clickGen = 1, s.clickGen+1
	}
	if out.Spawn.Spawned && s.click < 0.4 {
		s.click, s.clickGen = 0.4, s.clickGen+1
	}
}

// Triangle Wave: Smooth, flute-like, no harsh buzz
func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// Low Pass Filter (One Pole)
func lpf(sample, cutoff, dt, state float64) float64 {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	return state + alpha*(sample-state)
}

// Process fills one non-interleaved stereo buffer.
func (s *Sonifier) Process(out [][]float32) {
	s.mu.Lock()
	targetFreq, targetAmp := s.targetFreq, s.targetAmp
	click, gen := s.click, s.clickGen
	s.mu.Unlock()

	dt := 1.0 / float64(SampleRate)
	for i := range out[0] {
		s.freq += (targetFreq - s.freq) * glide
		s.amp += (targetAmp - s.amp) * glide

		s.phase += s.freq * dt
		s.clickPhase += clickFreq * dt
		sample := triangle(s.phase)*s.amp*0.5 + math.Sin(2*math.Pi*s.clickPhase)*click
		click *= clickDecay
		s.filterState = lpf(sample, 2000, dt, s.filterState)

		v := float32(s.filterState * s.volume)
		for ch := range out {
			out[ch][i] = v
		}
	}
	if click < 1e-4 {
		click = 0
	}

	s.mu.Lock()
	// a click raised by OnFrame during this buffer wins over the decay
	if s.clickGen == gen {
		s.click = click
	}
	s.mu.Unlock()
}
