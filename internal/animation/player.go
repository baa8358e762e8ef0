package animation

import (
	"sync"
	"time"
)

// Step is one timed segment of an animation. When the step's duration has
// elapsed the animated element rests at Offset.
type Step struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
	Offset   float64       `json:"offset"`
}

// Timeline is an ordered, finite list of steps.
type Timeline struct {
	Steps []Step `json:"steps"`
}

// Total returns the combined duration of every step.
func (t Timeline) Total() time.Duration {
	var total time.Duration
	for _, s := range t.Steps {
		total += s.Duration
	}
	return total
}

// StepEvent is delivered when a step completes.
type StepEvent struct {
	Index    int
	Step     Step
	Position float64
}

// Snapshot is the animation-only state of a player.
type Snapshot struct {
	Playing    bool    `json:"playing"`
	Step       int     `json:"step"`
	Position   float64 `json:"position"`
	Generation uint64  `json:"generation"`
}

// Player walks a Timeline one step at a time.
type Player struct {
	mu        sync.Mutex
	scheduler Scheduler
	gen       uint64
	timer     Timer
	timeline  Timeline
	step      int
	position  float64
	playing   bool
	onStep    func(StepEvent)
	onDone    func()
}

// NewPlayer creates an idle player. A nil scheduler uses the runtime clock.
func NewPlayer(scheduler Scheduler) *Player {
	if scheduler == nil {
		scheduler = Clock{}
	}
	return &Player{scheduler: scheduler, step: -1}
}

// Play cancels whatever is running and starts tl from the first step.
// onStep runs after each step completes and onDone after the last one;
// either may be nil. An empty timeline completes immediately. Play
// returns the generation it started.
func (p *Player) Play(tl Timeline, onStep func(StepEvent), onDone func()) uint64 {
	p.mu.Lock()
	p.cancelLocked()
	p.gen++
	gen := p.gen
	p.timeline = tl
	p.onStep = onStep
	p.onDone = onDone

	if len(tl.Steps) == 0 {
		p.mu.Unlock()
		if onDone != nil {
			onDone()
		}
		return gen
	}

	p.playing = true
	p.scheduleLocked(gen, 0)
	p.mu.Unlock()

	return gen
}

// Reset cancels any in-flight animation and returns the element to its
// initial position.
func (p *Player) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.cancelLocked()
	p.gen++
}

// Snapshot returns the player's current state.
func (p *Player) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		Playing:    p.playing,
		Step:       p.step,
		Position:   p.position,
		Generation: p.gen,
	}
}

func (p *Player) cancelLocked() {
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.playing = false
	p.step = -1
	p.position = 0
	p.onStep = nil
	p.onDone = nil
}

func (p *Player) scheduleLocked(gen uint64, index int) {
	p.step = index
	p.timer = p.scheduler.AfterFunc(p.timeline.Steps[index].Duration, func() {
		p.fire(gen, index)
	})
}

func (p *Player) fire(gen uint64, index int) {
	p.mu.Lock()
	if gen != p.gen || !p.playing {
		p.mu.Unlock()
		return
	}

	step := p.timeline.Steps[index]
	p.position = step.Offset
	onStep := p.onStep
	onDone := p.onDone

	last := index == len(p.timeline.Steps)-1
	if last {
		p.playing = false
		p.timer = nil
	} else {
		p.scheduleLocked(gen, index+1)
	}
	p.mu.Unlock()

	if onStep != nil {
		onStep(StepEvent{Index: index, Step: step, Position: step.Offset})
	}
	if last && onDone != nil {
		onDone()
	}
}
