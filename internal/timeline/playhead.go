package timeline

import "time"

// Playhead tracks the current playback position in seconds. During
// playback the position is derived each tick from wall-clock time elapsed
// since the recorded (startedAt, startPosition) pair; ticks only read the
// clip collection, so they never contend with mutations.
type Playhead struct {
	position  float64
	playing   bool
	scrubbing bool
	startedAt time.Time
	startPos  float64
}

func NewPlayhead() *Playhead {
	return &Playhead{}
}

func (p *Playhead) Position() float64 {
	return p.position
}

func (p *Playhead) Playing() bool {
	return p.playing
}

// Play begins playback from the current position. Playing resumes the
// end-of-timeline clamp if scrubbing had suspended it.
func (p *Playhead) Play(now time.Time) {
	p.scrubbing = false
	p.playing = true
	p.startedAt = now
	p.startPos = p.position
}

func (p *Playhead) Pause() {
	p.playing = false
}

// Tick advances the derived position during playback and clamps at the
// timeline end. It returns true while playback continues; reaching the end
// pauses and returns false.
func (p *Playhead) Tick(now time.Time, endSeconds float64) bool {
	if !p.playing {
		return false
	}
	p.position = p.startPos + now.Sub(p.startedAt).Seconds()
	if p.position >= endSeconds {
		p.position = endSeconds
		p.playing = false
		return false
	}
	return true
}

// BeginScrub suspends the end-of-timeline clamp so the user may drag past
// the last clip.
func (p *Playhead) BeginScrub() {
	p.scrubbing = true
	p.playing = false
}

// Seek moves the playhead. Outside a scrub the position is clamped to
// [0, endSeconds]; while scrubbing only the lower bound applies.
func (p *Playhead) Seek(seconds, endSeconds float64) {
	if seconds < 0 {
		seconds = 0
	}
	if !p.scrubbing && seconds > endSeconds {
		seconds = endSeconds
	}
	p.position = seconds
}

// EndScrub resumes the clamp and snaps the position back inside the
// timeline if the drag left it past the end.
func (p *Playhead) EndScrub(endSeconds float64) {
	p.scrubbing = false
	if p.position > endSeconds {
		p.position = endSeconds
	}
}

func (p *Playhead) Scrubbing() bool {
	return p.scrubbing
}
