package core

import "time"

// maxPollDelta bounds how much wall-clock lag one poll converts into pending
// ticks, so a stalled headless run resumes at pace instead of fast-forwarding.
const maxPollDelta = 250 * time.Millisecond

// FixedStep paces a run loop at a steady tick rate. Both the viewer and the
// headless driver poll it to decide when the simulation owes another step.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
}

// NewFixedStep returns a controller targeting tps ticks per second. The first
// poll always fires so a run starts without waiting out a full tick.
func NewFixedStep(tps int) *FixedStep {
	f := &FixedStep{}
	f.SetTPS(tps)
	f.accumulator = f.step
	return f
}

// SetTPS changes the tick rate. Non-positive rates fall back to 60.
func (f *FixedStep) SetTPS(tps int) {
	if tps <= 0 {
		tps = 60
	}
	f.step = time.Second / time.Duration(tps)
}

// ShouldStep reports whether a tick's worth of time has elapsed, consuming it
// from the accumulator when so.
func (f *FixedStep) ShouldStep() bool {
	now := time.Now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	if delta > maxPollDelta {
		delta = maxPollDelta
	}
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		return true
	}
	return false
}
