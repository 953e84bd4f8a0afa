package core

import (
	"testing"
	"time"
)

func TestFixedStepFirstPollFires(t *testing.T) {
	f := NewFixedStep(1)
	if !f.ShouldStep() {
		t.Fatal("first poll must fire immediately")
	}
	if f.ShouldStep() {
		t.Fatal("second poll within the same tick must not fire")
	}
}

func TestFixedStepClampsLag(t *testing.T) {
	f := NewFixedStep(1000)
	f.ShouldStep()

	// A long stall must not turn into thousands of catch-up ticks.
	f.last = time.Now().Add(-10 * time.Second)
	fires := 0
	for f.ShouldStep() {
		fires++
	}
	limit := int(maxPollDelta/f.step) + 10
	if fires < 1 || fires > limit {
		t.Fatalf("stall produced %d ticks, want between 1 and %d", fires, limit)
	}
}
