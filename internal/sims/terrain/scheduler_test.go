package terrain

import "testing"

func TestBuildScheduleCoversEveryCellPerKind(t *testing.T) {
	world := mustWorld(t, testConfig())
	world.buildSchedule()

	total := world.w * world.h
	want := total * int(numEvents)
	if len(world.schedule) != want {
		t.Fatalf("schedule length = %d, want %d", len(world.schedule), want)
	}

	counts := make(map[EventKind][]int, numEvents)
	for k := EventKind(0); k < numEvents; k++ {
		counts[k] = make([]int, total)
	}
	for _, item := range world.schedule {
		counts[item.kind][item.cell]++
	}
	for k := EventKind(0); k < numEvents; k++ {
		for cell, n := range counts[k] {
			if n != 1 {
				t.Fatalf("event %s visits cell %d %d times, want exactly once", k, cell, n)
			}
		}
	}
}

func TestBuildScheduleShuffles(t *testing.T) {
	world := mustWorld(t, testConfig())
	world.buildSchedule()

	// A globally shuffled schedule cannot leave the first per-kind block
	// intact: the odds of the first N items all being rainfall are
	// astronomically small.
	sameKind := true
	total := world.w * world.h
	for _, item := range world.schedule[:total] {
		if item.kind != world.schedule[0].kind {
			sameKind = false
			break
		}
	}
	if sameKind {
		t.Fatal("schedule does not appear to be shuffled across event kinds")
	}
}

func TestRegisterHandlersRejectsDuplicates(t *testing.T) {
	world := mustWorld(t, testConfig())

	// The constructor already registered the full table; running registration
	// again must fail on the first kind.
	if err := world.registerHandlers(); err == nil {
		t.Fatal("expected duplicate registration to be rejected")
	}
}

func TestRegisterHandlersComplete(t *testing.T) {
	world := mustWorld(t, testConfig())
	for k := EventKind(0); k < numEvents; k++ {
		if world.handlers[k] == nil {
			t.Fatalf("no handler registered for event %s", k)
		}
	}
}

func TestEventKindStrings(t *testing.T) {
	for k := EventKind(0); k < numEvents; k++ {
		if k.String() == "unknown" {
			t.Fatalf("event kind %d has no name", k)
		}
	}
	if numEvents.String() != "unknown" {
		t.Fatal("out-of-range kind should report unknown")
	}
}
