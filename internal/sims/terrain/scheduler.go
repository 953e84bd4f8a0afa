package terrain

import "fmt"

// EventKind enumerates the phenomena the scheduler dispatches. The set is
// closed: handlers are a fixed table, not open-ended virtual dispatch.
// Reptation and avalanching are not scheduled on their own; they fire inside
// the wind-transport handler at each saltation impact.
type EventKind uint8

const (
	EventRainfall EventKind = iota
	EventThermal
	EventRockSlide
	EventSandSlide
	EventHumusSlide
	EventLightning
	EventVegetationTrees
	EventVegetationBushes
	EventVegetationGrasses
	EventWindTransport
	numEvents
)

func (k EventKind) String() string {
	switch k {
	case EventRainfall:
		return "rainfall"
	case EventThermal:
		return "thermal"
	case EventRockSlide:
		return "rock-slide"
	case EventSandSlide:
		return "sand-slide"
	case EventHumusSlide:
		return "humus-slide"
	case EventLightning:
		return "lightning"
	case EventVegetationTrees:
		return "vegetation-trees"
	case EventVegetationBushes:
		return "vegetation-bushes"
	case EventVegetationGrasses:
		return "vegetation-grasses"
	case EventWindTransport:
		return "wind-transport"
	}
	return "unknown"
}

// eventHandler applies one event to one cell. Handlers may touch the cell's
// bounded neighborhood but never suspend; termination is guaranteed by
// explicit cascade and bounce caps, not by decaying magnitudes.
type eventHandler func(w *World, cell int)

type workItem struct {
	cell int
	kind EventKind
}

// registerHandlers wires the fixed handler table. Registering a kind twice is
// a programming error surfaced at construction, never per step.
func (w *World) registerHandlers() error {
	entries := []struct {
		kind EventKind
		fn   eventHandler
	}{
		{EventRainfall, (*World).applyRainfall},
		{EventThermal, (*World).applyThermal},
		{EventRockSlide, func(w *World, cell int) { w.applySlide(cell, MaterialRock, 0) }},
		{EventSandSlide, func(w *World, cell int) { w.applySlide(cell, MaterialSand, 0) }},
		{EventHumusSlide, func(w *World, cell int) { w.applySlide(cell, MaterialHumus, 0) }},
		{EventLightning, (*World).applyLightning},
		{EventVegetationTrees, func(w *World, cell int) { w.applyVegetation(cell, SpeciesTree) }},
		{EventVegetationBushes, func(w *World, cell int) { w.applyVegetation(cell, SpeciesBush) }},
		{EventVegetationGrasses, func(w *World, cell int) { w.applyVegetation(cell, SpeciesGrass) }},
		{EventWindTransport, (*World).applyWindTransport},
	}
	for _, e := range entries {
		if w.handlers[e.kind] != nil {
			return fmt.Errorf("duplicate handler registration for event %s", e.kind)
		}
		w.handlers[e.kind] = e.fn
	}
	for k := EventKind(0); k < numEvents; k++ {
		if w.handlers[k] == nil {
			return fmt.Errorf("no handler registered for event %s", k)
		}
	}
	return nil
}

// buildSchedule fills w.schedule with exactly N*E work items for the current
// step: every cell appears exactly once per event kind, and the whole
// sequence is globally shuffled so no kind or region systematically runs
// first. A global shuffle of the concatenated per-kind blocks gives each
// kind's stream an independent uniform permutation, which also breaks any
// correlated per-cell ordering between kinds.
func (w *World) buildSchedule() {
	total := w.w * w.h
	want := total * int(numEvents)
	if cap(w.schedule) < want {
		w.schedule = make([]workItem, 0, want)
	}
	w.schedule = w.schedule[:0]
	for k := EventKind(0); k < numEvents; k++ {
		for i := 0; i < total; i++ {
			w.schedule = append(w.schedule, workItem{cell: i, kind: k})
		}
	}
	w.rng.Shuffle(len(w.schedule), func(i, j int) {
		w.schedule[i], w.schedule[j] = w.schedule[j], w.schedule[i]
	})
}
