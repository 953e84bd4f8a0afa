package terrain

import "math"

// applySlide runs one gravity-driven collapse of the given material at the
// cell. A single invocation moves one bounded slide toward a slope-weighted
// random critical neighbor and then recurses there, capped at the configured
// cascade depth; equilibrium is reached statistically across many steps, not
// within one event. The avalanche stage of sediment transport reuses this
// exact mechanism for sand.
func (w *World) applySlide(cell int, mat Material, depth int) {
	if depth >= w.cfg.Params.SlideCascadeDepth {
		return
	}
	if w.layers[mat][cell] <= 0 {
		return
	}
	critical := w.reposeAngle(mat)

	// Collect neighbors past the critical angle.
	w.neighborScratch = w.neighbors(cell, w.neighborScratch)
	w.slopeScratch = w.slopeScratch[:0]
	w.pickScratch = w.pickScratch[:0]
	for _, n := range w.neighborScratch {
		slope := w.slopeBetween(cell, n)
		if math.IsNaN(slope) || slope <= 0 {
			continue
		}
		if slopeAngle(slope) >= critical {
			w.slopeScratch = append(w.slopeScratch, slope)
			w.pickScratch = append(w.pickScratch, n)
		}
	}
	if len(w.pickScratch) == 0 {
		return
	}

	// Slope-weighted random target.
	total := 0.0
	for _, s := range w.slopeScratch {
		total += s
	}
	pick := w.rng.Float64() * total
	target := w.pickScratch[len(w.pickScratch)-1]
	for i, s := range w.slopeScratch {
		pick -= s
		if pick < 0 {
			target = w.pickScratch[i]
			break
		}
	}

	moved := w.slideHeight(cell, target, mat, critical)
	if moved <= 0 {
		return
	}
	moved = w.removeMaterial(cell, mat, moved)
	w.addMaterial(target, mat, moved)

	w.applySlide(target, mat, depth+1)
}

// slideHeight computes how much of the material should move: the mobilization
// fraction of whatever stands above the tallest repose-stable column, clamped
// to the material actually present.
func (w *World) slideHeight(origin, target int, mat Material, critical float64) float64 {
	avail := w.layers[mat][origin]
	if avail <= 0 {
		return 0
	}
	ideal := w.idealSlideHeight(origin, target, critical)
	rest := w.totalHeight(origin) - avail

	var excess float64
	if rest >= ideal {
		// The column below this layer is already over the stable height;
		// the whole layer is mobile.
		excess = avail
	} else {
		excess = rest + avail - ideal
	}
	if excess <= 0 {
		return 0
	}
	move := excess * w.cfg.Params.SlideMobilization
	if move > avail {
		move = avail
	}
	return move
}
