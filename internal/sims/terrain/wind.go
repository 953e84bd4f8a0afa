package terrain

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"terra-ca/internal/core"
)

// synthesizeWind rebuilds the per-cell wind field for the current step. The
// field is strictly step-local: transport handlers must only consume it
// within the same step's schedule, and windStep records which step it was
// synthesized for so stale reads are detectable.
func (w *World) synthesizeWind() {
	base := w.sampleWindRose()
	w.roseDirX = base.X()
	w.roseDirY = base.Y()
	w.roseSpeed = base.Len()

	total := w.w * w.h
	for i := 0; i < total; i++ {
		w.windX[i] = base.X()
		w.windY[i] = base.Y()
		w.windShadow[i] = 0
	}

	if w.cfg.WindModel == WindWarp || w.cfg.WindModel == WindShadow {
		w.warpWind()
	}
	if w.cfg.WindModel == WindShadow {
		w.shadowWind()
	}

	for i := 0; i < total; i++ {
		w.windMag[i] = math.Hypot(w.windX[i], w.windY[i])
	}
	w.windStep = w.step
}

// sampleWindRose draws one (direction, speed) pair from the configured rose
// for the whole step. Directions follow compass convention: the angle the
// wind blows toward, clockwise from grid north (-y).
func (w *World) sampleWindRose() mgl64.Vec2 {
	rose := w.cfg.Params.WindRose
	idx := core.WeightedPick(w.rng, w.roseWeights)
	if idx < 0 {
		return mgl64.Vec2{}
	}
	entry := rose[idx]
	rad := entry.DirectionDeg * math.Pi / 180
	dir := mgl64.Vec2{math.Sin(rad), -math.Cos(rad)}
	if dir.Len() == 0 {
		return mgl64.Vec2{}
	}
	return dir.Normalize().Mul(entry.Speed)
}

// warpWind deflects the uniform base field around large landforms. The
// smoothed elevation is computed at a coarse and a fine radius; the gradient
// difference between the two captures the large-scale relief with local
// detail removed, and the base wind is bent by it. On flat terrain both
// gradients vanish and the field passes through unchanged.
func (w *World) warpWind() {
	p := w.cfg.Params

	vals := w.coarse.Values()
	for i := range vals {
		vals[i] = w.totalHeight(i)
	}
	w.fine.CopyFrom(vals)
	w.coarse.BoxBlur(p.WarpCoarseRadius, w.blurScratch)
	w.coarse.BoxBlur(p.WarpCoarseRadius, w.blurScratch)
	w.fine.BoxBlur(p.WarpFineRadius, w.blurScratch)
	w.fine.BoxBlur(p.WarpFineRadius, w.blurScratch)

	baseSpeed := w.roseSpeed
	for y := 0; y < w.h; y++ {
		for x := 0; x < w.w; x++ {
			i := w.index(x, y)
			cgx, cgy := w.coarse.GradientAt(x, y, w.cellSize)
			fgx, fgy := w.fine.GradientAt(x, y, w.cellSize)

			wind := mgl64.Vec2{w.windX[i], w.windY[i]}
			deflect := mgl64.Vec2{cgx - fgx, cgy - fgy}.Mul(p.WarpGain * baseSpeed)
			wind = wind.Sub(deflect)

			// Warping redirects flow; it must not add energy. Clamp the
			// magnitude to the rose sample.
			if speed := wind.Len(); speed > baseSpeed && speed > 0 {
				wind = wind.Mul(baseSpeed / speed)
			}
			w.windX[i] = wind.X()
			w.windY[i] = wind.Y()
		}
	}
}

// shadowWind attenuates the wind on lee sides: for each cell, march a short
// ray upwind and find the steepest occluding slope. Terrain rising between
// the shadow ramp angles maps to an attenuation factor in [0,1].
func (w *World) shadowWind() {
	for i := 0; i < w.w*w.h; i++ {
		shadow := w.windShadowAt(i)
		w.windShadow[i] = shadow
		w.windX[i] *= 1 - shadow
		w.windY[i] *= 1 - shadow
	}
}

// windShadowAt returns the occlusion factor for a cell: 0 in open flow, up to
// 1 directly behind an obstacle. Cells are shadowed between the minimum and
// maximum ramp angles up to ShadowLength cells upwind.
func (w *World) windShadowAt(cell int) float64 {
	p := w.cfg.Params
	speed := math.Hypot(w.windX[cell], w.windY[cell])
	if speed == 0 {
		return 0
	}
	ux := w.windX[cell] / speed
	uy := w.windY[cell] / speed

	x, y := w.coords(cell)
	base := w.totalHeight(cell)
	steepest := 0.0
	for r := 1; r <= p.ShadowLength; r++ {
		// March against the wind direction.
		nx := x - int(math.Round(ux*float64(r)))
		ny := y - int(math.Round(uy*float64(r)))
		if !w.inBounds(nx, ny) {
			break
		}
		rise := w.totalHeight(w.index(nx, ny)) - base
		if rise <= 0 {
			continue
		}
		slope := rise / (float64(r) * w.cellSize)
		if slope > steepest {
			steepest = slope
		}
	}
	if steepest <= 0 {
		return 0
	}
	angle := slopeAngle(steepest)
	return clamp01((angle - p.ShadowMinAngle) / (p.ShadowMaxAngle - p.ShadowMinAngle))
}

// windVector returns the wind at a cell for the current step. Reading a field
// from a previous step is a bug in the caller; the handlers all run between
// synthesizeWind and the end of the schedule, so windStep always matches.
func (w *World) windVector(cell int) (mgl64.Vec2, bool) {
	if w.windStep != w.step {
		return mgl64.Vec2{}, false
	}
	return mgl64.Vec2{w.windX[cell], w.windY[cell]}, true
}
