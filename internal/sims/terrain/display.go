package terrain

import "image/color"

// DisplayMode selects how the display buffer colorizes the grid.
type DisplayMode uint8

const (
	// DisplayTerrain shows the top material shaded by elevation and tinted
	// by vegetation.
	DisplayTerrain DisplayMode = iota
	// DisplayHeight shows a grayscale elevation ramp.
	DisplayHeight
	// DisplayMoisture shows the transient water content.
	DisplayMoisture
	// DisplayWind shows the magnitude of the last synthesized wind field.
	DisplayWind
	numDisplayModes
)

func (m DisplayMode) String() string {
	switch m {
	case DisplayTerrain:
		return "terrain"
	case DisplayHeight:
		return "height"
	case DisplayMoisture:
		return "moisture"
	case DisplayWind:
		return "wind"
	}
	return "unknown"
}

// DisplayMode reports the active colorization.
func (w *World) DisplayMode() string { return w.displayMode.String() }

// CycleDisplayMode advances to the next colorization and refreshes the
// display buffer in place.
func (w *World) CycleDisplayMode() {
	w.displayMode = (w.displayMode + 1) % numDisplayModes
	w.updateDisplay()
}

const (
	displayMaterialMask = 0x03
	displayVegShift     = 2
	displayVegMask      = 0x0c
	displayShadeShift   = 4
	displayShadeMask    = 0x70
)

// terrainPalette covers every material/vegetation/shade bit combination.
var terrainPalette = buildTerrainPalette()

var rampPalettes = [numDisplayModes][]color.RGBA{
	DisplayHeight:   buildRamp(color.RGBA{20, 20, 25, 255}, color.RGBA{245, 245, 240, 255}),
	DisplayMoisture: buildRamp(color.RGBA{28, 24, 18, 255}, color.RGBA{40, 120, 255, 255}),
	DisplayWind:     buildRamp(color.RGBA{18, 18, 40, 255}, color.RGBA{255, 200, 60, 255}),
}

// Palette exposes the color table matching the current display mode.
func (w *World) Palette() []color.RGBA {
	if w.displayMode == DisplayTerrain {
		return terrainPalette
	}
	return rampPalettes[w.displayMode]
}

func buildTerrainPalette() []color.RGBA {
	materialColors := []color.RGBA{
		{115, 113, 108, 255}, // bare bedrock
		{138, 134, 128, 255}, // rock
		{214, 188, 120, 255}, // sand
		{92, 66, 40, 255},    // humus
	}
	vegColor := color.RGBA{52, 120, 46, 255}

	palette := make([]color.RGBA, 128)
	for i := range palette {
		mat := i & displayMaterialMask
		veg := (i & displayVegMask) >> displayVegShift
		shade := (i & displayShadeMask) >> displayShadeShift

		c := materialColors[mat]
		if veg > 0 {
			c = blend(c, vegColor, float64(veg)/4)
		}
		// Shade 0..7 maps to 60%..130% brightness.
		bright := 0.6 + float64(shade)*0.1
		palette[i] = scale(c, bright)
	}
	return palette
}

func buildRamp(lo, hi color.RGBA) []color.RGBA {
	ramp := make([]color.RGBA, 256)
	for i := range ramp {
		ramp[i] = blend(lo, hi, float64(i)/255)
	}
	return ramp
}

func blend(a, b color.RGBA, t float64) color.RGBA {
	return color.RGBA{
		R: uint8(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		G: uint8(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		B: uint8(float64(a.B) + (float64(b.B)-float64(a.B))*t),
		A: 255,
	}
}

func scale(c color.RGBA, f float64) color.RGBA {
	mul := func(v uint8) uint8 {
		s := float64(v) * f
		if s > 255 {
			s = 255
		}
		return uint8(s)
	}
	return color.RGBA{R: mul(c.R), G: mul(c.G), B: mul(c.B), A: 255}
}

// updateDisplay refreshes the uint8 display buffer for the active mode.
func (w *World) updateDisplay() {
	total := w.w * w.h
	if total == 0 {
		return
	}
	switch w.displayMode {
	case DisplayTerrain:
		minH, maxH := w.heightRange()
		span := maxH - minH
		if span <= 0 {
			span = 1
		}
		for i := 0; i < total; i++ {
			idx := 0 // bare bedrock
			if mat, ok := w.topMaterial(i); ok {
				idx = int(mat) + 1
			}
			veg := int(w.totalVegetation(i) / w.cfg.Params.OccupancyCap * 3.999)
			if veg > 3 {
				veg = 3
			}
			shade := int((w.totalHeight(i) - minH) / span * 7.999)
			w.display[i] = uint8(idx | veg<<displayVegShift | shade<<displayShadeShift)
		}
	case DisplayHeight:
		minH, maxH := w.heightRange()
		span := maxH - minH
		if span <= 0 {
			span = 1
		}
		for i := 0; i < total; i++ {
			w.display[i] = uint8((w.totalHeight(i) - minH) / span * 255)
		}
	case DisplayMoisture:
		for i := 0; i < total; i++ {
			w.display[i] = uint8(clamp01(w.moistureFraction(i)) * 255)
		}
	case DisplayWind:
		maxSpeed := w.cfg.Params.SaltationThreshold * 3
		if maxSpeed <= 0 {
			maxSpeed = 1
		}
		for i := 0; i < total; i++ {
			w.display[i] = uint8(clamp01(w.windMag[i]/maxSpeed) * 255)
		}
	}
}

func (w *World) heightRange() (float64, float64) {
	minH := w.totalHeight(0)
	maxH := minH
	for i := 1; i < w.w*w.h; i++ {
		h := w.totalHeight(i)
		if h < minH {
			minH = h
		}
		if h > maxH {
			maxH = h
		}
	}
	return minH, maxH
}
