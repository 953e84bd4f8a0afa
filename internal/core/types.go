package core

import "image/color"

// Size describes the dimensions of a simulation grid.
type Size struct {
	W int
	H int
}

// Sim defines the minimal contract a grid simulation must implement.
type Sim interface {
	Name() string
	Size() Size
	Reset(seed int64)
	Step()
	Cells() []uint8
}

// Paletted is implemented by simulations whose display buffer is a palette
// index rather than a binary mask.
type Paletted interface {
	Palette() []color.RGBA
}

// DisplayModer is implemented by simulations that expose more than one way to
// colorize their state (material, height, moisture, ...).
type DisplayModer interface {
	DisplayMode() string
	CycleDisplayMode()
}

// Factory constructs a Sim using an optional configuration map.
type Factory func(cfg map[string]string) Sim

var sims = map[string]Factory{}

// Register adds a simulation factory under the provided name.
func Register(name string, f Factory) {
	if name == "" || f == nil {
		return
	}
	sims[name] = f
}

// Sims exposes the registry of available simulation factories.
func Sims() map[string]Factory {
	return sims
}
