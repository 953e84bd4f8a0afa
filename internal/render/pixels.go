package render

import "image/color"

// rgbaBytes flattens a color into the 4-byte layout WritePixels expects.
func rgbaBytes(c color.Color) [4]byte {
	r, g, b, a := c.RGBA()
	return [4]byte{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8), uint8(a >> 8)}
}

// fillBinaryRGBA converts binary cell data (0/1) into RGBA pixels in buf.
func fillBinaryRGBA(buf []byte, cells []uint8, on, off color.Color) {
	px := [2][4]byte{rgbaBytes(off), rgbaBytes(on)}
	for i, c := range cells {
		src := px[0]
		if c != 0 {
			src = px[1]
		}
		copy(buf[i*4:], src[:])
	}
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette.
// Out-of-range values clamp to the last entry; an empty palette clears the
// buffer to transparent black.
func fillPaletteRGBA(buf []byte, cells []uint8, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:len(cells)*4])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		col := palette[idx]
		base := i * 4
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
