package pngdecode

// materialize writes one reconstructed row into the RGBA buffer dst.
func materialize(dst []byte, y int, row []byte, c *Container) error {
	width := int(c.Header.Width)
	out := dst[y*width*4 : (y+1)*width*4]

	switch c.Header.ColorType {
	case ctTrueColorAlpha:
		copy(out, row)
	case ctTrueColor:
		for x := 0; x < width; x++ {
			out[x*4+0] = row[x*3+0]
			out[x*4+1] = row[x*3+1]
			out[x*4+2] = row[x*3+2]
			out[x*4+3] = 0xff
		}
	case ctPaletted:
		if c.Palette == nil && width > 0 {
			return ErrMissingPalette
		}
		for x := 0; x < width; x++ {
			idx := int(row[x])
			var r, g, b uint8
			if idx*3+2 < len(c.Palette) {
				r, g, b = c.Palette[idx*3+0], c.Palette[idx*3+1], c.Palette[idx*3+2]
			}
			a := uint8(0xff)
			if idx < len(c.Transparency) {
				a = c.Transparency[idx]
			}
			out[x*4+0] = r
			out[x*4+1] = g
			out[x*4+2] = b
			out[x*4+3] = a
		}
	}
	return nil
}
