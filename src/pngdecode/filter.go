package pngdecode

// Filter type, as per the PNG spec.
const (
	ftNone    = 0
	ftSub     = 1
	ftUp      = 2
	ftAverage = 3
	ftPaeth   = 4
)

// paeth implements the Paeth predictor. Ties go to a, then b.
func paeth(a, b, c uint8) uint8 {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// unfilter reconstructs one scanline into cur from its filtered bytes raw and
// the previous reconstructed scanline prev. All three have the same length.
func unfilter(filter byte, raw, cur, prev []byte, bpp int) error {
	switch filter {
	case ftNone:
		copy(cur, raw)
	case ftSub:
		for i := range raw {
			var left uint8
			if i >= bpp {
				left = cur[i-bpp]
			}
			cur[i] = raw[i] + left
		}
	case ftUp:
		for i := range raw {
			cur[i] = raw[i] + prev[i]
		}
	case ftAverage:
		for i := range raw {
			var left uint8
			if i >= bpp {
				left = cur[i-bpp]
			}
			cur[i] = raw[i] + uint8((int(left)+int(prev[i]))/2)
		}
	case ftPaeth:
		for i := range raw {
			var left, upLeft uint8
			if i >= bpp {
				left = cur[i-bpp]
				upLeft = prev[i-bpp]
			}
			cur[i] = raw[i] + paeth(left, prev[i], upLeft)
		}
	default:
		return ErrUnknownFilter
	}
	return nil
}

// scanlines reconstructs every row of the decompressed stream, top to bottom,
// calling fn with each finished row. The row slice is reused after fn returns.
func scanlines(data []byte, h Header, fn func(y int, row []byte) error) error {
	stride := h.Stride()
	bpp := h.BytesPerPixel()

	cur := make([]byte, stride)
	prev := make([]byte, stride)
	for y := 0; y < int(h.Height); y++ {
		offset := y * (1 + stride)
		filter := data[offset]
		raw := data[offset+1 : offset+1+stride]

		if err := unfilter(filter, raw, cur, prev, bpp); err != nil {
			return err
		}
		if err := fn(y, cur); err != nil {
			return err
		}

		prev, cur = cur, prev
	}
	return nil
}
