package palette

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type HSL struct {
	H int // degrees, 0-359
	S int // percent
	L int // percent
}

func (c HSL) String() string {
	return fmt.Sprintf("%d %d%% %d%%", c.H, c.S, c.L)
}

func RGBToHSL(r, g, b uint8) HSL {
	rf := float64(r) / 255
	gf := float64(g) / 255
	bf := float64(b) / 255

	max := math.Max(rf, math.Max(gf, bf))
	min := math.Min(rf, math.Min(gf, bf))
	l := (max + min) / 2

	if max == min {
		return HSL{H: 0, S: 0, L: int(math.Round(l * 100))}
	}

	d := max - min
	var s float64
	if l > 0.5 {
		s = d / (2 - max - min)
	} else {
		s = d / (max + min)
	}

	var h float64
	switch max {
	case rf:
		h = (gf - bf) / d
		if gf < bf {
			h += 6
		}
	case gf:
		h = (bf-rf)/d + 2
	default:
		h = (rf-gf)/d + 4
	}

	return HSL{
		H: int(math.Round(h*60)) % 360,
		S: int(math.Round(s * 100)),
		L: int(math.Round(l * 100)),
	}
}

// ParseHex reads a #rrggbb or rrggbb color.
func ParseHex(hex string) (r, g, b uint8, err error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 0, 0, 0, fmt.Errorf("hex color was invalid: %v", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("hex color was invalid: %v", hex)
	}
	return uint8(v >> 16), uint8(v >> 8), uint8(v), nil
}

func HexToHSL(hex string) (HSL, error) {
	r, g, b, err := ParseHex(hex)
	if err != nil {
		return HSL{}, err
	}
	return RGBToHSL(r, g, b), nil
}
