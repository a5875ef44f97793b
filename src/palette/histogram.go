// Package palette ranks the colors of an RGBA buffer by how many pixels use
// them.
package palette

import (
	"fmt"
	"math"
	"sort"

	"github.com/teacat/noire"
)

type Histogram struct {
	counts map[uint32]int
	order  []uint32 // keys in the order they were first seen
	Total  int
}

// NewHistogram counts the RGB values of every pixel whose alpha is at least
// minAlpha.
func NewHistogram(rgba []byte, minAlpha uint8) *Histogram {
	h := &Histogram{
		counts: make(map[uint32]int),
	}
	for i := 0; i+3 < len(rgba); i += 4 {
		if rgba[i+3] < minAlpha {
			continue
		}
		key := uint32(rgba[i])<<16 | uint32(rgba[i+1])<<8 | uint32(rgba[i+2])
		if _, seen := h.counts[key]; !seen {
			h.order = append(h.order, key)
		}
		h.counts[key]++
		h.Total++
	}
	return h
}

func (h *Histogram) NumColors() int {
	return len(h.order)
}

type Entry struct {
	Hex     string // #rrggbb
	Count   int
	Percent float64 // of counted pixels, two decimals
	HSL     HSL
	Color   noire.Color
}

// Rank returns up to n colors, most frequent first. Colors with equal counts
// stay in the order they were first seen.
func (h *Histogram) Rank(n int) []Entry {
	keys := make([]uint32, len(h.order))
	copy(keys, h.order)
	sort.SliceStable(keys, func(i, j int) bool {
		return h.counts[keys[i]] > h.counts[keys[j]]
	})
	if n >= 0 && len(keys) > n {
		keys = keys[:n]
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		r, g, b := uint8(key>>16), uint8(key>>8), uint8(key)
		hex := fmt.Sprintf("%02x%02x%02x", r, g, b)
		count := h.counts[key]
		entries = append(entries, Entry{
			Hex:     "#" + hex,
			Count:   count,
			Percent: round2(float64(count) / float64(h.Total) * 100),
			HSL:     RGBToHSL(r, g, b),
			Color:   noire.NewHex(hex),
		})
	}
	return entries
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
