// Package pngdecode decodes 8-bit, non-interlaced truecolor, truecolor+alpha
// and paletted PNG images into a flat RGBA buffer.
package pngdecode

import (
	"git.handmade.network/hmn/themecolors/src/logging"
	"git.handmade.network/hmn/themecolors/src/utils"
)

type Image struct {
	Width  int
	Height int
	RGBA   []byte // row-major, 4 bytes per pixel
}

// Decode decodes a complete PNG file. No partial image is returned on error.
func Decode(data []byte) (img *Image, err error) {
	defer utils.RecoverPanicAsError(&err)

	c, err := ReadChunks(data)
	if err != nil {
		return nil, err
	}
	logging.Debug().
		Uint32("width", c.Header.Width).
		Uint32("height", c.Header.Height).
		Uint8("color type", c.Header.ColorType).
		Int("chunks", c.NumChunks).
		Int("IDAT chunks", c.NumIDAT).
		Msg("read PNG chunks")

	return DecodeContainer(c)
}

// DecodeContainer decodes the pixels of an already-parsed chunk stream.
func DecodeContainer(c *Container) (*Image, error) {
	raw, err := inflate(c.Compressed, c.Header)
	if err != nil {
		return nil, err
	}

	width, height := int(c.Header.Width), int(c.Header.Height)
	rgba := make([]byte, width*height*4)
	err = scanlines(raw, c.Header, func(y int, row []byte) error {
		return materialize(rgba, y, row, c)
	})
	if err != nil {
		return nil, err
	}

	return &Image{
		Width:  width,
		Height: height,
		RGBA:   rgba,
	}, nil
}
