package pngdecode

import (
	"encoding/binary"
	"fmt"
)

const pngHeader = "\x89PNG\r\n\x1a\n"

// Color type, as per the PNG spec. Only the 8-bit non-grayscale types are
// decoded.
const (
	ctTrueColor      = 2
	ctPaletted       = 3
	ctTrueColorAlpha = 6
)

type Chunk struct {
	Type string
	Data []byte
}

type Header struct {
	Width     uint32
	Height    uint32
	BitDepth  uint8
	ColorType uint8
	Interlace uint8
}

// BytesPerPixel is the size of one pixel in the filtered sample stream.
func (h Header) BytesPerPixel() int {
	switch h.ColorType {
	case ctTrueColorAlpha:
		return 4
	case ctTrueColor:
		return 3
	default:
		return 1
	}
}

// Stride is the length of one scanline, not counting its filter byte.
func (h Header) Stride() int {
	return int(h.Width) * h.BytesPerPixel()
}

// Container is everything the decoder needs from the chunk stream. It is not
// modified after ReadChunks returns.
type Container struct {
	Header       Header
	Palette      []byte // RGB triples
	Transparency []byte // alpha per palette index
	Compressed   []byte // all IDAT payloads in file order

	NumChunks int
	NumIDAT   int
}

// ReadChunks walks the chunks of a PNG file held in data. It stops at IEND or
// at the end of the buffer, whichever comes first. CRCs are not checked.
func ReadChunks(data []byte) (*Container, error) {
	if len(data) < len(pngHeader) || string(data[:len(pngHeader)]) != pngHeader {
		return nil, ErrNotPNG
	}

	var c Container
	r := chunkReader{data: data, idx: len(pngHeader)}
	for {
		chunk, ok := r.next()
		if !ok {
			break
		}
		c.NumChunks++

		switch chunk.Type {
		case "IHDR":
			c.Header = parseIHDR(chunk.Data)
		case "IDAT":
			c.NumIDAT++
			c.Compressed = append(c.Compressed, chunk.Data...)
		case "PLTE":
			c.Palette = chunk.Data
		case "tRNS":
			c.Transparency = chunk.Data
		}

		if chunk.Type == "IEND" {
			break
		}
	}

	if c.Header.Interlace != 0 {
		return nil, FormatError(fmt.Sprintf("unsupported interlace method %d", c.Header.Interlace))
	}
	if c.Header.BitDepth != 8 {
		return nil, FormatError(fmt.Sprintf("unsupported bit depth %d", c.Header.BitDepth))
	}
	switch c.Header.ColorType {
	case ctTrueColor, ctPaletted, ctTrueColorAlpha:
	default:
		return nil, FormatError(fmt.Sprintf("unsupported color type %d", c.Header.ColorType))
	}

	return &c, nil
}

func parseIHDR(data []byte) Header {
	var buf [13]byte
	copy(buf[:], data)
	return Header{
		Width:     binary.BigEndian.Uint32(buf[0:4]),
		Height:    binary.BigEndian.Uint32(buf[4:8]),
		BitDepth:  buf[8],
		ColorType: buf[9],
		Interlace: buf[12],
	}
}

type chunkReader struct {
	data []byte
	idx  int
}

func (r *chunkReader) next() (Chunk, bool) {
	length, ok := r.advance(4)
	if !ok {
		return Chunk{}, false
	}
	typ, ok := r.advance(4)
	if !ok {
		return Chunk{}, false
	}
	n := binary.BigEndian.Uint32(length)
	if uint64(n) > uint64(len(r.data)-r.idx) {
		return Chunk{}, false
	}
	payload, _ := r.advance(int(n))
	if _, ok := r.advance(4); !ok {
		return Chunk{}, false
	}
	return Chunk{Type: string(typ), Data: payload}, true
}

func (r *chunkReader) advance(n int) ([]byte, bool) {
	if n > len(r.data)-r.idx {
		return nil, false
	}
	r.idx += n
	return r.data[r.idx-n : r.idx], true
}
