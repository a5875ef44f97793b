package pngdecode

import (
	"bytes"
	"compress/zlib"
	"io"

	"git.handmade.network/hmn/themecolors/src/oops"
)

// inflate decompresses the concatenated IDAT stream and checks that it holds
// at least one filter byte and stride bytes per row.
func inflate(compressed []byte, h Header) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, oops.New(err, "failed to open zlib stream")
	}
	defer zr.Close()

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, zr); err != nil {
		return nil, oops.New(err, "failed to inflate image data")
	}

	want := int(h.Height) * (1 + h.Stride())
	if raw.Len() < want {
		return nil, ErrNotEnoughPixels
	}
	return raw.Bytes()[:want], nil
}
