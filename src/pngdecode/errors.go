package pngdecode

// A FormatError reports that the input is not a PNG this package can decode.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

var (
	ErrNotPNG          = FormatError("not a PNG")
	ErrUnknownFilter   = FormatError("unknown filter")
	ErrMissingPalette  = FormatError("indexed PNG missing PLTE")
	ErrNotEnoughPixels = FormatError("not enough pixel data")
)
