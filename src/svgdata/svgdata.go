// Package svgdata pulls an embedded PNG out of SVG text.
package svgdata

import (
	"encoding/base64"
	"regexp"
	"strings"
)

// A SourceError reports that the SVG does not carry a usable PNG.
type SourceError string

func (e SourceError) Error() string { return "svg: " + string(e) }

var ErrNoEmbeddedPNG = SourceError("no embedded PNG data URI found")

var REPNGDataURI = regexp.MustCompile(`data:image/png;base64,([A-Za-z0-9+/=\s]+)`)

var whitespaceReplacer = strings.NewReplacer(" ", "", "\t", "", "\n", "", "\r", "")

// ExtractPNG returns the bytes of the first base64 PNG data URI in svg.
// Whitespace inside the payload is ignored, since editors like to wrap it.
func ExtractPNG(svg string) ([]byte, error) {
	match := REPNGDataURI.FindStringSubmatch(svg)
	if match == nil {
		return nil, ErrNoEmbeddedPNG
	}

	payload := whitespaceReplacer.Replace(match[1])
	if payload == "" {
		return nil, ErrNoEmbeddedPNG
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, SourceError("embedded PNG is not valid base64: " + err.Error())
		}
	}
	return data, nil
}
