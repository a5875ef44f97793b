package themecolors

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"git.handmade.network/hmn/themecolors/src/assets"
	"git.handmade.network/hmn/themecolors/src/pngdecode"
	"git.handmade.network/hmn/themecolors/src/report"
	"git.handmade.network/hmn/themecolors/src/svgdata"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogoPNG(t *testing.T) []byte {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(1, 0, color.NRGBA{255, 0, 0, 255})
	img.SetNRGBA(0, 1, color.NRGBA{0, 0, 255, 255})
	img.SetNRGBA(1, 1, color.NRGBA{0, 255, 0, 10})

	var buf bytes.Buffer
	require.Nil(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func svgWithPayload(payload []byte) []byte {
	return []byte(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="2" height="2">
  <image width="2" height="2" xlink:href="data:image/png;base64,` + base64.StdEncoding.EncodeToString(payload) + `"/>
</svg>
`)
}

func writeLogo(t *testing.T, name string, data []byte) *assets.LocalSource {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, name), data, 0o644))
	return &assets.LocalSource{Dir: dir}
}

const expectedReport = "" +
	"logo embedded PNG: 2x2\n" +
	"top colors:\n" +
	"#ff0000  66.67%  (hsl: 0 100% 50%)\n" +
	"#0000ff  33.33%  (hsl: 240 100% 50%)\n"

var defaultOptions = Options{TopN: 10, MinAlpha: 16, Format: report.FormatText}

func TestRun(t *testing.T) {
	t.Run("svg logo", func(t *testing.T) {
		source := writeLogo(t, "logo.svg", svgWithPayload(testLogoPNG(t)))
		var out bytes.Buffer
		require.Nil(t, Run(context.Background(), source, "logo.svg", defaultOptions, &out))
		assert.Equal(t, expectedReport, out.String())
	})
	t.Run("bare png", func(t *testing.T) {
		source := writeLogo(t, "logo.png", testLogoPNG(t))
		var out bytes.Buffer
		require.Nil(t, Run(context.Background(), source, "logo.png", defaultOptions, &out))
		assert.Equal(t, expectedReport, out.String())
	})
	t.Run("top one", func(t *testing.T) {
		source := writeLogo(t, "logo.svg", svgWithPayload(testLogoPNG(t)))
		var out bytes.Buffer
		opts := defaultOptions
		opts.TopN = 1
		require.Nil(t, Run(context.Background(), source, "logo.svg", opts, &out))
		assert.Equal(t, "logo embedded PNG: 2x2\ntop colors:\n#ff0000  66.67%  (hsl: 0 100% 50%)\n", out.String())
	})
	t.Run("payload is not a PNG", func(t *testing.T) {
		source := writeLogo(t, "logo.svg", svgWithPayload([]byte("GIF89a, not what you wanted")))
		var out bytes.Buffer
		err := Run(context.Background(), source, "logo.svg", defaultOptions, &out)
		assert.ErrorContains(t, err, "not a PNG")
		assert.True(t, errors.Is(err, pngdecode.ErrNotPNG))
		assert.Empty(t, out.String())
	})
	t.Run("no data URI", func(t *testing.T) {
		source := writeLogo(t, "logo.svg", []byte(`<svg><rect width="2" height="2" fill="#ff0000"/></svg>`))
		var out bytes.Buffer
		err := Run(context.Background(), source, "logo.svg", defaultOptions, &out)
		assert.True(t, errors.Is(err, svgdata.ErrNoEmbeddedPNG))
		assert.Empty(t, out.String())
	})
	t.Run("missing file", func(t *testing.T) {
		var out bytes.Buffer
		err := Run(context.Background(), &assets.LocalSource{Dir: t.TempDir()}, "logo.svg", defaultOptions, &out)
		assert.True(t, errors.Is(err, assets.ErrAssetNotFound))
	})
}

func TestAnalyzeCountsOnlyOpaqueEnoughPixels(t *testing.T) {
	data, err := Analyze(testLogoPNG(t), Options{TopN: 10, MinAlpha: 16})
	require.Nil(t, err)
	assert.Equal(t, 3, data.Counted)
	require.Len(t, data.Colors, 2)

	data, err = Analyze(testLogoPNG(t), Options{TopN: 10, MinAlpha: 0})
	require.Nil(t, err)
	assert.Equal(t, 4, data.Counted)
	assert.Len(t, data.Colors, 3)
}

func TestCommand(t *testing.T) {
	source := writeLogo(t, "logo.svg", svgWithPayload(testLogoPNG(t)))

	var out bytes.Buffer
	ThemeColorsCommand.SetOut(&out)
	ThemeColorsCommand.SetArgs([]string{filepath.Join(source.Dir, "logo.svg"), "--top", "5"})
	require.Nil(t, ThemeColorsCommand.Execute())
	assert.Equal(t, expectedReport, out.String())
}
