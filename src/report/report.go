// Package report renders the ranked logo colors.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"git.handmade.network/hmn/themecolors/src/oops"
	"git.handmade.network/hmn/themecolors/src/palette"
	"git.handmade.network/hmn/themecolors/src/utils"
	"github.com/Masterminds/sprig"
	"github.com/teacat/noire"
)

type Format string

const (
	FormatText Format = "text"
	FormatCSS  Format = "css"
)

type Data struct {
	Width   int
	Height  int
	Counted int
	Colors  []palette.Entry
}

var funcs = template.FuncMap{
	"percent": func(v float64) string {
		return fmt.Sprintf("%.2f%%", v)
	},
	"color2css": func(color noire.Color) string {
		return color.HTML()
	},
	"darken": func(amount float64, color noire.Color) noire.Color {
		return color.Shade(amount)
	},
}

const textTemplate = `logo embedded PNG: {{ .Width }}x{{ .Height }}
top colors:
{{ range .Colors -}}
{{ .Hex }}  {{ percent .Percent }}  (hsl: {{ .HSL }})
{{ end -}}
`

// Custom properties in the same shape as the site theme: one color per rank,
// plus a darker variant for borders and hover states.
const cssTemplate = `/* logo {{ .Width }}x{{ .Height }}, {{ .Counted }} counted pixels */
:root {
{{- range $i, $c := .Colors }}
  --theme-color-{{ add1 $i }}: {{ $c.Hex }}; /* {{ percent $c.Percent }} */
  --theme-color-{{ add1 $i }}-dark: {{ color2css (darken 0.2 $c.Color) }};
{{- end }}
}
`

var templates = map[Format]*template.Template{
	FormatText: parse("text", textTemplate),
	FormatCSS:  parse("css", cssTemplate),
}

func parse(name, text string) *template.Template {
	t := template.New(name)
	t = t.Funcs(sprig.TxtFuncMap())
	t = t.Funcs(funcs)
	return utils.Must1(t.Parse(text))
}

func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if _, ok := templates[f]; !ok {
		return "", oops.New(nil, "unknown report format '%s'", s)
	}
	return f, nil
}

func Render(w io.Writer, format Format, data Data) error {
	t, ok := templates[format]
	if !ok {
		return oops.New(nil, "unknown report format '%s'", format)
	}
	if err := t.Execute(w, data); err != nil {
		return oops.New(err, "failed to render %s report", format)
	}
	return nil
}
