// Package themecolors ties the pipeline together: fetch a logo, pull out its
// embedded PNG, decode it, then rank and report its colors.
package themecolors

import (
	"bytes"
	"context"
	"io"
	"os"

	"git.handmade.network/hmn/themecolors/src/assets"
	"git.handmade.network/hmn/themecolors/src/config"
	"git.handmade.network/hmn/themecolors/src/logging"
	"git.handmade.network/hmn/themecolors/src/oops"
	"git.handmade.network/hmn/themecolors/src/palette"
	"git.handmade.network/hmn/themecolors/src/pngdecode"
	"git.handmade.network/hmn/themecolors/src/report"
	"git.handmade.network/hmn/themecolors/src/svgdata"
	"git.handmade.network/hmn/themecolors/src/utils"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type Options struct {
	TopN     int
	MinAlpha uint8
	Format   report.Format
}

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// Analyze ranks the colors of a logo. The logo may be an SVG with an embedded
// PNG data URI or a bare PNG.
func Analyze(logo []byte, opts Options) (report.Data, error) {
	pngBytes := logo
	if !bytes.HasPrefix(logo, pngSignature) {
		var err error
		pngBytes, err = svgdata.ExtractPNG(string(logo))
		if err != nil {
			return report.Data{}, err
		}
	}

	img, err := pngdecode.Decode(pngBytes)
	if err != nil {
		return report.Data{}, oops.New(err, "failed to decode logo PNG")
	}

	hist := palette.NewHistogram(img.RGBA, opts.MinAlpha)
	logging.Debug().
		Int("counted", hist.Total).
		Int("distinct", hist.NumColors()).
		Msg("built color histogram")

	return report.Data{
		Width:   img.Width,
		Height:  img.Height,
		Counted: hist.Total,
		Colors:  hist.Rank(opts.TopN),
	}, nil
}

// Run fetches the named logo from source and writes its report to w. Nothing is
// written if any step fails.
func Run(ctx context.Context, source assets.Source, name string, opts Options, w io.Writer) error {
	logo, err := source.Fetch(ctx, name)
	if err != nil {
		return err
	}

	data, err := Analyze(logo, opts)
	if err != nil {
		return err
	}

	var out bytes.Buffer
	if err := report.Render(&out, utils.OrDefault(opts.Format, report.FormatText), data); err != nil {
		return err
	}
	_, err = w.Write(out.Bytes())
	return err
}

var ThemeColorsCommand = &cobra.Command{
	Use:   "themecolors [logo]",
	Short: "Report the dominant colors of a project logo",
	Long: "Report the dominant colors of a project logo. The logo is an SVG with an embedded " +
		"base64 PNG, or a PNG. With --source s3 the argument is an asset key of the form <id>/<filename>.",
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		defer logging.LogPanics(nil)

		if err := runCommand(cmd, args); err != nil {
			logging.Error().Err(err).Str("logo", args[0]).Msg("Failed to extract theme colors")
			os.Exit(1)
		}
	},
}

func init() {
	flags := ThemeColorsCommand.Flags()
	flags.Int("top", config.Config.Report.TopN, "how many colors to report")
	flags.Uint8("min-alpha", config.Config.Report.MinAlpha, "ignore pixels with alpha below this")
	flags.String("format", string(report.FormatText), "report format (text or css)")
	flags.String("source", string(config.Config.Assets.Source), "where to load the logo from (local or s3)")
	flags.String("bucket", config.Config.Assets.S3.Bucket, "S3 bucket for --source s3")
	flags.Bool("debug", false, "enable debug logging")
}

func runCommand(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	top, _ := flags.GetInt("top")
	minAlpha, _ := flags.GetUint8("min-alpha")
	formatStr, _ := flags.GetString("format")
	sourceStr, _ := flags.GetString("source")
	bucket, _ := flags.GetString("bucket")
	debug, _ := flags.GetBool("debug")

	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	format, err := report.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	assetsCfg := config.Config.Assets
	assetsCfg.Source = config.AssetSource(sourceStr)
	assetsCfg.S3.Bucket = bucket

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	source, err := assets.NewSource(ctx, assetsCfg)
	if err != nil {
		return err
	}

	return Run(ctx, source, args[0], Options{
		TopN:     utils.IntClamp(1, top, 256),
		MinAlpha: minAlpha,
		Format:   format,
	}, cmd.OutOrStdout())
}
