package config

import (
	"github.com/rs/zerolog"
)

var Config = ThemeColorsConfig{
	Env:      Dev,
	LogLevel: zerolog.InfoLevel,
	Report: ReportConfig{
		TopN:     10,
		MinAlpha: 16,
	},
	Assets: AssetsConfig{
		Source:   AssetSourceLocal,
		LocalDir: ".",
		S3: S3Config{
			Key:         "dummy",
			Secret:      "dummy",
			Region:      "dummy",
			Endpoint:    "http://localhost:9004",
			Bucket:      "hmn-assets",
			MaxAttempts: 3,
		},
	},
}
