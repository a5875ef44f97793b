package config

import (
	"github.com/rs/zerolog"
)

type Environment string

const (
	Live Environment = "live"
	Beta             = "beta"
	Dev              = "dev"
)

type ThemeColorsConfig struct {
	Env      Environment
	LogLevel zerolog.Level
	Report   ReportConfig
	Assets   AssetsConfig
}

type ReportConfig struct {
	// How many ranked colors to print.
	TopN int

	// Pixels with alpha below this are left out of the histogram.
	MinAlpha uint8
}

type AssetSource string

const (
	AssetSourceLocal AssetSource = "local"
	AssetSourceS3    AssetSource = "s3"
)

type AssetsConfig struct {
	Source   AssetSource
	LocalDir string
	S3       S3Config
}

type S3Config struct {
	Key      string
	Secret   string
	Region   string
	Endpoint string
	Bucket   string

	// Attempts for a single object fetch, including the first.
	MaxAttempts int
}
