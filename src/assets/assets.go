// Package assets loads logo SVGs from the local filesystem or from the S3
// asset bucket.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"git.handmade.network/hmn/themecolors/src/config"
	"git.handmade.network/hmn/themecolors/src/logging"
	"git.handmade.network/hmn/themecolors/src/oops"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/google/uuid"
	"github.com/jpillora/backoff"
)

var ErrAssetNotFound = errors.New("asset not found")

type Source interface {
	Fetch(ctx context.Context, name string) ([]byte, error)
}

func NewSource(ctx context.Context, cfg config.AssetsConfig) (Source, error) {
	switch cfg.Source {
	case config.AssetSourceLocal, "":
		return &LocalSource{Dir: cfg.LocalDir}, nil
	case config.AssetSourceS3:
		client, err := NewS3Client(ctx, cfg.S3)
		if err != nil {
			return nil, err
		}
		return &S3Source{
			Client:      client,
			Bucket:      cfg.S3.Bucket,
			MaxAttempts: cfg.S3.MaxAttempts,
		}, nil
	default:
		return nil, oops.New(nil, "unknown asset source '%s'", cfg.Source)
	}
}

type LocalSource struct {
	Dir string
}

func (s *LocalSource) Fetch(ctx context.Context, name string) ([]byte, error) {
	path := name
	if !filepath.IsAbs(path) && s.Dir != "" {
		path = filepath.Join(s.Dir, name)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.New(ErrAssetNotFound, "no logo at %s", path)
		}
		return nil, oops.New(err, "failed to read logo file")
	}
	return data, nil
}

var REIllegalFilenameChars = regexp.MustCompile(`[^\w\-.]`)

func SanitizeFilename(filename string) string {
	if filename == "" {
		return "unnamed"
	}
	return REIllegalFilenameChars.ReplaceAllString(filename, "_")
}

func AssetKey(id, filename string) string {
	return fmt.Sprintf("%s/%s", id, filename)
}

// ParseAssetKey splits an asset key of the form <uuid>/<filename>.
func ParseAssetKey(key string) (uuid.UUID, string, error) {
	idStr, filename, found := strings.Cut(key, "/")
	if !found || filename == "" {
		return uuid.UUID{}, "", oops.New(nil, "asset key '%s' is not of the form <id>/<filename>", key)
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.UUID{}, "", oops.New(err, "asset key '%s' has an invalid id", key)
	}
	if SanitizeFilename(filename) != filename {
		return uuid.UUID{}, "", oops.New(nil, "asset key '%s' has an invalid filename", key)
	}
	return id, filename, nil
}

func NewS3Client(ctx context.Context, cfg config.S3Config) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				cfg.Key,
				cfg.Secret,
				"",
			),
		),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithEndpointResolver(aws.EndpointResolverFunc(func(service, region string) (aws.Endpoint, error) {
			return aws.Endpoint{
				URL: cfg.Endpoint,
			}, nil
		})),
	)
	if err != nil {
		return nil, oops.New(err, "failed to load S3 config")
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = true
	}), nil
}

type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type S3Source struct {
	Client      ObjectGetter
	Bucket      string
	MaxAttempts int

	// Zero values fall back to 200ms and 5s.
	MinBackoff, MaxBackoff time.Duration
}

func (s *S3Source) Fetch(ctx context.Context, key string) ([]byte, error) {
	if _, _, err := ParseAssetKey(key); err != nil {
		return nil, err
	}

	log := logging.ExtractLogger(ctx).With().
		Str("bucket", s.Bucket).
		Str("key", key).
		Logger()

	boff := backoff.Backoff{
		Min:    s.MinBackoff,
		Max:    s.MaxBackoff,
		Factor: 2,
	}
	if boff.Min == 0 {
		boff.Min = 200 * time.Millisecond
	}
	if boff.Max == 0 {
		boff.Max = 5 * time.Second
	}

	attempts := s.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		data, err := s.fetchOnce(ctx, key)
		if err == nil {
			log.Debug().Int("bytes", len(data)).Int("attempt", attempt).Msg("fetched logo from S3")
			return data, nil
		}
		if !isRetryable(err) {
			return nil, err
		}
		lastErr = err
		if attempt == attempts {
			break
		}

		dur := boff.Duration()
		log.Warn().
			Err(err).
			Dur("retrying after", dur).
			Msg("failed to fetch logo from S3")

		timer := time.NewTimer(dur)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, oops.New(ctx.Err(), "gave up fetching logo from S3")
		case <-timer.C:
		}
	}
	return nil, oops.New(lastErr, "failed to fetch logo from S3 after %d attempts", attempts)
}

func (s *S3Source) fetchOnce(ctx context.Context, key string) ([]byte, error) {
	res, err := s.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.Bucket,
		Key:    &key,
	})
	if err != nil {
		var apiError smithy.APIError
		if errors.As(err, &apiError) && (apiError.ErrorCode() == "NoSuchKey" || apiError.ErrorCode() == "NotFound") {
			return nil, oops.New(ErrAssetNotFound, "no logo at s3://%s/%s", s.Bucket, key)
		}
		return nil, oops.New(err, "failed to get logo object")
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, oops.New(err, "failed to read logo object")
	}
	return data, nil
}

func isRetryable(err error) bool {
	if errors.Is(err, ErrAssetNotFound) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiError smithy.APIError
	if errors.As(err, &apiError) {
		switch apiError.ErrorCode() {
		case "NoSuchBucket", "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch":
			return false
		}
	}
	return true
}
