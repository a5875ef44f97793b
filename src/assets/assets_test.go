package assets

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"git.handmade.network/hmn/themecolors/src/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testKey = "0b6a2fd4-7f0e-4a43-9e58-4a1c2b3b1a9e/logo.svg"

type fakeGetter struct {
	errs  []error
	body  []byte
	calls int
	keys  []string
}

func (f *fakeGetter) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.calls++
	f.keys = append(f.keys, *params.Bucket+"/"+*params.Key)
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return nil, err
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(f.body))}, nil
}

func newTestS3Source(getter *fakeGetter) *S3Source {
	return &S3Source{
		Client:      getter,
		Bucket:      "hmn-assets",
		MaxAttempts: 3,
		MinBackoff:  time.Millisecond,
		MaxBackoff:  time.Millisecond,
	}
}

func TestS3Source(t *testing.T) {
	t.Run("fetches object", func(t *testing.T) {
		getter := &fakeGetter{body: []byte("<svg/>")}
		data, err := newTestS3Source(getter).Fetch(context.Background(), testKey)
		require.Nil(t, err)
		assert.Equal(t, []byte("<svg/>"), data)
		assert.Equal(t, []string{"hmn-assets/" + testKey}, getter.keys)
	})
	t.Run("retries transient errors", func(t *testing.T) {
		getter := &fakeGetter{
			errs: []error{errors.New("connection reset"), errors.New("connection reset")},
			body: []byte("<svg/>"),
		}
		data, err := newTestS3Source(getter).Fetch(context.Background(), testKey)
		require.Nil(t, err)
		assert.Equal(t, []byte("<svg/>"), data)
		assert.Equal(t, 3, getter.calls)
	})
	t.Run("gives up after max attempts", func(t *testing.T) {
		getter := &fakeGetter{
			errs: []error{errors.New("a"), errors.New("b"), errors.New("c"), errors.New("d")},
		}
		_, err := newTestS3Source(getter).Fetch(context.Background(), testKey)
		assert.ErrorContains(t, err, "after 3 attempts")
		assert.Equal(t, 3, getter.calls)
	})
	t.Run("missing key is not retried", func(t *testing.T) {
		getter := &fakeGetter{
			errs: []error{&smithy.GenericAPIError{Code: "NoSuchKey", Message: "gone"}},
		}
		_, err := newTestS3Source(getter).Fetch(context.Background(), testKey)
		assert.True(t, errors.Is(err, ErrAssetNotFound))
		assert.Equal(t, 1, getter.calls)
	})
	t.Run("access denied is not retried", func(t *testing.T) {
		getter := &fakeGetter{
			errs: []error{&smithy.GenericAPIError{Code: "AccessDenied"}},
		}
		_, err := newTestS3Source(getter).Fetch(context.Background(), testKey)
		assert.Error(t, err)
		assert.Equal(t, 1, getter.calls)
	})
	t.Run("invalid key", func(t *testing.T) {
		getter := &fakeGetter{}
		_, err := newTestS3Source(getter).Fetch(context.Background(), "logo.svg")
		assert.ErrorContains(t, err, "<id>/<filename>")
		assert.Equal(t, 0, getter.calls)
	})
}

func TestParseAssetKey(t *testing.T) {
	id, filename, err := ParseAssetKey(testKey)
	require.Nil(t, err)
	assert.Equal(t, "0b6a2fd4-7f0e-4a43-9e58-4a1c2b3b1a9e", id.String())
	assert.Equal(t, "logo.svg", filename)
	assert.Equal(t, testKey, AssetKey(id.String(), filename))

	_, _, err = ParseAssetKey("not-a-uuid/logo.svg")
	assert.ErrorContains(t, err, "invalid id")
	_, _, err = ParseAssetKey("0b6a2fd4-7f0e-4a43-9e58-4a1c2b3b1a9e/my logo.svg")
	assert.ErrorContains(t, err, "invalid filename")
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "unnamed", SanitizeFilename(""))
	assert.Equal(t, "my_logo_.svg", SanitizeFilename("my logo!.svg"))
}

func TestLocalSource(t *testing.T) {
	dir := t.TempDir()
	require.Nil(t, os.WriteFile(filepath.Join(dir, "logo.svg"), []byte("<svg/>"), 0o644))

	source, err := NewSource(context.Background(), config.AssetsConfig{Source: config.AssetSourceLocal, LocalDir: dir})
	require.Nil(t, err)

	data, err := source.Fetch(context.Background(), "logo.svg")
	require.Nil(t, err)
	assert.Equal(t, []byte("<svg/>"), data)

	data, err = source.Fetch(context.Background(), filepath.Join(dir, "logo.svg"))
	require.Nil(t, err)
	assert.Equal(t, []byte("<svg/>"), data)

	_, err = source.Fetch(context.Background(), "missing.svg")
	assert.True(t, errors.Is(err, ErrAssetNotFound))
}

func TestNewSourceUnknown(t *testing.T) {
	_, err := NewSource(context.Background(), config.AssetsConfig{Source: "ftp"})
	assert.ErrorContains(t, err, "unknown asset source 'ftp'")
}
