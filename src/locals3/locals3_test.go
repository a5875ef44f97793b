package locals3

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBucketKey(t *testing.T) {
	cases := map[string][2]string{
		"/hmn-assets":                {"hmn-assets", ""},
		"/hmn-assets/":               {"hmn-assets", ""},
		"/hmn-assets/logo.svg":       {"hmn-assets", "logo.svg"},
		"/hmn-assets/abc/def/logo.s": {"hmn-assets", "abc~def~logo.s"},
	}
	for path, want := range cases {
		bucket, key := bucketKey(httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want[0], bucket, path)
		assert.Equal(t, want[1], key, path)
	}
}

func TestHandler(t *testing.T) {
	dir := t.TempDir()
	h := Handler(dir)

	put := httptest.NewRecorder()
	h.ServeHTTP(put, httptest.NewRequest(http.MethodPut, "/hmn-assets/0b6a/logo.svg", strings.NewReader("<svg/>")))
	assert.Equal(t, http.StatusOK, put.Code)
	stored, err := os.ReadFile(filepath.Join(dir, "hmn-assets", "0b6a~logo.svg"))
	require.Nil(t, err)
	assert.Equal(t, "<svg/>", string(stored))

	get := httptest.NewRecorder()
	h.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/hmn-assets/0b6a/logo.svg", nil))
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Equal(t, "<svg/>", get.Body.String())

	missing := httptest.NewRecorder()
	h.ServeHTTP(missing, httptest.NewRequest(http.MethodGet, "/hmn-assets/nope.svg", nil))
	assert.Equal(t, http.StatusNotFound, missing.Code)
	assert.Contains(t, missing.Body.String(), "<Code>NoSuchKey</Code>")

	del := httptest.NewRecorder()
	h.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/hmn-assets/0b6a/logo.svg", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, del.Code)
}
