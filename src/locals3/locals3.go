// Package locals3 is a tiny S3 stand-in for development. It stores objects
// in a folder so logos can be fetched with the S3 asset source.
package locals3

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"git.handmade.network/hmn/themecolors/src/config"
	"git.handmade.network/hmn/themecolors/src/logging"
	"git.handmade.network/hmn/themecolors/src/themecolors"
	"github.com/spf13/cobra"
)

func init() {
	s3Command := &cobra.Command{
		Use:   "locals3 [storage folder]",
		Short: "Run a local s3 server that stores in the filesystem",
		Run: func(cmd *cobra.Command, args []string) {
			defer logging.LogPanics(nil)

			targetFolder := "./tmp"
			if len(args) > 0 {
				targetFolder = args[0]
			}
			err := os.MkdirAll(targetFolder, fs.ModePerm)
			if err != nil {
				panic(err)
			}

			addr, _ := cmd.Flags().GetString("addr")
			logging.Info().Str("addr", addr).Str("folder", targetFolder).Msg("Serving local S3")
			err = http.ListenAndServe(addr, Handler(targetFolder))
			if !errors.Is(err, http.ErrServerClosed) {
				logging.Error().Err(err).Msg("Local S3 shut down unexpectedly")
			}
		},
	}
	s3Command.Flags().String("addr", strings.TrimPrefix(config.Config.Assets.S3.Endpoint, "http://"), "address to listen on")

	themecolors.ThemeColorsCommand.AddCommand(s3Command)
}

func Handler(targetFolder string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bucket, key := bucketKey(r)
		logging.Debug().
			Str("method", r.Method).
			Str("bucket", bucket).
			Str("key", key).
			Msg("Incoming local S3 request")

		if bucket == "" {
			writeError(w, http.StatusBadRequest, "InvalidBucketName", "no bucket in path")
			return
		}

		switch r.Method {
		case http.MethodPut:
			bodyBytes, err := io.ReadAll(r.Body)
			if err != nil {
				writeError(w, http.StatusBadRequest, "IncompleteBody", err.Error())
				return
			}
			err = os.MkdirAll(filepath.Join(targetFolder, bucket), fs.ModePerm)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "InternalError", err.Error())
				return
			}
			if key != "" {
				err = os.WriteFile(filepath.Join(targetFolder, bucket, key), bodyBytes, 0o644)
				if err != nil {
					writeError(w, http.StatusInternalServerError, "InternalError", err.Error())
					return
				}
			}
			w.Header().Set("Location", fmt.Sprintf("/%s", bucket))
		case http.MethodGet:
			fileBytes, err := os.ReadFile(filepath.Join(targetFolder, bucket, key))
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					writeError(w, http.StatusNotFound, "NoSuchKey", "The specified key does not exist.")
				} else {
					writeError(w, http.StatusInternalServerError, "InternalError", err.Error())
				}
				return
			}
			w.Write(fileBytes)
		default:
			writeError(w, http.StatusMethodNotAllowed, "MethodNotAllowed", r.Method+" is not supported")
		}
	})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/xml")
	w.WriteHeader(status)
	fmt.Fprintf(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>%s</Code><Message>%s</Message></Error>`, code, message)
}

// bucketKey splits a path-style request. Slashes in the key are flattened so
// every object is a single file in the bucket folder.
func bucketKey(r *http.Request) (string, string) {
	slashIdx := strings.IndexByte(r.URL.Path[1:], '/')
	if slashIdx == -1 {
		return r.URL.Path[1:], ""
	} else {
		return r.URL.Path[1 : 1+slashIdx], strings.Replace(r.URL.Path[2+slashIdx:], "/", "~", -1)
	}
}
