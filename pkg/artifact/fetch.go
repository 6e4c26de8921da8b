// Package artifact moves function code archives around: download from the
// provider's transient code locations, and optional staging into an S3
// bucket for fan-out.
package artifact

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/logging"
	"github.com/lamtools/lamctl/pkg/tracing"
)

// Fetch downloads the code archive at a pre-signed location into a fresh
// per-run temp directory and returns the zip's path.  The location is
// single-use; call GetCodeLocation again rather than retrying a URL.
//
// The temp file is deliberately left behind for inspection; the OS owns
// cleanup of the temp dir.
//
// Errors:
//
//    - lamctl-error-io -- when the download or the local write fails
func Fetch(ctx context.Context, location lamapi.CodeLocation, fn lamapi.FunctionName) (string, error) {
	ctx, span := tracing.Start(ctx, "fetch artifact")
	defer span.End()
	logger := logging.Ctx(ctx)

	dir, err := os.MkdirTemp("", "lamctl-"+uuid.New().String())
	if err != nil {
		return "", lamapi.ErrorIo("creating artifact temp dir", "", err)
	}
	path := filepath.Join(dir, string(fn)+".zip")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(location), nil)
	if err != nil {
		return "", lamapi.ErrorIo("building artifact request", path, err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		werr := lamapi.ErrorIo("downloading artifact", path, err)
		tracing.SetSpanError(ctx, werr)
		return "", werr
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		werr := lamapi.ErrorIo("downloading artifact", path,
			fmt.Errorf("unexpected status %s", resp.Status))
		tracing.SetSpanError(ctx, werr)
		return "", werr
	}

	f, err := os.Create(path)
	if err != nil {
		return "", lamapi.ErrorIo("creating artifact file", path, err)
	}
	defer f.Close()
	n, err := io.Copy(f, resp.Body)
	if err != nil {
		return "", lamapi.ErrorIo("writing artifact file", path, err)
	}
	logger.Debug("artifact", "downloaded %d bytes to %s", n, path)
	return path, nil
}
