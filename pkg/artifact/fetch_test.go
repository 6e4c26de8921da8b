package artifact_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/artifact"
)

func TestFetch(t *testing.T) {
	t.Run("downloads into a function-named zip", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("PK\x03\x04fake zip bytes"))
		}))
		defer srv.Close()

		path, err := artifact.Fetch(context.Background(), lamapi.CodeLocation(srv.URL), "orders")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, strings.HasSuffix(path, "orders.zip"), qt.IsTrue)
		body, err := os.ReadFile(path)
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(body), qt.Equals, "PK\x03\x04fake zip bytes")
	})
	t.Run("non-200 status is an io error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "expired", http.StatusForbidden)
		}))
		defer srv.Close()

		_, err := artifact.Fetch(context.Background(), lamapi.CodeLocation(srv.URL), "orders")
		qt.Assert(t, err, qt.IsNotNil)
		qt.Assert(t, serum.Code(err), qt.Equals, lamapi.ECodeIo)
	})
	t.Run("unreachable host is an io error", func(t *testing.T) {
		_, err := artifact.Fetch(context.Background(), "http://127.0.0.1:1/code.zip", "orders")
		qt.Assert(t, err, qt.IsNotNil)
		qt.Assert(t, serum.Code(err), qt.Equals, lamapi.ECodeIo)
	})
}
