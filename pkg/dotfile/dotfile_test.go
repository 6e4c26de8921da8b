package dotfile_test

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	qt "github.com/frankban/quicktest"
	"github.com/serum-errors/go-serum"

	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/dotfile"
)

func TestFind(t *testing.T) {
	fsys := fstest.MapFS{
		"home/user/proj/.lamctl":        &fstest.MapFile{Data: []byte("orders\n")},
		"home/user/proj/sub/dir/keep":   &fstest.MapFile{Data: []byte{}},
		"home/other/unrelated/.lamctl":  &fstest.MapFile{Data: []byte("billing\n")},
		"home/user/noproj/sub/dir/keep": &fstest.MapFile{Data: []byte{}},
	}
	t.Run("finds the dotfile in the starting directory", func(t *testing.T) {
		path, err := dotfile.Find(fsys, "", "home/user/proj")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, path, qt.Equals, "home/user/proj/.lamctl")
	})
	t.Run("searches upward", func(t *testing.T) {
		path, err := dotfile.Find(fsys, "", "home/user/proj/sub/dir")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, path, qt.Equals, "home/user/proj/.lamctl")
	})
	t.Run("returns empty when nothing is found", func(t *testing.T) {
		path, err := dotfile.Find(fsys, "", "home/user/noproj/sub/dir")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, path, qt.Equals, "")
	})
	t.Run("does not search above the basis path", func(t *testing.T) {
		path, err := dotfile.Find(fsys, "home/user/proj/sub", "dir")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, path, qt.Equals, "")
	})
}

func TestRead(t *testing.T) {
	t.Run("reads the function name", func(t *testing.T) {
		fsys := fstest.MapFS{".lamctl": &fstest.MapFile{Data: []byte("orders\n")}}
		fn, err := dotfile.Read(fsys, ".lamctl")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, fn, qt.Equals, lamapi.FunctionName("orders"))
	})
	t.Run("accepts a missing trailing newline", func(t *testing.T) {
		fsys := fstest.MapFS{".lamctl": &fstest.MapFile{Data: []byte("orders")}}
		fn, err := dotfile.Read(fsys, ".lamctl")
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, fn, qt.Equals, lamapi.FunctionName("orders"))
	})
	t.Run("missing file", func(t *testing.T) {
		_, err := dotfile.Read(fstest.MapFS{}, ".lamctl")
		qt.Assert(t, serum.Code(err), qt.Equals, lamapi.ECodeMissing)
	})
	t.Run("rejects junk", func(t *testing.T) {
		for _, junk := range []string{"", "\n", "orders\nbilling\n", "two words\n", "orders \n"} {
			fsys := fstest.MapFS{".lamctl": &fstest.MapFile{Data: []byte(junk)}}
			_, err := dotfile.Read(fsys, ".lamctl")
			qt.Assert(t, serum.Code(err), qt.Equals, lamapi.ECodeParse, qt.Commentf("content %q", junk))
		}
	})
}

func TestWrite(t *testing.T) {
	t.Run("writes name plus newline", func(t *testing.T) {
		dir := t.TempDir()
		err := dotfile.Write(dir, "orders", false)
		qt.Assert(t, err, qt.IsNil)
		data, err := os.ReadFile(filepath.Join(dir, ".lamctl"))
		qt.Assert(t, err, qt.IsNil)
		qt.Assert(t, string(data), qt.Equals, "orders\n")
	})
	t.Run("refuses to overwrite without force", func(t *testing.T) {
		dir := t.TempDir()
		qt.Assert(t, dotfile.Write(dir, "orders", false), qt.IsNil)
		err := dotfile.Write(dir, "billing", false)
		qt.Assert(t, serum.Code(err), qt.Equals, lamapi.ECodeAlreadyExists)
		data, _ := os.ReadFile(filepath.Join(dir, ".lamctl"))
		qt.Assert(t, string(data), qt.Equals, "orders\n")
	})
	t.Run("force overwrites", func(t *testing.T) {
		dir := t.TempDir()
		qt.Assert(t, dotfile.Write(dir, "orders", false), qt.IsNil)
		qt.Assert(t, dotfile.Write(dir, "billing", true), qt.IsNil)
		data, _ := os.ReadFile(filepath.Join(dir, ".lamctl"))
		qt.Assert(t, string(data), qt.Equals, "billing\n")
	})
}
