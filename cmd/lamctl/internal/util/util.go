package util

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/awscli"
	"github.com/lamtools/lamctl/pkg/dotfile"
	"github.com/lamtools/lamctl/pkg/logging"
)

// NewClient builds the provider client from the global flags.
func NewClient(c *cli.Context) *awscli.Client {
	return awscli.New(c.String("region"), c.String("profile"))
}

// ResolveFunction determines the target function: the --function flag when
// given, otherwise the nearest dotfile, searching from the working
// directory upward.
//
// Errors:
//
//    - lamctl-error-invalid -- when neither flag nor dotfile names a function
//    - lamctl-error-io -- when the dotfile search or read fails
//    - lamctl-error-parse -- when the dotfile content is malformed
//    - lamctl-error-missing -- when a found dotfile disappears before reading
func ResolveFunction(c *cli.Context) (lamapi.FunctionName, error) {
	if s := c.String("function"); s != "" {
		return lamapi.FunctionName(s), nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", lamapi.ErrorIo("getting working directory", "", err)
	}
	// de-rootify for fs.FS; search paths are non-rooted.
	fsys := os.DirFS("/")
	path, err := dotfile.Find(fsys, "", pwd[1:])
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", lamapi.ErrorInvalid("no function selected: pass --function or run `lamctl init`")
	}
	logger := logging.Ctx(c.Context)
	logger.Debug("", "using dotfile %s", filepath.Join("/", path))
	return dotfile.Read(fsys, path)
}
