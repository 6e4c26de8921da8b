package main

import (
	"encoding/json"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/urfave/cli/v2"

	"github.com/lamtools/lamctl/cmd/lamctl/internal/util"
	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/artifact"
	"github.com/lamtools/lamctl/pkg/logging"
)

var releasesCmdDef = cli.Command{
	Name:  "releases",
	Usage: "List the target function's published versions, most recent first",
	Action: util.ChainCmdMiddleware(cmdReleases,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

var releasesRollbackCmdDef = cli.Command{
	Name:      "releases:rollback",
	Usage:     "Repoint the target function's code at an older published version",
	ArgsUsage: "[VERSION]",
	Description: heredoc.Doc(`
		Downloads the code artifact of the given published version (by
		default the one before the most recent) and re-uploads it as the
		function's head code, then publishes a new version describing the
		rollback.  The old versions themselves are never modified.
	`),
	Action: util.ChainCmdMiddleware(cmdReleasesRollback,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

func cmdReleases(c *cli.Context) error {
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return err
	}
	versions, err := util.NewClient(c).ListVersions(c.Context, fn)
	if err != nil {
		return err
	}
	releases := lamapi.OrderReleases(versions)
	logger := logging.Ctx(c.Context)
	if c.Bool("json") {
		serial, err := json.Marshal(releases)
		if err != nil {
			return lamapi.ErrorInternal("serializing release list", err)
		}
		logger.Out("%s", serial)
		return nil
	}
	for _, r := range releases {
		logger.Out("%-8s  %s  %s", r.Version, r.LastModified.Format(time.RFC3339), r.Description)
	}
	return nil
}

func cmdReleasesRollback(c *cli.Context) error {
	if c.Args().Len() > 1 {
		return lamapi.ErrorInvalid("releases:rollback takes at most one argument: the target version")
	}
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return err
	}
	client := util.NewClient(c)
	target := lamapi.Version(c.Args().First())
	if target == "" {
		versions, err := client.ListVersions(c.Context, fn)
		if err != nil {
			return err
		}
		target = lamapi.PreviousRelease(versions)
		if target == "" {
			return lamapi.ErrorInvalid("nothing to roll back to: fewer than two published versions",
				[2]string{"function", string(fn)})
		}
	}
	location, err := client.GetCodeLocation(c.Context, fn, target)
	if err != nil {
		return err
	}
	zipPath, err := artifact.Fetch(c.Context, location, fn)
	if err != nil {
		return err
	}
	if err := client.UpdateFunctionCode(c.Context, fn, zipPath); err != nil {
		return err
	}
	published, err := client.PublishVersion(c.Context, fn, "rolled back to version "+string(target))
	if err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	logger.Info("", "%s rolled back to version %s, published as version %s", fn, target, published)
	return nil
}
