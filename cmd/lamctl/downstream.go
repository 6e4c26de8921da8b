package main

import (
	"encoding/json"

	"github.com/MakeNowJust/heredoc"
	"github.com/urfave/cli/v2"

	"github.com/lamtools/lamctl/cmd/lamctl/internal/util"
	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/artifact"
	"github.com/lamtools/lamctl/pkg/downstream"
	"github.com/lamtools/lamctl/pkg/logging"
)

var downstreamCmdDef = cli.Command{
	Name:  "downstream",
	Usage: "Print the target function's downstream list, one per line",
	Action: util.ChainCmdMiddleware(cmdDownstream,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

var downstreamAddCmdDef = cli.Command{
	Name:      "downstream:add",
	Usage:     "Add functions to the downstream list",
	ArgsUsage: "NAME...",
	Action: util.ChainCmdMiddleware(cmdDownstreamAdd,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

var downstreamRemoveCmdDef = cli.Command{
	Name:      "downstream:remove",
	Usage:     "Remove functions from the downstream list",
	ArgsUsage: "NAME...",
	Action: util.ChainCmdMiddleware(cmdDownstreamRemove,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

var downstreamPromoteCmdDef = cli.Command{
	Name:  "downstream:promote",
	Usage: "Push the latest published code to every downstream function",
	Description: heredoc.Doc(`
		Downloads the source function's published code artifact and uploads
		it to each downstream function concurrently, publishing a new
		version of each with a description naming the source and version.

		One downstream failing does not roll back or stop the others; the
		command reports the failure after all downstreams have finished.
	`),
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "version",
			Usage: "Promote this published version instead of the latest",
		},
		&cli.StringFlag{
			Name:  "stage-bucket",
			Usage: "Stage the artifact once in this S3 bucket instead of uploading it per downstream",
		},
	},
	Action: util.ChainCmdMiddleware(cmdDownstreamPromote,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

func readDownstreams(c *cli.Context) (lamapi.FunctionName, lamapi.Configuration, []lamapi.FunctionName, error) {
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return "", nil, nil, err
	}
	cfg, err := util.NewClient(c).GetConfiguration(c.Context, fn, "")
	if err != nil {
		return "", nil, nil, err
	}
	return fn, cfg, downstream.Parse(cfg[lamapi.DownstreamKey]), nil
}

func writeDownstreams(c *cli.Context, fn lamapi.FunctionName, cfg lamapi.Configuration, list []lamapi.FunctionName) error {
	merged := cfg.Clone()
	merged[lamapi.DownstreamKey] = downstream.Format(list)
	return util.NewClient(c).SetConfiguration(c.Context, fn, merged)
}

func cmdDownstream(c *cli.Context) error {
	_, _, list, err := readDownstreams(c)
	if err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	if c.Bool("json") {
		if list == nil {
			list = []lamapi.FunctionName{}
		}
		serial, err := json.Marshal(list)
		if err != nil {
			return lamapi.ErrorInternal("serializing downstream list", err)
		}
		logger.Out("%s", serial)
		return nil
	}
	for _, name := range list {
		logger.Out("%s", name)
	}
	return nil
}

func cmdDownstreamAdd(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return lamapi.ErrorInvalid("downstream:add requires at least one NAME argument")
	}
	names := make([]lamapi.FunctionName, c.Args().Len())
	for i, arg := range c.Args().Slice() {
		names[i] = lamapi.FunctionName(arg)
	}
	fn, cfg, list, err := readDownstreams(c)
	if err != nil {
		return err
	}
	updated, err := downstream.Add(list, names...)
	if err != nil {
		return err
	}
	if err := writeDownstreams(c, fn, cfg, updated); err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	logger.Info("", "%s now has %d downstream(s)", fn, len(updated))
	return nil
}

func cmdDownstreamRemove(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return lamapi.ErrorInvalid("downstream:remove requires at least one NAME argument")
	}
	names := make([]lamapi.FunctionName, c.Args().Len())
	for i, arg := range c.Args().Slice() {
		names[i] = lamapi.FunctionName(arg)
	}
	fn, cfg, list, err := readDownstreams(c)
	if err != nil {
		return err
	}
	updated, err := downstream.Remove(list, names...)
	if err != nil {
		return err
	}
	if err := writeDownstreams(c, fn, cfg, updated); err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	logger.Info("", "%s now has %d downstream(s)", fn, len(updated))
	return nil
}

func cmdDownstreamPromote(c *cli.Context) error {
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return err
	}
	promoter := &downstream.Promoter{
		Remote: util.NewClient(c),
	}
	if bucket := c.String("stage-bucket"); bucket != "" {
		stager, err := artifact.NewS3Stager(c.Context, bucket, c.String("region"), c.String("profile"))
		if err != nil {
			return err
		}
		promoter.Stager = stager
		promoter.StageBucket = stager.Bucket
	}
	results, err := promoter.Promote(c.Context, fn, lamapi.Version(c.String("version")))
	logger := logging.Ctx(c.Context)
	if c.Bool("json") {
		serial, jerr := json.Marshal(promotionReport(results))
		if jerr != nil {
			return lamapi.ErrorInternal("serializing promotion report", jerr)
		}
		logger.Out("%s", serial)
	}
	return err
}

type promotionResult struct {
	Target  lamapi.FunctionName `json:"target"`
	Version lamapi.Version      `json:"version,omitempty"`
	Error   string              `json:"error,omitempty"`
}

func promotionReport(results []downstream.Promotion) []promotionResult {
	out := make([]promotionResult, len(results))
	for i, r := range results {
		out[i] = promotionResult{Target: r.Target, Version: r.Version}
		if r.Err != nil {
			out[i].Error = r.Err.Error()
		}
	}
	return out
}
