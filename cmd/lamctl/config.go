package main

import (
	"encoding/json"
	"sort"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/urfave/cli/v2"

	"github.com/lamtools/lamctl/cmd/lamctl/internal/util"
	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/logging"
)

var configCmdDef = cli.Command{
	Name:  "config",
	Usage: "Print the remote configuration of the target function",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "version",
			Usage: "Read the configuration of a published version instead of the head",
		},
	},
	Action: util.ChainCmdMiddleware(cmdConfig,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

var configGetCmdDef = cli.Command{
	Name:      "config:get",
	Usage:     "Print one configuration value of the target function",
	ArgsUsage: "KEY",
	Action: util.ChainCmdMiddleware(cmdConfigGet,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

var configSetCmdDef = cli.Command{
	Name:      "config:set",
	Usage:     "Set configuration values on the target function",
	ArgsUsage: "KEY=VALUE...",
	Description: heredoc.Doc(`
		Merges the given pairs into the function's existing configuration.
		Variables not named are left untouched; the full merged mapping is
		written back in one call.
	`),
	Action: util.ChainCmdMiddleware(cmdConfigSet,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

var configUnsetCmdDef = cli.Command{
	Name:      "config:unset",
	Usage:     "Remove configuration values from the target function",
	ArgsUsage: "KEY...",
	Description: heredoc.Doc(`
		Removes the named variables.  If any of them is not currently set,
		the command fails before anything is written to the function.
	`),
	Action: util.ChainCmdMiddleware(cmdConfigUnset,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

func cmdConfig(c *cli.Context) error {
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return err
	}
	cfg, err := util.NewClient(c).GetConfiguration(c.Context, fn, lamapi.Version(c.String("version")))
	if err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	if c.Bool("json") {
		serial, err := json.Marshal(cfg)
		if err != nil {
			return lamapi.ErrorInternal("serializing configuration", err)
		}
		logger.Out("%s", serial)
		return nil
	}
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		logger.Out("%s=%s", k, cfg[k])
	}
	return nil
}

func cmdConfigGet(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return lamapi.ErrorInvalid("config:get requires exactly one argument: the variable name")
	}
	key := c.Args().First()
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return err
	}
	cfg, err := util.NewClient(c).GetConfiguration(c.Context, fn, "")
	if err != nil {
		return err
	}
	value, ok := cfg[key]
	if !ok {
		return lamapi.ErrorMissingConfigKey(fn, key)
	}
	logging.Ctx(c.Context).Out("%s", value)
	return nil
}

func cmdConfigSet(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return lamapi.ErrorInvalid("config:set requires at least one KEY=VALUE argument")
	}
	pairs := make(lamapi.Configuration, c.Args().Len())
	for _, arg := range c.Args().Slice() {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return lamapi.ErrorInvalid("arguments must be KEY=VALUE pairs",
				[2]string{"argument", arg})
		}
		pairs[key] = value
	}
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return err
	}
	client := util.NewClient(c)
	cfg, err := client.GetConfiguration(c.Context, fn, "")
	if err != nil {
		return err
	}
	merged := cfg.Clone()
	for k, v := range pairs {
		merged[k] = v
	}
	if err := client.SetConfiguration(c.Context, fn, merged); err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	logger.Info("", "set %d variable(s) on %s", len(pairs), fn)
	return nil
}

func cmdConfigUnset(c *cli.Context) error {
	if c.Args().Len() == 0 {
		return lamapi.ErrorInvalid("config:unset requires at least one KEY argument")
	}
	fn, err := util.ResolveFunction(c)
	if err != nil {
		return err
	}
	client := util.NewClient(c)
	cfg, err := client.GetConfiguration(c.Context, fn, "")
	if err != nil {
		return err
	}
	// Validate every key before touching anything remote.
	for _, key := range c.Args().Slice() {
		if _, ok := cfg[key]; !ok {
			return lamapi.ErrorMissingConfigKey(fn, key)
		}
	}
	pruned := cfg.Clone()
	for _, key := range c.Args().Slice() {
		delete(pruned, key)
	}
	if err := client.SetConfiguration(c.Context, fn, pruned); err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	logger.Info("", "unset %s on %s", strings.Join(c.Args().Slice(), ", "), fn)
	return nil
}
