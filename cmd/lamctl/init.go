package main

import (
	"os"

	"github.com/urfave/cli/v2"

	"github.com/lamtools/lamctl/cmd/lamctl/internal/util"
	"github.com/lamtools/lamctl/lamapi"
	"github.com/lamtools/lamctl/pkg/dotfile"
	"github.com/lamtools/lamctl/pkg/logging"
)

var initCmdDef = cli.Command{
	Name:      "init",
	Usage:     "Record the default function for this directory in a .lamctl file",
	ArgsUsage: "FUNCTION",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "force",
			Usage: "Overwrite an existing .lamctl file",
		},
	},
	Action: util.ChainCmdMiddleware(cmdInit,
		util.CmdMiddlewareLogging,
		util.CmdMiddlewareTracingConfig,
		util.CmdMiddlewareTracingSpan,
	),
}

func cmdInit(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return lamapi.ErrorInvalid("init requires exactly one argument: the function name")
	}
	fn := lamapi.FunctionName(c.Args().First())
	pwd, err := os.Getwd()
	if err != nil {
		return lamapi.ErrorIo("getting working directory", "", err)
	}
	if err := dotfile.Write(pwd, fn, c.Bool("force")); err != nil {
		return err
	}
	logger := logging.Ctx(c.Context)
	logger.Info("", "default function for %s is now %s", pwd, fn)
	return nil
}
