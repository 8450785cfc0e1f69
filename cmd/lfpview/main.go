package main

import(
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/abworrall/lfp-viewer/pkg/logutils"
	"github.com/abworrall/lfp-viewer/pkg/rcache"
)

var version = "dev"

func newApp(flags *Flags) *cli.Command {
	logCloser := func() {}

	app := &cli.Command{
		Name:      "lfpview",
		Usage:     "look at processed light-field pictures",
		UsageText: "lfpview [global options] command [command options] PICTURE",
		Description: `PICTURE is a directory holding a picture.yaml manifest, or the manifest itself.

Refocus with the left button, change viewpoint with the right, and show the
all-focused image with the middle one.`,
		Version: version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal)",
				Sources:     cli.EnvVars("LFPVIEW_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "write JSON logs to this file, instead of the console",
				Sources:     cli.EnvVars("LFPVIEW_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to a yaml config file",
				Sources:     cli.EnvVars("LFPVIEW_CONFIG"),
				Destination: &flags.ConfigPath,
			},
			&cli.IntFlag{
				Name:        "width",
				Usage:       "initial display width",
				Destination: &flags.Width,
			},
			&cli.IntFlag{
				Name:        "height",
				Usage:       "initial display height",
				Destination: &flags.Height,
			},
			&cli.StringFlag{
				Name:        "kernel",
				Usage:       fmt.Sprintf("resampling kernel %v", rcache.ListKernels()),
				Destination: &flags.Kernel,
			},
			&cli.BoolFlag{
				Name:        "overlay",
				Usage:       "draw the heads-up display",
				Destination: &flags.Overlay,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logger, closer, err := logutils.New(flags.LogLevel, flags.LogFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			if err := flags.loadConfig(c); err != nil {
				return ctx, err
			}
			log.Debug().Msgf("final configuration:-\n\n%s", flags.Config.AsYaml())
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			logCloser()
			return nil
		},
	}

	app = NewViewCmd(flags).Register(app)
	app = NewRenderCmd(flags).Register(app)
	app = NewInfoCmd(flags).Register(app)
	return app
}

func main() {
	if err := newApp(&Flags{}).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
