// Package cli implements the ffbo command line.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/config"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/util"
	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/urfave/cli/v3"
)

// app carries the global flags into every command.
type app struct {
	configPath string
	logLevel   string
	noColor    bool

	out io.Writer
	log zerolog.Logger
}

// loadConfig reads --config, or returns the defaults when it is unset.
func (a *app) loadConfig() (*config.Config, error) {
	if a.configPath == "" {
		return config.Default(), nil
	}
	return config.Load(a.configPath)
}

func (a *app) planner() (*planner.Planner, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}
	return planner.New(cfg, a.log), nil
}

// Run parses args and executes the selected command. Command output goes to
// out, logs go to stderr.
func Run(ctx context.Context, args []string, out io.Writer, version string) error {
	a := &app{out: out, log: util.NewLogger("info")}

	cmd := &cli.Command{
		Name:    "ffbo",
		Usage:   "Fantasy football auction budget optimizer",
		Version: version,
		Writer:  out,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to a YAML or TOML config file",
				Sources:     cli.EnvVars("FFBO_CONFIG"),
				Destination: &a.configPath,
			},
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "Log level (debug, info, warn, error)",
				Sources:     cli.EnvVars("LOG_LEVEL"),
				Value:       "info",
				Destination: &a.logLevel,
			},
			&cli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &a.noColor,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			a.log = util.NewLogger(a.logLevel)
			if a.noColor || out != os.Stdout {
				color.NoColor = true
			}
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdMarket(a),
			cmdOptimize(a),
			cmdScenarios(a),
			cmdFetch(a),
			cmdPresets(a),
		},
	}

	if err := cmd.Run(ctx, args); err != nil {
		util.LogError(a.log, "command failed", err)
		return err
	}
	return nil
}
