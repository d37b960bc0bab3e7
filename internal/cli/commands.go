package cli

import (
	"context"
	"time"

	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/data"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/model"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/planner"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/report"
	"github.com/Nmloury/fantasy-football-budget-optimizer/internal/scenario"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// runFlags are shared by optimize and scenarios.
type runFlags struct {
	optimizer string
	budget    float64
	roster    string
	out       string
}

func (f *runFlags) flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "optimizer",
			Usage:       "greedy or knapsack (default from config)",
			Destination: &f.optimizer,
		},
		&cli.FloatFlag{
			Name:        "budget",
			Usage:       "Auction budget (default from config)",
			Destination: &f.budget,
		},
		&cli.StringFlag{
			Name:        "roster",
			Usage:       "Roster preset (default from config)",
			Destination: &f.roster,
		},
		&cli.StringFlag{
			Name:        "out",
			Usage:       "Output directory (default from config)",
			Destination: &f.out,
		},
	}
}

func (f *runFlags) request() planner.Request {
	return planner.Request{Optimizer: f.optimizer, Budget: f.budget, Preset: f.roster}
}

func (f *runFlags) outDir(p *planner.Planner) string {
	if f.out != "" {
		return f.out
	}
	return p.Config().Output.Dir
}

func cmdMarket(a *app) *cli.Command {
	var (
		top      int
		position string
		out      string
	)
	return &cli.Command{
		Name:  "market",
		Usage: "Load inputs, build consensus values and prices, write market.csv",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "top", Usage: "Players to print", Value: 25, Destination: &top},
			&cli.StringFlag{Name: "position", Usage: "Only print this position", Destination: &position},
			&cli.StringFlag{Name: "out", Usage: "Output directory (default from config)", Destination: &out},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			var pos model.Position
			if position != "" {
				p, ok := model.ParsePosition(position)
				if !ok {
					return goerr.Wrap(model.ErrInvalidValue, "unknown position", goerr.V(model.PositionKey, position))
				}
				pos = p
			}

			p, err := a.planner()
			if err != nil {
				return err
			}
			players, rep, err := p.Market()
			if err != nil {
				return err
			}
			if out == "" {
				out = p.Config().Output.Dir
			}
			path, err := report.NewWriter(out, false, a.log).WriteMarket(players)
			if err != nil {
				return err
			}

			printLoadReport(a.out, rep)
			printMarket(a.out, players, pos, top)
			printWritten(a.out, path)
			return nil
		},
	}
}

func cmdOptimize(a *app) *cli.Command {
	var f runFlags
	return &cli.Command{
		Name:  "optimize",
		Usage: "Pick the best roster within budget, write roster.csv and roster.json",
		Flags: f.flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := a.planner()
			if err != nil {
				return err
			}
			players, _, err := p.Market()
			if err != nil {
				return err
			}
			asg, err := p.Optimize(players, f.request())
			if err != nil {
				return err
			}

			w := report.NewWriter(f.outDir(p), false, a.log)
			if _, err := w.WriteMarket(players); err != nil {
				return err
			}
			paths, err := w.WriteRoster(asg)
			if err != nil {
				return err
			}

			printRoster(a.out, asg)
			printWritten(a.out, paths...)
			return nil
		},
	}
}

func cmdScenarios(a *app) *cli.Command {
	var (
		f           runFlags
		preset      string
		num         int
		stddev      float64
		mode        string
		seed        uint64
		parallelism int
		perScenario bool
	)
	flags := append(f.flags(),
		&cli.StringFlag{Name: "preset", Usage: "Scenario preset: calm, standard or volatile", Destination: &preset},
		&cli.IntFlag{Name: "num", Usage: "Number of scenarios", Destination: &num},
		&cli.FloatFlag{Name: "stddev", Usage: "Relative stddev of value noise", Destination: &stddev},
		&cli.StringFlag{Name: "mode", Usage: "Risk sampling mode: uniform, scaled or bust", Destination: &mode},
		&cli.Uint64Flag{Name: "seed", Usage: "Seed for reproducible batches", Destination: &seed},
		&cli.IntFlag{Name: "parallelism", Usage: "Concurrent scenarios (default GOMAXPROCS)", Destination: &parallelism},
		&cli.BoolFlag{Name: "per-scenario", Usage: "Also write one roster CSV per scenario", Destination: &perScenario},
	)

	return &cli.Command{
		Name:  "scenarios",
		Usage: "Re-optimize under perturbed values and summarize the outcomes",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			p, err := a.planner()
			if err != nil {
				return err
			}
			players, _, err := p.Market()
			if err != nil {
				return err
			}

			params := p.Config().ScenarioParams()
			if preset != "" {
				params = scenario.Params{Preset: preset, Parallelism: params.Parallelism, Seed: params.Seed}
			}
			if num > 0 {
				params.NumScenarios = num
			}
			if stddev > 0 {
				params.Stddev = stddev
			}
			if mode != "" {
				params.Mode = scenario.Mode(mode)
			}
			if c.IsSet("seed") {
				params.Seed = &seed
			}
			if parallelism > 0 {
				params.Parallelism = parallelism
			}

			start := time.Now()
			res, err := p.Scenarios(ctx, players, f.request(), &params)
			if err != nil {
				return err
			}
			a.log.Info().Int("scenarios", len(res.Scenarios)).Dur("elapsed", time.Since(start)).Msg("scenario batch done")

			w := report.NewWriter(f.outDir(p), perScenario || p.Config().Output.PerScenario, a.log)
			paths, err := w.WriteScenarios(res)
			if err != nil {
				return err
			}

			printScenarios(a.out, res, 15)
			printWritten(a.out, paths...)
			return nil
		},
	}
}

func cmdFetch(a *app) *cli.Command {
	var (
		weeks   int
		out     string
		baseURL string
		retries int
	)
	return &cli.Command{
		Name:  "fetch",
		Usage: "Download FantasyPros projections into a projections CSV",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "weeks", Usage: "Season weeks to divide projected points by (default from config, 17)", Destination: &weeks},
			&cli.StringFlag{Name: "out", Usage: "Output CSV (default <fetch.dir>/fp_rankings_MMDDYYYY.csv)", Destination: &out},
			&cli.StringFlag{Name: "base-url", Usage: "FantasyPros base URL", Sources: cli.EnvVars("FFBO_FANTASYPROS_URL"), Destination: &baseURL},
			&cli.IntFlag{Name: "retries", Usage: "Extra attempts per page (default 2)", Value: -1, Destination: &retries},
		},
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			if weeks <= 0 {
				weeks = cfg.Fetch.Weeks
			}
			if baseURL == "" {
				baseURL = cfg.Fetch.BaseURL
			}
			if out == "" {
				out = data.DefaultProjectionsPath(cfg.Fetch.Dir, time.Now())
			}

			client := data.NewFantasyProsClient(baseURL, a.log)
			if cfg.Fetch.Retries != nil {
				client.Retries = *cfg.Fetch.Retries
			}
			if retries >= 0 {
				client.Retries = retries
			}

			rows, err := client.FetchProjections(ctx, weeks)
			if err != nil {
				return err
			}
			if err := data.WriteProjectionsCSV(out, rows); err != nil {
				return err
			}

			printFetched(a.out, rows)
			printWritten(a.out, out)
			return nil
		},
	}
}

func cmdPresets(a *app) *cli.Command {
	return &cli.Command{
		Name:  "presets",
		Usage: "List roster layouts and scenario presets",
		Action: func(ctx context.Context, c *cli.Command) error {
			return printPresets(a.out)
		},
	}
}
