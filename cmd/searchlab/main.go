// Command searchlab is a terminal demo of the search-as-you-type pipeline
// over a simulated, flaky catalog.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kbukum/searchlab/bootstrap"
	"github.com/kbukum/searchlab/component"
	"github.com/kbukum/searchlab/config"
	"github.com/kbukum/searchlab/observability"
	"github.com/kbukum/searchlab/pipeline"
	"github.com/kbukum/searchlab/query"
	"github.com/kbukum/searchlab/scheduler"
	"github.com/kbukum/searchlab/search"
	"github.com/kbukum/searchlab/strategy"
	"github.com/kbukum/searchlab/version"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "searchlab:", err)
		os.Exit(1)
	}
}

type options struct {
	configFile  string
	strategy    string
	failureRate float64
	query       string
	page        int
	filter      string
	showVersion bool
	set         map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet(serviceName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.configFile, "config", "", "path to config.yml (searched in standard locations when empty)")
	fs.StringVar(&o.strategy, "strategy", "", "concurrency strategy: cancel-latest, queue-sequential, parallel-merge, ignore-while-busy")
	fs.Float64Var(&o.failureRate, "failure-rate", 0, "simulated failure probability between 0 and 1")
	fs.StringVar(&o.query, "query", "", "run one lookup, print JSON and exit")
	fs.IntVar(&o.page, "page", 1, "page for -query")
	fs.StringVar(&o.filter, "filter", "", "filter for -query: all, title, description")
	fs.BoolVar(&o.showVersion, "version", false, "print version and exit")
	if err := fs.Parse(args); err != nil {
		return o, err
	}
	o.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { o.set[f.Name] = true })
	return o, nil
}

// apply lets explicitly set flags override the loaded configuration.
func (o options) apply(cfg *AppConfig) error {
	if o.set["strategy"] {
		kind, err := strategy.ParseKind(o.strategy)
		if err != nil {
			return err
		}
		cfg.Pipeline.Strategy = string(kind)
	}
	if o.set["failure-rate"] {
		cfg.Catalog.FailureRate = o.failureRate
	}
	return nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}
	if opts.showVersion {
		_, err := fmt.Fprintln(stdout, serviceName, version.GetVersionInfo())
		return err
	}

	var cfg AppConfig
	loaderOpts := []config.LoaderOption{config.WithDefaults(defaults())}
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if _, err := config.LoadConfig(serviceName, &cfg, loaderOpts...); err != nil {
		return err
	}
	if err := opts.apply(&cfg); err != nil {
		return err
	}

	app, err := bootstrap.NewApp(&cfg)
	if err != nil {
		return err
	}
	if err := app.RegisterComponent(observability.NewTelemetry(cfg.Telemetry, cfg.Name, cfg.Version, cfg.Environment)); err != nil {
		return err
	}

	if opts.query != "" {
		return runOnce(ctx, app, opts, stdout)
	}
	return runInteractive(ctx, app)
}

// runOnce serves -query: one blocking, retried lookup.
func runOnce(ctx context.Context, app *bootstrap.App[*AppConfig], opts options, stdout io.Writer) error {
	filter, err := search.ParseFilterMode(opts.filter)
	if err != nil {
		return err
	}
	cfg := app.Cfg
	lookup, err := newLookup(cfg.Catalog, app.Logger, withQueryRetry(cfg.Pipeline, app.Logger))
	if err != nil {
		return err
	}
	q := search.Query{Term: opts.query, Page: max(opts.page, 1), Filter: filter}
	return app.RunTask(ctx, func(ctx context.Context) error {
		return runQuery(ctx, lookup, cfg.Pipeline, q, stdout)
	})
}

// runInteractive wires the scheduler, the pipeline and the terminal UI.
func runInteractive(ctx context.Context, app *bootstrap.App[*AppConfig]) error {
	cfg := app.Cfg
	loop := scheduler.NewLoop(0, app.Logger)
	src := query.NewSource()

	lookup, err := newLookup(cfg.Catalog, app.Logger)
	if err != nil {
		return err
	}
	p, err := pipeline.New(src, lookup, loop,
		pipeline.WithConfig(cfg.Pipeline),
		pipeline.WithLogger(app.Logger),
	)
	if err != nil {
		return err
	}
	states := newRelay(64)
	p.Subscribe(states.publish)

	for _, c := range []component.Component{loop, p} {
		if err := app.RegisterComponent(c); err != nil {
			return err
		}
	}

	return app.RunTask(ctx, func(ctx context.Context) error {
		m := newModel(loop.Post, src, p, states, p.Strategy(), cfg.Pipeline.MinTermLength)
		_, err := tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return err
	})
}
