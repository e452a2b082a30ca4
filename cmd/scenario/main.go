package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	"github.com/delaneyj/reactiveparty/pkg/harness"
)

const (
	engineKey  = "engine"
	formatKey  = "format"
	verboseKey = "verbose"

	engineBoth = "both"

	formatTable    = "table"
	formatMarkdown = "markdown"
	formatLines    = "lines"
)

func main() {
	cmd := &cli.Command{
		Name:  "scenario",
		Usage: "Replay write scenarios against the eager and lazy engines",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log every applied step",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "run",
				Usage:     "Run one or more scenario files and print their traces",
				ArgsUsage: "<scenario.yaml>...",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  engineKey,
						Usage: "Engine to run: eager, lazy or both (defaults to the scenario's engine, then both)",
					},
					&cli.StringFlag{
						Name:  formatKey,
						Usage: "Output format: table, markdown or lines",
						Value: formatTable,
					},
				},
				Action: run,
			},
			{
				Name:      "check",
				Usage:     "Validate scenario files without running them",
				ArgsUsage: "<scenario.yaml>...",
				Action:    check,
			},
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

func newLogger(cmd *cli.Command) *slog.Logger {
	level := slog.LevelInfo
	if cmd.Bool(verboseKey) {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func check(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("no scenario files given")
	}
	for _, path := range paths {
		sc, err := harness.LoadScenario(path)
		if err != nil {
			return err
		}
		log.Printf("%s: %q ok, %d watches, %d steps", path, sc.Name, len(sc.Watch), len(sc.Steps))
	}
	return nil
}

func run(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return fmt.Errorf("no scenario files given")
	}
	logger := newLogger(cmd)

	start := time.Now()
	var events int
	for _, path := range paths {
		sc, err := harness.LoadScenario(path)
		if err != nil {
			return err
		}

		engines, err := pickEngines(cmd.String(engineKey), sc.Engine)
		if err != nil {
			return err
		}

		traces, err := harness.RunAll(ctx, sc, engines, logger)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, t := range traces {
			events += len(t.Events)
		}

		if err := render(cmd.String(formatKey), traces); err != nil {
			return err
		}
		if len(traces) == 2 {
			compare(traces[0], traces[1])
		}
	}

	log.Printf("ran %s scenarios, %s events in %v",
		humanize.Comma(int64(len(paths))), humanize.Comma(int64(events)), time.Since(start))
	return nil
}

func pickEngines(flagValue, scenarioValue string) ([]string, error) {
	name := flagValue
	if name == "" {
		name = scenarioValue
	}
	switch name {
	case "", engineBoth:
		return harness.Engines(), nil
	case harness.EngineEager, harness.EngineLazy:
		return []string{name}, nil
	}
	return nil, fmt.Errorf("unknown engine %q", name)
}

func render(format string, traces []*harness.Trace) error {
	switch format {
	case formatTable:
		for _, t := range traces {
			fmt.Printf("%s (%s)\n", t.Scenario, t.Engine)
			table := tablewriter.NewWriter(os.Stdout)
			table.SetHeader([]string{"seq", "kind", "event"})
			table.SetAutoWrapText(false)
			for _, e := range t.Events {
				table.Append([]string{fmt.Sprint(e.Seq), string(e.Kind), e.Detail()})
			}
			table.SetFooter([]string{"", "digest", t.Digest()})
			table.Render()
		}
	case formatMarkdown:
		harness.WriteMarkdown(os.Stdout, traces...)
	case formatLines:
		for _, t := range traces {
			fmt.Printf("# %s (%s)\n", t.Scenario, t.Engine)
			fmt.Print(t.String())
		}
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// compare reports whether both engines re-ran the same watchers with the
// same values.
func compare(a, b *harness.Trace) {
	if a.Digest() == b.Digest() {
		log.Printf("%s: %s and %s agree (%s)", a.Scenario, a.Engine, b.Engine, a.Digest())
		return
	}
	log.Printf("%s: %s and %s diverge (%s vs %s)", a.Scenario, a.Engine, b.Engine, a.Digest(), b.Digest())
}
