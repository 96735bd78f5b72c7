// Command tableau runs the six worked scenarios this engine is built to
// prove or refute and reports the resulting Stats, optionally dumping
// any countermodels a failed scenario turns up.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/elsinore/tableau/pkg/tableau"
)

var cli struct {
	Run  RunCmd  `cmd:"" help:"Build a tableau for one of the built-in scenarios."`
	List ListCmd `cmd:"" help:"List the built-in scenarios."`
}

// RunCmd builds and reports on a single named scenario. It is a
// demonstration harness, not a sentence parser: scenario selection is by
// name, not free-form premise/conclusion syntax.
type RunCmd struct {
	Scenario  string `arg:"" help:"Scenario name (see 'tableau list')."`
	Models    bool   `help:"Print countermodels for invalid/open results."`
	MaxSteps  int    `default:"10000" help:"Abort the build after this many rule-application steps."`
	Metrics   bool   `help:"Register and print Prometheus metrics gathered during the build."`
	GroupOpt  bool   `default:"true" name:"group-optim" help:"Enable group-level target optimization."`
	RankOpt   bool   `default:"true" name:"rank-optim" help:"Enable within-rule target ranking."`
}

type ListCmd struct{}

func (c *ListCmd) Run() error {
	for _, sc := range tableau.AllScenarios() {
		fmt.Printf("%-28s %s\n", sc.Name, sc.Description)
	}
	return nil
}

func (c *RunCmd) Run() error {
	var sc *tableau.Scenario
	for _, s := range tableau.AllScenarios() {
		s := s
		if s.Name == c.Scenario {
			sc = &s
			break
		}
	}
	if sc == nil {
		return fmt.Errorf("unknown scenario %q (run 'tableau list' to see the available names)", c.Scenario)
	}

	opts := []tableau.Option{
		tableau.WithMaxSteps(c.MaxSteps),
		tableau.WithBuildModels(true),
		tableau.WithGroupOptim(c.GroupOpt),
		tableau.WithRankOptim(c.RankOpt),
	}

	var reg *prometheus.Registry
	if c.Metrics {
		reg = prometheus.NewRegistry()
		opts = append(opts, tableau.WithMetrics(tableau.NewMetrics(reg)))
	}

	tab, err := tableau.New(sc.Argument, sc.Logic, opts...)
	if err != nil {
		return fmt.Errorf("building tableau: %w", err)
	}
	if err := tab.Build(); err != nil {
		return fmt.Errorf("running tableau: %w", err)
	}

	stats := tab.Stats()
	fmt.Printf("scenario:  %s\n", sc.Name)
	fmt.Printf("logic:     %s\n", sc.LogicName)
	fmt.Printf("valid:     %v\n", tab.Valid())
	fmt.Printf("steps:     %d\n", stats.Steps)
	fmt.Printf("branches:  %d (closed %d, open %d)\n", stats.Branches, stats.ClosedBranches, stats.OpenBranches)
	fmt.Printf("duration:  %s\n", stats.Duration)
	if len(stats.RulesApplied) > 0 {
		fmt.Println("rules applied:")
		for name, n := range stats.RulesApplied {
			fmt.Printf("  %-28s %d\n", name, n)
		}
	}
	if reg != nil {
		families, err := reg.Gather()
		if err != nil {
			return fmt.Errorf("gathering metrics: %w", err)
		}
		fmt.Println("metrics:")
		for _, mf := range families {
			fmt.Printf("  %s\n", mf.String())
		}
	}

	if c.Models && !tab.Valid() {
		models := tab.Models()
		if len(models) == 0 {
			fmt.Println("no countermodels were built")
		}
		for i, m := range models {
			ok, err := m.IsCountermodelTo(sc.Argument)
			status := "countermodel"
			if err != nil {
				status = fmt.Sprintf("error checking countermodel: %v", err)
			} else if !ok {
				status = "does not falsify the argument"
			}
			fmt.Printf("model %d (%s):\n  %s\n", i, status, m.String())
		}
	}

	return nil
}

func main() {
	ctx := kong.Parse(&cli,
		kong.Name("tableau"),
		kong.Description("A demonstration analytic-tableau prover over a fixed set of worked scenarios."),
		kong.UsageOnError(),
	)
	if err := ctx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimSpace(err.Error()))
		os.Exit(1)
	}
}
