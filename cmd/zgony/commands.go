package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"zgony/domain/sheet"
	"zgony/internal/config"
	"zgony/internal/container"
	"zgony/internal/errors"
)

type cliFlags struct {
	dataDir     string
	outputDir   string
	years       string
	sheet       string
	policy      string
	strict      bool
	strictStats bool
	parallelism int
	locale      string
	format      string
	logLevel    string
	runID       string
}

func (f *cliFlags) register(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.StringVar(&f.dataDir, "data-dir", "", "Directory with the yearly workbooks (DATA_DIR)")
	pf.StringVar(&f.outputDir, "out", "", "Output directory (OUTPUT_DIR)")
	pf.StringVar(&f.years, "years", "", "Years to load, e.g. 2015-2019,2021 (YEARS)")
	pf.StringVar(&f.sheet, "sheet", "", "Worksheet: OGÓŁEM, MĘŻCZYŹNI or KOBIETY (SHEET)")
	pf.StringVar(&f.policy, "policy", "", "Averaging policy: nonzero or simple (AVERAGE_POLICY)")
	pf.BoolVar(&f.strict, "strict", false, "Fail when a row key matches more than one row (STRICT_ROWS)")
	pf.BoolVar(&f.strictStats, "strict-stats", false, "Fail when an average is undefined instead of printing n/a (STRICT_STATS)")
	pf.IntVar(&f.parallelism, "parallelism", 0, "Years loaded concurrently (PARALLELISM)")
	pf.StringVar(&f.locale, "locale", "", "Number formatting locale, e.g. pl or en (LOCALE)")
	pf.StringVar(&f.format, "format", "", "Chart format: png or svg (CHART_FORMAT)")
	pf.StringVar(&f.runID, "run-id", "", "Run id written to the summary, generated when empty (RUN_ID)")
	pf.StringVar(&f.logLevel, "log-level", "", "ERROR, WARN, INFO, DEBUG or TRACE (LOG_LEVEL)")
}

// loadConfig reads the environment and lets explicitly set flags win
func (f *cliFlags) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	changed := cmd.Flags().Changed
	if changed("data-dir") {
		cfg.Data.Dir = f.dataDir
	}
	if changed("out") {
		cfg.Output.Dir = f.outputDir
	}
	if changed("years") {
		years, err := config.ParseYears(f.years)
		if err != nil {
			return nil, err
		}
		cfg.Data.Years = years
	}
	if changed("sheet") {
		cfg.Data.Sheet = f.sheet
	}
	if changed("policy") {
		cfg.Report.AveragePolicy = f.policy
	}
	if changed("strict") {
		cfg.Report.Strict = f.strict
	}
	if changed("strict-stats") {
		cfg.Report.StrictStats = f.strictStats
	}
	if changed("parallelism") {
		cfg.Data.Parallelism = f.parallelism
	}
	if changed("locale") {
		cfg.Output.Locale = f.locale
	}
	if changed("format") {
		cfg.Output.ChartFormat = f.format
	}
	if changed("run-id") {
		cfg.Output.RunID = f.runID
	}
	if changed("log-level") {
		cfg.Log.Level = f.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid flags")
	}
	cfg.Output.Styled = term.IsTerminal(int(os.Stdout.Fd()))
	return cfg, nil
}

func (f *cliFlags) wire(cmd *cobra.Command) (*container.Container, error) {
	cfg, err := f.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return container.New(cfg)
}

func newReportCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Load all years and write the table, summary and charts to the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()
			c, err := flags.wire(cmd)
			if err != nil {
				return err
			}

			ds, err := c.DatasetService.Build(cmd.Context(), c.Config.Data.Years)
			if err != nil {
				return err
			}

			results, err := c.DatasetService.Render(cmd.Context(), ds, c.Renderers()...)
			if err != nil {
				return errors.RenderFailed("report", err)
			}

			total := 0
			for _, r := range results {
				total += len(r.Artifacts)
				printf(cmd, "%-8s %3d files  %v\n", r.Renderer, len(r.Artifacts), r.Duration.Round(time.Millisecond))
			}
			printf(cmd, "%d years, %d files in %s (%v)\n", ds.Len(), total, c.Config.Output.Dir, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
}

func newTableCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "table",
		Short: "Print rounded weekly averages per age group and year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := flags.wire(cmd)
			if err != nil {
				return err
			}

			ds, err := c.DatasetService.Build(cmd.Context(), c.Config.Data.Years)
			if err != nil {
				return err
			}

			out, err := c.Table.String(ds)
			if err != nil {
				return err
			}
			printf(cmd, "%s\n", out)
			return nil
		},
	}
}

func newInspectCmd(flags *cliFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <year>",
		Short: "List the sheets and row keys of one year's workbook",
		Example: `  zgony inspect 2020
  zgony inspect 2020 --sheet KOBIETY`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return errors.InvalidInput(fmt.Sprintf("invalid year %q", args[0]))
			}

			c, err := flags.wire(cmd)
			if err != nil {
				return err
			}

			path, err := c.Resolver.Resolve(cmd.Context(), year)
			if err != nil {
				return err
			}

			names, err := c.Reader.SheetNames(path)
			if err != nil {
				return err
			}
			tbl, err := c.Reader.Load(cmd.Context(), path, c.Config.Data.Sheet)
			if err != nil {
				return err
			}

			printf(cmd, "%s\nsheets: %v\nsheet %s: %d rows\n", path, names, tbl.Name, tbl.Len())
			printf(cmd, "%s\n", inventory(tbl))
			return nil
		},
	}
}

// inventory tabulates every row key with its payload length and how often it occurs
func inventory(t sheet.Table) string {
	rows := make([][]string, 0)
	seen := make(map[sheet.RowKey]bool)
	for _, key := range sheet.Keys(t) {
		if seen[key] {
			continue
		}
		seen[key] = true
		weeks := "-"
		if values, err := sheet.Locate(t, key); err == nil {
			weeks = strconv.Itoa(len(values))
		}
		rows = append(rows, []string{key.Group, key.Region, weeks, strconv.Itoa(sheet.Count(t, key))})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Group", "Region", "Weeks", "Rows").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == 0 {
				return lipgloss.NewStyle().Bold(true).Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Render()
}
