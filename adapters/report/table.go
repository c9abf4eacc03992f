package report

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"zgony/domain/core"
	"zgony/domain/mortality"
	"zgony/internal"
)

// Missing is printed where an average is undefined, e.g. an age group with no deaths recorded
const Missing = "n/a"

// TableConfig configures the averages table
type TableConfig struct {
	Policy    mortality.AveragePolicy
	Locale    string
	OutputDir string
	Styled    bool
	// StrictStats fails the table when an average is undefined instead of printing Missing
	StrictStats bool
}

// Table renders rounded weekly averages per age group (rows) and year (columns)
type Table struct {
	config  TableConfig
	printer *message.Printer
	logger  *internal.Logger
}

// NewTable creates a table renderer. An unknown locale falls back to Polish.
func NewTable(config TableConfig, logger *internal.Logger) *Table {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	logger = logger.With("Table")
	if config.Policy == "" {
		config.Policy = mortality.AverageNonZero
	}
	tag, err := language.Parse(config.Locale)
	if err != nil {
		logger.Warn("unknown locale %q, using pl", config.Locale)
		tag = language.Polish
	}
	return &Table{
		config:  config,
		printer: message.NewPrinter(tag),
		logger:  logger,
	}
}

func (t *Table) Name() string {
	return "table"
}

// Rows returns the header and body of the averages table as plain strings.
// The last body row holds the overall total deaths per year.
func (t *Table) Rows(ds *mortality.Dataset) ([]string, [][]string, error) {
	years := ds.Years()
	headers := make([]string, 0, len(years)+1)
	headers = append(headers, "Age group")
	for _, y := range years {
		headers = append(headers, strconv.Itoa(y))
	}

	var rows [][]string
	for _, label := range ds.AgeGroups() {
		row := make([]string, 0, len(years)+1)
		row = append(row, label)
		for _, r := range ds.Reports() {
			cell, err := t.averageCell(r, label)
			if err != nil {
				return nil, nil, err
			}
			row = append(row, cell)
		}
		rows = append(rows, row)
	}

	totals := make([]string, 0, len(years)+1)
	totals = append(totals, "Total deaths")
	for _, total := range ds.OverallTotals() {
		totals = append(totals, t.printer.Sprintf("%d", total))
	}
	rows = append(rows, totals)

	return headers, rows, nil
}

func (t *Table) averageCell(r *mortality.AnnualReport, label string) (string, error) {
	s, ok := r.AgeGroup(label)
	if !ok {
		return "", fmt.Errorf("year %d: %w: age group %q", r.Year(), core.ErrRowNotFound, label)
	}
	avg, err := s.Average(t.config.Policy)
	if err != nil {
		if core.IsStatisticError(err) && !t.config.StrictStats {
			t.logger.Warn("year %d, age group %q: %v", r.Year(), label, err)
			return Missing, nil
		}
		return "", err
	}
	return t.printer.Sprintf("%d", int64(math.Round(avg))), nil
}

// String renders the dataset as a bordered console table
func (t *Table) String(ds *mortality.Dataset) (string, error) {
	return t.render(ds, t.config.Styled)
}

func (t *Table) render(ds *mortality.Dataset, styled bool) (string, error) {
	headers, rows, err := t.Rows(ds)
	if err != nil {
		return "", err
	}

	headerStyle := lipgloss.NewStyle().Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	if styled {
		headerStyle = headerStyle.Bold(true).Foreground(lipgloss.Color("7"))
	}
	last := len(rows)

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == 0:
				return headerStyle
			case col > 0:
				style := cellStyle.Align(lipgloss.Right)
				if styled && row == last {
					style = style.Foreground(lipgloss.Color("6"))
				}
				return style
			default:
				return cellStyle
			}
		})

	return tbl.Render(), nil
}

// Render writes the table, without colors, to averages.txt in the output directory
func (t *Table) Render(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out, err := t.render(ds, false)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(t.config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	path := filepath.Join(t.config.OutputDir, "averages.txt")
	if err := os.WriteFile(path, []byte(out+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	t.logger.Debug("wrote %s", path)
	return []string{path}, nil
}
