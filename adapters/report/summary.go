package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"zgony/domain/core"
	"zgony/domain/mortality"
	"zgony/internal"
	"zgony/internal/profiling"
)

// Summary writes a markdown overview of a dataset and its HTML rendering
type Summary struct {
	outputDir string
	table     *Table
	analyzer  *profiling.DistributionAnalyzer
	logger    *internal.Logger

	newRunID func() core.RunID
	now      func() time.Time
}

// NewSummary creates a summary renderer. The averages section reuses table's formatting.
func NewSummary(outputDir string, table *Table, logger *internal.Logger) *Summary {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &Summary{
		outputDir: outputDir,
		table:     table,
		analyzer:  profiling.NewDistributionAnalyzer(),
		logger:    logger.With("Summary"),
		newRunID:  core.NewRunID,
		now:       time.Now,
	}
}

// UseRunID stamps every summary with id instead of a freshly generated one
func (s *Summary) UseRunID(id core.RunID) {
	s.newRunID = func() core.RunID { return id }
}

func (s *Summary) Name() string {
	return "summary"
}

// Markdown builds the summary document
func (s *Summary) Markdown(ds *mortality.Dataset) (string, error) {
	var b strings.Builder
	p := s.table.printer

	fmt.Fprintf(&b, "# Weekly deaths in Poland, %s\n\n", yearSpan(ds.Years()))
	fmt.Fprintf(&b, "Run `%s`, generated %s, data fingerprint `%s`.\n\n",
		s.newRunID(), s.now().UTC().Format(time.RFC3339), ds.Fingerprint().Short())

	b.WriteString("## Years\n\n")
	b.WriteString("| Year | Weeks | Total deaths | Peak week | Peak deaths | Median weekly | Source |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---|\n")
	for _, r := range ds.Reports() {
		overall := r.Overall()
		peakWeek, peakDeaths, median := Missing, Missing, Missing
		if week, count, err := overall.Peak(); err == nil {
			peakWeek = fmt.Sprintf("%d", week+1)
			peakDeaths = p.Sprintf("%d", count)
		} else if !core.IsStatisticError(err) {
			return "", err
		}
		if m, err := overall.Median(); err == nil {
			median = p.Sprintf("%.1f", m)
		}
		fmt.Fprintf(&b, "| %d | %d | %s | %s | %s | %s | %s |\n",
			r.Year(), r.Weeks(), p.Sprintf("%d", overall.Total()), peakWeek, peakDeaths, median, filepath.Base(r.Source()))
	}

	s.writeProfiles(&b, ds)

	headers, rows, err := s.table.Rows(ds)
	if err != nil {
		return "", err
	}
	fmt.Fprintf(&b, "\n## Average weekly deaths by age group (%s)\n\n", s.table.config.Policy)
	b.WriteString("| " + strings.Join(headers, " | ") + " |\n")
	b.WriteString("|---" + strings.Repeat("|---:", len(headers)-1) + "|\n")
	for _, row := range rows {
		b.WriteString("| " + strings.Join(row, " | ") + " |\n")
	}

	return b.String(), nil
}

func (s *Summary) writeProfiles(b *strings.Builder, ds *mortality.Dataset) {
	p := s.table.printer

	b.WriteString("\n## Weekly profile, all ages\n\n")
	b.WriteString("| Year | Mean | Std dev | Q25 | Q75 | Skewness | Outlier weeks | Surge weeks |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|---|\n")
	for _, r := range ds.Reports() {
		profile, err := s.analyzer.Profile(r.Overall().Floats())
		if err != nil {
			s.logger.Warn("year %d: no profile: %v", r.Year(), err)
			continue
		}
		surges := "none"
		if len(profile.SurgeWeeks) > 0 {
			weeks := make([]string, len(profile.SurgeWeeks))
			for i, w := range profile.SurgeWeeks {
				weeks[i] = fmt.Sprintf("%d", w)
			}
			surges = strings.Join(weeks, ", ")
		}
		fmt.Fprintf(b, "| %d | %s | %s | %s | %s | %.2f | %d | %s |\n",
			r.Year(), p.Sprintf("%.1f", profile.Mean), p.Sprintf("%.1f", profile.StdDev),
			p.Sprintf("%.1f", profile.Q25), p.Sprintf("%.1f", profile.Q75),
			profile.Skewness, profile.Outliers, surges)
	}
}

// HTML renders markdown source as a complete HTML page
func HTML(md, title string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Flags: html.CommonFlags | html.CompletePage,
		Title: title,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

// Render writes summary.md and summary.html to the output directory
func (s *Summary) Render(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	md, err := s.Markdown(ds)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(s.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	mdPath := filepath.Join(s.outputDir, "summary.md")
	if err := os.WriteFile(mdPath, []byte(md), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", mdPath, err)
	}
	htmlPath := filepath.Join(s.outputDir, "summary.html")
	page := HTML(md, "Weekly deaths in Poland, "+yearSpan(ds.Years()))
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", htmlPath, err)
	}

	s.logger.Debug("wrote %s and %s", mdPath, htmlPath)
	return []string{mdPath, htmlPath}, nil
}

func yearSpan(years []int) string {
	switch len(years) {
	case 0:
		return "no data"
	case 1:
		return fmt.Sprintf("%d", years[0])
	}
	return fmt.Sprintf("%d-%d", years[0], years[len(years)-1])
}
