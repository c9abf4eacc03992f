package report

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zgony/domain/core"
	"zgony/domain/mortality"
	"zgony/domain/sheet"
	"zgony/internal"
)

func row(group string, counts ...float64) sheet.Row {
	r := sheet.Row{sheet.Text(group), sheet.Text("PL"), sheet.Text("Polska")}
	for _, c := range counts {
		r = append(r, sheet.Number(c))
	}
	return r
}

func testDataset(t *testing.T) *mortality.Dataset {
	t.Helper()
	labels, err := mortality.NewLabelSet([]string{"0 - 4", "5 - 9"})
	require.NoError(t, err)
	opts := mortality.DefaultReportOptions()
	opts.AgeGroups = labels

	tables := map[int]sheet.Table{
		2019: {Rows: []sheet.Row{
			row("Ogółem", 1000, 1500, 2000),
			row("0 - 4", 0, 10, 20),
			row("5 - 9", 0, 0, 0),
		}},
		2020: {Rows: []sheet.Row{
			row("Ogółem", 1200, 1300, 0),
			row("0 - 4", 4, 4, 5),
			row("5 - 9", 1, 0, 2),
		}},
	}

	var reports []*mortality.AnnualReport
	for _, year := range []int{2019, 2020} {
		r, err := mortality.BuildAnnualReport(year, fmt.Sprintf("/data/Zgony_%d.xlsx", year), tables[year], opts)
		require.NoError(t, err)
		reports = append(reports, r)
	}
	ds, err := mortality.NewDataset(reports)
	require.NoError(t, err)
	return ds
}

func quiet() *internal.Logger {
	return internal.NewLogger(internal.LogLevelError)
}

func TestTable_Rows(t *testing.T) {
	tbl := NewTable(TableConfig{Locale: "en"}, quiet())

	headers, rows, err := tbl.Rows(testDataset(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"Age group", "2019", "2020"}, headers)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"0 - 4", "15", "4"}, rows[0])
	assert.Equal(t, []string{"5 - 9", Missing, "2"}, rows[1])
	assert.Equal(t, []string{"Total deaths", "4,500", "2,500"}, rows[2])
}

func TestTable_StrictStatsFailsOnUndefinedAverage(t *testing.T) {
	tbl := NewTable(TableConfig{Locale: "en", StrictStats: true}, quiet())

	_, _, err := tbl.Rows(testDataset(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrNoNonZeroElements)

	summary := NewSummary(t.TempDir(), tbl, quiet())
	_, err = summary.Markdown(testDataset(t))
	assert.ErrorIs(t, err, core.ErrNoNonZeroElements)
}

func TestTable_SimplePolicy(t *testing.T) {
	tbl := NewTable(TableConfig{Locale: "en", Policy: mortality.AverageSimple}, quiet())

	_, rows, err := tbl.Rows(testDataset(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"0 - 4", "10", "4"}, rows[0])
	assert.Equal(t, []string{"5 - 9", "0", "1"}, rows[1])
}

func TestTable_RenderWritesFile(t *testing.T) {
	dir := t.TempDir()
	tbl := NewTable(TableConfig{Locale: "en", OutputDir: dir}, quiet())

	paths, err := tbl.Render(context.Background(), testDataset(t))
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "averages.txt")}, paths)

	content, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	out := string(content)
	assert.Contains(t, out, "Age group")
	assert.Contains(t, out, "4,500")
	assert.Contains(t, out, "0 - 4")
}

func TestTable_UnknownLocaleFallsBack(t *testing.T) {
	tbl := NewTable(TableConfig{Locale: "??"}, quiet())
	out, err := tbl.String(testDataset(t))
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "Total deaths"))
}

func TestSummary_Markdown(t *testing.T) {
	summary := NewSummary(t.TempDir(), NewTable(TableConfig{Locale: "en"}, quiet()), quiet())
	summary.UseRunID("run-1")
	summary.now = func() time.Time { return time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC) }

	md, err := summary.Markdown(testDataset(t))
	require.NoError(t, err)

	assert.Contains(t, md, "# Weekly deaths in Poland, 2019-2020")
	assert.Contains(t, md, "Run `run-1`, generated 2024-01-02T03:04:05Z")
	assert.Contains(t, md, "## Weekly profile, all ages")
	assert.Contains(t, md, "| 2019 | 3 | 4,500 | 3 | 2,000 |")
	assert.Contains(t, md, "| 2020 | 3 | 2,500 | 2 | 1,300 |")
	assert.Contains(t, md, "| 5 - 9 | n/a | 2 |")
}

func TestSummary_RenderWritesMarkdownAndHTML(t *testing.T) {
	dir := t.TempDir()
	summary := NewSummary(dir, NewTable(TableConfig{Locale: "en"}, quiet()), quiet())

	paths, err := summary.Render(context.Background(), testDataset(t))
	require.NoError(t, err)
	require.Len(t, paths, 2)

	page, err := os.ReadFile(filepath.Join(dir, "summary.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<table")
	assert.Contains(t, string(page), "<title>Weekly deaths in Poland")
}

func TestSummary_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := NewSummary(t.TempDir(), NewTable(TableConfig{}, quiet()), quiet())
	_, err := summary.Render(ctx, testDataset(t))
	assert.ErrorIs(t, err, context.Canceled)
}
