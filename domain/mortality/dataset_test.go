package mortality

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"zgony/domain/core"
)

func buildReport(t *testing.T, year int) *AnnualReport {
	t.Helper()
	opts := DefaultReportOptions()
	table, _ := generatedTable(t, year, opts.AgeGroups.Labels())
	report, err := BuildAnnualReport(year, "memory", table, opts)
	require.NoError(t, err)
	return report
}

func TestNewDataset_KeepsRequestedOrder(t *testing.T) {
	ds, err := NewDataset([]*AnnualReport{buildReport(t, 2020), buildReport(t, 2015), buildReport(t, 2019)})
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []int{2020, 2015, 2019}, ds.Years())

	r, ok := ds.ByYear(2015)
	require.True(t, ok)
	assert.Equal(t, 2015, r.Year())
	assert.Equal(t, 53, r.Weeks())

	_, ok = ds.ByYear(2016)
	assert.False(t, ok)
}

func TestNewDataset_RejectsDuplicateYears(t *testing.T) {
	_, err := NewDataset([]*AnnualReport{buildReport(t, 2020), buildReport(t, 2020)})
	assert.ErrorIs(t, err, core.ErrDuplicateYear)
}

func TestDataset_AgeGroupAverages(t *testing.T) {
	a, b := buildReport(t, 2019), buildReport(t, 2020)
	ds, err := NewDataset([]*AnnualReport{a, b})
	require.NoError(t, err)

	got, err := ds.AgeGroupAverages("90 i więcej", AverageNonZero)
	require.NoError(t, err)
	require.Len(t, got, 2)

	s, _ := a.AgeGroup("90 i więcej")
	want, err := s.AverageOfNonZero()
	require.NoError(t, err)
	assert.Equal(t, want, got[0])

	_, err = ds.AgeGroupAverages("100+", AverageNonZero)
	assert.ErrorIs(t, err, core.ErrRowNotFound)
}

func TestDataset_OverallTotalsAndAgeGroups(t *testing.T) {
	a := buildReport(t, 2019)
	ds, err := NewDataset([]*AnnualReport{a})
	require.NoError(t, err)

	assert.Equal(t, []uint64{a.Overall().Total()}, ds.OverallTotals())
	assert.Equal(t, DefaultAgeGroups().Labels(), ds.AgeGroups())

	empty, err := NewDataset(nil)
	require.NoError(t, err)
	assert.Nil(t, empty.AgeGroups())
}

func TestDataset_Fingerprint(t *testing.T) {
	a, err := NewDataset([]*AnnualReport{buildReport(t, 2019), buildReport(t, 2020)})
	require.NoError(t, err)
	b, err := NewDataset([]*AnnualReport{buildReport(t, 2019), buildReport(t, 2020)})
	require.NoError(t, err)
	reordered, err := NewDataset([]*AnnualReport{buildReport(t, 2020), buildReport(t, 2019)})
	require.NoError(t, err)

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.NotEqual(t, a.Fingerprint(), reordered.Fingerprint())
	assert.Len(t, a.Fingerprint().String(), 64)
}
