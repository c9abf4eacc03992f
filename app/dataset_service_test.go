package app

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"zgony/domain/core"
	"zgony/domain/mortality"
	"zgony/domain/sheet"
	"zgony/internal"
	"zgony/internal/testkit"
)

type MockFileResolver struct {
	mock.Mock
}

func (m *MockFileResolver) Resolve(ctx context.Context, year int) (string, error) {
	args := m.Called(ctx, year)
	return args.String(0), args.Error(1)
}

type MockTableLoader struct {
	mock.Mock
}

func (m *MockTableLoader) Load(ctx context.Context, path, sheetName string) (sheet.Table, error) {
	args := m.Called(ctx, path, sheetName)
	return args.Get(0).(sheet.Table), args.Error(1)
}

type MockRenderer struct {
	mock.Mock
}

func (m *MockRenderer) Name() string {
	return m.Called().String(0)
}

func (m *MockRenderer) Render(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	args := m.Called(ctx, ds)
	return args.Get(0).([]string), args.Error(1)
}

func generatedTable(year int) sheet.Table {
	labels := mortality.DefaultAgeGroups().Labels()
	table, _ := testkit.NewMortalityGenerator(testkit.DefaultMortalityConfig(year, labels)).Table()
	return table
}

func pathFor(year int) string {
	return fmt.Sprintf("data/Zgony według tygodni w Polsce_%d.xlsx", year)
}

func newService(resolver *MockFileResolver, loader *MockTableLoader, parallelism int) *DatasetService {
	return NewDatasetService(resolver, loader, DatasetServiceConfig{
		Options:     mortality.DefaultReportOptions(),
		SheetName:   "OGÓŁEM",
		Parallelism: parallelism,
	}, internal.NewLogger(internal.LogLevelError))
}

func expectYear(resolver *MockFileResolver, loader *MockTableLoader, year int) {
	resolver.On("Resolve", mock.Anything, year).Return(pathFor(year), nil)
	loader.On("Load", mock.Anything, pathFor(year), "OGÓŁEM").Return(generatedTable(year), nil)
}

func TestDatasetService_Build(t *testing.T) {
	for _, parallelism := range []int{1, 3} {
		t.Run(fmt.Sprintf("parallelism %d", parallelism), func(t *testing.T) {
			resolver := new(MockFileResolver)
			loader := new(MockTableLoader)
			years := []int{2021, 2019, 2020}
			for _, y := range years {
				expectYear(resolver, loader, y)
			}

			ds, err := newService(resolver, loader, parallelism).Build(context.Background(), years)
			require.NoError(t, err)

			assert.Equal(t, years, ds.Years())
			r, ok := ds.ByYear(2020)
			require.True(t, ok)
			assert.Equal(t, 53, r.Weeks())
			assert.Equal(t, pathFor(2020), r.Source())

			resolver.AssertExpectations(t)
			loader.AssertExpectations(t)
		})
	}
}

func TestDatasetService_Build_MissingYearFailsWhole(t *testing.T) {
	for _, parallelism := range []int{1, 2} {
		t.Run(fmt.Sprintf("parallelism %d", parallelism), func(t *testing.T) {
			resolver := new(MockFileResolver)
			loader := new(MockTableLoader)
			expectYear(resolver, loader, 2019)
			resolver.On("Resolve", mock.Anything, 2020).
				Return("", core.NewFileNotFoundError(2020, []string{pathFor(2020)}))
			loader.On("Load", mock.Anything, mock.Anything, mock.Anything).Return(sheet.Table{}, nil).Maybe()

			ds, err := newService(resolver, loader, parallelism).Build(context.Background(), []int{2019, 2020})
			assert.Nil(t, ds)
			assert.ErrorIs(t, err, core.ErrFileNotFound)
			assert.Contains(t, err.Error(), "2020")
		})
	}
}

func TestDatasetService_Build_MissingAgeGroup(t *testing.T) {
	resolver := new(MockFileResolver)
	loader := new(MockTableLoader)
	resolver.On("Resolve", mock.Anything, 2019).Return(pathFor(2019), nil)

	table := generatedTable(2019)
	kept := table.Rows[:0:0]
	for _, row := range table.Rows {
		if len(row) > 0 && row[0] == sheet.Text("90 i więcej") {
			continue
		}
		kept = append(kept, row)
	}
	loader.On("Load", mock.Anything, pathFor(2019), "OGÓŁEM").Return(sheet.Table{Name: table.Name, Rows: kept}, nil)

	ds, err := newService(resolver, loader, 1).Build(context.Background(), []int{2019})
	assert.Nil(t, ds)
	assert.ErrorIs(t, err, core.ErrRowNotFound)
	assert.Contains(t, err.Error(), "90 i więcej")
}

func TestDatasetService_Build_RejectsBadYearLists(t *testing.T) {
	svc := newService(new(MockFileResolver), new(MockTableLoader), 1)

	_, err := svc.Build(context.Background(), []int{2019, 2019})
	assert.ErrorIs(t, err, core.ErrDuplicateYear)

	_, err = svc.Build(context.Background(), nil)
	assert.ErrorIs(t, err, core.ErrInvalidYear)
}

func TestDatasetService_Build_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newService(new(MockFileResolver), new(MockTableLoader), 1).Build(ctx, []int{2019})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDatasetService_Render(t *testing.T) {
	resolver := new(MockFileResolver)
	loader := new(MockTableLoader)
	expectYear(resolver, loader, 2019)
	svc := newService(resolver, loader, 1)

	ds, err := svc.Build(context.Background(), []int{2019})
	require.NoError(t, err)

	first := new(MockRenderer)
	first.On("Name").Return("table")
	first.On("Render", mock.Anything, ds).Return([]string{"out/table.txt"}, nil)

	failing := new(MockRenderer)
	failing.On("Name").Return("charts")
	failing.On("Render", mock.Anything, ds).Return([]string(nil), fmt.Errorf("disk full"))

	never := new(MockRenderer)

	results, err := svc.Render(context.Background(), ds, first, failing, never)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charts")
	require.Len(t, results, 1)
	assert.Equal(t, []string{"out/table.txt"}, results[0].Artifacts)
	never.AssertNotCalled(t, "Render", mock.Anything, mock.Anything)
}
