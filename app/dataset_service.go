package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"zgony/domain/core"
	"zgony/domain/mortality"
	"zgony/internal"
	"zgony/ports"
)

// DatasetService turns a list of years into a MultiYear dataset and hands it to renderers
type DatasetService struct {
	resolver    ports.FileResolver
	loader      ports.TableLoader
	options     mortality.ReportOptions
	sheetName   string
	parallelism int
	logger      *internal.Logger
}

// DatasetServiceConfig holds the knobs the service does not take from its ports
type DatasetServiceConfig struct {
	Options     mortality.ReportOptions
	SheetName   string
	Parallelism int
}

// RenderResult records what one renderer wrote
type RenderResult struct {
	Renderer  string
	Artifacts []string
	Duration  time.Duration
}

// NewDatasetService creates a dataset service
func NewDatasetService(resolver ports.FileResolver, loader ports.TableLoader, cfg DatasetServiceConfig, logger *internal.Logger) *DatasetService {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if cfg.Parallelism < 1 {
		cfg.Parallelism = 1
	}
	return &DatasetService{
		resolver:    resolver,
		loader:      loader,
		options:     cfg.Options,
		sheetName:   cfg.SheetName,
		parallelism: cfg.Parallelism,
		logger:      logger.With("DatasetService"),
	}
}

// BuildYear resolves, loads and parses the workbook for a single year
func (s *DatasetService) BuildYear(ctx context.Context, year int) (*mortality.AnnualReport, error) {
	start := time.Now()

	path, err := s.resolver.Resolve(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}

	table, err := s.loader.Load(ctx, path, s.sheetName)
	if err != nil {
		return nil, fmt.Errorf("year %d: %w", year, err)
	}

	report, err := mortality.BuildAnnualReport(year, path, table, s.options)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("year %d built from %s (%d weeks) in %v", year, path, report.Weeks(), time.Since(start))
	return report, nil
}

// Build loads every requested year. Either every year succeeds and a dataset
// is returned, or the first failure is returned and no dataset exists.
func (s *DatasetService) Build(ctx context.Context, years []int) (*mortality.Dataset, error) {
	if len(years) == 0 {
		return nil, fmt.Errorf("%w: no years requested", core.ErrInvalidYear)
	}
	seen := make(map[int]bool, len(years))
	for _, y := range years {
		if seen[y] {
			return nil, fmt.Errorf("%w: %d", core.ErrDuplicateYear, y)
		}
		seen[y] = true
	}

	start := time.Now()
	s.logger.Info("building dataset for %d years (parallelism %d)", len(years), s.parallelism)

	var (
		reports []*mortality.AnnualReport
		err     error
	)
	if s.parallelism == 1 || len(years) == 1 {
		reports, err = s.buildSequential(ctx, years)
	} else {
		reports, err = s.buildParallel(ctx, years)
	}
	if err != nil {
		s.logger.Error("dataset build failed: %v", err)
		return nil, err
	}

	ds, err := mortality.NewDataset(reports)
	if err != nil {
		return nil, err
	}

	s.logger.Info("dataset ready: years %v in %v", ds.Years(), time.Since(start))
	return ds, nil
}

func (s *DatasetService) buildSequential(ctx context.Context, years []int) ([]*mortality.AnnualReport, error) {
	reports := make([]*mortality.AnnualReport, 0, len(years))
	for _, year := range years {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		report, err := s.BuildYear(ctx, year)
		if err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (s *DatasetService) buildParallel(ctx context.Context, years []int) ([]*mortality.AnnualReport, error) {
	// each goroutine owns one slot, so no mutex is needed
	reports := make([]*mortality.AnnualReport, len(years))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(s.parallelism, len(years)))

	for i, year := range years {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			report, err := s.BuildYear(gctx, year)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}

// Render runs every renderer over the dataset in order and stops at the first failure
func (s *DatasetService) Render(ctx context.Context, ds *mortality.Dataset, renderers ...ports.DatasetRenderer) ([]RenderResult, error) {
	results := make([]RenderResult, 0, len(renderers))
	for _, r := range renderers {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		start := time.Now()
		artifacts, err := r.Render(ctx, ds)
		if err != nil {
			return results, fmt.Errorf("renderer %s: %w", r.Name(), err)
		}
		results = append(results, RenderResult{
			Renderer:  r.Name(),
			Artifacts: artifacts,
			Duration:  time.Since(start),
		})
		s.logger.Info("%s wrote %d artifacts in %v", r.Name(), len(artifacts), time.Since(start))
	}
	return results, nil
}
