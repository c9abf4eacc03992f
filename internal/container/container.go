package container

import (
	"fmt"

	"zgony/adapters/charts"
	"zgony/adapters/excel"
	"zgony/adapters/files"
	"zgony/adapters/report"
	"zgony/app"
	"zgony/domain/core"
	"zgony/internal"
	"zgony/internal/config"
	"zgony/internal/errors"
	"zgony/ports"
)

// Container holds all application dependencies for one command run
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Data access
	Resolver *files.Resolver
	Reader   *excel.DataReader

	// Services
	DatasetService *app.DatasetService

	// Renderers
	Table   *report.Table
	Summary *report.Summary
	Charts  *charts.Renderer
}

// New creates a new dependency injection container from a validated config
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	level, err := internal.ParseLogLevel(cfg.Log.Level)
	if err != nil {
		return nil, errors.ConfigInvalid(err.Error())
	}

	c := &Container{
		Config: cfg,
		Logger: internal.NewLogger(level),
	}

	if err := c.initData(); err != nil {
		return nil, fmt.Errorf("failed to initialize data access: %w", err)
	}
	if err := c.initRenderers(); err != nil {
		return nil, fmt.Errorf("failed to initialize renderers: %w", err)
	}

	c.Logger.Debug("container initialized: data dir %s, sheet %s, %d years",
		cfg.Data.Dir, cfg.Data.Sheet, len(cfg.Data.Years))
	return c, nil
}

// initData initializes file discovery, workbook reading and the dataset service
func (c *Container) initData() error {
	cfg := c.Config

	resolver, err := files.NewResolver(cfg.Data.Dir, cfg.Data.Templates, c.Logger)
	if err != nil {
		return err
	}
	c.Resolver = resolver

	excelConfig := excel.DefaultExcelConfig()
	excelConfig.SheetName = cfg.Data.Sheet
	c.Reader = excel.NewDataReader(excelConfig, c.Logger)

	opts, err := cfg.ReportOptions()
	if err != nil {
		return err
	}
	c.DatasetService = app.NewDatasetService(c.Resolver, c.Reader, app.DatasetServiceConfig{
		Options:     opts,
		SheetName:   cfg.Data.Sheet,
		Parallelism: cfg.Data.Parallelism,
	}, c.Logger)
	return nil
}

// initRenderers initializes the table, summary and chart renderers
func (c *Container) initRenderers() error {
	cfg := c.Config

	policy, err := cfg.Policy()
	if err != nil {
		return err
	}

	c.Table = report.NewTable(report.TableConfig{
		Policy:      policy,
		Locale:      cfg.Output.Locale,
		OutputDir:   cfg.Output.Dir,
		Styled:      cfg.Output.Styled,
		StrictStats: cfg.Report.StrictStats,
	}, c.Logger)
	c.Summary = report.NewSummary(cfg.Output.Dir, c.Table, c.Logger)
	if cfg.Output.RunID != "" {
		id, err := core.ParseRunID(cfg.Output.RunID)
		if err != nil {
			return errors.ConfigInvalid(err.Error())
		}
		c.Summary.UseRunID(id)
	}

	chartConfig := charts.DefaultConfig(cfg.Output.Dir)
	chartConfig.Format = charts.Format(cfg.Output.ChartFormat)
	chartConfig.Policy = policy
	chartConfig.StrictStats = cfg.Report.StrictStats
	c.Charts = charts.NewRenderer(chartConfig, c.Logger)
	return nil
}

// Renderers returns every renderer the report command runs, in output order
func (c *Container) Renderers() []ports.DatasetRenderer {
	return []ports.DatasetRenderer{c.Table, c.Summary, c.Charts}
}
