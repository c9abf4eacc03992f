package charts

import (
	"context"
	"fmt"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"zgony/domain/core"
	"zgony/domain/mortality"
)

// AgeGroupTrends draws one chart per age group with its weekly average for every year
func (r *Renderer) AgeGroupTrends(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	years := ds.Years()
	var paths []string

	for _, label := range ds.AgeGroups() {
		if err := ctx.Err(); err != nil {
			return paths, err
		}

		pts := make(plotter.XYs, 0, len(years))
		for _, rep := range ds.Reports() {
			s, ok := rep.AgeGroup(label)
			if !ok {
				return paths, fmt.Errorf("year %d: %w: age group %q", rep.Year(), core.ErrRowNotFound, label)
			}
			avg, err := s.Average(r.config.Policy)
			if err != nil {
				if core.IsStatisticError(err) && !r.config.StrictStats {
					r.logger.Warn("skipping year %d for %q: %v", rep.Year(), label, err)
					continue
				}
				return paths, err
			}
			pts = append(pts, plotter.XY{X: float64(rep.Year()), Y: avg})
		}
		if len(pts) == 0 {
			r.logger.Warn("no data points for %q, chart skipped", label)
			continue
		}

		p := plot.New()
		p.Title.Text = fmt.Sprintf("Average weekly deaths, age %s", label)
		p.Title.TextStyle.Font.Size = vg.Points(14)
		p.X.Label.Text = "Year"
		p.Y.Label.Text = "Deaths per week"
		p.X.Tick.Marker = yearTicks(years)
		p.Add(plotter.NewGrid())

		line, points, err := plotter.NewLinePoints(pts)
		if err != nil {
			return paths, fmt.Errorf("age group %q: %w", label, err)
		}
		line.Width = vg.Points(2)
		line.Color = plotutil.Color(0)
		points.Color = plotutil.Color(0)
		p.Add(line, points)

		path := filepath.Join(r.config.OutputDir, r.fileName("trend_"+slug(label)))
		if err := p.Save(r.config.Width, r.config.Height, path); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// AnnualTotals overlays the weekly overall deaths of every year on one chart
func (r *Renderer) AnnualTotals(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Weekly deaths, all ages"
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Week"
	p.Y.Label.Text = "Deaths"
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, rep := range ds.Reports() {
		weekly := rep.Overall().Floats()
		pts := make(plotter.XYs, len(weekly))
		for w, v := range weekly {
			pts[w] = plotter.XY{X: float64(w + 1), Y: v}
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, fmt.Errorf("year %d: %w", rep.Year(), err)
		}
		line.Width = vg.Points(1.5)
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("%d", rep.Year()), line)
	}

	path := filepath.Join(r.config.OutputDir, r.fileName("annual_totals"))
	if err := p.Save(r.config.Width, r.config.Height, path); err != nil {
		return nil, fmt.Errorf("failed to save %s: %w", path, err)
	}
	return []string{path}, nil
}

func yearTicks(years []int) plot.ConstantTicks {
	ticks := make(plot.ConstantTicks, len(years))
	for i, y := range years {
		ticks[i] = plot.Tick{Value: float64(y), Label: fmt.Sprintf("%d", y)}
	}
	return ticks
}
