package charts

import (
	"context"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	vgdraw "gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"zgony/domain/core"
	"zgony/domain/mortality"
)

const heatmapColors = 255

// weekGrid lays one year out as age group rows by week columns
type weekGrid struct {
	rows  [][]float64
	weeks int
}

func (g weekGrid) Dims() (c, r int)   { return g.weeks, len(g.rows) }
func (g weekGrid) Z(c, r int) float64 { return g.rows[r][c] }
func (g weekGrid) X(c int) float64    { return float64(c + 1) }
func (g weekGrid) Y(r int) float64    { return float64(r) }

func gridFor(rep *mortality.AnnualReport, labels []string) (weekGrid, error) {
	g := weekGrid{weeks: rep.Weeks(), rows: make([][]float64, len(labels))}
	for i, label := range labels {
		s, ok := rep.AgeGroup(label)
		if !ok {
			return weekGrid{}, fmt.Errorf("year %d: %w: age group %q", rep.Year(), core.ErrRowNotFound, label)
		}
		g.rows[i] = s.Floats()
	}
	return g, nil
}

// heatmapScale returns the largest weekly count of any age group in any year,
// so every year is drawn on the same color scale.
func heatmapScale(grids []weekGrid) float64 {
	scale := 0.0
	for _, g := range grids {
		for _, row := range g.rows {
			if len(row) > 0 {
				scale = max(scale, floats.Max(row))
			}
		}
	}
	if scale == 0 {
		scale = 1
	}
	return scale
}

func (r *Renderer) grids(ds *mortality.Dataset) ([]weekGrid, error) {
	labels := ds.AgeGroups()
	grids := make([]weekGrid, 0, ds.Len())
	for _, rep := range ds.Reports() {
		g, err := gridFor(rep, labels)
		if err != nil {
			return nil, err
		}
		grids = append(grids, g)
	}
	return grids, nil
}

func (r *Renderer) heatmapPlot(year int, g weekGrid, labels []string, scale float64, maxWeeks int) *plot.Plot {
	hm := plotter.NewHeatMap(g, moreland.Kindlmann().Palette(heatmapColors))
	hm.Min, hm.Max = 0, scale

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Weekly deaths by age group, %d", year)
	p.Title.TextStyle.Font.Size = vg.Points(14)
	p.X.Label.Text = "Week"
	p.X.Min, p.X.Max = 0.5, float64(maxWeeks)+0.5
	p.Y.Min, p.Y.Max = -0.5, float64(len(labels))-0.5

	ticks := make(plot.ConstantTicks, len(labels))
	for i, label := range labels {
		ticks[i] = plot.Tick{Value: float64(i), Label: label}
	}
	p.Y.Tick.Marker = ticks
	p.Add(hm)
	return p
}

// Heatmaps draws an age group by week heatmap for every year
func (r *Renderer) Heatmaps(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	grids, err := r.grids(ds)
	if err != nil {
		return nil, err
	}
	labels := ds.AgeGroups()
	scale := heatmapScale(grids)
	weeks := widestYear(grids)

	paths := make([]string, 0, len(grids))
	for i, rep := range ds.Reports() {
		if err := ctx.Err(); err != nil {
			return paths, err
		}
		p := r.heatmapPlot(rep.Year(), grids[i], labels, scale, weeks)
		path := filepath.Join(r.config.OutputDir, r.fileName(fmt.Sprintf("heatmap_%d", rep.Year())))
		if err := p.Save(r.config.Width, r.config.Height, path); err != nil {
			return paths, fmt.Errorf("failed to save %s: %w", path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// AnimateHeatmaps writes a looping GIF that shows the heatmap of each year in turn
func (r *Renderer) AnimateHeatmaps(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	grids, err := r.grids(ds)
	if err != nil {
		return nil, err
	}
	labels := ds.AgeGroups()
	scale := heatmapScale(grids)
	weeks := widestYear(grids)

	anim := &gif.GIF{}
	for i, rep := range ds.Reports() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := r.heatmapPlot(rep.Year(), grids[i], labels, scale, weeks)

		canvas := vgimg.New(r.config.Width, r.config.Height)
		p.Draw(vgdraw.New(canvas))

		src := canvas.Image()
		frame := image.NewPaletted(src.Bounds(), palette.Plan9)
		draw.FloydSteinberg.Draw(frame, src.Bounds(), src, image.Point{})

		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, r.config.FrameDelay)
	}

	path := filepath.Join(r.config.OutputDir, "heatmap_animation.gif")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := gif.EncodeAll(f, anim); err != nil {
		f.Close()
		return nil, fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return []string{path}, nil
}

func widestYear(grids []weekGrid) int {
	n := 0
	for _, g := range grids {
		n = max(n, g.weeks)
	}
	return n
}
