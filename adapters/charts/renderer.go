package charts

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
	"gonum.org/v1/plot/vg"

	"zgony/domain/mortality"
	"zgony/internal"
)

// Format is the image format of static charts
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// Config configures chart output
type Config struct {
	OutputDir string
	Format    Format
	Policy    mortality.AveragePolicy
	Width     vg.Length
	Height    vg.Length
	// FrameDelay is the time each year stays on screen in the animation, in 1/100 s
	FrameDelay int
	// StrictStats fails a trend chart when an average is undefined instead of skipping the year
	StrictStats bool
}

// DefaultConfig returns PNG output sized for a laptop screen
func DefaultConfig(outputDir string) Config {
	return Config{
		OutputDir:  outputDir,
		Format:     FormatPNG,
		Policy:     mortality.AverageNonZero,
		Width:      10 * vg.Inch,
		Height:     6 * vg.Inch,
		FrameDelay: 120,
	}
}

// Renderer draws every chart of a dataset
type Renderer struct {
	config Config
	logger *internal.Logger
}

// NewRenderer creates a chart renderer
func NewRenderer(config Config, logger *internal.Logger) *Renderer {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	if config.Format == "" {
		config.Format = FormatPNG
	}
	if config.Policy == "" {
		config.Policy = mortality.AverageNonZero
	}
	if config.FrameDelay <= 0 {
		config.FrameDelay = 120
	}
	return &Renderer{
		config: config,
		logger: logger.With("Charts"),
	}
}

func (r *Renderer) Name() string {
	return "charts"
}

// Render draws trends, totals, heatmaps and the heatmap animation
func (r *Renderer) Render(ctx context.Context, ds *mortality.Dataset) ([]string, error) {
	if err := os.MkdirAll(r.config.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	var written []string
	steps := []struct {
		name string
		fn   func(context.Context, *mortality.Dataset) ([]string, error)
	}{
		{"age group trends", r.AgeGroupTrends},
		{"annual totals", r.AnnualTotals},
		{"heatmaps", r.Heatmaps},
		{"animation", r.AnimateHeatmaps},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		paths, err := step.fn(ctx, ds)
		if err != nil {
			return written, fmt.Errorf("%s: %w", step.name, err)
		}
		r.logger.Debug("%s: %d files", step.name, len(paths))
		written = append(written, paths...)
	}
	return written, nil
}

func (r *Renderer) fileName(base string) string {
	return base + "." + string(r.config.Format)
}

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// slug turns an age group label into a file name fragment, e.g. "90 i więcej" -> "90-i-wiecej"
func slug(label string) string {
	plain, _, err := transform.String(stripMarks, label)
	if err != nil {
		plain = label
	}
	plain = strings.NewReplacer("ł", "l", "Ł", "L").Replace(plain)

	var b strings.Builder
	dash := false
	for _, c := range strings.ToLower(plain) {
		if (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9') {
			b.WriteRune(c)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
