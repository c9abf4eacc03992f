package testkit

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"zgony/domain/sheet"
)

// MortalityGeneratorConfig configures the synthetic weekly mortality generator
type MortalityGeneratorConfig struct {
	Year         int      `json:"year"`
	Weeks        int      `json:"weeks"` // 0 means the ISO week count of Year
	AgeGroups    []string `json:"age_groups"`
	Region       string   `json:"region"`
	RegionName   string   `json:"region_name"`
	OverallLabel string   `json:"overall_label"`
	Subregions   []string `json:"subregions"` // extra region codes emitted with noise rows
	BaseDeaths   float64  `json:"base_deaths"`
	Seed         int64    `json:"seed"`
}

// DefaultMortalityConfig returns a config shaped like a GUS workbook
func DefaultMortalityConfig(year int, ageGroups []string) MortalityGeneratorConfig {
	return MortalityGeneratorConfig{
		Year:         year,
		AgeGroups:    ageGroups,
		Region:       "PL",
		RegionName:   "Polska",
		OverallLabel: "Ogółem",
		Subregions:   []string{"PL21", "PL91"},
		BaseDeaths:   400,
		Seed:         42,
	}
}

// WeeksInYear returns the number of ISO weeks in year (52 or 53)
func WeeksInYear(year int) int {
	_, week := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return week
}

// MortalityGenerator produces tables laid out like the GUS weekly deaths sheets
type MortalityGenerator struct {
	config MortalityGeneratorConfig
	rng    *rand.Rand
}

// NewMortalityGenerator creates a new generator
func NewMortalityGenerator(config MortalityGeneratorConfig) *MortalityGenerator {
	if config.Weeks == 0 {
		config.Weeks = WeeksInYear(config.Year)
	}
	return &MortalityGenerator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Weeks returns the number of weekly columns generated
func (g *MortalityGenerator) Weeks() int {
	return g.config.Weeks
}

// Table generates the sheet. Age group rows follow the overall row, and
// each subregion repeats the age group rows with different counts.
func (g *MortalityGenerator) Table() (sheet.Table, [][]uint64) {
	c := g.config
	header := sheet.Row{sheet.Text("Grupa wiekowa"), sheet.Text("Region id"), sheet.Text("Region")}
	for w := 1; w <= c.Weeks; w++ {
		header = append(header, sheet.Text(fmt.Sprintf("T%02d", w)))
	}

	rows := []sheet.Row{
		{sheet.Text(fmt.Sprintf("Zgony według tygodni w Polsce w %d r.", c.Year))},
		header,
	}

	counts := make([][]uint64, len(c.AgeGroups))
	overall := make([]uint64, c.Weeks)
	for i := range c.AgeGroups {
		counts[i] = g.weekly(i, len(c.AgeGroups))
		for w, v := range counts[i] {
			overall[w] += v
		}
	}

	rows = append(rows, dataRow(c.OverallLabel, c.Region, c.RegionName, overall))
	for i, label := range c.AgeGroups {
		rows = append(rows, dataRow(label, c.Region, c.RegionName, counts[i]))
	}
	for _, sub := range c.Subregions {
		for i, label := range c.AgeGroups {
			rows = append(rows, dataRow(label, sub, "Województwo "+sub, g.weekly(i, len(c.AgeGroups))))
		}
	}

	return sheet.Table{Name: "OGÓŁEM", Rows: rows}, counts
}

// weekly draws a seasonal series whose level grows with the age group index
func (g *MortalityGenerator) weekly(group, groups int) []uint64 {
	c := g.config
	level := c.BaseDeaths * math.Exp(4*float64(group)/float64(max(groups, 1))) / 20
	out := make([]uint64, c.Weeks)
	for w := range out {
		season := 1 + 0.25*math.Cos(2*math.Pi*float64(w)/float64(c.Weeks))
		noise := 1 + 0.1*(g.rng.Float64()-0.5)
		out[w] = uint64(math.Round(level * season * noise))
	}
	return out
}

func dataRow(group, region, regionName string, values []uint64) sheet.Row {
	r := sheet.Row{sheet.Text(group), sheet.Text(region), sheet.Text(regionName)}
	for _, v := range values {
		r = append(r, sheet.Number(float64(v)))
	}
	return r
}
