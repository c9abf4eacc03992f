package mortality

import (
	"fmt"

	"zgony/domain/core"
	"zgony/domain/sheet"
)

// ReportOptions configures which rows make up an annual report
type ReportOptions struct {
	AgeGroups    LabelSet
	Region       string // whole-country region code
	OverallLabel string
	Strict       bool // reject tables where a key matches more than one row
}

// DefaultReportOptions returns the GUS layout: 19 age groups, region "PL", "Ogółem" total
func DefaultReportOptions() ReportOptions {
	return ReportOptions{
		AgeGroups:    DefaultAgeGroups(),
		Region:       DefaultRegion,
		OverallLabel: DefaultOverallLabel,
	}
}

// Validate checks that the options name at least one age group and that the
// overall row is not also tracked as an age group.
func (o ReportOptions) Validate() error {
	if o.AgeGroups.Len() == 0 {
		return fmt.Errorf("%w: no age groups configured", core.ErrInvalidLabelSet)
	}
	if o.AgeGroups.Contains(o.OverallLabel) {
		return fmt.Errorf("%w: overall label %q listed as an age group", core.ErrInvalidLabelSet, o.OverallLabel)
	}
	return nil
}

// AnnualReport holds one year's weekly series for every tracked age group
// plus the all-ages series. It is immutable once built.
type AnnualReport struct {
	year       int
	source     string
	labels     LabelSet
	overall    Series
	byAgeGroup map[string]Series
}

// BuildAnnualReport extracts every configured row from table. It fails
// without returning a report if any row is missing or the series lengths
// disagree.
func BuildAnnualReport(year int, source string, table sheet.Table, opts ReportOptions) (*AnnualReport, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	locate := sheet.Locate
	if opts.Strict {
		locate = sheet.LocateStrict
	}

	overallWeeks, err := locate(table, sheet.RowKey{Group: opts.OverallLabel, Region: opts.Region})
	if err != nil {
		return nil, fmt.Errorf("year %d, overall row: %w", year, err)
	}
	weeks := len(overallWeeks)

	byAgeGroup := make(map[string]Series, opts.AgeGroups.Len())
	for _, label := range opts.AgeGroups.labels {
		values, err := locate(table, sheet.RowKey{Group: label, Region: opts.Region})
		if err != nil {
			return nil, fmt.Errorf("year %d, age group %q: %w", year, label, err)
		}
		if len(values) != weeks {
			return nil, fmt.Errorf("year %d: %w", year, core.NewLengthMismatchError(label, len(values), weeks))
		}
		byAgeGroup[label] = NewSeries(values)
	}

	return &AnnualReport{
		year:       year,
		source:     source,
		labels:     opts.AgeGroups,
		overall:    NewSeries(overallWeeks),
		byAgeGroup: byAgeGroup,
	}, nil
}

func (r *AnnualReport) Year() int {
	return r.year
}

// Source identifies where the report was read from, usually a file path
func (r *AnnualReport) Source() string {
	return r.source
}

// Weeks returns the number of weeks in the reported year
func (r *AnnualReport) Weeks() int {
	return r.overall.Len()
}

func (r *AnnualReport) Overall() Series {
	return r.overall
}

// AgeGroups returns the tracked labels in canonical order
func (r *AnnualReport) AgeGroups() []string {
	return r.labels.Labels()
}

// AgeGroup returns the series for label
func (r *AnnualReport) AgeGroup(label string) (Series, bool) {
	s, ok := r.byAgeGroup[label]
	return s, ok
}

// ByAgeGroup returns a copy of the label to series mapping
func (r *AnnualReport) ByAgeGroup() map[string]Series {
	out := make(map[string]Series, len(r.byAgeGroup))
	for k, v := range r.byAgeGroup {
		out[k] = v
	}
	return out
}

// Averages returns the average of every age group under policy, in canonical order.
func (r *AnnualReport) Averages(policy AveragePolicy) ([]float64, error) {
	out := make([]float64, 0, r.labels.Len())
	for _, label := range r.labels.labels {
		avg, err := r.byAgeGroup[label].Average(policy)
		if err != nil {
			return nil, fmt.Errorf("year %d, age group %q: %w", r.year, label, err)
		}
		out = append(out, avg)
	}
	return out, nil
}
