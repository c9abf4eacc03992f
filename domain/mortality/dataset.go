package mortality

import (
	"encoding/binary"
	"fmt"

	"zgony/domain/core"
)

// Dataset is an ordered collection of annual reports, one per year.
// It is built once and only read afterwards.
type Dataset struct {
	reports []*AnnualReport
	index   map[int]int
}

// NewDataset orders reports as given and rejects repeated years.
func NewDataset(reports []*AnnualReport) (*Dataset, error) {
	d := &Dataset{
		reports: make([]*AnnualReport, 0, len(reports)),
		index:   make(map[int]int, len(reports)),
	}
	for _, r := range reports {
		if r == nil {
			return nil, fmt.Errorf("%w: missing report", core.ErrInvalidYear)
		}
		if _, dup := d.index[r.Year()]; dup {
			return nil, fmt.Errorf("%w: %d", core.ErrDuplicateYear, r.Year())
		}
		d.index[r.Year()] = len(d.reports)
		d.reports = append(d.reports, r)
	}
	return d, nil
}

func (d *Dataset) Len() int {
	return len(d.reports)
}

// Years returns the years in dataset order
func (d *Dataset) Years() []int {
	out := make([]int, len(d.reports))
	for i, r := range d.reports {
		out[i] = r.Year()
	}
	return out
}

// Reports returns the reports in dataset order
func (d *Dataset) Reports() []*AnnualReport {
	return append([]*AnnualReport(nil), d.reports...)
}

// ByYear returns the report for year
func (d *Dataset) ByYear(year int) (*AnnualReport, bool) {
	i, ok := d.index[year]
	if !ok {
		return nil, false
	}
	return d.reports[i], true
}

// AgeGroups returns the labels of the first report. Every report in a
// dataset is built from the same options.
func (d *Dataset) AgeGroups() []string {
	if len(d.reports) == 0 {
		return nil
	}
	return d.reports[0].AgeGroups()
}

// AgeGroupAverages returns the average of one age group for every year, in dataset order.
func (d *Dataset) AgeGroupAverages(label string, policy AveragePolicy) ([]float64, error) {
	out := make([]float64, 0, len(d.reports))
	for _, r := range d.reports {
		s, ok := r.AgeGroup(label)
		if !ok {
			return nil, fmt.Errorf("year %d: %w: age group %q", r.Year(), core.ErrRowNotFound, label)
		}
		avg, err := s.Average(policy)
		if err != nil {
			return nil, fmt.Errorf("year %d, age group %q: %w", r.Year(), label, err)
		}
		out = append(out, avg)
	}
	return out, nil
}

// OverallTotals returns the total deaths of every year, in dataset order.
func (d *Dataset) OverallTotals() []uint64 {
	out := make([]uint64, len(d.reports))
	for i, r := range d.reports {
		out[i] = r.Overall().Total()
	}
	return out
}

// Fingerprint hashes years, labels and every weekly count in dataset order.
// Two datasets with the same numbers share a fingerprint whatever files they came from.
func (d *Dataset) Fingerprint() core.Hash {
	var buf []byte
	appendSeries := func(label string, s Series) {
		buf = append(buf, label...)
		buf = append(buf, 0)
		for _, v := range s.weeks {
			buf = binary.BigEndian.AppendUint64(buf, v)
		}
	}
	for _, r := range d.reports {
		buf = binary.BigEndian.AppendUint64(buf, uint64(r.Year()))
		appendSeries("", r.Overall())
		for _, label := range r.AgeGroups() {
			s, _ := r.AgeGroup(label)
			appendSeries(label, s)
		}
	}
	return core.NewHash(buf)
}
