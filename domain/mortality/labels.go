package mortality

import (
	"fmt"
	"strings"

	"zgony/domain/core"
)

// Labels used by GUS weekly mortality workbooks
const (
	DefaultRegion       = "PL"
	DefaultOverallLabel = "Ogółem"
)

// defaultFileTemplates lists the file names GUS archives have used for the
// weekly deaths workbooks, including a copy whose "ł" was mangled by a
// bad encoding round trip. {year} stands for the four-digit year.
var defaultFileTemplates = []string{
	"Zgony według tygodni w Polsce_{year}.xlsx",
	"Zgony wedИug tygodni w Polsce_{year}.xlsx",
	"Zgony wedlug tygodni w Polsce_{year}.xlsx",
	"Zgony_wedlug_tygodni_w_Polsce_{year}.xlsx",
}

// DefaultFileTemplates returns the known workbook name templates, most common first
func DefaultFileTemplates() []string {
	return append([]string(nil), defaultFileTemplates...)
}

var defaultAgeGroups = []string{
	"0 - 4", "5 - 9", "10 - 14", "15 - 19", "20 - 24",
	"25 - 29", "30 - 34", "35 - 39", "40 - 44", "45 - 49",
	"50 - 54", "55 - 59", "60 - 64", "65 - 69", "70 - 74",
	"75 - 79", "80 - 84", "85 - 89", "90 i więcej",
}

// LabelSet is a validated, ordered set of age group labels
type LabelSet struct {
	labels []string
}

// NewLabelSet validates labels: at least one, none blank, no duplicates.
func NewLabelSet(labels []string) (LabelSet, error) {
	if len(labels) == 0 {
		return LabelSet{}, fmt.Errorf("%w: no labels", core.ErrInvalidLabelSet)
	}
	seen := make(map[string]bool, len(labels))
	for i, l := range labels {
		if strings.TrimSpace(l) == "" {
			return LabelSet{}, fmt.Errorf("%w: label %d is blank", core.ErrInvalidLabelSet, i)
		}
		if seen[l] {
			return LabelSet{}, fmt.Errorf("%w: duplicate label %q", core.ErrInvalidLabelSet, l)
		}
		seen[l] = true
	}
	return LabelSet{labels: append([]string(nil), labels...)}, nil
}

// DefaultAgeGroups returns the 19 five-year age groups published by GUS
func DefaultAgeGroups() LabelSet {
	return LabelSet{labels: append([]string(nil), defaultAgeGroups...)}
}

// Labels returns a copy of the labels in order
func (s LabelSet) Labels() []string {
	return append([]string(nil), s.labels...)
}

func (s LabelSet) Len() int {
	return len(s.labels)
}

func (s LabelSet) Contains(label string) bool {
	for _, l := range s.labels {
		if l == label {
			return true
		}
	}
	return false
}
