package sheet

import (
	"fmt"

	"fortio.org/safecast"

	"zgony/domain/core"
)

// PayloadOffset is the index of the first weekly value in a row. The
// preceding cells hold the group label, the region code and the region name.
const PayloadOffset = 3

// RowKey identifies a single row by its first two cells
type RowKey struct {
	Group  string
	Region string
}

func (k RowKey) matches(r Row) bool {
	if len(r) < 2 {
		return false
	}
	group, ok := r[0].AsText()
	if !ok || group != k.Group {
		return false
	}
	region, ok := r[1].AsText()
	return ok && region == k.Region
}

// Locate returns the coerced payload of the first row matching key.
// Later rows with the same key are ignored.
func Locate(t Table, key RowKey) ([]uint64, error) {
	for _, r := range t.Rows {
		if key.matches(r) {
			return payload(r, key)
		}
	}
	return nil, core.NewRowNotFoundError(key.Group, key.Region)
}

// LocateStrict is Locate but fails when more than one row matches key.
func LocateStrict(t Table, key RowKey) ([]uint64, error) {
	if n := Count(t, key); n > 1 {
		return nil, core.NewDuplicateRowError(key.Group, key.Region, n)
	}
	return Locate(t, key)
}

// Count returns how many rows match key
func Count(t Table, key RowKey) int {
	n := 0
	for _, r := range t.Rows {
		if key.matches(r) {
			n++
		}
	}
	return n
}

// Keys lists the keys of all rows whose first two cells are text, in row order.
func Keys(t Table) []RowKey {
	var keys []RowKey
	for _, r := range t.Rows {
		if len(r) < 2 {
			continue
		}
		group, ok := r[0].AsText()
		if !ok {
			continue
		}
		region, ok := r[1].AsText()
		if !ok {
			continue
		}
		keys = append(keys, RowKey{Group: group, Region: region})
	}
	return keys
}

func payload(r Row, key RowKey) ([]uint64, error) {
	if len(r) <= PayloadOffset {
		return nil, fmt.Errorf("%w: row %q/%q has no weekly values", core.ErrEmptySeries, key.Group, key.Region)
	}
	out := make([]uint64, 0, len(r)-PayloadOffset)
	for _, c := range r[PayloadOffset:] {
		out = append(out, Coerce(c))
	}
	return out, nil
}

// Coerce coerces a cell to a non-negative count. Numbers are truncated
// toward zero; negative, NaN or unrepresentable numbers and every
// non-numeric cell yield 0.
func Coerce(c Cell) uint64 {
	v, ok := c.AsNumber()
	if !ok {
		return 0
	}
	n, err := safecast.Truncate[uint64](v)
	if err != nil {
		return 0
	}
	return n
}
