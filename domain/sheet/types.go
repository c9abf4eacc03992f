package sheet

// CellKind represents the type tag of a worksheet cell
type CellKind int

const (
	KindEmpty CellKind = iota
	KindText
	KindNumber
	KindOther // booleans, dates, spreadsheet errors
)

func (k CellKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindOther:
		return "other"
	default:
		return "empty"
	}
}

// Cell is a single typed value as produced by a workbook loader
type Cell struct {
	Kind   CellKind
	Text   string  // set for KindText, raw value for KindOther
	Number float64 // set for KindNumber
}

// Text creates a text cell
func Text(s string) Cell {
	return Cell{Kind: KindText, Text: s}
}

// Number creates a numeric cell
func Number(v float64) Cell {
	return Cell{Kind: KindNumber, Number: v}
}

// Empty creates a blank cell
func Empty() Cell {
	return Cell{Kind: KindEmpty}
}

// Other creates a cell of a kind the core does not interpret
func Other(raw string) Cell {
	return Cell{Kind: KindOther, Text: raw}
}

// AsText returns the text of a text cell
func (c Cell) AsText() (string, bool) {
	if c.Kind != KindText {
		return "", false
	}
	return c.Text, true
}

// AsNumber returns the value of a numeric cell
func (c Cell) AsNumber() (float64, bool) {
	if c.Kind != KindNumber {
		return 0, false
	}
	return c.Number, true
}

// Row is an ordered sequence of cells
type Row []Cell

// Table is an ordered sequence of rows loaded from one worksheet.
// Tables are treated as immutable once loaded.
type Table struct {
	Name string // worksheet name
	Rows []Row
}

// Len returns the number of rows
func (t Table) Len() int {
	return len(t.Rows)
}
