package excel

// Worksheets of the GUS weekly deaths workbooks
const (
	SheetTotal = "OGÓŁEM"
	SheetMen   = "MĘŻCZYŹNI"
	SheetWomen = "KOBIETY"
)

// ExcelConfig holds configuration for the workbook loader
type ExcelConfig struct {
	SheetName string `json:"sheet_name"` // used when Load is called without a sheet name
	Password  string `json:"-"`
}

// DefaultExcelConfig returns sensible defaults for GUS workbooks
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		SheetName: SheetTotal,
	}
}
