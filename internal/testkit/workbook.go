package testkit

import (
	"fmt"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"zgony/domain/sheet"
)

// WriteWorkbook saves table as the only worksheet of a new xlsx file.
// Empty cells are left blank and other cells are written as booleans.
func WriteWorkbook(path, sheetName string, table sheet.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name worksheet: %w", err)
	}

	for r, row := range table.Rows {
		for c, cell := range row {
			ref, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			switch cell.Kind {
			case sheet.KindText:
				err = f.SetCellStr(sheetName, ref, cell.Text)
			case sheet.KindNumber:
				err = f.SetCellFloat(sheetName, ref, cell.Number, -1, 64)
			case sheet.KindOther:
				err = f.SetCellBool(sheetName, ref, true)
			}
			if err != nil {
				return fmt.Errorf("failed to write %s: %w", ref, err)
			}
		}
	}

	if err := f.SaveAs(filepath.Clean(path)); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}
