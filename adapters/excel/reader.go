package excel

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"zgony/domain/core"
	"zgony/domain/sheet"
	"zgony/internal"
)

// DataReader loads worksheets of xlsx workbooks into typed tables
type DataReader struct {
	config ExcelConfig
	logger *internal.Logger
}

// NewDataReader creates a new workbook reader
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &DataReader{config: config, logger: logger}
}

// Load reads sheetName from the workbook at path. An empty sheetName
// selects the configured default sheet.
func (r *DataReader) Load(ctx context.Context, path, sheetName string) (sheet.Table, error) {
	if err := ctx.Err(); err != nil {
		return sheet.Table{}, err
	}
	if sheetName == "" {
		sheetName = r.config.SheetName
	}

	startTime := time.Now()
	f, err := r.open(path)
	if err != nil {
		return sheet.Table{}, err
	}
	defer f.Close()
	r.logger.Debug("[DataReader] %s opened in %.2fms", path, float64(time.Since(startTime).Nanoseconds())/1e6)

	name, err := resolveSheet(f, path, sheetName)
	if err != nil {
		return sheet.Table{}, err
	}

	readStart := time.Now()
	table, err := readTable(f, name)
	if err != nil {
		return sheet.Table{}, fmt.Errorf("failed to read %q in %s: %w", name, path, err)
	}
	r.logger.Debug("[DataReader] %s read in %.2fms (%d rows)", name, float64(time.Since(readStart).Nanoseconds())/1e6, table.Len())

	return table, nil
}

// SheetNames lists the worksheets of the workbook at path
func (r *DataReader) SheetNames(path string) ([]string, error) {
	f, err := r.open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.GetSheetList(), nil
}

func (r *DataReader) open(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
	}
	f, err := excelize.OpenFile(path, excelize.Options{Password: r.config.Password})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", path, err)
	}
	return f, nil
}

// resolveSheet returns the workbook's own spelling of sheetName.
// Sheet names are matched case-insensitively, as Excel does.
func resolveSheet(f *excelize.File, path, sheetName string) (string, error) {
	idx, err := f.GetSheetIndex(sheetName)
	if err != nil || idx < 0 {
		return "", core.NewSheetNotFoundError(path, sheetName)
	}
	return f.GetSheetName(idx), nil
}

func readTable(f *excelize.File, sheetName string) (sheet.Table, error) {
	raw, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return sheet.Table{}, err
	}

	rows := make([]sheet.Row, len(raw))
	for i, cols := range raw {
		row := make(sheet.Row, len(cols))
		for j, value := range cols {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return sheet.Table{}, err
			}
			cellType, err := f.GetCellType(sheetName, ref)
			if err != nil {
				return sheet.Table{}, err
			}
			row[j] = typedCell(cellType, value)
		}
		rows[i] = row
	}
	return sheet.Table{Name: sheetName, Rows: rows}, nil
}

// typedCell maps an excelize cell type and raw value to a sheet cell.
// Cells without an explicit type are numeric when their raw value parses.
func typedCell(cellType excelize.CellType, value string) sheet.Cell {
	if value == "" {
		return sheet.Empty()
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return sheet.Text(value)
	case excelize.CellTypeBool, excelize.CellTypeError, excelize.CellTypeDate:
		return sheet.Other(value)
	}
	if n, err := strconv.ParseFloat(value, 64); err == nil {
		return sheet.Number(n)
	}
	return sheet.Text(value)
}
