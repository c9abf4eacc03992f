package ports

import (
	"context"

	"zgony/domain/sheet"
)

// FileResolver finds the workbook published for a year
type FileResolver interface {
	// Resolve returns the path of the first existing candidate file.
	// It fails with core.ErrFileNotFound when no candidate exists.
	Resolve(ctx context.Context, year int) (string, error)
}

// TableLoader reads one worksheet of a workbook into a typed table
type TableLoader interface {
	// Load fails with core.ErrSheetNotFound when the workbook has no such sheet.
	Load(ctx context.Context, path, sheetName string) (sheet.Table, error)
}
