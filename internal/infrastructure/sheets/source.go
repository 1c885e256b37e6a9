package sheets

import "context"

// Source opens spreadsheet documents by reference. Implementations exist for
// local workbook files and, in tests, for in-memory documents.
type Source interface {
	OpenDocument(ctx context.Context, ref string) (Document, error)
}

// Document is one spreadsheet workbook.
type Document interface {
	Title() string
	Worksheets(ctx context.Context) ([]Worksheet, error)
}

// Worksheet is one sheet of a workbook.
type Worksheet interface {
	Title() string
	// Rows returns the sheet's cell values row by row as strings.
	Rows(ctx context.Context) ([][]string, error)
}
