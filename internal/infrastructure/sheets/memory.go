package sheets

import (
	"context"
	"fmt"
)

// MemorySource is an in-memory Source for tests and fixtures.
type MemorySource struct {
	Documents map[string]*MemoryDocument
}

// NewMemorySource creates an empty MemorySource.
func NewMemorySource() *MemorySource {
	return &MemorySource{Documents: make(map[string]*MemoryDocument)}
}

// AddDocument registers a document under the given reference.
func (s *MemorySource) AddDocument(ref string, doc *MemoryDocument) {
	s.Documents[ref] = doc
}

// OpenDocument returns the registered document.
func (s *MemorySource) OpenDocument(_ context.Context, ref string) (Document, error) {
	doc, ok := s.Documents[ref]
	if !ok {
		return nil, fmt.Errorf("document %q not found", ref)
	}
	return doc, nil
}

// MemoryDocument is an in-memory workbook.
type MemoryDocument struct {
	DocTitle string
	Sheets   []*MemoryWorksheet
}

func (d *MemoryDocument) Title() string { return d.DocTitle }

// Worksheets returns the document's sheets in order.
func (d *MemoryDocument) Worksheets(_ context.Context) ([]Worksheet, error) {
	out := make([]Worksheet, len(d.Sheets))
	for i, s := range d.Sheets {
		out[i] = s
	}
	return out, nil
}

// AddSheet appends a sheet with the given cell values.
func (d *MemoryDocument) AddSheet(title string, rows [][]string) *MemoryDocument {
	d.Sheets = append(d.Sheets, &MemoryWorksheet{SheetTitle: title, Cells: rows})
	return d
}

// MemoryWorksheet is one in-memory sheet.
type MemoryWorksheet struct {
	SheetTitle string
	Cells      [][]string
	// Err, when set, is returned by Rows to simulate fetch failures.
	Err error
}

func (w *MemoryWorksheet) Title() string { return w.SheetTitle }

func (w *MemoryWorksheet) Rows(_ context.Context) ([][]string, error) {
	if w.Err != nil {
		return nil, w.Err
	}
	return w.Cells, nil
}
