package sheets

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ExcelSource opens local .xlsx workbooks. The document reference is the
// file path; the document title is the file name without its extension.
type ExcelSource struct{}

// NewExcelSource creates an ExcelSource.
func NewExcelSource() *ExcelSource {
	return &ExcelSource{}
}

// OpenDocument reads the whole workbook into memory. Workbooks here are
// operator-maintained and small, so eager loading keeps the reader simple.
func (s *ExcelSource) OpenDocument(_ context.Context, ref string) (Document, error) {
	f, err := excelize.OpenFile(ref)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", ref, err)
	}
	defer f.Close()

	title := strings.TrimSuffix(filepath.Base(ref), filepath.Ext(ref))
	doc := &excelDocument{title: title}
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q of %s: %w", name, ref, err)
		}
		doc.sheets = append(doc.sheets, &excelWorksheet{title: name, rows: rows})
	}
	return doc, nil
}

type excelDocument struct {
	title  string
	sheets []Worksheet
}

func (d *excelDocument) Title() string { return d.title }

func (d *excelDocument) Worksheets(_ context.Context) ([]Worksheet, error) {
	return d.sheets, nil
}

type excelWorksheet struct {
	title string
	rows  [][]string
}

func (w *excelWorksheet) Title() string { return w.title }

func (w *excelWorksheet) Rows(_ context.Context) ([][]string, error) {
	return w.rows, nil
}
