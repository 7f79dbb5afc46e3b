// Package export writes the scraped rows to an XLSX workbook.
package export

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/housekg-scraper/internal/model"
)

// Sink accepts ordered rows and persists them on Flush.
type Sink interface {
	Append(row []string)
	Flush() error
	Len() int
}

// XLSXSink buffers rows in a workbook and saves it to a fixed path,
// overwriting any previous run's file. Flush may be called repeatedly;
// the workbook keeps accumulating rows between calls (checkpointing).
type XLSXSink struct {
	file  *xlsx.File
	sheet *xlsx.Sheet
	path  string
	rows  int
}

// NewXLSX creates a sink with the fixed 13-column header already written.
func NewXLSX(path, sheetName string) (*XLSXSink, error) {
	if sheetName == "" {
		sheetName = "Properties"
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet(sheetName)
	if err != nil {
		return nil, eris.Wrapf(err, "export: add sheet %q", sheetName)
	}

	s := &XLSXSink{file: file, sheet: sheet, path: path}
	s.appendCells(model.Header())
	return s, nil
}

// Append adds one row after the header. Rows are written in call order.
func (s *XLSXSink) Append(row []string) {
	s.appendCells(row)
	s.rows++
}

// Len returns the number of data rows appended so far (header excluded).
func (s *XLSXSink) Len() int {
	return s.rows
}

// Flush saves the workbook to the configured path.
func (s *XLSXSink) Flush() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return eris.Wrapf(err, "export: create output dir %s", dir)
		}
	}
	if err := s.file.Save(s.path); err != nil {
		return eris.Wrapf(err, "export: save %s", s.path)
	}
	return nil
}

// Path returns where Flush writes the workbook.
func (s *XLSXSink) Path() string {
	return s.path
}

func (s *XLSXSink) appendCells(cells []string) {
	row := s.sheet.AddRow()
	for _, c := range cells {
		row.AddCell().SetString(c)
	}
}
