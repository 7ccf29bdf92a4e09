// Package workbook wraps a single xlsx file used as a makeshift datastore.
// Every mutation re-reads the whole file and rewrites it; the embedded mutex
// turns each read-modify-write into a single-writer critical section.
package workbook

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/xuri/excelize/v2"
)

// Sheet is one named table: a header row plus data rows, cell values as
// strings the way excelize returns them.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// Cell returns the value at column col of row, or "" when the row is short.
// excelize trims trailing empty cells, so short rows are normal.
func (s Sheet) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// Col returns the index of the named header column, or -1.
func (s Sheet) Col(name string) int {
	for i, h := range s.Header {
		if strings.TrimSpace(h) == name {
			return i
		}
	}
	return -1
}

type Book struct {
	mu   sync.Mutex
	path string
}

func New(path string) *Book { return &Book{path: path} }

func (b *Book) Path() string { return b.path }

// Lock and Unlock expose the critical section so a caller can span a whole
// read-modify-write without another request interleaving.
func (b *Book) Lock()   { b.mu.Lock() }
func (b *Book) Unlock() { b.mu.Unlock() }

func (b *Book) Exists() bool {
	_, err := os.Stat(b.path)
	return err == nil
}

// ReadAll returns every sheet in file order. Caller must hold the lock.
func (b *Book) ReadAll() ([]Sheet, error) {
	f, err := excelize.OpenFile(b.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []Sheet
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			return nil, err
		}
		s := Sheet{Name: name}
		if len(rows) > 0 {
			s.Header = rows[0]
			s.Rows = rows[1:]
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteAll rewrites the whole file with exactly the given sheets. Caller must
// hold the lock.
func (b *Book) WriteAll(sheets []Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	for i, s := range sheets {
		if i == 0 {
			// rename the default sheet so the file has no stray Sheet1
			if err := f.SetSheetName(f.GetSheetName(0), s.Name); err != nil {
				return err
			}
		} else if _, err := f.NewSheet(s.Name); err != nil {
			return err
		}
		if err := writeRow(f, s.Name, 1, s.Header); err != nil {
			return err
		}
		for j, row := range s.Rows {
			if err := writeRow(f, s.Name, j+2, row); err != nil {
				return err
			}
		}
	}
	return f.SaveAs(b.path)
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	vals := make([]any, len(values))
	for i, v := range values {
		vals[i] = v
	}
	return f.SetSheetRow(sheet, cell, &vals)
}

// Quarantine moves an unreadable file aside under a timestamped name so
// nothing is destroyed silently. The caller recreates the schema afterwards.
// Caller must hold the lock.
func (b *Book) Quarantine() (string, error) {
	aside := fmt.Sprintf("%s_corrupted_%s.xlsx",
		strings.TrimSuffix(b.path, ".xlsx"), time.Now().Format("20060102T150405"))
	if err := os.Rename(b.path, aside); err != nil {
		return "", err
	}
	log.Printf("[workbook] quarantined unreadable file %s as %s", b.path, aside)
	return aside, nil
}
