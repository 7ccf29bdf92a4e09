// Package user maintains the user directory stored in the "users" sheet of
// the orders workbook, with an optional users.csv read-before-fallback.
package user

import (
	"context"
	"encoding/csv"
	"errors"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/kantine-app/kantine/internal/workbook"
)

var ErrEmptyName = errors.New("user name is required")

const sheetName = "users"

var header = []string{"id", "name"}

type Directory interface {
	List(ctx context.Context) ([]Account, error)
	Add(ctx context.Context, name string) (Account, error)
}

type WorkbookDirectory struct {
	book *workbook.Book
}

func NewWorkbookDirectory(book *workbook.Book) *WorkbookDirectory {
	return &WorkbookDirectory{book: book}
}

// List returns directory entries with a positive id. A missing workbook is
// an empty directory, not an error.
func (d *WorkbookDirectory) List(ctx context.Context) ([]Account, error) {
	d.book.Lock()
	defer d.book.Unlock()

	if !d.book.Exists() {
		return nil, nil
	}
	sheets, err := d.book.ReadAll()
	if err != nil {
		return nil, err
	}
	var out []Account
	for _, a := range Decode(sheets) {
		if a.ID > 0 {
			out = append(out, a)
		}
	}
	return out, nil
}

// Add creates a new user with id max(existing)+1, or 1 on an empty table.
func (d *WorkbookDirectory) Add(ctx context.Context, name string) (Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Account{}, ErrEmptyName
	}

	d.book.Lock()
	defer d.book.Unlock()

	var sheets []workbook.Sheet
	if d.book.Exists() {
		var err error
		if sheets, err = d.book.ReadAll(); err != nil {
			return Account{}, err
		}
	}

	idx := -1
	for i, s := range sheets {
		if s.Name == sheetName {
			idx = i
			break
		}
	}
	if idx < 0 {
		sheets = append(sheets, workbook.Sheet{Name: sheetName, Header: header})
		idx = len(sheets) - 1
	}

	next := 1
	for _, a := range Decode(sheets) {
		if a.ID >= next {
			next = a.ID + 1
		}
	}

	acct := Account{ID: next, Name: name}
	sheets[idx].Rows = append(sheets[idx].Rows, []string{strconv.Itoa(acct.ID), acct.Name})
	if err := d.book.WriteAll(sheets); err != nil {
		return Account{}, err
	}
	return acct, nil
}

// Decode extracts directory entries from the users sheet of an already
// loaded workbook. Unparsable ids coerce to 0.
func Decode(sheets []workbook.Sheet) []Account {
	for _, s := range sheets {
		if s.Name != sheetName {
			continue
		}
		idCol, nameCol := s.Col("id"), s.Col("name")
		out := make([]Account, 0, len(s.Rows))
		for _, row := range s.Rows {
			id, _ := strconv.Atoi(strings.TrimSpace(s.Cell(row, idCol)))
			out = append(out, Account{ID: id, Name: s.Cell(row, nameCol)})
		}
		return out
	}
	return nil
}

// NameFromCSV resolves a user name from a flat id,name file. The CSV is
// consulted before the workbook when resolving names for new order rows.
func NameFromCSV(path string, id int) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		log.Printf("[user] reading %s: %v", path, err)
		return "", false
	}
	for i, rec := range records {
		if i == 0 || len(rec) < 2 {
			continue // header row
		}
		n, err := strconv.Atoi(strings.TrimSpace(rec[0]))
		if err == nil && n == id {
			return rec[1], true
		}
	}
	return "", false
}
