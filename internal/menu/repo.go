// Package menu provides the repository for the menu workbook, the source of
// truth for dish names and prices.
package menu

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/kantine-app/kantine/internal/price"
	"github.com/kantine-app/kantine/internal/workbook"
)

var (
	ErrNotFound  = errors.New("menu file not found")
	ErrBadSchema = errors.New("menu data is missing required columns")
)

// The description column is optional and healed in place when absent.
var requiredColumns = []string{"id", "name", "price", "image"}

type Repository interface {
	List(ctx context.Context) ([]Item, error)
}

type WorkbookRepo struct{ book *workbook.Book }

func NewWorkbookRepo(book *workbook.Book) *WorkbookRepo { return &WorkbookRepo{book: book} }

// List loads the menu table from the first sheet of the menu workbook.
// A missing description column is added and the file rewritten; a missing
// required column is ErrBadSchema naming the gaps.
func (r *WorkbookRepo) List(ctx context.Context) ([]Item, error) {
	r.book.Lock()
	defer r.book.Unlock()

	if !r.book.Exists() {
		return nil, ErrNotFound
	}
	sheets, err := r.book.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(sheets) == 0 {
		return nil, ErrBadSchema
	}
	s := sheets[0]

	var missing []string
	for _, col := range requiredColumns {
		if s.Col(col) < 0 {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrBadSchema, strings.Join(missing, ", "))
	}

	if s.Col("description") < 0 {
		log.Printf("[menu] description column missing in %s, adding an empty one", r.book.Path())
		s.Header = append(s.Header, "description")
		sheets[0] = s
		if err := r.book.WriteAll(sheets); err != nil {
			return nil, err
		}
	}

	idCol, nameCol := s.Col("id"), s.Col("name")
	priceCol, imageCol := s.Col("price"), s.Col("image")
	descCol := s.Col("description")

	items := make([]Item, 0, len(s.Rows))
	for _, row := range s.Rows {
		id, _ := strconv.Atoi(strings.TrimSpace(s.Cell(row, idCol)))
		items = append(items, Item{
			ID:          id,
			Name:        s.Cell(row, nameCol),
			Price:       price.Clean(s.Cell(row, priceCol)),
			Image:       s.Cell(row, imageCol),
			Description: s.Cell(row, descCol),
		})
	}
	return items, nil
}
