package order

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kantine-app/kantine/internal/price"
	"github.com/kantine-app/kantine/internal/user"
	"github.com/kantine-app/kantine/internal/workbook"
)

var ordersHeader = []string{"user_id", "user_name", "food_id", "food_name", "quantity", "price", "subtotal"}
var usersHeader = []string{"id", "name"}

const ordersSheet = "orders"
const usersSheet = "users"

// Snapshot is the in-memory image of the orders workbook: the decoded order
// and user tables plus any unrelated sheets, preserved verbatim on save.
type Snapshot struct {
	Lines []Line
	Users []user.Account
	Extra []workbook.Sheet
}

type Repository interface {
	// Read decodes the workbook. A missing file is an empty snapshot; an
	// unreadable one is quarantined and replaced by an empty schema.
	Read(ctx context.Context) (*Snapshot, error)
	// Update runs fn inside the single-writer critical section and rewrites
	// the whole workbook with the mutated snapshot. When fn errors nothing
	// is written.
	Update(ctx context.Context, fn func(*Snapshot) error) error
}

type WorkbookRepo struct{ book *workbook.Book }

func NewWorkbookRepo(book *workbook.Book) *WorkbookRepo { return &WorkbookRepo{book: book} }

func (r *WorkbookRepo) Read(ctx context.Context) (*Snapshot, error) {
	r.book.Lock()
	defer r.book.Unlock()
	return r.load()
}

func (r *WorkbookRepo) Update(ctx context.Context, fn func(*Snapshot) error) error {
	r.book.Lock()
	defer r.book.Unlock()

	snap, err := r.load()
	if err != nil {
		return err
	}
	if err := fn(snap); err != nil {
		return err
	}
	return r.book.WriteAll(encode(snap))
}

// load reads the workbook under the held lock. An unreadable file is moved
// aside and replaced by an empty schema so the service can keep running;
// both steps are logged because data is taken out of the working set.
func (r *WorkbookRepo) load() (*Snapshot, error) {
	if !r.book.Exists() {
		return &Snapshot{}, nil
	}
	sheets, err := r.book.ReadAll()
	if err != nil {
		log.Printf("[orders] reading %s failed: %v", r.book.Path(), err)
		if _, qerr := r.book.Quarantine(); qerr != nil {
			return nil, qerr
		}
		empty := &Snapshot{}
		if werr := r.book.WriteAll(encode(empty)); werr != nil {
			return nil, werr
		}
		return empty, nil
	}
	return decode(sheets), nil
}

func decode(sheets []workbook.Sheet) *Snapshot {
	snap := &Snapshot{Users: user.Decode(sheets)}
	for _, s := range sheets {
		switch s.Name {
		case usersSheet:
		case ordersSheet:
			snap.Lines = decodeLines(s)
		default:
			snap.Extra = append(snap.Extra, s)
		}
	}
	return snap
}

// decodeLines coerces the raw sheet into typed lines. Missing columns yield
// zero values and unparsable cells coerce to 0; stale columns such as
// order_time are dropped because only the known ones are read back.
func decodeLines(s workbook.Sheet) []Line {
	userID, userName := s.Col("user_id"), s.Col("user_name")
	foodID, foodName := s.Col("food_id"), s.Col("food_name")
	quantity := s.Col("quantity")
	priceCol, subtotal := s.Col("price"), s.Col("subtotal")

	lines := make([]Line, 0, len(s.Rows))
	for _, row := range s.Rows {
		lines = append(lines, Line{
			UserID:   intCell(s.Cell(row, userID)),
			UserName: s.Cell(row, userName),
			FoodID:   intCell(s.Cell(row, foodID)),
			FoodName: s.Cell(row, foodName),
			Quantity: intCell(s.Cell(row, quantity)),
			Price:    price.Clean(s.Cell(row, priceCol)),
			Subtotal: decimalCell(s.Cell(row, subtotal)),
		})
	}
	return lines
}

func intCell(v string) int {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	// spreadsheets render integers as "3.0" often enough to matter
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return int(f)
	}
	return 0
}

func decimalCell(v string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func encode(snap *Snapshot) []workbook.Sheet {
	orders := workbook.Sheet{Name: ordersSheet, Header: ordersHeader}
	for _, l := range snap.Lines {
		orders.Rows = append(orders.Rows, []string{
			strconv.Itoa(l.UserID),
			l.UserName,
			strconv.Itoa(l.FoodID),
			l.FoodName,
			strconv.Itoa(l.Quantity),
			l.Price.String(),
			l.Subtotal.String(),
		})
	}
	users := workbook.Sheet{Name: usersSheet, Header: usersHeader}
	for _, a := range snap.Users {
		users.Rows = append(users.Rows, []string{strconv.Itoa(a.ID), a.Name})
	}
	out := []workbook.Sheet{orders, users}
	return append(out, snap.Extra...)
}
