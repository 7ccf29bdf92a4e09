package order

import (
	"context"
	"errors"
	"log"

	"github.com/shopspring/decimal"

	"github.com/kantine-app/kantine/internal/menu"
	"github.com/kantine-app/kantine/internal/user"
)

var (
	ErrNoValidItems = errors.New("no valid order items")
	ErrNoOrders     = errors.New("no orders found for user")
	ErrNoChanges    = errors.New("no changes applied")
)

// Service ties the reconciliation core to the workbook repositories. Every
// write operation runs heal + mutate + heal inside one critical section, so
// the persisted table always satisfies the one-row-per-(user,food) invariant.
type Service struct {
	repo     Repository
	menu     menu.Repository
	usersCSV string
}

func NewService(repo Repository, menuRepo menu.Repository, usersCSV string) *Service {
	return &Service{repo: repo, menu: menuRepo, usersCSV: usersCSV}
}

// menuRefs loads the menu as a backfill index. Menu trouble must not block
// order traffic, so failures degrade to an empty index with a log line.
func (s *Service) menuRefs(ctx context.Context) map[int]MenuRef {
	items, err := s.menu.List(ctx)
	if err != nil {
		log.Printf("[orders] menu unavailable for backfill: %v", err)
		return map[int]MenuRef{}
	}
	refs := make(map[int]MenuRef, len(items))
	for _, it := range items {
		if it.ID > 0 {
			refs[it.ID] = MenuRef{Name: it.Name, Price: it.Price}
		}
	}
	return refs
}

func namesOf(accounts []user.Account) map[int]string {
	names := make(map[int]string, len(accounts))
	for _, a := range accounts {
		if a.ID > 0 && a.Name != "" {
			names[a.ID] = a.Name
		}
	}
	return names
}

// resolveName finds a display name for new order rows: users.csv first, then
// the users sheet, then the synthesized placeholder.
func (s *Service) resolveName(id int, names map[int]string) string {
	if s.usersCSV != "" {
		if n, ok := user.NameFromCSV(s.usersCSV, id); ok {
			return n
		}
	}
	if n, ok := names[id]; ok && n != "" {
		return n
	}
	return user.Placeholder(id)
}

// FixStructure runs the full heal pass and persists the result, creating the
// workbook with an empty schema when it is missing.
func (s *Service) FixStructure(ctx context.Context) error {
	refs := s.menuRefs(ctx)
	return s.repo.Update(ctx, func(snap *Snapshot) error {
		snap.Lines = Heal(snap.Lines, namesOf(snap.Users), refs)
		return nil
	})
}

// SaveBatch applies the upsert engine for one user and returns the sum of
// accepted subtotals. ErrNoValidItems when every request was skipped; the
// workbook is left untouched in that case.
func (s *Service) SaveBatch(ctx context.Context, userID int, reqs []Request) (decimal.Decimal, error) {
	refs := s.menuRefs(ctx)
	total := decimal.Zero
	err := s.repo.Update(ctx, func(snap *Snapshot) error {
		names := namesOf(snap.Users)
		snap.Lines = Heal(snap.Lines, names, refs)

		userName := s.resolveName(userID, names)
		var accepted int
		snap.Lines, total, accepted = Upsert(snap.Lines, userID, userName, reqs)
		if accepted == 0 {
			return ErrNoValidItems
		}
		ensureAccount(snap, userID, userName)
		snap.Lines = Heal(snap.Lines, namesOf(snap.Users), refs)
		return nil
	})
	return total, err
}

// EditBatch applies replace-quantity semantics for one user. ErrNoOrders
// when the user has no lines at all, ErrNoChanges when nothing matched;
// neither writes the workbook.
func (s *Service) EditBatch(ctx context.Context, userID int, reqs []Request) (int, error) {
	refs := s.menuRefs(ctx)
	changed := 0
	err := s.repo.Update(ctx, func(snap *Snapshot) error {
		if !hasUserLines(snap.Lines, userID) {
			return ErrNoOrders
		}
		snap.Lines, changed = Edit(snap.Lines, userID, reqs)
		if changed == 0 {
			return ErrNoChanges
		}
		snap.Lines = Heal(snap.Lines, namesOf(snap.Users), refs)
		return nil
	})
	return changed, err
}

// UpdateOrders applies the cross-user change set and returns the row count
// of the resulting table.
func (s *Service) UpdateOrders(ctx context.Context, changes []Change) (int, error) {
	refs := s.menuRefs(ctx)
	rows := 0
	err := s.repo.Update(ctx, func(snap *Snapshot) error {
		snap.Lines = Heal(snap.Lines, namesOf(snap.Users), refs)
		snap.Lines = ApplyChanges(snap.Lines, changes)
		rows = len(snap.Lines)
		return nil
	})
	return rows, err
}

// AllOrders is the grouped read path over the whole table.
func (s *Service) AllOrders(ctx context.Context) ([]UserOrders, error) {
	snap, err := s.repo.Read(ctx)
	if err != nil {
		return nil, err
	}
	return Aggregate(snap.Lines, namesOf(snap.Users), s.menuRefs(ctx)), nil
}

// UserOrders is the single-user read path. No lines is an empty result.
func (s *Service) UserOrders(ctx context.Context, userID int) ([]LineView, decimal.Decimal, error) {
	snap, err := s.repo.Read(ctx)
	if err != nil {
		return nil, decimal.Zero, err
	}
	items, total := ForUser(snap.Lines, userID, s.menuRefs(ctx))
	return items, total, nil
}

func ensureAccount(snap *Snapshot, userID int, name string) {
	for _, a := range snap.Users {
		if a.ID == userID {
			return
		}
	}
	snap.Users = append(snap.Users, user.Account{ID: userID, Name: name})
	log.Printf("[orders] registered user id=%d name=%s on first order", userID, name)
}

func hasUserLines(lines []Line, userID int) bool {
	for _, l := range lines {
		if l.UserID == userID {
			return true
		}
	}
	return false
}
