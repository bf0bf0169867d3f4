package billing

import (
	"errors"
	"fmt"
	"time"

	"tritue-center/app/models"
)

// CandidateLookup resolves a not-yet-persisted invoice line by its
// candidate id, typically a closure over the materialized set for the
// period being viewed. A mutation against a candidate persists it.
type CandidateLookup func(id string) *models.Invoice

// Service carries out the invoice mutation operations. Build one per
// request with the request's snapshot; it holds no state of its own
// beyond its collaborators.
type Service struct {
	store      InvoiceStore
	snap       *Snapshot
	candidates CandidateLookup
}

func NewService(store InvoiceStore, snap *Snapshot, candidates CandidateLookup) *Service {
	return &Service{store: store, snap: snap, candidates: candidates}
}

// load fetches the persisted record, falling back to the materialized
// candidate when no row exists yet.
func (s *Service) load(id string) (*models.Invoice, error) {
	inv, err := s.store.GetByID(id)
	if err == nil {
		inv.Persisted = true
		return inv, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if s.candidates != nil {
		if c := s.candidates(id); c != nil {
			copied := *c
			copied.Persisted = false
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

func (s *Service) save(inv *models.Invoice) error {
	if err := s.store.Save(inv); err != nil {
		return fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}
	inv.Persisted = true
	return nil
}

// SetDiscount applies a manual reduction and recomputes the final
// amount. The discount must stay within [0, totalAmount].
func (s *Service) SetDiscount(id string, amount float64) (*models.Invoice, error) {
	inv, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if inv.IsPaid() {
		return nil, ErrLocked
	}
	if amount < 0 {
		return nil, validationf("discount must not be negative")
	}
	if amount > inv.TotalAmount {
		return nil, validationf("discount %.0f exceeds invoice total %.0f", amount, inv.TotalAmount)
	}

	inv.Discount = amount
	inv.FinalAmount = finalAmount(inv.TotalAmount, amount)
	if err := s.save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// SessionPriceUpdate carries an operator's price/discount edit.
// SessionCount is an explicit override; when nil the previously
// persisted count is kept — never silently recomputed from the raw
// session list.
type SessionPriceUpdate struct {
	Prices       map[string]float64 // new per-session price keyed by subject
	Discount     float64
	Debt         *float64
	SessionCount *int
}

// SetSessionPrices rewrites per-subject prices and the discount,
// recomputes the totals and persists the updated sessions snapshot so
// future reads see the overridden prices without re-resolving them.
func (s *Service) SetSessionPrices(id string, upd SessionPriceUpdate) (*models.Invoice, error) {
	inv, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if inv.IsPaid() {
		return nil, ErrLocked
	}
	if upd.Discount < 0 {
		return nil, validationf("discount must not be negative")
	}

	count := inv.TotalSessions
	if upd.SessionCount != nil {
		if *upd.SessionCount < 0 {
			return nil, validationf("session count must not be negative")
		}
		count = *upd.SessionCount
	}

	total := 0.0
	for _, g := range subjectGroups(inv) {
		price := g.price
		if p, ok := upd.Prices[g.subject]; ok {
			price = p
		}
		n := g.count
		if g.whole {
			n = count
			inv.PricePerSession = price
		}
		total += price * float64(n)
		for _, idx := range g.indexes {
			p := price
			inv.Sessions[idx].Price = &p
		}
	}

	if upd.Discount > total {
		return nil, validationf("discount %.0f exceeds invoice total %.0f", upd.Discount, total)
	}

	inv.TotalSessions = count
	inv.TotalAmount = total
	inv.Discount = upd.Discount
	inv.FinalAmount = finalAmount(total, upd.Discount)
	if upd.Debt != nil {
		inv.Debt = upd.Debt
	}
	if err := s.save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// subjectGroup is one priced slice of an invoice. Lines normally carry
// a single subject; when the sessions snapshot mixes subjects each
// group keeps its own session count.
type subjectGroup struct {
	subject string
	price   float64
	count   int
	indexes []int
	whole   bool // the group spans the whole invoice
}

func subjectGroups(inv *models.Invoice) []subjectGroup {
	if len(inv.Sessions) == 0 {
		return []subjectGroup{{subject: inv.Subject, price: inv.PricePerSession, whole: true}}
	}

	order := make([]string, 0, 1)
	bysub := make(map[string]*subjectGroup)
	for i, sess := range inv.Sessions {
		subject := sess.Subject
		if subject == "" {
			subject = inv.Subject
		}
		g, ok := bysub[subject]
		if !ok {
			price := inv.PricePerSession
			if sess.Price != nil {
				price = *sess.Price
			}
			g = &subjectGroup{subject: subject, price: price}
			bysub[subject] = g
			order = append(order, subject)
		}
		g.count++
		g.indexes = append(g.indexes, i)
	}

	groups := make([]subjectGroup, 0, len(order))
	for _, subject := range order {
		g := bysub[subject]
		g.whole = len(order) == 1
		groups = append(groups, *g)
	}
	return groups
}

// ResetToOriginal discards the custom per-subject prices and the
// discount and reprices the line strictly from catalog and enrollment
// data. The session count is left untouched.
func (s *Service) ResetToOriginal(id string) (*models.Invoice, error) {
	inv, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if inv.IsPaid() {
		return nil, ErrLocked
	}

	for i := range inv.Sessions {
		inv.Sessions[i].Price = nil
	}
	price := ResolveUnitPrice(s.snap, inv.StudentID, inv.Subject, inv.ClassID, nil)
	inv.PricePerSession = price
	inv.Discount = 0
	inv.TotalAmount = float64(inv.TotalSessions) * price
	inv.FinalAmount = inv.TotalAmount
	if err := s.save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// MarkPaid confirms payment. Every derived field is snapshotted onto
// the record first so the paid invoice is self-contained and immune to
// later catalog changes.
func (s *Service) MarkPaid(id string) (*models.Invoice, error) {
	inv, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if inv.IsPaid() {
		return nil, ErrLocked
	}

	// Refresh the denormalized fields from the current snapshot.
	inv.StudentName = ""
	inv.StudentCode = ""
	inv.ClassName = ""
	inv.ClassCode = ""
	fillNames(s.snap, inv)
	inv.FinalAmount = finalAmount(inv.TotalAmount, inv.Discount)

	now := time.Now()
	inv.Status = models.InvoicePaid
	inv.PaidAt = &now
	if err := s.save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// RevertToUnpaid unlocks a paid invoice. Nothing besides the status
// and the paid timestamp is restored.
func (s *Service) RevertToUnpaid(id string) (*models.Invoice, error) {
	inv, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !inv.IsPaid() {
		return nil, validationf("invoice is not paid")
	}

	inv.Status = models.InvoiceUnpaid
	inv.PaidAt = nil
	if err := s.save(inv); err != nil {
		return nil, err
	}
	return inv, nil
}

// Delete removes a persisted invoice, then clears the manual debt
// override on every later-month invoice of the same student so the
// ledger recomputes their carried-over totals. The clears are
// independent best-effort writes; partial failure is reported, not
// rolled back.
func (s *Service) Delete(id string) (*BatchResult, error) {
	inv, err := s.load(id)
	if err != nil {
		return nil, err
	}
	if !inv.Persisted {
		return nil, validationf("invoice has not been saved yet")
	}

	if err := s.store.Delete(id); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSaveFailed, err)
	}

	later, err := s.store.ListByStudent(inv.StudentID)
	if err != nil {
		return nil, fmt.Errorf("listing invoices after delete: %w", err)
	}

	result := &BatchResult{}
	for _, other := range later {
		if other.ID == id || other.Debt == nil {
			continue
		}
		if !periodBefore(inv.Year, inv.Month, other.Year, other.Month) {
			continue
		}
		if err := s.store.ClearDebt(other.ID); err != nil {
			result.Failed = append(result.Failed, BatchFailure{ID: other.ID, Error: err.Error()})
			continue
		}
		result.Succeeded = append(result.Succeeded, other.ID)
	}
	return result, nil
}
