package billing

import "tritue-center/app/models"

// InvoiceStore is the persistence surface the mutation service writes
// through. Each mutation is a single record write; there is no partial
// commit to roll back.
type InvoiceStore interface {
	// GetByID returns ErrNotFound when no row exists under id.
	GetByID(id string) (*models.Invoice, error)
	// Save upserts the full record under its id.
	Save(inv *models.Invoice) error
	Delete(id string) error
	ListByStudent(studentID string) ([]*models.Invoice, error)
	// ClearDebt nulls the manual debt override so the ledger
	// recomputes a fresh total on next read.
	ClearDebt(id string) error
}

// BatchFailure is one failed member of a best-effort batch.
type BatchFailure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// BatchResult reports a best-effort batch of independent writes.
// Succeeded members stay committed even when others fail; the caller
// decides whether to surface or retry the failures.
type BatchResult struct {
	Succeeded []string       `json:"succeeded"`
	Failed    []BatchFailure `json:"failed"`
}

// OK reports whether every member of the batch went through.
func (r *BatchResult) OK() bool {
	return len(r.Failed) == 0
}
