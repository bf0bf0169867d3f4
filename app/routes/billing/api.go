package billing

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"tritue-center/app/billing"
	"tritue-center/app/database"
	"tritue-center/app/models"
)

var validate = validator.New()

// InvoiceGroupResponse is one row of the main billing screen: a
// student's merged invoice lines plus their carried-over debt.
type InvoiceGroupResponse struct {
	*billing.StudentGroup
	Debt       float64           `json:"debt"`
	DebtItems  []models.DebtItem `json:"debt_items,omitempty"`
	GrandTotal float64           `json:"grand_total"`
}

// InvoiceStatsResponse summarizes a billing period.
type InvoiceStatsResponse struct {
	TotalInvoices  int     `json:"total_invoices"`
	PaidInvoices   int     `json:"paid_invoices"`
	UnpaidInvoices int     `json:"unpaid_invoices"`
	TotalBilled    float64 `json:"total_billed"`
	TotalPaid      float64 `json:"total_paid"`
	TotalUnpaid    float64 `json:"total_unpaid"`
	Students       int     `json:"students"`
}

func parsePeriod(c *fiber.Ctx) (int, int, error) {
	now := time.Now()
	month := now.Month()
	year := now.Year()

	if m := c.Query("month"); m != "" {
		v, err := strconv.Atoi(m)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid month")
		}
		month = time.Month(v)
	}
	if y := c.Query("year"); y != "" {
		v, err := strconv.Atoi(y)
		if err != nil || v < 2000 || v > 2100 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "Invalid year")
		}
		year = v
	}
	return int(month), year, nil
}

// invoicesForPeriod narrows a full invoice list to one billing month.
func invoicesForPeriod(all []*models.Invoice, month, year int) []*models.Invoice {
	var out []*models.Invoice
	for _, inv := range all {
		if inv.Month == month && inv.Year == year {
			out = append(out, inv)
		}
	}
	return out
}

func invoicesForStudent(all []*models.Invoice, studentID string) []*models.Invoice {
	var out []*models.Invoice
	for _, inv := range all {
		if inv.StudentID == studentID {
			out = append(out, inv)
		}
	}
	return out
}

// mapBillingError translates engine errors into HTTP responses.
func mapBillingError(err error) error {
	switch {
	case billing.IsValidation(err):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, billing.ErrLocked):
		return fiber.NewError(fiber.StatusConflict, "Invoice is paid and locked")
	case errors.Is(err, billing.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to update invoice")
	}
}

// GetInvoicesAPI returns the merged per-student invoice view for a
// billing month. Candidate lines are derived from attendance on the
// fly; persisted rows win on conflict.
func GetInvoicesAPI(c *fiber.Ctx, db *sql.DB) error {
	month, year, err := parsePeriod(c)
	if err != nil {
		return err
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}

	sessions, err := database.GetAllSessions(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance")
	}

	allInvoices, err := database.GetAllInvoices(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load invoices")
	}

	merged := billing.Materialize(snap, sessions, invoicesForPeriod(allInvoices, month, year), month, year)

	filter := billing.Filter{
		Search:    c.Query("search"),
		TeacherID: c.Query("teacher_id"),
		Status:    c.Query("status"),
	}
	if ids := c.Query("class_ids"); ids != "" {
		filter.ClassIDs = strings.Split(ids, ",")
	}
	filtered := billing.ApplyFilter(snap, merged, filter)

	groups := billing.GroupByStudent(filtered)

	includeDebt := c.Query("include_debt") != "false"
	response := make([]*InvoiceGroupResponse, 0, len(groups))
	for _, g := range groups {
		row := &InvoiceGroupResponse{StudentGroup: g}
		if includeDebt {
			studentHistory := invoicesForStudent(allInvoices, g.StudentID)
			breakdown := billing.ComputeDebt(snap, studentHistory, sessions, g.StudentID, month, year)
			row.Debt = billing.DisplayDebt(g.Invoices, breakdown, g.StudentID, month, year)
			row.DebtItems = breakdown.Items
		}
		row.GrandTotal = row.FinalAmount + row.Debt
		response = append(response, row)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    response,
		"month":   month,
		"year":    year,
	})
}

// GetInvoiceStatsAPI returns aggregate numbers for a billing month.
func GetInvoiceStatsAPI(c *fiber.Ctx, db *sql.DB) error {
	month, year, err := parsePeriod(c)
	if err != nil {
		return err
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}
	sessions, err := database.GetAllSessions(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance")
	}
	persisted, err := database.GetInvoicesByPeriod(db, month, year)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load invoices")
	}

	merged := billing.Materialize(snap, sessions, persisted, month, year)

	stats := InvoiceStatsResponse{}
	students := make(map[string]bool)
	for _, inv := range merged {
		stats.TotalInvoices++
		stats.TotalBilled += inv.FinalAmount
		students[inv.StudentID] = true
		if inv.IsPaid() {
			stats.PaidInvoices++
			stats.TotalPaid += inv.FinalAmount
		} else {
			stats.UnpaidInvoices++
			stats.TotalUnpaid += inv.FinalAmount
		}
	}
	stats.Students = len(students)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    stats,
	})
}

// GetInvoiceByIDAPI returns a single invoice line, materializing it
// from attendance when it has never been persisted.
func GetInvoiceByIDAPI(c *fiber.Ctx, db *sql.DB) error {
	id := c.Params("id")

	store := database.NewInvoiceStore(db)
	inv, err := store.GetByID(id)
	if err == nil {
		return c.JSON(fiber.Map{"success": true, "data": inv})
	}
	if !errors.Is(err, billing.ErrNotFound) {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load invoice")
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}
	candidate := lookupCandidate(db, snap, id)
	if candidate == nil {
		return fiber.NewError(fiber.StatusNotFound, "Invoice not found")
	}
	return c.JSON(fiber.Map{"success": true, "data": candidate})
}

// lookupCandidate re-materializes the billing month encoded in a
// candidate invoice id and picks out the matching line. Returns nil
// when the id does not parse or no attendance backs it.
func lookupCandidate(db *sql.DB, snap *billing.Snapshot, id string) *models.Invoice {
	parts := strings.Split(id, "_")
	if len(parts) != 3 {
		return nil
	}
	studentID, classID := parts[0], parts[1]
	if uuid.Validate(studentID) != nil || uuid.Validate(classID) != nil {
		return nil
	}
	var year, month int
	if _, err := fmt.Sscanf(parts[2], "%d-%d", &year, &month); err != nil {
		return nil
	}
	if month < 1 || month > 12 {
		return nil
	}

	sessions, err := database.GetAllSessions(db)
	if err != nil {
		return nil
	}
	persisted, err := database.GetInvoicesByPeriod(db, month, year)
	if err != nil {
		return nil
	}

	for _, inv := range billing.Materialize(snap, sessions, persisted, month, year) {
		if inv.ID == id && inv.StudentID == studentID && inv.ClassID == classID {
			return inv
		}
	}
	return nil
}

// newService wires a mutation service whose candidate fallback
// materializes never-persisted invoices on demand.
func newService(db *sql.DB, snap *billing.Snapshot) *billing.Service {
	store := database.NewInvoiceStore(db)
	return billing.NewService(store, snap, func(id string) *models.Invoice {
		return lookupCandidate(db, snap, id)
	})
}

func withService(c *fiber.Ctx, db *sql.DB, fn func(svc *billing.Service) (interface{}, error)) error {
	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}

	result, err := fn(newService(db, snap))
	if err != nil {
		return mapBillingError(err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    result,
	})
}

// SetDiscountAPI applies a flat discount to one invoice line.
func SetDiscountAPI(c *fiber.Ctx, db *sql.DB) error {
	type DiscountRequest struct {
		Amount float64 `json:"amount" validate:"gte=0"`
	}

	var req DiscountRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Discount must not be negative")
	}

	return withService(c, db, func(svc *billing.Service) (interface{}, error) {
		return svc.SetDiscount(c.Params("id"), req.Amount)
	})
}

// SetSessionPricesAPI rewrites per-subject prices, the discount and
// optionally a manual debt override on one invoice line.
func SetSessionPricesAPI(c *fiber.Ctx, db *sql.DB) error {
	type PricesRequest struct {
		Prices       map[string]float64 `json:"prices" validate:"required,dive,gte=0"`
		Discount     float64            `json:"discount" validate:"gte=0"`
		Debt         *float64           `json:"debt" validate:"omitempty,gte=0"`
		SessionCount *int               `json:"session_count" validate:"omitempty,gt=0"`
	}

	var req PricesRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request")
	}
	if err := validate.Struct(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Prices and discount must not be negative")
	}

	return withService(c, db, func(svc *billing.Service) (interface{}, error) {
		return svc.SetSessionPrices(c.Params("id"), billing.SessionPriceUpdate{
			Prices:       req.Prices,
			Discount:     req.Discount,
			Debt:         req.Debt,
			SessionCount: req.SessionCount,
		})
	})
}

// ResetInvoiceAPI drops all manual overrides and reprices the line
// through the standard chain.
func ResetInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	return withService(c, db, func(svc *billing.Service) (interface{}, error) {
		return svc.ResetToOriginal(c.Params("id"))
	})
}

// MarkInvoicePaidAPI settles an invoice line.
func MarkInvoicePaidAPI(c *fiber.Ctx, db *sql.DB) error {
	return withService(c, db, func(svc *billing.Service) (interface{}, error) {
		return svc.MarkPaid(c.Params("id"))
	})
}

// RevertInvoiceAPI reopens a paid invoice line.
func RevertInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	return withService(c, db, func(svc *billing.Service) (interface{}, error) {
		return svc.RevertToUnpaid(c.Params("id"))
	})
}

// DeleteInvoiceAPI removes a persisted invoice line and clears manual
// debt overrides it fed into later months. Partial clear failures are
// reported, not rolled back.
func DeleteInvoiceAPI(c *fiber.Ctx, db *sql.DB) error {
	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}

	result, err := newService(db, snap).Delete(c.Params("id"))
	if err != nil {
		return mapBillingError(err)
	}

	status := fiber.StatusOK
	if !result.OK() {
		status = fiber.StatusMultiStatus
	}
	return c.Status(status).JSON(fiber.Map{
		"success": result.OK(),
		"data":    result,
	})
}

// GetStudentDebtAPI returns the carried-over debt breakdown for one
// student relative to a billing month.
func GetStudentDebtAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("id")
	if uuid.Validate(studentID) != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
	}
	month, year, err := parsePeriod(c)
	if err != nil {
		return err
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}
	if snap.Student(studentID) == nil {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	}

	sessions, err := database.GetAllSessions(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance")
	}
	invoices, err := database.GetInvoicesByStudent(db, studentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load invoices")
	}

	breakdown := billing.ComputeDebt(snap, invoices, sessions, studentID, month, year)
	display := billing.DisplayDebt(invoices, breakdown, studentID, month, year)

	return c.JSON(fiber.Map{
		"success": true,
		"data": fiber.Map{
			"breakdown": breakdown,
			"display":   display,
		},
	})
}

// GetStudentReceiptAPI returns the printable receipt numbers for one
// student and billing month.
func GetStudentReceiptAPI(c *fiber.Ctx, db *sql.DB) error {
	studentID := c.Params("id")
	if uuid.Validate(studentID) != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid student id")
	}
	month, year, err := parsePeriod(c)
	if err != nil {
		return err
	}

	snap, err := database.LoadSnapshot(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load reference data")
	}
	if snap.Student(studentID) == nil {
		return fiber.NewError(fiber.StatusNotFound, "Student not found")
	}

	sessions, err := database.GetAllSessions(db)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load attendance")
	}
	invoices, err := database.GetInvoicesByStudent(db, studentID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to load invoices")
	}

	receipt := billing.BuildReceipt(snap, sessions, invoices, studentID, month, year)

	return c.JSON(fiber.Map{
		"success": true,
		"data":    receipt,
	})
}
