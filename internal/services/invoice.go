package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ErrJobNotFound is returned when invoice generation targets an unknown job.
var ErrJobNotFound = errors.New("job not found")

// InvoiceService allocates invoice numbers and generates invoices with their
// frozen line snapshots.
type InvoiceService struct {
	db     *gorm.DB
	totals *JobTotalsService
	now    func() time.Time
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{db: db, totals: NewJobTotalsService(db), now: time.Now}
}

// MakeInvoiceNumber composes the canonical invoice-number string,
// e.g. ("AA", 2026, 1) -> "AA-2026-0001".
func MakeInvoiceNumber(series string, year, number int) string {
	return fmt.Sprintf("%s-%d-%04d", series, year, number)
}

// NextInvoiceNumber returns the number the next invoice in the series should
// carry for the current year: highest existing number in <series>-<year>-*
// plus one, or startNo when the series has no invoices this year yet.
// Numbering therefore restarts each calendar year.
//
// Callers allocating a number for insertion must do so on the same
// transaction that inserts the invoice, or two concurrent generations can
// observe the same last number.
func (s *InvoiceService) NextInvoiceNumber(tx *gorm.DB, series string, startNo int) (int, error) {
	year := s.now().Year()
	var last models.Invoice
	err := tx.Where("series = ? AND inv_no LIKE ?", series, fmt.Sprintf("%s-%d-%%", series, year)).
		Order("number desc").First(&last).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if startNo < 1 {
				startNo = 1
			}
			return startNo, nil
		}
		return 0, err
	}
	return last.Number + 1, nil
}

// GenerateParams carries the form fields of the generation request.
type GenerateParams struct {
	IssueDate     string
	DueDate       string
	PaymentMethod string
	Place         string
	Notes         string
}

// Generate creates the invoice and its lines for a job in one transaction:
// read the last number for the series and year, insert the invoice, snapshot
// the lines. A unique-index violation on the composed number (two concurrent
// generations) rolls the whole document back, leaving no orphan lines.
func (s *InvoiceService) Generate(jobID uint, p GenerateParams) (*models.Invoice, error) {
	var inv *models.Invoice
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.First(&job, jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrJobNotFound
			}
			return err
		}
		var cp models.CompanyProfile
		if err := tx.First(&cp, models.CompanyProfileID).Error; err != nil {
			return fmt.Errorf("load company profile: %w", err)
		}
		series := cp.InvoiceSeries
		if series == "" {
			series = "AA"
		}
		number, err := s.NextInvoiceNumber(tx, series, cp.InvoiceStartNo)
		if err != nil {
			return fmt.Errorf("next invoice number: %w", err)
		}

		issue := p.IssueDate
		if issue == "" {
			issue = s.now().Format("2006-01-02")
		}
		method := p.PaymentMethod
		if method == "" {
			method = "OP"
		}
		inv = &models.Invoice{
			JobID:         jobID,
			Series:        series,
			Number:        number,
			InvNo:         MakeInvoiceNumber(series, s.now().Year(), number),
			IssueDate:     issue,
			DueDate:       p.DueDate,
			PaymentMethod: method,
			Place:         p.Place,
			Notes:         p.Notes,
		}
		if err := tx.Create(inv).Error; err != nil {
			return fmt.Errorf("create invoice: %w", err)
		}

		lines, err := s.buildLines(tx, &job, inv.ID)
		if err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return fmt.Errorf("create invoice lines: %w", err)
			}
			inv.Lines = lines
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// buildLines snapshots the job's billable labor and expenses into fixed
// invoice lines.
func (s *InvoiceService) buildLines(tx *gorm.DB, job *models.Job, invoiceID uint) ([]models.InvoiceLine, error) {
	t, err := s.totals.forJob(tx, job)
	if err != nil {
		return nil, err
	}

	var lines []models.InvoiceLine
	if t.LaborTotal.IsPositive() {
		// One aggregate labor line: quantity is the summed hours, unit price
		// the average rate. With zero hours but a nonzero total the whole
		// amount goes on a single lump-sum line.
		hours := t.LaborHours
		if hours.IsNegative() {
			hours = decimal.Zero
		}
		unitPrice := t.LaborTotal
		if hours.IsPositive() {
			unitPrice = t.LaborTotal.Div(hours)
		}
		lines = append(lines, models.InvoiceLine{
			InvoiceID:   invoiceID,
			LineType:    models.LineTypeLabor,
			Description: "Manoperă (ore lucrate)",
			Qty:         hours,
			Unit:        "ore",
			UnitPrice:   unitPrice,
			LineTotal:   t.LaborTotal,
		})
	}

	var expenses []models.Expense
	if err := tx.Where("job_id = ?", job.ID).Find(&expenses).Error; err != nil {
		return nil, err
	}
	for i := range expenses {
		e := &expenses[i]
		if !e.Billable {
			continue
		}
		unitPrice := e.BillablePrice()
		lines = append(lines, models.InvoiceLine{
			InvoiceID:   invoiceID,
			LineType:    models.LineTypeExpense,
			Description: e.Description,
			Qty:         e.Qty,
			Unit:        e.Unit,
			UnitPrice:   unitPrice,
			LineTotal:   e.Qty.Mul(unitPrice),
		})
	}
	return lines, nil
}
