package services

import (
	"github.com/cpuescu-ui/pontaje-app/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Totals is the full financial picture of one job. Values are exact
// decimals; callers round only for display.
type Totals struct {
	LaborHours       decimal.Decimal
	LaborTotal       decimal.Decimal
	ExpCostTotal     decimal.Decimal // all expenses at cost, billable or not
	ExpBillableTotal decimal.Decimal // billable expenses with markup applied
	Subtotal         decimal.Decimal
	VAT              decimal.Decimal
	Total            decimal.Decimal
	Paid             decimal.Decimal
	Receivable       decimal.Decimal // may be negative when overpaid
}

// ComputeJobTotals aggregates already-loaded records for a job. It is a pure
// function: no queries, no side effects, safe to call concurrently.
func ComputeJobTotals(job *models.Job, timesheets []models.Timesheet, expenses []models.Expense, payments []models.Payment) Totals {
	var t Totals
	t.LaborHours = decimal.Zero
	t.LaborTotal = decimal.Zero
	for i := range timesheets {
		ts := &timesheets[i]
		t.LaborHours = t.LaborHours.Add(ts.Hours)
		t.LaborTotal = t.LaborTotal.Add(ts.Hours.Mul(ts.EffectiveRate(job.HourlyRate)))
	}

	t.ExpCostTotal = decimal.Zero
	t.ExpBillableTotal = decimal.Zero
	for i := range expenses {
		e := &expenses[i]
		t.ExpCostTotal = t.ExpCostTotal.Add(e.Qty.Mul(e.UnitCost))
		if e.Billable {
			t.ExpBillableTotal = t.ExpBillableTotal.Add(e.Qty.Mul(e.BillablePrice()))
		}
	}

	t.Subtotal = t.LaborTotal.Add(t.ExpBillableTotal)
	t.VAT = t.Subtotal.Mul(job.VATRate)
	t.Total = t.Subtotal.Add(t.VAT)

	t.Paid = decimal.Zero
	for i := range payments {
		t.Paid = t.Paid.Add(payments[i].Amount)
	}
	t.Receivable = t.Total.Sub(t.Paid)
	return t
}

// JobTotalsService loads a job's records and runs the aggregation.
type JobTotalsService struct {
	db *gorm.DB
}

func NewJobTotalsService(db *gorm.DB) *JobTotalsService {
	return &JobTotalsService{db: db}
}

// ForJob loads timesheets, expenses and payments for the job and computes
// its totals.
func (s *JobTotalsService) ForJob(job *models.Job) (Totals, error) {
	return s.forJob(s.db, job)
}

func (s *JobTotalsService) forJob(tx *gorm.DB, job *models.Job) (Totals, error) {
	var (
		timesheets []models.Timesheet
		expenses   []models.Expense
		payments   []models.Payment
	)
	if err := tx.Where("job_id = ?", job.ID).Find(&timesheets).Error; err != nil {
		return Totals{}, err
	}
	if err := tx.Where("job_id = ?", job.ID).Find(&expenses).Error; err != nil {
		return Totals{}, err
	}
	if err := tx.Where("job_id = ?", job.ID).Find(&payments).Error; err != nil {
		return Totals{}, err
	}
	return ComputeJobTotals(job, timesheets, expenses, payments), nil
}
