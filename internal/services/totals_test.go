package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal %q: %v", s, err)
	}
	return d
}

func TestComputeJobTotals_Labor(t *testing.T) {
	job := &models.Job{HourlyRate: dec(t, "100"), VATRate: dec(t, "0.19")}
	override := dec(t, "50")
	timesheets := []models.Timesheet{
		{Hours: dec(t, "5")},
		{Hours: dec(t, "3"), RateOverride: &override},
	}
	got := ComputeJobTotals(job, timesheets, nil, nil)
	if !got.LaborHours.Equal(dec(t, "8")) {
		t.Errorf("LaborHours = %s, want 8", got.LaborHours)
	}
	if !got.LaborTotal.Equal(dec(t, "650")) {
		t.Errorf("LaborTotal = %s, want 650", got.LaborTotal)
	}
}

func TestComputeJobTotals_Expenses(t *testing.T) {
	job := &models.Job{VATRate: dec(t, "0.19")}
	expenses := []models.Expense{
		{Qty: dec(t, "2"), UnitCost: dec(t, "10"), MarkupPercent: dec(t, "20"), Billable: true},
		{Qty: dec(t, "5"), UnitCost: dec(t, "1"), Billable: false},
	}
	got := ComputeJobTotals(job, nil, expenses, nil)
	if !got.ExpBillableTotal.Equal(dec(t, "24")) {
		t.Errorf("ExpBillableTotal = %s, want 24", got.ExpBillableTotal)
	}
	// cost total counts both billable and non-billable, at cost
	if !got.ExpCostTotal.Equal(dec(t, "25")) {
		t.Errorf("ExpCostTotal = %s, want 25", got.ExpCostTotal)
	}
}

func TestComputeJobTotals_VATAndReceivable(t *testing.T) {
	job := &models.Job{HourlyRate: dec(t, "100"), VATRate: dec(t, "0.19")}
	timesheets := []models.Timesheet{{Hours: dec(t, "10")}} // subtotal 1000
	payments := []models.Payment{{Amount: dec(t, "200")}}
	got := ComputeJobTotals(job, timesheets, nil, payments)
	if !got.Subtotal.Equal(dec(t, "1000")) {
		t.Errorf("Subtotal = %s, want 1000", got.Subtotal)
	}
	if !got.VAT.Equal(dec(t, "190")) {
		t.Errorf("VAT = %s, want 190", got.VAT)
	}
	if !got.Total.Equal(dec(t, "1190")) {
		t.Errorf("Total = %s, want 1190", got.Total)
	}
	if !got.Receivable.Equal(dec(t, "990")) {
		t.Errorf("Receivable = %s, want 990", got.Receivable)
	}
}

func TestComputeJobTotals_OverpaidGoesNegative(t *testing.T) {
	job := &models.Job{HourlyRate: dec(t, "100"), VATRate: dec(t, "0")}
	timesheets := []models.Timesheet{{Hours: dec(t, "1")}}
	payments := []models.Payment{{Amount: dec(t, "150")}}
	got := ComputeJobTotals(job, timesheets, nil, payments)
	if !got.Receivable.Equal(dec(t, "-50")) {
		t.Errorf("Receivable = %s, want -50 (no clamping)", got.Receivable)
	}
}

func TestComputeJobTotals_Empty(t *testing.T) {
	job := &models.Job{HourlyRate: dec(t, "100"), VATRate: dec(t, "0.19")}
	got := ComputeJobTotals(job, nil, nil, nil)
	for name, v := range map[string]decimal.Decimal{
		"LaborHours": got.LaborHours, "LaborTotal": got.LaborTotal,
		"Subtotal": got.Subtotal, "VAT": got.VAT, "Total": got.Total,
		"Paid": got.Paid, "Receivable": got.Receivable,
	} {
		if !v.IsZero() {
			t.Errorf("%s = %s, want 0", name, v)
		}
	}
}
