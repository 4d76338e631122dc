package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/cpuescu-ui/pontaje-app/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.CompanyProfile{}, &models.Client{}, &models.Job{},
		&models.Timesheet{}, &models.Expense{}, &models.Payment{}, &models.Invoice{}, &models.InvoiceLine{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedJob(t *testing.T, db *gorm.DB, startNo int) models.Job {
	t.Helper()
	cp := models.CompanyProfile{ID: models.CompanyProfileID, Name: "Firma Test SRL", VATPayer: true, InvoiceSeries: "AA", InvoiceStartNo: startNo}
	if err := db.Create(&cp).Error; err != nil {
		t.Fatalf("company profile: %v", err)
	}
	client := models.Client{Name: "ClientCo"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("client: %v", err)
	}
	job := models.Job{ClientID: client.ID, Title: "Renovare", HourlyRate: decimal.NewFromInt(100), VATRate: decimal.RequireFromString("0.19"), Currency: "RON"}
	if err := db.Create(&job).Error; err != nil {
		t.Fatalf("job: %v", err)
	}
	return job
}

func fixedNowService(db *gorm.DB, year int) *InvoiceService {
	svc := NewInvoiceService(db)
	svc.now = func() time.Time { return time.Date(year, 6, 15, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestMakeInvoiceNumber(t *testing.T) {
	tests := []struct {
		series string
		year   int
		number int
		want   string
	}{
		{"AA", 2026, 1, "AA-2026-0001"},
		{"AA", 2026, 42, "AA-2026-0042"},
		{"FX", 2027, 9999, "FX-2027-9999"},
		{"FX", 2027, 10001, "FX-2027-10001"},
	}
	for _, tt := range tests {
		if got := MakeInvoiceNumber(tt.series, tt.year, tt.number); got != tt.want {
			t.Errorf("MakeInvoiceNumber(%q, %d, %d) = %q, want %q", tt.series, tt.year, tt.number, got, tt.want)
		}
	}
}

func TestGenerate_SequentialNumbers(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(5)}).Error; err != nil {
		t.Fatalf("timesheet: %v", err)
	}
	svc := fixedNowService(db, 2026)

	first, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate first: %v", err)
	}
	second, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate second: %v", err)
	}
	if first.InvNo != "AA-2026-0001" {
		t.Errorf("first InvNo = %q, want AA-2026-0001", first.InvNo)
	}
	if second.InvNo != "AA-2026-0002" {
		t.Errorf("second InvNo = %q, want AA-2026-0002", second.InvNo)
	}
	if second.Number != first.Number+1 {
		t.Errorf("numbers not strictly increasing: %d then %d", first.Number, second.Number)
	}
}

func TestGenerate_StartNumberRespected(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 100)
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(1)}).Error; err != nil {
		t.Fatalf("timesheet: %v", err)
	}
	svc := fixedNowService(db, 2026)
	inv, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if inv.InvNo != "AA-2026-0100" {
		t.Errorf("InvNo = %q, want AA-2026-0100", inv.InvNo)
	}
}

func TestGenerate_NewYearRestartsNumbering(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(2)}).Error; err != nil {
		t.Fatalf("timesheet: %v", err)
	}

	inv2026, err := fixedNowService(db, 2026).Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate 2026: %v", err)
	}
	if _, err := fixedNowService(db, 2026).Generate(job.ID, GenerateParams{}); err != nil {
		t.Fatalf("generate 2026 #2: %v", err)
	}
	inv2027, err := fixedNowService(db, 2027).Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate 2027: %v", err)
	}
	if inv2026.InvNo != "AA-2026-0001" {
		t.Errorf("2026 InvNo = %q, want AA-2026-0001", inv2026.InvNo)
	}
	if inv2027.InvNo != "AA-2027-0001" {
		t.Errorf("2027 InvNo = %q, want AA-2027-0001 (restart)", inv2027.InvNo)
	}
}

func TestGenerate_NewSeriesRestartsNumbering(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(2)}).Error; err != nil {
		t.Fatalf("timesheet: %v", err)
	}
	svc := fixedNowService(db, 2026)
	if _, err := svc.Generate(job.ID, GenerateParams{}); err != nil {
		t.Fatalf("generate AA: %v", err)
	}

	// Switch the configured series; the new stream starts fresh.
	if err := db.Model(&models.CompanyProfile{}).Where("id = ?", models.CompanyProfileID).Update("invoice_series", "BB").Error; err != nil {
		t.Fatalf("update series: %v", err)
	}
	inv, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate BB: %v", err)
	}
	if inv.InvNo != "BB-2026-0001" {
		t.Errorf("InvNo = %q, want BB-2026-0001", inv.InvNo)
	}
}

func TestGenerate_Lines(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	override := decimal.NewFromInt(50)
	fixtures := []any{
		&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(5)},
		&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-02", Hours: decimal.NewFromInt(3), RateOverride: &override},
		&models.Expense{JobID: job.ID, ExpDate: "2026-06-03", Description: "Ciment", Qty: decimal.NewFromInt(2), Unit: "sac", UnitCost: decimal.NewFromInt(10), MarkupPercent: decimal.NewFromInt(20), Billable: true},
		&models.Expense{JobID: job.ID, ExpDate: "2026-06-04", Description: "Combustibil", Qty: decimal.NewFromInt(5), Unit: "l", UnitCost: decimal.NewFromInt(1), Billable: false},
	}
	for _, f := range fixtures {
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}
	svc := fixedNowService(db, 2026)
	inv, err := svc.Generate(job.ID, GenerateParams{IssueDate: "2026-06-15"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(inv.Lines) != 2 {
		t.Fatalf("got %d lines, want 2 (labor + one billable expense)", len(inv.Lines))
	}

	labor := inv.Lines[0]
	if labor.LineType != models.LineTypeLabor {
		t.Errorf("first line type = %s, want LABOR", labor.LineType)
	}
	if !labor.Qty.Equal(decimal.NewFromInt(8)) {
		t.Errorf("labor qty = %s, want 8", labor.Qty)
	}
	// 650 / 8 = 81.25 average rate
	if !labor.UnitPrice.Equal(decimal.RequireFromString("81.25")) {
		t.Errorf("labor unit price = %s, want 81.25", labor.UnitPrice)
	}
	if !labor.LineTotal.Equal(decimal.NewFromInt(650)) {
		t.Errorf("labor line total = %s, want 650", labor.LineTotal)
	}

	exp := inv.Lines[1]
	if exp.LineType != models.LineTypeExpense {
		t.Errorf("second line type = %s, want EXPENSE", exp.LineType)
	}
	if !exp.UnitPrice.Equal(decimal.NewFromInt(12)) {
		t.Errorf("expense unit price = %s, want 12", exp.UnitPrice)
	}
	if !exp.LineTotal.Equal(decimal.NewFromInt(24)) {
		t.Errorf("expense line total = %s, want 24", exp.LineTotal)
	}

	// Round-trip: lines sum to the subtotal that VAT was computed from.
	sum := decimal.Zero
	for _, l := range inv.Lines {
		sum = sum.Add(l.LineTotal)
	}
	if !sum.Equal(decimal.NewFromInt(674)) {
		t.Errorf("line total sum = %s, want 674", sum)
	}
}

func TestGenerate_LumpSumLaborLine(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	// Entries whose hours cancel out while the amounts do not: the labor
	// total goes on a single lump-sum line with zero quantity.
	zeroRate := decimal.Zero
	fixtures := []*models.Timesheet{
		{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(3)},
		{JobID: job.ID, WorkDate: "2026-06-02", Hours: decimal.NewFromInt(-3), RateOverride: &zeroRate},
	}
	for _, f := range fixtures {
		if err := db.Create(f).Error; err != nil {
			t.Fatalf("fixture: %v", err)
		}
	}
	svc := fixedNowService(db, 2026)
	inv, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(inv.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(inv.Lines))
	}
	line := inv.Lines[0]
	if !line.Qty.Equal(decimal.Zero) {
		t.Errorf("qty = %s, want 0", line.Qty)
	}
	if !line.UnitPrice.Equal(decimal.NewFromInt(300)) {
		t.Errorf("unit price = %s, want 300 (whole labor total)", line.UnitPrice)
	}
	if !line.LineTotal.Equal(decimal.NewFromInt(300)) {
		t.Errorf("line total = %s, want 300", line.LineTotal)
	}
}

func TestGenerate_NumberCollisionRollsBack(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(2)}).Error; err != nil {
		t.Fatalf("timesheet: %v", err)
	}
	// An invoice from another series already occupies the composed number
	// the AA series will allocate next; the unique index must reject it.
	taken := models.Invoice{JobID: job.ID, Series: "ZZ", Number: 1, InvNo: MakeInvoiceNumber("AA", 2026, 1), IssueDate: "2026-01-10"}
	if err := db.Create(&taken).Error; err != nil {
		t.Fatalf("seed invoice: %v", err)
	}

	svc := fixedNowService(db, 2026)
	if _, err := svc.Generate(job.ID, GenerateParams{}); err == nil {
		t.Fatal("generate succeeded despite a taken invoice number")
	}

	// The whole transaction rolled back: only the seeded invoice remains
	// and no orphan lines were left behind.
	var invoices, lines int64
	if err := db.Model(&models.Invoice{}).Count(&invoices).Error; err != nil {
		t.Fatalf("count invoices: %v", err)
	}
	if err := db.Model(&models.InvoiceLine{}).Count(&lines).Error; err != nil {
		t.Fatalf("count lines: %v", err)
	}
	if invoices != 1 {
		t.Errorf("invoice count = %d, want 1 (seed only)", invoices)
	}
	if lines != 0 {
		t.Errorf("invoice line count = %d, want 0", lines)
	}
}

func TestGenerate_NoLinesForNonBillableOnlyJob(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	if err := db.Create(&models.Expense{JobID: job.ID, ExpDate: "2026-06-01", Description: "Intern", Qty: decimal.NewFromInt(3), UnitCost: decimal.NewFromInt(7), Billable: false}).Error; err != nil {
		t.Fatalf("expense: %v", err)
	}
	svc := fixedNowService(db, 2026)
	inv, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(inv.Lines) != 0 {
		t.Errorf("got %d lines, want 0", len(inv.Lines))
	}
}

func TestGenerate_SnapshotImmuneToLaterEdits(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(4)}).Error; err != nil {
		t.Fatalf("timesheet: %v", err)
	}
	svc := fixedNowService(db, 2026)
	inv, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	// Add more work after generation; the frozen lines must not move.
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-20", Hours: decimal.NewFromInt(10)}).Error; err != nil {
		t.Fatalf("late timesheet: %v", err)
	}
	var lines []models.InvoiceLine
	if err := db.Where("invoice_id = ?", inv.ID).Find(&lines).Error; err != nil {
		t.Fatalf("reload lines: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	if !lines[0].Qty.Equal(decimal.NewFromInt(4)) {
		t.Errorf("qty = %s, want 4 (snapshot)", lines[0].Qty)
	}
	if !lines[0].LineTotal.Equal(decimal.NewFromInt(400)) {
		t.Errorf("line total = %s, want 400 (snapshot)", lines[0].LineTotal)
	}
}

func TestGenerate_UnknownJob(t *testing.T) {
	db := setupTestDB(t)
	seedJob(t, db, 1)
	svc := fixedNowService(db, 2026)
	if _, err := svc.Generate(9999, GenerateParams{}); !errors.Is(err, ErrJobNotFound) {
		t.Errorf("err = %v, want ErrJobNotFound", err)
	}
	// Aborted generation leaves nothing behind.
	var count int64
	if err := db.Model(&models.Invoice{}).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Errorf("invoice count = %d, want 0", count)
	}
}

func TestGenerate_DefaultsIssueDateAndMethod(t *testing.T) {
	db := setupTestDB(t)
	job := seedJob(t, db, 1)
	if err := db.Create(&models.Timesheet{JobID: job.ID, WorkDate: "2026-06-01", Hours: decimal.NewFromInt(1)}).Error; err != nil {
		t.Fatalf("timesheet: %v", err)
	}
	svc := fixedNowService(db, 2026)
	inv, err := svc.Generate(job.ID, GenerateParams{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if inv.IssueDate != "2026-06-15" {
		t.Errorf("issue date = %q, want 2026-06-15", inv.IssueDate)
	}
	if inv.PaymentMethod != "OP" {
		t.Errorf("payment method = %q, want OP", inv.PaymentMethod)
	}
}
