package services

import (
	"testing"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

func TestValidateEMIAmount(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"plausible amount", "10550", false},
		{"far too high", "20000", true},
		{"far too low", "2000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.CreateEMIRequest{
				Principal:    decimal.NewFromInt(120000),
				InterestRate: 10,
				EMIAmount:    decimal.RequireFromString(tt.amount),
				StartDate:    start,
				EndDate:      end,
			}
			err := ValidateEMIAmount(req)
			if tt.wantErr && err == nil {
				t.Errorf("ValidateEMIAmount(%s) accepted, want rejection", tt.amount)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateEMIAmount(%s) rejected: %v", tt.amount, err)
			}
		})
	}
}

func TestValidateEMIAmountRejectsInvertedDates(t *testing.T) {
	req := models.CreateEMIRequest{
		Principal: decimal.NewFromInt(10000),
		EMIAmount: decimal.NewFromInt(1000),
		StartDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	if err := ValidateEMIAmount(req); err == nil {
		t.Error("accepted EMI with end date before start date")
	}
}

func TestBuildSchedule(t *testing.T) {
	emi := models.EMI{
		ID:            1,
		Principal:     decimal.NewFromInt(120000),
		InterestRate:  10,
		EMIAmount:     decimal.RequireFromString("10550"),
		DueDayOfMonth: 5,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
	}

	schedule := BuildSchedule(emi)
	if len(schedule) == 0 {
		t.Fatal("empty schedule")
	}

	totalPrincipal := decimal.Zero
	for i, p := range schedule {
		if p.PaymentNumber != i+1 {
			t.Errorf("payment %d has number %d", i, p.PaymentNumber)
		}
		if p.DueDate.Day() != 5 {
			t.Errorf("payment %d due on day %d, want 5", p.PaymentNumber, p.DueDate.Day())
		}
		if !p.EMI.Equal(p.PrincipalComponent.Add(p.InterestComponent)) {
			t.Errorf("payment %d: emi %s != principal %s + interest %s",
				p.PaymentNumber, p.EMI, p.PrincipalComponent, p.InterestComponent)
		}
		if p.Status != models.EMIPaymentPending {
			t.Errorf("payment %d status = %s, want pending", p.PaymentNumber, p.Status)
		}
		totalPrincipal = totalPrincipal.Add(p.PrincipalComponent)
	}

	if !totalPrincipal.Equal(emi.Principal) {
		t.Errorf("principal components sum to %s, want %s", totalPrincipal, emi.Principal)
	}

	last := schedule[len(schedule)-1]
	if !last.OutstandingPrincipal.IsZero() {
		t.Errorf("final outstanding = %s, want 0", last.OutstandingPrincipal)
	}
}

func TestBuildScheduleClampsDueDay(t *testing.T) {
	emi := models.EMI{
		Principal:     decimal.NewFromInt(10000),
		InterestRate:  0,
		EMIAmount:     decimal.NewFromInt(5000),
		DueDayOfMonth: 31,
		StartDate:     time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2024, 4, 15, 0, 0, 0, 0, time.UTC),
	}

	schedule := BuildSchedule(emi)
	if len(schedule) < 1 {
		t.Fatal("empty schedule")
	}
	// One month after a January start lands in February; day 31 clamps to 29 in 2024.
	first := schedule[0].DueDate
	if first.Month() != time.February || first.Day() != 29 {
		t.Errorf("first due date = %s, want 2024-02-29", first.Format("2006-01-02"))
	}
}

func TestBuildScheduleSettlesTinyEMI(t *testing.T) {
	// An EMI smaller than the monthly interest cannot amortize; the schedule
	// settles the full balance in the first payment instead of diverging.
	emi := models.EMI{
		Principal:     decimal.NewFromInt(100000),
		InterestRate:  24,
		EMIAmount:     decimal.NewFromInt(100),
		DueDayOfMonth: 1,
		StartDate:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:       time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	schedule := BuildSchedule(emi)
	if len(schedule) != 1 {
		t.Fatalf("schedule has %d payments, want 1", len(schedule))
	}
	if !schedule[0].PrincipalComponent.Equal(emi.Principal) {
		t.Errorf("principal component = %s, want %s", schedule[0].PrincipalComponent, emi.Principal)
	}
	if !schedule[0].OutstandingPrincipal.IsZero() {
		t.Errorf("outstanding = %s, want 0", schedule[0].OutstandingPrincipal)
	}
}
