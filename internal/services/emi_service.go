package services

import (
	"fmt"
	"time"

	"fintrack/internal/models"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

// ValidateEMIAmount sanity-checks a submitted EMI amount against a crude
// flat-interest estimate: principal * (1 + rate/100) spread over the loan
// term, with a ±10% tolerance. It catches typos, not bad underwriting.
func ValidateEMIAmount(req models.CreateEMIRequest) error {
	months := int(req.EndDate.Sub(req.StartDate).Hours()/(24*30)) + 1
	if months < 1 {
		return fmt.Errorf("end date must be after start date")
	}

	rate := decimal.NewFromFloat(req.InterestRate).Div(hundred)
	expected := req.Principal.
		Mul(decimal.NewFromInt(1).Add(rate)).
		Div(decimal.NewFromInt(int64(months)))

	tolerance := expected.Mul(decimal.NewFromFloat(0.1))
	if req.EMIAmount.Sub(expected).Abs().GreaterThan(tolerance) {
		return fmt.Errorf("EMI amount seems incorrect, expected around %s", expected.Round(2))
	}

	return nil
}

// BuildSchedule computes the reducing-balance amortization schedule for an
// EMI: one row per payment with the principal/interest split and the
// outstanding balance after the payment. The final row is clamped so the
// principal components sum exactly to the principal.
func BuildSchedule(e models.EMI) []models.EMIPayment {
	monthlyRate := decimal.NewFromFloat(e.InterestRate).Div(hundred).Div(twelve)
	outstanding := e.Principal

	maxPayments := monthsBetween(e.StartDate, e.EndDate)
	if maxPayments < 1 {
		maxPayments = 1
	}

	var schedule []models.EMIPayment
	for n := 1; n <= maxPayments && outstanding.IsPositive(); n++ {
		interest := outstanding.Mul(monthlyRate).Round(2)
		principal := e.EMIAmount.Sub(interest)

		// Last payment, or an EMI too small to amortize: settle the balance
		if !principal.IsPositive() || principal.GreaterThan(outstanding) || n == maxPayments {
			principal = outstanding
		}

		outstanding = outstanding.Sub(principal)

		schedule = append(schedule, models.EMIPayment{
			EMIID:                e.ID,
			PaymentNumber:        n,
			DueDate:              dueDateFor(e.StartDate, e.DueDayOfMonth, n),
			EMI:                  principal.Add(interest),
			PrincipalComponent:   principal,
			InterestComponent:    interest,
			OutstandingPrincipal: outstanding,
			Status:               models.EMIPaymentPending,
		})
	}

	return schedule
}

// dueDateFor places payment n on the EMI's due day, n months after the
// start, clamping the day to months that are too short
func dueDateFor(start time.Time, dueDay, n int) time.Time {
	firstOfTarget := time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, start.Location()).
		AddDate(0, n, 0)

	day := dueDay
	if last := daysInMonth(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, start.Location())
}

// monthsBetween counts whole calendar months from start to end
func monthsBetween(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month())
	if end.Day() < start.Day() {
		months--
	}
	return months
}
