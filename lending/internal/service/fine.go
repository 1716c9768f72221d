package service

import (
	"time"

	"github.com/Astemirdum/library-lending/lending/internal/model"
)

// DailyFineRate is charged for every full day past the due date.
const DailyFineRate int64 = 100

const day = 24 * time.Hour

// CalculateFine counts whole days between due and returned. Returns on or
// before the due date are never late.
func CalculateFine(due, returned time.Time) (lateDays int, fine int64) {
	if !returned.After(due) {
		return 0, 0
	}
	lateDays = int(returned.Sub(due) / day)
	return lateDays, int64(lateDays) * DailyFineRate
}

// EstimateLateness is the figure shown in loan listings. It reports nothing
// for returned loans; the return workflow always uses CalculateFine.
func EstimateLateness(loan model.Loan, now time.Time) (lateDays int, fine int64) {
	if loan.Status == model.LoanStatusReturned {
		return 0, 0
	}
	return CalculateFine(loan.DueDate, now)
}
