package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// DaysInMonth returns the real number of calendar days in (year, month),
// never a fixed 30/31 constant.
func DaysInMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// PerDaySalary divides the basic salary over the calendar days of the month,
// rounded to 2 decimal places with banker's rounding.
func PerDaySalary(basicSalary decimal.Decimal, totalDays int) decimal.Decimal {
	return basicSalary.Div(decimal.NewFromInt(int64(totalDays))).RoundBank(2)
}

// AttendanceDeduction computes the attendance-based salary deduction:
// one per-day salary per absent day, half per half-day. Late and leave days
// deduct nothing.
func AttendanceDeduction(perDaySalary decimal.Decimal, absentDays, halfDays int) decimal.Decimal {
	deductibleDays := decimal.NewFromInt(int64(absentDays)).
		Add(decimal.NewFromInt(int64(halfDays)).Mul(half))
	return deductibleDays.Mul(perDaySalary).RoundBank(2)
}
