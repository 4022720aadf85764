package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 28, DaysInMonth(2023, 2))
	assert.Equal(t, 29, DaysInMonth(2024, 2))
	assert.Equal(t, 30, DaysInMonth(2023, 4))
	assert.Equal(t, 31, DaysInMonth(2023, 1))
	assert.Equal(t, 31, DaysInMonth(2023, 12))
}

func TestPerDaySalary(t *testing.T) {
	perDay := PerDaySalary(decimal.NewFromInt(3000), 28)
	assert.True(t, perDay.Equal(decimal.RequireFromString("107.14")), "got %s", perDay)

	perDay = PerDaySalary(decimal.NewFromInt(3100), 31)
	assert.True(t, perDay.Equal(decimal.NewFromInt(100)), "got %s", perDay)

	perDay = PerDaySalary(decimal.NewFromInt(1000), 3)
	assert.True(t, perDay.Equal(decimal.RequireFromString("333.33")), "got %s", perDay)
}

func TestAttendanceDeduction(t *testing.T) {
	perDay := decimal.RequireFromString("107.14")

	// 2 absences and 1 half day: 2.5 deductible days
	got := AttendanceDeduction(perDay, 2, 1)
	assert.True(t, got.Equal(decimal.RequireFromString("267.85")), "got %s", got)

	// no absences, no half days
	got = AttendanceDeduction(perDay, 0, 0)
	assert.True(t, got.IsZero(), "got %s", got)

	// half days only
	got = AttendanceDeduction(decimal.NewFromInt(100), 0, 3)
	assert.True(t, got.Equal(decimal.NewFromInt(150)), "got %s", got)
}

func TestFebruaryScenario(t *testing.T) {
	// Salary 3000 over February 2023: 20 present, 2 absent, 2 late,
	// 1 half day, 3 leave. Manual allowances 500, manual deductions 350.
	totalDays := DaysInMonth(2023, 2)
	assert.Equal(t, 28, totalDays)

	summary := NewLinkedSummary(20, 2, 2, 1, 3)
	assert.Equal(t, 23, summary.WorkingDays)
	assert.Equal(t, 25, summary.PaidDays)

	perDay := PerDaySalary(decimal.NewFromInt(3000), totalDays)
	assert.True(t, perDay.Equal(decimal.RequireFromString("107.14")), "per day = %s", perDay)

	attendanceDeduction := AttendanceDeduction(perDay, summary.AbsentDays, summary.HalfDays)
	assert.True(t, attendanceDeduction.Equal(decimal.RequireFromString("267.85")), "attendance deduction = %s", attendanceDeduction)

	totalDeductions := decimal.NewFromInt(350).Add(attendanceDeduction)
	net := decimal.NewFromInt(3000).Add(decimal.NewFromInt(500)).Sub(totalDeductions)
	assert.True(t, net.Equal(decimal.RequireFromString("2882.15")), "net = %s", net)
}
