package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewLinkedSummary(t *testing.T) {
	summary := NewLinkedSummary(18, 3, 2, 1, 4)

	assert.Equal(t, ResolutionLinked, summary.Resolution)
	assert.Equal(t, 18, summary.PresentDays)
	assert.Equal(t, 3, summary.AbsentDays)
	assert.Equal(t, 2, summary.LateDays)
	assert.Equal(t, 1, summary.HalfDays)
	assert.Equal(t, 4, summary.LeaveDays)

	// working days count physical attendance, paid days count owed salary
	assert.Equal(t, 18+2+1, summary.WorkingDays)
	assert.Equal(t, 18+2+4, summary.PaidDays)
}

func TestNewFullMonthSummary(t *testing.T) {
	for _, resolution := range []AttendanceResolution{ResolutionUnlinked, ResolutionDegraded} {
		summary := NewFullMonthSummary(resolution, 31)

		assert.Equal(t, resolution, summary.Resolution)
		assert.Equal(t, 31, summary.PresentDays)
		assert.Equal(t, 31, summary.WorkingDays)
		assert.Equal(t, 31, summary.PaidDays)
		assert.Zero(t, summary.AbsentDays)
		assert.Zero(t, summary.HalfDays)
	}
}

func TestRecomputeNetSalary(t *testing.T) {
	p := Payroll{
		BasicSalary:     decimal.NewFromInt(3000),
		TotalAllowances: decimal.NewFromInt(500),
		TotalDeductions: decimal.RequireFromString("617.85"),
	}
	p.RecomputeNetSalary()
	assert.True(t, p.NetSalary.Equal(decimal.RequireFromString("2882.15")), "net = %s", p.NetSalary)

	// deductions can push the net below zero, the record stays consistent
	p.TotalDeductions = decimal.NewFromInt(4000)
	p.RecomputeNetSalary()
	assert.True(t, p.NetSalary.Equal(decimal.NewFromInt(-500)), "net = %s", p.NetSalary)
}
