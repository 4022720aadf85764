package payroll

import "errors"

var (
	ErrPayrollNotFound         = errors.New("payroll record not found")
	ErrPayrollAlreadyExists    = errors.New("payroll record already exists for this employee and period")
	ErrPayrollAlreadyProcessed = errors.New("payroll record already processed or paid")
	ErrPayrollAlreadyPaid      = errors.New("payroll record already paid")
	ErrPayrollCancelled        = errors.New("payroll record is cancelled")
	ErrPayrollNotCancellable   = errors.New("payroll record can no longer be cancelled")
	ErrCannotDeletePaidPayroll = errors.New("cannot delete a paid payroll record")
)
