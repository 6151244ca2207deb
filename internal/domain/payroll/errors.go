package payroll

import "errors"

// Payroll domain errors
var (
	ErrPeriodNotEligible      = errors.New("payroll requires a finalized or locked attendance period")
	ErrPayrollPeriodNotFound  = errors.New("payroll period not found")
	ErrPayrollNotCalculated   = errors.New("payroll period has not been calculated")
	ErrPayrollAlreadyApproved = errors.New("payroll period is already approved")
	ErrPayrollExists          = errors.New("payroll already calculated for this attendance period")
	ErrMissingRate            = errors.New("no pay rate configured for staff member")
)
