package payroll

import "context"

// CalculatorService derives payroll from a finalized attendance period.
type CalculatorService interface {
	// Calculate reads the period's attendance records and produces one
	// payroll record per employee. Fails with ErrPeriodNotEligible unless
	// the source period is FINALIZED or LOCKED; per-employee failures are
	// collected in the result without aborting the run.
	Calculate(ctx context.Context, req CalculateRequest, operatorID string) (CalculateResult, error)

	GetPeriod(ctx context.Context, id string) (PayrollPeriodResponse, error)

	ListRecords(ctx context.Context, payrollPeriodID string) ([]PayrollRecordResponse, error)

	// Approve is invoked on behalf of the external approval collaborator:
	// it advances the payroll period to APPROVED and locks the source
	// attendance period, in one transaction.
	Approve(ctx context.Context, payrollPeriodID, operatorID string) (PayrollPeriodResponse, error)
}
