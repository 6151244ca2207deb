package payroll

import "context"

type PayrollRepository interface {
	CreatePeriod(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)

	GetPeriodByID(ctx context.Context, id string) (PayrollPeriod, error)

	// GetPeriodByIDForUpdate row-locks the payroll period inside the
	// current transaction.
	GetPeriodByIDForUpdate(ctx context.Context, id string) (PayrollPeriod, error)

	// GetPeriodByAttendancePeriodIDForUpdate row-locks the payroll period
	// derived from the given attendance period, if one exists.
	GetPeriodByAttendancePeriodIDForUpdate(ctx context.Context, attendancePeriodID string) (PayrollPeriod, error)

	UpdatePeriodStatus(ctx context.Context, p PayrollPeriod) (PayrollPeriod, error)

	// DeletePeriod removes a payroll period and its records. Used to
	// supersede a stale, never-approved calculation run.
	DeletePeriod(ctx context.Context, id string) error

	CreateRecord(ctx context.Context, r PayrollRecord) (PayrollRecord, error)

	ListRecordsByPeriodID(ctx context.Context, payrollPeriodID string) ([]PayrollRecord, error)
}
