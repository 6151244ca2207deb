package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/chronohr/attendance-backend-go/internal/domain/payroll"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type payrollRepository struct {
	db *database.DB
}

const payrollPeriodColumns = `id, attendance_period_id, status, calculated_by, calculated_at,
	   approved_by, approved_at, created_at, updated_at`

func scanPayrollPeriod(row pgx.Row) (payroll.PayrollPeriod, error) {
	var p payroll.PayrollPeriod
	err := row.Scan(
		&p.ID, &p.AttendancePeriodID, &p.Status, &p.CalculatedBy, &p.CalculatedAt,
		&p.ApprovedBy, &p.ApprovedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// CreatePeriod implements payroll.PayrollRepository. The unique index on
// attendance_period_id keeps the relationship one-to-one even under races.
func (r *payrollRepository) CreatePeriod(ctx context.Context, p payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_periods (attendance_period_id, status, calculated_by, calculated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query, p.AttendancePeriodID, p.Status, p.CalculatedBy, p.CalculatedAt).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return payroll.PayrollPeriod{}, payroll.ErrPayrollExists
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to create payroll period: %w", err)
	}

	return p, nil
}

// GetPeriodByID implements payroll.PayrollRepository.
func (r *payrollRepository) GetPeriodByID(ctx context.Context, id string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollPeriodColumns + ` FROM payroll_periods WHERE id = $1`

	p, err := scanPayrollPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to get payroll period by ID: %w", err)
	}

	return p, nil
}

// GetPeriodByIDForUpdate implements payroll.PayrollRepository.
func (r *payrollRepository) GetPeriodByIDForUpdate(ctx context.Context, id string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollPeriodColumns + ` FROM payroll_periods WHERE id = $1 FOR UPDATE`

	p, err := scanPayrollPeriod(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to lock payroll period: %w", err)
	}

	return p, nil
}

// GetPeriodByAttendancePeriodIDForUpdate implements payroll.PayrollRepository.
func (r *payrollRepository) GetPeriodByAttendancePeriodIDForUpdate(ctx context.Context, attendancePeriodID string) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + payrollPeriodColumns + ` FROM payroll_periods WHERE attendance_period_id = $1 FOR UPDATE`

	p, err := scanPayrollPeriod(q.QueryRow(ctx, query, attendancePeriodID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to lock payroll period by attendance period: %w", err)
	}

	return p, nil
}

// DeletePeriod implements payroll.PayrollRepository. Records go first to
// satisfy the foreign key.
func (r *payrollRepository) DeletePeriod(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	if _, err := q.Exec(ctx, `DELETE FROM payroll_records WHERE payroll_period_id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete payroll records: %w", err)
	}

	commandTag, err := q.Exec(ctx, `DELETE FROM payroll_periods WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete payroll period: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return payroll.ErrPayrollPeriodNotFound
	}

	return nil
}

// UpdatePeriodStatus implements payroll.PayrollRepository.
func (r *payrollRepository) UpdatePeriodStatus(ctx context.Context, p payroll.PayrollPeriod) (payroll.PayrollPeriod, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_periods
		SET status = $1,
			calculated_by = $2,
			calculated_at = $3,
			approved_by = $4,
			approved_at = $5,
			updated_at = NOW()
		WHERE id = $6
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query,
		p.Status, p.CalculatedBy, p.CalculatedAt, p.ApprovedBy, p.ApprovedAt, p.ID,
	).Scan(&p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.PayrollPeriod{}, payroll.ErrPayrollPeriodNotFound
		}
		return payroll.PayrollPeriod{}, fmt.Errorf("failed to update payroll period status: %w", err)
	}

	return p, nil
}

// CreateRecord implements payroll.PayrollRepository. CalculationData is
// stored as JSONB so the calculation inputs travel with the record.
func (r *payrollRepository) CreateRecord(ctx context.Context, rec payroll.PayrollRecord) (payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	calcData, err := json.Marshal(rec.CalculationData)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to marshal calculation data: %w", err)
	}

	query := `
		INSERT INTO payroll_records (payroll_period_id, staff_id, standard_hours, overtime_hours,
									 standard_rate, overtime_rate, gross_pay, calculation_data)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err = q.QueryRow(ctx, query,
		rec.PayrollPeriodID, rec.StaffID, rec.StandardHours, rec.OvertimeHours,
		rec.StandardRate, rec.OvertimeRate, rec.GrossPay, calcData,
	).Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return payroll.PayrollRecord{}, fmt.Errorf("failed to create payroll record: %w", err)
	}

	return rec, nil
}

// ListRecordsByPeriodID implements payroll.PayrollRepository.
func (r *payrollRepository) ListRecordsByPeriodID(ctx context.Context, payrollPeriodID string) ([]payroll.PayrollRecord, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT pr.id, pr.payroll_period_id, pr.staff_id, pr.standard_hours, pr.overtime_hours,
			   pr.standard_rate, pr.overtime_rate, pr.gross_pay, pr.calculation_data, pr.created_at,
			   s.full_name
		FROM payroll_records pr
		LEFT JOIN staff s ON s.id = pr.staff_id
		WHERE pr.payroll_period_id = $1
		ORDER BY s.full_name
	`

	rows, err := q.Query(ctx, query, payrollPeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to query payroll records: %w", err)
	}
	defer rows.Close()

	var records []payroll.PayrollRecord
	for rows.Next() {
		var rec payroll.PayrollRecord
		var calcData []byte
		err := rows.Scan(
			&rec.ID, &rec.PayrollPeriodID, &rec.StaffID, &rec.StandardHours, &rec.OvertimeHours,
			&rec.StandardRate, &rec.OvertimeRate, &rec.GrossPay, &calcData, &rec.CreatedAt,
			&rec.StaffName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll record: %w", err)
		}
		if err := json.Unmarshal(calcData, &rec.CalculationData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal calculation data: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payroll records: %w", err)
	}

	return records, nil
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepository{db: db}
}
