package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/chronohr/attendance-backend-go/internal/domain/staff"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type staffRepository struct {
	db *database.DB
}

const staffColumns = `id, full_name, device_employee_id, department, employment_status,
	   standard_rate, overtime_rate, created_at, updated_at`

func scanStaff(row pgx.Row) (staff.Staff, error) {
	var s staff.Staff
	err := row.Scan(
		&s.ID, &s.FullName, &s.DeviceEmployeeID, &s.Department, &s.EmploymentStatus,
		&s.StandardRate, &s.OvertimeRate, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// GetByID implements staff.StaffRepository.
func (r *staffRepository) GetByID(ctx context.Context, id string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = $1`

	s, err := scanStaff(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff by ID: %w", err)
	}

	return s, nil
}

// GetActiveByDeviceEmployeeID implements staff.StaffRepository.
func (r *staffRepository) GetActiveByDeviceEmployeeID(ctx context.Context, deviceEmployeeID string) (staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + staffColumns + `
		FROM staff
		WHERE device_employee_id = $1
		  AND employment_status = 'active'
		LIMIT 1
	`

	s, err := scanStaff(q.QueryRow(ctx, query, deviceEmployeeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return staff.Staff{}, staff.ErrStaffNotFound
		}
		return staff.Staff{}, fmt.Errorf("failed to get staff by device employee ID: %w", err)
	}

	return s, nil
}

// GetByIDs implements staff.StaffRepository.
func (r *staffRepository) GetByIDs(ctx context.Context, ids []string) (map[string]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + staffColumns + ` FROM staff WHERE id = ANY($1)`

	rows, err := q.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to query staff by IDs: %w", err)
	}
	defer rows.Close()

	result := make(map[string]staff.Staff, len(ids))
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		result[s.ID] = s
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff rows: %w", err)
	}

	return result, nil
}

// ListActive implements staff.StaffRepository.
func (r *staffRepository) ListActive(ctx context.Context) ([]staff.Staff, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + staffColumns + ` FROM staff WHERE employment_status = 'active' ORDER BY full_name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query active staff: %w", err)
	}
	defer rows.Close()

	var result []staff.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan staff: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate staff rows: %w", err)
	}

	return result, nil
}

func NewStaffRepository(db *database.DB) staff.StaffRepository {
	return &staffRepository{db: db}
}
