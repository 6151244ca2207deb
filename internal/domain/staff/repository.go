package staff

import "context"

type StaffRepository interface {
	// GetByID returns a staff member by primary key.
	GetByID(ctx context.Context, id string) (Staff, error)

	// GetActiveByDeviceEmployeeID resolves the identifier a terminal reports
	// to an active staff member. Returns ErrStaffNotFound when no active
	// staff carries the identifier.
	GetActiveByDeviceEmployeeID(ctx context.Context, deviceEmployeeID string) (Staff, error)

	// GetByIDs returns the staff rows for the given ids, keyed by id.
	GetByIDs(ctx context.Context, ids []string) (map[string]Staff, error)

	// ListActive returns all active staff.
	ListActive(ctx context.Context) ([]Staff, error)
}
