package staff

import (
	"time"

	"github.com/shopspring/decimal"
)

type EmploymentStatus string

const (
	StatusActive   EmploymentStatus = "active"
	StatusInactive EmploymentStatus = "inactive"
)

// Staff is an employee as known to this service. DeviceEmployeeID is the
// identifier the biometric terminal reports for the person; it is what punch
// logs carry and is resolved to a staff row during ingestion.
type Staff struct {
	ID               string
	FullName         string
	DeviceEmployeeID string
	Department       *string
	EmploymentStatus EmploymentStatus
	StandardRate     *decimal.Decimal
	OvertimeRate     *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
