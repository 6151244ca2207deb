package attendance

import "errors"

// Attendance domain errors
var (
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrDuplicateRecord = errors.New("attendance record already exists for this staff, date, and transaction")
	ErrRecordFinalized = errors.New("attendance record belongs to a finalized period and cannot be edited")
	ErrRecordLocked    = errors.New("attendance record belongs to a locked period and cannot be edited")
)

// Batch ingestion error classes. True duplicates are reported apart from
// mapping and validation failures so operators can tell "already imported"
// from "needs employee setup".
const (
	IngestErrorValidation = "VALIDATION"
	IngestErrorMapping    = "EMPLOYEE_MAPPING"
	IngestErrorDuplicate  = "DUPLICATE"
	IngestErrorInternal   = "INTERNAL"
)
