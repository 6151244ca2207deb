package period

import "errors"

// Period domain errors
var (
	ErrPeriodNotFound      = errors.New("period not found")
	ErrPeriodOverlap       = errors.New("period date range overlaps an existing period")
	ErrPeriodNotPending    = errors.New("period is not in pending status")
	ErrPeriodNotFinalized  = errors.New("only finalized periods can be unlocked")
	ErrUnlockReasonMissing = errors.New("unlock reason is required")
)
