package period

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/domain/audit"
	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
	"github.com/chronohr/attendance-backend-go/internal/repository/postgresql"
)

const auditEntityPeriod = "attendance_periods"

type lifecycleService struct {
	db         *database.DB
	periodRepo period.PeriodRepository
	recordRepo attendance.RecordRepository
	auditRepo  audit.TrailRepository
}

func NewLifecycleService(
	db *database.DB,
	periodRepo period.PeriodRepository,
	recordRepo attendance.RecordRepository,
	auditRepo audit.TrailRepository,
) period.LifecycleService {
	return &lifecycleService{
		db:         db,
		periodRepo: periodRepo,
		recordRepo: recordRepo,
		auditRepo:  auditRepo,
	}
}

// ========================================
// CREATION / QUERY
// ========================================

// CreatePeriod implements period.LifecycleService.
func (s *lifecycleService) CreatePeriod(ctx context.Context, req period.CreatePeriodRequest, operatorID string) (period.PeriodResponse, error) {
	if err := req.Validate(); err != nil {
		return period.PeriodResponse{}, err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	var created period.Period
	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		// The probe gives a clean overlap answer for the common case; the
		// range exclusion constraint on the insert catches racing creators.
		overlaps, err := s.periodRepo.RangeOverlaps(ctx, start, end)
		if err != nil {
			return err
		}
		if overlaps {
			return period.ErrPeriodOverlap
		}

		created, err = s.periodRepo.Create(ctx, period.Period{
			StartDate: start,
			EndDate:   end,
			Status:    period.StatusPending,
			CreatedBy: operatorID,
		})
		if err != nil {
			return err
		}

		claimed, err := s.recordRepo.AssociateRangeToPeriod(ctx, created.ID, start, end)
		if err != nil {
			return err
		}

		after := string(period.StatusPending)
		_, err = s.auditRepo.Append(ctx, audit.Entry{
			Action:        audit.ActionPeriodCreated,
			ActorID:       operatorID,
			Entity:        auditEntityPeriod,
			EntityID:      created.ID,
			AfterStatus:   &after,
			AffectedCount: int(claimed),
		})
		return err
	})
	if err != nil {
		return period.PeriodResponse{}, err
	}

	return toPeriodResponse(created), nil
}

// GetPeriod implements period.LifecycleService.
func (s *lifecycleService) GetPeriod(ctx context.Context, id string) (period.PeriodResponse, error) {
	p, err := s.periodRepo.GetByID(ctx, id)
	if err != nil {
		return period.PeriodResponse{}, err
	}
	return toPeriodResponse(p), nil
}

// ListPeriods implements period.LifecycleService.
func (s *lifecycleService) ListPeriods(ctx context.Context) ([]period.PeriodResponse, error) {
	periods, err := s.periodRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]period.PeriodResponse, 0, len(periods))
	for _, p := range periods {
		responses = append(responses, toPeriodResponse(p))
	}
	return responses, nil
}

// ========================================
// EDITABILITY / FINALIZATION CHECKS
// ========================================

// ValidateRecordEditability implements period.LifecycleService. Unassociated
// records are always editable.
func (s *lifecycleService) ValidateRecordEditability(ctx context.Context, recordID string) (period.Editability, error) {
	p, err := s.periodRepo.GetByRecordID(ctx, recordID)
	if err != nil {
		if errors.Is(err, period.ErrPeriodNotFound) {
			// No owning period: either the record does not exist at all, or
			// it exists but has not been claimed by a period yet.
			if _, err := s.recordRepo.GetByID(ctx, recordID); err != nil {
				if errors.Is(err, attendance.ErrRecordNotFound) {
					return period.Editability{CanEdit: false, Reason: period.ReasonRecordNotFound}, nil
				}
				return period.Editability{}, err
			}
			return period.Editability{CanEdit: true}, nil
		}
		return period.Editability{}, err
	}

	switch p.Status {
	case period.StatusPending:
		return period.Editability{CanEdit: true}, nil
	case period.StatusFinalized:
		return period.Editability{CanEdit: false, Reason: period.ReasonFinalizedPeriod}, nil
	case period.StatusLocked:
		return period.Editability{CanEdit: false, Reason: period.ReasonLockedPeriod}, nil
	default:
		return period.Editability{}, fmt.Errorf("unknown period status %q", p.Status)
	}
}

// ValidatePeriodForFinalization implements period.LifecycleService.
func (s *lifecycleService) ValidatePeriodForFinalization(ctx context.Context, startDate, endDate string) (period.FinalizationCheck, error) {
	req := period.CreatePeriodRequest{StartDate: startDate, EndDate: endDate}
	if err := req.Validate(); err != nil {
		return period.FinalizationCheck{}, err
	}

	start, _ := validator.IsValidDate(startDate)
	end, _ := validator.IsValidDate(endDate)

	counts, err := s.recordRepo.CountIssuesInRange(ctx, start, end)
	if err != nil {
		return period.FinalizationCheck{}, err
	}

	check := period.FinalizationCheck{Issues: []period.FinalizationIssue{}}
	if counts.UnresolvedConflicts > 0 {
		check.Issues = append(check.Issues, period.FinalizationIssue{
			Type:  period.IssueUnresolvedConflicts,
			Count: counts.UnresolvedConflicts,
		})
	}
	if counts.PendingApprovals > 0 {
		check.Issues = append(check.Issues, period.FinalizationIssue{
			Type:  period.IssuePendingApprovals,
			Count: counts.PendingApprovals,
		})
	}
	if counts.MissingData > 0 {
		check.Issues = append(check.Issues, period.FinalizationIssue{
			Type:  period.IssueMissingData,
			Count: counts.MissingData,
		})
	}
	check.CanFinalize = len(check.Issues) == 0

	return check, nil
}

// ========================================
// TRANSITIONS
// ========================================

// FinalizePeriod implements period.LifecycleService. The period row is locked
// for the duration of the transaction, so two concurrent finalizations of the
// same period serialize and the loser sees a status conflict.
func (s *lifecycleService) FinalizePeriod(ctx context.Context, periodID, operatorID string) (period.TransitionResult, error) {
	var result period.TransitionResult

	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		p, err := s.periodRepo.GetByIDForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		if p.Status != period.StatusPending {
			return period.ErrPeriodNotPending
		}

		// Late-arriving records inside the window are claimed before the
		// finalized flag sweep, so none escape the freeze.
		if _, err := s.recordRepo.AssociateRangeToPeriod(ctx, p.ID, p.StartDate, p.EndDate); err != nil {
			return err
		}

		counts, err := s.recordRepo.CountIssuesInRange(ctx, p.StartDate, p.EndDate)
		if err != nil {
			return err
		}
		if blockers := finalizationBlockers(counts); len(blockers) > 0 {
			result = period.TransitionResult{Success: false, Errors: blockers}
			return errFinalizationBlocked
		}

		affected, err := s.recordRepo.SetFinalizedByPeriod(ctx, p.ID, true)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		before := string(p.Status)
		p.Status = period.StatusFinalized
		p.FinalizedBy = &operatorID
		p.FinalizedAt = &now
		p.UnlockReason = nil

		updated, err := s.periodRepo.UpdateStatus(ctx, p)
		if err != nil {
			return err
		}

		after := string(updated.Status)
		_, err = s.auditRepo.Append(ctx, audit.Entry{
			Action:        audit.ActionPeriodFinalized,
			ActorID:       operatorID,
			Entity:        auditEntityPeriod,
			EntityID:      updated.ID,
			BeforeStatus:  &before,
			AfterStatus:   &after,
			AffectedCount: int(affected),
		})
		if err != nil {
			return err
		}

		resp := toPeriodResponse(updated)
		result = period.TransitionResult{
			Success:             true,
			Period:              &resp,
			AffectedRecordCount: int(affected),
		}
		return nil
	})
	if errors.Is(err, errFinalizationBlocked) {
		return result, nil
	}
	if err != nil {
		return period.TransitionResult{}, err
	}

	return result, nil
}

// UnlockPeriod implements period.LifecycleService.
func (s *lifecycleService) UnlockPeriod(ctx context.Context, periodID, operatorID, reason string) (period.TransitionResult, error) {
	if strings.TrimSpace(reason) == "" {
		return period.TransitionResult{}, period.ErrUnlockReasonMissing
	}

	var result period.TransitionResult

	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		p, err := s.periodRepo.GetByIDForUpdate(ctx, periodID)
		if err != nil {
			return err
		}
		if p.Status != period.StatusFinalized {
			return period.ErrPeriodNotFinalized
		}

		affected, err := s.recordRepo.SetFinalizedByPeriod(ctx, p.ID, false)
		if err != nil {
			return err
		}

		before := string(p.Status)
		p.Status = period.StatusPending
		p.FinalizedBy = nil
		p.FinalizedAt = nil
		p.UnlockReason = &reason

		updated, err := s.periodRepo.UpdateStatus(ctx, p)
		if err != nil {
			return err
		}

		after := string(updated.Status)
		_, err = s.auditRepo.Append(ctx, audit.Entry{
			Action:        audit.ActionPeriodUnlocked,
			ActorID:       operatorID,
			Entity:        auditEntityPeriod,
			EntityID:      updated.ID,
			BeforeStatus:  &before,
			AfterStatus:   &after,
			AffectedCount: int(affected),
			Reason:        &reason,
		})
		if err != nil {
			return err
		}

		resp := toPeriodResponse(updated)
		result = period.TransitionResult{
			Success:             true,
			Period:              &resp,
			AffectedRecordCount: int(affected),
		}
		return nil
	})
	if err != nil {
		return period.TransitionResult{}, err
	}

	return result, nil
}

// ========================================
// HELPERS
// ========================================

// errFinalizationBlocked aborts the finalize transaction while letting the
// structured blocker list reach the caller.
var errFinalizationBlocked = errors.New("finalization blocked by record issues")

func finalizationBlockers(counts attendance.IssueCounts) []string {
	var blockers []string
	if counts.UnresolvedConflicts > 0 {
		blockers = append(blockers, fmt.Sprintf("%d records have unresolved conflicts", counts.UnresolvedConflicts))
	}
	if counts.PendingApprovals > 0 {
		blockers = append(blockers, fmt.Sprintf("%d records have pending approvals", counts.PendingApprovals))
	}
	if counts.MissingData > 0 {
		blockers = append(blockers, fmt.Sprintf("%d records are missing clock data", counts.MissingData))
	}
	return blockers
}

func toPeriodResponse(p period.Period) period.PeriodResponse {
	resp := period.PeriodResponse{
		ID:           p.ID,
		StartDate:    p.StartDate.Format("2006-01-02"),
		EndDate:      p.EndDate.Format("2006-01-02"),
		Status:       string(p.Status),
		FinalizedBy:  p.FinalizedBy,
		UnlockReason: p.UnlockReason,
		CreatedBy:    p.CreatedBy,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
	if p.FinalizedAt != nil {
		s := p.FinalizedAt.Format(time.RFC3339)
		resp.FinalizedAt = &s
	}
	return resp
}
