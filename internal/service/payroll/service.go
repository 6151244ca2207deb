package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/domain/audit"
	"github.com/chronohr/attendance-backend-go/internal/domain/payroll"
	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/domain/staff"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/chronohr/attendance-backend-go/internal/repository/postgresql"
)

const auditEntityPayroll = "payroll_periods"

type calculatorService struct {
	db          *database.DB
	payrollRepo payroll.PayrollRepository
	periodRepo  period.PeriodRepository
	recordRepo  attendance.RecordRepository
	staffRepo   staff.StaffRepository
	auditRepo   audit.TrailRepository
	defaults    payroll.ThresholdDefaults
}

func NewCalculatorService(
	db *database.DB,
	payrollRepo payroll.PayrollRepository,
	periodRepo period.PeriodRepository,
	recordRepo attendance.RecordRepository,
	staffRepo staff.StaffRepository,
	auditRepo audit.TrailRepository,
	defaults payroll.ThresholdDefaults,
) payroll.CalculatorService {
	return &calculatorService{
		db:          db,
		payrollRepo: payrollRepo,
		periodRepo:  periodRepo,
		recordRepo:  recordRepo,
		staffRepo:   staffRepo,
		auditRepo:   auditRepo,
		defaults:    defaults,
	}
}

// ========================================
// CALCULATION
// ========================================

// Calculate implements payroll.CalculatorService. The whole run is one
// transaction; a per-employee rate problem is collected, not fatal.
func (s *calculatorService) Calculate(ctx context.Context, req payroll.CalculateRequest, operatorID string) (payroll.CalculateResult, error) {
	// Requests that omit the thresholds fall back to the configured defaults.
	if req.Config.DailyOvertimeThreshold.IsZero() {
		req.Config.DailyOvertimeThreshold = s.defaults.DailyOvertimeThreshold
	}
	if req.Config.WeeklyOvertimeThreshold.IsZero() {
		req.Config.WeeklyOvertimeThreshold = s.defaults.WeeklyOvertimeThreshold
	}

	if err := req.Validate(); err != nil {
		return payroll.CalculateResult{}, err
	}

	var result payroll.CalculateResult

	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		source, err := s.periodRepo.GetByIDForUpdate(ctx, req.AttendancePeriodID)
		if err != nil {
			return err
		}
		if source.Status != period.StatusFinalized && source.Status != period.StatusLocked {
			return payroll.ErrPeriodNotEligible
		}

		// One payroll period per attendance period: an approved run is
		// immutable, an unapproved one is superseded by this recalculation.
		existing, err := s.payrollRepo.GetPeriodByAttendancePeriodIDForUpdate(ctx, source.ID)
		switch {
		case err == nil:
			if existing.Status == payroll.StatusApproved {
				return payroll.ErrPayrollAlreadyApproved
			}
			if err := s.payrollRepo.DeletePeriod(ctx, existing.ID); err != nil {
				return err
			}
		case !errors.Is(err, payroll.ErrPayrollPeriodNotFound):
			return err
		}

		records, err := s.recordRepo.ListByPeriodID(ctx, source.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		pp, err := s.payrollRepo.CreatePeriod(ctx, payroll.PayrollPeriod{
			AttendancePeriodID: source.ID,
			Status:             payroll.StatusCalculating,
			CalculatedBy:       &operatorID,
			CalculatedAt:       &now,
		})
		if err != nil {
			return err
		}

		byStaff := map[string][]attendance.Record{}
		staffIDs := []string{}
		for _, rec := range records {
			if _, seen := byStaff[rec.StaffID]; !seen {
				staffIDs = append(staffIDs, rec.StaffID)
			}
			byStaff[rec.StaffID] = append(byStaff[rec.StaffID], rec)
		}

		members, err := s.staffRepo.GetByIDs(ctx, staffIDs)
		if err != nil {
			return err
		}

		result = payroll.CalculateResult{
			Records: []payroll.PayrollRecordResponse{},
			Errors:  []payroll.EmployeeError{},
		}

		for _, staffID := range staffIDs {
			member, ok := members[staffID]
			if !ok {
				result.Errors = append(result.Errors, payroll.EmployeeError{
					StaffID: staffID,
					Message: "staff member not found",
				})
				continue
			}

			rates, err := resolveRates(req.Config, member)
			if err != nil {
				result.Errors = append(result.Errors, payroll.EmployeeError{
					StaffID: staffID,
					Message: err.Error(),
				})
				continue
			}

			hours := splitHours(byStaff[staffID], source.StartDate,
				req.Config.DailyOvertimeThreshold, req.Config.WeeklyOvertimeThreshold)

			gross := hours.standardHours.Mul(rates.StandardRate).
				Add(hours.overtimeHours.Mul(rates.OvertimeRate)).
				Round(2)

			created, err := s.payrollRepo.CreateRecord(ctx, payroll.PayrollRecord{
				PayrollPeriodID: pp.ID,
				StaffID:         staffID,
				StandardHours:   hours.standardHours,
				OvertimeHours:   hours.overtimeHours,
				StandardRate:    rates.StandardRate,
				OvertimeRate:    rates.OvertimeRate,
				GrossPay:        gross,
				CalculationData: payroll.CalculationData{
					RecordIDs:       hours.recordIDs,
					DailyBreakdown:  hours.dailyBreakdown,
					DailyThreshold:  req.Config.DailyOvertimeThreshold,
					WeeklyThreshold: req.Config.WeeklyOvertimeThreshold,
				},
			})
			if err != nil {
				return err
			}
			created.StaffName = &member.FullName

			result.Records = append(result.Records, toPayrollRecordResponse(created))
		}

		pp.Status = payroll.StatusCalculated
		pp, err = s.payrollRepo.UpdatePeriodStatus(ctx, pp)
		if err != nil {
			return err
		}

		after := string(pp.Status)
		_, err = s.auditRepo.Append(ctx, audit.Entry{
			Action:        audit.ActionPayrollCalculated,
			ActorID:       operatorID,
			Entity:        auditEntityPayroll,
			EntityID:      pp.ID,
			AfterStatus:   &after,
			AffectedCount: len(result.Records),
		})
		if err != nil {
			return err
		}

		result.Period = toPayrollPeriodResponse(pp)
		return nil
	})
	if err != nil {
		return payroll.CalculateResult{}, err
	}

	return result, nil
}

// GetPeriod implements payroll.CalculatorService.
func (s *calculatorService) GetPeriod(ctx context.Context, id string) (payroll.PayrollPeriodResponse, error) {
	pp, err := s.payrollRepo.GetPeriodByID(ctx, id)
	if err != nil {
		return payroll.PayrollPeriodResponse{}, err
	}
	return toPayrollPeriodResponse(pp), nil
}

// ListRecords implements payroll.CalculatorService.
func (s *calculatorService) ListRecords(ctx context.Context, payrollPeriodID string) ([]payroll.PayrollRecordResponse, error) {
	if _, err := s.payrollRepo.GetPeriodByID(ctx, payrollPeriodID); err != nil {
		return nil, err
	}

	records, err := s.payrollRepo.ListRecordsByPeriodID(ctx, payrollPeriodID)
	if err != nil {
		return nil, err
	}

	responses := make([]payroll.PayrollRecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toPayrollRecordResponse(rec))
	}
	return responses, nil
}

// ========================================
// APPROVAL
// ========================================

// Approve implements payroll.CalculatorService. Approving payroll also locks
// the source attendance period so its records can never drift from the
// approved numbers.
func (s *calculatorService) Approve(ctx context.Context, payrollPeriodID, operatorID string) (payroll.PayrollPeriodResponse, error) {
	var approved payroll.PayrollPeriod

	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		pp, err := s.payrollRepo.GetPeriodByIDForUpdate(ctx, payrollPeriodID)
		if err != nil {
			return err
		}
		if pp.Status == payroll.StatusApproved {
			return payroll.ErrPayrollAlreadyApproved
		}
		if pp.Status != payroll.StatusCalculated {
			return payroll.ErrPayrollNotCalculated
		}

		now := time.Now().UTC()
		beforePayroll := string(pp.Status)
		pp.Status = payroll.StatusApproved
		pp.ApprovedBy = &operatorID
		pp.ApprovedAt = &now

		approved, err = s.payrollRepo.UpdatePeriodStatus(ctx, pp)
		if err != nil {
			return err
		}

		source, err := s.periodRepo.GetByIDForUpdate(ctx, pp.AttendancePeriodID)
		if err != nil {
			return err
		}

		afterPayroll := string(approved.Status)
		_, err = s.auditRepo.Append(ctx, audit.Entry{
			Action:       audit.ActionPayrollApproved,
			ActorID:      operatorID,
			Entity:       auditEntityPayroll,
			EntityID:     approved.ID,
			BeforeStatus: &beforePayroll,
			AfterStatus:  &afterPayroll,
		})
		if err != nil {
			return err
		}

		if source.Status == period.StatusLocked {
			return nil
		}

		beforeSource := string(source.Status)
		source.Status = period.StatusLocked
		locked, err := s.periodRepo.UpdateStatus(ctx, source)
		if err != nil {
			return err
		}

		afterSource := string(locked.Status)
		_, err = s.auditRepo.Append(ctx, audit.Entry{
			Action:       audit.ActionPeriodLocked,
			ActorID:      operatorID,
			Entity:       "attendance_periods",
			EntityID:     locked.ID,
			BeforeStatus: &beforeSource,
			AfterStatus:  &afterSource,
		})
		return err
	})
	if err != nil {
		return payroll.PayrollPeriodResponse{}, err
	}

	return toPayrollPeriodResponse(approved), nil
}

// ========================================
// HELPERS
// ========================================

// resolveRates applies the fallback chain: per-staff config entry, then the
// config default, then the rates stored on the staff row.
func resolveRates(cfg payroll.RateConfig, member staff.Staff) (payroll.StaffRates, error) {
	if rates, ok := cfg.Rates[member.ID]; ok {
		return rates, nil
	}
	if cfg.Default != nil {
		return *cfg.Default, nil
	}
	if member.StandardRate != nil && member.OvertimeRate != nil {
		return payroll.StaffRates{
			StandardRate: *member.StandardRate,
			OvertimeRate: *member.OvertimeRate,
		}, nil
	}
	return payroll.StaffRates{}, fmt.Errorf("%w: %s", payroll.ErrMissingRate, member.FullName)
}

func toPayrollPeriodResponse(pp payroll.PayrollPeriod) payroll.PayrollPeriodResponse {
	resp := payroll.PayrollPeriodResponse{
		ID:                 pp.ID,
		AttendancePeriodID: pp.AttendancePeriodID,
		Status:             string(pp.Status),
		CalculatedBy:       pp.CalculatedBy,
		ApprovedBy:         pp.ApprovedBy,
	}
	if pp.CalculatedAt != nil {
		s := pp.CalculatedAt.Format(time.RFC3339)
		resp.CalculatedAt = &s
	}
	if pp.ApprovedAt != nil {
		s := pp.ApprovedAt.Format(time.RFC3339)
		resp.ApprovedAt = &s
	}
	return resp
}

func toPayrollRecordResponse(rec payroll.PayrollRecord) payroll.PayrollRecordResponse {
	return payroll.PayrollRecordResponse{
		ID:              rec.ID,
		PayrollPeriodID: rec.PayrollPeriodID,
		StaffID:         rec.StaffID,
		StaffName:       rec.StaffName,
		StandardHours:   rec.StandardHours,
		OvertimeHours:   rec.OvertimeHours,
		StandardRate:    rec.StandardRate,
		OvertimeRate:    rec.OvertimeRate,
		GrossPay:        rec.GrossPay,
		CalculationData: rec.CalculationData,
	}
}
