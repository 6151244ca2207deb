package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/domain/audit"
	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/domain/staff"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/chronohr/attendance-backend-go/internal/pkg/terminal"
	"github.com/chronohr/attendance-backend-go/internal/pkg/validator"
	"github.com/chronohr/attendance-backend-go/internal/repository/postgresql"
	"github.com/google/uuid"
)

// Batch inserts are processed in fixed-size chunks to bound memory on large
// terminal exports.
const batchChunkSize = 50

// TerminalClient is the slice of the terminal gateway the ingestion service
// needs; the concrete client lives in internal/pkg/terminal.
type TerminalClient interface {
	FetchPunchLogs(ctx context.Context, start, end time.Time) ([]terminal.PunchEvent, error)
}

type ingestionService struct {
	db           *database.DB
	recordRepo   attendance.RecordRepository
	staffRepo    staff.StaffRepository
	auditRepo    audit.TrailRepository
	lifecycleSvc period.LifecycleService
	terminal     TerminalClient
}

func NewIngestionService(
	db *database.DB,
	recordRepo attendance.RecordRepository,
	staffRepo staff.StaffRepository,
	auditRepo audit.TrailRepository,
	lifecycleSvc period.LifecycleService,
	terminalClient TerminalClient,
) attendance.IngestionService {
	return &ingestionService{
		db:           db,
		recordRepo:   recordRepo,
		staffRepo:    staffRepo,
		auditRepo:    auditRepo,
		lifecycleSvc: lifecycleSvc,
		terminal:     terminalClient,
	}
}

// ========================================
// INGESTION
// ========================================

// CreateRecord implements attendance.IngestionService.
func (s *ingestionService) CreateRecord(ctx context.Context, input attendance.CreateRecordInput, operatorID string) (attendance.RecordResponse, error) {
	rec, err := s.createOne(ctx, input, operatorID, time.Now().UTC())
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	return toRecordResponse(rec), nil
}

// CreateRecordsBatch implements attendance.IngestionService. Every input is
// attempted independently; one bad row never aborts the rest.
func (s *ingestionService) CreateRecordsBatch(ctx context.Context, inputs []attendance.CreateRecordInput, operatorID string) (attendance.BatchResult, error) {
	result := attendance.BatchResult{
		Created: []attendance.RecordResponse{},
		Errors:  []attendance.IngestError{},
	}
	fetchedAt := time.Now().UTC()

	for start := 0; start < len(inputs); start += batchChunkSize {
		end := start + batchChunkSize
		if end > len(inputs) {
			end = len(inputs)
		}

		for _, input := range inputs[start:end] {
			rec, err := s.createOne(ctx, input, operatorID, fetchedAt)
			if err != nil {
				result.Errors = append(result.Errors, classifyIngestError(err, input))
				continue
			}
			result.Created = append(result.Created, toRecordResponse(rec))
		}
	}

	return result, nil
}

// RecordExists implements attendance.IngestionService.
func (s *ingestionService) RecordExists(ctx context.Context, staffID string, date time.Time, transactionID string) (bool, error) {
	return s.recordRepo.Exists(ctx, staffID, date, transactionID)
}

// createOne validates, maps the device employee ID to an active staff member
// and inserts. The unique index turns re-ingestion into ErrDuplicateRecord.
func (s *ingestionService) createOne(ctx context.Context, input attendance.CreateRecordInput, operatorID string, fetchedAt time.Time) (attendance.Record, error) {
	if err := input.Validate(); err != nil {
		return attendance.Record{}, err
	}

	member, err := s.staffRepo.GetActiveByDeviceEmployeeID(ctx, input.DeviceEmployeeID)
	if err != nil {
		return attendance.Record{}, err
	}

	date, _ := validator.IsValidDate(input.Date)

	clockIn, err := parseOptionalTime(input.ClockIn)
	if err != nil {
		return attendance.Record{}, err
	}
	clockOut, err := parseOptionalTime(input.ClockOut)
	if err != nil {
		return attendance.Record{}, err
	}

	rec := attendance.Record{
		StaffID:          member.ID,
		DeviceEmployeeID: input.DeviceEmployeeID,
		Date:             date,
		ClockIn:          clockIn,
		ClockOut:         clockOut,
		TotalHours:       attendance.ComputeTotalHours(clockIn, clockOut),
		TransactionID:    input.TransactionID,
		FetchedAt:        fetchedAt,
		FetchedByID:      operatorID,
		StaffName:        &member.FullName,
	}

	created, err := s.recordRepo.Create(ctx, rec)
	if err != nil {
		return attendance.Record{}, err
	}
	created.StaffName = &member.FullName

	return created, nil
}

// ========================================
// TERMINAL FETCH
// ========================================

// FetchFromTerminal implements attendance.IngestionService.
func (s *ingestionService) FetchFromTerminal(ctx context.Context, req attendance.FetchRequest, operatorID string) (attendance.FetchResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.FetchResult{}, err
	}

	start, _ := validator.IsValidDate(req.StartDate)
	end, _ := validator.IsValidDate(req.EndDate)

	events, err := s.terminal.FetchPunchLogs(ctx, start, end)
	if err != nil {
		return attendance.FetchResult{}, fmt.Errorf("failed to fetch punch logs: %w", err)
	}

	fetchedAt := time.Now().UTC()
	result := attendance.FetchResult{
		FetchID: uuid.New().String(),
		Records: []attendance.RecordResponse{},
		Errors:  []attendance.IngestError{},
		Summary: attendance.FetchSummary{
			StartDate:   req.StartDate,
			EndDate:     req.EndDate,
			FetchedAt:   fetchedAt.Format(time.RFC3339),
			FetchedByID: operatorID,
		},
	}

	for _, input := range deriveDailyRecords(events) {
		result.TotalRecordsProcessed++

		rec, err := s.createOne(ctx, input, operatorID, fetchedAt)
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateRecord) {
				result.RecordsSkipped++
				continue
			}

			ingestErr := classifyIngestError(err, input)
			result.RecordsWithErrors++
			switch ingestErr.Type {
			case attendance.IngestErrorMapping:
				result.EmployeeMappingErrors++
			case attendance.IngestErrorValidation:
				result.ValidationErrors++
			}
			result.Errors = append(result.Errors, ingestErr)
			continue
		}

		result.RecordsCreated++
		result.Records = append(result.Records, toRecordResponse(rec))
	}

	slog.Info("Terminal fetch completed",
		"fetch_id", result.FetchID,
		"processed", result.TotalRecordsProcessed,
		"created", result.RecordsCreated,
		"skipped", result.RecordsSkipped,
		"errors", result.RecordsWithErrors)

	return result, nil
}

// ========================================
// QUERY / EDIT
// ========================================

// ListRecords implements attendance.IngestionService.
func (s *ingestionService) ListRecords(ctx context.Context, filter attendance.RecordFilter) (attendance.ListRecordsResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	records, total, err := s.recordRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListRecordsResponse{}, err
	}

	responses := make([]attendance.RecordResponse, 0, len(records))
	for _, rec := range records {
		responses = append(responses, toRecordResponse(rec))
	}

	return attendance.ListRecordsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    responses,
	}, nil
}

// UpdateRecord implements attendance.IngestionService. Edits are refused when
// the owning period is finalized or locked.
func (s *ingestionService) UpdateRecord(ctx context.Context, req attendance.UpdateRecordRequest, operatorID string) (attendance.RecordResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.RecordResponse{}, err
	}

	rec, err := s.recordRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	editability, err := s.lifecycleSvc.ValidateRecordEditability(ctx, rec.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}
	if !editability.CanEdit {
		// Records in a locked period also carry finalized=true, so the
		// refusal reason is what tells the two states apart.
		if editability.Reason == period.ReasonLockedPeriod {
			return attendance.RecordResponse{}, attendance.ErrRecordLocked
		}
		return attendance.RecordResponse{}, attendance.ErrRecordFinalized
	}

	if req.ClockIn != nil {
		clockIn, err := parseOptionalTime(req.ClockIn)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		rec.ClockIn = clockIn
	}
	if req.ClockOut != nil {
		clockOut, err := parseOptionalTime(req.ClockOut)
		if err != nil {
			return attendance.RecordResponse{}, err
		}
		rec.ClockOut = clockOut
	}
	rec.TotalHours = attendance.ComputeTotalHours(rec.ClockIn, rec.ClockOut)

	if req.HasConflict != nil {
		rec.HasConflict = *req.HasConflict
	}
	if req.ApprovalPending != nil {
		rec.ApprovalPending = *req.ApprovalPending
	}

	if err := s.recordRepo.Update(ctx, rec); err != nil {
		return attendance.RecordResponse{}, err
	}

	updated, err := s.recordRepo.GetByID(ctx, rec.ID)
	if err != nil {
		return attendance.RecordResponse{}, err
	}

	return toRecordResponse(updated), nil
}

// ========================================
// RETENTION
// ========================================

// PurgeOlderThan implements attendance.IngestionService.
func (s *ingestionService) PurgeOlderThan(ctx context.Context, cutoff time.Time, operatorID string) (int64, error) {
	var purged int64

	err := postgresql.WithTransaction(ctx, s.db, func(ctx context.Context) error {
		var err error
		purged, err = s.recordRepo.PurgeOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}

		_, err = s.auditRepo.Append(ctx, audit.Entry{
			Action:        audit.ActionRecordsPurged,
			ActorID:       operatorID,
			Entity:        "attendance_records",
			EntityID:      cutoff.Format("2006-01-02"),
			AffectedCount: int(purged),
		})
		return err
	})
	if err != nil {
		return 0, err
	}

	return purged, nil
}

// ========================================
// HELPERS
// ========================================

func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, valid := validator.IsValidDateTime(*value)
	if !valid {
		return nil, validator.ValidationErrors{{
			Field:   "clock_time",
			Message: "timestamp must be RFC3339",
		}}
	}
	t = t.UTC()
	return &t, nil
}

func toRecordResponse(rec attendance.Record) attendance.RecordResponse {
	resp := attendance.RecordResponse{
		ID:               rec.ID,
		StaffID:          rec.StaffID,
		StaffName:        rec.StaffName,
		DeviceEmployeeID: rec.DeviceEmployeeID,
		Date:             rec.Date.Format("2006-01-02"),
		TransactionID:    rec.TransactionID,
		PeriodID:         rec.PeriodID,
		Finalized:        rec.Finalized,
		HasConflict:      rec.HasConflict,
		ApprovalPending:  rec.ApprovalPending,
		FetchedAt:        rec.FetchedAt.Format(time.RFC3339),
		FetchedByID:      rec.FetchedByID,
	}
	if rec.ClockIn != nil {
		s := rec.ClockIn.Format(time.RFC3339)
		resp.ClockIn = &s
	}
	if rec.ClockOut != nil {
		s := rec.ClockOut.Format(time.RFC3339)
		resp.ClockOut = &s
	}
	if rec.TotalHours != nil {
		s := rec.TotalHours.String()
		resp.TotalHours = &s
	}
	return resp
}

func classifyIngestError(err error, input attendance.CreateRecordInput) attendance.IngestError {
	ingestErr := attendance.IngestError{
		Message: err.Error(),
	}
	if input.DeviceEmployeeID != "" {
		ingestErr.EmployeeID = &input.DeviceEmployeeID
	}
	if input.TransactionID != "" {
		ingestErr.TransactionID = &input.TransactionID
	}

	var validationErrs validator.ValidationErrors
	switch {
	case errors.As(err, &validationErrs):
		ingestErr.Type = attendance.IngestErrorValidation
	case errors.Is(err, staff.ErrStaffNotFound):
		ingestErr.Type = attendance.IngestErrorMapping
		ingestErr.Message = fmt.Sprintf("no active staff mapped to device employee ID %q", input.DeviceEmployeeID)
	case errors.Is(err, attendance.ErrDuplicateRecord):
		ingestErr.Type = attendance.IngestErrorDuplicate
	default:
		ingestErr.Type = attendance.IngestErrorInternal
	}

	return ingestErr
}
