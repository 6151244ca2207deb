package attendance

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/chronohr/attendance-backend-go/internal/pkg/terminal"
	"github.com/chronohr/attendance-backend-go/internal/repository/postgresql"
	periodService "github.com/chronohr/attendance-backend-go/internal/service/period"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testIngestDB *database.DB

const ingestTestOperator = "ingest-operator"

// fakeTerminal serves a fixed punch list in place of the device gateway.
type fakeTerminal struct {
	events []terminal.PunchEvent
}

func (f *fakeTerminal) FetchPunchLogs(ctx context.Context, start, end time.Time) ([]terminal.PunchEvent, error) {
	return f.events, nil
}

func ingestTestInit(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testIngestDB != nil {
		return
	}

	var err error
	testIngestDB, err = database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = testIngestDB.Exec(context.Background(), string(schema))
	require.NoError(t, err)
}

func truncateIngestTables(t *testing.T, ctx context.Context) {
	t.Helper()
	tables := []string{"payroll_records", "payroll_periods", "audit_log", "attendance_records", "attendance_periods", "staff"}
	for _, table := range tables {
		_, err := testIngestDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func newTestIngestionService(tc TerminalClient) attendance.IngestionService {
	recordRepo := postgresql.NewAttendanceRepository(testIngestDB)
	staffRepo := postgresql.NewStaffRepository(testIngestDB)
	auditRepo := postgresql.NewAuditRepository(testIngestDB)
	lifecycleSvc := periodService.NewLifecycleService(
		testIngestDB,
		postgresql.NewPeriodRepository(testIngestDB),
		recordRepo,
		auditRepo,
	)
	return NewIngestionService(testIngestDB, recordRepo, staffRepo, auditRepo, lifecycleSvc, tc)
}

func createIngestStaff(t *testing.T, ctx context.Context, deviceEmployeeID string) string {
	t.Helper()
	var id string
	err := testIngestDB.QueryRow(ctx, `
		INSERT INTO staff (full_name, device_employee_id, employment_status)
		VALUES ('Test Staff', $1, 'active')
		RETURNING id
	`, deviceEmployeeID).Scan(&id)
	require.NoError(t, err)
	return id
}

func strPtr(s string) *string { return &s }

func TestCreateRecordRejectsDuplicate(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)
	svc := newTestIngestionService(&fakeTerminal{})

	createIngestStaff(t, ctx, "101")

	input := attendance.CreateRecordInput{
		DeviceEmployeeID: "101",
		Date:             "2024-01-15",
		ClockIn:          strPtr("2024-01-15T09:00:00Z"),
		ClockOut:         strPtr("2024-01-15T17:00:00Z"),
		TransactionID:    "101-20240115-2",
	}

	created, err := svc.CreateRecord(ctx, input, ingestTestOperator)
	require.NoError(t, err)
	require.NotNil(t, created.TotalHours)
	assert.Equal(t, "8", *created.TotalHours)

	_, err = svc.CreateRecord(ctx, input, ingestTestOperator)
	assert.ErrorIs(t, err, attendance.ErrDuplicateRecord)
}

func TestCreateRecordUnknownEmployee(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)
	svc := newTestIngestionService(&fakeTerminal{})

	input := attendance.CreateRecordInput{
		DeviceEmployeeID: "999",
		Date:             "2024-01-15",
		TransactionID:    "999-20240115-1",
	}

	_, err := svc.CreateRecord(ctx, input, ingestTestOperator)
	assert.Error(t, err)
}

func TestCreateRecordsBatchIsolatesFailures(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)
	svc := newTestIngestionService(&fakeTerminal{})

	createIngestStaff(t, ctx, "101")

	inputs := []attendance.CreateRecordInput{
		{
			DeviceEmployeeID: "101",
			Date:             "2024-01-15",
			TransactionID:    "101-20240115-1",
		},
		{
			// Unmapped employee
			DeviceEmployeeID: "999",
			Date:             "2024-01-15",
			TransactionID:    "999-20240115-1",
		},
		{
			// Malformed date
			DeviceEmployeeID: "101",
			Date:             "15-01-2024",
			TransactionID:    "101-bad-1",
		},
	}

	result, err := svc.CreateRecordsBatch(ctx, inputs, ingestTestOperator)
	require.NoError(t, err)

	assert.Len(t, result.Created, 1)
	require.Len(t, result.Errors, 2)

	types := map[string]int{}
	for _, e := range result.Errors {
		types[e.Type]++
	}
	assert.Equal(t, 1, types[attendance.IngestErrorMapping])
	assert.Equal(t, 1, types[attendance.IngestErrorValidation])
}

func TestFetchFromTerminalIdempotent(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)

	createIngestStaff(t, ctx, "101")

	in := time.Date(2024, 1, 15, 8, 58, 0, 0, time.UTC)
	out := time.Date(2024, 1, 15, 17, 5, 0, 0, time.UTC)
	svc := newTestIngestionService(&fakeTerminal{events: []terminal.PunchEvent{
		{ExternalEmployeeID: "101", Timestamp: in, State: terminal.StateCheckIn},
		{ExternalEmployeeID: "101", Timestamp: out, State: terminal.StateCheckOut},
	}})

	req := attendance.FetchRequest{StartDate: "2024-01-15", EndDate: "2024-01-15"}

	first, err := svc.FetchFromTerminal(ctx, req, ingestTestOperator)
	require.NoError(t, err)
	assert.Equal(t, 1, first.TotalRecordsProcessed)
	assert.Equal(t, 1, first.RecordsCreated)
	assert.Equal(t, 0, first.RecordsSkipped)

	// The same window again converges to the same record set.
	second, err := svc.FetchFromTerminal(ctx, req, ingestTestOperator)
	require.NoError(t, err)
	assert.Equal(t, 1, second.TotalRecordsProcessed)
	assert.Equal(t, 0, second.RecordsCreated)
	assert.Equal(t, 1, second.RecordsSkipped)
	assert.Equal(t, 0, second.RecordsWithErrors)
}

func TestFetchFromTerminalCountsMappingErrors(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)

	ts := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	svc := newTestIngestionService(&fakeTerminal{events: []terminal.PunchEvent{
		{ExternalEmployeeID: "999", Timestamp: ts, State: terminal.StateCheckIn},
	}})

	result, err := svc.FetchFromTerminal(ctx, attendance.FetchRequest{
		StartDate: "2024-01-15",
		EndDate:   "2024-01-15",
	}, ingestTestOperator)
	require.NoError(t, err)

	assert.Equal(t, 1, result.RecordsWithErrors)
	assert.Equal(t, 1, result.EmployeeMappingErrors)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, attendance.IngestErrorMapping, result.Errors[0].Type)
}

func TestUpdateRecordRecomputesHours(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)
	svc := newTestIngestionService(&fakeTerminal{})

	createIngestStaff(t, ctx, "101")

	created, err := svc.CreateRecord(ctx, attendance.CreateRecordInput{
		DeviceEmployeeID: "101",
		Date:             "2024-01-15",
		ClockIn:          strPtr("2024-01-15T09:00:00Z"),
		ClockOut:         strPtr("2024-01-15T17:00:00Z"),
		TransactionID:    "101-20240115-2",
	}, ingestTestOperator)
	require.NoError(t, err)

	updated, err := svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:       created.ID,
		ClockOut: strPtr("2024-01-15T18:30:00Z"),
	}, ingestTestOperator)
	require.NoError(t, err)

	require.NotNil(t, updated.TotalHours)
	assert.Equal(t, "9.5", *updated.TotalHours)
}

func TestUpdateRecordBlockedByFinalizedPeriod(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)
	svc := newTestIngestionService(&fakeTerminal{})

	createIngestStaff(t, ctx, "101")

	created, err := svc.CreateRecord(ctx, attendance.CreateRecordInput{
		DeviceEmployeeID: "101",
		Date:             "2024-01-15",
		ClockIn:          strPtr("2024-01-15T09:00:00Z"),
		ClockOut:         strPtr("2024-01-15T17:00:00Z"),
		TransactionID:    "101-20240115-2",
	}, ingestTestOperator)
	require.NoError(t, err)

	lifecycleSvc := periodService.NewLifecycleService(
		testIngestDB,
		postgresql.NewPeriodRepository(testIngestDB),
		postgresql.NewAttendanceRepository(testIngestDB),
		postgresql.NewAuditRepository(testIngestDB),
	)
	p, err := lifecycleSvc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, ingestTestOperator)
	require.NoError(t, err)

	result, err := lifecycleSvc.FinalizePeriod(ctx, p.ID, ingestTestOperator)
	require.NoError(t, err)
	require.True(t, result.Success)

	_, err = svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:       created.ID,
		ClockOut: strPtr("2024-01-15T18:30:00Z"),
	}, ingestTestOperator)
	assert.ErrorIs(t, err, attendance.ErrRecordFinalized)
}

func TestUpdateRecordBlockedByLockedPeriod(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)
	svc := newTestIngestionService(&fakeTerminal{})

	createIngestStaff(t, ctx, "101")

	created, err := svc.CreateRecord(ctx, attendance.CreateRecordInput{
		DeviceEmployeeID: "101",
		Date:             "2024-01-15",
		ClockIn:          strPtr("2024-01-15T09:00:00Z"),
		ClockOut:         strPtr("2024-01-15T17:00:00Z"),
		TransactionID:    "101-20240115-2",
	}, ingestTestOperator)
	require.NoError(t, err)

	lifecycleSvc := periodService.NewLifecycleService(
		testIngestDB,
		postgresql.NewPeriodRepository(testIngestDB),
		postgresql.NewAttendanceRepository(testIngestDB),
		postgresql.NewAuditRepository(testIngestDB),
	)
	p, err := lifecycleSvc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, ingestTestOperator)
	require.NoError(t, err)

	result, err := lifecycleSvc.FinalizePeriod(ctx, p.ID, ingestTestOperator)
	require.NoError(t, err)
	require.True(t, result.Success)

	// Payroll approval moves the period to LOCKED; records keep the same
	// finalized flag, so only the refusal reason distinguishes the states.
	_, err = testIngestDB.Exec(ctx, `UPDATE attendance_periods SET status = 'LOCKED' WHERE id = $1`, p.ID)
	require.NoError(t, err)

	_, err = svc.UpdateRecord(ctx, attendance.UpdateRecordRequest{
		ID:       created.ID,
		ClockOut: strPtr("2024-01-15T18:30:00Z"),
	}, ingestTestOperator)
	assert.ErrorIs(t, err, attendance.ErrRecordLocked)
}

func TestPurgeOlderThan(t *testing.T) {
	ingestTestInit(t)
	ctx := context.Background()
	truncateIngestTables(t, ctx)
	svc := newTestIngestionService(&fakeTerminal{})

	createIngestStaff(t, ctx, "101")

	_, err := svc.CreateRecord(ctx, attendance.CreateRecordInput{
		DeviceEmployeeID: "101",
		Date:             "2020-06-15",
		TransactionID:    "101-20200615-1",
	}, ingestTestOperator)
	require.NoError(t, err)

	kept, err := svc.CreateRecord(ctx, attendance.CreateRecordInput{
		DeviceEmployeeID: "101",
		Date:             "2024-01-15",
		TransactionID:    "101-20240115-1",
	}, ingestTestOperator)
	require.NoError(t, err)

	purged, err := svc.PurgeOlderThan(ctx, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), ingestTestOperator)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	filter := attendance.RecordFilter{}
	remaining, err := svc.ListRecords(ctx, filter)
	require.NoError(t, err)
	require.Len(t, remaining.Records, 1)
	assert.Equal(t, kept.ID, remaining.Records[0].ID)
}
