package period

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/period"
	"github.com/chronohr/attendance-backend-go/internal/pkg/database"
	"github.com/chronohr/attendance-backend-go/internal/repository/postgresql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPeriodDB *database.DB

const testOperator = "test-operator"

func periodTestInit(t *testing.T) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	if testPeriodDB != nil {
		return
	}

	var err error
	testPeriodDB, err = database.NewPostgreSQLDB(dsn)
	require.NoError(t, err, "failed to connect to test database")

	schema, err := os.ReadFile("../../../migrations/001_init.sql")
	require.NoError(t, err)
	_, err = testPeriodDB.Exec(context.Background(), string(schema))
	require.NoError(t, err)
}

func truncatePeriodTables(t *testing.T, ctx context.Context) {
	t.Helper()
	tables := []string{"payroll_records", "payroll_periods", "audit_log", "attendance_records", "attendance_periods", "staff"}
	for _, table := range tables {
		_, err := testPeriodDB.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err)
	}
}

func newTestLifecycleService() period.LifecycleService {
	periodRepo := postgresql.NewPeriodRepository(testPeriodDB)
	recordRepo := postgresql.NewAttendanceRepository(testPeriodDB)
	auditRepo := postgresql.NewAuditRepository(testPeriodDB)
	return NewLifecycleService(testPeriodDB, periodRepo, recordRepo, auditRepo)
}

func createTestStaff(t *testing.T, ctx context.Context, deviceEmployeeID string) string {
	t.Helper()
	var id string
	err := testPeriodDB.QueryRow(ctx, `
		INSERT INTO staff (full_name, device_employee_id, employment_status)
		VALUES ('Test Staff', $1, 'active')
		RETURNING id
	`, deviceEmployeeID).Scan(&id)
	require.NoError(t, err)
	return id
}

type testRecordOpts struct {
	hasConflict     bool
	approvalPending bool
	missingClocks   bool
}

func createTestRecord(t *testing.T, ctx context.Context, staffID, date string, opts testRecordOpts) string {
	t.Helper()

	day, err := time.Parse("2006-01-02", date)
	require.NoError(t, err)

	var clockIn, clockOut interface{}
	if !opts.missingClocks {
		in := day.Add(9 * time.Hour)
		out := day.Add(17 * time.Hour)
		clockIn, clockOut = in, out
	}

	var id string
	err = testPeriodDB.QueryRow(ctx, `
		INSERT INTO attendance_records (
			staff_id, device_employee_id, date, clock_in, clock_out, total_hours,
			transaction_id, has_conflict, approval_pending, fetched_at, fetched_by_id
		) VALUES ($1, '101', $2, $3, $4, 8, $5, $6, $7, NOW(), $8)
		RETURNING id
	`, staffID, day, clockIn, clockOut,
		fmt.Sprintf("%s-%s-%d", staffID[:8], date, time.Now().UnixNano()),
		opts.hasConflict, opts.approvalPending, testOperator,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func TestCreatePeriodRejectsOverlap(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	_, err := svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, testOperator)
	require.NoError(t, err)

	_, err = svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-15",
		EndDate:   "2024-02-15",
	}, testOperator)
	assert.ErrorIs(t, err, period.ErrPeriodOverlap)
}

func TestCreatePeriodOverlapConstraintBackstop(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	_, err := svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, testOperator)
	require.NoError(t, err)

	// Insert directly, the way a creator that raced past the overlap probe
	// would. The range exclusion constraint still rejects the row.
	repo := postgresql.NewPeriodRepository(testPeriodDB)
	_, err = repo.Create(ctx, period.Period{
		StartDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		Status:    period.StatusPending,
		CreatedBy: testOperator,
	})
	assert.ErrorIs(t, err, period.ErrPeriodOverlap)
}

func TestCreatePeriodAssociatesRecordsInRange(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	staffID := createTestStaff(t, ctx, "101")
	inRange := createTestRecord(t, ctx, staffID, "2024-01-10", testRecordOpts{})
	outOfRange := createTestRecord(t, ctx, staffID, "2024-02-10", testRecordOpts{})

	created, err := svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, testOperator)
	require.NoError(t, err)
	assert.Equal(t, string(period.StatusPending), created.Status)

	recordRepo := postgresql.NewAttendanceRepository(testPeriodDB)

	rec, err := recordRepo.GetByID(ctx, inRange)
	require.NoError(t, err)
	require.NotNil(t, rec.PeriodID)
	assert.Equal(t, created.ID, *rec.PeriodID)

	rec, err = recordRepo.GetByID(ctx, outOfRange)
	require.NoError(t, err)
	assert.Nil(t, rec.PeriodID)
}

func TestValidatePeriodForFinalizationReportsAllIssues(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	staffID := createTestStaff(t, ctx, "101")
	createTestRecord(t, ctx, staffID, "2024-01-02", testRecordOpts{hasConflict: true})
	createTestRecord(t, ctx, staffID, "2024-01-03", testRecordOpts{hasConflict: true})
	createTestRecord(t, ctx, staffID, "2024-01-04", testRecordOpts{approvalPending: true})
	createTestRecord(t, ctx, staffID, "2024-01-05", testRecordOpts{missingClocks: true})
	createTestRecord(t, ctx, staffID, "2024-01-06", testRecordOpts{missingClocks: true})
	createTestRecord(t, ctx, staffID, "2024-01-07", testRecordOpts{missingClocks: true})
	createTestRecord(t, ctx, staffID, "2024-01-08", testRecordOpts{missingClocks: true})

	check, err := svc.ValidatePeriodForFinalization(ctx, "2024-01-01", "2024-01-31")
	require.NoError(t, err)

	assert.False(t, check.CanFinalize)
	require.Len(t, check.Issues, 3)

	counts := map[string]int{}
	for _, issue := range check.Issues {
		counts[issue.Type] = issue.Count
	}
	assert.Equal(t, 2, counts[period.IssueUnresolvedConflicts])
	assert.Equal(t, 1, counts[period.IssuePendingApprovals])
	assert.Equal(t, 4, counts[period.IssueMissingData])
}

func TestFinalizePeriodBlockedByIssues(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	staffID := createTestStaff(t, ctx, "101")
	conflicted := createTestRecord(t, ctx, staffID, "2024-01-10", testRecordOpts{hasConflict: true})

	created, err := svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, testOperator)
	require.NoError(t, err)

	result, err := svc.FinalizePeriod(ctx, created.ID, testOperator)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)

	// The abort must leave no record mutations behind.
	recordRepo := postgresql.NewAttendanceRepository(testPeriodDB)
	rec, err := recordRepo.GetByID(ctx, conflicted)
	require.NoError(t, err)
	assert.False(t, rec.Finalized)

	got, err := svc.GetPeriod(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(period.StatusPending), got.Status)
}

func TestFinalizePeriodThenEditability(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	staffID := createTestStaff(t, ctx, "101")
	recordIDs := make([]string, 0, 10)
	for day := 1; day <= 10; day++ {
		id := createTestRecord(t, ctx, staffID, fmt.Sprintf("2024-01-%02d", day), testRecordOpts{})
		recordIDs = append(recordIDs, id)
	}

	created, err := svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, testOperator)
	require.NoError(t, err)

	result, err := svc.FinalizePeriod(ctx, created.ID, testOperator)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 10, result.AffectedRecordCount)
	require.NotNil(t, result.Period)
	assert.Equal(t, string(period.StatusFinalized), result.Period.Status)

	for _, id := range recordIDs {
		editability, err := svc.ValidateRecordEditability(ctx, id)
		require.NoError(t, err)
		assert.False(t, editability.CanEdit)
		assert.Contains(t, editability.Reason, "finalized")
	}

	// Re-finalizing is a status conflict.
	_, err = svc.FinalizePeriod(ctx, created.ID, testOperator)
	assert.ErrorIs(t, err, period.ErrPeriodNotPending)
}

func TestUnlockPeriod(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	staffID := createTestStaff(t, ctx, "101")
	recordID := createTestRecord(t, ctx, staffID, "2024-01-10", testRecordOpts{})

	created, err := svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, testOperator)
	require.NoError(t, err)

	result, err := svc.FinalizePeriod(ctx, created.ID, testOperator)
	require.NoError(t, err)
	require.True(t, result.Success)

	// Empty reason short-circuits before any write.
	_, err = svc.UnlockPeriod(ctx, created.ID, testOperator, "")
	assert.ErrorIs(t, err, period.ErrUnlockReasonMissing)

	got, err := svc.GetPeriod(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(period.StatusFinalized), got.Status)

	unlocked, err := svc.UnlockPeriod(ctx, created.ID, testOperator, "correction")
	require.NoError(t, err)
	assert.True(t, unlocked.Success)
	require.NotNil(t, unlocked.Period)
	assert.Equal(t, string(period.StatusPending), unlocked.Period.Status)
	require.NotNil(t, unlocked.Period.UnlockReason)
	assert.Equal(t, "correction", *unlocked.Period.UnlockReason)

	recordRepo := postgresql.NewAttendanceRepository(testPeriodDB)
	rec, err := recordRepo.GetByID(ctx, recordID)
	require.NoError(t, err)
	assert.False(t, rec.Finalized)

	editability, err := svc.ValidateRecordEditability(ctx, recordID)
	require.NoError(t, err)
	assert.True(t, editability.CanEdit)
}

func TestUnlockRequiresFinalizedStatus(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	created, err := svc.CreatePeriod(ctx, period.CreatePeriodRequest{
		StartDate: "2024-01-01",
		EndDate:   "2024-01-31",
	}, testOperator)
	require.NoError(t, err)

	_, err = svc.UnlockPeriod(ctx, created.ID, testOperator, "correction")
	assert.ErrorIs(t, err, period.ErrPeriodNotFinalized)
}

func TestValidateRecordEditabilityNotFound(t *testing.T) {
	periodTestInit(t)
	ctx := context.Background()
	truncatePeriodTables(t, ctx)
	svc := newTestLifecycleService()

	editability, err := svc.ValidateRecordEditability(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.False(t, editability.CanEdit)
	assert.Equal(t, "record not found", editability.Reason)
}
