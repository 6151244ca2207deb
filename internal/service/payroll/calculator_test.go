package payroll

import (
	"testing"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	dailyEight  = decimal.NewFromInt(8)
	weeklyForty = decimal.NewFromInt(40)
)

func record(id string, date string, hours float64) attendance.Record {
	d, err := time.Parse("2006-01-02", date)
	if err != nil {
		panic(err)
	}
	h := decimal.NewFromFloat(hours)
	return attendance.Record{ID: id, Date: d, TotalHours: &h}
}

func TestSplitHoursDailyOvertime(t *testing.T) {
	periodStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		record("r1", "2024-01-01", 9),
	}

	result := splitHours(records, periodStart, dailyEight, weeklyForty)

	assert.Equal(t, "8", result.standardHours.String())
	assert.Equal(t, "1", result.overtimeHours.String())
	require.Len(t, result.dailyBreakdown, 1)
	assert.Equal(t, "9", result.dailyBreakdown[0].TotalHours.String())
}

func TestSplitHoursNoOvertimeUnderThresholds(t *testing.T) {
	periodStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		record("r1", "2024-01-01", 8),
		record("r2", "2024-01-02", 7.5),
	}

	result := splitHours(records, periodStart, dailyEight, weeklyForty)

	assert.Equal(t, "15.5", result.standardHours.String())
	assert.True(t, result.overtimeHours.IsZero())
}

func TestSplitHoursWeeklyOvertimeWins(t *testing.T) {
	// Five 9-hour days: daily overtime alone is 5h, weekly excess is also 5h
	// (45 - 40); the larger amount applies once, never both.
	periodStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		record("r1", "2024-01-01", 9),
		record("r2", "2024-01-02", 9),
		record("r3", "2024-01-03", 9),
		record("r4", "2024-01-04", 9),
		record("r5", "2024-01-05", 9),
	}

	result := splitHours(records, periodStart, dailyEight, weeklyForty)

	assert.Equal(t, "40", result.standardHours.String())
	assert.Equal(t, "5", result.overtimeHours.String())
}

func TestSplitHoursWeeklyExceedsDaily(t *testing.T) {
	// Six 8-hour days never cross the daily threshold, but 48 > 40 weekly:
	// the 8 excess hours convert starting from the last day.
	periodStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		record("r1", "2024-01-01", 8),
		record("r2", "2024-01-02", 8),
		record("r3", "2024-01-03", 8),
		record("r4", "2024-01-04", 8),
		record("r5", "2024-01-05", 8),
		record("r6", "2024-01-06", 8),
	}

	result := splitHours(records, periodStart, dailyEight, weeklyForty)

	assert.Equal(t, "40", result.standardHours.String())
	assert.Equal(t, "8", result.overtimeHours.String())

	last := result.dailyBreakdown[5]
	assert.True(t, last.StandardHours.IsZero())
	assert.Equal(t, "8", last.OvertimeHours.String())
}

func TestSplitHoursSecondWeekIndependent(t *testing.T) {
	// Day 8 falls in the second 7-day window; the first week's totals must
	// not spill over.
	periodStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		record("r1", "2024-01-01", 10),
		record("r8", "2024-01-08", 10),
	}

	result := splitHours(records, periodStart, dailyEight, weeklyForty)

	assert.Equal(t, "16", result.standardHours.String())
	assert.Equal(t, "4", result.overtimeHours.String())
}

func TestSplitHoursTreatsMissingHoursAsZero(t *testing.T) {
	periodStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		{ID: "r1", Date: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		record("r2", "2024-01-02", 8),
	}

	result := splitHours(records, periodStart, dailyEight, weeklyForty)

	assert.Equal(t, "8", result.standardHours.String())
	assert.True(t, result.overtimeHours.IsZero())
	assert.Equal(t, []string{"r1", "r2"}, result.recordIDs)
}

func TestSplitHoursSortsByDate(t *testing.T) {
	periodStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	records := []attendance.Record{
		record("r2", "2024-01-02", 8),
		record("r1", "2024-01-01", 8),
	}

	result := splitHours(records, periodStart, dailyEight, weeklyForty)

	require.Len(t, result.dailyBreakdown, 2)
	assert.Equal(t, "2024-01-01", result.dailyBreakdown[0].Date)
	assert.Equal(t, []string{"r1", "r2"}, result.recordIDs)
}
