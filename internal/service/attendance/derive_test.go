package attendance

import (
	"testing"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/pkg/terminal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func punch(employeeID string, ts string, state int) terminal.PunchEvent {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		panic(err)
	}
	return terminal.PunchEvent{
		ExternalEmployeeID: employeeID,
		Timestamp:          t,
		State:              state,
	}
}

func TestDeriveDailyRecordsGroupsPerEmployeeDay(t *testing.T) {
	events := []terminal.PunchEvent{
		punch("101", "2024-01-15T08:58:00Z", terminal.StateCheckIn),
		punch("101", "2024-01-15T17:05:00Z", terminal.StateCheckOut),
		punch("102", "2024-01-15T09:10:00Z", terminal.StateCheckIn),
		punch("101", "2024-01-16T09:01:00Z", terminal.StateCheckIn),
	}

	inputs := deriveDailyRecords(events)
	require.Len(t, inputs, 3)

	first := inputs[0]
	assert.Equal(t, "101", first.DeviceEmployeeID)
	assert.Equal(t, "2024-01-15", first.Date)
	require.NotNil(t, first.ClockIn)
	require.NotNil(t, first.ClockOut)
	assert.Equal(t, "2024-01-15T08:58:00Z", *first.ClockIn)
	assert.Equal(t, "2024-01-15T17:05:00Z", *first.ClockOut)

	// Check-in only day yields a record with no clock-out.
	third := inputs[2]
	assert.Equal(t, "102", third.DeviceEmployeeID)
	require.NotNil(t, third.ClockIn)
	assert.Nil(t, third.ClockOut)
}

func TestDeriveDailyRecordsEarliestInLatestOut(t *testing.T) {
	events := []terminal.PunchEvent{
		punch("101", "2024-01-15T12:00:00Z", terminal.StateCheckIn),
		punch("101", "2024-01-15T08:58:00Z", terminal.StateCheckIn),
		punch("101", "2024-01-15T13:00:00Z", terminal.StateCheckOut),
		punch("101", "2024-01-15T17:05:00Z", terminal.StateCheckOut),
	}

	inputs := deriveDailyRecords(events)
	require.Len(t, inputs, 1)
	assert.Equal(t, "2024-01-15T08:58:00Z", *inputs[0].ClockIn)
	assert.Equal(t, "2024-01-15T17:05:00Z", *inputs[0].ClockOut)
}

func TestDeriveDailyRecordsDeterministicTransactionID(t *testing.T) {
	events := []terminal.PunchEvent{
		punch("101", "2024-01-15T08:58:00Z", terminal.StateCheckIn),
		punch("101", "2024-01-15T17:05:00Z", terminal.StateCheckOut),
	}

	// Re-deriving the same window must yield the same transaction IDs so the
	// uniqueness constraint absorbs repeated fetches.
	a := deriveDailyRecords(events)
	b := deriveDailyRecords(events)
	require.Len(t, a, 1)
	require.Len(t, b, 1)
	assert.Equal(t, a[0].TransactionID, b[0].TransactionID)
	assert.Equal(t, "101-20240115-2", a[0].TransactionID)
}

func TestDeriveDailyRecordsIgnoresUnknownStates(t *testing.T) {
	events := []terminal.PunchEvent{
		punch("101", "2024-01-15T08:58:00Z", 5),
	}

	inputs := deriveDailyRecords(events)
	require.Len(t, inputs, 1)
	assert.Nil(t, inputs[0].ClockIn)
	assert.Nil(t, inputs[0].ClockOut)
}
