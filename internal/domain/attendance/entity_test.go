package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotalHours(t *testing.T) {
	clockIn := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	clockOut := time.Date(2024, 1, 15, 17, 30, 0, 0, time.UTC)

	hours := ComputeTotalHours(&clockIn, &clockOut)
	assert.NotNil(t, hours)
	assert.Equal(t, "8.5", hours.String())
}

func TestComputeTotalHoursMissingTimestamp(t *testing.T) {
	clockIn := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	assert.Nil(t, ComputeTotalHours(&clockIn, nil))
	assert.Nil(t, ComputeTotalHours(nil, &clockIn))
	assert.Nil(t, ComputeTotalHours(nil, nil))
}

func TestComputeTotalHoursClockOutBeforeClockIn(t *testing.T) {
	clockIn := time.Date(2024, 1, 15, 17, 0, 0, 0, time.UTC)
	clockOut := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)

	hours := ComputeTotalHours(&clockIn, &clockOut)
	assert.NotNil(t, hours)
	assert.True(t, hours.IsZero())
}

func TestCreateRecordInputValidate(t *testing.T) {
	clockIn := "2024-01-15T09:00:00Z"
	valid := CreateRecordInput{
		DeviceEmployeeID: "101",
		Date:             "2024-01-15",
		ClockIn:          &clockIn,
		TransactionID:    "101-20240115-2",
	}
	assert.NoError(t, valid.Validate())

	bad := CreateRecordInput{Date: "15-01-2024"}
	err := bad.Validate()
	assert.Error(t, err)
	// Every problem is reported, not just the first.
	assert.Contains(t, err.Error(), "device_employee_id")
	assert.Contains(t, err.Error(), "date")
	assert.Contains(t, err.Error(), "transaction_id")
}

func TestFetchRequestValidate(t *testing.T) {
	valid := FetchRequest{StartDate: "2024-01-01", EndDate: "2024-01-31"}
	assert.NoError(t, valid.Validate())

	inverted := FetchRequest{StartDate: "2024-01-31", EndDate: "2024-01-01"}
	err := inverted.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "end_date must not be before start_date")
}

func TestRecordFilterValidateDefaults(t *testing.T) {
	filter := RecordFilter{}
	assert.NoError(t, filter.Validate())
	assert.Equal(t, 1, filter.Page)
	assert.Equal(t, 50, filter.Limit)

	tooLarge := RecordFilter{Limit: 500}
	assert.Error(t, tooLarge.Validate())
}
