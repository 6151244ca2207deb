package attendance

import (
	"fmt"
	"sort"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/pkg/terminal"
)

// dayKey groups punches belonging to the same employee on the same calendar
// day (UTC).
type dayKey struct {
	employeeID string
	date       string // YYYY-MM-DD
}

// derivedDay is the collapsed view of one employee's punches for one day:
// earliest check-in, latest check-out.
type derivedDay struct {
	key      dayKey
	clockIn  *time.Time
	clockOut *time.Time
	punches  int
}

// deriveDailyRecords collapses raw punch events into one record input per
// (employee, day). Repeated check-ins keep the earliest, repeated check-outs
// keep the latest; unknown states are ignored. The synthesized transaction ID
// is a pure function of the group, so re-fetching the same window derives the
// same IDs and dedup holds.
func deriveDailyRecords(events []terminal.PunchEvent) []attendance.CreateRecordInput {
	days := make(map[dayKey]*derivedDay)

	for _, ev := range events {
		ts := ev.Timestamp.UTC()
		key := dayKey{
			employeeID: ev.ExternalEmployeeID,
			date:       ts.Format("2006-01-02"),
		}

		day, ok := days[key]
		if !ok {
			day = &derivedDay{key: key}
			days[key] = day
		}
		day.punches++

		switch ev.State {
		case terminal.StateCheckIn:
			if day.clockIn == nil || ts.Before(*day.clockIn) {
				t := ts
				day.clockIn = &t
			}
		case terminal.StateCheckOut:
			if day.clockOut == nil || ts.After(*day.clockOut) {
				t := ts
				day.clockOut = &t
			}
		}
	}

	ordered := make([]*derivedDay, 0, len(days))
	for _, day := range days {
		ordered = append(ordered, day)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].key.employeeID != ordered[j].key.employeeID {
			return ordered[i].key.employeeID < ordered[j].key.employeeID
		}
		return ordered[i].key.date < ordered[j].key.date
	})

	inputs := make([]attendance.CreateRecordInput, 0, len(ordered))
	for _, day := range ordered {
		input := attendance.CreateRecordInput{
			DeviceEmployeeID: day.key.employeeID,
			Date:             day.key.date,
			TransactionID:    deriveTransactionID(day),
		}
		if day.clockIn != nil {
			s := day.clockIn.Format(time.RFC3339)
			input.ClockIn = &s
		}
		if day.clockOut != nil {
			s := day.clockOut.Format(time.RFC3339)
			input.ClockOut = &s
		}
		inputs = append(inputs, input)
	}

	return inputs
}

func deriveTransactionID(day *derivedDay) string {
	compact := day.key.date[:4] + day.key.date[5:7] + day.key.date[8:10]
	return fmt.Sprintf("%s-%s-%d", day.key.employeeID, compact, day.punches)
}
