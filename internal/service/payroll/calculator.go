package payroll

import (
	"sort"
	"time"

	"github.com/chronohr/attendance-backend-go/internal/domain/attendance"
	"github.com/chronohr/attendance-backend-go/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// employeeHours is the computed split for one employee across the period.
type employeeHours struct {
	recordIDs      []string
	dailyBreakdown []payroll.DayBreakdown
	standardHours  decimal.Decimal
	overtimeHours  decimal.Decimal
}

// splitHours computes the standard/overtime split for one employee's records.
//
// Each day first yields overtime for hours above the daily threshold. Then,
// per 7-day window counted from the period start, if the hours above the
// weekly threshold exceed the daily overtime already found, the difference
// converts standard hours to overtime. The larger of the two amounts wins per
// window; nothing is counted twice. The weekly excess is drawn from the
// latest days of the window first.
func splitHours(records []attendance.Record, periodStart time.Time, dailyThreshold, weeklyThreshold decimal.Decimal) employeeHours {
	sorted := make([]attendance.Record, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	result := employeeHours{
		standardHours: decimal.Zero,
		overtimeHours: decimal.Zero,
	}

	days := make([]payroll.DayBreakdown, 0, len(sorted))
	windows := map[int][]int{}

	for _, rec := range sorted {
		result.recordIDs = append(result.recordIDs, rec.ID)

		total := decimal.Zero
		if rec.TotalHours != nil {
			total = *rec.TotalHours
		}

		overtime := decimal.Zero
		if total.GreaterThan(dailyThreshold) {
			overtime = total.Sub(dailyThreshold)
		}

		window := int(rec.Date.Sub(periodStart).Hours() / 24 / 7)
		windows[window] = append(windows[window], len(days))

		days = append(days, payroll.DayBreakdown{
			Date:          rec.Date.Format("2006-01-02"),
			TotalHours:    total,
			StandardHours: total.Sub(overtime),
			OvertimeHours: overtime,
		})
	}

	windowKeys := make([]int, 0, len(windows))
	for w := range windows {
		windowKeys = append(windowKeys, w)
	}
	sort.Ints(windowKeys)

	for _, w := range windowKeys {
		indexes := windows[w]

		weekTotal := decimal.Zero
		weekDailyOT := decimal.Zero
		for _, i := range indexes {
			weekTotal = weekTotal.Add(days[i].TotalHours)
			weekDailyOT = weekDailyOT.Add(days[i].OvertimeHours)
		}

		weekOT := decimal.Zero
		if weekTotal.GreaterThan(weeklyThreshold) {
			weekOT = weekTotal.Sub(weeklyThreshold)
		}

		extra := weekOT.Sub(weekDailyOT)
		for i := len(indexes) - 1; i >= 0 && extra.GreaterThan(decimal.Zero); i-- {
			day := &days[indexes[i]]
			converted := decimal.Min(extra, day.StandardHours)
			day.StandardHours = day.StandardHours.Sub(converted)
			day.OvertimeHours = day.OvertimeHours.Add(converted)
			extra = extra.Sub(converted)
		}
	}

	for _, day := range days {
		result.standardHours = result.standardHours.Add(day.StandardHours)
		result.overtimeHours = result.overtimeHours.Add(day.OvertimeHours)
	}
	result.dailyBreakdown = days

	return result
}
