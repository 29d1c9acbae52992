package report

import "time"

// CountWeekendDays [start, end) に含まれる丸一日のうち土日の日数を返す。日付はカレンダー上で進める
func CountWeekendDays(start, end time.Time) int {
	count := 0
	for d := start; !d.AddDate(0, 0, 1).After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			count++
		}
	}
	return count
}
