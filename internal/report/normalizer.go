package report

import (
	"fmt"
	"time"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
)

const day = 24 * time.Hour

// Normalize イベントを集計期間に収まるよう切り詰め、期間と最終表示日を計算する
func Normalize(event domain.RawEvent, window domain.Window, includeWeekends bool) (domain.NormalizedEvent, error) {
	loc := window.Location()

	start, err := parseEventTime(event, "start", event.Start, loc)
	if err != nil {
		return domain.NormalizedEvent{}, err
	}
	end, err := parseEventTime(event, "end", event.End, loc)
	if err != nil {
		return domain.NormalizedEvent{}, err
	}
	if end.Before(start) {
		return domain.NormalizedEvent{}, &domain.DataError{
			CalendarID: event.CalendarID,
			EventID:    event.ID,
			Field:      "end",
			Value:      eventTimeString(event.End),
			Err:        fmt.Errorf("終了時刻が開始時刻より前です"),
		}
	}

	if start.Before(window.Start) {
		start = window.Start
	}
	// 期間末尾ちょうどで終わるイベントも最終日を占有するよう1秒足す
	if end.After(window.End) {
		end = window.End.Add(time.Second)
	}

	// 夏時間の切り替え日も1日=24時間として数える
	duration := wallClock(end).Sub(wallClock(start))
	if !includeWeekends {
		duration -= time.Duration(CountWeekendDays(start, end)) * day
	}
	if duration < 0 {
		duration = 0
	}

	// 複数日にわたるイベントの終了日は排他的なので前日を最終表示日とする
	lastDisplay := end
	if duration >= day {
		lastDisplay = end.AddDate(0, 0, -1)
	}

	summary := event.Summary
	if summary == "" {
		summary = domain.UntitledSummary
	}

	return domain.NormalizedEvent{
		CalendarID:      event.CalendarID,
		StartDate:       start,
		LastDisplayDate: lastDisplay,
		Duration:        duration,
		Summary:         summary,
	}, nil
}

// wallClock タイムゾーンの壁時計の値をそのままUTCに移す
func wallClock(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// parseEventTime dateTimeはRFC3339、dateはレポートのタイムゾーンの0時として解析
func parseEventTime(event domain.RawEvent, field string, value domain.EventTime, loc *time.Location) (time.Time, error) {
	dataErr := func(err error) error {
		return &domain.DataError{
			CalendarID: event.CalendarID,
			EventID:    event.ID,
			Field:      field,
			Value:      eventTimeString(value),
			Err:        err,
		}
	}

	if value.IsEmpty() {
		return time.Time{}, dataErr(fmt.Errorf("時刻が設定されていません"))
	}
	if value.DateTime != "" {
		t, err := time.Parse(time.RFC3339, value.DateTime)
		if err != nil {
			return time.Time{}, dataErr(err)
		}
		return t.In(loc), nil
	}
	t, err := time.ParseInLocation(time.DateOnly, value.Date, loc)
	if err != nil {
		return time.Time{}, dataErr(err)
	}
	return t, nil
}

func eventTimeString(value domain.EventTime) string {
	if value.DateTime != "" {
		return value.DateTime
	}
	return value.Date
}
