package domain

import "time"

// EventTypeOutOfOffice Google Calendarの不在イベント種別
const EventTypeOutOfOffice = "outOfOffice"

// UntitledSummary タイトルが空のイベントに表示する文字列
const UntitledSummary = "（無題）"

// EventTime イベントの開始・終了。DateTime(時刻指定)かDate(終日)のどちらか一方のみを持つ
type EventTime struct {
	DateTime string
	Date     string
}

// IsEmpty どちらの値も設定されていないか
func (t EventTime) IsEmpty() bool {
	return t.DateTime == "" && t.Date == ""
}

// RawEvent カレンダーから取得したままのイベント
type RawEvent struct {
	ID         string
	CalendarID string
	EventType  string
	Summary    string
	Start      EventTime
	End        EventTime
}

// NormalizedEvent レポート出力用に正規化したイベント
type NormalizedEvent struct {
	CalendarID      string
	StartDate       time.Time
	LastDisplayDate time.Time
	Duration        time.Duration
	Summary         string
}

// Days Durationのうち日数部分
func (e NormalizedEvent) Days() int {
	return int(e.Duration / (24 * time.Hour))
}

// Hours 日数を除いた残りの時間数
func (e NormalizedEvent) Hours() int {
	return int((e.Duration % (24 * time.Hour)) / time.Hour)
}

// CalendarRef 集計対象のカレンダー。Nameは表示名で省略可
type CalendarRef struct {
	ID   string
	Name string
}

// DisplayName 表示名があればそれを、なければIDを返す
func (c CalendarRef) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.ID
}

// CalendarEvents カレンダーごとの分類済みイベント(取得元の並び順を保持)
type CalendarEvents struct {
	Calendar CalendarRef
	Events   []RawEvent
}

// CalendarReport カレンダーごとの正規化済みイベント
type CalendarReport struct {
	Calendar CalendarRef
	Events   []NormalizedEvent
}
