package domain

import "time"

// Granularity 集計期間の単位
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// PeriodSpec 集計期間の指定。ReferenceDateがゼロ値の場合は現在時刻を使う
type PeriodSpec struct {
	ReferenceDate time.Time
	Granularity   Granularity
	Location      *time.Location
}

// Window 集計対象の期間 [Start, End]。Endはその単位の最終秒(23:59:59)
type Window struct {
	Start time.Time
	End   time.Time
}

// Location 期間のタイムゾーン
func (w Window) Location() *time.Location {
	return w.Start.Location()
}

