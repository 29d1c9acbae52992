package period

import (
	"strings"
	"time"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
)

// Resolver 集計期間の開始・終了時刻を計算する
type Resolver struct {
	clock func() time.Time
}

// NewResolver 現在時刻を基準日のデフォルトとするResolverを作成
func NewResolver() *Resolver {
	return &Resolver{clock: time.Now}
}

// ParseGranularity 設定文字列を期間単位に変換
func ParseGranularity(value string) (domain.Granularity, error) {
	g := domain.Granularity(strings.ToLower(strings.TrimSpace(value)))
	switch g {
	case domain.GranularityDay, domain.GranularityWeek, domain.GranularityMonth, domain.GranularityYear:
		return g, nil
	}
	return "", &domain.ConfigError{Field: "period", Value: value, Message: "invalid period"}
}

// Resolve 基準日を含む期間単位の [開始 00:00:00, 終了 23:59:59] を返す
func (r *Resolver) Resolve(spec domain.PeriodSpec) (domain.Window, error) {
	loc := spec.Location
	if loc == nil {
		return domain.Window{}, &domain.ConfigError{Field: "timezone", Message: "タイムゾーンが設定されていません"}
	}

	ref := spec.ReferenceDate
	if ref.IsZero() {
		ref = r.clock()
	}
	ref = ref.In(loc)
	year, month, day := ref.Date()

	var start, last time.Time
	switch spec.Granularity {
	case domain.GranularityDay:
		start = time.Date(year, month, day, 0, 0, 0, 0, loc)
		last = start
	case domain.GranularityWeek:
		// 週は日曜始まり
		start = time.Date(year, month, day-int(ref.Weekday()), 0, 0, 0, 0, loc)
		last = start.AddDate(0, 0, 6)
	case domain.GranularityMonth:
		start = time.Date(year, month, 1, 0, 0, 0, 0, loc)
		last = time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
	case domain.GranularityYear:
		start = time.Date(year, time.January, 1, 0, 0, 0, 0, loc)
		last = time.Date(year, time.December, 31, 0, 0, 0, 0, loc)
	default:
		return domain.Window{}, &domain.ConfigError{Field: "period", Value: string(spec.Granularity), Message: "invalid period"}
	}

	ly, lm, ld := last.Date()
	return domain.Window{
		Start: start,
		End:   time.Date(ly, lm, ld, 23, 59, 59, 0, loc),
	}, nil
}
