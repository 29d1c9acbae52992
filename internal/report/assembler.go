package report

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
)

// Assembler カレンダーごとにイベントを正規化してレポートを組み立てる
type Assembler struct {
	skipInvalid bool
	logger      zerolog.Logger
}

// NewAssembler skipInvalidがtrueなら解析できないイベントを警告して読み飛ばす
func NewAssembler(skipInvalid bool, logger zerolog.Logger) *Assembler {
	return &Assembler{
		skipInvalid: skipInvalid,
		logger:      logger,
	}
}

// Assemble 入力のカレンダー順・イベント順を保ったままレポートを作成する。
// 対象イベントが1件もないカレンダーは結果に含めない
func (a *Assembler) Assemble(calendars []domain.CalendarEvents, window domain.Window, includeWeekends bool) ([]domain.CalendarReport, error) {
	reports := make([]domain.CalendarReport, 0, len(calendars))
	for _, cal := range calendars {
		events := make([]domain.NormalizedEvent, 0, len(cal.Events))
		for _, raw := range cal.Events {
			if raw.CalendarID == "" {
				raw.CalendarID = cal.Calendar.ID
			}

			normalized, err := Normalize(raw, window, includeWeekends)
			if err != nil {
				var dataErr *domain.DataError
				if a.skipInvalid && errors.As(err, &dataErr) {
					a.logger.Warn().
						Err(err).
						Str("calendar_id", dataErr.CalendarID).
						Str("event_id", dataErr.EventID).
						Str("field", dataErr.Field).
						Msg("イベントの正規化をスキップしました")
					continue
				}
				return nil, fmt.Errorf("カレンダー %s のレポート作成に失敗しました: %w", cal.Calendar.ID, err)
			}
			events = append(events, normalized)
		}

		if len(events) == 0 {
			continue
		}
		reports = append(reports, domain.CalendarReport{
			Calendar: cal.Calendar,
			Events:   events,
		})
	}
	return reports, nil
}
