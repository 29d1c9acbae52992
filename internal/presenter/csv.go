package presenter

import (
	"io"

	"github.com/gocarina/gocsv"

	"github.com/k-negishi/google-calendar-ooo-report/internal/usecase"
)

// csvRow CSVの1行。カレンダーごとの並び順のまま平坦化する
type csvRow struct {
	CalendarID      string `csv:"calendar_id"`
	Calendar        string `csv:"calendar"`
	StartDate       string `csv:"start_date"`
	LastDisplayDate string `csv:"last_display_date"`
	DurationDays    int    `csv:"duration_days"`
	DurationHours   int    `csv:"duration_hours"`
	Summary         string `csv:"summary"`
}

// CSV イベント1件1行のCSV出力
type CSV struct{}

// NewCSV CSV Presenterを作成
func NewCSV() *CSV {
	return &CSV{}
}

// Present レポートを書き出す
func (p *CSV) Present(w io.Writer, result usecase.Result) error {
	rows := make([]*csvRow, 0)
	for _, report := range result.Reports {
		for _, event := range report.Events {
			rows = append(rows, &csvRow{
				CalendarID:      report.Calendar.ID,
				Calendar:        report.Calendar.DisplayName(),
				StartDate:       formatDate(event.StartDate),
				LastDisplayDate: formatDate(event.LastDisplayDate),
				DurationDays:    event.Days(),
				DurationHours:   event.Hours(),
				Summary:         event.Summary,
			})
		}
	}
	return gocsv.Marshal(&rows, w)
}
