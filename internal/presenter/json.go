package presenter

import (
	"encoding/json"
	"io"
	"time"

	"github.com/k-negishi/google-calendar-ooo-report/internal/usecase"
)

type jsonReport struct {
	Period    jsonPeriod     `json:"period"`
	Calendars []jsonCalendar `json:"calendars"`
}

type jsonPeriod struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type jsonCalendar struct {
	CalendarID string      `json:"calendar_id"`
	Name       string      `json:"name,omitempty"`
	Events     []jsonEvent `json:"events"`
}

type jsonEvent struct {
	StartDate       string `json:"start_date"`
	LastDisplayDate string `json:"last_display_date"`
	DurationDays    int    `json:"duration_days"`
	DurationHours   int    `json:"duration_hours"`
	Duration        string `json:"duration"`
	Summary         string `json:"summary"`
}

// JSON 整形済みJSON出力
type JSON struct{}

// NewJSON JSON Presenterを作成
func NewJSON() *JSON {
	return &JSON{}
}

// Present レポートを書き出す
func (p *JSON) Present(w io.Writer, result usecase.Result) error {
	out := jsonReport{
		Period:    jsonPeriod{Start: result.Window.Start, End: result.Window.End},
		Calendars: make([]jsonCalendar, 0, len(result.Reports)),
	}
	for _, report := range result.Reports {
		cal := jsonCalendar{
			CalendarID: report.Calendar.ID,
			Name:       report.Calendar.Name,
			Events:     make([]jsonEvent, 0, len(report.Events)),
		}
		for _, event := range report.Events {
			cal.Events = append(cal.Events, jsonEvent{
				StartDate:       formatDate(event.StartDate),
				LastDisplayDate: formatDate(event.LastDisplayDate),
				DurationDays:    event.Days(),
				DurationHours:   event.Hours(),
				Duration:        FormatDuration(event.Duration),
				Summary:         event.Summary,
			})
		}
		out.Calendars = append(out.Calendars, cal)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	encoder.SetEscapeHTML(false)
	return encoder.Encode(out)
}
