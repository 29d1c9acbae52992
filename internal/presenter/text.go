package presenter

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
	"github.com/k-negishi/google-calendar-ooo-report/internal/usecase"
)

// Text 表形式のテキスト出力。compactの場合はLINE向けの箇条書き
type Text struct {
	compact bool
}

// NewText テキストPresenterを作成
func NewText(compact bool) *Text {
	return &Text{compact: compact}
}

// Present レポートを書き出す
func (p *Text) Present(w io.Writer, result usecase.Result) error {
	var b strings.Builder
	fmt.Fprintf(&b, "不在レポート %s 〜 %s\n",
		result.Window.Start.Format("2006-01-02"),
		result.Window.End.Format("2006-01-02"))

	if result.IsEmpty() {
		b.WriteString("\n対象期間の不在予定はありません\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	for _, report := range result.Reports {
		fmt.Fprintf(&b, "\n%s (%d件)\n", calendarHeading(report.Calendar), len(report.Events))
		if p.compact {
			for _, event := range report.Events {
				fmt.Fprintf(&b, "🔸 %s〜%s (%s) %s\n",
					formatShortDate(event.StartDate),
					formatShortDate(event.LastDisplayDate),
					FormatDuration(event.Duration),
					event.Summary)
			}
			continue
		}

		table := tablewriter.NewWriter(&b)
		table.SetHeader([]string{"Start", "Last day", "Duration", "Summary"})
		table.SetAutoWrapText(false)
		table.SetAlignment(tablewriter.ALIGN_LEFT)
		for _, event := range report.Events {
			table.Append([]string{
				formatDate(event.StartDate),
				formatDate(event.LastDisplayDate),
				FormatDuration(event.Duration),
				event.Summary,
			})
		}
		table.Render()
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func calendarHeading(cal domain.CalendarRef) string {
	if cal.Name != "" && cal.Name != cal.ID {
		return fmt.Sprintf("■ %s <%s>", cal.Name, cal.ID)
	}
	return "■ " + cal.ID
}
