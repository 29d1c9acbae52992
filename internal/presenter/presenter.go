// Package presenter は不在レポートをテキスト・CSV・JSONに変換する。
package presenter

import (
	"fmt"
	"strings"
	"time"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
	"github.com/k-negishi/google-calendar-ooo-report/internal/usecase"
)

// New 出力形式に対応するPresenterを作成
func New(format string) (usecase.Presenter, error) {
	switch strings.ToLower(format) {
	case domain.FormatText:
		return NewText(false), nil
	case domain.FormatCSV:
		return NewCSV(), nil
	case domain.FormatJSON:
		return NewJSON(), nil
	}
	return nil, &domain.ConfigError{Field: "format", Value: format, Message: "text, csv, json のいずれかを指定してください"}
}

// FormatDuration 期間を日数と時間で表す (例: "2d 3h")
func FormatDuration(d time.Duration) string {
	if d <= 0 {
		return "0h"
	}
	event := domain.NormalizedEvent{Duration: d}
	days, hours := event.Days(), event.Hours()

	parts := make([]string, 0, 2)
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if len(parts) == 0 {
		return "<1h"
	}
	return strings.Join(parts, " ")
}

// formatDate 0時ちょうどなら日付のみ、それ以外は時刻も表示
func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(time.DateOnly)
	}
	return t.Format("2006-01-02 15:04")
}

// formatShortDate 通知用の短い日付
func formatShortDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format("1/2")
	}
	return t.Format("1/2 15:04")
}
