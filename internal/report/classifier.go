package report

import (
	"strings"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
)

// Classifier 不在イベントかどうかを判定する
type Classifier struct {
	keywords        []string
	excludeKeywords []string
}

// NewClassifier キーワードを小文字化して保持したClassifierを作成
func NewClassifier(keywords, excludeKeywords []string) *Classifier {
	return &Classifier{
		keywords:        lowerAll(keywords),
		excludeKeywords: lowerAll(excludeKeywords),
	}
}

// IsInScope eventTypeがoutOfOfficeか、タイトルがキーワードを含むイベントを対象とする。
// 除外キーワードに一致した場合は常に対象外
func (c *Classifier) IsInScope(event domain.RawEvent) bool {
	summary := strings.ToLower(event.Summary)
	if containsAny(summary, c.excludeKeywords) {
		return false
	}
	return event.EventType == domain.EventTypeOutOfOffice || containsAny(summary, c.keywords)
}

// Filter 対象イベントのみを元の順序で返す
func (c *Classifier) Filter(events []domain.RawEvent) []domain.RawEvent {
	filtered := make([]domain.RawEvent, 0, len(events))
	for _, event := range events {
		if c.IsInScope(event) {
			filtered = append(filtered, event)
		}
	}
	return filtered
}

func containsAny(s string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(s, keyword) {
			return true
		}
	}
	return false
}

func lowerAll(values []string) []string {
	lowered := make([]string, 0, len(values))
	for _, v := range values {
		// 空文字はすべてに一致してしまうため無視
		if v = strings.ToLower(strings.TrimSpace(v)); v != "" {
			lowered = append(lowered, v)
		}
	}
	return lowered
}
