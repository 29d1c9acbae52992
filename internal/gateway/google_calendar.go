package gateway

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
)

// pageSize 1リクエストあたりの取得件数(APIの上限は2500)
const pageSize = 250

// EventsProvider 指定期間のイベントを全ページ分取得する
type EventsProvider interface {
	ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error)
}

// serviceEventsProvider Calendar APIサービスを使ったEventsProvider
type serviceEventsProvider struct {
	service *calendar.Service
}

func (p *serviceEventsProvider) ListEvents(ctx context.Context, calendarID, timeMin, timeMax string) ([]*calendar.Event, error) {
	var items []*calendar.Event
	err := p.service.Events.List(calendarID).
		TimeMin(timeMin).
		TimeMax(timeMax).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(pageSize).
		Pages(ctx, func(page *calendar.Events) error {
			items = append(items, page.Items...)
			return nil
		})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// GoogleCalendarRepository Google Calendar APIを使用したEventRepositoryの実装
type GoogleCalendarRepository struct {
	provider EventsProvider
}

// NewGoogleCalendarRepository Google Calendarリポジトリを作成
func NewGoogleCalendarRepository(ctx context.Context, opts ...option.ClientOption) (*GoogleCalendarRepository, error) {
	service, err := calendar.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("google Calendar APIサービスの作成に失敗しました: %w", err)
	}
	return NewGoogleCalendarRepositoryWithProvider(&serviceEventsProvider{service: service}), nil
}

// NewGoogleCalendarRepositoryWithProvider 任意のEventsProviderでリポジトリを作成
func NewGoogleCalendarRepositoryWithProvider(provider EventsProvider) *GoogleCalendarRepository {
	return &GoogleCalendarRepository{provider: provider}
}

// ListEvents 集計期間 [window.Start, window.End] に重なる予定を取得元の順序のまま返す
func (r *GoogleCalendarRepository) ListEvents(ctx context.Context, calendarID string, window domain.Window) ([]domain.RawEvent, error) {
	// RFC3339形式に変換（タイムゾーン情報付き）
	timeMin := window.Start.Format(time.RFC3339)
	timeMax := window.End.Format(time.RFC3339)

	events, err := r.provider.ListEvents(ctx, calendarID, timeMin, timeMax)
	if err != nil {
		return nil, fmt.Errorf("カレンダーイベントの取得に失敗しました: %w", err)
	}

	rawEvents := make([]domain.RawEvent, 0, len(events))
	for _, event := range events {
		rawEvents = append(rawEvents, convertToRawEvent(calendarID, event))
	}
	return rawEvents, nil
}

// convertToRawEvent Google Calendar APIのイベントをドメインの生イベントに変換。
// 時刻の解析は正規化時に行う
func convertToRawEvent(calendarID string, event *calendar.Event) domain.RawEvent {
	return domain.RawEvent{
		ID:         event.Id,
		CalendarID: calendarID,
		EventType:  event.EventType,
		Summary:    event.Summary,
		Start:      convertEventTime(event.Start),
		End:        convertEventTime(event.End),
	}
}

func convertEventTime(t *calendar.EventDateTime) domain.EventTime {
	if t == nil {
		return domain.EventTime{}
	}
	return domain.EventTime{DateTime: t.DateTime, Date: t.Date}
}
