package app

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/k-negishi/google-calendar-ooo-report/internal/config"
	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
)

// MockEventRepository は EventRepository のテスト用モック
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) ListEvents(ctx context.Context, calendarID string, window domain.Window) ([]domain.RawEvent, error) {
	args := m.Called(ctx, calendarID, window)
	return args.Get(0).([]domain.RawEvent), args.Error(1)
}

// MockNotifier は Notifier のテスト用モック
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendReport(ctx context.Context, message string) error {
	return m.Called(ctx, message).Error(0)
}

func testConfig(format string) *config.Config {
	jst := time.FixedZone("JST", 9*60*60)
	return &config.Config{
		Calendars:         []domain.CalendarRef{{ID: "alice@example.com", Name: "Alice"}, {ID: "bob@example.com"}},
		Keywords:          []string{"休暇"},
		ExcludeKeywords:   []string{"lunch"},
		Period:            domain.GranularityMonth,
		Location:          jst,
		ReferenceDate:     time.Date(2024, 12, 15, 0, 0, 0, 0, jst),
		IncludeWeekends:   false,
		SkipInvalidEvents: true,
		Format:            format,
	}
}

func TestRunWith_CSVAndNotify(t *testing.T) {
	repo := new(MockEventRepository)
	notifier := new(MockNotifier)

	repo.On("ListEvents", mock.Anything, "alice@example.com", mock.Anything).Return([]domain.RawEvent{
		{ID: "a1", Summary: "冬季休暇", Start: domain.EventTime{Date: "2024-12-20"}, End: domain.EventTime{Date: "2024-12-24"}},
		{ID: "a2", Summary: "休暇 (壊れた日付)", Start: domain.EventTime{Date: "20241220"}, End: domain.EventTime{Date: "2024-12-24"}},
	}, nil)
	repo.On("ListEvents", mock.Anything, "bob@example.com", mock.Anything).Return([]domain.RawEvent{
		{ID: "b1", Summary: "Team lunch", EventType: domain.EventTypeOutOfOffice, Start: domain.EventTime{Date: "2024-12-05"}, End: domain.EventTime{Date: "2024-12-06"}},
	}, nil)
	notifier.On("SendReport", mock.Anything, mock.MatchedBy(func(message string) bool {
		return bytes.Contains([]byte(message), []byte("🔸 12/20〜12/23 (2d) 冬季休暇"))
	})).Return(nil)

	var buf bytes.Buffer
	outcome, err := RunWith(context.Background(), testConfig(domain.FormatCSV), zerolog.Nop(), repo, notifier, &buf)
	require.NoError(t, err)
	assert.True(t, outcome.Notified)
	require.Len(t, outcome.Result.Reports, 1)
	assert.Contains(t, buf.String(), "alice@example.com,Alice,2024-12-20,2024-12-23,2,0,冬季休暇")
	assert.NotContains(t, buf.String(), "bob@example.com")
	repo.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestRunWith_InvalidFormat(t *testing.T) {
	_, err := RunWith(context.Background(), testConfig("xml"), zerolog.Nop(), new(MockEventRepository), nil, &bytes.Buffer{})
	assert.Error(t, err)
}
