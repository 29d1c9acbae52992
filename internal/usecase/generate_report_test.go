package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
	"github.com/k-negishi/google-calendar-ooo-report/internal/period"
	"github.com/k-negishi/google-calendar-ooo-report/internal/report"
)

// MockEventRepository は EventRepository のテスト用モック
type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) ListEvents(ctx context.Context, calendarID string, window domain.Window) ([]domain.RawEvent, error) {
	args := m.Called(ctx, calendarID, window)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RawEvent), args.Error(1)
}

func newTestUseCase(repo EventRepository, skipInvalid bool) *GenerateReportUseCase {
	return NewGenerateReportUseCase(
		repo,
		period.NewResolver(),
		report.NewClassifier([]string{"vacation", "休暇"}, []string{"lunch"}),
		report.NewAssembler(skipInvalid, zerolog.Nop()),
		zerolog.Nop(),
	)
}

func decemberRequest(calendars ...domain.CalendarRef) ReportRequest {
	jst := time.FixedZone("JST", 9*60*60)
	return ReportRequest{
		Calendars: calendars,
		Period: domain.PeriodSpec{
			ReferenceDate: time.Date(2024, 12, 10, 0, 0, 0, 0, jst),
			Granularity:   domain.GranularityMonth,
			Location:      jst,
		},
		IncludeWeekends: false,
	}
}

// --- Execute テスト ---

func TestExecute_Success(t *testing.T) {
	mockRepo := new(MockEventRepository)
	uc := newTestUseCase(mockRepo, true)
	req := decemberRequest(
		domain.CalendarRef{ID: "alice@example.com", Name: "Alice"},
		domain.CalendarRef{ID: "bob@example.com"},
		domain.CalendarRef{ID: "carol@example.com"},
	)

	aliceEvents := []domain.RawEvent{
		{ID: "a1", EventType: domain.EventTypeOutOfOffice, Summary: "不在", Start: domain.EventTime{Date: "2024-12-20"}, End: domain.EventTime{Date: "2024-12-24"}},
		{ID: "a2", EventType: "default", Summary: "定例", Start: domain.EventTime{DateTime: "2024-12-02T10:00:00+09:00"}, End: domain.EventTime{DateTime: "2024-12-02T11:00:00+09:00"}},
	}
	bobEvents := []domain.RawEvent{
		{ID: "b1", Summary: "Team Lunch vacation", Start: domain.EventTime{Date: "2024-12-05"}, End: domain.EventTime{Date: "2024-12-06"}},
	}
	carolEvents := []domain.RawEvent{
		{ID: "c1", Summary: "冬季休暇", Start: domain.EventTime{Date: "2024-12-27"}, End: domain.EventTime{Date: "2025-01-06"}},
	}

	mockRepo.On("ListEvents", mock.Anything, "alice@example.com", mock.AnythingOfType("domain.Window")).Return(aliceEvents, nil)
	mockRepo.On("ListEvents", mock.Anything, "bob@example.com", mock.AnythingOfType("domain.Window")).Return(bobEvents, nil)
	mockRepo.On("ListEvents", mock.Anything, "carol@example.com", mock.AnythingOfType("domain.Window")).Return(carolEvents, nil)

	result, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)

	assert.Equal(t, 1, result.Window.Start.Day())
	assert.Equal(t, 31, result.Window.End.Day())

	// bobは除外キーワードのみなので結果に含まれない
	require.Len(t, result.Reports, 2)
	assert.Equal(t, "Alice", result.Reports[0].Calendar.DisplayName())
	require.Len(t, result.Reports[0].Events, 1)
	assert.Equal(t, 2*24*time.Hour, result.Reports[0].Events[0].Duration)

	assert.Equal(t, "carol@example.com", result.Reports[1].Calendar.ID)
	carol := result.Reports[1].Events[0]
	assert.Equal(t, 31, carol.LastDisplayDate.Day())
	// 12/27(金)〜12/31(火)の5日間から12/28, 12/29を除外
	assert.Equal(t, 3*24*time.Hour, carol.Duration)
	assert.False(t, result.IsEmpty())
}

func TestExecute_PassesResolvedWindow(t *testing.T) {
	mockRepo := new(MockEventRepository)
	uc := newTestUseCase(mockRepo, true)
	req := decemberRequest(domain.CalendarRef{ID: "alice@example.com"})

	mockRepo.On("ListEvents", mock.Anything, "alice@example.com", mock.MatchedBy(func(w domain.Window) bool {
		return w.Start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, req.Period.Location)) &&
			w.End.Equal(time.Date(2024, 12, 31, 23, 59, 59, 0, req.Period.Location))
	})).Return([]domain.RawEvent{}, nil)

	result, err := uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, result.IsEmpty())
	mockRepo.AssertExpectations(t)
}

func TestExecute_RepositoryError(t *testing.T) {
	mockRepo := new(MockEventRepository)
	uc := newTestUseCase(mockRepo, true)
	req := decemberRequest(domain.CalendarRef{ID: "alice@example.com"})

	mockRepo.On("ListEvents", mock.Anything, "alice@example.com", mock.Anything).Return(nil, errors.New("calendar API error"))

	_, err := uc.Execute(context.Background(), req)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "calendar API error")
	assert.Contains(t, err.Error(), "alice@example.com")
}

func TestExecute_InvalidPeriod(t *testing.T) {
	mockRepo := new(MockEventRepository)
	uc := newTestUseCase(mockRepo, true)
	req := decemberRequest(domain.CalendarRef{ID: "alice@example.com"})
	req.Period.Granularity = "quarter"

	_, err := uc.Execute(context.Background(), req)
	var cfgErr *domain.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	mockRepo.AssertNotCalled(t, "ListEvents")
}

func TestExecute_InvalidEventAborts(t *testing.T) {
	mockRepo := new(MockEventRepository)
	uc := newTestUseCase(mockRepo, false)
	req := decemberRequest(domain.CalendarRef{ID: "alice@example.com"})

	mockRepo.On("ListEvents", mock.Anything, "alice@example.com", mock.Anything).Return([]domain.RawEvent{
		{ID: "broken", EventType: domain.EventTypeOutOfOffice, Start: domain.EventTime{DateTime: "???"}, End: domain.EventTime{Date: "2024-12-06"}},
	}, nil)

	_, err := uc.Execute(context.Background(), req)
	var dataErr *domain.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "broken", dataErr.EventID)
}
