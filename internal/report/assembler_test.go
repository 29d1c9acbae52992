package report

import (
	"bytes"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
)

func TestAssemble_PreservesOrderAndOmitsEmpty(t *testing.T) {
	window, _ := decemberWindow(t)
	assembler := NewAssembler(true, zerolog.Nop())

	calendars := []domain.CalendarEvents{
		{
			Calendar: domain.CalendarRef{ID: "carol@example.com", Name: "Carol"},
			Events: []domain.RawEvent{
				{ID: "c2", Summary: "後", Start: domain.EventTime{Date: "2024-12-20"}, End: domain.EventTime{Date: "2024-12-21"}},
				{ID: "c1", Summary: "先", Start: domain.EventTime{Date: "2024-12-02"}, End: domain.EventTime{Date: "2024-12-03"}},
			},
		},
		{Calendar: domain.CalendarRef{ID: "empty@example.com"}},
		{
			Calendar: domain.CalendarRef{ID: "alice@example.com"},
			Events: []domain.RawEvent{
				{ID: "a1", Start: domain.EventTime{Date: "2024-12-05"}, End: domain.EventTime{Date: "2024-12-06"}},
			},
		},
	}

	reports, err := assembler.Assemble(calendars, window, true)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	assert.Equal(t, "carol@example.com", reports[0].Calendar.ID)
	assert.Equal(t, "Carol", reports[0].Calendar.DisplayName())
	require.Len(t, reports[0].Events, 2)
	// 取得元の並び順のまま(並べ替えない)
	assert.Equal(t, "後", reports[0].Events[0].Summary)
	assert.Equal(t, "先", reports[0].Events[1].Summary)
	assert.Equal(t, "carol@example.com", reports[0].Events[0].CalendarID)

	assert.Equal(t, "alice@example.com", reports[1].Calendar.DisplayName())
	assert.Equal(t, domain.UntitledSummary, reports[1].Events[0].Summary)
}

func TestAssemble_SkipsInvalidEvents(t *testing.T) {
	window, _ := decemberWindow(t)
	var logBuf bytes.Buffer
	assembler := NewAssembler(true, zerolog.New(&logBuf))

	calendars := []domain.CalendarEvents{
		{
			Calendar: domain.CalendarRef{ID: "alice@example.com"},
			Events: []domain.RawEvent{
				{ID: "broken", Start: domain.EventTime{DateTime: "yesterday"}, End: domain.EventTime{Date: "2024-12-06"}},
				{ID: "ok", Start: domain.EventTime{Date: "2024-12-05"}, End: domain.EventTime{Date: "2024-12-06"}},
			},
		},
		{
			Calendar: domain.CalendarRef{ID: "bob@example.com"},
			Events: []domain.RawEvent{
				{ID: "broken-only", Start: domain.EventTime{}, End: domain.EventTime{Date: "2024-12-06"}},
			},
		},
	}

	reports, err := assembler.Assemble(calendars, window, true)
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Len(t, reports[0].Events, 1)
	assert.Contains(t, logBuf.String(), `"event_id":"broken"`)
	assert.Contains(t, logBuf.String(), `"calendar_id":"bob@example.com"`)
}

func TestAssemble_AbortsOnInvalidEvent(t *testing.T) {
	window, _ := decemberWindow(t)
	assembler := NewAssembler(false, zerolog.Nop())

	calendars := []domain.CalendarEvents{
		{
			Calendar: domain.CalendarRef{ID: "alice@example.com"},
			Events: []domain.RawEvent{
				{ID: "broken", Start: domain.EventTime{DateTime: "yesterday"}, End: domain.EventTime{Date: "2024-12-06"}},
			},
		},
	}

	_, err := assembler.Assemble(calendars, window, true)
	var dataErr *domain.DataError
	require.True(t, errors.As(err, &dataErr))
	assert.Equal(t, "alice@example.com", dataErr.CalendarID)
	assert.Equal(t, "start", dataErr.Field)
}
