package usecase

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
	"github.com/k-negishi/google-calendar-ooo-report/internal/report"
)

// maxConcurrentFetches カレンダー取得の同時実行数
const maxConcurrentFetches = 4

// EventRepository カレンダーから期間内のイベントを取得するポート
type EventRepository interface {
	ListEvents(ctx context.Context, calendarID string, window domain.Window) ([]domain.RawEvent, error)
}

// WindowResolver 集計期間を計算するポート
type WindowResolver interface {
	Resolve(spec domain.PeriodSpec) (domain.Window, error)
}

// Presenter レポートを出力形式に変換するポート
type Presenter interface {
	Present(w io.Writer, result Result) error
}

// Notifier 整形済みレポートを送信するポート
type Notifier interface {
	SendReport(ctx context.Context, message string) error
}

// ReportRequest レポート作成の入力
type ReportRequest struct {
	Calendars       []domain.CalendarRef
	Period          domain.PeriodSpec
	IncludeWeekends bool
}

// Result レポート作成の結果
type Result struct {
	Window  domain.Window
	Reports []domain.CalendarReport
}

// IsEmpty 対象イベントが1件もないか
func (r Result) IsEmpty() bool {
	return len(r.Reports) == 0
}

// GenerateReportUseCase 不在レポート作成ユースケース
type GenerateReportUseCase struct {
	repo       EventRepository
	resolver   WindowResolver
	classifier *report.Classifier
	assembler  *report.Assembler
	logger     zerolog.Logger
}

// NewGenerateReportUseCase ユースケースを生成
func NewGenerateReportUseCase(
	repo EventRepository,
	resolver WindowResolver,
	classifier *report.Classifier,
	assembler *report.Assembler,
	logger zerolog.Logger,
) *GenerateReportUseCase {
	return &GenerateReportUseCase{
		repo:       repo,
		resolver:   resolver,
		classifier: classifier,
		assembler:  assembler,
		logger:     logger,
	}
}

// Execute 集計期間を計算し、カレンダーごとに不在イベントを取得・正規化する
func (uc *GenerateReportUseCase) Execute(ctx context.Context, req ReportRequest) (Result, error) {
	window, err := uc.resolver.Resolve(req.Period)
	if err != nil {
		return Result{}, err
	}
	uc.logger.Info().
		Time("window_start", window.Start).
		Time("window_end", window.End).
		Int("calendars", len(req.Calendars)).
		Msg("集計期間を決定しました")

	calendars, err := uc.fetchAll(ctx, req.Calendars, window)
	if err != nil {
		return Result{}, err
	}

	reports, err := uc.assembler.Assemble(calendars, window, req.IncludeWeekends)
	if err != nil {
		return Result{}, err
	}

	return Result{Window: window, Reports: reports}, nil
}

// fetchAll カレンダーを並行して取得し、分類済みイベントを設定の順序で返す
func (uc *GenerateReportUseCase) fetchAll(ctx context.Context, refs []domain.CalendarRef, window domain.Window) ([]domain.CalendarEvents, error) {
	calendars := make([]domain.CalendarEvents, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, ref := range refs {
		i, ref := i, ref
		g.Go(func() error {
			events, err := uc.repo.ListEvents(gctx, ref.ID, window)
			if err != nil {
				return fmt.Errorf("カレンダー %s の予定取得に失敗しました: %w", ref.ID, err)
			}

			inScope := uc.classifier.Filter(events)
			uc.logger.Debug().
				Str("calendar_id", ref.ID).
				Int("fetched", len(events)).
				Int("in_scope", len(inScope)).
				Msg("カレンダーの予定を取得しました")

			calendars[i] = domain.CalendarEvents{Calendar: ref, Events: inScope}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return calendars, nil
}
