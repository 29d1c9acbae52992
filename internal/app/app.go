package app

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/k-negishi/google-calendar-ooo-report/internal/config"
	"github.com/k-negishi/google-calendar-ooo-report/internal/gateway"
	"github.com/k-negishi/google-calendar-ooo-report/internal/period"
	"github.com/k-negishi/google-calendar-ooo-report/internal/presenter"
	"github.com/k-negishi/google-calendar-ooo-report/internal/report"
	"github.com/k-negishi/google-calendar-ooo-report/internal/usecase"
)

// Outcome 実行結果
type Outcome struct {
	Result   usecase.Result
	Notified bool
}

// Run Google Calendarに接続して不在レポートを作成し、wに出力する。
// notifyがtrueでLINEの設定がある場合は通知も送る
func Run(ctx context.Context, cfg *config.Config, logger zerolog.Logger, w io.Writer, notify bool) (Outcome, error) {
	credentialsJSON, err := cfg.GoogleCredentialsJSON()
	if err != nil {
		return Outcome{}, err
	}
	clientOption, err := gateway.GoogleClientOption(ctx, credentialsJSON, cfg.GoogleTokenFile)
	if err != nil {
		return Outcome{}, err
	}
	repo, err := gateway.NewGoogleCalendarRepository(ctx, clientOption)
	if err != nil {
		return Outcome{}, err
	}

	var notifier usecase.Notifier
	if notify {
		if cfg.LINEEnabled() {
			notifier = gateway.NewLINENotifier(cfg.LineChannelAccessToken, cfg.LineUserID)
		} else {
			logger.Warn().Msg("LINEの設定がないため通知をスキップします")
		}
	}

	return RunWith(ctx, cfg, logger, repo, notifier, w)
}

// RunWith 依存を差し替えて実行する
func RunWith(ctx context.Context, cfg *config.Config, logger zerolog.Logger, repo usecase.EventRepository, notifier usecase.Notifier, w io.Writer) (Outcome, error) {
	out, err := presenter.New(cfg.Format)
	if err != nil {
		return Outcome{}, err
	}

	generate := usecase.NewGenerateReportUseCase(
		repo,
		period.NewResolver(),
		report.NewClassifier(cfg.Keywords, cfg.ExcludeKeywords),
		report.NewAssembler(cfg.SkipInvalidEvents, logger),
		logger,
	)
	result, err := generate.Execute(ctx, usecase.ReportRequest{
		Calendars:       cfg.Calendars,
		Period:          cfg.PeriodSpec(),
		IncludeWeekends: cfg.IncludeWeekends,
	})
	if err != nil {
		return Outcome{}, fmt.Errorf("レポートの作成に失敗しました: %w", err)
	}

	deliver := usecase.NewDeliverReportUseCase(out, notifier, presenter.NewText(true))
	notified, err := deliver.Execute(ctx, w, result)
	if err != nil {
		return Outcome{Result: result}, err
	}

	logger.Info().
		Int("calendars", len(result.Reports)).
		Bool("notified", notified).
		Msg("不在レポートを作成しました")
	return Outcome{Result: result, Notified: notified}, nil
}
