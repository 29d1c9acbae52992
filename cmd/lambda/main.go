package main

import (
	"bytes"
	"context"
	_ "time/tzdata"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/k-negishi/google-calendar-ooo-report/internal/app"
	"github.com/k-negishi/google-calendar-ooo-report/internal/config"
	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
	"github.com/k-negishi/google-calendar-ooo-report/internal/logger"
)

// LambdaEvent Lambda実行時のイベント構造体
type LambdaEvent struct {
	// 指定がなければ設定値を使う
	Period string `json:"period,omitempty"`
	Date   string `json:"date,omitempty"`
}

// LambdaResponse Lambda実行結果のレスポンス
type LambdaResponse struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Report     string `json:"report,omitempty"`
}

// handler Lambda関数のメインハンドラー
func handler(ctx context.Context, event LambdaEvent) (LambdaResponse, error) {
	// 設定を読み込み
	cfg, err := config.Load(config.Overrides{
		Period: event.Period,
		Date:   event.Date,
		Format: domain.FormatJSON,
	})
	if err != nil {
		return LambdaResponse{
			StatusCode: 500,
			Message:    "設定読み込みエラー",
		}, err
	}

	log := logger.New(cfg.LogLevel, false)

	var buf bytes.Buffer
	outcome, err := app.Run(ctx, cfg, log, &buf, true)
	if err != nil {
		log.Error().Err(err).Msg("不在レポートの作成に失敗しました")
		return LambdaResponse{
			StatusCode: 500,
			Message:    "レポート作成エラー",
		}, err
	}

	// 不在予定がない場合は通知しない
	message := "レポート作成完了"
	if outcome.Result.IsEmpty() {
		message = "不在予定なしのため通知スキップ"
	} else if outcome.Notified {
		message = "通知送信完了"
	}

	return LambdaResponse{
		StatusCode: 200,
		Message:    message,
		Report:     buf.String(),
	}, nil
}

func main() {
	lambda.Start(handler)
}
