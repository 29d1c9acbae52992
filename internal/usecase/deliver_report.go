package usecase

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// DeliverReportUseCase レポートを出力し、設定されていれば通知も送る
type DeliverReportUseCase struct {
	presenter         Presenter
	notifier          Notifier
	notifierPresenter Presenter
}

// NewDeliverReportUseCase notifierがnilの場合は出力のみ行う
func NewDeliverReportUseCase(presenter Presenter, notifier Notifier, notifierPresenter Presenter) *DeliverReportUseCase {
	return &DeliverReportUseCase{
		presenter:         presenter,
		notifier:          notifier,
		notifierPresenter: notifierPresenter,
	}
}

// Execute wにレポートを書き出し、不在予定がある場合のみ通知する
func (uc *DeliverReportUseCase) Execute(ctx context.Context, w io.Writer, result Result) (notified bool, err error) {
	if err := uc.presenter.Present(w, result); err != nil {
		return false, fmt.Errorf("レポートの出力に失敗しました: %w", err)
	}

	// 不在予定がない場合は通知しない
	if uc.notifier == nil || result.IsEmpty() {
		return false, nil
	}

	var buf bytes.Buffer
	if err := uc.notifierPresenter.Present(&buf, result); err != nil {
		return false, fmt.Errorf("通知メッセージの作成に失敗しました: %w", err)
	}
	if err := uc.notifier.SendReport(ctx, buf.String()); err != nil {
		return false, err
	}
	return true, nil
}
