package domain

import "fmt"

// ConfigError 設定値の不備。実行を継続できない
type ConfigError struct {
	Field   string
	Value   string
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("設定エラー (%s): %s", e.Field, e.Message)
	}
	return fmt.Sprintf("設定エラー (%s=%q): %s", e.Field, e.Value, e.Message)
}

// DataError イベントの開始・終了を解析できなかった
type DataError struct {
	CalendarID string
	EventID    string
	Field      string
	Value      string
	Err        error
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("イベントデータの解析に失敗しました (calendar=%s, event=%s, field=%s, value=%q)",
		e.CalendarID, e.EventID, e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Err
}
