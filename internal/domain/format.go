package domain

// 出力形式
const (
	FormatText = "text"
	FormatCSV  = "csv"
	FormatJSON = "json"
)

// Formats 対応している出力形式の一覧
var Formats = []string{FormatText, FormatCSV, FormatJSON}
