package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/joho/godotenv"

	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
	"github.com/k-negishi/google-calendar-ooo-report/internal/period"
)

// SSMParameterGetter Parameter Storeからパラメータを取得するクライアント
type SSMParameterGetter interface {
	GetParameter(ctx context.Context, params *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// Config アプリケーション設定構造体。読み込み後は変更しない
type Config struct {
	SettingsFile string

	// レポート設定
	Calendars         []domain.CalendarRef
	Keywords          []string
	ExcludeKeywords   []string
	Period            domain.Granularity
	Timezone          string
	Location          *time.Location
	ReferenceDate     time.Time
	IncludeWeekends   bool
	SkipInvalidEvents bool
	Format            string

	// Google Calendar設定
	GoogleCredentials     string
	GoogleCredentialsFile string
	GoogleTokenFile       string

	// LINE API設定（任意）
	LineChannelAccessToken string
	LineUserID             string

	// その他設定
	LogLevel string

	// AWS関連（本番環境でのみ使用）
	ssmClient SSMParameterGetter

	periodValue string
	dateValue   string
}

// Overrides コマンドライン引数などで設定ファイル・環境変数を上書きする値
type Overrides struct {
	SettingsFile    string
	Period          string
	Date            string
	Timezone        string
	Format          string
	IncludeWeekends *bool
}

// PeriodSpec 設定から集計期間の指定を作成
func (c *Config) PeriodSpec() domain.PeriodSpec {
	return domain.PeriodSpec{
		ReferenceDate: c.ReferenceDate,
		Granularity:   c.Period,
		Location:      c.Location,
	}
}

// LINEEnabled LINE通知の設定がそろっているか
func (c *Config) LINEEnabled() bool {
	return c.LineChannelAccessToken != "" && c.LineUserID != ""
}

// Load 環境に応じて設定を読み込み
func Load(overrides Overrides) (*Config, error) {
	// AWS Lambda環境かどうか判定
	if os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "" {
		return loadAWSConfig(overrides)
	}
	return loadLocalConfig(overrides)
}

// loadLocalConfig ローカル実行用の設定読み込み
func loadLocalConfig(overrides Overrides) (*Config, error) {
	// .envファイルを読み込み（存在する場合のみ）
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf(".envファイルの読み込みに失敗しました: %w", err)
	}

	cfg := newFromEnv(overrides)
	data, err := os.ReadFile(cfg.SettingsFile)
	if err != nil {
		return nil, fmt.Errorf("設定ファイル %s の読み込みに失敗しました: %w", cfg.SettingsFile, err)
	}
	if err := cfg.build(data, overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadAWSConfig AWS Lambda環境用の設定読み込み
func loadAWSConfig(overrides Overrides) (*Config, error) {
	// AWS設定を初期化
	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("AWS設定の読み込みに失敗しました: %w", err)
	}

	cfg := newFromEnv(overrides)
	cfg.ssmClient = ssm.NewFromConfig(awsConfig)

	// Parameter Storeから機密情報を取得
	data, err := cfg.loadFromParameterStore(context.TODO())
	if err != nil {
		return nil, fmt.Errorf("Parameter Storeからの設定読み込みに失敗しました: %w", err)
	}
	if err := cfg.build(data, overrides); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newFromEnv(overrides Overrides) *Config {
	cfg := &Config{
		SettingsFile:           getEnvOrDefault("SETTINGS_FILE", "settings.yml"),
		GoogleCredentials:      getEnvOrDefault("GOOGLE_CREDENTIALS", ""),
		GoogleCredentialsFile:  getEnvOrDefault("GOOGLE_CREDENTIALS_FILE", "store/credentials.json"),
		GoogleTokenFile:        getEnvOrDefault("GOOGLE_TOKEN_FILE", "store/token.json"),
		LineChannelAccessToken: getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN", ""),
		LineUserID:             getEnvOrDefault("LINE_USER_ID", ""),
		LogLevel:               getEnvOrDefault("LOG_LEVEL", "INFO"),
	}
	if overrides.SettingsFile != "" {
		cfg.SettingsFile = overrides.SettingsFile
	}
	return cfg
}

// build 設定ファイル・環境変数・上書き値の順に適用して検証する
func (c *Config) build(settingsYAML []byte, overrides Overrides) error {
	s, err := parseSettings(settingsYAML)
	if err != nil {
		return err
	}

	c.Keywords = s.Keywords
	c.ExcludeKeywords = s.ExcludeKeywords
	for _, entry := range s.CalendarID {
		c.Calendars = append(c.Calendars, domain.CalendarRef(entry))
	}

	c.periodValue = firstNonEmpty(overrides.Period, getEnvOrDefault("OOO_PERIOD", ""), s.Period)
	c.dateValue = firstNonEmpty(overrides.Date, getEnvOrDefault("OOO_DATE", ""), s.Date)
	c.Timezone = firstNonEmpty(overrides.Timezone, getEnvOrDefault("TIMEZONE", ""), s.Timezone, "Asia/Tokyo")
	c.Format = strings.ToLower(firstNonEmpty(overrides.Format, getEnvOrDefault("OOO_FORMAT", ""), s.Format, domain.FormatText))

	c.IncludeWeekends = true
	if s.IncludeWeekends != nil {
		c.IncludeWeekends = *s.IncludeWeekends
	}
	if v := getEnvOrDefault("OOO_INCLUDE_WEEKENDS", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return &domain.ConfigError{Field: "OOO_INCLUDE_WEEKENDS", Value: v, Message: "真偽値ではありません"}
		}
		c.IncludeWeekends = b
	}
	if overrides.IncludeWeekends != nil {
		c.IncludeWeekends = *overrides.IncludeWeekends
	}

	c.SkipInvalidEvents = true
	if s.SkipInvalidEvents != nil {
		c.SkipInvalidEvents = *s.SkipInvalidEvents
	}

	return c.validate()
}

// validate 必須項目と値の形式を確認し、派生値を計算する
func (c *Config) validate() error {
	if len(c.Calendars) == 0 {
		return &domain.ConfigError{Field: "calendar_id", Message: "カレンダーIDが設定されていません"}
	}
	for _, cal := range c.Calendars {
		if strings.TrimSpace(cal.ID) == "" {
			return &domain.ConfigError{Field: "calendar_id", Message: "空のカレンダーIDがあります"}
		}
	}

	g, err := period.ParseGranularity(c.periodValue)
	if err != nil {
		return err
	}
	c.Period = g

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return &domain.ConfigError{Field: "timezone", Value: c.Timezone, Message: "タイムゾーンの読み込みに失敗しました"}
	}
	c.Location = loc

	if c.dateValue != "" {
		ref, err := time.ParseInLocation(time.DateOnly, c.dateValue, loc)
		if err != nil {
			return &domain.ConfigError{Field: "date", Value: c.dateValue, Message: "日付はYYYY-MM-DD形式で指定してください"}
		}
		c.ReferenceDate = ref
	}

	if !slices.Contains(domain.Formats, c.Format) {
		return &domain.ConfigError{Field: "format", Value: c.Format, Message: "text, csv, json のいずれかを指定してください"}
	}
	return nil
}

// loadFromParameterStore Parameter Storeから機密情報と設定ファイルの内容を読み込み
func (c *Config) loadFromParameterStore(ctx context.Context) ([]byte, error) {
	// Google認証情報を取得
	googleCredsParam := getEnvOrDefault("SSM_GOOGLE_CREDS_PARAM", "/google-calendar-ooo-report/google-creds")
	googleCreds, err := c.getParameter(ctx, googleCredsParam, true)
	if err != nil {
		return nil, fmt.Errorf("Google認証情報の取得に失敗しました: %w", err)
	}
	c.GoogleCredentials = googleCreds

	// 設定ファイルの内容を取得
	settingsParam := getEnvOrDefault("SSM_SETTINGS_PARAM", "/google-calendar-ooo-report/settings")
	settings, err := c.getParameter(ctx, settingsParam, false)
	if err != nil {
		return nil, fmt.Errorf("レポート設定の取得に失敗しました: %w", err)
	}

	// LINE通知は任意。パラメータ名が空なら取得しない
	if lineTokenParam := getEnvOrDefault("SSM_LINE_TOKEN_PARAM", ""); lineTokenParam != "" {
		lineToken, err := c.getParameter(ctx, lineTokenParam, true)
		if err != nil {
			return nil, fmt.Errorf("LINE Channel Access Tokenの取得に失敗しました: %w", err)
		}
		c.LineChannelAccessToken = lineToken
	}
	if lineUserParam := getEnvOrDefault("SSM_LINE_USER_ID_PARAM", ""); lineUserParam != "" {
		lineUser, err := c.getParameter(ctx, lineUserParam, true)
		if err != nil {
			return nil, fmt.Errorf("LINE User IDの取得に失敗しました: %w", err)
		}
		c.LineUserID = lineUser
	}

	return []byte(settings), nil
}

// getParameter Parameter Storeから指定されたパラメータを取得
func (c *Config) getParameter(ctx context.Context, paramName string, withDecryption bool) (string, error) {
	input := &ssm.GetParameterInput{
		Name:           aws.String(paramName),
		WithDecryption: aws.Bool(withDecryption),
	}

	result, err := c.ssmClient.GetParameter(ctx, input)
	if err != nil {
		return "", fmt.Errorf("パラメータ %s の取得に失敗しました: %w", paramName, err)
	}

	if result.Parameter == nil || result.Parameter.Value == nil || *result.Parameter.Value == "" {
		return "", fmt.Errorf("パラメータ %s が空の値です", paramName)
	}

	return *result.Parameter.Value, nil
}

// GoogleCredentialsJSON Google認証情報のJSON。環境変数になければファイルから読む
func (c *Config) GoogleCredentialsJSON() ([]byte, error) {
	data := []byte(c.GoogleCredentials)
	if len(data) == 0 {
		var err error
		data, err = os.ReadFile(c.GoogleCredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("Google認証情報ファイル %s の読み込みに失敗しました: %w", c.GoogleCredentialsFile, err)
		}
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("Google認証情報のJSON解析に失敗しました")
	}
	return data, nil
}

// getEnvOrDefault 環境変数を取得し、存在しない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
