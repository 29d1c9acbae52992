package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	_ "time/tzdata"

	"github.com/spf13/cobra"

	"github.com/k-negishi/google-calendar-ooo-report/internal/app"
	"github.com/k-negishi/google-calendar-ooo-report/internal/config"
	"github.com/k-negishi/google-calendar-ooo-report/internal/domain"
	"github.com/k-negishi/google-calendar-ooo-report/internal/gateway"
	"github.com/k-negishi/google-calendar-ooo-report/internal/logger"
)

// options コマンドライン引数
type options struct {
	settingsFile    string
	period          string
	date            string
	timezone        string
	format          string
	includeWeekends bool
	notify          bool
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "ooo-report",
		Short:         "Google Calendarの不在予定をレポートする",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			overrides := config.Overrides{
				SettingsFile: opts.settingsFile,
				Period:       opts.period,
				Date:         opts.date,
				Timezone:     opts.timezone,
				Format:       opts.format,
			}
			if cmd.Flags().Changed("include-weekends") {
				overrides.IncludeWeekends = &opts.includeWeekends
			}

			cfg, err := config.Load(overrides)
			if err != nil {
				return err
			}
			log := logger.New(cfg.LogLevel, true)

			_, err = app.Run(cmd.Context(), cfg, log, cmd.OutOrStdout(), opts.notify)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.settingsFile, "settings", "", "設定ファイルのパス (既定: settings.yml)")
	flags.StringVar(&opts.period, "period", "", "集計期間 (day, week, month, year)")
	flags.StringVar(&opts.date, "date", "", "基準日 (YYYY-MM-DD)")
	flags.StringVar(&opts.timezone, "timezone", "", "タイムゾーン (例: Asia/Tokyo)")
	flags.StringVar(&opts.format, "format", "", "出力形式 (text, csv, json)")
	flags.BoolVar(&opts.includeWeekends, "include-weekends", true, "期間に土日を含める")
	flags.BoolVar(&opts.notify, "notify", false, "LINEにも通知する")

	cmd.AddCommand(newAuthCommand())
	return cmd
}

func newAuthCommand() *cobra.Command {
	var settingsFile string

	cmd := &cobra.Command{
		Use:   "auth",
		Short: "OAuth認可を行いトークンを保存する",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(config.Overrides{SettingsFile: settingsFile})
			if err != nil {
				return err
			}
			credentialsJSON, err := cfg.GoogleCredentialsJSON()
			if err != nil {
				return err
			}
			return gateway.Authorize(cmd.Context(), credentialsJSON, cfg.GoogleTokenFile, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&settingsFile, "settings", "", "設定ファイルのパス (既定: settings.yml)")
	return cmd
}

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCommand().ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)

	var cfgErr *domain.ConfigError
	switch {
	case errors.As(err, &cfgErr):
		return 2
	case errors.Is(err, gateway.ErrTokenNotFound):
		return 3
	}
	return 1
}
