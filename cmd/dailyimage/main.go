// Command dailyimage draws the daily calendar and poem card as a 600x800 JPEG.
package main

import (
	"context"
	"fmt"
	"os"

	"dailyimage/pkg/config"
	"dailyimage/pkg/daily"
	"dailyimage/pkg/logger"
	"dailyimage/pkg/notifier"
	"dailyimage/pkg/tasks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

var (
	configPath string
	logLevel   string
	today      string
	outName    string
	outputDir  string
	fontPath   string
	push       bool
)

var rootCmd = &cobra.Command{
	Use:   "dailyimage",
	Short: "生成每日日历诗词图片",
	Long: `dailyimage 生成一张 600x800 的每日图片：公历日期、星期、农历、
全年进度条和一首来自今日诗词的诗句。接口不可用时使用内置诗句。`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()
		return runGenerate(cmd.Context(), cfg)
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "显示版本信息",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "dailyimage %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径 (yaml/json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "日志级别：debug/info/warn/error")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", "", "图片输出目录")
	rootCmd.PersistentFlags().StringVar(&fontPath, "font", "", "TrueType 字体文件路径")

	rootCmd.Flags().StringVarP(&today, "today", "t", "", "目标日期（格式：YYYY-MM-DD），默认今天")
	rootCmd.Flags().StringVarP(&outName, "name", "n", "", "输出文件名（不含目录，目录用 --output-dir），默认 <YYYY-MM-DD>.jpg")
	rootCmd.Flags().BoolVar(&push, "push", false, "生成后推送到已启用的通知渠道")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}

// loadConfig reads the config file, applies flag overrides, validates and
// initialises the global logger.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("加载配置失败: %w", err)
	}
	applyOverrides(cfg)

	if err := cfg.ValidateConfig(); err != nil {
		return nil, fmt.Errorf("配置校验失败: %w", err)
	}

	isDev := cfg.App.Environment != "production"
	if err := logger.InitLogger(isDev, cfg.App.LogFile, cfg.App.LogLevel); err != nil {
		return nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, nil
}

// applyOverrides lets command line flags win over file and environment values
func applyOverrides(cfg *config.Config) {
	if logLevel != "" {
		cfg.App.LogLevel = logLevel
	}
	if outputDir != "" {
		cfg.Generator.OutputDir = outputDir
	}
	if fontPath != "" {
		cfg.Generator.FontPath = fontPath
	}
}

// runGenerate produces one image and prints the summary
func runGenerate(ctx context.Context, cfg *config.Config) error {
	gen, err := daily.NewFromConfig(cfg)
	if err != nil {
		logger.Error("创建生成器失败", zap.Error(err))
		return err
	}

	publisher := notifier.FromConfig(cfg)
	if push && publisher.Len() == 0 {
		logger.Warn("未启用任何通知渠道，跳过推送")
	}

	taskMgr := tasks.NewTaskManager(ctx, gen, publisher)
	task, err := taskMgr.Run(ctx, &tasks.TaskRequest{
		Today:   today,
		Name:    outName,
		Push:    push,
		Trigger: tasks.TriggerCLI,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, renderSummary(task))
	return nil
}
