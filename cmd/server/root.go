package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timekeep/backend/config"
	applogger "timekeep/backend/pkg/logger"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "timekeep",
	Short: "多租户工时周报服务",
	Long: `timekeep 提供工时条目录入、周报提交审核与工时统计的 HTTP API。
配置来源优先级：环境变量（TIMEKEEP_ 前缀）> 配置文件 > 默认值。`,
	SilenceUsage: true,
}

// Execute 命令行入口
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "配置文件路径（默认查找 ./config/config.yaml）")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// bootstrap 加载配置并初始化日志
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("加载配置失败: %w", err)
	}

	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}
	return cfg, logger, nil
}
