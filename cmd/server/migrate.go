package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"timekeep/backend/pkg/database"
)

var rollbackSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "数据库迁移",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "应用所有未执行的迁移",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrationDB(func(run migrationRunner) error {
			return run.up()
		})
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "回滚迁移",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrationDB(func(run migrationRunner) error {
			return run.down(rollbackSteps)
		})
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "回滚的版本数")

	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
}

type migrationRunner struct {
	up   func() error
	down func(steps int) error
}

// withMigrationDB 建立数据库连接后执行迁移操作，结束时关闭连接
func withMigrationDB(fn func(migrationRunner) error) error {
	cfg, logger, err := bootstrap()
	if err != nil {
		return err
	}
	defer logger.Sync()

	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	defer sqlDB.Close()

	err = fn(migrationRunner{
		up:   func() error { return database.RunMigrations(sqlDB, logger) },
		down: func(steps int) error { return database.RollbackMigrations(sqlDB, steps, logger) },
	})
	if err != nil {
		logger.Error("数据库迁移失败", zap.Error(err))
	}
	return err
}
