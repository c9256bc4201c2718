package service

import (
	"go.uber.org/zap"

	"timekeep/backend/config"
	"timekeep/backend/internal/repository"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Timesheet TimesheetService
	TimeEntry TimeEntryService
	Report    ReportService
	Export    ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	logger *zap.Logger,
) *Service {
	report := NewReportService(&cfg.Timesheet, repo, logger)
	return &Service{
		Timesheet: NewTimesheetService(&cfg.Timesheet, repo, logger),
		TimeEntry: NewTimeEntryService(&cfg.Timesheet, repo, logger),
		Report:    report,
		Export:    NewExportService(report, logger),
	}
}
