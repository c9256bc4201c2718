package handler

import (
	"timekeep/backend/internal/service"
)

// Handlers 所有 Handler 的聚合
type Handlers struct {
	Timesheet *TimesheetHandler
	TimeEntry *TimeEntryHandler
	Report    *ReportHandler
	Export    *ExportHandler
}

// NewHandlers 创建 Handler 聚合
func NewHandlers(svc *service.Service) *Handlers {
	return &Handlers{
		Timesheet: NewTimesheetHandler(svc.Timesheet),
		TimeEntry: NewTimeEntryHandler(svc.TimeEntry),
		Report:    NewReportHandler(svc.Report),
		Export:    NewExportHandler(svc.Export),
	}
}
