package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"

	"timekeep/backend/pkg/weekcalc"
)

const calendarProductID = "-//timekeep//week export//ZH"

// ═══════════════════════════════════════════════════════════
// ExportWeekCalendar — 导出一周工时为 .ics
// ═══════════════════════════════════════════════════════════
//
// 每个 hours > 0 的条目生成一个全天 VEVENT：
//   SUMMARY     "<项目> · <任务>: <工时>h"
//   DESCRIPTION 条目备注
//   UID         "<条目ID>@timekeep"，重复导入时日历可去重

func (s *exportService) ExportWeekCalendar(ctx context.Context, tenantID, userID, weekStart string) (*bytes.Buffer, string, error) {
	view, err := s.report.WeekView(ctx, tenantID, userID, weekStart)
	if err != nil {
		return nil, "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(calendarProductID)
	cal.SetName(fmt.Sprintf("工时周报 %s", view.WeekStartDate))

	stamp := s.now().UTC()
	for _, e := range view.Entries {
		if e.Hours <= 0 {
			continue
		}
		day, err := weekcalc.ParseDate(e.Date)
		if err != nil {
			s.logger.Error("条目日期无效，跳过", zap.String("entry_id", e.ID), zap.String("date", e.Date))
			continue
		}

		evt := cal.AddEvent(e.ID + "@timekeep")
		evt.SetDtStampTime(stamp)
		evt.SetAllDayStartAt(day)
		evt.SetAllDayEndAt(day.AddDate(0, 0, 1))
		evt.SetSummary(calendarSummary(e.ProjectName, e.TaskName, e.Hours))
		if e.Note != nil && *e.Note != "" {
			evt.SetDescription(*e.Note)
		}
	}

	buf := bytes.NewBufferString(cal.Serialize())
	filename := fmt.Sprintf("工时周报_%s.ics", view.WeekStartDate)
	return buf, filename, nil
}

func calendarSummary(project, task string, hours float64) string {
	var b strings.Builder
	b.WriteString(firstNonEmpty(project, "未命名项目"))
	if task != "" {
		b.WriteString(" · ")
		b.WriteString(task)
	}
	fmt.Fprintf(&b, ": %gh", hours)
	return b.String()
}
