package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"timekeep/backend/pkg/weekcalc"
)

// ── 导出模块业务错误 ──

var ErrExportGenerateFail = errors.New("生成 Excel 文件失败")

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出内容与 WeekView 一致，以 bytes.Buffer 返回，由 Handler 层设置响应头
//   - 行：项目 × 任务；列：周内 7 天 + 合计；末尾为每日合计行与周报状态
type ExportService interface {
	ExportWeek(ctx context.Context, tenantID, userID, weekStart string) (*bytes.Buffer, string, error)
	// ExportWeekCalendar 每个工时条目一个全天事件（iCalendar）
	ExportWeekCalendar(ctx context.Context, tenantID, userID, weekStart string) (*bytes.Buffer, string, error)
}

type exportService struct {
	report ReportService
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(report ReportService, logger *zap.Logger) ExportService {
	return &exportService{report: report, logger: logger, now: time.Now}
}

var weekdayNames = map[time.Weekday]string{
	time.Sunday: "周日", time.Monday: "周一", time.Tuesday: "周二", time.Wednesday: "周三",
	time.Thursday: "周四", time.Friday: "周五", time.Saturday: "周六",
}

// exportRow 一个 (项目, 任务) 行
type exportRow struct {
	project string
	code    string
	task    string
	hours   []float64
}

// ═══════════════════════════════════════════════════════════
// ExportWeek — 导出一周工时为 Excel
// ═══════════════════════════════════════════════════════════
//
// | 项目 | 项目编号 | 任务 | 01-06 周一 | … | 01-12 周日 | 合计 |
//
// 返回值：buf（Excel 内容）, filename（建议文件名）, error

func (s *exportService) ExportWeek(ctx context.Context, tenantID, userID, weekStart string) (*bytes.Buffer, string, error) {
	view, err := s.report.WeekView(ctx, tenantID, userID, weekStart)
	if err != nil {
		return nil, "", err
	}

	// 1. 按 (项目, 任务) 聚合行，保持条目出现顺序
	var rows []*exportRow
	index := make(map[string]*exportRow)
	for _, e := range view.Entries {
		task := ""
		if e.TaskID != nil {
			task = *e.TaskID
		}
		key := e.ProjectID + ":" + task

		row, ok := index[key]
		if !ok {
			row = &exportRow{
				project: firstNonEmpty(e.ProjectName, e.ProjectID),
				code:    e.ProjectCode,
				task:    firstNonEmpty(e.TaskName, task),
				hours:   make([]float64, weekcalc.DaysPerWeek),
			}
			index[key] = row
			rows = append(rows, row)
		}
		if weekcalc.ValidDay(e.DayOfWeek) {
			row.hours[e.DayOfWeek] += e.Hours
		}
	}

	// 2. 生成 Excel
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "工时周报"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	lastCol := colName(3 + weekcalc.DaysPerWeek)
	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 12)
	f.SetColWidth(sheetName, "C", "C", 20)
	f.SetColWidth(sheetName, colName(3), lastCol, 12)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("工时周报 %s ~ %s", view.WeekStartDate, view.WeekEndDate))
	f.MergeCell(sheetName, "A1", cell(lastCol, 1))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	row := 2
	f.SetCellValue(sheetName, cell("A", row), "项目")
	f.SetCellValue(sheetName, cell("B", row), "项目编号")
	f.SetCellValue(sheetName, cell("C", row), "任务")
	for i, d := range view.Dates {
		f.SetCellValue(sheetName, cell(colName(3+i), row), dayHeader(d))
	}
	f.SetCellValue(sheetName, cell(lastCol, row), "合计")
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), headerStyle)

	// 数据行
	row = 3
	for _, r := range rows {
		f.SetCellValue(sheetName, cell("A", row), r.project)
		f.SetCellValue(sheetName, cell("B", row), r.code)
		f.SetCellValue(sheetName, cell("C", row), r.task)
		var sum float64
		for i, h := range r.hours {
			f.SetCellValue(sheetName, cell(colName(3+i), row), weekcalc.Round2(h))
			sum += h
		}
		f.SetCellValue(sheetName, cell(lastCol, row), weekcalc.Round2(sum))
		row++
	}

	// 合计行
	f.SetCellValue(sheetName, cell("A", row), "每日合计")
	for i, h := range view.DailyTotals {
		f.SetCellValue(sheetName, cell(colName(3+i), row), h)
	}
	f.SetCellValue(sheetName, cell(lastCol, row), view.WeeklyTotal)
	f.SetCellStyle(sheetName, cell("A", row), cell(lastCol, row), totalStyle)
	row += 2

	f.SetCellValue(sheetName, cell("A", row), "周报状态")
	f.SetCellValue(sheetName, cell("B", row), view.Timesheet.Status)
	f.SetCellValue(sheetName, cell("A", row+1), "应计工时")
	f.SetCellValue(sheetName, cell("B", row+1), view.ExpectedHours)

	// 3. 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("工时周报_%s.xlsx", view.WeekStartDate)
	return buf, filename, nil
}

// ── 辅助函数 ──

func dayHeader(date string) string {
	t, err := weekcalc.ParseDate(date)
	if err != nil {
		return date
	}
	return fmt.Sprintf("%s %s", t.Format("01-02"), weekdayNames[t.Weekday()])
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
