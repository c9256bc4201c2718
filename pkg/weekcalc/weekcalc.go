package weekcalc

import (
	"fmt"
	"math"
	"time"
)

// DateLayout 周起始日等日期字段在 API 与存储中的统一格式
const DateLayout = "2006-01-02"

// DaysPerWeek 一周的天数（day_of_week 取值 0-6）
const DaysPerWeek = 7

// ParseDate 解析 YYYY-MM-DD，返回 UTC 零点
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate 格式化为 YYYY-MM-DD
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Normalize 截断到所在日期的 UTC 零点（保留日历日期，丢弃时区与时分秒）
func Normalize(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// WeekStart 返回 t 所在周的起始日期。
// startDay 为周起始星期（0=周日 … 6=周六），越界时按周一处理。
func WeekStart(t time.Time, startDay int) time.Time {
	if !ValidDay(startDay) {
		startDay = int(time.Monday)
	}
	day := Normalize(t)
	offset := (int(day.Weekday()) - startDay + DaysPerWeek) % DaysPerWeek
	return day.AddDate(0, 0, -offset)
}

// DayDate 返回周内第 day 天的日期（weekStart + day 天）
func DayDate(weekStart time.Time, day int) time.Time {
	return Normalize(weekStart).AddDate(0, 0, day)
}

// WeekEnd 返回周的最后一天（weekStart + 6 天）
func WeekEnd(weekStart time.Time) time.Time {
	return DayDate(weekStart, DaysPerWeek-1)
}

// WeekDates 返回一周 7 天的日期字符串，按 day_of_week 顺序
func WeekDates(weekStart time.Time) []string {
	dates := make([]string, DaysPerWeek)
	for i := 0; i < DaysPerWeek; i++ {
		dates[i] = FormatDate(DayDate(weekStart, i))
	}
	return dates
}

// ValidDay 报告 d 是否为合法的 day_of_week / 星期值
func ValidDay(d int) bool {
	return d >= 0 && d < DaysPerWeek
}

// Round2 保留两位小数（x*100 四舍五入后 /100）
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// Percent 计算占比百分比并保留两位小数；total 为 0 时返回 0
func Percent(part, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return Round2(part / total * 100)
}
