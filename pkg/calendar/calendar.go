// Package calendar derives the date values shown on the daily image:
// day of year, weekday, lunar text and year progress.
package calendar

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	lunar "github.com/6tail/lunar-go/calendar"
)

const (
	// DaysInYear is the progress divisor. Leap years keep 365, so Dec 31 of a
	// leap year reaches 100%.
	DaysInYear = 365
	// BarLength is the full width of the progress bar in pixels
	BarLength = 500
)

// ErrConversion 农历换算失败
var ErrConversion = errors.New("lunar conversion failed")

// Day holds the calendar values for one target date
type Day struct {
	Date        time.Time
	DayOfYear   int // 0-based, Jan 1 is 0
	Year        int
	Month       int
	DayOfMonth  int
	WeekdayName string // 星期三
	LunarText   string // 癸卯年 二月廿四
}

// Compute derives every calendar value for t
func Compute(t time.Time) (day Day, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", ErrConversion, t.Format("2006-01-02"), r)
		}
	}()

	solar := lunar.NewSolarFromYmd(t.Year(), int(t.Month()), t.Day())
	l := solar.GetLunar()
	if l == nil {
		return Day{}, fmt.Errorf("%w: %s", ErrConversion, t.Format("2006-01-02"))
	}

	return Day{
		Date:        t,
		DayOfYear:   t.YearDay() - 1,
		Year:        t.Year(),
		Month:       int(t.Month()),
		DayOfMonth:  t.Day(),
		WeekdayName: "星期" + solar.GetWeekInChinese(),
		LunarText:   l.GetYearInGanZhi() + "年 " + l.GetMonthInChinese() + "月" + l.GetDayInChinese(),
	}, nil
}

// ProgressPercent returns round(dayOfYear/365*100, 2) clamped to [0,100]
func ProgressPercent(dayOfYear int) float64 {
	p := float64(dayOfYear) / DaysInYear * 100
	p = math.Round(p*100) / 100
	return math.Max(0, math.Min(100, p))
}

// ProgressPixels returns ceil(total*percent/100) clamped to [0,total]
func ProgressPixels(percent float64, total int) int {
	px := int(math.Ceil(float64(total) * percent / 100))
	if px < 0 {
		return 0
	}
	if px > total {
		return total
	}
	return px
}

// FormatPercent prints the shortest decimal form: 20, 20.5, 20.55
func FormatPercent(percent float64) string {
	return strconv.FormatFloat(percent, 'f', -1, 64)
}

// ProgressText 进度文案，例如 "第 73 天，进度已消耗 20%"
func ProgressText(dayOfYear int, percent float64) string {
	return fmt.Sprintf("第 %d 天，进度已消耗 %s%%", dayOfYear, FormatPercent(percent))
}
