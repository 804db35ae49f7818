package main

import (
	"fmt"
	"strings"
	"time"

	"dailyimage/pkg/calendar"
	"dailyimage/pkg/tasks"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6391A9")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(8)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#C9CDD8")).Padding(0, 1)
)

// renderSummary formats a finished generation task for the terminal
func renderSummary(task *tasks.Task) string {
	r := task.Result
	if r == nil {
		return errorStyle.Render("✗ " + task.Error)
	}

	rows := [][2]string{
		{"文件", r.Path},
		{"日期", r.TargetDate + " " + r.Weekday},
		{"农历", r.LunarText},
		{"进度", r.ProgressText},
		{"诗词", fmt.Sprintf("《%s》 %s", r.PoemTitle, r.PoemAuthor)},
		{"", r.PoemContent},
		{"来源", r.PoemSource},
		{"耗时", task.Duration.Round(time.Millisecond).String()},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("✓ 每日图片已生成"))
	for _, row := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(row[0]))
		b.WriteString(valueStyle.Render(row[1]))
	}
	if r.PoemError != "" {
		b.WriteString("\n" + warnStyle.Render("! 诗词接口不可用，已使用内置诗句: "+r.PoemError))
	}
	if r.PushError != "" {
		b.WriteString("\n" + warnStyle.Render("! 推送失败: "+r.PushError))
	} else if r.Pushed {
		b.WriteString("\n" + valueStyle.Render("已推送到通知渠道"))
	}
	b.WriteString("\n" + progressBar(r.ProgressPercent, 30))
	return boxStyle.Render(b.String())
}

// progressBar mirrors the image's progress bar in the terminal
func progressBar(percent float64, width int) string {
	filled := calendar.ProgressPixels(percent, width)
	passed := lipgloss.NewStyle().Foreground(lipgloss.Color("#6391A9")).Render(strings.Repeat("█", filled))
	rest := lipgloss.NewStyle().Foreground(lipgloss.Color("#C9CDD8")).Render(strings.Repeat("░", width-filled))
	return passed + rest
}
