package cli

import (
	"fmt"
	"io"
	"time"
	"todoTracker/internal/models/task"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	cellStyle = lipgloss.NewStyle().
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(12)

	overdueBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	doneBadge = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))
)

func formatDue(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.UTC().Format(time.DateOnly)
}

func statusBadge(t *task.Task) string {
	switch {
	case t.HasOverDue:
		return overdueBadge.Render(string(t.Status) + " (просрочена)")
	case t.Status == task.StatusCompleted:
		return doneBadge.Render(string(t.Status))
	default:
		return string(t.Status)
	}
}

func renderTaskTable(w io.Writer, tasks []*task.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("Задач нет"))
		return
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "ЗАДАЧА", "СРОК", "ПРИОРИТЕТ", "СТАТУС").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return cellStyle
		})

	for _, t := range tasks {
		tbl.Row(t.ID, t.TaskName, formatDue(t.DueDate), t.Priority, statusBadge(t))
	}
	fmt.Fprintln(w, tbl.Render())
}

func renderTask(w io.Writer, t *task.Task) {
	rows := [][2]string{
		{"ID", t.ID},
		{"Задача", t.TaskName},
		{"Срок", formatDue(t.DueDate)},
		{"Приоритет", t.Priority},
		{"Описание", t.Description},
		{"Статус", statusBadge(t)},
	}
	for _, row := range rows {
		fmt.Fprintln(w, labelStyle.Render(row[0])+row[1])
	}
}

func renderSuccess(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render(msg))
}

func renderMuted(w io.Writer, msg string) {
	fmt.Fprintln(w, mutedStyle.Render(msg))
}
