package client

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"checklist/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	openStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Width(22)
)

const barWidth = 20

// RenderTasks writes one block per task: a header with its progress and,
// when verbose, every step.
func RenderTasks(w io.Writer, tasks []models.Task, verbose bool) error {
	if len(tasks) == 0 {
		_, err := fmt.Fprintln(w, "No tasks")
		return err
	}

	for _, task := range tasks {
		done, total := task.CompletedSteps(), len(task.Steps)
		header := fmt.Sprintf("%s %s %s %d/%d",
			openStyle.Render(fmt.Sprintf("#%d", task.ID)),
			titleStyle.Render(task.Title),
			progressBar(done, total),
			done, total,
		)
		if _, err := fmt.Fprintln(w, header); err != nil {
			return err
		}

		if !verbose {
			continue
		}
		for _, step := range task.Steps {
			mark := openStyle.Render("[ ]")
			if step.Completed {
				mark = doneStyle.Render("[x]")
			}
			if _, err := fmt.Fprintf(w, "    %s %s\n", mark, step.Text); err != nil {
				return err
			}
		}
	}

	return nil
}

// RenderStats writes the completion summary as a label/value list.
func RenderStats(w io.Writer, stats models.Stats) error {
	rows := []struct {
		label string
		value string
	}{
		{"Tasks", fmt.Sprintf("%d/%d completed", stats.CompletedTasks, stats.TotalTasks)},
		{"Steps", fmt.Sprintf("%d/%d completed", stats.CompletedSteps, stats.TotalSteps)},
		{"Completion", fmt.Sprintf("%s %d%%", progressBar(stats.CompletedSteps, stats.TotalSteps), stats.CompletionPercentage)},
	}

	for _, row := range rows {
		if _, err := fmt.Fprintln(w, labelStyle.Render(row.label)+row.value); err != nil {
			return err
		}
	}
	return nil
}

func progressBar(done, total int) string {
	filled := 0
	if total > 0 {
		filled = done * barWidth / total
	}
	return doneStyle.Render(strings.Repeat("█", filled)) +
		openStyle.Render(strings.Repeat("░", barWidth-filled))
}
