package tui

import (
	"fmt"
	"strings"

	"github.com/MKhiriev/go-task-sync/models"
)

const maxTitleWidth = 48

func renderTasks(tasks []models.Task) string {
	var b strings.Builder
	for _, task := range tasks {
		b.WriteString(renderTaskLine(task))
		b.WriteString("\n")
	}
	return b.String()
}

// renderTaskLine renders "#id mark [x] title  due  #tags  (local)".
func renderTaskLine(task models.Task) string {
	mark := importanceMarks[len(importanceMarks)-1]
	if task.Importance >= 0 && task.Importance < len(importanceMarks) {
		mark = importanceMarks[task.Importance]
	}

	check := "[ ]"
	title := fitText(task.Title, maxTitleWidth)
	if task.IsCompleted() {
		check = "[x]"
		title = doneStyle.Render(title)
	}

	parts := []string{fmt.Sprintf("#%-4d %s %s %s", task.ID, mark, check, title)}

	if due := formatMillis(task.DueDate, task.HasDueTime()); due != "" {
		parts = append(parts, "due "+due)
	}
	if task.Recurrence != "" {
		parts = append(parts, "↻ "+task.Recurrence)
	}
	if len(task.Tags) > 0 {
		tags := make([]string, 0, len(task.Tags))
		for _, tag := range task.Tags {
			tags = append(tags, "#"+tag.Name)
		}
		parts = append(parts, tagStyle.Render(strings.Join(tags, " ")))
	}
	if task.CommentCount > 0 {
		parts = append(parts, fmt.Sprintf("%d comment(s)", task.CommentCount))
	}
	if task.RemoteID == 0 {
		parts = append(parts, pendingStyle.Render("(local)"))
	}

	return strings.Join(parts, "  ")
}
