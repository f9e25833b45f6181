package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/MKhiriev/go-task-sync/models"
)

// TUI writes command output. It is safe for concurrent use so pushes
// finishing in the background can notify while a command prints.
type TUI struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
}

func New(out, errOut io.Writer) *TUI {
	return &TUI{out: out, errOut: errOut}
}

func (t *TUI) write(w io.Writer, s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fmt.Fprintln(w, s)
}

// Notify implements service.Notifier with a one-shot boxed message.
func (t *TUI) Notify(_ context.Context, n models.Notification) {
	t.write(t.out, renderNotification(n))
}

func (t *TUI) Success(format string, args ...any) {
	t.write(t.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

func (t *TUI) Error(err error) {
	t.write(t.errOut, errorStyle.Render("error: ")+humanizeError(err))
}

func (t *TUI) Tasks(title string, tasks []models.Task) {
	t.write(t.out, renderPage(title, renderTasks(tasks), fmt.Sprintf("%d task(s)", len(tasks))))
}

func (t *TUI) TagGroups(groups []models.TagGroup) {
	t.write(t.out, renderPage("Tags", renderTagGroups(groups), fmt.Sprintf("%d tag(s)", len(groups))))
}

func (t *TUI) TagGroup(group models.TagGroup, comments []models.Update) {
	t.write(t.out, renderTagGroup(group, comments))
}

func (t *TUI) BuildInfo(info models.AppBuildInfo) {
	t.write(t.out, renderBuildInfo(info))
}

func renderNotification(n models.Notification) string {
	if n.Success {
		return overlayBoxStyle.Render(successStyle.Render("✓ ") + n.Subject + " synced")
	}
	return overlayBoxStyle.Render(errorStyle.Render("✗ ") + n.Subject + " was not synced")
}
