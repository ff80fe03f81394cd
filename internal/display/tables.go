package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/quocvuong92/ai-apps/internal/events"
	"github.com/quocvuong92/ai-apps/internal/provider"
	"github.com/quocvuong92/ai-apps/internal/syncer"
)

const timeLayout = "2006-01-02 15:04:05"

func newTable(headers ...string) *table.Table {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	if enableColor {
		t = t.StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	}
	return t
}

// ActiveLabel describes the tri-state active flag
func ActiveLabel(active *bool) string {
	switch {
	case active == nil:
		return "unset"
	case *active:
		return "yes"
	default:
		return "no"
	}
}

// ShowConfigs prints apps as a table
func ShowConfigs(configs []*provider.Config) {
	if len(configs) == 0 {
		ShowInfo("No apps configured. Add one with 'ai-apps app add'.")
		return
	}

	t := newTable("ID", "NAME", "BASE URL", "ACTIVE", "UPDATED")
	for _, c := range configs {
		t.Row(c.ID(), c.Name, c.BaseURL(), ActiveLabel(c.Active), formatTime(c.UpdatedAt))
	}
	fmt.Fprintln(Out, t.Render())
}

// ShowConfig prints one app's details. The API key is masked.
func ShowConfig(c *provider.Config) {
	rows := [][2]string{
		{"ID", c.ID()},
		{"Name", c.Name},
		{"Description", c.Description},
		{"Base URL", c.BaseURL()},
		{"API URL", c.APIURL("")},
		{"API key", MaskKey(c.APIKey)},
		{"Active", ActiveLabel(c.Active)},
		{"Iframe", strconv.Itoa(len(c.IframeEmbedCode)) + " bytes"},
		{"Created", formatTime(c.CreatedAt)},
		{"Updated", formatTime(c.UpdatedAt)},
	}
	for _, r := range rows {
		fmt.Fprintf(Out, "%s %s\n", style(headerStyle, fmt.Sprintf("%-12s", r[0]+":")), r[1])
	}
}

// ShowCallLogs prints call records newest first
func ShowCallLogs(records []events.CallRecord) {
	if len(records) == 0 {
		ShowInfo("No calls recorded yet.")
		return
	}

	t := newTable("TIME", "APP", "METHOD", "PATH", "STATUS", "DURATION", "ERROR")
	for _, r := range records {
		status := "-"
		if r.StatusCode != 0 {
			status = strconv.Itoa(r.StatusCode)
		}
		errText := r.Error
		if r.ErrorCode != "" {
			errText = r.ErrorCode + ": " + errText
		}
		t.Row(formatTime(r.CreatedAt), r.ConfigName, r.Method, r.Path, status, r.Duration.Round(time.Millisecond).String(), errText)
	}
	fmt.Fprintln(Out, t.Render())
}

// ShowSyncResults prints one line per synced app and a summary
func ShowSyncResults(results []syncer.Result) {
	if len(results) == 0 {
		ShowInfo("Nothing to sync.")
		return
	}

	for _, r := range results {
		switch {
		case r.Skipped:
			ShowWarning(fmt.Sprintf("%s: skipped, another sync is running", r.ConfigName))
		case r.Err != nil:
			ShowError(fmt.Sprintf("%s: %v", r.ConfigName, r.Err))
		default:
			ShowSuccess(fmt.Sprintf("%s: synced %d sections in %s", r.ConfigName, len(r.Snapshot.Sections), r.Elapsed.Round(time.Millisecond)))
		}
	}

	synced, skipped, failed := syncer.Summary(results)
	ShowInfo(fmt.Sprintf("%d synced, %d skipped, %d failed", synced, skipped, failed))
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}
