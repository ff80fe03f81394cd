package display

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/quocvuong92/ai-apps/internal/events"
	"github.com/quocvuong92/ai-apps/internal/lock"
	"github.com/quocvuong92/ai-apps/internal/provider"
	"github.com/quocvuong92/ai-apps/internal/syncer"
)

// captureOutput redirects Out and Err for the duration of the test
func captureOutput(t *testing.T) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldOut, oldErr, oldColor := Out, Err, enableColor
	Out, Err, enableColor = out, errOut, false
	t.Cleanup(func() {
		Out, Err, enableColor = oldOut, oldErr, oldColor
	})
	return out, errOut
}

func TestMessages(t *testing.T) {
	out, errOut := captureOutput(t)

	ShowError("boom")
	ShowWarning("careful")
	ShowSuccess("done")

	if got := errOut.String(); got != "Error: boom\nWarning: careful\n" {
		t.Errorf("stderr = %q", got)
	}
	if got := out.String(); got != "✓ done\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestMaskKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"", ""},
		{"abc", "***"},
		{"abcd", "****"},
		{"app-secret-1234", "********1234"},
	}

	for _, tt := range tests {
		if got := MaskKey(tt.key); got != tt.want {
			t.Errorf("MaskKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestActiveLabel(t *testing.T) {
	if got := ActiveLabel(nil); got != "unset" {
		t.Errorf("ActiveLabel(nil) = %q", got)
	}
	if got := ActiveLabel(provider.Bool(true)); got != "yes" {
		t.Errorf("ActiveLabel(true) = %q", got)
	}
	if got := ActiveLabel(provider.Bool(false)); got != "no" {
		t.Errorf("ActiveLabel(false) = %q", got)
	}
}

func TestShowConfigs(t *testing.T) {
	out, _ := captureOutput(t)

	on := provider.New("support-bot", "https://api.example.com/", "secret-key-9876")
	off := provider.New("legacy", "https://old.example.com", "k")
	off.SetActive(provider.Bool(false))

	ShowConfigs([]*provider.Config{on, off})

	got := out.String()
	for _, want := range []string{"NAME", "support-bot", "https://api.example.com", "legacy", "yes", "no"} {
		if !strings.Contains(got, want) {
			t.Errorf("ShowConfigs() output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "secret-key-9876") {
		t.Error("ShowConfigs() must not print API keys")
	}
}

func TestShowConfigs_Empty(t *testing.T) {
	out, _ := captureOutput(t)

	ShowConfigs(nil)
	if !strings.Contains(out.String(), "No apps configured") {
		t.Errorf("output = %q", out.String())
	}
}

func TestShowConfig_MasksKey(t *testing.T) {
	out, _ := captureOutput(t)

	ShowConfig(provider.New("bot", "https://h", "secret-key-9876"))

	got := out.String()
	if strings.Contains(got, "secret-key-9876") {
		t.Error("ShowConfig() leaked the API key")
	}
	if !strings.Contains(got, "********9876") {
		t.Errorf("ShowConfig() should show the masked key:\n%s", got)
	}
	if !strings.Contains(got, "https://h/v1") {
		t.Errorf("ShowConfig() should show the API URL:\n%s", got)
	}
}

func TestShowCallLogs(t *testing.T) {
	out, _ := captureOutput(t)

	rec := events.NewCallRecord()
	rec.ConfigName = "bot"
	rec.Method = "GET"
	rec.Path = "/info"
	rec.StatusCode = 400
	rec.ErrorCode = "INVALID_REQUEST"
	rec.Error = "Bad Request"
	rec.Duration = 12 * time.Millisecond

	ShowCallLogs([]events.CallRecord{rec})

	got := out.String()
	for _, want := range []string{"bot", "/info", "400", "12ms", "INVALID_REQUEST: Bad Request"} {
		if !strings.Contains(got, want) {
			t.Errorf("ShowCallLogs() output missing %q:\n%s", want, got)
		}
	}
}

func TestShowSyncResults(t *testing.T) {
	out, errOut := captureOutput(t)

	ShowSyncResults([]syncer.Result{
		{ConfigName: "ok", Snapshot: &syncer.Snapshot{Sections: map[string]map[string]any{"info": {}}}},
		{ConfigName: "busy", Skipped: true, Err: lock.ErrNotAcquired},
		{ConfigName: "broken", Err: errors.New("fetch info: connection refused")},
	})

	if !strings.Contains(out.String(), "ok: synced 1 sections") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(out.String(), "1 synced, 1 skipped, 1 failed") {
		t.Errorf("stdout = %q", out.String())
	}
	if !strings.Contains(errOut.String(), "busy: skipped") || !strings.Contains(errOut.String(), "broken: fetch info") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestFormatJSON(t *testing.T) {
	if got := FormatJSON([]byte(`{"a":1}`)); got != "{\n  \"a\": 1\n}" {
		t.Errorf("FormatJSON() = %q", got)
	}
	if got := FormatJSON([]byte(`<html>`)); got != "<html>" {
		t.Errorf("FormatJSON(non-json) = %q", got)
	}
}

func TestShowBody_Plain(t *testing.T) {
	out, _ := captureOutput(t)
	old := renderer
	renderer = nil
	t.Cleanup(func() { renderer = old })

	ShowBody([]byte(`{"name":"bot"}`))
	if got := out.String(); got != "{\n  \"name\": \"bot\"\n}\n" {
		t.Errorf("ShowBody() = %q", got)
	}
}
