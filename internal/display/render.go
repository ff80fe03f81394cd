package display

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/charmbracelet/glamour"
)

var renderer *glamour.TermRenderer

// InitRenderer enables glamour rendering for ShowBody
func InitRenderer() error {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}
	renderer = r
	return nil
}

// FormatJSON indents a JSON body. Anything else is returned unchanged.
func FormatJSON(body []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "  "); err != nil {
		return string(body)
	}
	return buf.String()
}

// ShowBody prints a response body, rendered as a JSON code block when the
// renderer is initialized
func ShowBody(body []byte) {
	text := FormatJSON(body)
	if renderer != nil && json.Valid(body) {
		out, err := renderer.Render("```json\n" + text + "\n```")
		if err == nil {
			fmt.Fprint(Out, out)
			return
		}
	}
	fmt.Fprintln(Out, text)
}
