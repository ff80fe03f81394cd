package display

import (
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"
)

// Spinner shows progress on stderr. Off a terminal it does nothing.
type Spinner struct {
	s *spinner.Spinner
}

// NewSpinner creates a stopped spinner with msg beside it
func NewSpinner(msg string) *Spinner {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		return &Spinner{}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " " + msg
	return &Spinner{s: s}
}

// Start starts the animation
func (sp *Spinner) Start() {
	if sp.s != nil {
		sp.s.Start()
	}
}

// Stop stops the animation and clears the line
func (sp *Spinner) Stop() {
	if sp.s != nil {
		sp.s.Stop()
	}
}

// UpdateMessage changes the text beside the spinner
func (sp *Spinner) UpdateMessage(msg string) {
	if sp.s != nil {
		sp.s.Suffix = " " + msg
	}
}
