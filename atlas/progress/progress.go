// Package progress defines the outbound progress collaborator (SPEC_FULL.md
// §6.6): a best-effort status sink plus a cooperative cancel flag that the
// core polls at every stable iteration boundary.
package progress

import "log"

// Sink receives textual status updates and reports whether the caller has
// requested cancellation. Calls are serialized on the core's own thread;
// implementations must not call back into the core.
type Sink interface {
	SetText(text string)
	Cancelled() bool
}

// ConsoleSink logs every status line with the standard library logger, the
// same diagnostic idiom the teacher uses for device/flashcart progress
// (log.Printf, one line per step).
type ConsoleSink struct {
	cancel func() bool
}

// NewConsoleSink builds a ConsoleSink. cancel may be nil, in which case the
// sink never reports cancellation.
func NewConsoleSink(cancel func() bool) *ConsoleSink {
	return &ConsoleSink{cancel: cancel}
}

func (c *ConsoleSink) SetText(text string) {
	log.Println(text)
}

func (c *ConsoleSink) Cancelled() bool {
	if c.cancel == nil {
		return false
	}
	return c.cancel()
}

// Noop discards status text and never cancels. Useful for embedding the
// pipeline as a library without wiring a real progress UI.
type Noop struct{}

func (Noop) SetText(string)  {}
func (Noop) Cancelled() bool { return false }
