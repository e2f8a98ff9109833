package take

import (
	"time"

	"github.com/abhisek/skillpath/internal/session"
)

// tickMsg drives the countdown display once a second.
type tickMsg time.Time

// codeCheckedMsg carries a code checker verdict back to the screen.
type codeCheckedMsg struct {
	Key     string
	Verdict string
	Err     error
}

// submittedMsg is sent when a manual submission finishes.
type submittedMsg struct {
	Result *session.Result
	Err    error
}
