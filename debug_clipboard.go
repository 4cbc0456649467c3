// debug_clipboard.go - "copy backtrace" clipboard integration
//
// Grounded on video_backend_ebiten.go's handleClipboardPaste: a
// sync.Once-guarded clipboard.Init() call, remembering whether init
// succeeded so every later invocation is a cheap bool check instead
// of re-initialising.

package gba

import (
	"strings"
	"sync"

	"golang.design/x/clipboard"
)

var (
	clipboardOnce sync.Once
	clipboardOK   bool
)

func ensureClipboard() bool {
	clipboardOnce.Do(func() {
		clipboardOK = clipboard.Init() == nil
	})
	return clipboardOK
}

// cmdCopyBacktrace copies the current backtrace to the system
// clipboard (spec.md §3 domain stack: "copy backtrace" command).
func (c *DebugConsole) cmdCopyBacktrace(cmd MonitorCommand) bool {
	if !ensureClipboard() {
		c.appendOutput("clipboard unavailable", colorRed)
		return false
	}
	lines := c.trace.Backtrace()
	if len(lines) == 0 {
		c.appendOutput("nothing to copy", colorDim)
		return false
	}
	text := strings.Join(lines, "")
	clipboard.Write(clipboard.FmtText, []byte(text))
	c.appendOutput("backtrace copied to clipboard", colorGreen)
	return false
}
