// debug_commands.go - Command parser and handlers for the stack-trace debugger console
//
// Grounded on the teacher's debug_commands.go command-dispatch idiom
// (MonitorCommand{Name, Args}, ParseCommand, ExecuteCommand's
// switch-on-name shape, appendOutput(text, color)) narrowed from a
// full CPU monitor down to the handful of operations the stack-trace
// utility exposes (spec.md §4.9, §3 Domain Stack: "stack-trace
// debugger CLI").

package gba

import (
	"fmt"
	"strconv"
	"strings"
)

// Color constants (RGBA packed as 0xRRGGBBAA), same palette the
// teacher's monitor uses for console output.
const (
	colorWhite = 0xFFFFFFFF
	colorCyan  = 0x64C8FFFF
	colorRed   = 0xFF5555FF
	colorGreen = 0x55FF55FF
	colorDim   = 0x5555FFFF
)

// ConsoleLine is one rendered line of debugger output, paired with
// the colour it should be drawn in.
type ConsoleLine struct {
	Text  string
	Color uint32
}

// MonitorCommand is a parsed command with name and arguments.
type MonitorCommand struct {
	Name string
	Args []string
}

// ParseCommand splits a raw input line into a command name and arguments.
func ParseCommand(input string) MonitorCommand {
	input = strings.TrimSpace(input)
	if input == "" {
		return MonitorCommand{}
	}
	parts := strings.Fields(input)
	return MonitorCommand{
		Name: strings.ToLower(parts[0]),
		Args: parts[1:],
	}
}

// ParseAddress parses an address in $hex, 0xhex, bare-hex, or
// #decimal form, the same four forms the teacher's monitor accepts.
func ParseAddress(s string) (uint64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	switch {
	case strings.HasPrefix(s, "#"):
		v, err := strconv.ParseUint(s[1:], 10, 64)
		return v, err == nil
	case strings.HasPrefix(s, "$"):
		v, err := strconv.ParseUint(s[1:], 16, 64)
		return v, err == nil
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 64)
		return v, err == nil
	default:
		v, err := strconv.ParseUint(s, 16, 64)
		return v, err == nil
	}
}

// DebugConsole wires a StackTrace to a line-oriented command
// dispatcher, the stack-trace-debugger analogue of the teacher's
// MachineMonitor (spec.md §3 "stack-trace debugger CLI").
type DebugConsole struct {
	trace  *StackTrace
	output []ConsoleLine
}

// NewDebugConsole builds a console over a fresh stack trace, using
// formatPPUState (gba_renderer.go) as the register-formatting callback.
func NewDebugConsole(r *Renderer) *DebugConsole {
	return &DebugConsole{trace: NewStackTrace(func(f *StackFrame) string {
		return formatPPUState(r)
	})}
}

func (c *DebugConsole) appendOutput(text string, color uint32) {
	c.output = append(c.output, ConsoleLine{Text: text, Color: color})
}

// Output returns every line produced so far, newest last.
func (c *DebugConsole) Output() []ConsoleLine { return c.output }

// Execute dispatches one parsed command (spec.md §4.9 push/pop/clear/
// depth/format), returning true if state changed in a way the caller
// should persist (mirrors the teacher's ExecuteCommand bool result,
// used there to gate save-state snapshots).
func (c *DebugConsole) Execute(cmd MonitorCommand) bool {
	switch cmd.Name {
	case "push":
		return c.cmdPush(cmd)
	case "pop":
		return c.cmdPop(cmd)
	case "clear":
		return c.cmdClear(cmd)
	case "depth":
		return c.cmdDepth(cmd)
	case "format", "f":
		return c.cmdFormat(cmd)
	case "bt", "backtrace":
		return c.cmdBacktrace(cmd)
	case "copy":
		return c.cmdCopyBacktrace(cmd)
	case "?", "help":
		return c.cmdHelp(cmd)
	default:
		c.appendOutput(fmt.Sprintf("Unknown command: %s", cmd.Name), colorRed)
		return false
	}
}

func (c *DebugConsole) cmdPush(cmd MonitorCommand) bool {
	if len(cmd.Args) < 3 {
		c.appendOutput("Usage: push <pc> <entry> <sp>", colorRed)
		return false
	}
	pc, ok1 := ParseAddress(cmd.Args[0])
	entry, ok2 := ParseAddress(cmd.Args[1])
	sp, ok3 := ParseAddress(cmd.Args[2])
	if !ok1 || !ok2 || !ok3 {
		c.appendOutput("Invalid address in push", colorRed)
		return false
	}
	c.trace.Push(uint32(pc), uint32(entry), uint32(sp), nil)
	c.appendOutput(fmt.Sprintf("pushed frame, depth=%d", c.trace.Depth()), colorGreen)
	return true
}

func (c *DebugConsole) cmdPop(cmd MonitorCommand) bool {
	if c.trace.Depth() == 0 {
		c.appendOutput("stack already empty", colorDim)
		return false
	}
	c.trace.Pop()
	c.appendOutput(fmt.Sprintf("popped frame, depth=%d", c.trace.Depth()), colorGreen)
	return true
}

func (c *DebugConsole) cmdClear(cmd MonitorCommand) bool {
	c.trace.Clear()
	c.appendOutput("stack cleared", colorGreen)
	return true
}

func (c *DebugConsole) cmdDepth(cmd MonitorCommand) bool {
	c.appendOutput(fmt.Sprintf("depth=%d", c.trace.Depth()), colorCyan)
	return false
}

func (c *DebugConsole) cmdFormat(cmd MonitorCommand) bool {
	index := 0
	if len(cmd.Args) >= 1 {
		if v, ok := ParseAddress(cmd.Args[0]); ok {
			index = int(v)
		}
	}
	buf := make([]byte, 256)
	n := c.trace.Format(index, buf)
	c.appendOutput(string(buf[:n]), colorWhite)
	return false
}

func (c *DebugConsole) cmdBacktrace(cmd MonitorCommand) bool {
	lines := c.trace.Backtrace()
	if len(lines) == 0 {
		c.appendOutput("No stack frames found", colorDim)
		return false
	}
	for i, line := range lines {
		c.appendOutput(fmt.Sprintf("#%-3d %s", i, strings.TrimRight(line, "\n")), colorCyan)
	}
	return false
}

func (c *DebugConsole) cmdHelp(cmd MonitorCommand) bool {
	for _, line := range []string{
		"push <pc> <entry> <sp>  - push a call frame",
		"pop                     - pop the newest frame",
		"clear                   - clear the stack",
		"depth                   - print current depth",
		"format <n>              - format frame n",
		"bt                      - print every frame",
		"copy                    - copy the backtrace to the clipboard",
	} {
		c.appendOutput(line, colorDim)
	}
	return false
}
