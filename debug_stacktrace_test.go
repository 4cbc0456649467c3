// debug_stacktrace_test.go - tests for the ported stack-trace utility.
//
// These assert against debug_stacktrace.go's own self-consistent
// behaviour (DESIGN.md "Stack-trace Scenario E note"): the formula is
// ported faithfully from original_source/src/debugger/stack-trace.c,
// but the spec's literal worked example does not arithmetically agree
// with that formula, so these tests are built from first principles
// instead of the spec's scenario text.
package gba

import "testing"

func TestStackTrace_EmptyStack(t *testing.T) {
	s := NewStackTrace(nil)
	if s.Depth() != 0 {
		t.Fatalf("Depth() = %d, want 0", s.Depth())
	}
	if s.Frame(0) != nil {
		t.Fatal("Frame(0) on an empty stack should be nil")
	}
	buf := make([]byte, 64)
	n := s.Format(0, buf)
	got := string(buf[:n])
	want := "#0  no stack frame available)\n"
	if got != want {
		t.Fatalf("Format on empty stack = %q, want %q", got, want)
	}
}

func TestStackTrace_PushPopDepth(t *testing.T) {
	s := NewStackTrace(nil)
	s.Push(0x1000, 0x1000, 0x2000, nil)
	s.Push(0x1010, 0x1010, 0x1FF0, nil)
	if s.Depth() != 2 {
		t.Fatalf("Depth() = %d, want 2", s.Depth())
	}
	s.Pop()
	if s.Depth() != 1 {
		t.Fatalf("Depth() after Pop = %d, want 1", s.Depth())
	}
	s.Pop()
	s.Pop() // popping an empty stack is a no-op
	if s.Depth() != 0 {
		t.Fatalf("Depth() after over-popping = %d, want 0", s.Depth())
	}
}

func TestStackTrace_Clear(t *testing.T) {
	s := NewStackTrace(nil)
	s.Push(1, 1, 1, nil)
	s.Push(2, 2, 2, nil)
	s.Clear()
	if s.Depth() != 0 {
		t.Fatalf("Depth() after Clear = %d, want 0", s.Depth())
	}
}

func TestStackTrace_FrameOrdering(t *testing.T) {
	s := NewStackTrace(nil)
	s.Push(0x100, 0x100, 0x200, nil) // oldest
	s.Push(0x110, 0x110, 0x1F0, nil)
	s.Push(0x120, 0x120, 0x1E0, nil) // newest

	if s.Frame(0).CallAddress != 0x120 {
		t.Fatalf("Frame(0) (newest) CallAddress = %#x, want 0x120", s.Frame(0).CallAddress)
	}
	if s.Frame(2).CallAddress != 0x100 {
		t.Fatalf("Frame(2) (oldest) CallAddress = %#x, want 0x100", s.Frame(2).CallAddress)
	}
	if s.Frame(3) != nil {
		t.Fatal("Frame(3) should be out of range and nil")
	}
}

func TestStackTrace_Format_OldestFrameHasNoCaller(t *testing.T) {
	s := NewStackTrace(nil)
	s.Push(0x08000000, 0x08000000, 0x03007F00, nil)

	buf := make([]byte, 64)
	n := s.Format(0, buf)
	got := string(buf[:n])
	want := "#0  at 08000000\n"
	if got != want {
		t.Fatalf("Format(oldest, no caller) = %q, want %q", got, want)
	}
}

func TestStackTrace_Format_WithCaller_NoRegisterFormatter(t *testing.T) {
	s := NewStackTrace(nil)
	s.Push(0x08000000, 0x08000000, 0x03007F00, nil) // oldest / caller
	s.Push(0x08000050, 0x08000010, 0x03007EF0, nil) // newest

	buf := make([]byte, 128)
	n := s.Format(0, buf)
	got := string(buf[:n])
	want := "#0  08000000 at 08000050 [08000000+80]\n"
	if got != want {
		t.Fatalf("Format(newest) = %q, want %q", got, want)
	}
}

func TestStackTrace_Format_OldestFrame_WithRegisterFormatter(t *testing.T) {
	// The register block is gated only on a non-nil formatter, not on
	// whether a caller frame exists - the oldest frame on the stack
	// still gets its register summary.
	s := NewStackTrace(func(f *StackFrame) string { return "R0=0" })
	s.Push(0x08000000, 0x08000000, 0x03007F00, nil)

	buf := make([]byte, 128)
	n := s.Format(0, buf)
	got := string(buf[:n])
	want := "#0  (R0=0)\n    at 08000000\n"
	if got != want {
		t.Fatalf("Format(oldest, with registers) = %q, want %q", got, want)
	}
}

func TestStackTrace_Format_WithRegisterFormatter(t *testing.T) {
	s := NewStackTrace(func(f *StackFrame) string { return "R0=0" })
	s.Push(0x08000000, 0x08000000, 0x03007F00, nil)
	s.Push(0x08000050, 0x08000010, 0x03007EF0, nil)

	buf := make([]byte, 128)
	n := s.Format(0, buf)
	got := string(buf[:n])
	want := "#0  08000000 (R0=0)\n    at 08000050 [08000000+80]\n"
	if got != want {
		t.Fatalf("Format(newest, with registers) = %q, want %q", got, want)
	}
}

func TestStackTrace_Format_Truncates(t *testing.T) {
	s := NewStackTrace(nil)
	s.Push(0x08000000, 0x08000000, 0x03007F00, nil)
	buf := make([]byte, 4)
	n := s.Format(0, buf)
	if n != 4 {
		t.Fatalf("Format into a 4-byte buffer should return 4, got %d", n)
	}
	if string(buf) != "#0  " {
		t.Fatalf("truncated output = %q, want %q", string(buf), "#0  ")
	}
}

func TestStackTrace_Backtrace_NewestFirst(t *testing.T) {
	s := NewStackTrace(nil)
	s.Push(0x100, 0x100, 0x200, nil)
	s.Push(0x110, 0x110, 0x1F0, nil)
	s.Push(0x120, 0x120, 0x1E0, nil)

	lines := s.Backtrace()
	if len(lines) != 3 {
		t.Fatalf("Backtrace() returned %d lines, want 3", len(lines))
	}
	if lines[0][:2] != "#0" {
		t.Fatalf("first backtrace line = %q, want it to start with #0", lines[0])
	}
	if lines[2][:2] != "#2" {
		t.Fatalf("last backtrace line = %q, want it to start with #2", lines[2])
	}
}
