// Command gbadbg is the stack-trace debugger CLI (SPEC_FULL.md §12): a
// term.MakeRaw stdin loop that drives a DebugConsole over push/pop/
// clear/depth/format/backtrace, plus a "copy" command wired to the
// system clipboard. It owns a single Renderer purely so formatPPUState
// has something to report in place of CPU registers.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	gba "github.com/intuitionamiga/gba-ppu"
)

func main() {
	r := &gba.Renderer{}
	if err := r.Init(gba.RendererConfig{Scale: 1}); err != nil {
		fmt.Fprintf(os.Stderr, "gbadbg: %v\n", err)
		os.Exit(1)
	}
	defer r.Deinit()

	console := gba.NewDebugConsole(r)
	host := gba.NewTerminalHost(console)

	fmt.Print("gba stack-trace debugger - type ? for help, Ctrl-C to quit\r\n")
	host.Start()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	host.Stop()
	fmt.Print("\r\n")
}
