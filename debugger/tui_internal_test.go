package debugger

import (
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/cesiumlabs/mips32sim/driver"
)

// TestExecuteCommandAsync verifies executeCommand doesn't block.
func TestExecuteCommandAsync(t *testing.T) {
	d := driver.NewDriver()
	dbg := NewDebugger(d)
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	defer screen.Fini()

	tui := NewTUIWithScreen(dbg, screen)

	done := make(chan bool, 1)
	go func() {
		tui.executeCommand("help")
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(time.Second * 2):
		t.Fatal("executeCommand blocked for more than 2 seconds - deadlock detected")
	}
}

// TestHandleCommandAsync verifies handleCommand doesn't block.
func TestHandleCommandAsync(t *testing.T) {
	d := driver.NewDriver()
	dbg := NewDebugger(d)
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("failed to init simulation screen: %v", err)
	}
	defer screen.Fini()

	tui := NewTUIWithScreen(dbg, screen)

	tui.CommandInput.SetText("help")

	done := make(chan bool, 1)
	go func() {
		tui.handleCommand(tcell.KeyEnter)
		done <- true
	}()

	select {
	case <-done:
	case <-time.After(time.Millisecond * 100):
		t.Fatal("handleCommand blocked for more than 100ms - should return immediately")
	}
}
