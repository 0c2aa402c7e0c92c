// Command mipssim is the CLI front end for the simulator: assemble,
// run, decode, repl, tui, gui, and serve subcommands over the same
// vm/decoder/assembler/driver/debugger/api stack.
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/cesiumlabs/mips32sim/api"
	"github.com/cesiumlabs/mips32sim/assembler"
	"github.com/cesiumlabs/mips32sim/config"
	"github.com/cesiumlabs/mips32sim/debugger"
	"github.com/cesiumlabs/mips32sim/decoder"
	"github.com/cesiumlabs/mips32sim/driver"
	"github.com/cesiumlabs/mips32sim/loader"
	"github.com/cesiumlabs/mips32sim/objfmt"
)

// Version information - overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Exit codes per spec.md §6.
const (
	exitOK            = 0
	exitLoadError     = 2
	exitRuntimeError  = 3
	exitUsageError    = 4
	exitCycleExceeded = 5
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsageError)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "assemble":
		err = cmdAssemble(args)
	case "run":
		err = cmdRun(args)
	case "decode":
		err = cmdDecode(args)
	case "repl":
		err = cmdRepl(args)
	case "tui":
		err = cmdTUI(args)
	case "gui":
		err = cmdGUI(args)
	case "serve":
		err = cmdServe(args)
	case "-version", "--version", "version":
		printVersion()
		os.Exit(exitOK)
	case "-help", "--help", "help":
		printUsage()
		os.Exit(exitOK)
	default:
		fmt.Fprintf(os.Stderr, "mipssim: unknown command %q\n", cmd)
		printUsage()
		os.Exit(exitUsageError)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "mipssim %s: %v\n", cmd, err)
		os.Exit(exitFromError(err))
	}
}

func printVersion() {
	fmt.Printf("mipssim %s\n", Version)
	if Commit != "unknown" {
		fmt.Printf("commit: %s\n", Commit)
	}
	if Date != "unknown" {
		fmt.Printf("built: %s\n", Date)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `usage: mipssim <command> [arguments]

commands:
  assemble   assemble a .s file to a .mobj object file
  run        assemble and run a .s file to completion
  decode     disassemble a .mobj object file
  repl       start the line-oriented debugger REPL
  tui        start the terminal (tcell/tview) debugger
  gui        start the windowed (Fyne) debugger
  serve      start the HTTP/WebSocket session API
  version    print version information`)
}

type exitCoder interface {
	ExitCode() int
}

func exitFromError(err error) int {
	if ec, ok := err.(exitCoder); ok {
		return ec.ExitCode()
	}
	return exitRuntimeError
}

type cliError struct {
	code int
	err  error
}

func (e *cliError) Error() string { return e.err.Error() }
func (e *cliError) ExitCode() int { return e.code }

func usageErrorf(format string, a ...interface{}) error {
	return &cliError{code: exitUsageError, err: fmt.Errorf(format, a...)}
}

func loadErrorf(format string, a ...interface{}) error {
	return &cliError{code: exitLoadError, err: fmt.Errorf(format, a...)}
}

// cmdAssemble implements `mipssim assemble <file.s> -o <file.mobj>`.
func cmdAssemble(args []string) error {
	fs := flag.NewFlagSet("assemble", flag.ContinueOnError)
	outPath := fs.String("o", "", "output .mobj path (default: input with .mobj extension)")
	strict := fs.Bool("strict", false, "fail if any line fails to assemble")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%w", err)
	}
	if fs.NArg() != 1 {
		return usageErrorf("expected exactly one source file")
	}

	source, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user-specified source path from CLI argument
	if err != nil {
		return loadErrorf("reading source: %w", err)
	}

	prog, diags := assembler.AssembleWithLabels(string(source))
	if len(diags) > 0 {
		fmt.Fprint(os.Stderr, diags.Error())
		if *strict {
			return loadErrorf("assembly failed with %d error(s)", len(diags))
		}
	}

	words, err := objfmt.EncodeProgram(prog.Instructions)
	if err != nil {
		return loadErrorf("encoding program: %w", err)
	}

	data := serializeData(prog.Data)
	container := objfmt.Container{Instructions: words, Data: data}

	out := *outPath
	if out == "" {
		out = trimExt(fs.Arg(0)) + ".mobj"
	}
	if err := os.WriteFile(out, container.Marshal(), 0600); err != nil {
		return loadErrorf("writing object file: %w", err)
	}

	fmt.Printf("assembled %d instruction(s), %d byte(s) of data -> %s\n", len(words), len(data), out)
	return nil
}

func trimExt(path string) string {
	ext := filepath.Ext(path)
	return path[:len(path)-len(ext)]
}

// serializeData flattens a program's data section into the same
// offset-addressed byte layout loader.writeDataItem would produce in
// machine memory, so the .mobj Data blob can later be copied in at a
// chosen base address with a single byte-for-byte write.
func serializeData(items []assembler.DataItem) []byte {
	var extent uint32
	for _, item := range items {
		end := item.Address
		switch item.Kind {
		case assembler.DataWord:
			end += uint32(len(item.Words)) * 4
		case assembler.DataByte:
			end += uint32(len(item.Bytes))
		case assembler.DataAsciiz:
			end += uint32(len(item.Text)) + 1
		}
		if end > extent {
			extent = end
		}
	}

	buf := make([]byte, extent)
	for _, item := range items {
		switch item.Kind {
		case assembler.DataWord:
			for i, w := range item.Words {
				off := item.Address + uint32(i)*4
				buf[off] = byte(w)
				buf[off+1] = byte(w >> 8)
				buf[off+2] = byte(w >> 16)
				buf[off+3] = byte(w >> 24)
			}
		case assembler.DataByte:
			copy(buf[item.Address:], item.Bytes)
		case assembler.DataAsciiz:
			copy(buf[item.Address:], append([]byte(item.Text), 0))
		}
	}
	return buf
}

// cmdRun implements `mipssim run <file.s>` (or a .mobj with -obj).
func cmdRun(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	maxCycles := fs.Uint64("max-cycles", 0, "cycle budget override (0 uses the configured default)")
	dataBase := fs.Uint("data-base", uint(loader.DefaultDataBase), "base address for the .data segment")
	isObject := fs.Bool("obj", false, "treat the input as an assembled .mobj file instead of source")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%w", err)
	}
	if fs.NArg() != 1 {
		return usageErrorf("expected exactly one program file")
	}

	cfg := config.DefaultConfig()
	if *maxCycles > 0 {
		cfg.Execution.MaxCycles = *maxCycles
	}
	d := driver.NewDriverWithConfig(cfg)

	content, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user-specified program path from CLI argument
	if err != nil {
		return loadErrorf("reading program: %w", err)
	}

	if *isObject {
		container, err := objfmt.Unmarshal(content)
		if err != nil {
			return loadErrorf("decoding object file: %w", err)
		}
		d.LoadWords(container.Instructions)
		for i, b := range container.Data {
			d.Machine.WriteByte(uint32(*dataBase)+uint32(i), b) // #nosec G115 -- data length is bounded by the object file
		}
	} else {
		if _, err := loader.LoadIntoDriver(d, string(content), uint32(*dataBase)); err != nil { // #nosec G115 -- flag-provided base address
			return loadErrorf("assembling program: %w", err)
		}
	}

	remaining := d.Run(int(cfg.Execution.MaxCycles))
	fmt.Print(d.Machine.Console.Output())

	if !d.IsTerminated() {
		return &cliError{code: exitCycleExceeded, err: fmt.Errorf("program did not halt within %d cycles", cfg.Execution.MaxCycles)}
	}
	_ = remaining
	return nil
}

// cmdDecode implements `mipssim decode <file.mobj>`.
func cmdDecode(args []string) error {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	showSymbols := fs.Bool("symbols", false, "also print the source file's label table, if a matching .s file exists")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%w", err)
	}
	if fs.NArg() != 1 {
		return usageErrorf("expected exactly one object file")
	}

	raw, err := os.ReadFile(fs.Arg(0)) // #nosec G304 -- user-specified object path from CLI argument
	if err != nil {
		return loadErrorf("reading object file: %w", err)
	}
	container, err := objfmt.Unmarshal(raw)
	if err != nil {
		return loadErrorf("decoding object file: %w", err)
	}

	for i, word := range container.Instructions {
		inst, ok := decoder.Decode(word)
		if !ok {
			fmt.Printf("%4d: %08x   <invalid>\n", i, word)
			continue
		}
		fmt.Printf("%4d: %08x   %s\n", i, word, inst.Name())
	}

	if *showSymbols {
		srcPath := trimExt(fs.Arg(0)) + ".s"
		source, err := os.ReadFile(srcPath) // #nosec G304 -- derived from the user-specified object path
		if err != nil {
			fmt.Fprintf(os.Stderr, "no matching source file %s for symbol dump\n", srcPath)
			return nil
		}
		prog, _ := assembler.AssembleWithLabels(string(source))
		fmt.Println("\nsymbols:")
		for name, addr := range prog.Labels {
			fmt.Printf("  %-24s 0x%08x\n", name, addr)
		}
	}

	return nil
}

// cmdRepl implements `mipssim repl <file.s>`.
func cmdRepl(args []string) error {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%w", err)
	}

	dbg, err := newDebuggerFromArgs(fs.Args())
	if err != nil {
		return err
	}

	if err := debugger.RunCLI(dbg); err != nil {
		return &cliError{code: exitRuntimeError, err: err}
	}
	return nil
}

// cmdTUI implements `mipssim tui <file.s>`.
func cmdTUI(args []string) error {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%w", err)
	}

	dbg, err := newDebuggerFromArgs(fs.Args())
	if err != nil {
		return err
	}

	t := debugger.NewTUI(dbg)
	if err := t.Run(); err != nil {
		return &cliError{code: exitRuntimeError, err: err}
	}
	return nil
}

// cmdGUI implements `mipssim gui <file.s>`.
func cmdGUI(args []string) error {
	fs := flag.NewFlagSet("gui", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%w", err)
	}

	dbg, err := newDebuggerFromArgs(fs.Args())
	if err != nil {
		return err
	}

	if err := debugger.RunGUI(dbg); err != nil {
		return &cliError{code: exitRuntimeError, err: err}
	}
	return nil
}

// newDebuggerFromArgs loads an optional source file (if one is given)
// into a fresh driver and wraps it in a Debugger.
func newDebuggerFromArgs(fileArgs []string) (*debugger.Debugger, error) {
	d := driver.NewDriverWithConfig(config.DefaultConfig())

	if len(fileArgs) > 0 {
		source, err := os.ReadFile(fileArgs[0]) // #nosec G304 -- user-specified program path from CLI argument
		if err != nil {
			return nil, loadErrorf("reading source: %w", err)
		}
		dataLabels, err := loader.LoadIntoDriver(d, string(source), loader.DefaultDataBase)
		if err != nil {
			return nil, loadErrorf("assembling program: %w", err)
		}
		dbg := debugger.NewDebugger(d)
		symbols := make(map[string]uint32, len(d.Program.Labels)+len(dataLabels))
		for name, addr := range d.Program.Labels {
			symbols[name] = addr
		}
		for name, addr := range dataLabels {
			symbols[name] = addr
		}
		dbg.LoadSymbols(symbols)
		return dbg, nil
	}

	return debugger.NewDebugger(d), nil
}

// cmdServe implements `mipssim serve`, the HTTP/WebSocket session API.
func cmdServe(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	port := fs.Int("port", 8080, "listen port")
	if err := fs.Parse(args); err != nil {
		return usageErrorf("%w", err)
	}

	server := api.NewServer(*port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	shutdownErr := make(chan error, 1)
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nshutting down API server...")
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			shutdownErr <- server.Shutdown(ctx)
		})
	}

	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	serveErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-sigChan:
		performShutdown()
		return <-shutdownErr
	case err := <-serveErr:
		return err
	}
}
