package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/bnshell/bnshell/api"
	"github.com/bnshell/bnshell/bignum/bnio"
	"github.com/bnshell/bnshell/bignum/width1024"
	"github.com/bnshell/bnshell/bignum/width128"
	"github.com/bnshell/bnshell/bignum/width192"
	"github.com/bnshell/bnshell/bignum/width256"
	"github.com/bnshell/bnshell/bignum/width512"
	"github.com/bnshell/bnshell/internal/hostconfig"
	"github.com/bnshell/bnshell/internal/scriptservice"
	"github.com/bnshell/bnshell/internal/singleinstance"
	"github.com/bnshell/bnshell/script/debuggui"
	"github.com/bnshell/bnshell/script/debugtui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		replMode    = flag.Bool("repl", false, "Start an interactive REPL over the scripting runtime")
		tuiMode     = flag.Bool("tui", false, "Open the TUI debugger on the given script file")
		guiMode     = flag.Bool("gui", false, "Open the desktop inspector window on the given script file")
		apiServer   = flag.Bool("api-server", false, "Start the HTTP/WebSocket API server (no script file required)")
		apiPort     = flag.Int("port", 8420, "API server port (used with -api-server)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")

		// Bignum print/scan utility flags
		scanValue = flag.String("scan", "", "Parse a decimal literal at the given width/shift and print it back in every radix, then exit")
		width     = flag.Int("width", 128, "Bignum width in bits (128, 192, 256, 512, or 1024)")
		shift     = flag.Int("shift", 0, "Fixed-point shift (fractional bits) used by -scan")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("bnshell %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	cfg, err := hostconfig.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config, using defaults: %v\n", err)
		cfg = hostconfig.DefaultAppConfig()
	}

	if *scanValue != "" {
		if err := runScanUtility(*scanValue, *width, *shift); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(cfg, *apiPort)
		return
	}

	if *replMode {
		runREPL()
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	scriptFile := flag.Arg(0)
	source, err := os.ReadFile(scriptFile) // #nosec G304 -- user-specified script path on the command line
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: file not found: %s\n", scriptFile)
		os.Exit(1)
	}

	svc := scriptservice.New()
	if err := svc.LoadSource(string(source)); err != nil {
		fmt.Fprintf(os.Stderr, "Parse error:\n%v\n", err)
		os.Exit(1)
	}

	switch {
	case *tuiMode:
		runTUIDebugger(svc)
	case *guiMode:
		runGUIDebugger(svc)
	default:
		runScript(svc, scriptFile, *verboseMode)
	}
}

// runScript runs a loaded script to completion, printing its buffered
// output as it becomes available.
func runScript(svc *scriptservice.Service, scriptFile string, verbose bool) {
	if verbose {
		fmt.Printf("Running %s\n", scriptFile)
		fmt.Println("----------------------------------------")
	}

	svc.SetOutputCallback(func(s string) {
		fmt.Print(s)
	})

	if err := svc.Continue(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := svc.RunUntilHalt(); err != nil {
		fmt.Fprintf(os.Stderr, "\nRuntime error at pc=%d: %v\n", svc.PC(), err)
		os.Exit(1)
	}

	if verbose {
		fmt.Println("----------------------------------------")
		fmt.Printf("Execution complete (%d opcodes)\n", svc.OpcodeCount())
	}
}

// runREPL evaluates one expression per line against a shared Namespace,
// printing each result and offering $N history like a calculator.
func runREPL() {
	svc := scriptservice.New()

	interactive := term.IsTerminal(int(os.Stdin.Fd()))
	if interactive {
		fmt.Println("bnshell REPL - enter bignum expressions, Ctrl-D to quit")
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		if interactive {
			fmt.Print("> ")
		}
		if !scanner.Scan() {
			break
		}
		line := scanner.Text()
		if line == "" {
			continue
		}
		v, err := svc.EvaluateExpression(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		fmt.Printf("= %s\n", v.String())
	}
}

// runTUIDebugger opens the tcell/tview step debugger on an already-loaded
// session.
func runTUIDebugger(svc *scriptservice.Service) {
	t := debugtui.NewTUI(svc)
	if err := t.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

// runGUIDebugger opens the fyne desktop inspector on an already-loaded
// session.
func runGUIDebugger(svc *scriptservice.Service) {
	if err := debuggui.RunGUI(svc); err != nil {
		fmt.Fprintf(os.Stderr, "GUI error: %v\n", err)
		os.Exit(1)
	}
}

// runAPIServer starts the HTTP/WebSocket API server, optionally guarded by
// a single-instance lock, and blocks until an interrupt or the parent
// process dies.
func runAPIServer(cfg *hostconfig.AppConfig, port int) {
	if cfg.Execution.SingleInstance {
		lockPath := filepath.Join(hostconfig.GetStateDir(), "bnshell-api.lock")
		if err := os.MkdirAll(filepath.Dir(lockPath), 0750); err != nil {
			fmt.Fprintf(os.Stderr, "Error creating state directory: %v\n", err)
			os.Exit(1)
		}
		lock, err := singleinstance.Acquire(lockPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer lock.Release()
	}

	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var shutdownOnce sync.Once
	performShutdown := func() {
		shutdownOnce.Do(func() {
			fmt.Println("\nShutting down API server...")

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			if err := server.Shutdown(ctx); err != nil {
				fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
				os.Exit(1)
			}

			fmt.Println("API server stopped")
			os.Exit(0)
		})
	}

	// Exit if the launching process (a CLI wrapper or desktop shell) dies
	// without sending a signal, so the server never outlives its parent.
	monitor := api.NewProcessMonitor(performShutdown)
	monitor.Start()

	go func() {
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	performShutdown()
}

// runScanUtility parses value as a fixed-point decimal literal at the given
// width/shift and prints it back in decimal, hex, and binary.
func runScanUtility(value string, width, shift int) error {
	switch width {
	case 128:
		v, err := width128.Scan(value, shift)
		if err != nil {
			return err
		}
		printScanResult(width128.Print(v, 0, shift, true), v[:], shift)
	case 192:
		v, err := width192.Scan(value, shift)
		if err != nil {
			return err
		}
		printScanResult(width192.Print(v, 0, shift, true), v[:], shift)
	case 256:
		v, err := width256.Scan(value, shift)
		if err != nil {
			return err
		}
		printScanResult(width256.Print(v, 0, shift, true), v[:], shift)
	case 512:
		v, err := width512.Scan(value, shift)
		if err != nil {
			return err
		}
		printScanResult(width512.Print(v, 0, shift, true), v[:], shift)
	case 1024:
		v, err := width1024.Scan(value, shift)
		if err != nil {
			return err
		}
		printScanResult(width1024.Print(v, 0, shift, true), v[:], shift)
	default:
		return fmt.Errorf("unsupported width %d (use 128, 192, 256, 512, or 1024)", width)
	}
	return nil
}

func printScanResult(decimal string, limbs []uint64, rightShift int) {
	fmt.Printf("decimal: %s\n", decimal)
	fmt.Printf("hex:     %s\n", bnio.PrintHex(limbs, 0, rightShift))
	fmt.Printf("binary:  %s\n", bnio.PrintBinary(limbs, 0, rightShift))
}

func printHelp() {
	fmt.Printf(`bnshell %s

Usage: bnshell [options] <script-file>
       bnshell -repl
       bnshell -api-server [-port N]
       bnshell -scan VALUE -width N [-shift N]

Options:
  -help              Show this help message
  -version           Show version information
  -repl              Start an interactive REPL over the scripting runtime
  -tui               Open the TUI debugger on <script-file>
  -gui               Open the desktop inspector window on <script-file>
  -api-server        Start the HTTP/WebSocket API server
  -port N            API server port (default: 8420, used with -api-server)
  -verbose           Verbose output

Bignum Utility:
  -scan VALUE        Parse a decimal literal and print it back, then exit
  -width N           Bignum width in bits: 128, 192, 256, 512, 1024 (default: 128)
  -shift N           Fixed-point shift in bits used by -scan (default: 0)

Examples:
  bnshell examples/fibonacci.bns
  bnshell -repl
  bnshell -tui examples/fibonacci.bns
  bnshell -api-server -port 9000
  bnshell -scan 3.14159 -width 256 -shift 64
`, Version)
}
