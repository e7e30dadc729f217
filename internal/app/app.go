package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/gesturelab/gestured/internal/cli"
	"github.com/gesturelab/gestured/internal/classifier"
	"github.com/gesturelab/gestured/internal/config"
	"github.com/gesturelab/gestured/internal/doctor"
	"github.com/gesturelab/gestured/internal/ipc"
	"github.com/gesturelab/gestured/internal/logging"
	"github.com/gesturelab/gestured/internal/notify"
	"github.com/gesturelab/gestured/internal/session"
	"github.com/gesturelab/gestured/internal/transport"
	"github.com/gesturelab/gestured/internal/version"
)

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("gestured"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("gestured"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		fmt.Fprintf(r.Stderr, "warning: %s\n", w.Message)
		logger.Warn("config warning", "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandRun:
		return r.commandRun(ctx, cfgLoaded.Config, logger)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandCounts:
		return r.commandCounts(ctx)
	case cli.CommandConnect:
		return r.forwardOrFail(ctx, ipc.Request{Command: "connect"})
	case cli.CommandDisconnect:
		return r.forwardOrFail(ctx, ipc.Request{Command: "disconnect"})
	case cli.CommandRecord:
		return r.forwardOrFail(ctx, ipc.Request{Command: "record", Label: parsed.Label})
	case cli.CommandTest:
		return r.forwardOrFail(ctx, ipc.Request{Command: "test"})
	case cli.CommandTrain:
		return r.forwardOrFail(ctx, ipc.Request{Command: "train"})
	case cli.CommandReset:
		return r.forwardOrFail(ctx, ipc.Request{Command: "reset"})
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

// commandRun starts the daemon: control socket, sensor bridge, classifier,
// and session controller, running until context cancellation.
func (r Runner) commandRun(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, nil)
	if err != nil {
		if errors.Is(err, ipc.ErrAlreadyRunning) {
			fmt.Fprintln(r.Stderr, "error: gestured daemon already running")
			return 1
		}
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	bus := notify.NewBus()
	defer bus.Shutdown()

	console := notify.NewConsole(r.Stdout, logger)
	consoleCtx, consoleCancel := context.WithCancel(ctx)
	defer consoleCancel()
	consoleDone := make(chan struct{})
	go func() {
		defer close(consoleDone)
		console.Run(consoleCtx, bus)
	}()

	bridge := transport.NewBridge(cfg.Bridge.Endpoint, cfg.Bridge.DeviceName, logger)
	model := classifier.NewCentroid()
	controller := session.NewController(logger, bridge, model, bus, session.Options{
		Labels:            cfg.Gestures,
		CaptureDuration:   cfg.Capture.Duration,
		ClassifyQueueSize: cfg.Classify.QueueSize,
	})

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()

	logger.Info("daemon started", "socket", socketPath, "bridge", cfg.Bridge.Endpoint)
	fmt.Fprintf(r.Stdout, "gestured listening on %s\n", socketPath)

	controller.Run(ctx)

	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	_ = bridge.Disconnect()
	consoleCancel()
	<-consoleDone

	logger.Info("daemon stopped")
	return 0
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "not running")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: "status"})
	if handled {
		if err != nil {
			fmt.Fprintf(r.Stderr, "error: %v\n", err)
			return 1
		}
		if resp.State == "" {
			resp.State = "disconnected"
		}
		fmt.Fprintln(r.Stdout, resp.State)
		return 0
	}

	fmt.Fprintln(r.Stdout, "not running")
	return 0
}

func (r Runner) commandCounts(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: "counts"})
	if !handled {
		fmt.Fprintln(r.Stderr, "error: gestured daemon is not running")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	labels := make([]string, 0, len(resp.Counts))
	for label := range resp.Counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		fmt.Fprintf(r.Stdout, "%s: %d\n", label, resp.Counts[label])
	}
	return 0
}

func (r Runner) forwardOrFail(ctx context.Context, req ipc.Request) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, req)
	if !handled {
		fmt.Fprintln(r.Stderr, "error: gestured daemon is not running")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.Message != "" {
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	if resp.Result != "" {
		fmt.Fprintf(r.Stdout, "result: %s\n", resp.Result)
	}
	return 0
}

func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, 220*time.Millisecond)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}

	if isSocketMissing(err) || isConnectionRefused(err) {
		return ipc.Response{}, false, nil
	}

	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}

func isSocketMissing(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, os.ErrNotExist) ||
		strings.Contains(err.Error(), "no such file or directory")
}

func isConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, syscall.ECONNREFUSED)
}
