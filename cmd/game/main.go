package main

import (
	"bufio"
	"context"
	"os"
	"os/signal"
	"slices"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/rtsproto/internal/config"
	"github.com/tomz197/rtsproto/internal/loop"
)

func main() {
	loadErr := config.Load()
	logger := config.NewLogger("game")
	if loadErr != nil {
		logger.Fatal("failed to load .env", "err", loadErr)
	}

	opts := loop.Options{
		TickMs: uint64(max(config.GetEnvInt("RTS_TICK_MS", 50), 0)),
		Frames: config.GetEnvInt("RTS_FRAMES", 0),
		Logger: logger,
	}

	switch output := config.GetEnv("RTS_OUTPUT", "term"); {
	case output == "term":
		runTerminal(opts)
	case output == "stream":
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		w := bufio.NewWriter(os.Stdout)
		if err := loop.Stream(ctx, w, opts); err != nil {
			logger.Fatal("stream failed", "err", err)
		}
		if err := w.Flush(); err != nil {
			logger.Fatal("stream failed", "err", err)
		}
	case slices.Contains(loop.Formats, output):
		if err := loop.Snapshot(os.Stdout, output); err != nil {
			logger.Fatal("export failed", "format", output, "err", err)
		}
	default:
		logger.Fatal("unknown RTS_OUTPUT", "value", output, "want", append([]string{"term", "stream"}, loop.Formats...))
	}
}

func runTerminal(opts loop.Options) {
	// The session logs to stderr, which shares the terminal; keep it quiet.
	opts.Logger = nil

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		config.NewLogger("game").Fatal("failed to enable raw mode", "err", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(reader, os.Stdout, opts); err != nil {
		_ = term.Restore(fd, oldState)
		config.NewLogger("game").Fatal("game error", "err", err)
	}
}
