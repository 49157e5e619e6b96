// Package loop runs a game session against a terminal or a frame sink.
package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop/client"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/loop/server"
	"github.com/tomz197/rtsproto/internal/sim"
)

// ErrUnknownFormat is returned for an export format other than ppm, png, bmp or raw.
var ErrUnknownFormat = errors.New("loop: unknown export format")

// Formats lists the supported single-frame export formats.
var Formats = []string{"ppm", "png", "bmp", "raw"}

// Options configures a local session.
type Options struct {
	TickMs       uint64 // Simulation tick; 0 means sim.DefaultTickMs
	Frames       int    // Frames to stream; 0 means until cancelled
	Logger       *log.Logger
	TermSizeFunc draw.TermSizeFunc
}

func (o Options) tickMs() uint64 {
	if o.TickMs == 0 {
		return sim.DefaultTickMs
	}
	return o.TickMs
}

// Run plays a local session: an in-process server and one terminal client.
// Blocks until the player quits or r is exhausted.
func Run(r *bufio.Reader, w io.Writer, opts Options) error {
	srv, err := server.NewServer(opts.tickMs(), opts.Logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go srv.Run(ctx)

	c := client.NewClient(srv, r, w, client.ClientOptions{
		TermSizeFunc: opts.TermSizeFunc,
		Username:     "local",
	})
	return c.Run()
}

// Stream runs a headless session and writes one framed raw image per client
// frame to w until ctx ends or opts.Frames frames have been written.
func Stream(ctx context.Context, w io.Writer, opts Options) error {
	srv, err := server.NewServer(opts.tickMs(), opts.Logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go srv.Run(ctx)

	fw := draw.NewFrameWriter(w)
	return Frames(ctx, srv, opts.Frames, func(fb *draw.FrameBuffer, _ *server.Snapshot) error {
		return fw.WriteFrame(fb)
	})
}

// FrameFunc receives each rendered frame. fb is reused between calls.
type FrameFunc func(fb *draw.FrameBuffer, snap *server.Snapshot) error

// Frames renders the latest snapshot of gs at the client frame rate and hands
// it to fn. It stops when ctx ends (returning nil), after limit frames when
// limit > 0, or on the first error from fn.
func Frames(ctx context.Context, gs server.GameServer, limit int, fn FrameFunc) error {
	fb := draw.NewFrameBuffer(config.FrameWidth, config.FrameHeight)
	ticker := time.NewTicker(config.ClientTargetFrameTime)
	defer ticker.Stop()

	for n := 0; limit <= 0 || n < limit; n++ {
		snap := gs.GetSnapshot()
		draw.RasterizeInto(fb, snap.Queue)
		if err := fn(fb, snap); err != nil {
			return err
		}
		if limit > 0 && n+1 == limit {
			break
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
	return nil
}

// Render rasterizes a snapshot at the standard frame size.
func Render(snap *server.Snapshot) *draw.FrameBuffer {
	return draw.Rasterize(snap.Queue, config.FrameWidth, config.FrameHeight)
}

// Snapshot writes the bootstrap world as a single image in the given format.
func Snapshot(w io.Writer, format string) error {
	srv, err := server.NewServer(sim.DefaultTickMs, nil)
	if err != nil {
		return err
	}
	return Encode(w, Render(srv.GetSnapshot()), format)
}

// Encode writes fb in one of Formats. The raw format carries the frame header
// so the dimensions travel with the pixels.
func Encode(w io.Writer, fb *draw.FrameBuffer, format string) error {
	switch format {
	case "ppm":
		return draw.EncodePPM(w, fb)
	case "png":
		return draw.EncodePNG(w, fb)
	case "bmp":
		return draw.EncodeBMP(w, fb)
	case "raw":
		return draw.NewFrameWriter(w).WriteFrame(fb)
	}
	return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ContentType returns the MIME type of an export format.
func ContentType(format string) string {
	switch format {
	case "ppm":
		return "image/x-portable-pixmap"
	case "png":
		return "image/png"
	case "bmp":
		return "image/bmp"
	}
	return "application/octet-stream"
}
