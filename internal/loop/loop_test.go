package loop

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"image/png"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/loop/server"
	"github.com/tomz197/rtsproto/internal/sim"
)

func TestStreamWritesFrames(t *testing.T) {
	var buf bytes.Buffer
	if err := Stream(context.Background(), &buf, Options{Frames: 3}); err != nil {
		t.Fatal(err)
	}

	fr := draw.NewFrameReader(&buf)
	for i := 0; i < 3; i++ {
		fb, err := fr.ReadFrame()
		if err != nil {
			t.Fatalf("frame %d: %v", i, err)
		}
		if fb.Width() != config.FrameWidth || fb.Height() != config.FrameHeight {
			t.Errorf("frame %d is %dx%d", i, fb.Width(), fb.Height())
		}
	}
	if _, err := fr.ReadFrame(); !errors.Is(err, io.EOF) {
		t.Errorf("after 3 frames: %v, want EOF", err)
	}
}

func TestStreamStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() { done <- Stream(ctx, io.Discard, Options{}) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("unbounded stream ignored cancellation")
	}
}

func TestFramesPropagatesError(t *testing.T) {
	srv, err := server.NewServer(sim.DefaultTickMs, nil)
	if err != nil {
		t.Fatal(err)
	}
	boom := errors.New("sink closed")
	calls := 0
	err = Frames(context.Background(), srv, 0, func(*draw.FrameBuffer, *server.Snapshot) error {
		calls++
		return boom
	})
	if !errors.Is(err, boom) || calls != 1 {
		t.Errorf("Frames = %v after %d calls", err, calls)
	}
}

func TestSnapshotFormats(t *testing.T) {
	var ppm bytes.Buffer
	if err := Snapshot(&ppm, "ppm"); err != nil {
		t.Fatal(err)
	}
	fromPPM, err := draw.DecodePPM(&ppm)
	if err != nil {
		t.Fatal(err)
	}

	var raw bytes.Buffer
	if err := Snapshot(&raw, "raw"); err != nil {
		t.Fatal(err)
	}
	fromRaw, err := draw.NewFrameReader(&raw).ReadFrame()
	if err != nil {
		t.Fatal(err)
	}
	if !fromPPM.Equal(fromRaw) {
		t.Error("ppm and raw snapshots differ")
	}

	// Gold mine tile at (3,3) in the bootstrap world.
	p, err := fromRaw.Pixel(3*config.TileSize, 3*config.TileSize)
	if err != nil {
		t.Fatal(err)
	}
	if p != draw.Quantize(draw.TextureGoldMine.Color()) {
		t.Errorf("gold mine pixel = %+v", p)
	}

	var pngBuf bytes.Buffer
	if err := Snapshot(&pngBuf, "png"); err != nil {
		t.Fatal(err)
	}
	img, err := png.Decode(&pngBuf)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != config.FrameWidth || b.Dy() != config.FrameHeight {
		t.Errorf("png bounds = %v", b)
	}

	var bmpBuf bytes.Buffer
	if err := Snapshot(&bmpBuf, "bmp"); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(bmpBuf.Bytes(), []byte("BM")) {
		t.Error("bmp output lacks BM signature")
	}

	if err := Snapshot(io.Discard, "gif"); !errors.Is(err, ErrUnknownFormat) {
		t.Errorf("gif: %v, want ErrUnknownFormat", err)
	}
}

func TestRunQuitsOnInput(t *testing.T) {
	var out bytes.Buffer
	opts := Options{TermSizeFunc: func() (int, int, error) { return 80, 30, nil }}

	done := make(chan error, 1)
	go func() { done <- Run(bufio.NewReader(strings.NewReader("q")), &out, opts) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("local session did not quit")
	}
}
