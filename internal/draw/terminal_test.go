package draw

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderFrameHalfBlocks(t *testing.T) {
	fb := NewFrameBuffer(2, 3)
	fb.SetPixel(0, 0, Pixel{255, 0, 0})
	fb.SetPixel(0, 1, Pixel{0, 0, 255})

	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	RenderFrame(cw, fb, 1, 1)
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	got := out.String()

	// Two terminal rows for three pixel rows.
	for _, want := range []string{
		"\033[1;1H\033[38;2;255;0;0;48;2;0;0;255m▀",
		"\033[38;2;0;0;0;48;2;0;0;0m▀",
		"\033[2;1H",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
	if n := strings.Count(got, string(BlockUpperHalf)); n != 4 {
		t.Errorf("rendered %d cells, want 4", n)
	}
}

func TestRenderFrameSkipsRepeatedColors(t *testing.T) {
	fb := NewFrameBuffer(8, 2)
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	RenderFrame(cw, fb, 1, 1)
	_ = cw.Flush()
	if n := strings.Count(out.String(), "\033[38;2;"); n != 1 {
		t.Errorf("emitted %d color sequences for a flat row, want 1", n)
	}
}

func TestChunkWriterOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 3, 2)
	cw.WriteAt(1, 1, "hi")
	_ = cw.Flush()
	if got, want := out.String(), "\033[3;4Hhi"; got != want {
		t.Errorf("WriteAt = %q, want %q", got, want)
	}
}

func TestChunkWriterFlushesLargeOutput(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	big := strings.Repeat("x", maxChunkSize*3+7)
	cw.WriteString(big)
	if err := cw.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
	if out.String() != big {
		t.Errorf("flushed %d bytes, want %d", out.Len(), len(big))
	}
}
