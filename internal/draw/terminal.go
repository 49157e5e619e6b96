package draw

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// maxChunkSize is the maximum bytes to write at once for optimal network flow.
// Sized below a typical MTU for smooth SSH/network transmission.
const maxChunkSize = 1400

// ChunkWriter accumulates text for terminal output and writes in chunks for optimal
// network flow (e.g. over SSH). Use MoveCursor, WriteString, WriteRune to accumulate,
// then Flush to write to the underlying writer.
type ChunkWriter struct {
	buf    strings.Builder
	bufw   *bufio.Writer // Buffers writes to underlying writer for fewer syscalls
	numBuf [20]byte      // Scratch buffer for allocation-free integer formatting
	offCol int
	offRow int
}

// NewChunkWriter creates a ChunkWriter that writes to w. offsetCol and offsetRow
// are added to all MoveCursor coordinates (for centering).
func NewChunkWriter(w io.Writer, offsetCol, offsetRow int) *ChunkWriter {
	return &ChunkWriter{
		bufw:   bufio.NewWriterSize(w, 8192),
		offCol: offsetCol,
		offRow: offsetRow,
	}
}

// SetOffset updates the cursor offset (e.g. after terminal resize).
func (cw *ChunkWriter) SetOffset(offsetCol, offsetRow int) {
	cw.offCol = offsetCol
	cw.offRow = offsetRow
}

// MoveCursor appends an ANSI cursor position sequence. col and row are 1-based;
// the offset is applied automatically.
func (cw *ChunkWriter) MoveCursor(col, row int) {
	cw.buf.WriteString("\033[")
	cw.writeInt(row + cw.offRow)
	cw.buf.WriteByte(';')
	cw.writeInt(col + cw.offCol)
	cw.buf.WriteByte('H')
}

func (cw *ChunkWriter) writeInt(n int) {
	cw.buf.Write(strconv.AppendInt(cw.numBuf[:0], int64(n), 10))
}

// setColors appends a truecolor foreground/background SGR sequence.
func (cw *ChunkWriter) setColors(fg, bg Pixel) {
	cw.buf.WriteString("\033[38;2;")
	cw.writeRGB(fg)
	cw.buf.WriteString(";48;2;")
	cw.writeRGB(bg)
	cw.buf.WriteByte('m')
}

func (cw *ChunkWriter) writeRGB(p Pixel) {
	cw.writeInt(int(p.R))
	cw.buf.WriteByte(';')
	cw.writeInt(int(p.G))
	cw.buf.WriteByte(';')
	cw.writeInt(int(p.B))
}

// Write implements io.Writer.
func (cw *ChunkWriter) Write(p []byte) (n int, err error) {
	return cw.buf.Write(p)
}

// WriteString appends a string to the buffer.
func (cw *ChunkWriter) WriteString(s string) {
	cw.buf.WriteString(s)
}

// WriteAt writes a string at a specific position. col and row are 1-based;
// the offset is applied automatically.
func (cw *ChunkWriter) WriteAt(col, row int, s string) {
	cw.MoveCursor(col, row)
	cw.buf.WriteString(s)
}

// WriteRune appends a rune to the buffer.
func (cw *ChunkWriter) WriteRune(r rune) {
	cw.buf.WriteRune(r)
}

// Ensure ChunkWriter satisfies io.Writer.
var _ io.Writer = (*ChunkWriter)(nil)

// Flush writes the accumulated buffer to the underlying writer in chunks,
// then resets the buffer.
func (cw *ChunkWriter) Flush() error {
	data := cw.buf.String()
	cw.buf.Reset()
	for len(data) > 0 {
		chunk := data
		if len(chunk) > maxChunkSize {
			chunk = data[:maxChunkSize]
		}
		if _, err := cw.bufw.WriteString(chunk); err != nil {
			return err
		}
		data = data[len(chunk):]
	}
	return cw.bufw.Flush()
}

// RenderFrame appends fb to cw using upper-half blocks: every terminal cell shows
// two vertically stacked pixels, the top one as foreground and the bottom one as
// background. The frame occupies fb.Width() columns and ceil(fb.Height()/2) rows
// starting at 1-based (col, row).
func RenderFrame(cw *ChunkWriter, fb *FrameBuffer, col, row int) {
	rows := (fb.height + 1) / 2
	for r := 0; r < rows; r++ {
		cw.MoveCursor(col, row+r)
		topOffset := (r * 2) * fb.width
		bottomY := r*2 + 1

		var last [2]Pixel
		first := true
		for x := 0; x < fb.width; x++ {
			top := fb.pixels[topOffset+x]
			bottom := Black
			if bottomY < fb.height {
				bottom = fb.pixels[bottomY*fb.width+x]
			}
			// Only emit SGR when the pair changes; flat quads produce long runs.
			if first || last != [2]Pixel{top, bottom} {
				cw.setColors(top, bottom)
				last = [2]Pixel{top, bottom}
				first = false
			}
			cw.WriteRune(BlockUpperHalf)
		}
		cw.WriteString(ResetStyle)
	}
}

// RenderBorder draws a box around a frame of the given cell size placed at
// 1-based (col, row). Nothing is drawn on the sides where there is no room.
func RenderBorder(cw *ChunkWriter, cols, rows, col, row int) {
	left, right := col-1, col+cols
	top, bottom := row-1, row+rows
	hasH := left >= 1
	hasV := top >= 1

	if hasV {
		line := strings.Repeat("─", cols)
		if hasH {
			cw.WriteAt(left, top, "┌"+line+"┐")
			cw.WriteAt(left, bottom, "└"+line+"┘")
		} else {
			cw.WriteAt(col, top, line)
			cw.WriteAt(col, bottom, line)
		}
	}
	if hasH {
		for r := row; r < row+rows; r++ {
			cw.WriteAt(left, r, "│")
			cw.WriteAt(right, r, "│")
		}
	}
}

// ResetStyle resets all SGR attributes.
const ResetStyle = "\033[0m"

// TermSizeFunc is a function that returns the terminal dimensions.
type TermSizeFunc func() (width, height int, err error)

// DefaultTermSizeFunc returns terminal size from os.Stdout.
var DefaultTermSizeFunc TermSizeFunc = func() (int, int, error) {
	return term.GetSize(int(os.Stdout.Fd()))
}

// ClearScreen clears the terminal and moves cursor to top-left.
func ClearScreen(w io.Writer) {
	fmt.Fprint(w, "\033[H\033[2J")
}

// HideCursor hides the terminal cursor.
func HideCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25l")
}

// ShowCursor shows the terminal cursor.
func ShowCursor(w io.Writer) {
	fmt.Fprint(w, "\033[?25h")
}
