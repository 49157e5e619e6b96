package draw

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"image/png"
	"io"
	"strconv"

	"golang.org/x/image/bmp"
)

// ErrBadFormat is returned when decoding malformed image data.
var ErrBadFormat = errors.New("draw: malformed image data")

// RawPixelSize is the number of bytes per pixel in the raw encoding.
const RawPixelSize = 4

// MaxDecodeDimension bounds the width and height accepted by the decoders.
const MaxDecodeDimension = 1 << 14

func checkDecodeSize(width, height int) error {
	if width < 0 || height < 0 || width > MaxDecodeDimension || height > MaxDecodeDimension {
		return fmt.Errorf("%w: unsupported size %dx%d", ErrBadFormat, width, height)
	}
	return nil
}

// EncodePPM writes fb as an ASCII PPM (P3) image:
//
//	P3\n<width> <height>\n255\n
//
// followed by one "R G B\n" line per pixel in row-major order. The output is
// byte-for-byte identical for identical buffers.
func EncodePPM(w io.Writer, fb *FrameBuffer) error {
	bw := bufio.NewWriter(w)
	var num [3]byte
	fmt.Fprintf(bw, "P3\n%d %d\n255\n", fb.width, fb.height)
	for _, p := range fb.pixels {
		bw.Write(strconv.AppendUint(num[:0], uint64(p.R), 10))
		bw.WriteByte(' ')
		bw.Write(strconv.AppendUint(num[:0], uint64(p.G), 10))
		bw.WriteByte(' ')
		bw.Write(strconv.AppendUint(num[:0], uint64(p.B), 10))
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// MarshalPPM returns the PPM encoding of fb.
func MarshalPPM(fb *FrameBuffer) []byte {
	var buf bytes.Buffer
	buf.Grow(16 + len(fb.pixels)*12)
	_ = EncodePPM(&buf, fb) // bytes.Buffer never fails
	return buf.Bytes()
}

// DecodePPM reads an ASCII PPM (P3) image with a maxval of 255.
// Any whitespace layout and '#' comments are accepted.
func DecodePPM(r io.Reader) (*FrameBuffer, error) {
	sc := ppmScanner{r: bufio.NewReader(r)}

	magic, err := sc.token()
	if err != nil {
		return nil, err
	}
	if magic != "P3" {
		return nil, fmt.Errorf("%w: magic %q, want P3", ErrBadFormat, magic)
	}

	var header [3]int
	for i := range header {
		if header[i], err = sc.int(); err != nil {
			return nil, err
		}
	}
	width, height, maxval := header[0], header[1], header[2]
	if maxval != 255 {
		return nil, fmt.Errorf("%w: maxval %d, want 255", ErrBadFormat, maxval)
	}
	if err := checkDecodeSize(width, height); err != nil {
		return nil, err
	}

	fb := NewFrameBuffer(width, height)
	for i := range fb.pixels {
		var ch [3]int
		for c := range ch {
			if ch[c], err = sc.int(); err != nil {
				return nil, fmt.Errorf("pixel %d: %w", i, err)
			}
			if ch[c] > 255 {
				return nil, fmt.Errorf("%w: pixel %d channel value %d", ErrBadFormat, i, ch[c])
			}
		}
		fb.pixels[i] = Pixel{R: uint8(ch[0]), G: uint8(ch[1]), B: uint8(ch[2])}
	}
	return fb, nil
}

// ppmScanner splits PPM text into whitespace-separated tokens, skipping comments.
type ppmScanner struct {
	r   *bufio.Reader
	buf []byte
}

func (s *ppmScanner) token() (string, error) {
	s.buf = s.buf[:0]
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			if errors.Is(err, io.EOF) && len(s.buf) > 0 {
				return string(s.buf), nil
			}
			if errors.Is(err, io.EOF) {
				return "", fmt.Errorf("%w: unexpected end of data", ErrBadFormat)
			}
			return "", err
		}
		switch {
		case b == '#':
			if _, err := s.r.ReadBytes('\n'); err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			if len(s.buf) > 0 {
				return string(s.buf), nil
			}
		case b == ' ' || b == '\t' || b == '\n' || b == '\r' || b == '\v' || b == '\f':
			if len(s.buf) > 0 {
				return string(s.buf), nil
			}
		default:
			s.buf = append(s.buf, b)
		}
	}
}

func (s *ppmScanner) int() (int, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: bad number %q", ErrBadFormat, tok)
	}
	return n, nil
}

// EncodeRaw returns fb as 4 bytes per pixel in row-major order. Each pixel is a
// little-endian 32-bit word 0x00RRGGBB, so the bytes are B, G, R, 0.
func EncodeRaw(fb *FrameBuffer) []byte {
	out := make([]byte, len(fb.pixels)*RawPixelSize)
	for i, p := range fb.pixels {
		word := uint32(p.R)<<16 | uint32(p.G)<<8 | uint32(p.B)
		binary.LittleEndian.PutUint32(out[i*RawPixelSize:], word)
	}
	return out
}

// DecodeRaw rebuilds a width x height buffer from EncodeRaw output.
func DecodeRaw(data []byte, width, height int) (*FrameBuffer, error) {
	if err := checkDecodeSize(width, height); err != nil {
		return nil, err
	}
	if len(data) != width*height*RawPixelSize {
		return nil, fmt.Errorf("%w: %d bytes for %dx%d pixels", ErrBadFormat, len(data), width, height)
	}
	fb := NewFrameBuffer(width, height)
	for i := range fb.pixels {
		word := binary.LittleEndian.Uint32(data[i*RawPixelSize:])
		fb.pixels[i] = Pixel{R: uint8(word >> 16), G: uint8(word >> 8), B: uint8(word)}
	}
	return fb, nil
}

// frameMagic starts every frame of a raw frame stream.
const frameMagic = "QUAD"

// FrameHeaderSize is the size of the header preceding each streamed frame:
// the magic "QUAD", then width and height as little-endian uint32.
const FrameHeaderSize = 12

// AppendFrame appends fb to dst as one stream frame (header + raw pixels).
func AppendFrame(dst []byte, fb *FrameBuffer) []byte {
	dst = append(dst, frameMagic...)
	dst = binary.LittleEndian.AppendUint32(dst, uint32(fb.width))
	dst = binary.LittleEndian.AppendUint32(dst, uint32(fb.height))
	return append(dst, EncodeRaw(fb)...)
}

// FrameWriter writes frame buffers to a byte pipe for an external viewer.
type FrameWriter struct {
	w   io.Writer
	buf []byte
}

// NewFrameWriter creates a FrameWriter on w.
func NewFrameWriter(w io.Writer) *FrameWriter {
	return &FrameWriter{w: w}
}

// WriteFrame writes one frame. Each call issues a single Write.
func (fw *FrameWriter) WriteFrame(fb *FrameBuffer) error {
	fw.buf = AppendFrame(fw.buf[:0], fb)
	_, err := fw.w.Write(fw.buf)
	return err
}

// FrameReader reads frames written by a FrameWriter.
type FrameReader struct {
	r io.Reader
}

// NewFrameReader creates a FrameReader on r.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: r}
}

// ReadFrame reads the next frame. It returns io.EOF at a clean end of stream.
func (fr *FrameReader) ReadFrame() (*FrameBuffer, error) {
	var hdr [FrameHeaderSize]byte
	if _, err := io.ReadFull(fr.r, hdr[:]); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return nil, fmt.Errorf("%w: truncated frame header", ErrBadFormat)
		}
		return nil, err
	}
	if string(hdr[:4]) != frameMagic {
		return nil, fmt.Errorf("%w: frame magic %q", ErrBadFormat, hdr[:4])
	}
	width := int(binary.LittleEndian.Uint32(hdr[4:]))
	height := int(binary.LittleEndian.Uint32(hdr[8:]))
	if err := checkDecodeSize(width, height); err != nil {
		return nil, err
	}

	data := make([]byte, width*height*RawPixelSize)
	if _, err := io.ReadFull(fr.r, data); err != nil {
		return nil, fmt.Errorf("%w: truncated frame body: %v", ErrBadFormat, err)
	}
	return DecodeRaw(data, width, height)
}

// EncodePNG writes fb as a PNG image.
func EncodePNG(w io.Writer, fb *FrameBuffer) error {
	return png.Encode(w, fb)
}

// EncodeBMP writes fb as a 24-bit BMP image.
func EncodeBMP(w io.Writer, fb *FrameBuffer) error {
	return bmp.Encode(w, fb)
}
