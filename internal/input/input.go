// Package input turns raw terminal bytes into per-frame commands.
package input

import (
	"bufio"
)

// Input holds the keys pressed since the previous read. Presses are edge
// events: a key held down by terminal auto-repeat shows up once per repeat.
type Input struct {
	Quit          bool
	Left          int // Number of presses this frame
	Right         int
	Up            int
	Down          int
	PlaceBarracks bool
	PlaceWorker   bool
	Closed        bool // Input source reached EOF
	Pressed       []byte
}

// Any reports whether any key was pressed.
func (in Input) Any() bool {
	return len(in.Pressed) > 0
}

// Stream delivers input bytes via a channel.
type Stream struct {
	ch     chan byte
	closed bool
}

// StartStream spawns a goroutine that reads from r and sends bytes to the stream.
func StartStream(r *bufio.Reader) *Stream {
	s := &Stream{
		ch: make(chan byte, 128),
	}
	go func() {
		for {
			b, err := r.ReadByte()
			if err != nil {
				close(s.ch)
				return
			}
			s.ch <- b
		}
	}()
	return s
}

// ReadInput drains all available bytes from the stream without blocking.
func ReadInput(s *Stream) Input {
	var buf []byte

drain:
	for !s.closed {
		select {
		case b, ok := <-s.ch:
			if !ok {
				s.closed = true
				break drain
			}
			buf = append(buf, b)
		default:
			break drain
		}
	}

	in := Parse(buf)
	in.Closed = s.closed
	return in
}

// Parse decodes a batch of terminal bytes, including CSI arrow sequences.
func Parse(buf []byte) Input {
	in := Input{Pressed: buf}
	for i := 0; i < len(buf); i++ {
		b := buf[i]

		// CSI sequence: ESC [ <code>
		if b == '\x1b' && i+2 < len(buf) && buf[i+1] == '[' {
			switch buf[i+2] {
			case 'A':
				in.Up++
			case 'B':
				in.Down++
			case 'C':
				in.Right++
			case 'D':
				in.Left++
			}
			i += 2
			continue
		}

		applyByte(&in, b)
	}
	return in
}

func applyByte(in *Input, b byte) {
	switch b {
	case 'q', 'Q', '\x03':
		in.Quit = true
	case 'a', 'A', 'h', 'H':
		in.Left++
	case 'd', 'D', 'l', 'L':
		in.Right++
	case 'w', 'W', 'k', 'K':
		in.Up++
	case 's', 'S', 'j', 'J':
		in.Down++
	case 'b', 'B':
		in.PlaceBarracks = true
	case ' ':
		in.PlaceWorker = true
	}
}
