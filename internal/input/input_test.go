package input

import (
	"bufio"
	"strings"
	"testing"
	"time"
)

// keys is the comparable part of Input.
type keys struct {
	Quit                  bool
	Left, Right, Up, Down int
	Barracks, Worker      bool
}

func keysOf(in Input) keys {
	return keys{in.Quit, in.Left, in.Right, in.Up, in.Down, in.PlaceBarracks, in.PlaceWorker}
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want keys
	}{
		{"arrows", "\x1b[A\x1b[B\x1b[C\x1b[D", keys{Up: 1, Down: 1, Right: 1, Left: 1}},
		{"wasd repeated", "ddw", keys{Right: 2, Up: 1}},
		{"place barracks", "b", keys{Barracks: true}},
		{"place worker", " ", keys{Worker: true}},
		{"quit", "q", keys{Quit: true}},
		{"ctrl-c", "\x03", keys{Quit: true}},
		{"unknown csi", "\x1b[Z", keys{}},
		{"lone escape", "\x1b", keys{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := keysOf(Parse([]byte(tt.in)))
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestReadInputReportsClosed(t *testing.T) {
	s := StartStream(bufio.NewReader(strings.NewReader("b")))

	deadline := time.Now().Add(time.Second)
	var placed bool
	for time.Now().Before(deadline) {
		in := ReadInput(s)
		placed = placed || in.PlaceBarracks
		if in.Closed {
			break
		}
		time.Sleep(time.Millisecond)
	}
	if !placed {
		t.Error("barracks press lost")
	}
	if in := ReadInput(s); !in.Closed || in.Any() {
		t.Errorf("after EOF got %+v, want closed and empty", in)
	}
}
