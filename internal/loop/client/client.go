package client

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/input"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/loop/server"
	"github.com/tomz197/rtsproto/internal/object"
	"github.com/tomz197/rtsproto/internal/world"
)

// messageSeconds is how long a status message stays on screen.
const messageSeconds = 3.0

// Layout of the play area in terminal cells, border included.
const (
	frameCols  = config.FrameWidth
	frameRows  = (config.FrameHeight + 1) / 2
	hudRows    = 2
	layoutCols = frameCols + 2
	layoutRows = frameRows + 2 + hudRows
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	frame        *draw.FrameBuffer
	chunkWriter  *draw.ChunkWriter
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	termWidth    int
	termHeight   int
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.termSizeFunc = termSizeFunc

	snap := gs.GetSnapshot()
	state.Cursor = world.TilePos{X: snap.MapWidth / 2, Y: snap.MapHeight / 2}

	termWidth, termHeight, _ := termSizeFunc()
	offsetCol, offsetRow := centerLayout(termWidth, termHeight)

	return &Client{
		server:       gs,
		handle:       handle,
		state:        state,
		frame:        draw.NewFrameBuffer(config.FrameWidth, config.FrameHeight),
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		lastInput:    time.Now(),
		inputStream:  input.StartStream(r),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		termWidth:    termWidth,
		termHeight:   termHeight,
	}
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	lastTime := time.Now()

	for c.state.Running {
		frameStart := time.Now()
		c.state.delta = frameStart.Sub(lastTime)
		lastTime = frameStart

		c.processInput()
		c.processServerEvents()
		c.updateScreen()

		switch c.state.GameState {
		case GameStateStart:
			c.updateStartState()
		case GameStatePlaying:
			c.updatePlayingState()
		case GameStateShutdown:
			c.updateShutdownState()
		}

		if err := c.drawFrame(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	c.server.UnregisterClient(c.handle.ID)

	draw.ClearScreen(c.writer)
	return nil
}

// processInput reads input and tracks inactivity.
func (c *Client) processInput() {
	c.state.Input = input.ReadInput(c.inputStream)

	if c.state.Input.Any() {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.state.Input.Closed {
		c.state.Running = false
	}
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen re-centers the layout after a terminal resize.
// On an actual size change the terminal is cleared to remove residual cells.
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	if termWidth == c.termWidth && termHeight == c.termHeight {
		return
	}
	c.termWidth, c.termHeight = termWidth, termHeight
	c.chunkWriter.WriteString("\033[H\033[2J")
	c.chunkWriter.SetOffset(centerLayout(termWidth, termHeight))
}

// centerLayout computes the offset that centers the play area in the terminal.
// Terminals smaller than the layout get no offset.
func centerLayout(termWidth, termHeight int) (offsetCol, offsetRow int) {
	offsetCol = max((termWidth-layoutCols)/2, 0)
	offsetRow = max((termHeight-layoutRows)/2, 0)
	return offsetCol, offsetRow
}

// updateStartState handles the title screen.
func (c *Client) updateStartState() {
	if c.state.Input.PlaceWorker {
		c.state.GameState = GameStatePlaying
	}
}

// updatePlayingState moves the cursor and issues placement commands.
func (c *Client) updatePlayingState() {
	c.state.tickMessage()

	in := c.state.Input
	snap := c.server.GetSnapshot()
	c.state.moveCursor(in.Right-in.Left, in.Down-in.Up, snap.MapWidth, snap.MapHeight)

	if in.PlaceBarracks {
		c.place(object.KindBarracks)
	}
	if in.PlaceWorker {
		c.place(object.KindWorker)
	}
}

// place asks the server for a new object under the cursor and reports the outcome.
func (c *Client) place(kind object.Kind) {
	err := c.server.Place(kind, c.state.Cursor)
	c.state.setMessage(placeMessage(kind, err))
}

// placeMessage turns a placement result into status line text.
func placeMessage(kind object.Kind, err error) string {
	switch {
	case err == nil:
		cost := kind.Cost()
		return fmt.Sprintf("%s placed (-%dg -%dw)", kind, cost.Gold, cost.Wood)
	case errors.Is(err, world.ErrInsufficient):
		return "not enough resources"
	case errors.Is(err, server.ErrOccupied):
		return "tile occupied"
	case errors.Is(err, server.ErrNotBuildable):
		return "can't build there"
	case errors.Is(err, server.ErrWorkerLimit):
		return "worker limit reached"
	}
	return err.Error()
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
