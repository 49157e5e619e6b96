package client

import (
	"fmt"
	"time"

	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/loop/server"
	"github.com/tomz197/rtsproto/internal/world"
)

// cursorColor marks the four corner pixels of the selected tile.
var cursorColor = draw.Color{R: 1, G: 1, B: 1}

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On game state or inactivity transitions, do a full terminal clear
	// so UI elements from the previous state don't persist on screen.
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	if stateChanged || inactiveChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
	}

	snapshot := c.server.GetSnapshot()
	c.renderWorld(snapshot)

	cw := c.chunkWriter
	draw.RenderFrame(cw, c.frame, 2, 2)
	draw.RenderBorder(cw, frameCols, frameRows, 2, 2)

	c.drawUI(snapshot)

	return cw.Flush()
}

// renderWorld rasterizes the snapshot plus this client's cursor into c.frame.
// The snapshot queue is shared between clients, so it is cloned before pushing.
func (c *Client) renderWorld(snapshot *server.Snapshot) {
	q := snapshot.Queue.Clone()
	if c.state.GameState == GameStatePlaying {
		pushCursor(q, c.state.Cursor)
	}
	draw.RasterizeInto(c.frame, q)
}

// pushCursor queues one-pixel quads on the corners of pos.
func pushCursor(q *draw.Queue, pos world.TilePos) {
	ts := float64(config.TileSize)
	x, y := float64(pos.X)*ts, float64(pos.Y)*ts
	for _, corner := range [4][2]float64{{0, 0}, {ts - 1, 0}, {0, ts - 1}, {ts - 1, ts - 1}} {
		q.Push(x+corner[0], y+corner[1], 1, cursorColor)
	}
}

// drawUI draws the text overlay and the HUD below the frame.
func (c *Client) drawUI(snapshot *server.Snapshot) {
	centerX := layoutCols / 2
	centerY := frameRows / 2

	switch {
	case c.state.GameState == GameStateShutdown:
		c.drawShutdownScreen(centerX, centerY)
	case c.state.isInactive:
		c.drawInactivityScreen(centerX, centerY)
	case c.state.GameState == GameStateStart:
		c.drawStartScreen(centerX, centerY)
	}
	c.drawHUD(snapshot)
}

// drawHUD writes the stats and status lines under the border.
// Lines are padded to the frame width so shorter text overwrites longer text.
func (c *Client) drawHUD(snapshot *server.Snapshot) {
	cw := c.chunkWriter
	row := frameRows + 3

	stats := fmt.Sprintf("T %-7d Gold %-6d Wood %-6d (%d,%d)",
		snapshot.Ticks, snapshot.Resources.Gold, snapshot.Resources.Wood, c.state.Cursor.X, c.state.Cursor.Y)
	cw.WriteAt(2, row, fmt.Sprintf("%-*.*s", frameCols, frameCols, stats))

	status := c.state.Message
	if status == "" {
		status = "arrows move  b barracks  space worker  q quit"
	}
	cw.WriteAt(2, row+1, fmt.Sprintf("%-*.*s", frameCols, frameCols, status))
}

// drawInactivityScreen draws the inactivity warning over the frame.
func (c *Client) drawInactivityScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "INACTIVITY WARNING"
	cw.WriteAt(centerX-len(title)/2, centerY-1, title)

	msg := fmt.Sprintf("Disconnecting in %d seconds",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()))
	cw.WriteAt(centerX-len(msg)/2, centerY+1, msg)

	hint := "Press any key to continue"
	cw.WriteAt(centerX-len(hint)/2, centerY+3, hint)
}

// drawStartScreen draws the title and controls over the frame.
func (c *Client) drawStartScreen(centerX, centerY int) {
	cw := c.chunkWriter
	lines := []string{
		"R T S   P R O T O",
		"",
		"Arrows / WASD . . Move",
		"B . . . . . Barracks",
		"SPACE . . . . Worker",
		"Q . . . . . . . Quit",
	}
	startY := centerY - len(lines)/2 - 1
	for i, line := range lines {
		cw.WriteAt(centerX-len(line)/2, startY+i, line)
	}

	if time.Now().UnixMilli()/600%2 == 0 {
		prompt := ">> Press SPACE to Start <<"
		cw.WriteAt(centerX-len(prompt)/2, startY+len(lines)+1, prompt)
	}
}

// drawShutdownScreen draws the server shutdown notice.
func (c *Client) drawShutdownScreen(centerX, centerY int) {
	cw := c.chunkWriter
	title := "SERVER SHUTTING DOWN"
	cw.WriteAt(centerX-len(title)/2, centerY-1, title)

	msg := fmt.Sprintf("Disconnecting in %d seconds", int(c.state.shutdownTimer+0.999))
	cw.WriteAt(centerX-len(msg)/2, centerY+1, msg)
}
