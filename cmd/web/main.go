package main

import (
	"bytes"
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"html"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tomz197/rtsproto/internal/config"
	"github.com/tomz197/rtsproto/internal/draw"
	"github.com/tomz197/rtsproto/internal/loop"
	loopconfig "github.com/tomz197/rtsproto/internal/loop/config"
	"github.com/tomz197/rtsproto/internal/loop/server"
	"github.com/tomz197/rtsproto/internal/object"
	"github.com/tomz197/rtsproto/internal/world"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	loadErr := config.Load()
	logger := config.NewLogger("web")
	if loadErr != nil {
		logger.Fatal("failed to load .env", "err", loadErr)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	tickMs := config.GetEnvInt("RTS_TICK_MS", 50)

	gs, err := server.NewServer(uint64(max(tickMs, 0)), logger.WithPrefix("session"))
	if err != nil {
		logger.Fatal("failed to create game server", "err", err)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go gs.Run(ctx)

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:    addr,
		Handler: newMux(gs, sshHost, logger),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("starting web server", "url", "http://"+addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", "err", err)
	}
}

// newMux wires the viewer page, image exports, state JSON and the frame socket.
func newMux(gs server.GameServer, sshHost string, logger *log.Logger) *http.ServeMux {
	page := strings.NewReplacer(
		"{{.SSHHost}}", html.EscapeString(sshHost),
		"{{.Legend}}", legendHTML(),
		"{{.Width}}", fmt.Sprint(loopconfig.FrameWidth),
		"{{.Height}}", fmt.Sprint(loopconfig.FrameHeight),
	).Replace(htmlPage)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	for _, format := range loop.Formats {
		mux.HandleFunc("GET /frame."+format, func(w http.ResponseWriter, r *http.Request) {
			var buf bytes.Buffer
			if err := loop.Encode(&buf, loop.Render(gs.GetSnapshot()), format); err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", loop.ContentType(format))
			w.Header().Set("Cache-Control", "no-store")
			_, _ = w.Write(buf.Bytes())
		})
	}
	mux.HandleFunc("GET /state", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(newStateView(gs.GetSnapshot())); err != nil {
			logger.Warn("state encode failed", "err", err)
		}
	})
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		serveFrames(w, r, gs, logger)
	})
	return mux
}

// stateView is the JSON shape of /state.
type stateView struct {
	Ticks     uint64             `json:"ticks"`
	Resources world.ResourcePool `json:"resources"`
	Objects   int                `json:"objects"`
	MapWidth  int                `json:"map_width"`
	MapHeight int                `json:"map_height"`
	TileSize  int                `json:"tile_size"`
}

func newStateView(snap *server.Snapshot) stateView {
	return stateView{
		Ticks:     snap.Ticks,
		Resources: snap.Resources,
		Objects:   snap.Objects,
		MapWidth:  snap.MapWidth,
		MapHeight: snap.MapHeight,
		TileSize:  loopconfig.TileSize,
	}
}

// legendHTML lists every texture with its swatch color.
func legendHTML() string {
	var b strings.Builder
	for _, tex := range draw.Textures {
		hex := draw.Quantize(tex.Color()).Hex()
		fmt.Fprintf(&b, `<li><span class="swatch" style="background:%s"></span>%s</li>`, hex, tex)
	}
	return b.String()
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// placeCommand is a client request sent over the frame socket.
type placeCommand struct {
	Kind string `json:"kind"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

// serveFrames streams framed raw images as binary messages and accepts
// JSON place commands in the other direction. The socket closes when the
// peer goes away.
func serveFrames(w http.ResponseWriter, r *http.Request, gs server.GameServer, logger *log.Logger) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadLimit(1 << 10)
	go func() {
		defer cancel()
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var cmd placeCommand
			if err := json.Unmarshal(msg, &cmd); err != nil {
				logger.Debug("bad command", "err", err)
				continue
			}
			kind, err := object.ParseKind(cmd.Kind)
			if err != nil {
				logger.Debug("bad command", "err", err)
				continue
			}
			if err := gs.Place(kind, world.TilePos{X: cmd.X, Y: cmd.Y}); err != nil {
				logger.Debug("place rejected", "kind", kind, "x", cmd.X, "y", cmd.Y, "err", err)
			}
		}
	}()

	var buf []byte
	err = loop.Frames(ctx, gs, 0, func(fb *draw.FrameBuffer, _ *server.Snapshot) error {
		buf = draw.AppendFrame(buf[:0], fb)
		_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		return conn.WriteMessage(websocket.BinaryMessage, buf)
	})
	if err != nil {
		logger.Debug("frame socket closed", "err", err)
	}
}
