package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/df07/go-halftone-raytracer/pkg/halftone"
	"github.com/df07/go-halftone-raytracer/pkg/raster"
	"github.com/df07/go-halftone-raytracer/pkg/renderer"
)

// Message types sent over the render websocket
const (
	MessageBand     = "band"
	MessageConsole  = "console"
	MessageComplete = "complete"
	MessageError    = "error"
)

// Stats represents render statistics
type Stats struct {
	TotalPixels   int     `json:"totalPixels"`
	LitPixels     int     `json:"litPixels"`
	MeanLuminance float64 `json:"meanLuminance"`
	Bands         int     `json:"bands"`
	Workers       int     `json:"workers"`
}

// BandUpdate carries one finished band as a grayscale PNG
type BandUpdate struct {
	BandNumber int    `json:"bandNumber"`
	TotalBands int    `json:"totalBands"`
	Y          int    `json:"y"`
	Rows       int    `json:"rows"`
	Width      int    `json:"width"`
	ImageData  string `json:"imageData"` // Base64 encoded PNG
}

// CompleteUpdate carries the finished grayscale and halftone images
type CompleteUpdate struct {
	GrayData     string `json:"grayData"`     // Base64 encoded PNG
	HalftoneData string `json:"halftoneData"` // Base64 encoded PNG
	Kernel       string `json:"kernel"`
	Stats        Stats  `json:"stats"`
	ElapsedMs    int64  `json:"elapsedMs"`
}

// WSMessage is one server-to-client websocket message
type WSMessage struct {
	Type     string          `json:"type"`
	Band     *BandUpdate     `json:"band,omitempty"`
	Console  *ConsoleMessage `json:"console,omitempty"`
	Complete *CompleteUpdate `json:"complete,omitempty"`
	Error    string          `json:"error,omitempty"`
}

// clientMessage is one client-to-server websocket message
type clientMessage struct {
	Type string `json:"type"`
}

var (
	errClientCancelled = errors.New("render cancelled by client")
	errClientGone      = errors.New("client disconnected")
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

var renderCounter atomic.Int64

// handleRender renders a scene and returns it as a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	rt, err := renderer.NewRaytracer(sceneObj, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	pr := renderer.NewProgressiveRaytracer(rt, renderer.ProgressiveConfig{NumWorkers: req.Workers}, s.logger)

	gray, _, err := pr.Render(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Render error: %v", err))
		return
	}

	var img image.Image = gray.Image()
	if req.Stage == "halftone" {
		binary, err := halftone.Dither(gray, halftone.WithKernel(req.Kernel))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		img = binary.Image()
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// handleRenderWS streams a render band by band over a websocket. The client
// can stop it by sending {"type":"cancel"} or by disconnecting.
func (s *Server) handleRenderWS(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid request: %v", err))
		return
	}
	sceneObj, err := s.createScene(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	renderID := fmt.Sprintf("render-%d", renderCounter.Add(1))
	consoleChan := make(chan ConsoleMessage, 100)
	logger := NewWebLogger(renderID, consoleChan, s.logOut)

	rt, err := renderer.NewRaytracer(sceneObj, logger)
	if err != nil {
		conn.WriteJSON(WSMessage{Type: MessageError, Error: err.Error()})
		return
	}
	pr := renderer.NewProgressiveRaytracer(rt, renderer.ProgressiveConfig{NumWorkers: req.Workers}, logger)

	finished := make(chan struct{})
	g, ctx := errgroup.WithContext(r.Context())

	g.Go(func() error {
		return readControl(conn, finished)
	})

	g.Go(func() error {
		defer func() {
			close(finished)
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second))
			conn.Close()
		}()
		return streamRender(ctx, conn, pr, req.Kernel, consoleChan)
	})

	if err := g.Wait(); err != nil {
		s.logger.Info().Err(err).Str("render", renderID).Msg("websocket render ended early")
		return
	}
	s.logger.Info().Str("render", renderID).Msg("websocket render complete")
}

// readControl waits for client messages until the connection closes
func readControl(conn *websocket.Conn, finished <-chan struct{}) error {
	for {
		var msg clientMessage
		if err := conn.ReadJSON(&msg); err != nil {
			select {
			case <-finished:
				return nil
			default:
				return errClientGone
			}
		}
		if msg.Type == "cancel" {
			return errClientCancelled
		}
	}
}

// streamRender runs the render, forwarding bands and console lines, then
// sends the halftoned result. It is the only goroutine writing to conn.
func streamRender(ctx context.Context, conn *websocket.Conn, pr *renderer.ProgressiveRaytracer, kernel halftone.Kernel, consoleChan <-chan ConsoleMessage) error {
	start := time.Now()
	bandChan, resultChan, errChan := pr.RenderProgressive(ctx)

	for bandChan != nil {
		select {
		case band, ok := <-bandChan:
			if !ok {
				bandChan = nil
				continue
			}
			update, err := bandUpdate(band)
			if err != nil {
				return err
			}
			if err := conn.WriteJSON(WSMessage{Type: MessageBand, Band: update}); err != nil {
				return err
			}
		case msg := <-consoleChan:
			if err := conn.WriteJSON(WSMessage{Type: MessageConsole, Console: &msg}); err != nil {
				return err
			}
		}
	}

	result, ok := <-resultChan
	if err := flushConsole(conn, consoleChan); err != nil {
		return err
	}
	if !ok {
		err := <-errChan
		conn.WriteJSON(WSMessage{Type: MessageError, Error: err.Error()})
		return err
	}

	binary, err := halftone.Dither(result.Image, halftone.WithKernel(kernel))
	if err != nil {
		conn.WriteJSON(WSMessage{Type: MessageError, Error: err.Error()})
		return err
	}
	grayData, err := imageToBase64PNG(result.Image.Image())
	if err != nil {
		return err
	}
	halftoneData, err := imageToBase64PNG(binary.Image())
	if err != nil {
		return err
	}

	return conn.WriteJSON(WSMessage{Type: MessageComplete, Complete: &CompleteUpdate{
		GrayData:     grayData,
		HalftoneData: halftoneData,
		Kernel:       kernel.Name,
		Stats: Stats{
			TotalPixels:   result.Stats.TotalPixels,
			LitPixels:     result.Stats.LitPixels,
			MeanLuminance: result.Stats.MeanLuminance,
			Bands:         result.Stats.Bands,
			Workers:       result.Stats.Workers,
		},
		ElapsedMs: time.Since(start).Milliseconds(),
	}})
}

// flushConsole sends any console lines still queued
func flushConsole(conn *websocket.Conn, consoleChan <-chan ConsoleMessage) error {
	for {
		select {
		case msg := <-consoleChan:
			if err := conn.WriteJSON(WSMessage{Type: MessageConsole, Console: &msg}); err != nil {
				return err
			}
		default:
			return nil
		}
	}
}

// bandUpdate encodes a finished band as a PNG strip
func bandUpdate(band renderer.BandResult) (*BandUpdate, error) {
	strip := &raster.Gray{Width: band.Width, Height: band.Band.Rows, Pix: band.Pixels}
	data, err := imageToBase64PNG(strip.Image())
	if err != nil {
		return nil, fmt.Errorf("failed to encode band: %w", err)
	}
	return &BandUpdate{
		BandNumber: band.BandNumber,
		TotalBands: band.TotalBands,
		Y:          band.Band.Y0,
		Rows:       band.Band.Rows,
		Width:      band.Width,
		ImageData:  data,
	}, nil
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
