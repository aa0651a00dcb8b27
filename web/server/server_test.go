package server

import (
	"encoding/base64"
	"encoding/json"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer() *Server {
	return NewServer(0, io.Discard)
}

func get(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHandleHealth(t *testing.T) {
	rec := get(t, newTestServer(), "/api/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestHandleScenes(t *testing.T) {
	rec := get(t, newTestServer(), "/api/scenes")
	require.Equal(t, http.StatusOK, rec.Code)

	var response struct {
		Groups []struct {
			Name   string `json:"name"`
			Scenes []struct {
				ID string `json:"id"`
			} `json:"scenes"`
		} `json:"groups"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	require.NotEmpty(t, response.Groups)

	var ids []string
	for _, s := range response.Groups[0].Scenes {
		ids = append(ids, s.ID)
	}
	assert.Contains(t, ids, "pebble")
	assert.Contains(t, ids, "single-sphere")
}

func TestHandleSceneConfig(t *testing.T) {
	srv := newTestServer()

	rec := get(t, srv, "/api/scene-config")
	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.Equal(t, "pebble", response["scene"])
	defaults := response["defaults"].(map[string]interface{})
	assert.Equal(t, 60.0, defaults["width"])
	assert.Equal(t, 2.0, defaults["maxDepth"])
	info := response["scene_info"].(map[string]interface{})
	assert.Equal(t, 10.0, info["totalLight"])

	rec = get(t, srv, "/api/scene-config?scene=nonexistent")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleRender(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"gray stage", "scene=single-sphere&width=20&stage=gray"},
		{"halftone stage", "scene=single-sphere&width=20&stage=halftone&kernel=atkinson"},
		{"default stage", "scene=pebble&width=20&depth=0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(), "/api/render?"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

			img, err := png.Decode(rec.Body)
			require.NoError(t, err)
			assert.Equal(t, image.Rect(0, 0, 20, 20), img.Bounds())
		})
	}
}

func TestHandleRender_HalftoneIsBinary(t *testing.T) {
	rec := get(t, newTestServer(), "/api/render?scene=single-sphere&width=40")
	require.Equal(t, http.StatusOK, rec.Code)

	img, err := png.Decode(rec.Body)
	require.NoError(t, err)
	gray, ok := img.(*image.Gray)
	require.True(t, ok, "expected a grayscale PNG, got %T", img)
	for _, v := range gray.Pix {
		require.True(t, v == 0 || v == 255, "unexpected level %d", v)
	}
}

func TestHandleRender_BadRequests(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"odd width", "width=21"},
		{"width too large", "width=5000"},
		{"width not a number", "width=abc"},
		{"negative depth", "depth=-3"},
		{"unknown kernel", "kernel=bayer"},
		{"unknown stage", "stage=color"},
		{"unknown scene", "scene=nonexistent"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, newTestServer(), "/api/render?"+tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Contains(t, rec.Body.String(), "error")
		})
	}
}

func TestHandleInspect(t *testing.T) {
	srv := newTestServer()

	rec := get(t, srv, "/api/inspect?scene=single-sphere&x=29&y=29")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var response InspectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.True(t, response.Hit)
	assert.Equal(t, 0, response.SphereIndex)
	assert.InDelta(t, 2.0, response.Distance, 1e-9)
	assert.Equal(t, [3]float64{0, 0, -1}, response.Normal)
	assert.Equal(t, uint8(166), response.Luminance)
	require.NotNil(t, response.Material)
	assert.Equal(t, "#ffffff", response.Material.Hex)

	rec = get(t, srv, "/api/inspect?scene=single-sphere&x=0&y=0")
	require.Equal(t, http.StatusOK, rec.Code)
	response = InspectResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	assert.False(t, response.Hit)
	assert.Equal(t, -1, response.SphereIndex)
	assert.Nil(t, response.Material)
}

func TestHandleInspect_BadRequests(t *testing.T) {
	srv := newTestServer()
	for _, query := range []string{"y=3", "x=3", "x=a&y=1", "x=60&y=0", "x=-1&y=0"} {
		rec := get(t, srv, "/api/inspect?scene=single-sphere&"+query)
		assert.Equal(t, http.StatusBadRequest, rec.Code, query)
	}
}

func dialRender(t *testing.T, query string) *websocket.Conn {
	t.Helper()
	ts := httptest.NewServer(newTestServer().Handler())
	t.Cleanup(ts.Close)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/render?" + query
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	return conn
}

func TestRenderWebSocket_StreamsBandsThenComplete(t *testing.T) {
	conn := dialRender(t, "scene=single-sphere&width=32&workers=2")

	bands := 0
	var complete *CompleteUpdate
	for complete == nil {
		var msg WSMessage
		require.NoError(t, conn.ReadJSON(&msg))

		switch msg.Type {
		case MessageBand:
			require.NotNil(t, msg.Band)
			bands++
			assert.Equal(t, 32, msg.Band.Width)
			assert.Equal(t, 4, msg.Band.TotalBands)
		case MessageComplete:
			complete = msg.Complete
		case MessageError:
			t.Fatalf("render failed: %s", msg.Error)
		}
	}

	assert.Equal(t, 4, bands)
	assert.Equal(t, "floyd-steinberg", complete.Kernel)
	assert.Equal(t, 32*32, complete.Stats.TotalPixels)
	assert.Equal(t, 2, complete.Stats.Workers)

	data, err := base64.StdEncoding.DecodeString(complete.HalftoneData)
	require.NoError(t, err)
	img, err := png.Decode(strings.NewReader(string(data)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 32), img.Bounds())

	// The server closes the connection once the render is delivered
	_, _, err = conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestRenderWebSocket_Cancel(t *testing.T) {
	conn := dialRender(t, "scene=pebble&width=1024&depth=16&workers=1")
	require.NoError(t, conn.WriteJSON(map[string]string{"type": "cancel"}))

	for {
		var msg WSMessage
		if err := conn.ReadJSON(&msg); err != nil {
			break
		}
		require.NotEqual(t, MessageComplete, msg.Type, "render should have been cancelled")
	}
}

func TestRenderWebSocket_BadRequest(t *testing.T) {
	ts := httptest.NewServer(newTestServer().Handler())
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/render?width=7"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStaticIndex(t *testing.T) {
	rec := get(t, newTestServer(), "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Halftone Raytracer")
}
