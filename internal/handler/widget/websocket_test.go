package widget

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/chat"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/model/persona"
	"github.com/ravikanth-ks/whiterabbit/backend/internal/service/ai"
	chatservice "github.com/ravikanth-ks/whiterabbit/backend/internal/service/chat"
)

type snapshotFrame struct {
	Type string        `json:"type"`
	Data chat.Snapshot `json:"data"`
}

func setup(t *testing.T) (*httptest.Server, *chatservice.Service) {
	t.Helper()
	gen := ai.GeneratorFunc(func(context.Context, string) (string, error) {
		return "Decrypting... done.", nil
	})
	svc := chatservice.NewService(persona.NewSeedStore(), gen, chatservice.Options{})

	r := chi.NewRouter()
	NewWebSocketHandler(svc, nil, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, svc
}

func dial(t *testing.T, srv *httptest.Server, sessionID string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/" + sessionID
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ws.Close() })
	_ = ws.SetReadDeadline(time.Now().Add(5 * time.Second))
	return ws
}

func readSnapshot(t *testing.T, ws *websocket.Conn) snapshotFrame {
	t.Helper()
	var frame snapshotFrame
	require.NoError(t, ws.ReadJSON(&frame))
	return frame
}

func TestWebSocketUnknownSession(t *testing.T) {
	srv, _ := setup(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/missing"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWebSocketOpenAndSubmit(t *testing.T) {
	srv, svc := setup(t)
	session, err := svc.CreateSession(context.Background(), "")
	require.NoError(t, err)

	ws := dial(t, srv, session.ID())
	initial := readSnapshot(t, ws)
	assert.Equal(t, FrameSnapshot, initial.Type)
	assert.Len(t, initial.Data.Messages, 1)

	require.NoError(t, ws.WriteJSON(InboundFrame{Type: FrameOpen}))
	opened := readSnapshot(t, ws)
	assert.True(t, opened.Data.Visible)

	require.NoError(t, ws.WriteJSON(InboundFrame{Type: FrameSubmit, Text: "Who is RK?"}))
	var last snapshotFrame
	for !(len(last.Data.Messages) == 3 && !last.Data.Pending) {
		last = readSnapshot(t, ws)
		require.Equal(t, FrameSnapshot, last.Type)
	}
	assert.Equal(t, "Who is RK?", last.Data.Messages[1].Text)
	assert.Equal(t, "Decrypting... done.", last.Data.Messages[2].Text)
}

func TestWebSocketInputEcho(t *testing.T) {
	srv, svc := setup(t)
	session, err := svc.CreateSession(context.Background(), "")
	require.NoError(t, err)

	ws := dial(t, srv, session.ID())
	readSnapshot(t, ws)

	require.NoError(t, ws.WriteJSON(InboundFrame{Type: FrameInput, Text: "draft"}))
	assert.Equal(t, "draft", readSnapshot(t, ws).Data.Input)
	assert.Equal(t, "draft", session.Input())
}

func TestWebSocketRejectsUnknownFrame(t *testing.T) {
	srv, svc := setup(t)
	session, err := svc.CreateSession(context.Background(), "")
	require.NoError(t, err)

	ws := dial(t, srv, session.ID())
	readSnapshot(t, ws)

	require.NoError(t, ws.WriteJSON(InboundFrame{Type: "teleport"}))
	var frame struct {
		Type string            `json:"type"`
		Data map[string]string `json:"data"`
	}
	require.NoError(t, ws.ReadJSON(&frame))
	assert.Equal(t, FrameError, frame.Type)
	assert.Contains(t, frame.Data["message"], "teleport")
}

func TestWebSocketClosesWithSession(t *testing.T) {
	srv, svc := setup(t)
	session, err := svc.CreateSession(context.Background(), "")
	require.NoError(t, err)

	ws := dial(t, srv, session.ID())
	readSnapshot(t, ws)

	require.NoError(t, svc.DeleteSession(context.Background(), session.ID()))

	_, _, err = ws.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestWebSocketSubmitWhilePending(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	gen := ai.GeneratorFunc(func(context.Context, string) (string, error) {
		started <- struct{}{}
		<-release
		return "late", nil
	})
	svc := chatservice.NewService(persona.NewSeedStore(), gen, chatservice.Options{})
	r := chi.NewRouter()
	NewWebSocketHandler(svc, nil, nil).RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	session, err := svc.CreateSession(context.Background(), "")
	require.NoError(t, err)
	ws := dial(t, srv, session.ID())
	readSnapshot(t, ws)

	require.NoError(t, ws.WriteJSON(InboundFrame{Type: FrameSubmit, Text: "first"}))
	<-started
	require.NoError(t, ws.WriteJSON(InboundFrame{Type: FrameSubmit, Text: "second"}))

	var frame struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	for frame.Type != FrameError {
		frame.Type, frame.Data = "", nil
		require.NoError(t, ws.ReadJSON(&frame))
	}
	assert.Equal(t, chatservice.ErrPending.Error(), frame.Data["message"])

	close(release)
	var last snapshotFrame
	for !(len(last.Data.Messages) == 3 && !last.Data.Pending) {
		last = readSnapshot(t, ws)
	}
	assert.Equal(t, "first", last.Data.Messages[1].Text)
	assert.Equal(t, "late", last.Data.Messages[2].Text)
}
