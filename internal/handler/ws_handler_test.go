package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/hi-ethereal/free-bird-server/internal/config"
	"github.com/hi-ethereal/free-bird-server/internal/hub"
	"github.com/hi-ethereal/free-bird-server/internal/room"
	"github.com/hi-ethereal/free-bird-server/internal/service"
)

func newSignalServer(t *testing.T) *httptest.Server {
	t.Helper()

	wsHub := hub.NewHub()
	go wsHub.Run()

	svc := service.NewSignalService(room.NewRegistry())
	h := NewWSHandler(wsHub, svc, config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 65536,
	})

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func dialPeer(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func send(t *testing.T, conn *websocket.Conn, frame string) {
	t.Helper()
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(frame)))
}

func readFrame(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestWebSocket_PairsPeersAndRelaysHandshake(t *testing.T) {
	req := require.New(t)
	srv := newSignalServer(t)

	peerA := dialPeer(t, srv)
	send(t, peerA, `{"type":"join","room":"lobby"}`)
	req.Equal("joined", readFrame(t, peerA)["type"])

	peerB := dialPeer(t, srv)
	send(t, peerB, `{"type":"join","room":"lobby"}`)
	req.Equal("ready", readFrame(t, peerA)["type"])

	send(t, peerA, `{"type":"offer","room":"lobby","sdp":"v=0 caller"}`)

	// The offer must be the first thing B ever receives: the second
	// joiner hears neither joined nor ready.
	offer := readFrame(t, peerB)
	req.Equal("offer", offer["type"])
	req.Equal("lobby", offer["room"])
	req.Equal("v=0 caller", offer["sdp"])

	send(t, peerB, `{"type":"answer","room":"lobby","sdp":"v=0 callee"}`)
	answer := readFrame(t, peerA)
	req.Equal("answer", answer["type"])
	req.Equal("v=0 callee", answer["sdp"])

	send(t, peerB, `{"type":"candidate","room":"lobby","candidate":"candidate:1 1 UDP 2122252543 192.0.2.1 54400 typ host"}`)
	candidate := readFrame(t, peerA)
	req.Equal("candidate", candidate["type"])
	req.Equal("candidate:1 1 UDP 2122252543 192.0.2.1 54400 typ host", candidate["candidate"])

	req.NoError(peerB.Close())
	req.Equal("leave", readFrame(t, peerA)["type"])
}

func TestWebSocket_MalformedFrameKeepsConnectionAlive(t *testing.T) {
	req := require.New(t)
	srv := newSignalServer(t)

	peer := dialPeer(t, srv)
	send(t, peer, `this is not even close to JSON {{{`)
	send(t, peer, `{"type":"join","room":"lobby"}`)

	// The garbage frame is dropped without a reply, so the join ack is
	// the first frame back.
	req.Equal("joined", readFrame(t, peer)["type"])
}

func TestWebSocket_UnknownTypeIsIgnored(t *testing.T) {
	req := require.New(t)
	srv := newSignalServer(t)

	peer := dialPeer(t, srv)
	send(t, peer, `{"type":"subscribe","room":"lobby"}`)
	send(t, peer, `{"type":"join","room":"lobby"}`)

	req.Equal("joined", readFrame(t, peer)["type"])
}

func TestWebSocket_ForwardBeforeJoinIsDropped(t *testing.T) {
	req := require.New(t)
	srv := newSignalServer(t)

	peer := dialPeer(t, srv)
	send(t, peer, `{"type":"offer","room":"lobby","sdp":"v=0"}`)
	send(t, peer, `{"type":"join","room":"lobby"}`)

	req.Equal("joined", readFrame(t, peer)["type"])
}

func TestWebSocket_ThirdJoinerGetsRoomFull(t *testing.T) {
	req := require.New(t)
	srv := newSignalServer(t)

	peerA := dialPeer(t, srv)
	send(t, peerA, `{"type":"join","room":"lobby"}`)
	req.Equal("joined", readFrame(t, peerA)["type"])

	peerB := dialPeer(t, srv)
	send(t, peerB, `{"type":"join","room":"lobby"}`)
	req.Equal("ready", readFrame(t, peerA)["type"])

	peerC := dialPeer(t, srv)
	send(t, peerC, `{"type":"join","room":"lobby"}`)

	rejection := readFrame(t, peerC)
	req.Equal("error", rejection["type"])
	req.Equal("ROOM_FULL", rejection["code"])

	// A rejected join leaves the connection usable for other rooms.
	send(t, peerC, `{"type":"join","room":"annex"}`)
	req.Equal("joined", readFrame(t, peerC)["type"])
}
