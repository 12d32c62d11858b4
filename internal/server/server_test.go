package server

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"backend-biketrack/internal/config"

	"github.com/gorilla/websocket"
)

func testConfig() config.Config {
	return config.Config{
		ServerPort:         ":0",
		SimulationInterval: time.Second,
		BroadcastInterval:  2 * time.Second,
	}
}

func TestHealthRoute(t *testing.T) {
	srv := NewServer(testConfig(), nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	resp, err := srv.App.Test(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected status: %d", resp.StatusCode)
	}
}

func TestRoutesRegistered(t *testing.T) {
	srv := NewServer(testConfig(), nil, nil)

	for _, path := range []string{"/ws", "/stations", "/bikes/1"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp, err := srv.App.Test(req)
		if err != nil {
			t.Fatalf("request error for %s: %v", path, err)
		}
		if resp.StatusCode == http.StatusNotFound {
			t.Fatalf("expected %s to be registered", path)
		}
	}
}

func startServer(t *testing.T) (*Server, string, func()) {
	t.Helper()
	srv := NewServer(testConfig(), nil, nil)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen error: %v", err)
	}
	go func() {
		_ = srv.App.Listener(ln)
	}()

	return srv, "ws://" + ln.Addr().String() + "/ws", func() {
		_ = srv.App.Shutdown()
		_ = ln.Close()
	}
}

func sendJSON(t *testing.T, conn *websocket.Conn, raw string) {
	t.Helper()
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		t.Fatalf("write error: %v", err)
	}
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	var msg map[string]any
	if err := json.Unmarshal(payload, &msg); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}
	return msg
}

func TestTrackingProtocolEndToEnd(t *testing.T) {
	srv, wsURL, stop := startServer(t)
	defer stop()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer conn.Close()

	sendJSON(t, conn, `{"type":"auth","userId":7}`)
	if msg := readJSON(t, conn); msg["type"] != "auth_success" {
		t.Fatalf("expected auth_success, got %v", msg)
	}

	sendJSON(t, conn, `{"type":"start_tracking","bikeId":42,"rentalId":9,"startLocation":{"lat":-23.55,"lng":-46.63}}`)
	if msg := readJSON(t, conn); msg["type"] != "tracking_started" || msg["bikeId"] != float64(42) {
		t.Fatalf("expected tracking_started, got %v", msg)
	}

	sendJSON(t, conn, `{"type":"set_destination","bikeId":42,"destination":{"lat":-23.551,"lng":-46.631}}`)
	if msg := readJSON(t, conn); msg["type"] != "destination_set" {
		t.Fatalf("expected destination_set, got %v", msg)
	}

	srv.Simulator.Tick()
	bike, ok := srv.Store.Get(42)
	if !ok || !bike.IsMoving {
		t.Fatalf("expected bike moving after tick: %+v", bike)
	}

	// both connections of the same user receive the broadcast
	second, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}
	defer second.Close()
	sendJSON(t, second, `{"type":"auth","userId":7}`)
	if msg := readJSON(t, second); msg["type"] != "auth_success" {
		t.Fatalf("expected auth_success, got %v", msg)
	}
	if msg := readJSON(t, second); msg["type"] != "tracking_data" {
		t.Fatalf("expected tracking_data snapshot, got %v", msg)
	}

	srv.Broadcaster.Tick()
	for _, c := range []*websocket.Conn{conn, second} {
		msg := readJSON(t, c)
		if msg["type"] != "location_update" {
			t.Fatalf("expected location_update, got %v", msg)
		}
		bikes := msg["bikes"].([]any)
		if len(bikes) != 1 {
			t.Fatalf("expected one bike in update")
		}
		if bikes[0].(map[string]any)["bikeId"] != float64(42) {
			t.Fatalf("unexpected bike in update: %v", bikes[0])
		}
	}

	sendJSON(t, conn, `{"type":"stop_tracking","bikeId":42}`)
	if msg := readJSON(t, conn); msg["type"] != "tracking_stopped" {
		t.Fatalf("expected tracking_stopped, got %v", msg)
	}
	if _, ok := srv.Store.Get(42); ok {
		t.Fatalf("expected bike removed from store")
	}
}

func TestTrackingSurvivesDisconnect(t *testing.T) {
	srv, wsURL, stop := startServer(t)
	defer stop()

	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial error: %v", err)
	}

	sendJSON(t, conn, `{"type":"auth","userId":7}`)
	readJSON(t, conn)
	sendJSON(t, conn, `{"type":"start_tracking","bikeId":42,"rentalId":9,"startLocation":{"lat":-23.55,"lng":-46.63}}`)
	readJSON(t, conn)

	conn.Close()
	time.Sleep(50 * time.Millisecond)

	srv.Simulator.Tick()
	if _, ok := srv.Store.Get(42); !ok {
		t.Fatalf("tracking must survive client disconnect")
	}
}
