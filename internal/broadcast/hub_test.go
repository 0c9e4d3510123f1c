package broadcast

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/datasource/memory"
	"github.com/Coach97/SpaceEngineers-CoachLCD/internal/driver"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/health"
	"github.com/Coach97/SpaceEngineers-CoachLCD/pkg/core/version"
)

func sweepFrame(t *testing.T) Frame {
	t.Helper()
	src := memory.New()
	sf := datasource.Surface{ID: "bridge", Name: "Bridge [LCD]", Script: "Color 255 0 0\nEcho Online"}
	if err := src.AddSurface(sf, datasource.WidthMetrics{BasePanelWidth: 26, FontSize: 1}); err != nil {
		t.Fatalf("AddSurface() error = %v", err)
	}

	d := driver.New(src, driver.Options{})
	report, err := d.Sweep(context.Background())
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	snaps, err := d.Snapshots(report)
	if err != nil {
		t.Fatalf("Snapshots() error = %v", err)
	}
	return NewFrame(report, snaps)
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) Frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var frame Frame
	if err := conn.ReadJSON(&frame); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	return frame
}

func waitClients(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for hub.Clients() != want {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d, want %d", hub.Clients(), want)
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestNewFrame(t *testing.T) {
	frame := sweepFrame(t)

	if frame.Type != TypeFrame || frame.Version != version.Frames {
		t.Errorf("header = %s/%s", frame.Type, frame.Version)
	}
	if frame.RunID == "" {
		t.Error("RunID should be set")
	}
	if len(frame.Surfaces) != 1 {
		t.Fatalf("surfaces = %d, want 1", len(frame.Surfaces))
	}

	s := frame.Surfaces[0]
	if s.ID != "bridge" || s.Text != "Online" || s.Width != 26 || s.Color != "#ff0000" {
		t.Errorf("surface = %+v", s)
	}
}

func TestNewFrame_NilReport(t *testing.T) {
	frame := NewFrame(nil, nil)
	if frame.RunID != "" || frame.Surfaces == nil {
		t.Errorf("NewFrame(nil, nil) = %+v", frame)
	}
}

func TestHub_Healthz(t *testing.T) {
	server := httptest.NewServer(NewHub(Options{}).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Errorf("GET /healthz = %d %q", resp.StatusCode, body)
	}
}

func TestHub_HealthReport(t *testing.T) {
	registry := health.NewRegistry("coachlcd", version.App)
	registry.Register(health.SourceCheck("source", func(ctx context.Context) error { return nil }))

	server := httptest.NewServer(NewHub(Options{Health: registry.Handler(time.Second)}).Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("GET /health error = %v", err)
	}
	defer resp.Body.Close()

	var report health.Report
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		t.Fatalf("body is not a health report: %v", err)
	}
	if resp.StatusCode != http.StatusOK || report.Status != health.StatusHealthy {
		t.Errorf("GET /health = %d %s", resp.StatusCode, report.Status)
	}
}

func TestHub_Publish(t *testing.T) {
	hub := NewHub(Options{})
	server := httptest.NewServer(hub.Handler())
	defer server.Close()
	defer hub.Close()

	first := sweepFrame(t)
	if err := hub.Publish(first); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	// A late client starts with the last frame
	conn := dial(t, server)
	if got := readFrame(t, conn); got.RunID != first.RunID {
		t.Errorf("first frame run = %s, want %s", got.RunID, first.RunID)
	}

	second := sweepFrame(t)
	if err := hub.Publish(second); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	got := readFrame(t, conn)
	if got.RunID != second.RunID {
		t.Errorf("second frame run = %s, want %s", got.RunID, second.RunID)
	}
	if got.Surfaces[0].Text != "Online" {
		t.Errorf("text = %q", got.Surfaces[0].Text)
	}
}

func TestHub_FanOut(t *testing.T) {
	hub := NewHub(Options{})
	server := httptest.NewServer(hub.Handler())
	defer server.Close()
	defer hub.Close()

	a := dial(t, server)
	b := dial(t, server)
	waitClients(t, hub, 2)

	frame := sweepFrame(t)
	if err := hub.Publish(frame); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	for _, conn := range []*websocket.Conn{a, b} {
		if got := readFrame(t, conn); got.RunID != frame.RunID {
			t.Errorf("run = %s, want %s", got.RunID, frame.RunID)
		}
	}
}

func TestHub_Ping(t *testing.T) {
	hub := NewHub(Options{})
	server := httptest.NewServer(hub.Handler())
	defer server.Close()
	defer hub.Close()

	conn := dial(t, server)
	tests := []struct {
		request  string
		expected string
	}{
		{TypePing, TypePong},
		{"subscribe", TypeError},
	}

	for _, tt := range tests {
		if err := conn.WriteJSON(Message{Type: tt.request}); err != nil {
			t.Fatalf("WriteJSON() error = %v", err)
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		var resp Response
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("ReadJSON() error = %v", err)
		}
		if resp.Type != tt.expected {
			t.Errorf("%s: response type = %s, want %s", tt.request, resp.Type, tt.expected)
		}
	}
}

func TestHub_Disconnect(t *testing.T) {
	hub := NewHub(Options{})
	server := httptest.NewServer(hub.Handler())
	defer server.Close()

	conn := dial(t, server)
	waitClients(t, hub, 1)

	conn.Close()
	waitClients(t, hub, 0)
}
