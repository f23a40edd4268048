package widget

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

func dialWidget(t *testing.T, r *chi.Mux, sessionID string) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(r)
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/widget/sessions/" + sessionID + "/ws"

	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial widget socket: %v", err)
	}
	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestWebSocketDeliversSnapshotThenEvents(t *testing.T) {
	r, _ := setupRouter(scriptedResponder{reply: "<p>hi</p>"}, true)
	sessionID := openSession(t, r)

	conn, teardown := dialWidget(t, r, sessionID)
	defer teardown()

	var snapshot struct {
		Event   string `json:"event"`
		Entries []struct {
			HTML string `json:"html"`
		} `json:"entries"`
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := conn.ReadJSON(&snapshot); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if snapshot.Event != "snapshot" || len(snapshot.Entries) != 0 {
		t.Fatalf("unexpected snapshot frame: %+v", snapshot)
	}

	if err := conn.WriteJSON(map[string]string{"text": "hello"}); err != nil {
		t.Fatalf("write submission: %v", err)
	}

	// Expect, in order: user bubble, typing on, typing off, assistant bubble.
	var sawUser, sawAssistant bool
	for i := 0; i < 4; i++ {
		var ev struct {
			Event string `json:"event"`
			Entry *struct {
				Role string `json:"role"`
				HTML string `json:"html"`
			} `json:"entry"`
		}
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("read event %d: %v", i, err)
		}
		if ev.Event == "message" && ev.Entry != nil {
			switch ev.Entry.Role {
			case "user":
				sawUser = true
				if ev.Entry.HTML != "hello" {
					t.Fatalf("unexpected user bubble: %q", ev.Entry.HTML)
				}
			case "assistant":
				sawAssistant = true
				if ev.Entry.HTML != "<p>hi</p>" {
					t.Fatalf("unexpected assistant bubble: %q", ev.Entry.HTML)
				}
			}
		}
	}
	if !sawUser || !sawAssistant {
		t.Fatalf("missing bubbles: user=%v assistant=%v", sawUser, sawAssistant)
	}
}

func TestWebSocketUnknownSession(t *testing.T) {
	r, _ := setupRouter(scriptedResponder{reply: "unused"}, true)
	srv := httptest.NewServer(r)
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/widget/sessions/missing/ws"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err == nil {
		t.Fatal("expected dial to fail for unknown session")
	}
	if resp == nil || resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 handshake rejection, got %+v", resp)
	}
}
