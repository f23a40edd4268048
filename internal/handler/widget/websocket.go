package widget

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/oakline/concierge/internal/controller"
	"github.com/oakline/concierge/internal/render"
	"github.com/oakline/concierge/pkg/utils"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// inboundMessage is what the widget client may send over the socket: a
// message submission.
type inboundMessage struct {
	Text string `json:"text"`
}

type snapshotFrame struct {
	Event   string         `json:"event"`
	Entries []render.Entry `json:"entries"`
	Typing  bool           `json:"typing"`
}

// handleWebSocket serves the duplex widget transport: log events flow out,
// submissions flow in. A submit during an in-flight exchange is dropped, the
// same no-op the HTTP path reports as 409.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.RespondError(w, http.StatusServiceUnavailable, "assistant is unavailable")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	instance, err := h.svc.Get(sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[widget] websocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	events := instance.Log.Subscribe(16)
	defer instance.Log.Unsubscribe(events)

	entries, typing := instance.Log.Snapshot()
	if err := conn.WriteJSON(snapshotFrame{Event: "snapshot", Entries: entries, Typing: typing}); err != nil {
		log.Printf("[widget] websocket snapshot write failed: %v", err)
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Reader: each frame is a submission. Exchanges run here one at a time;
	// their render side effects reach the writer through the log
	// subscription.
	go func() {
		defer cancel()
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Printf("[widget] websocket read ended: %v", err)
				}
				return
			}
			if err := instance.Controller.Submit(ctx, msg.Text); err != nil {
				if errors.Is(err, controller.ErrClosed) {
					return
				}
				// ErrBusy: the send affordance was disabled; drop silently.
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if err := conn.WriteJSON(ev); err != nil {
				log.Printf("[widget] websocket write failed: %v", err)
				return
			}
		}
	}
}
