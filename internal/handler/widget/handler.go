// Package widget exposes the chat widget over HTTP: session lifecycle,
// message submission, and live log delivery via SSE or websocket.
package widget

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oakline/concierge/internal/controller"
	"github.com/oakline/concierge/internal/model/suggestion"
	"github.com/oakline/concierge/internal/render"
	widgetService "github.com/oakline/concierge/internal/service/widget"
	"github.com/oakline/concierge/pkg/utils"
)

// Handler routes widget traffic to the session registry.
type Handler struct {
	svc         *widgetService.Service
	suggestions suggestion.Store
	enabled     bool
}

// New creates the widget handler. When enabled is false only the config
// probe answers; every session route reports the widget unavailable and no
// assistant traffic can occur.
func New(svc *widgetService.Service, suggestions suggestion.Store, enabled bool) *Handler {
	return &Handler{
		svc:         svc,
		suggestions: suggestions,
		enabled:     enabled,
	}
}

// RegisterRoutes registers the widget routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/widget/config", h.handleConfig)
	r.Post("/widget/sessions", h.handleOpenSession)
	r.Delete("/widget/sessions/{sessionID}", h.handleCloseSession)
	r.Post("/widget/sessions/{sessionID}/messages", h.handleSubmitMessage)
	r.Get("/widget/sessions/{sessionID}/events", h.handleEvents)
	r.Get("/widget/sessions/{sessionID}/ws", h.handleWebSocket)
}

// viewState is the widget pane as the client should draw it.
type viewState struct {
	Entries      []render.Entry `json:"entries"`
	Typing       bool           `json:"typing"`
	InputEnabled bool           `json:"inputEnabled"`
}

func snapshotView(instance *widgetService.Instance) viewState {
	entries, typing := instance.Log.Snapshot()
	return viewState{
		Entries:      entries,
		Typing:       typing,
		InputEnabled: instance.Controller.UIState().InputEnabled,
	}
}

// handleConfig reports the feature flag and the suggested questions. A
// disabled widget advertises enabled=false so the host page hides the
// trigger and makes no further calls.
func (h *Handler) handleConfig(w http.ResponseWriter, r *http.Request) {
	payload := struct {
		Enabled     bool                    `json:"enabled"`
		Suggestions []suggestion.Suggestion `json:"suggestions,omitempty"`
	}{Enabled: h.enabled}

	if h.enabled {
		payload.Suggestions = h.suggestions.List()
	}

	utils.RespondJSON(w, http.StatusOK, payload)
}

func (h *Handler) handleOpenSession(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.RespondError(w, http.StatusServiceUnavailable, "assistant is unavailable")
		return
	}

	instance := h.svc.Open()
	utils.RespondJSON(w, http.StatusCreated, struct {
		Session widgetService.Session `json:"session"`
		View    viewState             `json:"view"`
	}{Session: instance.Session, View: snapshotView(instance)})
}

func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if !h.enabled {
		utils.RespondError(w, http.StatusServiceUnavailable, "assistant is unavailable")
		return
	}

	sessionID := chi.URLParam(r, "sessionID")
	if err := h.svc.Close(sessionID); err != nil {
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSubmitMessage runs one exchange and returns the updated pane. Blank
// text is accepted and ignored; a submit while a previous exchange is in
// flight is refused with 409.
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
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

	var payload struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch err := instance.Controller.Submit(r.Context(), payload.Text); {
	case errors.Is(err, controller.ErrBusy):
		utils.RespondError(w, http.StatusConflict, "a message is already in flight")
		return
	case errors.Is(err, controller.ErrClosed):
		utils.RespondError(w, http.StatusNotFound, "session not found")
		return
	}

	utils.RespondJSON(w, http.StatusOK, snapshotView(instance))
}

// handleEvents streams log events over SSE, starting with a snapshot frame
// for panes that attach mid-conversation.
func (h *Handler) handleEvents(w http.ResponseWriter, r *http.Request) {
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

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	utils.SetupSSEHeaders(w)

	events := instance.Log.Subscribe(16)
	defer instance.Log.Unsubscribe(events)

	entries, typing := instance.Log.Snapshot()
	utils.SendSSEEvent(w, flusher, "snapshot", struct {
		Entries []render.Entry `json:"entries"`
		Typing  bool           `json:"typing"`
	}{Entries: entries, Typing: typing})

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			utils.SendSSEEvent(w, flusher, string(ev.Kind), ev)
		}
	}
}
