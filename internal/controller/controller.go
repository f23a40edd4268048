// Package controller drives one widget conversation: it owns the transcript
// and the rendered log, talks to the assistant responder, and enforces the
// single-in-flight-exchange state machine.
package controller

import (
	"context"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/oakline/concierge/internal/model/conversation"
	"github.com/oakline/concierge/internal/render"
	"github.com/oakline/concierge/internal/service/upstream"
)

// instructionalSuffix is appended to every user message before transmission.
// It advises the assistant which tags and link targets the widget will
// accept; the sanitizer's deny-list stays authoritative if they ever
// diverge.
const instructionalSuffix = "\n\n[System: You may include internal links using normal HTML anchor tags. Only link to URLs starting with '/'. Allowed tags: <a>, <p>, <ul>, <li>, <strong>, <em>]"

const (
	emptyReplyFallback = "Sorry—please try again or use the contact form."
	failureMessage     = "Sorry—something went wrong. Please try again or use the contact form."
)

var (
	// ErrBusy reports a submit while a previous exchange is still in flight.
	ErrBusy = errors.New("a message is already in flight")
	// ErrClosed reports a submit after the controller was closed.
	ErrClosed = errors.New("conversation is closed")
)

// State is the controller's position in the send cycle.
type State string

const (
	StateIdle    State = "idle"
	StateSending State = "sending"
)

// UIState is the derived widget input state.
type UIState struct {
	InputEnabled  bool `json:"inputEnabled"`
	TypingVisible bool `json:"typingVisible"`
}

// Controller orchestrates one send/receive cycle at a time. Transcript and
// UI state are mutated only under its lock; the lock is released for the
// duration of the network call so Close and busy-checks stay responsive.
type Controller struct {
	mu         sync.Mutex
	state      State
	closed     bool
	generation uint64

	transcript *conversation.Transcript
	log        *render.Log
	responder  upstream.Responder
}

// New builds an idle controller around an empty transcript.
func New(logView *render.Log, responder upstream.Responder) *Controller {
	return &Controller{
		state:      StateIdle,
		transcript: conversation.NewTranscript(),
		log:        logView,
		responder:  responder,
	}
}

// Submit runs one exchange. Blank text is silently ignored. While a previous
// exchange is in flight it returns ErrBusy without touching any state.
// Transport failures are recovered locally (fixed bubble, transcript
// untouched) and are not returned as errors.
func (c *Controller) Submit(ctx context.Context, text string) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	if c.state == StateSending {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateSending
	c.generation++
	gen := c.generation

	c.log.Append(conversation.RoleUser, trimmed)
	augmented := trimmed + instructionalSuffix
	// History reflects prior turns only; the new turn rides in the message
	// field, which is the shape the assist endpoint expects.
	history := c.transcript.ContextPayload()
	c.transcript.Append(conversation.Turn{Role: conversation.RoleUser, Content: augmented})
	c.log.SetTyping(true)
	c.mu.Unlock()

	reply, err := c.responder.Reply(ctx, augmented, history)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed || gen != c.generation {
		// The widget was torn down while we were waiting; a late reply must
		// not mutate a disposed conversation.
		return nil
	}

	c.log.SetTyping(false)

	if err != nil {
		log.Printf("[controller] assist exchange failed: %v", err)
		c.log.Append(conversation.RoleAssistant, failureMessage)
		// The failed exchange is not remembered; only the user turn stays in
		// history.
		c.state = StateIdle
		return nil
	}

	if reply == "" {
		reply = emptyReplyFallback
	}
	c.log.Append(conversation.RoleAssistant, reply)
	c.transcript.Append(conversation.Turn{Role: conversation.RoleAssistant, Content: reply})
	c.state = StateIdle
	return nil
}

// Close tears the conversation down. Any in-flight reply is discarded when it
// eventually resolves.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
	c.state = StateIdle
}

// CurrentState reports the position in the send cycle.
func (c *Controller) CurrentState() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// UIState derives the widget input state: input is enabled exactly when no
// exchange is in flight.
func (c *Controller) UIState() UIState {
	c.mu.Lock()
	sending := c.state == StateSending
	c.mu.Unlock()
	_, typing := c.log.Snapshot()
	return UIState{InputEnabled: !sending, TypingVisible: typing}
}

// TranscriptLen reports the number of recorded turns.
func (c *Controller) TranscriptLen() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.Len()
}

// History returns a copy of the transcript for inspection.
func (c *Controller) History() []conversation.Turn {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transcript.ContextPayload()
}
