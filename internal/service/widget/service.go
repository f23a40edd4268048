// Package widget manages the live widget sessions: one conversation
// controller and one rendered log per open widget instance.
package widget

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oakline/concierge/internal/controller"
	"github.com/oakline/concierge/internal/render"
	"github.com/oakline/concierge/internal/service/upstream"
)

var ErrSessionNotFound = errors.New("session not found")

// Session captures a transient anonymous widget instance. Nothing is
// persisted: a session lives from open to close, like a page view.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
}

// Instance bundles a session with its owned conversation state.
type Instance struct {
	Session    Session
	Controller *controller.Controller
	Log        *render.Log
}

// Service is the in-memory session registry.
type Service struct {
	mu        sync.RWMutex
	responder upstream.Responder
	sessions  map[string]*Instance
}

// NewService builds a registry whose sessions all talk to the given
// responder.
func NewService(responder upstream.Responder) *Service {
	return &Service{
		responder: responder,
		sessions:  make(map[string]*Instance),
	}
}

// Open provisions a fresh session with an empty transcript and log.
func (s *Service) Open() *Instance {
	logView := render.NewLog()
	instance := &Instance{
		Session: Session{
			ID:        uuid.NewString(),
			CreatedAt: time.Now().UTC(),
		},
		Controller: controller.New(logView, s.responder),
		Log:        logView,
	}

	s.mu.Lock()
	s.sessions[instance.Session.ID] = instance
	s.mu.Unlock()

	return instance
}

// Get retrieves a live session by identifier.
func (s *Service) Get(sessionID string) (*Instance, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	instance, ok := s.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return instance, nil
}

// Close tears a session down. The controller discards any reply still in
// flight, so a late response cannot touch the disposed log.
func (s *Service) Close(sessionID string) error {
	s.mu.Lock()
	instance, ok := s.sessions[sessionID]
	if ok {
		delete(s.sessions, sessionID)
	}
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	instance.Controller.Close()
	return nil
}
