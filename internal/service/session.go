package service

import (
	"sync"

	"github.com/joeblew999/plat-style/internal/style"
)

// Ticket orders apply requests. Only the newest ticket may commit.
type Ticket uint64

// Session holds the live map document. Every apply works on a copy of the
// current document and swaps it in when done, so readers never observe a
// half-restyled map.
//
// Concurrent AI requests follow a latest-request-wins policy: Begin issues
// a ticket, and Commit discards a style whose ticket is no longer the
// newest. Manual applies count as requests too.
type Session struct {
	mu      sync.Mutex
	base    *style.Document
	current *style.Document
	engine  *style.Orchestrator
	latest  Ticket
	bus     *EventBus
}

// NewSession creates a session restyling copies of base.
func NewSession(base *style.Document, engine *style.Orchestrator, bus *EventBus) *Session {
	return &Session{
		base:    base,
		current: base.Clone(),
		engine:  engine,
		bus:     bus,
	}
}

// Begin issues a ticket for a request whose style is not known yet.
func (s *Session) Begin() Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.latest
}

// Apply restyles the live document immediately.
func (s *Session) Apply(st style.Style, opts style.ApplyOptions) style.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	return s.apply(st, opts)
}

// Commit applies st if t is still the newest ticket.
func (s *Session) Commit(t Ticket, st style.Style, opts style.ApplyOptions) (style.Report, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t != s.latest {
		return style.Report{}, ErrSuperseded
	}
	return s.apply(st, opts), nil
}

func (s *Session) apply(st style.Style, opts style.ApplyOptions) style.Report {
	next := s.current.Clone()
	report := s.engine.Apply(next, st, opts)
	s.current = next
	s.bus.Publish(Event{Resource: "map", Action: ActionApplied, ID: st.Name})
	return report
}

// Reset restores the unstyled base document.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest++
	s.current = s.base.Clone()
	s.bus.Publish(Event{Resource: "map", Action: ActionReset})
}

// Document returns a copy of the current document.
func (s *Session) Document() *style.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// LayerRoles lists the current layers with the roles each one matches.
func (s *Session) LayerRoles() []LayerRoles {
	s.mu.Lock()
	layers := s.current.Layers()
	s.mu.Unlock()

	classifier := s.engine.Classifier()
	out := make([]LayerRoles, len(layers))
	for i, l := range layers {
		out[i] = LayerRoles{Layer: l, Roles: classifier.Roles(l)}
	}
	return out
}

// LayerRoles pairs a layer with its matched roles.
type LayerRoles struct {
	style.Layer
	Roles []style.Role `json:"roles" doc:"Roles this layer is painted for"`
}
