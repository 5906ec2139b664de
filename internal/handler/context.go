package handler

import (
	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/config"
	"github.com/wildgrid/server/internal/data"
	"github.com/wildgrid/server/internal/game"
	"github.com/wildgrid/server/internal/net"
	"github.com/wildgrid/server/internal/world"
)

// Deps holds shared dependencies injected into all message handlers.
// Handlers run on the game loop goroutine, so they may touch world state
// directly.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	World    *world.State
	Engine   *game.Engine
	Tables   *data.Tables
	Sessions *Registry
}

// pendingAuth is a session that passed auth but has not picked a role yet.
// The name is reserved until the session dies or the agent spawns.
type pendingAuth struct {
	name      string // normalized, for reservation
	display   string // as typed, becomes the agent name
	tokenHash string
}

// Registry maps sessions by id and by agent, and reserves names between auth
// and role selection. Accessed only from the game loop goroutine — no locks.
// It is the engine's broadcast sink.
type Registry struct {
	byID    map[uint64]*net.Session
	byAgent map[string]*net.Session
	pending map[uint64]pendingAuth // session id → reserved auth
	names   map[string]uint64      // reserved normalized name → session id
}

func NewRegistry() *Registry {
	return &Registry{
		byID:    make(map[uint64]*net.Session),
		byAgent: make(map[string]*net.Session),
		pending: make(map[uint64]pendingAuth),
		names:   make(map[string]uint64),
	}
}

// Add registers a freshly accepted session.
func (r *Registry) Add(sess *net.Session) {
	r.byID[sess.ID] = sess
}

// Bind associates a session with its spawned or resumed agent.
func (r *Registry) Bind(agentID string, sess *net.Session) {
	sess.AgentID = agentID
	r.byAgent[agentID] = sess
}

// Remove drops a dead session and releases any name reservation. Returns the
// agent id the session was bound to, "" if none.
func (r *Registry) Remove(sessionID uint64) string {
	sess, ok := r.byID[sessionID]
	if !ok {
		return ""
	}
	delete(r.byID, sessionID)
	if p, ok := r.pending[sessionID]; ok {
		delete(r.names, p.name)
		delete(r.pending, sessionID)
	}
	if sess.AgentID != "" {
		if r.byAgent[sess.AgentID] == sess {
			delete(r.byAgent, sess.AgentID)
		}
		return sess.AgentID
	}
	return ""
}

// Session returns the live session by id, nil if gone.
func (r *Registry) Session(sessionID uint64) *net.Session {
	return r.byID[sessionID]
}

// All returns every live session (iteration order unspecified; callers that
// need determinism sort outside).
func (r *Registry) All() map[uint64]*net.Session {
	return r.byID
}

// NameReserved reports whether a normalized name is held by a session still
// in role selection.
func (r *Registry) NameReserved(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Reserve holds a normalized name for a session until role selection.
func (r *Registry) Reserve(sessionID uint64, name, display, tokenHash string) {
	r.pending[sessionID] = pendingAuth{name: name, display: display, tokenHash: tokenHash}
	r.names[name] = sessionID
}

// TakePending consumes the session's reservation, returning it.
func (r *Registry) TakePending(sessionID uint64) (pendingAuth, bool) {
	p, ok := r.pending[sessionID]
	if ok {
		delete(r.pending, sessionID)
		delete(r.names, p.name)
	}
	return p, ok
}

// SendToAgent implements game.Sink: payloads buffer on the session and flush
// at the end of the tick.
func (r *Registry) SendToAgent(agentID string, payload []byte) {
	if sess, ok := r.byAgent[agentID]; ok {
		sess.Send(payload)
	}
}

// FlushAll pushes every session's buffered output to its writer goroutine.
// Called once per tick after broadcast.
func (r *Registry) FlushAll() {
	for _, sess := range r.byID {
		sess.FlushOutput()
	}
}
