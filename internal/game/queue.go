package game

import (
	"encoding/json"
	"sort"
	"sync"
)

// Queue buffers at most one pending action per agent. It is the only
// structure shared between the connection goroutines (producers) and the game
// loop (single consumer); a mutex guards the map. Within a tick, a second
// action from the same agent replaces the first (last-write-wins).
type Queue struct {
	mu      sync.Mutex
	pending map[string]Action
}

func NewQueue() *Queue {
	return &Queue{pending: make(map[string]Action)}
}

// Enqueue parses the raw payload and stores it under the agent's slot.
// Malformed payloads are silently dropped.
func (q *Queue) Enqueue(agentID, actionType string, params json.RawMessage, tick int64) {
	act, ok := ParseAction(agentID, actionType, params, tick)
	if !ok {
		return
	}
	q.mu.Lock()
	q.pending[agentID] = act
	q.mu.Unlock()
}

// Push stores an already-parsed action (used by tests and internal callers).
func (q *Queue) Push(act Action) {
	q.mu.Lock()
	q.pending[act.AgentID] = act
	q.mu.Unlock()
}

// Drain removes and returns all pending actions, sorted by agent id so the
// tick processes the same drained set in the same order every time.
func (q *Queue) Drain() []Action {
	q.mu.Lock()
	acts := make([]Action, 0, len(q.pending))
	for _, a := range q.pending {
		acts = append(acts, a)
	}
	clear(q.pending)
	q.mu.Unlock()
	sort.Slice(acts, func(i, j int) bool { return acts[i].AgentID < acts[j].AgentID })
	return acts
}

// Len returns the number of queued actions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
