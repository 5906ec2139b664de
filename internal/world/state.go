package world

import (
	"fmt"
	"sort"

	"github.com/wildgrid/server/internal/rng"
)

// State owns all world entities, the spatial index, and the tick-scoped
// buffers. All mutation passes through it. Accessed only from the game loop
// goroutine — no locks.
type State struct {
	Tick int64
	Rng  *rng.Source

	Agents     map[string]*Agent
	Resources  map[string]*Resource
	Npcs       map[string]*Npc
	Behemoths  map[string]*Behemoth
	Structures map[string]*Structure
	Alliances  map[string]*Alliance
	Trades     map[string]*Trade
	Crafting   map[string]*CraftingJob

	Grid *Grid

	// Tick-scoped buffers, cleared at tick end after broadcast.
	TickMessages []*ChatMessage
	TickEvents   []*Event

	byName map[string]*Agent // connected-name index, also used for resume

	nextAgent    int64
	nextResource int64
	nextNpc      int64
	nextBehemoth int64
	nextTrade    int64
	nextCraft    int64
	nextMessage  int64
	nextEvent    int64
}

func NewState(seed int64) *State {
	return &State{
		Rng:        rng.New(seed),
		Agents:     make(map[string]*Agent),
		Resources:  make(map[string]*Resource),
		Npcs:       make(map[string]*Npc),
		Behemoths:  make(map[string]*Behemoth),
		Structures: make(map[string]*Structure),
		Alliances:  make(map[string]*Alliance),
		Trades:     make(map[string]*Trade),
		Crafting:   make(map[string]*CraftingJob),
		Grid:       NewGrid(),
		byName:     make(map[string]*Agent),
	}
}

// ── ID allocation (deterministic counters) ─────────────────────────

func (s *State) NextAgentID() string { s.nextAgent++; return fmt.Sprintf("agent-%d", s.nextAgent) }
func (s *State) NextResourceID() string {
	s.nextResource++
	return fmt.Sprintf("res-%d", s.nextResource)
}
func (s *State) NextNpcID() string { s.nextNpc++; return fmt.Sprintf("npc-%d", s.nextNpc) }
func (s *State) NextBehemothID() string {
	s.nextBehemoth++
	return fmt.Sprintf("behemoth-%d", s.nextBehemoth)
}
func (s *State) NextTradeID() string { s.nextTrade++; return fmt.Sprintf("trade-%d", s.nextTrade) }
func (s *State) NextCraftID() string { s.nextCraft++; return fmt.Sprintf("craft-%d", s.nextCraft) }

// RestoreCounters re-seats the id counters after a snapshot restore so new ids
// never collide with persisted ones.
func (s *State) RestoreCounters(agent, resource, npc, behemoth, trade, craft int64) {
	s.nextAgent = agent
	s.nextResource = resource
	s.nextNpc = npc
	s.nextBehemoth = behemoth
	s.nextTrade = trade
	s.nextCraft = craft
}

// Counters returns the current id counters for snapshotting.
func (s *State) Counters() (agent, resource, npc, behemoth, trade, craft int64) {
	return s.nextAgent, s.nextResource, s.nextNpc, s.nextBehemoth, s.nextTrade, s.nextCraft
}

// ── Agents ─────────────────────────────────────────────────────────

// AddAgent registers an agent in the world and the spatial index.
func (s *State) AddAgent(a *Agent) {
	s.Agents[a.ID] = a
	s.byName[a.Name] = a
	s.Grid.Add(a.ID, a.Pos)
}

// AgentByName returns an agent by display name (connected or not).
func (s *State) AgentByName(name string) *Agent {
	return s.byName[name]
}

// MoveAgent updates an agent's position and the spatial index together.
func (s *State) MoveAgent(a *Agent, to Position) {
	s.Grid.Move(a.ID, a.Pos, to)
	a.Pos = to
}

// SortedAgentIDs returns all agent ids in lexical order, for deterministic
// iteration during a tick.
func (s *State) SortedAgentIDs() []string {
	ids := make([]string, 0, len(s.Agents))
	for id := range s.Agents {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Resources ──────────────────────────────────────────────────────

func (s *State) AddResource(r *Resource) {
	s.Resources[r.ID] = r
	s.Grid.Add(r.ID, r.Pos)
}

func (s *State) RemoveResource(id string) *Resource {
	r, ok := s.Resources[id]
	if !ok {
		return nil
	}
	s.Grid.Remove(id, r.Pos)
	delete(s.Resources, id)
	return r
}

// SaplingAt returns the sapling at the exact position, or nil.
func (s *State) SaplingAt(p Position) *Resource {
	for _, id := range s.SortedResourceIDs() {
		r := s.Resources[id]
		if r.Type == ResourceSapling && r.Pos == p {
			return r
		}
	}
	return nil
}

func (s *State) SortedResourceIDs() []string {
	ids := make([]string, 0, len(s.Resources))
	for id := range s.Resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── NPCs ───────────────────────────────────────────────────────────

func (s *State) AddNpc(n *Npc) {
	s.Npcs[n.ID] = n
	s.Grid.Add(n.ID, n.Pos)
}

func (s *State) RemoveNpc(id string) *Npc {
	n, ok := s.Npcs[id]
	if !ok {
		return nil
	}
	s.Grid.Remove(id, n.Pos)
	delete(s.Npcs, id)
	return n
}

func (s *State) MoveNpc(n *Npc, to Position) {
	s.Grid.Move(n.ID, n.Pos, to)
	n.Pos = to
}

func (s *State) SortedNpcIDs() []string {
	ids := make([]string, 0, len(s.Npcs))
	for id := range s.Npcs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Behemoths ──────────────────────────────────────────────────────

func (s *State) AddBehemoth(b *Behemoth) {
	s.Behemoths[b.ID] = b
	s.Grid.Add(b.ID, b.Pos)
}

func (s *State) MoveBehemoth(b *Behemoth, to Position) {
	s.Grid.Move(b.ID, b.Pos, to)
	b.Pos = to
}

func (s *State) SortedBehemothIDs() []string {
	ids := make([]string, 0, len(s.Behemoths))
	for id := range s.Behemoths {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Structures ─────────────────────────────────────────────────────

func (s *State) AddStructure(st *Structure) {
	s.Structures[st.ID] = st
	s.Grid.Add(st.ID, st.Pos)
}

// ── Trades & crafting ──────────────────────────────────────────────

func (s *State) SortedTradeIDs() []string {
	ids := make([]string, 0, len(s.Trades))
	for id := range s.Trades {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *State) SortedCraftIDs() []string {
	ids := make([]string, 0, len(s.Crafting))
	for id := range s.Crafting {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ── Tick buffers ───────────────────────────────────────────────────

// Emit appends a world event to the tick buffer and assigns it an id.
func (s *State) Emit(typ string, actors []string, pos *Position, data map[string]any) *Event {
	s.nextEvent++
	ev := &Event{
		ID:     fmt.Sprintf("ev-%d-%d", s.Tick, s.nextEvent),
		Tick:   s.Tick,
		Type:   typ,
		Actors: actors,
		Pos:    pos,
		Data:   data,
	}
	s.TickEvents = append(s.TickEvents, ev)
	return ev
}

// Say appends a chat message to the tick buffer and assigns it an id.
func (s *State) Say(m *ChatMessage) *ChatMessage {
	s.nextMessage++
	m.ID = fmt.Sprintf("msg-%d-%d", s.Tick, s.nextMessage)
	m.Tick = s.Tick
	s.TickMessages = append(s.TickMessages, m)
	return m
}

// ClearTickBuffers drops tick-scoped messages and events. Called at tick end
// after broadcast and persistence.
func (s *State) ClearTickBuffers() {
	s.TickMessages = s.TickMessages[:0]
	s.TickEvents = s.TickEvents[:0]
	s.nextEvent = 0
	s.nextMessage = 0
}

// EntityPosition looks up any entity's position by id across all entity maps.
func (s *State) EntityPosition(id string) (Position, bool) {
	return s.Grid.PositionOf(id)
}
