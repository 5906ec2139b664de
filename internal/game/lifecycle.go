package game

import "github.com/wildgrid/server/internal/world"

// SpawnAgent creates a new agent at the spawn point with the role's base
// stats. Role selection is permanent for the agent's lifetime.
func (e *Engine) SpawnAgent(name string, role world.Role) *world.Agent {
	stats, ok := e.Tables.Role(string(role))
	if !ok {
		return nil
	}
	a := &world.Agent{
		ID:              e.W.NextAgentID(),
		Name:            name,
		Role:            role,
		Pos:             world.Position{X: world.SpawnX, Y: world.SpawnY},
		Status:          world.StatusIdle,
		HP:              stats.HP,
		MaxHP:           stats.HP,
		Attack:          stats.Attack,
		Defense:         stats.Defense,
		Speed:           stats.Speed,
		VisionRadius:    stats.VisionRadius,
		Gold:            stats.Gold,
		EvolutionStage:  1,
		BaseAttack:      stats.Attack,
		BaseMaxHP:       stats.HP,
		Alive:           true,
		Connected:       true,
		ConnectedAtTick: e.W.Tick,
	}
	e.W.AddAgent(a)
	return a
}

// Reconnect flips an existing agent back to connected; the agent kept its
// role, inventory, position, and health while away.
func (e *Engine) Reconnect(a *world.Agent) {
	a.Connected = true
	a.ConnectedAtTick = e.W.Tick
}

// Disconnect flips the connected flag. In-flight continuous effects
// (movement, gathering, combat) carry on; the agent persists for resume.
func (e *Engine) Disconnect(agentID string) {
	if a := e.W.Agents[agentID]; a != nil {
		a.Connected = false
	}
}
