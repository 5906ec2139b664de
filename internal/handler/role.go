package handler

import (
	"fmt"

	"github.com/wildgrid/server/internal/net"
	"github.com/wildgrid/server/internal/proto"
	"github.com/wildgrid/server/internal/world"
)

// HandleSelectRole spawns the agent for a session that finished auth. The
// role choice is permanent.
func HandleSelectRole(sess *net.Session, msg *proto.ClientMessage, deps *Deps) {
	role := world.Role(msg.Role)
	if _, ok := deps.Tables.Role(msg.Role); !ok {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Unknown role"}, deps)
		return
	}

	pending, ok := deps.Sessions.TakePending(sess.ID)
	if !ok {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "No pending auth"}, deps)
		sess.Close()
		return
	}

	a := deps.Engine.SpawnAgent(pending.display, role)
	if a == nil {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Unknown role"}, deps)
		return
	}
	a.TokenHash = pending.tokenHash

	deps.Sessions.Bind(a.ID, sess)
	sess.SetState(net.StateInWorld)

	send(sess, proto.RoleConfirmed{
		Type:          proto.SRoleConfirmed,
		Role:          string(a.Role),
		AgentID:       a.ID,
		SpawnPosition: proto.Position{X: a.Pos.X, Y: a.Pos.Y},
	}, deps)
	deps.Log.Info(fmt.Sprintf("agent spawned  session=%d  agent=%s  name=%s  role=%s",
		sess.ID, a.ID, a.Name, a.Role))
}
