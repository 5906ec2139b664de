package handler

import (
	"github.com/wildgrid/server/internal/net"
	"github.com/wildgrid/server/internal/proto"
)

// HandleAction queues one action for the next tick. A later action from the
// same agent within the tick replaces it; malformed payloads vanish quietly.
func HandleAction(sess *net.Session, msg *proto.ClientMessage, deps *Deps) {
	if sess.AgentID == "" {
		return
	}
	deps.Engine.Queue.Enqueue(sess.AgentID, msg.Action, msg.Params, deps.World.Tick)
}
