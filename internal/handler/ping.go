package handler

import (
	"github.com/wildgrid/server/internal/net"
	"github.com/wildgrid/server/internal/proto"
)

// HandlePing answers with the current server tick. Allowed in any state.
func HandlePing(sess *net.Session, deps *Deps) {
	send(sess, proto.Pong{Type: proto.SPong, ServerTick: deps.World.Tick}, deps)
}
