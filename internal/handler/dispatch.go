package handler

import (
	"encoding/json"

	"go.uber.org/zap"

	"github.com/wildgrid/server/internal/net"
	"github.com/wildgrid/server/internal/proto"
)

// HandleMessage routes one inbound client message by type, gated on session
// state. Unknown types and out-of-state messages are dropped.
func HandleMessage(sess *net.Session, raw []byte, deps *Deps) {
	var msg proto.ClientMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		deps.Log.Debug("malformed client message",
			zap.Uint64("session", sess.ID), zap.Error(err))
		return
	}

	switch msg.Type {
	case proto.CAuth:
		if sess.State() == net.StateAuth {
			HandleAuth(sess, &msg, deps)
		}
	case proto.CSelectRole:
		if sess.State() == net.StateRoleSelect {
			HandleSelectRole(sess, &msg, deps)
		}
	case proto.CAction:
		if sess.State() == net.StateInWorld {
			HandleAction(sess, &msg, deps)
		}
	case proto.CPing:
		HandlePing(sess, deps)
	default:
		deps.Log.Debug("unknown message type",
			zap.Uint64("session", sess.ID), zap.String("type", msg.Type))
	}
}

// send marshals and buffers an envelope on the session.
func send(sess *net.Session, v any, deps *Deps) {
	payload, err := json.Marshal(v)
	if err != nil {
		deps.Log.Error("marshal outbound message", zap.Error(err))
		return
	}
	sess.Send(payload)
}
