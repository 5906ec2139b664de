package handler

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/wildgrid/server/internal/net"
	"github.com/wildgrid/server/internal/proto"
	"github.com/wildgrid/server/internal/world"
)

const maxNameLen = 32

// SendAuthPrompt greets a newly accepted session.
func SendAuthPrompt(sess *net.Session, deps *Deps) {
	send(sess, proto.AuthPrompt{Type: proto.SAuthPrompt}, deps)
}

// normalizeName makes two visually identical names compare equal: NFKC
// normalization then full case folding.
func normalizeName(name string) string {
	return cases.Fold().String(norm.NFKC.String(name))
}

// HandleAuth processes the auth message. Three outcomes: a fresh name is
// reserved and the session moves to role selection, a disconnected agent with
// a matching token is resumed straight into the world, or the attempt is
// rejected.
func HandleAuth(sess *net.Session, msg *proto.ClientMessage, deps *Deps) {
	name := strings.TrimSpace(msg.Name)
	if name == "" || utf8.RuneCountInString(name) > maxNameLen {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Invalid name"}, deps)
		return
	}
	normalized := normalizeName(name)

	if existing := deps.World.AgentByName(name); existing != nil {
		resume(sess, existing, msg.Token, deps)
		return
	}
	// The byName index keys exact names; a fold-equal variant of a connected
	// name still counts as taken.
	for _, id := range deps.World.SortedAgentIDs() {
		a := deps.World.Agents[id]
		if normalizeName(a.Name) == normalized {
			resume(sess, a, msg.Token, deps)
			return
		}
	}
	if deps.Sessions.NameReserved(normalized) {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Name already in use"}, deps)
		return
	}

	token := uuid.NewString()
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		deps.Log.Error("hash resume token", zap.Error(err))
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Internal error"}, deps)
		return
	}

	deps.Sessions.Reserve(sess.ID, normalized, name, string(hash))
	sess.SetState(net.StateRoleSelect)

	send(sess, proto.AuthSuccess{Type: proto.SAuthSuccess, Token: token}, deps)
	send(sess, proto.RolePrompt{
		Type:           proto.SRolePrompt,
		AvailableRoles: roleNames(deps),
	}, deps)
	deps.Log.Info(fmt.Sprintf("name reserved  session=%d  name=%s", sess.ID, name))
}

// resume reattaches a session to an existing agent after token verification.
func resume(sess *net.Session, a *world.Agent, token string, deps *Deps) {
	if a.Connected {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Name already in use"}, deps)
		return
	}
	if !a.Alive {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Agent is permanently dead"}, deps)
		return
	}
	if token == "" || bcrypt.CompareHashAndPassword([]byte(a.TokenHash), []byte(token)) != nil {
		send(sess, proto.AuthError{Type: proto.SAuthError, Reason: "Invalid resume token"}, deps)
		return
	}

	deps.Engine.Reconnect(a)
	deps.Sessions.Bind(a.ID, sess)
	sess.SetState(net.StateInWorld)

	send(sess, proto.AuthSuccess{Type: proto.SAuthSuccess, AgentID: a.ID}, deps)
	deps.Log.Info(fmt.Sprintf("agent resumed  session=%d  agent=%s  name=%s", sess.ID, a.ID, a.Name))
}

func roleNames(deps *Deps) []string {
	// Fixed order; clients show these as-is.
	names := make([]string, 0, 3)
	for _, r := range []string{"merchant", "fighter", "monster"} {
		if _, ok := deps.Tables.Role(r); ok {
			names = append(names, r)
		}
	}
	return names
}
