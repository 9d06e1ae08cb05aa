package transport

import (
	"github.com/cockroachdb/errors"

	coproto "github.com/starfederation/coproto-go"
)

// Command names of the peer protocol.
const (
	CommandRegister = "REGISTER"
	CommandMsg      = "MSG"
	CommandAck      = "ACK"
	CommandNack     = "NACK"
)

// maxReason keeps NACK reasons inside a single String.
const maxReason = 0xFF

func registerCommand(id PeerID) (coproto.Value, error) {
	return coproto.CommandValue(CommandRegister, coproto.IntValue(int64(id)))
}

func parseRegister(v coproto.Value) (PeerID, error) {
	name, args, ok := v.AsCommand()
	if !ok || name != CommandRegister || len(args) != 1 {
		return 0, errors.Wrapf(ErrRegistration, "unexpected first value %v", v)
	}
	n, ok := args[0].AsInt64()
	if !ok || args[0].Kind() != coproto.KindInteger || n < 0 || n > 0xFFFF {
		return 0, errors.Wrapf(ErrRegistration, "bad peer id %v", args[0])
	}
	return PeerID(n), nil
}

func msgCommand(id string, payload coproto.Value) (coproto.Value, error) {
	idv, err := coproto.StringValue(id)
	if err != nil {
		return coproto.Value{}, err
	}
	return coproto.CommandValue(CommandMsg, idv, payload)
}

// parseMsg returns the message id and payload of a MSG command. The id is
// returned whenever it is readable so a malformed message can still be nacked.
func parseMsg(v coproto.Value) (id string, payload coproto.Value, err error) {
	name, args, ok := v.AsCommand()
	if len(args) > 0 {
		id, _ = args[0].AsString()
	}
	if !ok || name != CommandMsg {
		return id, coproto.Value{}, errors.Newf("expected %s command, got %v", CommandMsg, v)
	}
	if len(args) != 2 || args[0].Kind() != coproto.KindString {
		return id, coproto.Value{}, errors.Newf("%s wants [id, payload], got %d args", CommandMsg, len(args))
	}
	return id, args[1], nil
}

func ackCommand(id string) (coproto.Value, error) {
	idv, err := coproto.StringValue(id)
	if err != nil {
		return coproto.Value{}, err
	}
	return coproto.CommandValue(CommandAck, idv)
}

func nackCommand(id, reason string) (coproto.Value, error) {
	idv, err := coproto.StringValue(id)
	if err != nil {
		return coproto.Value{}, err
	}
	if len(reason) > maxReason {
		reason = reason[:maxReason]
	}
	rv, err := coproto.StringValue(reason)
	if err != nil {
		return coproto.Value{}, err
	}
	return coproto.CommandValue(CommandNack, idv, rv)
}

// ackResult is a parsed ACK or NACK.
type ackResult struct {
	id  string
	err error
}

func parseAck(v coproto.Value) (ackResult, bool) {
	name, args, ok := v.AsCommand()
	if !ok || len(args) == 0 {
		return ackResult{}, false
	}
	id, ok := args[0].AsString()
	if !ok {
		return ackResult{}, false
	}
	switch name {
	case CommandAck:
		return ackResult{id: id}, true
	case CommandNack:
		reason := "no reason given"
		if len(args) > 1 {
			if s, ok := args[1].AsString(); ok {
				reason = s
			}
		}
		return ackResult{id: id, err: errors.Wrapf(ErrNacked, "message %s: %s", id, reason)}, true
	default:
		return ackResult{}, false
	}
}

// commandName labels metrics. Unknown commands share one label.
func commandName(v coproto.Value) string {
	name, _, ok := v.AsCommand()
	if !ok {
		return v.Kind().String()
	}
	switch name {
	case CommandRegister, CommandMsg, CommandAck, CommandNack:
		return name
	default:
		return "other"
	}
}
