package packet

import (
	"errors"

	"github.com/quillmc/quill/pkg/protocol"
)

// HandshakeID is the packet ID used in every protocol stage for the
// initial handshake (it is only ever sent in the Handshake stage, but the
// ID namespace is scoped per stage).
const HandshakeID = 0x00

// ErrUnknownNextState is returned when a Handshake packet's next_state
// field is neither 1 (Status) nor 2 (Login).
var ErrUnknownNextState = errors.New("packet: unknown handshake next_state")

// Handshake is the first packet sent on every connection. Its NextState
// field drives the framer's Handshake -> {Status | Login} transition.
type Handshake struct {
	ProtocolVersion int32
	ServerAddress   string
	ServerPort      uint16
	NextState       int32
}

func (p *Handshake) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Handshake, Direction: protocol.Serverbound, ID: HandshakeID}
}

func (p *Handshake) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	var err error
	if p.ProtocolVersion, err = r.varInt(); err != nil {
		return err
	}
	if p.ServerAddress, err = r.str(); err != nil {
		return err
	}
	if p.ServerPort, err = r.uint16(); err != nil {
		return err
	}
	if p.NextState, err = r.varInt(); err != nil {
		return err
	}
	if p.NextState != 1 && p.NextState != 2 {
		return ErrUnknownNextState
	}
	return nil
}

func (p *Handshake) WriteTo(dst []byte) []byte {
	dst = putVarInt(dst, p.ProtocolVersion)
	dst = putString(dst, p.ServerAddress)
	dst = putUint16(dst, p.ServerPort)
	dst = putVarInt(dst, p.NextState)
	return dst
}

func init() {
	register(protocol.PacketKind{Stage: protocol.Handshake, Direction: protocol.Serverbound, ID: HandshakeID},
		func() protocol.Packet { return &Handshake{} })
}
