package packet

import "github.com/quillmc/quill/pkg/protocol"

// StatusRequest has no fields; sending it asks the server for its status
// JSON (used by the multiplayer server list ping).
type StatusRequest struct{}

func (p *StatusRequest) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Serverbound, ID: 0x00}
}
func (p *StatusRequest) ReadFrom(body []byte) error { return nil }
func (p *StatusRequest) WriteTo(dst []byte) []byte  { return dst }

// StatusResponse carries the server's status as a JSON document (version,
// players online, MOTD). The framer treats it as an opaque string; only
// the server-list-ping UI parses the JSON.
type StatusResponse struct {
	JSON string
}

func (p *StatusResponse) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Clientbound, ID: 0x00}
}

func (p *StatusResponse) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	s, err := r.str()
	if err != nil {
		return err
	}
	p.JSON = s
	return nil
}

func (p *StatusResponse) WriteTo(dst []byte) []byte {
	return putString(dst, p.JSON)
}

// PingRequest echoes an opaque payload the client chose, used to measure
// round-trip latency for the server list ping.
type PingRequest struct {
	Payload int64
}

func (p *PingRequest) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Serverbound, ID: 0x01}
}

func (p *PingRequest) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	v, err := r.int64()
	if err != nil {
		return err
	}
	p.Payload = v
	return nil
}

func (p *PingRequest) WriteTo(dst []byte) []byte {
	return putInt64(dst, p.Payload)
}

// PongResponse echoes PingRequest's payload back to the client unchanged.
type PongResponse struct {
	Payload int64
}

func (p *PongResponse) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Clientbound, ID: 0x01}
}

func (p *PongResponse) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	v, err := r.int64()
	if err != nil {
		return err
	}
	p.Payload = v
	return nil
}

func (p *PongResponse) WriteTo(dst []byte) []byte {
	return putInt64(dst, p.Payload)
}

func init() {
	register(protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Serverbound, ID: 0x00},
		func() protocol.Packet { return &StatusRequest{} })
	register(protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Clientbound, ID: 0x00},
		func() protocol.Packet { return &StatusResponse{} })
	register(protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Serverbound, ID: 0x01},
		func() protocol.Packet { return &PingRequest{} })
	register(protocol.PacketKind{Stage: protocol.Status, Direction: protocol.Clientbound, ID: 0x01},
		func() protocol.Packet { return &PongResponse{} })
}
