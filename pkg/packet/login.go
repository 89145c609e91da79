package packet

import "github.com/quillmc/quill/pkg/protocol"

// LoginStart begins authentication: the client announces the username it
// wants to play under. Real clients also send a UUID here; this catalog
// keeps only the field the framer's stage machine and tests exercise.
type LoginStart struct {
	Name string
}

func (p *LoginStart) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Login, Direction: protocol.Serverbound, ID: 0x00}
}

func (p *LoginStart) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	s, err := r.str()
	if err != nil {
		return err
	}
	p.Name = s
	return nil
}

func (p *LoginStart) WriteTo(dst []byte) []byte {
	return putString(dst, p.Name)
}

// LoginSuccess tells the client it is authenticated and about to enter the
// Play stage. The framer treats it specially: once one is serialized on
// the clientbound side, the connection's stage advances to Play (see
// Framer.SerializePacket).
type LoginSuccess struct {
	UUID     string
	Username string
}

func (p *LoginSuccess) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Login, Direction: protocol.Clientbound, ID: 0x02}
}

func (p *LoginSuccess) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	var err error
	if p.UUID, err = r.str(); err != nil {
		return err
	}
	if p.Username, err = r.str(); err != nil {
		return err
	}
	return nil
}

func (p *LoginSuccess) WriteTo(dst []byte) []byte {
	dst = putString(dst, p.UUID)
	dst = putString(dst, p.Username)
	return dst
}

// Disconnect, sent during Login, carries a human-readable (JSON chat
// component) reason and closes the connection.
type Disconnect struct {
	Reason string
}

func (p *Disconnect) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Login, Direction: protocol.Clientbound, ID: 0x00}
}

func (p *Disconnect) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	s, err := r.str()
	if err != nil {
		return err
	}
	p.Reason = s
	return nil
}

func (p *Disconnect) WriteTo(dst []byte) []byte {
	return putString(dst, p.Reason)
}

func init() {
	register(protocol.PacketKind{Stage: protocol.Login, Direction: protocol.Serverbound, ID: 0x00},
		func() protocol.Packet { return &LoginStart{} })
	register(protocol.PacketKind{Stage: protocol.Login, Direction: protocol.Clientbound, ID: 0x02},
		func() protocol.Packet { return &LoginSuccess{} })
	register(protocol.PacketKind{Stage: protocol.Login, Direction: protocol.Clientbound, ID: 0x00},
		func() protocol.Packet { return &Disconnect{} })
}
