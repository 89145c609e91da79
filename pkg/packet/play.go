package packet

import "github.com/quillmc/quill/pkg/protocol"

// KeepAlive is sent periodically by the server once a connection reaches
// the Play stage, to confirm the client is still responsive. The Play
// stage's packet catalog would be far larger in a full client or server;
// this is the one packet the framer's tests need to exercise that stage.
type KeepAlive struct {
	ID int64
}

func (p *KeepAlive) Kind() protocol.PacketKind {
	return protocol.PacketKind{Stage: protocol.Play, Direction: protocol.Clientbound, ID: 0x00}
}

func (p *KeepAlive) ReadFrom(body []byte) error {
	r := newFieldReader(body)
	v, err := r.int64()
	if err != nil {
		return err
	}
	p.ID = v
	return nil
}

func (p *KeepAlive) WriteTo(dst []byte) []byte {
	return putInt64(dst, p.ID)
}

func init() {
	register(protocol.PacketKind{Stage: protocol.Play, Direction: protocol.Clientbound, ID: 0x00},
		func() protocol.Packet { return &KeepAlive{} })
}
