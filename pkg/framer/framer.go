// Package framer implements the per-connection framing state machine:
// the object that turns a raw, possibly partial byte stream into a FIFO
// of decoded packets and back, layering AES-128/CFB8 encryption and
// zlib compression in the protocol-mandated order.
package framer

import (
	"errors"
	"fmt"

	"github.com/pion/logging"

	"github.com/quillmc/quill/pkg/cipher"
	"github.com/quillmc/quill/pkg/compress"
	"github.com/quillmc/quill/pkg/netbuf"
	"github.com/quillmc/quill/pkg/packet"
	"github.com/quillmc/quill/pkg/protocol"
	"github.com/quillmc/quill/pkg/varint"
)

// MaxFrameLength bounds packet_length against a runaway or malicious
// peer. The protocol permits frames up to roughly 2 MiB of compressed
// payload; anything past that is rejected rather than buffered.
const MaxFrameLength = 2 * 1024 * 1024

// ErrEncryptionAlreadyEnabled and ErrCompressionAlreadyEnabled are
// returned when EnableEncryption / EnableCompression is called a second
// time: both are one-shot and monotonic for the life of a connection.
var (
	ErrEncryptionAlreadyEnabled  = errors.New("framer: encryption already enabled")
	ErrCompressionAlreadyEnabled = errors.New("framer: compression already enabled")
)

type compressionState struct {
	enabled   bool
	threshold int
}

// Config configures a new Framer. The zero Config is valid: it uses the
// process-wide packet registry, the default frame-length cap, and
// disables logging.
type Config struct {
	// Registry looks up packet constructors for ingress decoding.
	// Defaults to protocol.Default.
	Registry *protocol.Registry

	// MaxPacketLength caps packet_length on ingress. Defaults to
	// MaxFrameLength if zero.
	MaxPacketLength int

	// LoggerFactory creates the framer's logger. If nil, logging calls
	// are skipped entirely.
	LoggerFactory logging.LoggerFactory
}

// Framer is the duplex per-connection object: AcceptBytes decodes bytes
// traveling toward direction, SerializePacket encodes packets traveling
// the opposite way. It is not safe for concurrent use — callers own one
// Framer per connection and drive it from a single goroutine, the same
// goroutine (or a strictly serialized pair) that owns the socket.
type Framer struct {
	direction protocol.Direction
	stage     protocol.Stage

	registry        *protocol.Registry
	maxPacketLength int

	encrypt *cipher.CFB8
	decrypt *cipher.CFB8

	compression compressionState

	inRaw   *netbuf.Buffer
	inPlain *netbuf.Buffer
	inbox   []protocol.Packet

	log logging.LeveledLogger
}

// New returns a Framer in the Handshake stage, with encryption and
// compression both disabled.
func New(direction protocol.Direction, config Config) *Framer {
	registry := config.Registry
	if registry == nil {
		registry = protocol.Default
	}
	maxPacketLength := config.MaxPacketLength
	if maxPacketLength == 0 {
		maxPacketLength = MaxFrameLength
	}

	f := &Framer{
		direction:       direction,
		stage:           protocol.Handshake,
		registry:        registry,
		maxPacketLength: maxPacketLength,
		inRaw:           netbuf.New(4096),
		inPlain:         netbuf.New(4096),
	}
	if config.LoggerFactory != nil {
		f.log = config.LoggerFactory.NewLogger("framer")
	}
	return f
}

// Stage returns the connection's current protocol stage.
func (f *Framer) Stage() protocol.Stage {
	return f.stage
}

// SetStage forces the connection's stage, bypassing the usual
// Handshake/LoginSuccess-driven transitions. Intended for tests and for
// callers that need to seed a framer mid-connection.
func (f *Framer) SetStage(stage protocol.Stage) {
	f.stage = stage
}

// EnableEncryption turns on AES-128/CFB8 over the entire frame (length
// VarInt included) in both directions, keyed and seeded with key. It is
// one-shot: calling it twice returns ErrEncryptionAlreadyEnabled without
// touching the existing cipher state.
func (f *Framer) EnableEncryption(key [cipher.KeySize]byte) error {
	if f.encrypt != nil {
		return ErrEncryptionAlreadyEnabled
	}
	enc, err := cipher.New(key[:])
	if err != nil {
		return err
	}
	dec, err := cipher.New(key[:])
	if err != nil {
		return err
	}
	f.encrypt = enc
	f.decrypt = dec
	if f.log != nil {
		f.log.Debug("encryption enabled")
	}
	return nil
}

// EnableCompression turns on the zlib compression envelope. Bodies
// shorter than threshold bytes are sent literally (wrapped in a
// VarInt(0) marker); bodies at or above threshold are deflated. It is
// one-shot: calling it twice returns ErrCompressionAlreadyEnabled.
func (f *Framer) EnableCompression(threshold int) error {
	if f.compression.enabled {
		return ErrCompressionAlreadyEnabled
	}
	f.compression = compressionState{enabled: true, threshold: threshold}
	if f.log != nil {
		f.log.Debugf("compression enabled, threshold=%d", threshold)
	}
	return nil
}

// TakeInbox drains and returns every packet decoded so far, in the
// order their bytes arrived on the wire. The framer's inbox is empty
// after this call.
func (f *Framer) TakeInbox() []protocol.Packet {
	if len(f.inbox) == 0 {
		return nil
	}
	out := f.inbox
	f.inbox = nil
	return out
}

// AcceptBytes decrypts chunk in place (if encryption is active),
// appends it to the residual ingress buffer, and decodes as many
// complete frames as are now available into the inbox. A nil error
// means chunk was fully consumed, even if it held no complete frame.
// Any non-nil error is a *protocol.FatalError: the cipher and
// compaction state have already irrecoverably consumed bytes, and the
// caller must drop the connection without calling AcceptBytes again.
func (f *Framer) AcceptBytes(chunk []byte) error {
	if f.decrypt != nil {
		f.decrypt.Decrypt(chunk)
	}
	f.inRaw.Append(chunk)

	for {
		f.inRaw.Mark()
		packetLength, n, err := varint.Read(f.inRaw.Unread())
		if err == varint.ErrIncomplete {
			f.inRaw.Reset()
			return nil
		}
		if err != nil {
			return protocol.NewFatalError(protocol.ErrMalformedFrame, "packet length varint")
		}
		if packetLength < 0 || int(packetLength) > f.maxPacketLength {
			return protocol.NewFatalError(protocol.ErrMalformedFrame,
				fmt.Sprintf("packet length %d exceeds cap", packetLength))
		}
		f.inRaw.Advance(n)

		if f.inRaw.Remaining() < int(packetLength) {
			f.inRaw.Reset()
			return nil
		}

		body := f.inRaw.Unread()[:packetLength]
		f.inRaw.Advance(int(packetLength))

		bodyLen, err := f.decodeBody(body)
		if err != nil {
			return err
		}
		f.inRaw.Compact()

		if err := f.decodePacket(bodyLen); err != nil {
			return err
		}
	}
}

// decodeBody strips the compression envelope (if any) from body,
// appending the resulting packet bytes (varint(id) ∥ payload) to
// in_plain, and returns their length.
func (f *Framer) decodeBody(body []byte) (int, error) {
	if !f.compression.enabled {
		f.inPlain.Append(body)
		return len(body), nil
	}

	uncompressedSize, n, err := varint.Read(body)
	if err != nil {
		return 0, protocol.NewFatalError(protocol.ErrMalformedFrame, "uncompressed size varint")
	}
	rest := body[n:]

	if uncompressedSize == 0 {
		f.inPlain.Append(rest)
		return len(rest), nil
	}
	if uncompressedSize < 0 || int(uncompressedSize) > f.maxPacketLength {
		return 0, protocol.NewFatalError(protocol.ErrMalformedFrame,
			fmt.Sprintf("uncompressed size %d out of range", uncompressedSize))
	}

	plain, err := compress.Decompress(rest, int(uncompressedSize))
	if err != nil {
		return 0, protocol.NewFatalError(protocol.ErrMalformedFrame, err.Error())
	}
	f.inPlain.Append(plain)
	return len(plain), nil
}

// decodePacket reads one packet-ID VarInt plus exactly bodyLen-n
// payload bytes from the front of in_plain, looks the ID up in the
// registry, parses it, applies any Handshake-driven stage transition,
// and pushes the result onto the inbox.
func (f *Framer) decodePacket(bodyLen int) error {
	packetID, n, err := varint.Read(f.inPlain.Unread())
	if err != nil {
		return protocol.NewFatalError(protocol.ErrMalformedFrame, "packet id varint")
	}
	f.inPlain.Advance(n)

	payloadLen := bodyLen - n
	if payloadLen < 0 || f.inPlain.Remaining() < payloadLen {
		return protocol.NewFatalError(protocol.ErrMalformedFrame, "payload shorter than declared body")
	}

	ctor, ok := f.registry.Lookup(f.stage, f.direction, packetID)
	if !ok {
		return protocol.NewFatalError(protocol.ErrUnknownPacket,
			fmt.Sprintf("stage=%v direction=%v id=0x%x", f.stage, f.direction, packetID))
	}

	payload := f.inPlain.Unread()[:payloadLen]
	f.inPlain.Advance(payloadLen)

	p := ctor()
	if err := p.ReadFrom(payload); err != nil {
		f.inPlain.Compact()
		return protocol.NewFatalError(protocol.ErrMalformedPayload, err.Error())
	}

	if hs, ok := p.(*packet.Handshake); ok {
		switch hs.NextState {
		case 1:
			f.stage = protocol.Status
		case 2:
			f.stage = protocol.Login
		}
		if f.log != nil {
			f.log.Debugf("handshake: next_state=%d, stage -> %v", hs.NextState, f.stage)
		}
	}

	f.inPlain.Compact()
	f.inbox = append(f.inbox, p)
	return nil
}

// SerializePacket encodes p for the wire: packet-ID VarInt, payload,
// optional compression envelope, length prefix, and finally in-place
// encryption if active. Egress never fails for protocol reasons; the
// only error this can return comes from the compressor itself.
func (f *Framer) SerializePacket(p protocol.Packet) ([]byte, error) {
	if _, ok := p.(*packet.LoginSuccess); ok {
		f.stage = protocol.Play
		if f.log != nil {
			f.log.Debug("login success sent, stage -> Play")
		}
	}

	body := varint.Write(nil, p.Kind().ID)
	body = p.WriteTo(body)

	envelope, err := f.buildEnvelope(body)
	if err != nil {
		return nil, err
	}

	frame := varint.Write(make([]byte, 0, varint.Size(int32(len(envelope)))+len(envelope)), int32(len(envelope)))
	frame = append(frame, envelope...)

	if f.encrypt != nil {
		f.encrypt.Encrypt(frame)
	}
	return frame, nil
}

func (f *Framer) buildEnvelope(body []byte) ([]byte, error) {
	if !f.compression.enabled {
		return body, nil
	}
	if len(body) < f.compression.threshold {
		envelope := varint.Write(make([]byte, 0, 1+len(body)), 0)
		return append(envelope, body...), nil
	}
	compressed, err := compress.Compress(body)
	if err != nil {
		return nil, err
	}
	envelope := varint.Write(nil, int32(len(body)))
	return append(envelope, compressed...), nil
}
