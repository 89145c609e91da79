package protocol

import "sync"

// Packet is the capability every wire packet type implements: it knows
// its own identity and can parse and serialize itself.
type Packet interface {
	// Kind returns the (stage, direction, id) triple that identifies
	// this packet type on the wire.
	Kind() PacketKind
	// ReadFrom parses the packet's fields from exactly body, the payload
	// bytes following the packet-ID VarInt. A short or malformed body
	// must be reported as an error.
	ReadFrom(body []byte) error
	// WriteTo appends this packet's serialized payload (not including
	// the packet-ID VarInt) to dst and returns the result.
	WriteTo(dst []byte) []byte
}

// PacketKind identifies a packet type's position in the protocol: the
// stage it belongs to, the direction it travels, and its wire ID.
type PacketKind struct {
	Stage     Stage
	Direction Direction
	ID        int32
}

// Constructor returns a fresh, zero-valued instance of a packet type,
// ready to have ReadFrom called on it.
type Constructor func() Packet

// Registry maps (stage, direction, id) triples to packet constructors.
// It is safe for concurrent use: packet types register themselves from
// init() functions, which may run during any package's initialization.
type Registry struct {
	mu    sync.RWMutex
	table map[PacketKind]Constructor
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{table: make(map[PacketKind]Constructor)}
}

// Register associates kind with a constructor. Registering the same kind
// twice replaces the previous constructor — later registrations win.
func (r *Registry) Register(kind PacketKind, ctor Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.table[kind] = ctor
}

// Lookup returns the constructor registered for (stage, dir, id), if any.
func (r *Registry) Lookup(stage Stage, dir Direction, id int32) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ctor, ok := r.table[PacketKind{Stage: stage, Direction: dir, ID: id}]
	return ctor, ok
}

// Default is the process-wide registry that pkg/packet's init()
// functions register into, and that Framer uses unless given one
// explicitly via Config.
var Default = NewRegistry()
