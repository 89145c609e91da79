// quill-pipe is a minimal TCP-facing demo that wires a framer.Framer to a
// net.Conn: it accepts connections, decodes whatever the peer sends, logs
// each packet, and answers StatusRequest/PingRequest/LoginStart with the
// canned responses needed to walk a real client through the stage
// machine. Handshake and any other packet get no reply.
//
// Usage:
//
//	quill-pipe [options]
//
// Options:
//
//	-listen       TCP address to listen on (default: 127.0.0.1:25565)
//	-threshold    compression threshold in bytes (default: 0, disabled)
//	-key          hex-encoded 16-byte shared secret (default: "", disabled)
//	-motd         status response MOTD text
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"net"
	"os"

	"github.com/pion/logging"

	"github.com/quillmc/quill/pkg/cipher"
	"github.com/quillmc/quill/pkg/framer"
	"github.com/quillmc/quill/pkg/packet"
	"github.com/quillmc/quill/pkg/protocol"
)

// Options holds quill-pipe's CLI flags.
type Options struct {
	Listen    string
	Threshold int
	Key       string
	MOTD      string
}

// DefaultOptions returns Options with sensible defaults for a local demo.
func DefaultOptions() Options {
	return Options{
		Listen:    "127.0.0.1:25565",
		Threshold: 0,
		MOTD:      "A Quill Server",
	}
}

// ParseFlags parses standard CLI flags and returns Options.
func ParseFlags() Options {
	defaults := DefaultOptions()
	o := Options{}

	flag.StringVar(&o.Listen, "listen", defaults.Listen, "TCP address to listen on")
	flag.IntVar(&o.Threshold, "threshold", defaults.Threshold, "compression threshold in bytes (0 disables compression)")
	flag.StringVar(&o.Key, "key", "", "hex-encoded 16-byte shared secret (empty disables encryption)")
	flag.StringVar(&o.MOTD, "motd", defaults.MOTD, "status response MOTD text")
	flag.Parse()

	return o
}

func main() {
	opts := ParseFlags()

	loggerFactory := logging.NewDefaultLoggerFactory()
	log := loggerFactory.NewLogger("quill-pipe")

	ln, err := net.Listen("tcp", opts.Listen)
	if err != nil {
		fmt.Fprintf(os.Stderr, "quill-pipe: listen: %v\n", err)
		os.Exit(1)
	}
	log.Infof("listening on %s", ln.Addr())

	for {
		conn, err := ln.Accept()
		if err != nil {
			log.Errorf("accept: %v", err)
			continue
		}
		go serve(conn, opts, loggerFactory)
	}
}

func serve(conn net.Conn, opts Options, loggerFactory logging.LoggerFactory) {
	defer conn.Close()
	log := loggerFactory.NewLogger("quill-pipe")

	f := framer.New(protocol.Serverbound, framer.Config{LoggerFactory: loggerFactory})
	if opts.Threshold > 0 {
		if err := f.EnableCompression(opts.Threshold); err != nil {
			log.Errorf("enable compression: %v", err)
			return
		}
	}
	if opts.Key != "" {
		keyBytes, err := hex.DecodeString(opts.Key)
		if err != nil || len(keyBytes) != cipher.KeySize {
			log.Errorf("invalid -key: must be %d hex-encoded bytes", cipher.KeySize)
			return
		}
		var key [cipher.KeySize]byte
		copy(key[:], keyBytes)
		if err := f.EnableEncryption(key); err != nil {
			log.Errorf("enable encryption: %v", err)
			return
		}
	}

	buf := make([]byte, 4096)
	for {
		n, err := conn.Read(buf)
		if n > 0 {
			if err := f.AcceptBytes(buf[:n]); err != nil {
				log.Errorf("connection %s dropped: %v", conn.RemoteAddr(), err)
				return
			}
			if err := respond(conn, f, opts, log); err != nil {
				log.Errorf("connection %s dropped: %v", conn.RemoteAddr(), err)
				return
			}
		}
		if err != nil {
			log.Infof("connection %s closed: %v", conn.RemoteAddr(), err)
			return
		}
	}
}

// respond walks the decoded inbox and writes back the canned response
// each request packet expects, demonstrating SerializePacket on the
// egress side of the same Framer.
func respond(conn net.Conn, f *framer.Framer, opts Options, log logging.LeveledLogger) error {
	for _, p := range f.TakeInbox() {
		log.Debugf("received %T from %s", p, conn.RemoteAddr())

		var reply protocol.Packet
		switch p.(type) {
		case *packet.StatusRequest:
			reply = &packet.StatusResponse{
				JSON: fmt.Sprintf(`{"version":{"name":"1.16.5","protocol":754},"description":{"text":%q}}`, opts.MOTD),
			}
		case *packet.PingRequest:
			reply = &packet.PongResponse{Payload: p.(*packet.PingRequest).Payload}
		case *packet.LoginStart:
			reply = &packet.LoginSuccess{UUID: "00000000-0000-0000-0000-000000000000", Username: p.(*packet.LoginStart).Name}
		}
		if reply == nil {
			continue
		}

		frame, err := f.SerializePacket(reply)
		if err != nil {
			return err
		}
		if _, err := conn.Write(frame); err != nil {
			return err
		}
	}
	return nil
}
