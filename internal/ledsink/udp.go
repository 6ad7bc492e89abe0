package ledsink

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/fxamacker/cbor/v2"

	"scan_kiosk/internal/feedback"
)

// Frame is what the strip daemon receives: one CBOR map per tick with
// integer keys. Seq lets the daemon drop reordered datagrams.
type Frame struct {
	Seq uint32 `cbor:"1,keyasint"`
	R   uint8  `cbor:"2,keyasint"`
	G   uint8  `cbor:"3,keyasint"`
	B   uint8  `cbor:"4,keyasint"`
}

var frameEncMode cbor.EncMode

func init() {
	var err error
	frameEncMode, err = cbor.EncOptions{
		Sort:        cbor.SortCanonical,
		IndefLength: cbor.IndefLengthForbidden,
	}.EncMode()
	if err != nil {
		panic(fmt.Sprintf("ledsink: cbor encoder mode: %v", err))
	}
}

// EncodeFrame encodes f for the wire.
func EncodeFrame(f Frame) ([]byte, error) {
	return frameEncMode.Marshal(f)
}

// DecodeFrame is the daemon-side counterpart of EncodeFrame.
func DecodeFrame(b []byte) (Frame, error) {
	var f Frame
	err := cbor.Unmarshal(b, &f)
	return f, err
}

// UDPSink hands colors to the privileged strip daemon over loopback UDP.
// Datagram sends do not wait on the receiver.
type UDPSink struct {
	conn net.Conn
	seq  atomic.Uint32
}

func NewUDPSink(addr string) (*UDPSink, error) {
	if addr == "" {
		return nil, errors.New("ledsink udp: endpoint required")
	}
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("ledsink udp: dial %s: %w", addr, err)
	}
	return &UDPSink{conn: conn}, nil
}

func (s *UDPSink) Write(c feedback.Color) error {
	b, err := EncodeFrame(Frame{Seq: s.seq.Add(1), R: c.R, G: c.G, B: c.B})
	if err != nil {
		return err
	}
	_, err = s.conn.Write(b)
	return err
}

func (s *UDPSink) Close() error {
	return s.conn.Close()
}
