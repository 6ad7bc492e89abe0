// Package beep tells the local sound daemon that a scan was received.
package beep

import (
	"fmt"
	"net"
	"sync"
)

const (
	DefaultAddr = "127.0.0.1:5005"
	payload     = "BEEP"
)

// UDPBeeper sends one datagram per acknowledgement. The daemon plays the
// sound; nothing is read back.
type UDPBeeper struct {
	mu   sync.Mutex
	conn net.Conn
}

func NewUDPBeeper(addr string) (*UDPBeeper, error) {
	if addr == "" {
		addr = DefaultAddr
	}
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, fmt.Errorf("beep: dial %s: %w", addr, err)
	}
	return &UDPBeeper{conn: conn}, nil
}

func (b *UDPBeeper) Ack() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, err := b.conn.Write([]byte(payload))
	return err
}

func (b *UDPBeeper) Close() error {
	return b.conn.Close()
}

// Nop is used when the beeper is disabled.
type Nop struct{}

func (Nop) Ack() error { return nil }
