// Package discovery advertises the operator API on the local network so
// maintenance laptops can find a kiosk without knowing its address.
package discovery

import (
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/enbility/zeroconf/v3"
)

const (
	ServiceType = "_scankiosk._tcp"
	Domain      = "local."

	txtVersion = "v=1"
)

type Config struct {
	KioskID   string
	Port      int
	Interface string // empty means all interfaces
	TTL       time.Duration
}

// Advertiser owns one mDNS registration.
type Advertiser struct {
	cfg Config

	mu     sync.Mutex
	server *zeroconf.Server
}

func NewAdvertiser(cfg Config) *Advertiser {
	return &Advertiser{cfg: cfg}
}

// Start registers the service. Calling it again replaces the registration.
func (a *Advertiser) Start() error {
	if a.cfg.Port <= 0 {
		return fmt.Errorf("discovery: invalid port %d", a.cfg.Port)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}

	var opts []zeroconf.ServerOption
	if a.cfg.TTL > 0 {
		opts = append(opts, zeroconf.TTL(uint32(a.cfg.TTL.Seconds())))
	}

	server, err := zeroconf.Register(
		InstanceName(a.cfg.KioskID),
		ServiceType,
		Domain,
		a.cfg.Port,
		TXT(a.cfg.KioskID),
		a.interfaces(),
		opts...,
	)
	if err != nil {
		return fmt.Errorf("failed to register kiosk service: %w", err)
	}
	a.server = server
	return nil
}

func (a *Advertiser) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.server != nil {
		a.server.Shutdown()
		a.server = nil
	}
}

func (a *Advertiser) interfaces() []net.Interface {
	if a.cfg.Interface == "" {
		return nil
	}
	iface, err := net.InterfaceByName(a.cfg.Interface)
	if err != nil {
		return nil
	}
	return []net.Interface{*iface}
}

// InstanceName is the advertised instance for a kiosk id.
func InstanceName(kioskID string) string {
	if kioskID == "" {
		kioskID = "unnamed"
	}
	return "kiosk-" + kioskID
}

// TXT builds the TXT records.
func TXT(kioskID string) []string {
	return []string{"id=" + kioskID, txtVersion}
}
