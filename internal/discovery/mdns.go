// Package discovery announces the editor server on the local network
// over mDNS and finds other announced servers.
package discovery

import (
	"fmt"
	"net"
	"os"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_planer._tcp"

// Advertise announces the server on port. The returned function stops
// the announcement.
func Advertise(port int) (func() error, error) {
	service, err := newService(port, nil)
	if err != nil {
		return nil, err
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mdns server: %w", err)
	}
	return server.Shutdown, nil
}

// newService builds the zone for this host. A nil ips lets mdns resolve
// the host's addresses.
func newService(port int, ips []net.IP) (*mdns.MDNSService, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("get hostname: %w", err)
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, ips, []string{"planer"})
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}
	return service, nil
}

// Browse looks up announced servers for timeout and reports each
// "ip:port" it finds.
func Browse(timeout time.Duration, found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		forward(entries, found)
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return fmt.Errorf("mdns query: %w", err)
	}
	return nil
}

// forward reports the reachable entries until entries is closed. Entries
// without an IPv4 address or port cannot be dialed and are dropped.
func forward(entries <-chan *mdns.ServiceEntry, found func(addr string)) {
	for e := range entries {
		if e.AddrV4 == nil || e.Port == 0 {
			continue
		}
		found(fmt.Sprintf("%s:%d", e.AddrV4, e.Port))
	}
}
