// Package discovery advertises the server on the local network over mDNS so
// LAN clients can find a board host without typing an address.
package discovery

import (
	"fmt"
	"os"
	"strconv"

	"github.com/hashicorp/mdns"
)

const serviceType = "_drawspace._tcp"

// Advertise announces the server's websocket port over mDNS. Close the
// returned server on shutdown.
func Advertise(instanceName string, port int) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if instanceName == "" {
		instanceName = host
	}

	service, err := mdns.NewMDNSService(
		instanceName,
		serviceType,
		"",   // domain, defaults to .local
		"",   // hostname, defaults to the OS hostname
		port,
		nil,  // auto-detect IPs
		[]string{"drawspace"},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

// Browse looks up advertised servers on the LAN, invoking found with each
// host:port discovered.
func Browse(found func(addr string)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	go func() {
		for e := range entries {
			if e.AddrV4 == nil || e.Port == 0 {
				continue
			}
			found(e.AddrV4.String() + ":" + strconv.Itoa(e.Port))
		}
	}()
	return mdns.Lookup(serviceType, entries)
}
