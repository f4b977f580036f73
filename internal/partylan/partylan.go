// Package partylan extracts peer addresses from a PartyLAN installation's
// peer discovery log. PartyLAN assigns every Steam peer a synthetic address
// inside the CG-NAT block; replaying its session log through the same
// derivation yields the addresses the peers are reachable on.
package partylan

import (
	"fmt"
	"net/netip"
	"os"
	"path/filepath"
)

// PartyLAN installation defaults.
const (
	LogFilename   = "lpvpn.log.txt"
	InterfaceName = "PartyLAN Tunnel"
)

// Source reads one PartyLAN peer discovery log.
type Source struct {
	path    string
	content string
}

// Open reads the peer discovery log inside the PartyLAN directory dir.
func Open(dir string) (*Source, error) {
	path := filepath.Join(dir, LogFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading partylan log: %w", err)
	}
	return &Source{path: path, content: string(data)}, nil
}

// Addresses parses the log with the given status filter and derives one
// address per distinct peer, in first-appearance order. Mappings are scoped
// to this call; a later run may assign a peer a different address if
// collisions force a different offset.
func (s *Source) Addresses(filter Status) ([]netip.Addr, error) {
	resolver := NewCGNATResolver()
	for _, entry := range ParseLog(s.content, filter) {
		if _, err := resolver.Assign(entry.PeerID); err != nil {
			return nil, err
		}
	}
	return resolver.Addresses(), nil
}

// Interface returns the name of the PartyLAN tunnel interface.
func (s *Source) Interface() string {
	return InterfaceName
}
