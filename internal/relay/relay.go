// Package relay implements the core packet relay engine: capture, filter,
// rewrite, resend and the session lifecycle around them.
package relay

import (
	"fmt"
	"net/netip"

	"github.com/mojo333/gamelink/internal/logger"
)

// Filter selects the captured traffic that is considered for relaying: UDP
// packets destined to OldDestination on the named interface, narrowed to
// the watched destination ports.
type Filter struct {
	Interface      string
	OldDestination netip.Addr
	WatchedPorts   []uint16
}

// BPF returns the capture filter expression for this filter.
func (f Filter) BPF() string {
	return fmt.Sprintf("udp and host %s", f.OldDestination)
}

// Rule pairs a capture filter with the destinations rewritten copies are
// sent to. A rule is built once per run and never mutated afterwards.
type Rule struct {
	Filter          Filter
	NewDestinations []netip.Addr
}

// SendFunc transmits one serialized IPv4 packet to dst.
type SendFunc func(packet []byte, dst netip.Addr) error

// Engine rewrites captured packets and relays one copy per configured
// destination. Transmission is fire-and-forget; there is no retry.
type Engine struct {
	rule  Rule
	ports map[uint16]struct{}
	send  SendFunc
	log   *logger.Logger
}

// NewEngine creates the rewrite engine for one rule.
func NewEngine(rule Rule, send SendFunc, log *logger.Logger) *Engine {
	ports := make(map[uint16]struct{}, len(rule.Filter.WatchedPorts))
	for _, p := range rule.Filter.WatchedPorts {
		ports[p] = struct{}{}
	}
	return &Engine{rule: rule, ports: ports, send: send, log: log}
}

// HandlePacket relays a captured packet if its destination port is watched:
// exactly one copy per configured destination, preserving source address,
// source port, destination port and payload. It returns the number of
// copies sent. Any build or send failure aborts the relay session; partial
// success is not tolerated.
func (e *Engine) HandlePacket(pkt *CapturedPacket) (int, error) {
	if _, watched := e.ports[pkt.DstPort]; !watched {
		return 0, nil
	}

	sent := 0
	for _, dst := range e.rule.NewDestinations {
		out, err := BuildPacket(pkt.SrcAddr, pkt.SrcPort, dst, pkt.DstPort, pkt.Payload)
		if err != nil {
			return sent, fmt.Errorf("building packet for %s: %w", dst, err)
		}
		if err := e.send(out, dst); err != nil {
			return sent, err
		}
		sent++
	}

	if sent > 0 {
		e.log.Info("Sent %d packets.", sent)
		e.log.Debug("Captured original packet src: %s:%d -> dst: %s:%d",
			pkt.SrcAddr, pkt.SrcPort, e.rule.Filter.OldDestination, pkt.DstPort)
		for _, dst := range e.rule.NewDestinations {
			e.log.Debug("Sent modified packet     src: %s:%d -> dst: %s:%d",
				pkt.SrcAddr, pkt.SrcPort, dst, pkt.DstPort)
		}
	}
	return sent, nil
}
