package relay

import (
	"fmt"
	"net/netip"
	"sync"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

const snapshotLen = 65535

// CapturedPacket is the view of one captured UDP packet handed to the
// capture callback. It is only valid for the duration of the callback.
type CapturedPacket struct {
	SrcAddr netip.Addr
	SrcPort uint16
	DstPort uint16
	Payload []byte
}

// Sniffer captures UDP traffic matching a BPF filter on one interface and
// invokes a callback once per matching packet. The capture loop runs on its
// own goroutine; startup confirmation and startup failure are signalled
// through channels so the caller never blocks on a capture that has already
// failed.
type Sniffer struct {
	iface  string
	filter string

	mu      sync.Mutex
	handle  *pcap.Handle
	stopped bool

	started chan struct{}
	errCh   chan error
	stopCh  chan struct{}
	doneCh  chan struct{}
}

// NewSniffer creates a sniffer for the given interface and BPF filter
// expression. Nothing is opened until Start.
func NewSniffer(iface, filter string) *Sniffer {
	return &Sniffer{
		iface:   iface,
		filter:  filter,
		started: make(chan struct{}),
		errCh:   make(chan error, 1),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start launches the capture loop. The callback executes on the capture
// goroutine and directly delays delivery of the next packet, so it must
// return quickly.
func (s *Sniffer) Start(callback func(*CapturedPacket)) {
	go s.run(callback)
}

// Started returns a channel that is closed once the backend has actually
// begun capturing.
func (s *Sniffer) Started() <-chan struct{} {
	return s.started
}

// Err returns the single-slot channel carrying a capture startup error
// (interface not found, insufficient privilege).
func (s *Sniffer) Err() <-chan error {
	return s.errCh
}

// Stop terminates the capture loop and waits for it to exit. Safe to call
// more than once.
func (s *Sniffer) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		close(s.stopCh)
		if s.handle != nil {
			// Unblocks the packet source; its channel then closes.
			s.handle.Close()
		}
	}
	s.mu.Unlock()
	<-s.doneCh
}

func (s *Sniffer) run(callback func(*CapturedPacket)) {
	defer close(s.doneCh)

	handle, err := pcap.OpenLive(s.iface, snapshotLen, true, pcap.BlockForever)
	if err != nil {
		s.errCh <- fmt.Errorf("cannot open capture on %s: %w", s.iface, err)
		return
	}
	if err := handle.SetBPFFilter(s.filter); err != nil {
		handle.Close()
		s.errCh <- fmt.Errorf("cannot install filter %q on %s: %w", s.filter, s.iface, err)
		return
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		handle.Close()
		return
	}
	s.handle = handle
	s.mu.Unlock()

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	source.NoCopy = true
	packets := source.Packets()

	close(s.started)

	for {
		select {
		case <-s.stopCh:
			return
		case pkt, ok := <-packets:
			if !ok {
				return
			}
			deliver(pkt, callback)
		}
	}
}

// deliver extracts the UDP view of a captured packet. The BPF filter only
// passes UDP, but decode failures (truncated frames) are still skipped.
func deliver(pkt gopacket.Packet, callback func(*CapturedPacket)) {
	ip4, _ := pkt.Layer(layers.LayerTypeIPv4).(*layers.IPv4)
	udp, _ := pkt.Layer(layers.LayerTypeUDP).(*layers.UDP)
	if ip4 == nil || udp == nil {
		return
	}
	src, ok := netip.AddrFromSlice(ip4.SrcIP.To4())
	if !ok {
		return
	}
	callback(&CapturedPacket{
		SrcAddr: src,
		SrcPort: uint16(udp.SrcPort),
		DstPort: uint16(udp.DstPort),
		Payload: udp.Payload,
	})
}
