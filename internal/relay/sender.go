package relay

import (
	"fmt"
	"net/netip"

	"golang.org/x/sys/unix"
)

// Sender transmits serialized IPv4 packets through a layer-3 raw socket.
// The kernel handles ethernet framing, neighbor resolution and routing.
type Sender struct {
	fd int
}

// NewSender opens the raw send socket. Requires CAP_NET_RAW.
func NewSender() (*Sender, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_RAW)
	if err != nil {
		return nil, fmt.Errorf("cannot create raw send socket: %w", err)
	}
	return &Sender{fd: fd}, nil
}

// Send transmits one packet to dst. IPPROTO_RAW implies IP_HDRINCL, so the
// packet must carry a complete IPv4 header.
func (s *Sender) Send(packet []byte, dst netip.Addr) error {
	sa := &unix.SockaddrInet4{Addr: dst.As4()}
	if err := unix.Sendto(s.fd, packet, 0, sa); err != nil {
		return fmt.Errorf("send to %s: %w", dst, err)
	}
	return nil
}

// Close releases the socket.
func (s *Sender) Close() error {
	return unix.Close(s.fd)
}
