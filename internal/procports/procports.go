// Package procports discovers the local UDP ports of a running process and
// monitors broadcast traffic originating from them. This is the diagnostic
// path for finding out which ports an unlisted game announces itself on.
package procports

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"strings"

	gnet "github.com/shirou/gopsutil/v4/net"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/mojo333/gamelink/internal/logger"
	"github.com/mojo333/gamelink/internal/relay"
)

const broadcastFilter = "udp and dst host 255.255.255.255"

// UDPPorts returns the local UDP ports of all processes whose name contains
// name, case-insensitively.
func UDPPorts(name string, log *logger.Logger) ([]uint16, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	needle := strings.ToLower(name)
	seen := make(map[uint16]struct{})
	var ports []uint16
	for _, p := range procs {
		pname, err := p.Name()
		if err != nil || pname == "" {
			continue
		}
		if !strings.Contains(strings.ToLower(pname), needle) {
			continue
		}
		conns, err := gnet.ConnectionsPid("udp", p.Pid)
		if err != nil {
			log.Warning("Access denied or process no longer available: %s", pname)
			continue
		}
		for _, conn := range conns {
			port := uint16(conn.Laddr.Port)
			if port == 0 {
				continue
			}
			if _, dup := seen[port]; !dup {
				seen[port] = struct{}{}
				ports = append(ports, port)
			}
		}
		log.Info("Successfully scanned UDP sockets for process '%s' (PID %d).", pname, p.Pid)
	}
	slices.Sort(ports)
	return ports, nil
}

// Monitor captures broadcast packets sourced from the UDP ports of the
// named process and logs each one, until "exit" or an interrupt. A process
// without open UDP sockets is reported and is not an error.
func Monitor(processName, iface string, log *logger.Logger) error {
	ports, err := UDPPorts(processName, log)
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		log.Warning("No open UDP sockets found for '%s'.", processName)
		return nil
	}
	log.Info("Monitoring of UDP broadcasts on ports: %v", ports)

	watched := make(map[uint16]struct{}, len(ports))
	for _, p := range ports {
		watched[p] = struct{}{}
	}

	sniffer := relay.NewSniffer(iface, broadcastFilter)
	sniffer.Start(func(pkt *relay.CapturedPacket) {
		if _, ok := watched[pkt.SrcPort]; ok {
			log.Info("Broadcast packet detected: %s:%d -> :%d (%d bytes)",
				pkt.SrcAddr, pkt.SrcPort, pkt.DstPort, len(pkt.Payload))
		}
	})

	select {
	case <-sniffer.Started():
	case err := <-sniffer.Err():
		return err
	}

	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
		close(lines)
	}()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)
	defer signal.Stop(interrupt)

	fmt.Println("Enter 'exit' or press Ctrl+C to close this program.")
	for {
		select {
		case <-interrupt:
			sniffer.Stop()
			log.Info("Sniffer stopped.")
			return nil
		case line, ok := <-lines:
			if !ok || line == "exit" {
				sniffer.Stop()
				log.Info("Sniffer stopped.")
				return nil
			}
		}
	}
}
