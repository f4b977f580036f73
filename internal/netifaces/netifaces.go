// Package netifaces enumerates the host's capture-capable network
// interfaces.
package netifaces

import (
	"fmt"
	"net"
	"net/netip"

	"github.com/google/gopacket/pcap"
)

// InterfaceInfo holds a capture device name and its IPv4 addressing.
type InterfaceInfo struct {
	Name        string
	Description string
	Addrs       []netip.Addr
}

// Interfaces lists capture devices as reported by the capture backend, so
// the returned names are valid capture targets. When the backend reports
// nothing (e.g. missing capture privilege), the OS interface list is used
// instead.
func Interfaces() ([]InterfaceInfo, error) {
	devs, err := pcap.FindAllDevs()
	if err == nil && len(devs) > 0 {
		var result []InterfaceInfo
		for _, dev := range devs {
			info := InterfaceInfo{Name: dev.Name, Description: dev.Description}
			for _, addr := range dev.Addresses {
				if ip, ok := netip.AddrFromSlice(addr.IP.To4()); ok {
					info.Addrs = append(info.Addrs, ip)
				}
			}
			result = append(result, info)
		}
		return result, nil
	}
	return osInterfaces()
}

// Names returns the interface names only.
func Names() ([]string, error) {
	infos, err := Interfaces()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(infos))
	for i, info := range infos {
		names[i] = info.Name
	}
	return names, nil
}

// FindByName finds an interface by its capture device name.
func FindByName(name string) (*InterfaceInfo, error) {
	infos, err := Interfaces()
	if err != nil {
		return nil, err
	}
	for _, info := range infos {
		if info.Name == name {
			return &info, nil
		}
	}
	return nil, fmt.Errorf("interface %s not found", name)
}

func osInterfaces() ([]InterfaceInfo, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("listing interfaces: %w", err)
	}

	var result []InterfaceInfo
	for _, iface := range ifaces {
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		info := InterfaceInfo{Name: iface.Name}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip, ok := netip.AddrFromSlice(ipnet.IP.To4()); ok {
				info.Addrs = append(info.Addrs, ip)
			}
		}
		result = append(result, info)
	}
	return result, nil
}
