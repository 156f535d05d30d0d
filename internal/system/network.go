package system

import (
	"net"
	"net/netip"
	"slices"
	"strings"

	"github.com/google/uuid"
	psnet "github.com/shirou/gopsutil/v4/net"

	"github.com/sentineledge/hostreport/pkg/models"
)

func isLoopback(iface psnet.InterfaceStat) bool {
	return slices.Contains(iface.Flags, "loopback")
}

// firstIPv4 returns the first IPv4 address bound to a non-loopback
// interface, falling back to a loopback address when that is all there is.
func firstIPv4(ifaces psnet.InterfaceStatList) (string, error) {
	var loopback string
	for _, iface := range ifaces {
		for _, a := range iface.Addrs {
			addr, ok := parseInterfaceAddr(a.Addr)
			if !ok || !addr.Is4() {
				continue
			}
			if isLoopback(iface) || addr.IsLoopback() {
				if loopback == "" {
					loopback = addr.String()
				}
				continue
			}
			return addr.String(), nil
		}
	}
	if loopback != "" {
		return loopback, nil
	}
	return "", models.ErrNotAvailable
}

// parseInterfaceAddr accepts both "192.168.1.10/24" and bare addresses.
func parseInterfaceAddr(s string) (netip.Addr, bool) {
	if prefix, err := netip.ParsePrefix(s); err == nil {
		return prefix.Addr().Unmap(), true
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// hardwareID derives a stable identifier from the first non-loopback
// interface carrying a 48-bit MAC, in name order. The MAC fills the low six
// bytes of the UUID.
func hardwareID(ifaces psnet.InterfaceStatList) (uuid.UUID, error) {
	sorted := slices.Clone(ifaces)
	slices.SortFunc(sorted, func(a, b psnet.InterfaceStat) int {
		return strings.Compare(a.Name, b.Name)
	})

	for _, iface := range sorted {
		if isLoopback(iface) || iface.HardwareAddr == "" {
			continue
		}
		mac, err := net.ParseMAC(iface.HardwareAddr)
		if err != nil || len(mac) != 6 || isZeroMAC(mac) {
			continue
		}
		var id uuid.UUID
		copy(id[10:], mac)
		return id, nil
	}
	return uuid.Nil, models.ErrNotAvailable
}

func isZeroMAC(mac net.HardwareAddr) bool {
	for _, b := range mac {
		if b != 0 {
			return false
		}
	}
	return true
}
