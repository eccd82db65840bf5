package api

import (
	"log"
	"net"
)

var loopbackIpNet = net.IPNet{IP: net.IPv4(127, 0, 0, 1).To4(), Mask: net.CIDRMask(32, 32)}

// serverIpNet picks the first non-loopback IPv4 address of an interface
// that is up. Analytics rows are keyed by it.
func serverIpNet() net.IPNet {
	ifaces, err := net.Interfaces()
	if err != nil {
		log.Println("failed to list interfaces:", err)
		return loopbackIpNet
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		if iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			log.Println(err)
			continue
		}

		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}

			if ip4 := ipnet.IP.To4(); ip4 != nil && !ip4.IsLoopback() {
				return net.IPNet{IP: ip4, Mask: net.CIDRMask(32, 32)}
			}
		}
	}

	log.Println("no non-loopback ipv4 address found; using loopback for analytics")
	return loopbackIpNet
}
