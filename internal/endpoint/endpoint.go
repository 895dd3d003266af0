// Package endpoint derives the network or filesystem address a worker
// listens on from its endpoint name, deterministically and without any
// shared state between gateway and worker.
package endpoint

import "fmt"

// PortFromName hashes name into a port in [9000, 9999]. The hash is a
// byte-folded multiply-add over the raw bytes, chosen to match bit for bit
// across Go and non-Go implementations that fold the same way with 32-bit
// unsigned wraparound.
func PortFromName(name string) uint16 {
	var h uint32
	for i := 0; i < len(name); i++ {
		h = h*31 + uint32(name[i])
	}
	return uint16(9000 + (h % 1000))
}

// HTTPAddressFromName derives the loopback HTTP address a worker in
// HTTP mode binds to.
func HTTPAddressFromName(name string) string {
	return fmt.Sprintf("127.0.0.1:%d", PortFromName(name))
}
