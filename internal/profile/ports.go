package profile

import (
	"fmt"
	"net"

	"hyserve/internal/storage"
)

// AllocatePort picks the first free port in the configured range that no
// existing profile claims and that the OS can actually bind.
func AllocatePort(store *storage.GormStore) (int, error) {
	startPort, endPort, err := store.GetPortRange()
	if err != nil {
		return 0, fmt.Errorf("error reading port range: %w", err)
	}

	profiles, err := store.ListProfiles()
	if err != nil {
		return 0, err
	}

	usedPorts := make(map[int]bool)
	for _, p := range profiles {
		usedPorts[p.Port] = true
	}

	for port := startPort; port <= endPort; port++ {
		if usedPorts[port] {
			continue
		}
		if isPortAvailable(port) {
			return port, nil
		}
	}
	return 0, fmt.Errorf("no free ports in range %d-%d", startPort, endPort)
}

func isPortAvailable(port int) bool {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", port))
	if err != nil {
		return false
	}
	ln.Close()
	return true
}
