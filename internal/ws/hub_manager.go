package ws

import "sync"

// HubManager hands out one console hub per profile id.
type HubManager struct {
	mu          sync.Mutex
	hubs        map[string]*Hub
	historySize int
}

func NewHubManager(historySize int) *HubManager {
	return &HubManager{
		hubs:        make(map[string]*Hub),
		historySize: historySize,
	}
}

func (m *HubManager) Get(profileID string) *Hub {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hub, ok := m.hubs[profileID]; ok {
		return hub
	}
	hub := NewHub(m.historySize)
	m.hubs[profileID] = hub
	return hub
}

func (m *HubManager) Remove(profileID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hub, ok := m.hubs[profileID]; ok {
		hub.Close()
		delete(m.hubs, profileID)
	}
}
